package scene

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func solidImage(c color.RGBA, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSignatureSize(t *testing.T) {
	t.Parallel()

	sig := ComputeSignature(solidImage(color.RGBA{R: 255, A: 255}, 16, 16))
	if len(sig) != HueBins*SatBins {
		t.Fatalf("signature has %d buckets, expected %d", len(sig), HueBins*SatBins)
	}
}

func TestSimilarityIdenticalImages(t *testing.T) {
	t.Parallel()

	a := ComputeSignature(solidImage(color.RGBA{R: 200, G: 30, B: 30, A: 255}, 32, 32))
	b := ComputeSignature(solidImage(color.RGBA{R: 200, G: 30, B: 30, A: 255}, 32, 32))

	sim := Similarity(a, b)
	if math.Abs(sim-1.0) > 1e-9 {
		t.Fatalf("identical images should have similarity 1.0, got %f", sim)
	}
}

func TestSimilarityDisjointHues(t *testing.T) {
	t.Parallel()

	red := ComputeSignature(solidImage(color.RGBA{R: 255, A: 255}, 32, 32))
	blue := ComputeSignature(solidImage(color.RGBA{B: 255, A: 255}, 32, 32))

	// One-hot histograms in different buckets are slightly anti-correlated;
	// the clamp must floor the result at 0.
	sim := Similarity(red, blue)
	if sim != 0 {
		t.Fatalf("disjoint one-hot histograms should clamp to 0, got %f", sim)
	}
}

func TestSimilarityNeverNegative(t *testing.T) {
	t.Parallel()

	a := make(Signature, 4)
	b := make(Signature, 4)
	a[0], a[1] = 1, 0.5
	b[2], b[3] = 1, 0.5

	if sim := Similarity(a, b); sim < 0 {
		t.Fatalf("similarity must never be negative, got %f", sim)
	}
}

func TestSimilarityFlatHistograms(t *testing.T) {
	t.Parallel()

	flat := make(Signature, 8)
	other := make(Signature, 8)
	other[0] = 1

	if sim := Similarity(flat, flat); sim != 1 {
		t.Fatalf("two flat histograms should compare as identical, got %f", sim)
	}
	if sim := Similarity(flat, other); sim != 0 {
		t.Fatalf("flat vs non-flat should compare as dissimilar, got %f", sim)
	}
}

func TestSimilarityLengthMismatch(t *testing.T) {
	t.Parallel()

	if sim := Similarity(make(Signature, 3), make(Signature, 4)); sim != 0 {
		t.Fatalf("mismatched signature lengths should yield 0, got %f", sim)
	}
	if sim := Similarity(nil, nil); sim != 0 {
		t.Fatalf("empty signatures should yield 0, got %f", sim)
	}
}

func TestRGBToHueSatKnownColors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		r, g, b uint8
		hue     int
		sat     int
	}{
		{"red", 255, 0, 0, 0, 255},
		{"green", 0, 255, 0, 60, 255},
		{"blue", 0, 0, 255, 120, 255},
		{"white", 255, 255, 255, 0, 0},
		{"black", 0, 0, 0, 0, 0},
	}

	for _, tc := range cases {
		hue, sat := rgbToHueSat(tc.r, tc.g, tc.b)
		if hue != tc.hue || sat != tc.sat {
			t.Errorf("%s: got hue=%d sat=%d, expected hue=%d sat=%d",
				tc.name, hue, sat, tc.hue, tc.sat)
		}
	}
}

func TestNormalizeMinMaxBounds(t *testing.T) {
	t.Parallel()

	hist := Signature{3, 7, 5, 3}
	normalizeMinMax(hist)

	for i, v := range hist {
		if v < 0 || v > 1 {
			t.Fatalf("bucket %d out of [0,1] after normalization: %f", i, v)
		}
	}
	if hist[0] != 0 || hist[1] != 1 {
		t.Fatalf("min should map to 0 and max to 1, got min=%f max=%f", hist[0], hist[1])
	}
}
