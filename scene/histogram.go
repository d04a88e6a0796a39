package scene

import (
	"image"
	"math"
)

// Histogram geometry matches the extraction pipeline this replaces: a 2-D
// hue x saturation histogram over HSV space, hue in [0,180) across 50 buckets
// and saturation in [0,256) across 60 buckets.
const (
	HueBins = 50
	SatBins = 60
)

// Signature is a min-max normalized color histogram used to compare frames.
type Signature []float64

// ComputeSignature builds the HSV hue/saturation histogram of img and
// normalizes it to [0,1] per bucket.
func ComputeSignature(img image.Image) Signature {
	hist := make(Signature, HueBins*SatBins)
	bounds := img.Bounds()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			hue, sat := rgbToHueSat(uint8(r>>8), uint8(g>>8), uint8(b>>8))

			hueBin := int(float64(hue) * HueBins / 180)
			if hueBin >= HueBins {
				hueBin = HueBins - 1
			}
			satBin := int(float64(sat) * SatBins / 256)
			if satBin >= SatBins {
				satBin = SatBins - 1
			}
			hist[hueBin*SatBins+satBin]++
		}
	}

	normalizeMinMax(hist)
	return hist
}

// rgbToHueSat converts an 8-bit RGB pixel to hue in [0,180) and saturation
// in [0,255], the 8-bit HSV convention.
func rgbToHueSat(r, g, b uint8) (int, int) {
	rf := float64(r)
	gf := float64(g)
	bf := float64(b)

	maxV := math.Max(rf, math.Max(gf, bf))
	minV := math.Min(rf, math.Min(gf, bf))
	delta := maxV - minV

	var sat float64
	if maxV > 0 {
		sat = 255 * delta / maxV
	}

	var hue float64
	if delta > 0 {
		switch maxV {
		case rf:
			hue = 60 * (gf - bf) / delta
		case gf:
			hue = 120 + 60*(bf-rf)/delta
		default:
			hue = 240 + 60*(rf-gf)/delta
		}
		if hue < 0 {
			hue += 360
		}
	}

	h := int(hue / 2)
	if h >= 180 {
		h = 179
	}
	return h, int(sat)
}

func normalizeMinMax(hist Signature) {
	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for _, v := range hist {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV == minV {
		for i := range hist {
			hist[i] = 0
		}
		return
	}
	scale := maxV - minV
	for i := range hist {
		hist[i] = (hist[i] - minV) / scale
	}
}

// Similarity computes the Pearson correlation between two signatures and
// clamps negative values to 0: strong anti-correlation carries no extra
// discriminative meaning here, and unclamped negatives would rank the most
// dissimilar frames above merely-different ones.
func Similarity(a, b Signature) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	n := float64(len(a))
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	denom := math.Sqrt(varA * varB)
	if denom == 0 {
		// Two flat histograms are indistinguishable; one flat, one not means
		// the correlation is undefined and we treat them as dissimilar.
		if varA == 0 && varB == 0 {
			return 1
		}
		return 0
	}

	corr := cov / denom
	if corr < 0 {
		return 0
	}
	return corr
}
