package dataset

import (
	"image"
	"math/bits"
)

const hashSide = 8

// AverageHash computes an 8x8 average perceptual hash of the image: each bit
// is set when the corresponding cell's mean luma exceeds the global mean.
// Near-duplicate frames land within a small Hamming distance of each other.
func AverageHash(img image.Image) uint64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return 0
	}

	var cells [hashSide * hashSide]float64
	var counts [hashSide * hashSide]float64

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		cy := (y - bounds.Min.Y) * hashSide / height
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cx := (x - bounds.Min.X) * hashSide / width
			r, g, b, _ := img.At(x, y).RGBA()
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			idx := cy*hashSide + cx
			cells[idx] += luma
			counts[idx]++
		}
	}

	var mean float64
	for i := range cells {
		if counts[i] > 0 {
			cells[i] /= counts[i]
		}
		mean += cells[i]
	}
	mean /= hashSide * hashSide

	var hash uint64
	for i, v := range cells {
		if v > mean {
			hash |= 1 << uint(i)
		}
	}
	return hash
}

// HammingDistance counts differing bits between two hashes.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
