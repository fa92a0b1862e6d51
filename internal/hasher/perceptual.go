package hasher

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/adewale/dupehash/pkg/models"
)

// StandardPerceptualHash computes the 64-bit Standard fingerprint of img:
// reduce to exactly 8x8 with a nearest-neighbour point sample, convert to
// greyscale, threshold against the mean, and pack bits LSB-first in
// row-major order. This exact layout is binding (SPEC_FULL.md §4.3): it
// must be reproducible bit-for-bit across runs and across any future
// hardware-accelerated implementation, which is why the reduction uses
// golang.org/x/image/draw's pure point sampler rather than a library
// perceptual-hash implementation's own internal resize.
func StandardPerceptualHash(img image.Image) models.PerceptualHash {
	gray := reduceToGrayscale(img, 8, 8)
	return models.NewStandard(packBits(gray))
}

// EnhancedPerceptualHash computes the 1024-bit Enhanced fingerprint: the
// same reduction and thresholding at 32x32, packed into 16 lanes of 64 bits
// each, lane s covering pixel indices s*64..s*64+63.
func EnhancedPerceptualHash(img image.Image) models.PerceptualHash {
	gray := reduceToGrayscale(img, 32, 32)
	var lanes [16]uint64
	for lane := 0; lane < 16; lane++ {
		lanes[lane] = packBitsRange(gray, lane*64, 64)
	}
	return models.NewEnhanced(lanes)
}

// reduceToGrayscale point-samples img down to w x h using nearest-neighbour
// scaling, then computes Y = 0.299R + 0.587G + 0.114B for each pixel,
// returned in row-major order.
func reduceToGrayscale(img image.Image, w, h int) []float64 {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	out := make([]float64, w*h)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := dst.At(x, y).RGBA()
			// RGBA() returns 16-bit-scaled components; reduce to 8-bit range.
			rf := float64(r >> 8)
			gf := float64(g >> 8)
			bf := float64(b >> 8)
			out[i] = 0.299*rf + 0.587*gf + 0.114*bf
			i++
		}
	}
	return out
}

// mean returns the arithmetic mean of values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// packBits thresholds values (expected length 64) against their mean and
// packs the result LSB-first in row-major order into a single uint64: bit i
// set iff values[i] > mean.
func packBits(values []float64) uint64 {
	return packBitsRange(values, 0, len(values))
}

// packBitsRange thresholds values[offset:offset+count] against the mean of
// the FULL values slice and packs count bits (count <= 64) LSB-first,
// matching SPEC_FULL.md §4.3's lane layout for the Enhanced variant.
func packBitsRange(values []float64, offset, count int) uint64 {
	mu := mean(values)
	var bits uint64
	for i := 0; i < count; i++ {
		if values[offset+i] > mu {
			bits |= 1 << uint(i)
		}
	}
	return bits
}
