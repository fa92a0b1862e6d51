package decode

import (
	"image"

	"github.com/nfnt/resize"
)

// sizeTier picks the max dimension and resampling filter for a file of the
// given byte size, per SPEC_FULL.md §4.2's file-size-tiered downscale table.
func sizeTier(fileSize int64) (maxDimension uint, filter resize.InterpolationFunction) {
	switch {
	case fileSize > 300*1024*1024:
		return 768, resize.NearestNeighbor
	case fileSize > 100*1024*1024:
		return 896, resize.Bilinear // the Go analogue of the original's Triangle filter
	default:
		return 1024, resize.Lanczos3
	}
}

// downscaleForHashing resizes img if either dimension exceeds the size
// tier's max dimension, preserving aspect ratio. Images already within
// budget are returned unchanged.
func downscaleForHashing(img image.Image, fileSize int64) image.Image {
	maxDim, filter := sizeTier(fileSize)

	bounds := img.Bounds()
	width, height := uint(bounds.Dx()), uint(bounds.Dy())
	if width <= maxDim && height <= maxDim {
		return img
	}

	var newWidth, newHeight uint
	if width >= height {
		newWidth = maxDim
	} else {
		newHeight = maxDim
	}
	return resize.Resize(newWidth, newHeight, img, filter)
}

// resizeBilinear constrains the longest edge of img to maxDim using the
// balanced (Bilinear) filter, preserving aspect ratio.
func resizeBilinear(img image.Image, maxDim uint) image.Image {
	bounds := img.Bounds()
	width, height := uint(bounds.Dx()), uint(bounds.Dy())
	var newWidth, newHeight uint
	if width >= height {
		newWidth = maxDim
	} else {
		newHeight = maxDim
	}
	return resize.Resize(newWidth, newHeight, img, resize.Bilinear)
}
