// Package decode loads an image file into an in-memory surface, dispatching
// on format with per-format recovery strategies, and applies the file-size
// tiered downscale budget before the result reaches the hasher.
package decode

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/adewale/dupehash/internal/perr"
	"github.com/adewale/dupehash/pkg/models"
)

// Image is the decoded surface type hashers operate on.
type Image = image.Image

// rawExtensions is the set of extensions dispatched to the RAW decoder.
var rawExtensions = map[string]bool{
	".raw": true, ".dng": true, ".cr2": true, ".nef": true, ".arw": true,
	".orf": true, ".rw2": true, ".nrw": true, ".raf": true, ".crw": true,
	".pef": true, ".srw": true, ".x3f": true, ".rwl": true, ".3fr": true,
}

// FormatFromExtension maps a lowercase file extension to its FormatTag,
// per SPEC_FULL.md §3.
func FormatFromExtension(ext string) models.FormatTag {
	switch ext {
	case ".jpg", ".jpeg":
		return models.FormatJpeg
	case ".png":
		return models.FormatPng
	case ".tif", ".tiff":
		return models.FormatTiff
	case ".heic", ".heif":
		return models.FormatHeic
	default:
		if rawExtensions[ext] {
			return models.FormatRaw
		}
		return models.FormatOther(strings.TrimPrefix(ext, "."))
	}
}

// Decode loads path, dispatching on its extension (confirmed by magic-byte
// sniffing where the format files need it), and returns a surface
// downscaled per the file-size tier. On failure the caller should fall back
// to FallbackFingerprint.
func Decode(path string) (img Image, format models.FormatTag, err error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		return nil, models.FormatTag{}, perr.New(perr.KindIo, statErr, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	format = FormatFromExtension(ext)

	switch format {
	case models.FormatJpeg:
		img, err = decodeJPEG(path, info)
		if err != nil {
			// A JPEG extension sometimes hides HEIC content; reclassify and retry.
			if looksLikeHeic(path) {
				format = models.FormatHeic
				img, err = decodeHEIC(path, info)
			}
		}
	case models.FormatPng:
		img, err = decodePNG(path, info)
	case models.FormatTiff:
		img, err = decodeTIFF(path, info)
	case models.FormatHeic:
		img, err = decodeHEIC(path, info)
	case models.FormatRaw:
		img, err = decodeRAWDispatch(path, info)
	default:
		img, err = decodeGeneric(path, info)
	}

	if err != nil {
		return nil, format, err
	}

	img = downscaleForHashing(img, info.Size())
	return img, format, nil
}
