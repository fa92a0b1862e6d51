package decode

import (
	"image/png"
	"os"

	"github.com/adewale/dupehash/internal/perr"
)

// decodePNG decodes a PNG file directly; PNG has no recovery path in the
// original implementation and none is added here.
func decodePNG(path string, info os.FileInfo) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.New(perr.KindIo, err, path)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, perr.New(perr.KindDecode, err, path).WithFormat("png")
	}
	return img, nil
}
