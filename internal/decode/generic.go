package decode

import (
	"image"
	_ "image/gif"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/adewale/dupehash/internal/perr"
)

// decodeGeneric handles the Other format family: anything not explicitly
// dispatched above is handed to the standard image.Decode registry.
func decodeGeneric(path string, info os.FileInfo) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.New(perr.KindIo, err, path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, perr.New(perr.KindUnsupported, err, path)
	}
	return img, nil
}
