//go:build cgo && !use_seppedelanghe_libraw

package decode

import (
	"image"

	golibraw "github.com/inokone/golibraw"

	"github.com/adewale/dupehash/internal/perr"
)

// LibRawImpl identifies which LibRaw binding is in use.
const LibRawImpl = "inokone/golibraw"

// decodeRAW decodes a RAW file via LibRaw (inokone/golibraw).
func decodeRAW(path string) (image.Image, error) {
	img, err := golibraw.ImportRaw(path)
	if err != nil {
		return nil, perr.New(perr.KindDecode, err, path).WithFormat("raw")
	}
	return img, nil
}

// rawSupported reports whether LibRaw support is compiled into this build.
func rawSupported() bool { return true }
