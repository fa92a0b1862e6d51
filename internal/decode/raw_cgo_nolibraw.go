//go:build !cgo

package decode

import (
	"errors"
	"image"
)

// LibRawImpl identifies that RAW support is disabled in non-CGO builds.
const LibRawImpl = "disabled (CGO required)"

func decodeRAW(path string) (image.Image, error) {
	return nil, errors.New("decode: RAW support requires CGO and LibRaw (build with CGO_ENABLED=1)")
}

func rawSupported() bool { return false }
