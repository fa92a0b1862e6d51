package decode

import (
	"bytes"
	"image/jpeg"
	"os"

	"github.com/adewale/dupehash/internal/perr"
)

// decodeJPEG decodes a JPEG file, attempting the original Rust
// implementation's corruption-recovery strategy on failure: unless the file
// sniffs as HEIC (left to the caller to re-dispatch), scan the file for the
// first SOI marker (0xFF 0xD8) and retry decoding from there.
func decodeJPEG(path string, info os.FileInfo) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.New(perr.KindIo, err, path)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}

	if looksLikeHeic(path) {
		return nil, perr.New(perr.KindDecode, err, path).WithFormat("jpeg")
	}

	if offset := findSOI(data); offset > 0 {
		recovered, recoverErr := jpeg.Decode(bytes.NewReader(data[offset:]))
		if recoverErr == nil {
			return recovered, nil
		}
	}

	return nil, perr.New(perr.KindDecode, err, path).WithFormat("jpeg")
}

// findSOI returns the byte offset of the first JPEG start-of-image marker
// (0xFF 0xD8) in data, or -1 if none is found.
func findSOI(data []byte) int {
	for i := 0; i < len(data)-1; i++ {
		if data[i] == 0xFF && data[i+1] == 0xD8 {
			return i
		}
	}
	return -1
}

// looksLikeHeic reports whether bytes 4..8 of path read "ftyp", "heic",
// "heif" or "mif1", the same byte-range check the original implementation
// uses to catch HEIC content mislabeled with a JPEG extension. Any ftyp box
// matches; the brand that follows it is not inspected.
func looksLikeHeic(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 12)
	n, _ := f.Read(buf)
	if n < 8 {
		return false
	}
	brand := string(buf[4:8])
	switch brand {
	case "ftyp", "heic", "heif", "mif1":
		return true
	default:
		return false
	}
}
