package decode

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"runtime"

	_ "github.com/vegidio/heif-go" // registers the HEIC/HEIF image.Decode codec

	"github.com/adewale/dupehash/internal/perr"
)

// decodeHEIC decodes a HEIC/HEIF file. On macOS the `sips` utility is tried
// first, since it is generally faster and more tolerant of camera-specific
// HEIC variants than the pure-Go decoder; on failure, or on any other
// platform, it falls through to github.com/vegidio/heif-go via the
// standard image.Decode registry.
func decodeHEIC(path string, info os.FileInfo) (Image, error) {
	if runtime.GOOS == "darwin" {
		if img, err := decodeHEICViaSips(path); err == nil {
			return img, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, perr.New(perr.KindIo, err, path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, perr.New(perr.KindDecode, err, path).WithFormat("heic")
	}
	return img, nil
}

func decodeHEICViaSips(path string) (image.Image, error) {
	if _, err := exec.LookPath("sips"); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "dupehash-heic-*.jpg")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	cmd := exec.Command("sips", "-s", "format", "jpeg", path, "--out", tmpPath)
	if err := cmd.Run(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, err
	}
	return jpeg.Decode(bytes.NewReader(data))
}
