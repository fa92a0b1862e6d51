package decode

import (
	"bytes"
	"errors"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"

	"github.com/adewale/dupehash/internal/perr"
)

// decodeRAWDispatch tries the compiled-in LibRaw binding first, falling
// back to extracting the largest embedded JPEG preview (DNG files, being
// TIFF-based, commonly carry one or more), exactly as adewale-olsen's
// indexer.processFile does for files LibRaw cannot decode.
func decodeRAWDispatch(path string, info os.FileInfo) (Image, error) {
	if rawSupported() {
		img, err := decodeRAW(path)
		if err == nil {
			return img, nil
		}
		log.Printf("decode: raw decode failed for %s: %v, trying embedded JPEG", filepath.Base(path), err)
	}

	img, err := extractEmbeddedJPEG(path)
	if err != nil {
		return nil, perr.New(perr.KindDecode, err, path).WithFormat("raw")
	}
	return img, nil
}

// extractEmbeddedJPEG scans a RAW/DNG file for the largest valid embedded
// JPEG preview between an SOI (0xFFD8) and EOI (0xFFD9) marker pair.
func extractEmbeddedJPEG(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var largest []byte
	for i := 0; i < len(data)-1; i++ {
		if data[i] != 0xFF || data[i+1] != 0xD8 {
			continue
		}
		start := i
		for j := start + 2; j < len(data)-1; j++ {
			if data[j] == 0xFF && data[j+1] == 0xD9 {
				end := j + 2
				if end-start > len(largest) {
					candidate := data[start:end]
					if _, cfgErr := jpeg.DecodeConfig(bytes.NewReader(candidate)); cfgErr == nil {
						largest = candidate
					}
				}
				i = end - 1
				break
			}
		}
	}

	if largest == nil {
		return nil, perr.New(perr.KindDecode, errors.New("no valid embedded JPEG preview found"), path).WithFormat("raw")
	}
	return jpeg.Decode(bytes.NewReader(largest))
}
