// Package hasher computes the two per-file fingerprints the pipeline
// persists: a streaming cryptographic digest of the raw bytes, and a
// perceptual fingerprint derived from a decoded, downscaled surface.
package hasher

import (
	"io"
	"os"

	"lukechampine.com/blake3"

	"github.com/adewale/dupehash/internal/perr"
	"github.com/adewale/dupehash/pkg/models"
)

const cryptoBufferSize = 8 * 1024

// CryptographicHash streams path through an 8KiB buffer into a BLAKE3
// digest, exactly as the original implementation's compute_cryptographic
// does with blake3::Hasher. The file handle is always closed before
// returning.
func CryptographicHash(path string) (models.CryptoHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.CryptoHash{}, perr.New(perr.KindIo, err, path)
	}
	defer f.Close()

	h := blake3.New(32, nil)
	buf := make([]byte, cryptoBufferSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return models.CryptoHash{}, perr.New(perr.KindIo, err, path)
	}

	var out models.CryptoHash
	copy(out[:], h.Sum(nil))
	return out, nil
}
