package decode

import (
	"hash/fnv"
	"os"

	"github.com/adewale/dupehash/pkg/models"
)

// FallbackFingerprint derives a deterministic Standard perceptual hash from
// a path's filename, size, and modification time, for files whose content
// cannot be decoded by any format path. It preserves run idempotence: the
// same undecodable file always yields the same fingerprint, distinguishing
// it from other undecodable files without ever touching file contents.
//
// This mirrors the original implementation's generate_fallback_hash, which
// used Rust's DefaultHasher over the same three fields.
func FallbackFingerprint(path string, info os.FileInfo) models.PerceptualHash {
	h := fnv.New64a()
	h.Write([]byte(path))
	writeInt64(h, info.Size())
	writeInt64(h, info.ModTime().UnixNano())
	return models.NewStandard(h.Sum64())
}

func writeInt64(h interface{ Write([]byte) (int, error) }, v int64) {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (56 - 8*i))
	}
	h.Write(buf)
}
