package hasher

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCryptographicHashDeterministic(t *testing.T) {
	path := writeTempFile(t, []byte("the quick brown fox"))

	h1, err := CryptographicHash(path)
	if err != nil {
		t.Fatalf("CryptographicHash: %v", err)
	}
	h2, err := CryptographicHash(path)
	if err != nil {
		t.Fatalf("CryptographicHash: %v", err)
	}
	if h1 != h2 {
		t.Errorf("hash not deterministic across calls")
	}
}

func TestCryptographicHashDistinguishesContent(t *testing.T) {
	p1 := writeTempFile(t, []byte("alpha"))
	p2 := writeTempFile(t, []byte("beta"))

	h1, err := CryptographicHash(p1)
	if err != nil {
		t.Fatalf("CryptographicHash: %v", err)
	}
	h2, err := CryptographicHash(p2)
	if err != nil {
		t.Fatalf("CryptographicHash: %v", err)
	}
	if h1 == h2 {
		t.Error("expected distinct content to produce distinct hashes")
	}
}

func TestCryptographicHashEqualForIdenticalContent(t *testing.T) {
	p1 := writeTempFile(t, []byte("identical payload"))
	p2 := writeTempFile(t, []byte("identical payload"))

	h1, err := CryptographicHash(p1)
	if err != nil {
		t.Fatalf("CryptographicHash: %v", err)
	}
	h2, err := CryptographicHash(p2)
	if err != nil {
		t.Fatalf("CryptographicHash: %v", err)
	}
	if h1 != h2 {
		t.Error("expected identical content to produce identical hashes")
	}
}

func TestCryptographicHashMissingFile(t *testing.T) {
	_, err := CryptographicHash(filepath.Join(t.TempDir(), "does-not-exist.bin"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
