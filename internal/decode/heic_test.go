package decode

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/adewale/dupehash/internal/perr"
)

func TestDecodeHEICGarbageContentFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.heic")
	if err := os.WriteFile(path, []byte("not a heic file at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	_, err = decodeHEIC(path, info)
	if err == nil {
		t.Fatal("expected error decoding non-HEIC garbage")
	}
	var pe *perr.Error
	if errors.As(err, &pe) && pe.Format != "heic" {
		t.Errorf("error format = %q, want heic", pe.Format)
	}
}

func TestDecodeHEICViaSipsMissingBinary(t *testing.T) {
	if _, err := exec.LookPath("sips"); err == nil {
		t.Skip("sips is present on this system; missing-binary path not exercised")
	}

	path := filepath.Join(t.TempDir(), "whatever.heic")
	if err := os.WriteFile(path, []byte("irrelevant"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := decodeHEICViaSips(path); err == nil {
		t.Fatal("expected error when sips is not on PATH")
	}
}
