package decode

import (
	"errors"
	"testing"
)

func TestIsMemoryError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{errors.New("out of memory"), true},
		{errors.New("allocation limit exceeded"), true},
		{errors.New("resource exhausted"), true},
		{errors.New("unexpected EOF"), false},
		{errors.New("invalid TIFF header"), false},
	}
	for _, c := range cases {
		if got := isMemoryError(c.err); got != c.want {
			t.Errorf("isMemoryError(%q) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestTiffSizeLimitConstant(t *testing.T) {
	if tiffSizeLimit != 100*1024*1024 {
		t.Errorf("tiffSizeLimit = %d, want 100MB", tiffSizeLimit)
	}
}
