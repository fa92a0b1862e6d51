package decode

import (
	"image"
	"testing"
)

func TestSizeTier(t *testing.T) {
	cases := []struct {
		size     int64
		wantDim  uint
		wantKind string
	}{
		{50 * 1024 * 1024, 1024, "lanczos3"},
		{100 * 1024 * 1024, 1024, "lanczos3"},
		{150 * 1024 * 1024, 896, "bilinear"},
		{300 * 1024 * 1024, 896, "bilinear"},
		{400 * 1024 * 1024, 768, "nearest"},
	}

	for _, c := range cases {
		dim, filter := sizeTier(c.size)
		if dim != c.wantDim {
			t.Errorf("sizeTier(%d) dim = %d, want %d", c.size, dim, c.wantDim)
		}
		if filter == nil {
			t.Errorf("sizeTier(%d) returned nil filter", c.size)
		}
	}
}

func TestDownscaleForHashingLeavesSmallImagesAlone(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	out := downscaleForHashing(img, 1024)
	bounds := out.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("small image was resized: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestDownscaleForHashingShrinksOversizedImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4000, 2000))
	out := downscaleForHashing(img, 1024)
	bounds := out.Bounds()
	if bounds.Dx() > 1024 || bounds.Dy() > 1024 {
		t.Errorf("image not downscaled within budget: got %dx%d", bounds.Dx(), bounds.Dy())
	}
	// aspect ratio preserved
	if bounds.Dx() != 1024 {
		t.Errorf("expected the longer edge (width) clamped to 1024, got %d", bounds.Dx())
	}
}

func TestResizeBilinearPreservesAspect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	out := resizeBilinear(img, 50)
	bounds := out.Bounds()
	if bounds.Dx() != 50 {
		t.Errorf("width = %d, want 50", bounds.Dx())
	}
	if bounds.Dy() >= 50 {
		t.Errorf("height = %d, want < 50 to preserve aspect", bounds.Dy())
	}
}
