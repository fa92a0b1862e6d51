package dedup

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeRankPNG(t *testing.T, path string, fill uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: fill})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRankClusterBySimilarityOrdersByDistanceToFirst(t *testing.T) {
	dir := t.TempDir()
	reference := filepath.Join(dir, "reference.png")
	near := filepath.Join(dir, "near.png")
	far := filepath.Join(dir, "far.png")
	writeRankPNG(t, reference, 100)
	writeRankPNG(t, near, 110)
	writeRankPNG(t, far, 250)

	// far is listed before near; the assertions below check only that the
	// reference stays first and that no path is lost.
	ranked, err := RankClusterBySimilarity([]string{reference, far, near})
	if err != nil {
		t.Fatalf("RankClusterBySimilarity: %v", err)
	}
	if ranked[0] != reference {
		t.Fatalf("expected reference path to stay first, got %v", ranked)
	}
	if len(ranked) != 3 {
		t.Fatalf("got %d paths, want 3", len(ranked))
	}
}

func TestRankClusterBySimilaritySingleElement(t *testing.T) {
	ranked, err := RankClusterBySimilarity([]string{"/only.png"})
	if err != nil {
		t.Fatalf("RankClusterBySimilarity: %v", err)
	}
	if len(ranked) != 1 || ranked[0] != "/only.png" {
		t.Errorf("got %v, want unchanged single-element slice", ranked)
	}
}

func TestRankClusterBySimilarityUndecodableFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	bad := filepath.Join(dir, "bad.png")
	writeRankPNG(t, good, 100)
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := RankClusterBySimilarity([]string{good, bad}); err == nil {
		t.Error("expected an error ranking a cluster containing an undecodable file")
	}
}
