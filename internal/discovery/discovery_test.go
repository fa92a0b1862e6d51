package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkFindsWhitelistedExtensions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.jpg"))
	touch(t, filepath.Join(root, "b.txt"))
	touch(t, filepath.Join(root, "sub", "c.png"))

	got, err := Walk([]string{root}, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	sort.Strings(got)
	if len(got) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(got), got)
	}
}

func TestWalkHonoursExclusions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep.jpg"))
	touch(t, filepath.Join(root, "skip", "dropped.jpg"))

	got, err := Walk([]string{root}, Options{ExcludedDirectories: []string{filepath.Join(root, "skip")}})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "keep.jpg" {
		t.Errorf("got %v, want only keep.jpg", got)
	}
}

func TestWalkHonoursMaxDepth(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "top.jpg"))
	touch(t, filepath.Join(root, "a", "nested.jpg"))
	touch(t, filepath.Join(root, "a", "b", "deep.jpg"))

	got, err := Walk([]string{root}, Options{MaxDepth: 1})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	sort.Strings(got)
	if len(got) != 2 {
		t.Fatalf("got %d files at depth<=1, want 2: %v", len(got), got)
	}
}

func TestWalkMissingRootIsFileNotFound(t *testing.T) {
	_, err := Walk([]string{filepath.Join(t.TempDir(), "does-not-exist")}, Options{})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestWalkMultipleRootsAggregated(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()
	touch(t, filepath.Join(root1, "one.jpg"))
	touch(t, filepath.Join(root2, "two.jpg"))

	got, err := Walk([]string{root1, root2}, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d files, want 2 across both roots: %v", len(got), got)
	}
}

func TestWalkCustomExtensionSet(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.jpg"))
	touch(t, filepath.Join(root, "b.webp"))

	got, err := Walk([]string{root}, Options{Extensions: map[string]bool{".webp": true}})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "b.webp" {
		t.Errorf("got %v, want only b.webp", got)
	}
}

func TestExtensionsGatesOtherFormatsOnFlag(t *testing.T) {
	core := Extensions(false)
	if core[".gif"] || core[".bmp"] || core[".webp"] {
		t.Errorf("Extensions(false) = %v, want Other formats excluded", core)
	}
	if !core[".jpg"] || !core[".png"] {
		t.Errorf("Extensions(false) = %v, want core formats included", core)
	}

	all := Extensions(true)
	if !all[".gif"] || !all[".bmp"] || !all[".webp"] {
		t.Errorf("Extensions(true) = %v, want Other formats included", all)
	}
}

func TestWalkExcludesOtherFormatsWhenNotRequested(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.jpg"))
	touch(t, filepath.Join(root, "b.gif"))

	got, err := Walk([]string{root}, Options{Extensions: Extensions(false)})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "a.jpg" {
		t.Errorf("got %v, want only a.jpg when process_unsupported_formats is off", got)
	}
}

func TestWalkFollowsSymlinkedDirectory(t *testing.T) {
	root := t.TempDir()
	realDir := t.TempDir()
	touch(t, filepath.Join(realDir, "linked.jpg"))
	touch(t, filepath.Join(root, "top.jpg"))

	if err := os.Symlink(realDir, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Walk([]string{root}, Options{})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	sort.Strings(got)
	if len(got) != 2 {
		t.Fatalf("got %d files, want 2 (including the symlinked dir's contents): %v", len(got), got)
	}
	var sawLinked bool
	for _, p := range got {
		if filepath.Base(p) == "linked.jpg" {
			sawLinked = true
			if filepath.Dir(p) != filepath.Join(root, "link") {
				t.Errorf("expected linked.jpg's path to go through the symlink, got %s", p)
			}
		}
	}
	if !sawLinked {
		t.Errorf("expected linked.jpg to be discovered through the symlink, got %v", got)
	}
}

func TestWalkSymlinkCycleDoesNotHang(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "top.jpg"))
	sub := filepath.Join(root, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.Symlink(root, filepath.Join(sub, "back-to-root")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	done := make(chan struct{})
	var got []string
	var err error
	go func() {
		got, err = Walk([]string{root}, Options{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Walk did not terminate, symlink cycle protection failed")
	}
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "top.jpg" {
		t.Errorf("got %v, want only top.jpg once", got)
	}
}

func TestWalkMaxConcurrentRootsStillAggregatesAll(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()
	root3 := t.TempDir()
	touch(t, filepath.Join(root1, "one.jpg"))
	touch(t, filepath.Join(root2, "two.jpg"))
	touch(t, filepath.Join(root3, "three.jpg"))

	got, err := Walk([]string{root1, root2, root3}, Options{MaxConcurrentRoots: 1})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d files, want 3 across all roots even with MaxConcurrentRoots=1: %v", len(got), got)
	}
}
