// Package discovery walks one or more root directories and emits candidate
// image paths, honouring exclusion prefixes, a depth limit, a
// recognised-extension whitelist, and symlinked subdirectories.
package discovery

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/adewale/dupehash/internal/perr"
)

// coreExtensions is the set of extensions dispatched to a format-specific
// decoder (jpeg/png/tiff/heic/raw). These are always walked.
var coreExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".tif": true, ".tiff": true, ".heic": true, ".heif": true,
	".raw": true, ".dng": true, ".cr2": true, ".nef": true, ".arw": true,
	".orf": true, ".rw2": true, ".nrw": true, ".raf": true, ".crw": true,
	".pef": true, ".srw": true, ".x3f": true, ".rwl": true, ".3fr": true,
}

// otherExtensions is the set of recognised-but-not-format-specific
// extensions, walked only when `process_unsupported_formats` is enabled
// (SPEC_FULL.md §6); they decode through internal/decode's generic path.
var otherExtensions = map[string]bool{
	".gif": true, ".bmp": true, ".webp": true,
}

// defaultExtensions is the full recognised-extension whitelist, used when a
// caller leaves Options.Extensions nil.
var defaultExtensions = mergedExtensions(coreExtensions, otherExtensions)

// Extensions returns the recognised-extension whitelist, including Other
// formats only when includeOther is true, per the `process_unsupported_formats`
// config option.
func Extensions(includeOther bool) map[string]bool {
	if includeOther {
		return mergedExtensions(coreExtensions, otherExtensions)
	}
	return mergedExtensions(coreExtensions, nil)
}

func mergedExtensions(sets ...map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for _, set := range sets {
		for ext, ok := range set {
			if ok {
				out[ext] = true
			}
		}
	}
	return out
}

// Options configures a Walk call.
type Options struct {
	ExcludedDirectories []string
	MaxDepth            int // 0 means unbounded
	Extensions          map[string]bool
	// MaxConcurrentRoots bounds how many roots are walked at once (0 means
	// unbounded), the "outer batch loop" concurrency SPEC_FULL.md §4.5 names
	// separately from the per-chunk hashing worker count.
	MaxConcurrentRoots int
}

// Walk discovers candidate image paths under roots, one goroutine per root
// fanned in and aggregated with errgroup (bounded by opts.MaxConcurrentRoots),
// mirroring the original Rust implementation's rayon par_iter over roots. A
// missing root is a terminal FileNotFound error for the whole call.
func Walk(roots []string, opts Options) ([]string, error) {
	exts := opts.Extensions
	if exts == nil {
		exts = defaultExtensions
	}

	g := new(errgroup.Group)
	if opts.MaxConcurrentRoots > 0 {
		g.SetLimit(opts.MaxConcurrentRoots)
	}

	results := make([][]string, len(roots))
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			found, err := walkOneRoot(root, opts, exts)
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []string
	for _, found := range results {
		all = append(all, found...)
	}
	return all, nil
}

// walkOneRoot recursively walks root, following symlinked directories (with
// cycle protection keyed by each directory's resolved real path) in addition
// to ordinary ones, per SPEC_FULL.md §4.1 ("follow symbolic links").
func walkOneRoot(root string, opts Options, exts map[string]bool) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, perr.New(perr.KindFileNotFound, err, root)
		}
		return nil, perr.New(perr.KindIo, err, root)
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		realRoot = filepath.Clean(root)
	}

	var found []string
	visited := map[string]bool{realRoot: true}
	walkDir(root, 0, opts, exts, visited, &found)
	return found, nil
}

// walkDir visits the entries of dir (logical path, at the given depth
// relative to the root) and recurses into subdirectories - ordinary ones
// directly, symlinked ones by resolving their target first and tracking the
// resolved path in visited to break cycles.
func walkDir(dir string, depth int, opts Options, exts map[string]bool, visited map[string]bool, found *[]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("discovery: skipping %s: %v", dir, err)
		return
	}

	for _, entry := range entries {
		childPath := filepath.Join(dir, entry.Name())
		if isExcluded(childPath, opts.ExcludedDirectories) {
			continue
		}

		if entry.Type()&os.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(childPath)
			if err != nil {
				log.Printf("discovery: skipping unresolved symlink %s: %v", childPath, err)
				continue
			}
			targetInfo, err := os.Stat(target)
			if err != nil {
				log.Printf("discovery: skipping broken symlink %s: %v", childPath, err)
				continue
			}
			if targetInfo.IsDir() {
				if visited[target] {
					continue // cycle: this real directory is already on the walk path
				}
				if opts.MaxDepth > 0 && depth+1 > opts.MaxDepth {
					continue
				}
				visited[target] = true
				walkDir(childPath, depth+1, opts, exts, visited, found)
				continue
			}
			emitIfRecognized(childPath, exts, found)
			continue
		}

		if entry.IsDir() {
			if opts.MaxDepth > 0 && depth+1 > opts.MaxDepth {
				continue
			}
			walkDir(childPath, depth+1, opts, exts, visited, found)
			continue
		}

		emitIfRecognized(childPath, exts, found)
	}
}

func emitIfRecognized(path string, exts map[string]bool, found *[]string) {
	ext := strings.ToLower(filepath.Ext(path))
	if exts[ext] {
		*found = append(*found, path)
	}
}

// isExcluded reports whether path falls under any of the excluded prefixes.
func isExcluded(path string, excluded []string) bool {
	clean := filepath.Clean(path)
	for _, ex := range excluded {
		exClean := filepath.Clean(ex)
		if clean == exClean || strings.HasPrefix(clean, exClean+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
