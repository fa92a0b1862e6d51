package dedup

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"

	"github.com/corona10/goimagehash"
)

// RankClusterBySimilarity orders the paths in a near-duplicate cluster by
// their goimagehash perception-hash distance to the first path, giving a
// secondary, independently-computed similarity ranking a reviewer can use to
// decide which member of a cluster to keep. This never substitutes for the
// binding Standard/Enhanced fingerprint (see internal/hasher/perceptual.go);
// it is advisory ordering only, computed fresh from the decoded image.
func RankClusterBySimilarity(paths []string) ([]string, error) {
	if len(paths) < 2 {
		return paths, nil
	}

	hashes := make([]*goimagehash.ImageHash, len(paths))
	for i, p := range paths {
		h, err := perceptionHashOf(p)
		if err != nil {
			return nil, fmt.Errorf("rank cluster: %s: %w", p, err)
		}
		hashes[i] = h
	}

	type scored struct {
		path string
		dist int
	}
	ranked := make([]scored, len(paths))
	ranked[0] = scored{path: paths[0], dist: 0}
	for i := 1; i < len(paths); i++ {
		dist, err := hashes[0].Distance(hashes[i])
		if err != nil {
			return nil, fmt.Errorf("rank cluster: distance %s vs %s: %w", paths[0], paths[i], err)
		}
		ranked[i] = scored{path: paths[i], dist: dist}
	}

	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].dist < ranked[b].dist })

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.path
	}
	return out, nil
}

func perceptionHashOf(path string) (*goimagehash.ImageHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return goimagehash.PerceptionHash(img)
}
