// Package pipeline exposes the library-level façade described in
// SPEC_FULL.md §6, generalizing the teacher engine's
// NewEngine/IndexDirectory/GetStats shape to the full discover -> hash ->
// persist -> group pipeline.
package pipeline

import (
	"context"
	"log"

	"github.com/adewale/dupehash/internal/batch"
	"github.com/adewale/dupehash/internal/config"
	"github.com/adewale/dupehash/internal/dedup"
	"github.com/adewale/dupehash/internal/discovery"
	"github.com/adewale/dupehash/internal/store"
	"github.com/adewale/dupehash/pkg/models"
)

// Summary reports the outcome of a full Run, per SPEC_FULL.md §7.
type Summary struct {
	Total        int
	Successful   int
	Errored      int
	SkippedKnown int
	Problematic  int
}

// Pipeline ties together discovery, the index store, and the batch
// orchestrator behind the external interface named in SPEC_FULL.md §6.
type Pipeline struct {
	cfg         *config.Config
	store       *store.Store
	problematic *models.ProblematicSet
}

// New opens the index store at the location SPEC_FULL.md §6 specifies
// (derived from cfg.DatabaseName under the user config directory) and
// returns a ready-to-use Pipeline.
func New(cfg *config.Config) (*Pipeline, error) {
	dbPath, err := store.ResolvePath(cfg.DatabaseName)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(dbPath, cfg.ReinitializeDatabase)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:         cfg,
		store:       st,
		problematic: models.NewProblematicSet(),
	}, nil
}

// Close releases the pipeline's index store.
func (p *Pipeline) Close() error { return p.store.Close() }

// Discover walks roots per the pipeline's configured exclusions and depth
// limit, returning candidate image paths.
func (p *Pipeline) Discover(roots []string) ([]string, error) {
	opts := discovery.Options{
		ExcludedDirectories: p.cfg.ExcludedDirectories,
		MaxDepth:            p.cfg.MaxDepth,
		Extensions:          discovery.Extensions(p.cfg.ProcessUnsupportedFormats),
		MaxConcurrentRoots:  p.cfg.OuterWorkerCount(),
	}
	return discovery.Walk(roots, opts)
}

// HashAndPersist drops already-indexed paths, then hashes and persists the
// rest via the batch orchestrator, returning the updated store counts.
func (p *Pipeline) HashAndPersist(ctx context.Context, paths []string) (cryptoCount, perceptualCount int, err error) {
	unknown, err := p.store.FilterUnknown(paths)
	if err != nil {
		return 0, 0, err
	}

	orch := batch.New(p.store, p.problematic, batch.Config{
		Workers:   p.cfg.WorkerCount(),
		BatchSize: p.cfg.EffectiveBatchSize(),
	})
	orch.OnProgress(func(ev batch.ProgressEvent) {
		if ev.Processed%100 == 0 {
			log.Printf("pipeline: %d/%d processed (%d failed)", ev.Processed, ev.Total, ev.Failed)
		}
	})

	if err := orch.Run(ctx, unknown); err != nil {
		return 0, 0, err
	}

	if err := p.store.Flush(); err != nil {
		return 0, 0, err
	}

	return p.store.Stats()
}

// Run performs a full discover -> hash -> persist cycle over roots and
// reports a Summary.
func (p *Pipeline) Run(ctx context.Context, roots []string) (Summary, error) {
	paths, err := p.Discover(roots)
	if err != nil {
		return Summary{}, err
	}

	before, _, err := p.store.Stats()
	if err != nil {
		return Summary{}, err
	}

	unknown, err := p.store.FilterUnknown(paths)
	if err != nil {
		return Summary{}, err
	}

	if _, _, err := p.HashAndPersist(ctx, paths); err != nil {
		return Summary{}, err
	}

	after, _, err := p.store.Stats()
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Total:        len(paths),
		Successful:   after - before,
		SkippedKnown: len(paths) - len(unknown),
		Problematic:  p.problematic.Len(),
		Errored:      len(unknown) - (after - before),
	}, nil
}

// FindDuplicates groups currently indexed paths by exact CryptoHash
// equality.
func (p *Pipeline) FindDuplicates() ([][]string, error) {
	records, err := p.store.IterRecords()
	if err != nil {
		return nil, err
	}
	return dedup.FindDuplicates(records), nil
}

// FindNearDuplicates groups currently indexed paths whose Standard
// perceptual hashes lie within threshold Hamming distance.
func (p *Pipeline) FindNearDuplicates(threshold int) ([][]string, error) {
	records, err := p.store.IterRecords()
	if err != nil {
		return nil, err
	}
	return dedup.FindNearDuplicates(records, threshold), nil
}

// Stats exposes the underlying store's crypto and perceptual row counts.
func (p *Pipeline) Stats() (cryptoCount, perceptualCount int, err error) {
	return p.store.Stats()
}
