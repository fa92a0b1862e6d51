// Package batch parallelizes hashing across a worker pool, persists
// results in chunks, and applies a back-pressure valve for very large
// runs, following the teacher engine's worker-pool-over-channel pattern and
// the original implementation's chunked batch processor.
package batch

import (
	"context"
	"errors"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/adewale/dupehash/internal/decode"
	"github.com/adewale/dupehash/internal/hasher"
	"github.com/adewale/dupehash/internal/perr"
	"github.com/adewale/dupehash/internal/timeoutguard"
	"github.com/adewale/dupehash/pkg/models"
)

// Store is the subset of internal/store.Store the orchestrator needs,
// narrowed to an interface so tests can substitute an in-memory fake.
type Store interface {
	PutBatch(records []models.ImageRecord) error
}

// Config tunes the orchestrator, mirroring SPEC_FULL.md §4.5's parameters.
type Config struct {
	Workers   int
	BatchSize int
}

// ProgressEvent reports incremental progress to an external observer (the
// CLI collaborator), following the teacher's ProgressCallback shape.
type ProgressEvent struct {
	Processed int
	Total     int
	Failed    int
}

// Orchestrator drives C5: parallel hashing, chunked persistence, and the
// periodic back-pressure valve.
type Orchestrator struct {
	store       Store
	problematic *models.ProblematicSet
	guard       *timeoutguard.Guard
	cfg         Config

	mu         sync.Mutex
	stats      models.RunStats
	onProgress func(ProgressEvent)
}

// New builds an Orchestrator over store, sharing problematic across the
// run's Timeout-Guard invocations.
func New(store Store, problematic *models.ProblematicSet, cfg Config) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
		if cfg.Workers > 8 {
			cfg.Workers = 8
		}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Orchestrator{
		store:       store,
		problematic: problematic,
		guard:       timeoutguard.New(problematic),
		cfg:         cfg,
		stats:       models.RunStats{StartTime: time.Now()},
	}
}

// OnProgress registers a callback invoked after every successfully or
// unsuccessfully processed file.
func (o *Orchestrator) OnProgress(cb func(ProgressEvent)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onProgress = cb
}

// Stats returns a snapshot of the run's progress counters.
func (o *Orchestrator) Stats() models.RunStats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

// Run processes paths in chunks of cfg.BatchSize, hashing each chunk with
// cfg.Workers goroutines and persisting successes before moving to the next
// chunk, then logs heap usage and the processing rate. Every second chunk
// sleeps briefly, and every tenth chunk sleeps longer and releases
// accumulated buffers, damping peak memory on very
// large runs per SPEC_FULL.md §4.5 points 5-6. ctx cancellation aborts
// dispatch at the next chunk boundary; in-flight work still completes and
// is persisted.
func (o *Orchestrator) Run(ctx context.Context, paths []string) error {
	o.mu.Lock()
	o.stats.FilesFound = len(paths)
	o.mu.Unlock()

	chunks := chunk(paths, o.cfg.BatchSize)

	for i, c := range chunks {
		select {
		case <-ctx.Done():
			return perr.New(perr.KindInterrupted, ctx.Err(), "")
		default:
		}

		// Cancelling ctx stops dispatch only; tasks already in this chunk
		// run to completion or to their own deadlines.
		records := o.processChunk(context.WithoutCancel(ctx), c)
		if len(records) > 0 {
			if err := o.store.PutBatch(records); err != nil {
				return err
			}
		}

		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		stats := o.Stats()
		log.Printf("batch: chunk %d/%d, heap_alloc=%d MiB, %.1f files/s", i+1, len(chunks), ms.Alloc/1024/1024, stats.FilesPerSecond())

		if (i+1)%2 == 0 {
			time.Sleep(500 * time.Millisecond)
		}
		if (i+1)%10 == 0 {
			records = nil
			time.Sleep(2 * time.Second)
		}
	}

	o.mu.Lock()
	o.stats.EndTime = time.Now()
	o.mu.Unlock()
	return nil
}

// processChunk hashes every path in c concurrently across cfg.Workers
// goroutines and returns the records that completed successfully.
func (o *Orchestrator) processChunk(ctx context.Context, c []string) []models.ImageRecord {
	jobs := make(chan string, len(c))
	for _, p := range c {
		jobs <- p
	}
	close(jobs)

	results := make(chan *models.ImageRecord, len(c))
	var wg sync.WaitGroup
	for w := 0; w < o.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				rec, err := o.hashOne(ctx, path)
				o.recordOutcome(err)
				if err == nil {
					results <- rec
				} else {
					results <- nil
					log.Printf("batch: %s: %v", path, err)
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []models.ImageRecord
	for r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (o *Orchestrator) recordOutcome(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.stats.FilesFailed++
		if perr.Of(err, perr.KindTimeout) || perr.Of(err, perr.KindPanic) {
			o.stats.FilesQuarantined++
		}
	} else {
		o.stats.FilesProcessed++
	}
	cb := o.onProgress
	processed, failed, total := o.stats.FilesProcessed, o.stats.FilesFailed, o.stats.FilesFound
	if cb != nil {
		cb(ProgressEvent{Processed: processed, Total: total, Failed: failed})
	}
}

// hashOne runs the full per-file pipeline (decode, downscale, crypto hash,
// perceptual hash) under the Timeout-Guard, producing a complete
// ImageRecord or an error. Only a Complete result (both hashes present)
// is ever returned, upholding invariant I1.
func (o *Orchestrator) hashOne(ctx context.Context, path string) (*models.ImageRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, perr.New(perr.KindIo, err, path)
	}
	if info.Size() == 0 {
		return nil, perr.New(perr.KindIo, errors.New("empty file"), path)
	}

	cryptoResult, err := o.guard.Run(ctx, path, timeoutguard.Cryptographic, func() (interface{}, error) {
		return hasher.CryptographicHash(path)
	})
	if err != nil {
		return nil, err
	}
	cryptoHash := cryptoResult.(models.CryptoHash)

	perceptual, format, err := o.computePerceptual(ctx, path, info)
	if err != nil {
		return nil, err
	}

	return &models.ImageRecord{
		Path:       models.PathKey(path),
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		Format:     format,
		Crypto:     cryptoHash,
		Perceptual: perceptual,
	}, nil
}

func (o *Orchestrator) computePerceptual(ctx context.Context, path string, info os.FileInfo) (models.PerceptualHash, models.FormatTag, error) {
	val, err := o.guard.Run(ctx, path, timeoutguard.Perceptual, func() (interface{}, error) {
		img, format, decodeErr := decode.Decode(path)
		if decodeErr != nil {
			fallback := decode.FallbackFingerprint(path, info)
			return perceptualResult{hash: fallback, format: format}, nil
		}
		return perceptualResult{hash: hasher.StandardPerceptualHash(img), format: format}, nil
	})
	if err != nil {
		return models.PerceptualHash{}, models.FormatTag{}, err
	}
	pr := val.(perceptualResult)
	return pr.hash, pr.format, nil
}

type perceptualResult struct {
	hash   models.PerceptualHash
	format models.FormatTag
}

// chunk splits paths into groups of at most size.
func chunk(paths []string, size int) [][]string {
	if size <= 0 {
		size = 50
	}
	var out [][]string
	for start := 0; start < len(paths); start += size {
		end := start + size
		if end > len(paths) {
			end = len(paths)
		}
		out = append(out, paths[start:end])
	}
	return out
}
