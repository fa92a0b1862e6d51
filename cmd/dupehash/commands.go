package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/adewale/dupehash/internal/config"
	"github.com/adewale/dupehash/internal/dedup"
	"github.com/adewale/dupehash/internal/pipeline"
)

// scanCommand validates roots, opens the pipeline, and runs a full
// discover -> hash -> persist -> group cycle, printing a summary in the
// style of the teacher CLI's indexCommand.
func scanCommand(roots []string, configPath string, dryRun bool, threshold int, verbose bool) error {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("directory does not exist: %s", root)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", root)
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if threshold > 0 {
		cfg.PhashThreshold = threshold
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if dryRun {
		paths, err := p.Discover(roots)
		if err != nil {
			return err
		}
		fmt.Printf("Would hash %d candidate files under:\n", len(paths))
		for _, r := range roots {
			fmt.Printf("  %s\n", r)
		}
		return nil
	}

	fmt.Println("Scanning...")
	for _, r := range roots {
		fmt.Printf("  %s\n", r)
	}

	start := time.Now()
	summary, err := p.Run(ctx, roots)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("\nScan complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Discovered: %d files\n", summary.Total)
	fmt.Printf("  Already indexed: %d\n", summary.SkippedKnown)
	fmt.Printf("  Newly hashed: %d\n", summary.Successful)
	if summary.Problematic > 0 {
		fmt.Printf("  Quarantined (perceptual timeout/panic): %d\n", summary.Problematic)
	}
	if summary.Errored > 0 {
		fmt.Printf("  Errored: %d\n", summary.Errored)
	}

	dupes, err := p.FindDuplicates()
	if err != nil {
		return err
	}
	fmt.Printf("  Exact-duplicate groups: %d\n", len(dupes))

	near, err := p.FindNearDuplicates(cfg.PhashThreshold)
	if err != nil {
		return err
	}
	fmt.Printf("  Near-duplicate groups (threshold=%d): %d\n", cfg.PhashThreshold, len(near))

	if verbose {
		for _, group := range dupes {
			fmt.Println("  duplicate:")
			for _, p := range group {
				fmt.Printf("    %s\n", p)
			}
		}
		for _, group := range near {
			ranked, rankErr := dedup.RankClusterBySimilarity(group)
			if rankErr != nil {
				fmt.Printf("  near-duplicate (unranked, %v):\n", rankErr)
				ranked = group
			} else {
				fmt.Println("  near-duplicate (ranked by similarity):")
			}
			for _, p := range ranked {
				fmt.Printf("    %s\n", p)
			}
		}
	}

	return nil
}

// generateConfigCommand writes a default configuration document to path.
func generateConfigCommand(path string) error {
	return config.DefaultConfig().Save(path)
}
