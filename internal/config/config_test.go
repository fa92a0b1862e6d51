package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BatchSize != 50 {
		t.Errorf("BatchSize = %d, want 50", cfg.BatchSize)
	}
	if cfg.DatabaseName != "dupehash" {
		t.Errorf("DatabaseName = %q, want dupehash", cfg.DatabaseName)
	}
	if cfg.PhashThreshold != 10 {
		t.Errorf("PhashThreshold = %d, want 10", cfg.PhashThreshold)
	}
	if cfg.LogLevel != LogInfo {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Threads <= 0 || cfg.Threads > 8 {
		t.Errorf("Threads = %d, want in (0, 8]", cfg.Threads)
	}
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BatchSize != DefaultConfig().BatchSize {
		t.Errorf("expected defaults for empty path")
	}
}

func TestConfigSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	original := DefaultConfig()
	original.Roots = []string{"/photos", "/archive"}
	original.PhashThreshold = 6
	original.LogLevel = LogDebug

	if err := original.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(loaded.Roots) != 2 || loaded.Roots[0] != "/photos" {
		t.Errorf("Roots = %v, want [/photos /archive]", loaded.Roots)
	}
	if loaded.PhashThreshold != 6 {
		t.Errorf("PhashThreshold = %d, want 6", loaded.PhashThreshold)
	}
	if loaded.LogLevel != LogDebug {
		t.Errorf("LogLevel = %q, want debug", loaded.LogLevel)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error reading a missing config file")
	}
}

func TestWorkerCountUsesConfiguredValue(t *testing.T) {
	cfg := &Config{Threads: 3}
	if got := cfg.WorkerCount(); got != 3 {
		t.Errorf("WorkerCount = %d, want 3", got)
	}
}

func TestOuterWorkerCountCapsAtSix(t *testing.T) {
	cfg := &Config{Threads: 8}
	if got := cfg.OuterWorkerCount(); got != 6 {
		t.Errorf("OuterWorkerCount = %d, want 6", got)
	}
}

func TestEffectiveBatchSizeClamps(t *testing.T) {
	cases := []struct {
		configured int
		want       int
	}{
		{0, 50},
		{-5, 50},
		{30, 30},
		{200, 100},
	}
	for _, c := range cases {
		cfg := &Config{BatchSize: c.configured}
		if got := cfg.EffectiveBatchSize(); got != c.want {
			t.Errorf("EffectiveBatchSize(%d) = %d, want %d", c.configured, got, c.want)
		}
	}
}
