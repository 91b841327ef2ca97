// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates the tunables that govern one
// build/query run of the indexer: corpus location, spill/merge
// thresholds, and the important-tag boost table.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfigYAML []byte

// MaxConfigFileSize bounds how large a config file this loader accepts.
const MaxConfigFileSize = 1 << 20 // 1 MiB

// BuildConfig is the tunable surface of the build and query pipelines.
//
// Description:
//
//	All fields have defaults supplied by default.yaml; a caller-provided
//	file only needs to override what it wants changed.
//
// Thread Safety: Immutable after Load returns; safe for concurrent use.
type BuildConfig struct {
	// CorpusRoot is the directory containing domain subdirectories of
	// JSON page envelopes (the two-level "developer/DEV" layout).
	CorpusRoot string `yaml:"corpus_root"`

	// WorkDir is where txt/ and json/ output artifacts are written.
	WorkDir string `yaml:"work_dir"`

	// TermThreshold is the distinct-term count that triggers a partial
	// shard flush during build. The merge does not use it: finalized
	// terms are streamed to the index file one at a time.
	TermThreshold int `yaml:"term_threshold"`

	// ChunkSize is how many terms a shard cursor materializes per load
	// during the k-way merge.
	ChunkSize int `yaml:"chunk_size"`

	// SampleInterval controls how often a term is recorded in the
	// term-offset file (every Nth term, plus bucket boundaries).
	SampleInterval int `yaml:"sample_interval"`

	// ImportantTags is the HTML tag set whose text counts 3x.
	ImportantTags []string `yaml:"important_tags"`

	// ImportantBoost is the extra count added per important occurrence
	// (1 baseline + ImportantBoost = 3x by default).
	ImportantBoost int `yaml:"important_boost"`
}

// Default returns the built-in configuration.
func Default() *BuildConfig {
	cfg, err := parse(defaultConfigYAML)
	if err != nil {
		// The embedded default is authored and reviewed with the binary;
		// a parse failure here means the embed itself is corrupt.
		panic(fmt.Errorf("config: embedded default.yaml is invalid: %w", err))
	}
	return cfg
}

// Load reads and validates a BuildConfig from a YAML file at path.
//
// Description:
//
//	Starts from Default() and overlays the file's values, then
//	validates the result. An empty path returns Default() unmodified.
//
// Outputs:
//
//	*BuildConfig - the validated configuration. Never nil on success.
//	error - non-nil if the file cannot be read, parsed, or fails
//	        validation. Callers treat this as fatal.
func Load(path string) (*BuildConfig, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if len(data) > MaxConfigFileSize {
		return nil, fmt.Errorf("config: %s exceeds maximum size (%d > %d)", path, len(data), MaxConfigFileSize)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validating %s: %w", path, err)
	}

	slog.Info("build config loaded",
		slog.String("path", path),
		slog.String("corpus_root", cfg.CorpusRoot),
		slog.Int("term_threshold", cfg.TermThreshold),
		slog.Int("chunk_size", cfg.ChunkSize),
	)
	return cfg, nil
}

func parse(data []byte) (*BuildConfig, error) {
	cfg := &BuildConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

func validate(cfg *BuildConfig) error {
	if cfg.CorpusRoot == "" {
		return fmt.Errorf("corpus_root must not be empty")
	}
	if cfg.WorkDir == "" {
		return fmt.Errorf("work_dir must not be empty")
	}
	if cfg.TermThreshold <= 0 {
		return fmt.Errorf("term_threshold must be positive, got %d", cfg.TermThreshold)
	}
	if cfg.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.SampleInterval <= 0 {
		return fmt.Errorf("sample_interval must be positive, got %d", cfg.SampleInterval)
	}
	if len(cfg.ImportantTags) == 0 {
		return fmt.Errorf("important_tags must not be empty")
	}
	if cfg.ImportantBoost < 0 {
		return fmt.Errorf("important_boost must not be negative, got %d", cfg.ImportantBoost)
	}
	return nil
}
