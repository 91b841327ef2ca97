// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.TermThreshold != 300000 {
		t.Errorf("TermThreshold = %d, want 300000", cfg.TermThreshold)
	}
	if cfg.ChunkSize != 100000 {
		t.Errorf("ChunkSize = %d, want 100000", cfg.ChunkSize)
	}
	if len(cfg.ImportantTags) != 6 {
		t.Errorf("len(ImportantTags) = %d, want 6", len(cfg.ImportantTags))
	}
	if cfg.ImportantBoost != 2 {
		t.Errorf("ImportantBoost = %d, want 2", cfg.ImportantBoost)
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.TermThreshold != Default().TermThreshold {
		t.Errorf("Load(\"\") did not match Default()")
	}
}

func TestLoadOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zotsearch.yaml")
	yaml := "corpus_root: corpus\nwork_dir: out\nterm_threshold: 5\nchunk_size: 2\nsample_interval: 3\nimportant_tags: [h1]\nimportant_boost: 1\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.TermThreshold != 5 || cfg.ChunkSize != 2 || cfg.SampleInterval != 3 {
		t.Errorf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.ImportantTags) != 1 || cfg.ImportantTags[0] != "h1" {
		t.Errorf("unexpected important tags: %v", cfg.ImportantTags)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  BuildConfig
	}{
		{"empty corpus root", BuildConfig{WorkDir: "x", TermThreshold: 1, ChunkSize: 1, SampleInterval: 1, ImportantTags: []string{"h1"}}},
		{"empty work dir", BuildConfig{CorpusRoot: "x", TermThreshold: 1, ChunkSize: 1, SampleInterval: 1, ImportantTags: []string{"h1"}}},
		{"zero threshold", BuildConfig{CorpusRoot: "x", WorkDir: "x", ChunkSize: 1, SampleInterval: 1, ImportantTags: []string{"h1"}}},
		{"zero chunk size", BuildConfig{CorpusRoot: "x", WorkDir: "x", TermThreshold: 1, SampleInterval: 1, ImportantTags: []string{"h1"}}},
		{"zero sample interval", BuildConfig{CorpusRoot: "x", WorkDir: "x", TermThreshold: 1, ChunkSize: 1, ImportantTags: []string{"h1"}}},
		{"empty tags", BuildConfig{CorpusRoot: "x", WorkDir: "x", TermThreshold: 1, ChunkSize: 1, SampleInterval: 1}},
		{"negative boost", BuildConfig{CorpusRoot: "x", WorkDir: "x", TermThreshold: 1, ChunkSize: 1, SampleInterval: 1, ImportantTags: []string{"h1"}, ImportantBoost: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validate(&tt.cfg); err == nil {
				t.Errorf("validate(%+v) = nil, want error", tt.cfg)
			}
		})
	}
}
