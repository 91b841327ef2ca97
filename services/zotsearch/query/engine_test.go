// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package query_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/build"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/config"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/query"
)

func writeEnvelope(t *testing.T, root, relPath, url, content string) {
	t.Helper()
	full := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	escaped := ""
	for _, r := range content {
		switch r {
		case '"':
			escaped += `\"`
		case '\\':
			escaped += `\\`
		default:
			escaped += string(r)
		}
	}
	body := `{"url":"` + url + `","content":"` + escaped + `"}`
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func buildIndex(t *testing.T, cfg *config.BuildConfig) *query.Engine {
	t.Helper()
	if _, err := build.Run(cfg); err != nil {
		t.Fatalf("build.Run: %v", err)
	}
	engine, err := query.Open(
		filepath.Join(cfg.WorkDir, "txt", "complete_index.txt"),
		filepath.Join(cfg.WorkDir, "txt", "term_offsets.txt"),
		filepath.Join(cfg.WorkDir, "json", "char_offsets.json"),
		filepath.Join(cfg.WorkDir, "txt", "document_mapping.txt"),
	)
	if err != nil {
		t.Fatalf("query.Open: %v", err)
	}
	return engine
}

// TestSampleBoundaryLookup forces a sample interval of 1 so every
// term gets its own offset sample, then a vocabulary large enough to
// span several character buckets, and checks every term in the
// vocabulary is independently resolvable.
func TestSampleBoundaryLookup(t *testing.T) {
	root := t.TempDir()
	workDir := t.TempDir()
	words := []string{
		"apple", "banana", "cherry", "date", "egg",
		"fig", "grape", "honeydew", "indigo", "jackfruit",
	}
	for _, w := range words {
		writeEnvelope(t, root, filepath.Join("d", filepath.Base(w)+".json"),
			"http://doc/"+w, "<p>"+w+" "+w+"</p>")
	}

	cfg := &config.BuildConfig{
		CorpusRoot:     root,
		WorkDir:        workDir,
		TermThreshold:  300000,
		ChunkSize:      100000,
		SampleInterval: 1,
		ImportantTags:  []string{"h1", "h2", "h3", "b", "strong", "title"},
		ImportantBoost: 2,
	}
	engine := buildIndex(t, cfg)

	for _, w := range words {
		urls, err := engine.Search([]string{w})
		if err != nil {
			t.Fatalf("Search(%q): %v", w, err)
		}
		if len(urls) != 1 || urls[0] != "http://doc/"+w {
			t.Errorf("Search(%q) = %v, want [http://doc/%s]", w, urls, w)
		}
	}
}

// TestUnionRanking checks a query over two terms returns every
// document that contains at least one of them (boolean OR), with the
// document matching both terms ranked first.
func TestUnionRanking(t *testing.T) {
	root := t.TempDir()
	workDir := t.TempDir()
	writeEnvelope(t, root, "d/1.json", "http://both", "<p>alpha beta alpha beta alpha beta</p>")
	writeEnvelope(t, root, "d/2.json", "http://alpha-only", "<p>alpha</p>")
	writeEnvelope(t, root, "d/3.json", "http://beta-only", "<p>beta</p>")
	writeEnvelope(t, root, "d/4.json", "http://neither", "<p>gamma</p>")

	cfg := &config.BuildConfig{
		CorpusRoot:     root,
		WorkDir:        workDir,
		TermThreshold:  300000,
		ChunkSize:      100000,
		SampleInterval: 1000,
		ImportantTags:  []string{"h1", "h2", "h3", "b", "strong", "title"},
		ImportantBoost: 2,
	}
	engine := buildIndex(t, cfg)

	urls, err := engine.Search([]string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(urls) != 3 {
		t.Fatalf("Search(alpha,beta) = %v, want 3 results (union, not intersection)", urls)
	}
	if urls[0] != "http://both" {
		t.Errorf("top result = %q, want http://both (matches both terms)", urls[0])
	}
	for _, bad := range []string{"http://neither"} {
		for _, u := range urls {
			if u == bad {
				t.Errorf("Search(alpha,beta) unexpectedly included %q", bad)
			}
		}
	}
}

// TestDisjointTermsStillUnion checks a query where no document
// contains every term still returns each partial match.
func TestDisjointTermsStillUnion(t *testing.T) {
	root := t.TempDir()
	workDir := t.TempDir()
	writeEnvelope(t, root, "d/1.json", "http://x", "<p>zeta</p>")
	writeEnvelope(t, root, "d/2.json", "http://y", "<p>omega</p>")

	cfg := &config.BuildConfig{
		CorpusRoot:     root,
		WorkDir:        workDir,
		TermThreshold:  300000,
		ChunkSize:      100000,
		SampleInterval: 1000,
		ImportantTags:  []string{"h1", "h2", "h3", "b", "strong", "title"},
		ImportantBoost: 2,
	}
	engine := buildIndex(t, cfg)

	urls, err := engine.Search([]string{"zeta", "omega"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("Search(zeta,omega) = %v, want both documents via union", urls)
	}
}

// TestSearchUnknownTermYieldsNoResults exercises the miss path: a
// term absent from the vocabulary contributes nothing and is not an
// error.
func TestSearchUnknownTermYieldsNoResults(t *testing.T) {
	root := t.TempDir()
	workDir := t.TempDir()
	writeEnvelope(t, root, "d/1.json", "http://only", "<p>known</p>")

	cfg := &config.BuildConfig{
		CorpusRoot:     root,
		WorkDir:        workDir,
		TermThreshold:  300000,
		ChunkSize:      100000,
		SampleInterval: 1000,
		ImportantTags:  []string{"h1", "h2", "h3", "b", "strong", "title"},
		ImportantBoost: 2,
	}
	engine := buildIndex(t, cfg)

	urls, err := engine.Search([]string{"unknownterm"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("Search(unknownterm) = %v, want no results", urls)
	}
}
