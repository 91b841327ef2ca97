// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package build

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/config"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/intake"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/metrics"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/tokenize"
)

// Result summarizes one completed build run, the payload handed to
// the build manifest store.
type Result struct {
	DocumentCount   int
	UniqueTermCount int
	ShardCount      int
}

// artifactPaths is every file the build pipeline reads or writes,
// all relative to cfg.WorkDir.
type artifactPaths struct {
	workDir      string
	indexFile    string
	offsetFile   string
	charMapFile  string
	docMapFile   string
	logFile      string
	shardDir     string
}

func newArtifactPaths(workDir string) artifactPaths {
	return artifactPaths{
		workDir:     workDir,
		indexFile:   filepath.Join(workDir, "txt", "complete_index.txt"),
		offsetFile:  filepath.Join(workDir, "txt", "term_offsets.txt"),
		charMapFile: filepath.Join(workDir, "json", "char_offsets.json"),
		docMapFile:  filepath.Join(workDir, "txt", "document_mapping.txt"),
		logFile:     filepath.Join(workDir, "txt", "log.txt"),
		shardDir:    filepath.Join(workDir, "json"),
	}
}

func (p artifactPaths) shardPath(k int) string {
	return filepath.Join(p.shardDir, fmt.Sprintf("partial_index_%d.json", k))
}

// Run executes the full build pipeline: corpus walk, per-document
// intake and filtering, tokenization and weighting, partial-index
// accumulation with threshold-triggered shard spills, k-way merge,
// and document-URL-map emission. It is strictly sequential: the whole
// pipeline runs on the calling goroutine.
func Run(cfg *config.BuildConfig) (*Result, error) {
	start := time.Now()
	paths := newArtifactPaths(cfg.WorkDir)
	for _, dir := range []string{filepath.Join(cfg.WorkDir, "txt"), filepath.Join(cfg.WorkDir, "json")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("build: preparing output directory %s: %w", dir, err)
		}
	}

	logFile, err := os.OpenFile(paths.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("build: opening log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, nil))

	importantTags := make(map[string]struct{}, len(cfg.ImportantTags))
	for _, t := range cfg.ImportantTags {
		importantTags[t] = struct{}{}
	}

	files, err := intake.Walk(cfg.CorpusRoot)
	if err != nil {
		return nil, fmt.Errorf("build: walking corpus root %s: %w", cfg.CorpusRoot, err)
	}

	dedup := intake.NewDedupFilter()
	partial := NewPartialIndex()
	var urls []string
	var shardPaths []string
	docID := 0

	flush := func() error {
		if partial.TermCount() == 0 {
			return nil
		}
		shardPaths = append(shardPaths, paths.shardPath(len(shardPaths)+1))
		path := shardPaths[len(shardPaths)-1]
		if err := partial.Flush(path); err != nil {
			return err
		}
		metrics.ShardsFlushedTotal.Inc()
		logger.Info("shard flushed", slog.String("path", path))
		return nil
	}

	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			metrics.IntakeSkippedTotal.WithLabelValues("io_error").Inc()
			logger.Warn("skipping unreadable leaf", slog.String("path", path), slog.Any("error", err))
			continue
		}
		var env intake.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			metrics.IntakeSkippedTotal.WithLabelValues("parse_error").Inc()
			logger.Warn("skipping malformed envelope", slog.String("path", path), slog.Any("error", err))
			continue
		}

		fullText, importantText, err := intake.ExtractText(env.Content, importantTags)
		if err != nil {
			metrics.IntakeSkippedTotal.WithLabelValues("parse_error").Inc()
			logger.Warn("skipping unparseable html", slog.String("path", path), slog.Any("error", err))
			continue
		}
		if !dedup.Accept(fullText) {
			reason := "empty_content"
			if fullText != "" {
				reason = "duplicate_content"
			}
			metrics.IntakeSkippedTotal.WithLabelValues(reason).Inc()
			continue
		}

		counts := tokenize.Weigh(fullText, importantText, cfg.ImportantBoost)
		if len(counts) == 0 {
			metrics.IntakeSkippedTotal.WithLabelValues("no_tokens").Inc()
			continue
		}

		docID++
		urls = append(urls, env.URL)
		partial.Add(docID, counts)
		metrics.DocumentsIndexedTotal.Inc()

		if partial.TermCount() > cfg.TermThreshold {
			if err := flush(); err != nil {
				return nil, fmt.Errorf("build: flushing shard: %w", err)
			}
		}
	}
	if err := flush(); err != nil {
		return nil, fmt.Errorf("build: flushing final shard: %w", err)
	}

	if err := WriteDocumentMap(paths.docMapFile, urls); err != nil {
		return nil, err
	}

	if len(shardPaths) == 0 {
		logger.Warn("build produced no documents", slog.String("corpus_root", cfg.CorpusRoot))
		return &Result{DocumentCount: docID}, nil
	}

	merger := NewMerger(shardPaths, cfg.ChunkSize, docID, cfg.SampleInterval)
	mergeResult, err := merger.Merge(paths.indexFile, paths.offsetFile, paths.charMapFile)
	if err != nil {
		return nil, fmt.Errorf("build: merge: %w", err)
	}

	metrics.BuildDurationSeconds.Observe(time.Since(start).Seconds())
	logger.Info("build complete",
		slog.Int("documents", docID),
		slog.Int("unique_terms", mergeResult.UniqueTermCount),
		slog.Int("shards", len(shardPaths)),
	)

	return &Result{
		DocumentCount:   docID,
		UniqueTermCount: mergeResult.UniqueTermCount,
		ShardCount:      len(shardPaths),
	}, nil
}
