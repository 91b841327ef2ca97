// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store persists build-run metadata in BadgerDB. The index
// artifacts themselves stay flat, byte-seekable files; what lives
// here is the record of each build run that produced them.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/build"
)

const (
	keyPrefixManifest = "zotsearch:manifest:"
	keySuffixLatest   = "latest"
)

// Manifest records one completed build run.
type Manifest struct {
	BuildID         string `json:"build_id"`
	CorpusRoot      string `json:"corpus_root"`
	WorkDir         string `json:"work_dir"`
	DocumentCount   int    `json:"document_count"`
	UniqueTermCount int    `json:"unique_term_count"`
	ShardCount      int    `json:"shard_count"`
	DurationMillis  int64  `json:"duration_millis"`
	CreatedAtMilli  int64  `json:"created_at_milli"`
}

// ManifestStore manages build manifests in BadgerDB.
//
// Thread Safety: safe for concurrent use; BadgerDB handles its own
// concurrency control.
type ManifestStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewManifestStore wraps an already-open BadgerDB handle.
func NewManifestStore(db *badger.DB, logger *slog.Logger) (*ManifestStore, error) {
	if db == nil {
		return nil, fmt.Errorf("store: badger db must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("store: logger must not be nil")
	}
	return &ManifestStore{db: db, logger: logger}, nil
}

// Save records a completed build and advances the "latest" pointer.
func (s *ManifestStore) Save(ctx context.Context, result *build.Result, corpusRoot, workDir string, createdAtMilli, durationMillis int64) (*Manifest, error) {
	if ctx == nil {
		return nil, fmt.Errorf("store: ctx must not be nil")
	}
	if result == nil {
		return nil, fmt.Errorf("store: result must not be nil")
	}

	m := &Manifest{
		BuildID:         uuid.NewString(),
		CorpusRoot:      corpusRoot,
		WorkDir:         workDir,
		DocumentCount:   result.DocumentCount,
		UniqueTermCount: result.UniqueTermCount,
		ShardCount:      result.ShardCount,
		DurationMillis:  durationMillis,
		CreatedAtMilli:  createdAtMilli,
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("store: marshaling manifest: %w", err)
	}

	buildKey := keyPrefixManifest + m.BuildID
	latestKey := keyPrefixManifest + keySuffixLatest

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(buildKey), data); err != nil {
			return fmt.Errorf("storing manifest: %w", err)
		}
		if err := txn.Set([]byte(latestKey), []byte(m.BuildID)); err != nil {
			return fmt.Errorf("updating latest pointer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: writing manifest to badger: %w", err)
	}

	s.logger.Info("build manifest saved",
		slog.String("build_id", m.BuildID),
		slog.String("corpus_root", m.CorpusRoot),
		slog.Int("document_count", m.DocumentCount),
		slog.Int("unique_term_count", m.UniqueTermCount),
	)
	return m, nil
}

// LoadLatest returns the most recently saved manifest.
func (s *ManifestStore) LoadLatest(ctx context.Context) (*Manifest, error) {
	if ctx == nil {
		return nil, fmt.Errorf("store: ctx must not be nil")
	}

	latestKey := keyPrefixManifest + keySuffixLatest
	var buildID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(latestKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			buildID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: reading latest pointer: %w", err)
	}
	return s.load(buildID)
}

func (s *ManifestStore) load(buildID string) (*Manifest, error) {
	key := keyPrefixManifest + buildID
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return fmt.Errorf("reading manifest %s: %w", buildID, err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("store: unmarshaling manifest %s: %w", buildID, err)
	}
	return &m, nil
}

// List returns up to limit stored manifests (100 when limit <= 0),
// newest first.
func (s *ManifestStore) List(ctx context.Context, limit int) ([]*Manifest, error) {
	if ctx == nil {
		return nil, fmt.Errorf("store: ctx must not be nil")
	}
	if limit <= 0 {
		limit = 100
	}

	var results []*Manifest
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixManifest)
		it := txn.NewIterator(opts)
		defer it.Close()

		latestKey := keyPrefixManifest + keySuffixLatest
		for it.Seek(opts.Prefix); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if key == latestKey {
				continue
			}
			var m Manifest
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			})
			if err != nil {
				s.logger.Warn("skipping corrupt manifest", slog.String("key", key), slog.Any("error", err))
				continue
			}
			results = append(results, &m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: listing manifests: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAtMilli > results[j].CreatedAtMilli
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
