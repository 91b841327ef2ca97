// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/build"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/config"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/query"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(t *testing.T) *query.Engine {
	t.Helper()
	root := t.TempDir()
	workDir := t.TempDir()

	full := filepath.Join(root, "d", "1.json")
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(`{"url":"http://a","content":"<p>hello world</p>"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.BuildConfig{
		CorpusRoot:     root,
		WorkDir:        workDir,
		TermThreshold:  300000,
		ChunkSize:      100000,
		SampleInterval: 1000,
		ImportantTags:  []string{"h1", "h2", "h3", "b", "strong", "title"},
		ImportantBoost: 2,
	}
	if _, err := build.Run(cfg); err != nil {
		t.Fatalf("build.Run: %v", err)
	}
	engine, err := query.Open(
		filepath.Join(workDir, "txt", "complete_index.txt"),
		filepath.Join(workDir, "txt", "term_offsets.txt"),
		filepath.Join(workDir, "json", "char_offsets.json"),
		filepath.Join(workDir, "txt", "document_mapping.txt"),
	)
	if err != nil {
		t.Fatalf("query.Open: %v", err)
	}
	return engine
}

func performRequest(h *Handlers, method, path string) *httptest.ResponseRecorder {
	router := gin.New()
	RegisterRoutes(router, h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHandleSearchReturnsResults(t *testing.T) {
	h := NewHandlers(newTestEngine(t), nil)
	w := performRequest(h, http.MethodGet, "/v1/search?q=hello")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", w.Code, w.Body.String())
	}
	var resp SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 1 || len(resp.Results) != 1 || resp.Results[0] != "http://a" {
		t.Errorf("resp = %+v, want one result http://a", resp)
	}
}

func TestHandleSearchMissingQueryIs400(t *testing.T) {
	h := NewHandlers(newTestEngine(t), nil)
	w := performRequest(h, http.MethodGet, "/v1/search")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Code != "MISSING_PARAMETER" {
		t.Errorf("Code = %q, want MISSING_PARAMETER", resp.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(newTestEngine(t), nil)
	w := performRequest(h, http.MethodGet, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestHandleStatsWithoutStoreIs404(t *testing.T) {
	h := NewHandlers(newTestEngine(t), nil)
	w := performRequest(h, http.MethodGet, "/v1/stats")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestHandleStatsReportsLatestManifest(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("opening in-memory badger: %v", err)
	}
	defer db.Close()
	manifests, err := store.NewManifestStore(db, slog.Default())
	if err != nil {
		t.Fatalf("NewManifestStore: %v", err)
	}
	saved, err := manifests.Save(context.Background(), &build.Result{DocumentCount: 1, UniqueTermCount: 2, ShardCount: 1}, "root", ".", 1000, 5)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	h := NewHandlers(newTestEngine(t), manifests)
	w := performRequest(h, http.MethodGet, "/v1/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", w.Code, w.Body.String())
	}
	var resp StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Manifest == nil || resp.Manifest.BuildID != saved.BuildID {
		t.Errorf("resp.Manifest = %+v, want BuildID %s", resp.Manifest, saved.BuildID)
	}
}
