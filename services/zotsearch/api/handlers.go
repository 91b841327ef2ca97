// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/metrics"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/query"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/store"
)

// Handlers bundles the dependencies the query endpoints need.
type Handlers struct {
	engine    *query.Engine
	manifests *store.ManifestStore
}

// NewHandlers wires a query engine (required) and an optional
// manifest store (nil disables GET /v1/stats).
func NewHandlers(engine *query.Engine, manifests *store.ManifestStore) *Handlers {
	return &Handlers{engine: engine, manifests: manifests}
}

// HandleSearch handles GET /v1/search?q=term&q=term.
//
// Query Parameters:
//
//	q: one or more raw query terms. Repeat the parameter for
//	   multiple terms, e.g. ?q=antarctica&q=warming.
//
// Response:
//
//	200 OK: SearchResponse, results empty if nothing matched.
//	400 Bad Request: no q parameter given.
func (h *Handlers) HandleSearch(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSearch")

	terms := c.QueryArray("q")
	if len(terms) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "at least one q parameter is required",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	start := time.Now()
	results, err := h.engine.Search(terms)
	metrics.QueryLatencySeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error("search failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "search failed",
			Code:  "SEARCH_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Query:   terms,
		Results: results,
		Count:   len(results),
	})
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleStats handles GET /v1/stats, reporting the most recent build
// manifest. Returns 404 if no manifest store is configured or no
// build has been recorded yet.
func (h *Handlers) HandleStats(c *gin.Context) {
	if h.manifests == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "no build manifest store configured",
			Code:  "NOT_CONFIGURED",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	manifest, err := h.manifests.LoadLatest(ctx)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "no build manifest recorded",
			Code:  "NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, StatsResponse{Manifest: manifest})
}

func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}
