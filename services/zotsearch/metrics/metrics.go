// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package metrics exposes the Prometheus instrumentation for both
// pipelines: intake-skip reasons, indexed-document and shard-flush
// counts, and build duration on the build side; query count, query
// latency and term-miss counts on the query side.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IntakeSkippedTotal counts pages dropped during intake, by reason:
	// io_error, parse_error, empty_content, duplicate_content, no_tokens.
	IntakeSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zotsearch",
		Subsystem: "build",
		Name:      "intake_skipped_total",
		Help:      "Total pages skipped during intake, by reason",
	}, []string{"reason"})

	// DocumentsIndexedTotal counts pages that received a docId.
	DocumentsIndexedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zotsearch",
		Subsystem: "build",
		Name:      "documents_indexed_total",
		Help:      "Total documents assigned a docId",
	})

	// ShardsFlushedTotal counts partial-index spills to disk.
	ShardsFlushedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zotsearch",
		Subsystem: "build",
		Name:      "shards_flushed_total",
		Help:      "Total partial-index shards spilled to disk",
	})

	// BuildDurationSeconds measures end-to-end build wall time.
	BuildDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "zotsearch",
		Subsystem: "build",
		Name:      "duration_seconds",
		Help:      "Wall-clock duration of a full build run",
		Buckets:   []float64{1, 5, 15, 30, 60, 300, 900, 3600},
	})

	// QueriesTotal counts served queries.
	QueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zotsearch",
		Subsystem: "query",
		Name:      "requests_total",
		Help:      "Total search queries served",
	})

	// QueryLatencySeconds measures per-request lookup+rank latency.
	QueryLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "zotsearch",
		Subsystem: "query",
		Name:      "latency_seconds",
		Help:      "End-to-end query latency",
		Buckets:   []float64{.0005, .001, .002, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	// QueryTermsMissedTotal counts query terms with no posting found.
	QueryTermsMissedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zotsearch",
		Subsystem: "query",
		Name:      "terms_missed_total",
		Help:      "Total query terms that contributed no posting",
	})
)
