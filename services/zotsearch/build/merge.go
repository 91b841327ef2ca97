// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package build

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/numfmt"
)

// MergeResult summarizes one completed merge.
type MergeResult struct {
	UniqueTermCount int
	CharRanges      map[string]charRange
}

// Merger performs the external k-way merge of spilled shards: a
// min-heap keyed by (term, shardId) drives a single pass over all
// shards' sorted keys, accumulating every shard's posting for the
// current term until the term changes, at which point the term is
// finalized — idf computed from totalDocs and the accumulated
// document frequency, each tf converted to tf-idf and rounded — and
// handed to the index writer.
type Merger struct {
	shardPaths     []string
	chunkSize      int
	totalDocs      int
	sampleInterval int
}

// NewMerger builds a merger over the given spilled shard files.
// totalDocs is N in the idf formula idf = log10(N/df).
func NewMerger(shardPaths []string, chunkSize, totalDocs, sampleInterval int) *Merger {
	return &Merger{
		shardPaths:     shardPaths,
		chunkSize:      chunkSize,
		totalDocs:      totalDocs,
		sampleInterval: sampleInterval,
	}
}

// Merge writes the final index to indexPath, the term-offset samples
// to offsetPath, and the character-bucket map to charMapPath.
func (m *Merger) Merge(indexPath, offsetPath, charMapPath string) (*MergeResult, error) {
	cursors := make([]*shardCursor, len(m.shardPaths))
	for i, p := range m.shardPaths {
		c, err := newShardCursor(i, p, m.chunkSize)
		if err != nil {
			return nil, err
		}
		cursors[i] = c
	}

	h := &termHeap{}
	heap.Init(h)
	for _, c := range cursors {
		if term, ok := c.peek(); ok {
			heap.Push(h, heapEntry{term: term, shard: c.id})
		}
	}

	w, err := newIndexWriter(indexPath, offsetPath, m.sampleInterval)
	if err != nil {
		return nil, err
	}

	var prevTerm string
	acc := make(map[int]float64)

	for h.Len() > 0 {
		e := heap.Pop(h).(heapEntry)
		if prevTerm != "" && e.term != prevTerm {
			if err := m.finalize(w, prevTerm, acc); err != nil {
				return nil, err
			}
			acc = make(map[int]float64)
		}
		prevTerm = e.term

		c := cursors[e.shard]
		postings, ok := c.postingFor(e.term)
		if !ok {
			return nil, fmt.Errorf("build: merge: shard %d lost term %q between peek and read", e.shard, e.term)
		}
		for docID, tf := range postings {
			acc[docID] = tf
		}

		nextTerm, ok, err := c.advance()
		if err != nil {
			return nil, err
		}
		if ok {
			heap.Push(h, heapEntry{term: nextTerm, shard: e.shard})
		}
	}

	if prevTerm != "" {
		if err := m.finalize(w, prevTerm, acc); err != nil {
			return nil, err
		}
	}

	charRanges, uniqueCount, err := w.Close(charMapPath)
	if err != nil {
		return nil, err
	}
	return &MergeResult{UniqueTermCount: uniqueCount, CharRanges: charRanges}, nil
}

// finalize converts one term's accumulated per-document tf values into
// tf-idf scores and writes the resulting posting.
func (m *Merger) finalize(w *indexWriter, term string, acc map[int]float64) error {
	df := len(acc)
	if df == 0 {
		return nil
	}
	idf := math.Log10(float64(m.totalDocs) / float64(df))
	scores := make(map[int]float64, df)
	for docID, tf := range acc {
		scores[docID] = numfmt.Round5(tf * idf)
	}
	return w.WriteTerm(term, df, scores)
}
