// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package build implements the index-construction pipeline: a
// single-threaded pass over the corpus that accumulates term
// frequencies in memory, spills them to sorted shards once a term
// threshold is crossed, and k-way merges the shards into the final
// index, term-offset file, and character-bucket map.
package build

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/numfmt"
)

// PartialIndex accumulates per-document term frequencies for a
// contiguous run of documents, weighting each count as
//
//	tf(t, d) = (1 + log10(f)) / log10(U)
//
// where f is t's weighted count in d and U is the number of distinct
// terms in d after weighting. When U == 1, log10(U) is zero and the
// ratio is undefined; this implementation falls back to
// tf = 1 + log10(f) for that document so a single-term document still
// receives a defined, strictly positive weight instead of being
// dropped from the index.
type PartialIndex struct {
	terms map[string]map[int]float64
}

// NewPartialIndex returns an empty accumulator.
func NewPartialIndex() *PartialIndex {
	return &PartialIndex{terms: make(map[string]map[int]float64)}
}

// Add folds one document's weighted term counts into the accumulator.
func (p *PartialIndex) Add(docID int, termCounts map[string]int) {
	u := len(termCounts)
	if u == 0 {
		return
	}
	logU := math.Log10(float64(u))
	for term, f := range termCounts {
		var tf float64
		if u == 1 {
			tf = 1 + math.Log10(float64(f))
		} else {
			tf = (1 + math.Log10(float64(f))) / logU
		}
		tf = numfmt.Round5(tf)
		postings, ok := p.terms[term]
		if !ok {
			postings = make(map[int]float64)
			p.terms[term] = postings
		}
		postings[docID] = tf
	}
}

// TermCount reports how many distinct terms are currently buffered,
// the signal the build pipeline uses to decide when to spill.
func (p *PartialIndex) TermCount() int {
	return len(p.terms)
}

// Flush writes the buffered terms to path as a single JSON object,
// term -> docId -> tf, and resets the accumulator. encoding/json writes
// map keys sorted by their string form, so terms come out in ascending
// order; the merge stage re-sorts shard keys itself in any case. The
// same string-form sort would misorder multi-digit docIds, which only
// matters for the final index (see the posting package).
func (p *PartialIndex) Flush(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("build: creating shard %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(p.terms); err != nil {
		return fmt.Errorf("build: writing shard %s: %w", path, err)
	}
	p.terms = make(map[string]map[int]float64)
	return nil
}

// sortedKeys returns m's keys in ascending lexical order.
func sortedKeys(m map[string]map[int]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
