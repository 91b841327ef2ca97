// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package query

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/metrics"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/posting"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/tokenize"
)

// Engine answers queries against one completed build's artifacts.
// It is read-only and safe for concurrent use by independent
// goroutines: each call opens its own file handles rather than
// sharing state, so no locking is needed beyond the immutable
// in-memory charMap and docURLs loaded at Open time.
type Engine struct {
	charMap    CharBucketMap
	docURLs    []string
	indexPath  string
	offsetPath string
}

// Open loads the small, fully-resident artifacts (character bucket
// map, document URL map) and records the paths of the large,
// seek-accessed ones (final index, term offsets) without reading
// them.
func Open(indexPath, offsetPath, charMapPath, docMapPath string) (*Engine, error) {
	charMap, err := LoadCharBucketMap(charMapPath)
	if err != nil {
		return nil, err
	}
	urls, err := loadDocumentMap(docMapPath)
	if err != nil {
		return nil, err
	}
	return &Engine{
		charMap:    charMap,
		docURLs:    urls,
		indexPath:  indexPath,
		offsetPath: offsetPath,
	}, nil
}

func loadDocumentMap(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("query: opening document map: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		urls = append(urls, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("query: reading document map: %w", err)
	}
	return urls, nil
}

// Search runs the full query pipeline over rawTerms: tokenize and
// stem to a distinct term set, look up each term's posting, union and
// score the candidate doc-ids, sort descending, and map to URLs. An
// empty input or zero matches yields an empty, non-nil slice. A term
// whose lookup fails on I/O is logged at debug level and counted as a
// miss, so the returned error is always nil.
func (e *Engine) Search(rawTerms []string) ([]string, error) {
	metrics.QueriesTotal.Inc()

	seen := make(map[string]struct{})
	var postings []posting.Posting
	for _, raw := range rawTerms {
		for _, term := range tokenize.StemAll(raw) {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}

			p, ok, err := e.lookupTerm(term)
			if err != nil {
				slog.Debug("query: term lookup failed", slog.String("term", term), slog.Any("error", err))
				metrics.QueryTermsMissedTotal.Inc()
				continue
			}
			if !ok {
				metrics.QueryTermsMissedTotal.Inc()
				continue
			}
			postings = append(postings, p)
		}
	}

	docIDs := rank(postings)
	urls := make([]string, 0, len(docIDs))
	for _, id := range docIDs {
		if id < 1 || id > len(e.docURLs) {
			continue
		}
		urls = append(urls, e.docURLs[id-1])
	}
	return urls, nil
}
