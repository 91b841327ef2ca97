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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/posting"
)

// lookupTerm resolves a single stemmed query term: bucket lookup,
// bounded linear scan of the offset samples to bracket the term, then
// a seek-and-scan of the final index within that bracket. A false
// second return means the term contributed no posting, which is a
// miss, never an error.
func (e *Engine) lookupTerm(term string) (posting.Posting, bool, error) {
	if term == "" {
		return posting.Posting{}, false, nil
	}
	br, ok := e.charMap[term[:1]]
	if !ok {
		return posting.Posting{}, false, nil
	}

	lower, upper, err := e.scanOffsetBucket(term, br)
	if err != nil {
		return posting.Posting{}, false, err
	}
	return e.scanIndex(term, lower, upper)
}

// scanOffsetBucket reads the term-offset samples within br, narrowing
// to the [lower, upper] byte range of the final index that must
// contain term's line, if it exists.
func (e *Engine) scanOffsetBucket(term string, br byteRange) (lower, upper int64, err error) {
	f, err := os.Open(e.offsetPath)
	if err != nil {
		return 0, 0, fmt.Errorf("query: opening term offset file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(br.Start, io.SeekStart); err != nil {
		return 0, 0, fmt.Errorf("query: seeking term offset file: %w", err)
	}
	r := bufio.NewReader(f)

	pos := br.Start
	for pos <= br.End {
		line, readErr := r.ReadString('\n')
		if line == "" {
			break
		}
		word, offset, ok := parseOffsetLine(line)
		pos += int64(len(line))
		if !ok {
			if readErr != nil {
				break
			}
			continue
		}
		switch {
		case word < term:
			lower = offset
		case word > term:
			upper = offset
			return lower, upper, nil
		default: // word == term
			return offset, offset, nil
		}
		if readErr != nil {
			break
		}
	}
	return lower, upper, nil
}

func parseOffsetLine(line string) (word string, offset int64, ok bool) {
	line = strings.TrimRight(line, "\n")
	i := strings.LastIndexByte(line, ':')
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.ParseInt(line[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return line[:i], n, true
}

// scanIndex reads the final index between [lower, upper] looking for
// term's line.
func (e *Engine) scanIndex(term string, lower, upper int64) (posting.Posting, bool, error) {
	f, err := os.Open(e.indexPath)
	if err != nil {
		return posting.Posting{}, false, fmt.Errorf("query: opening final index: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(lower, io.SeekStart); err != nil {
		return posting.Posting{}, false, fmt.Errorf("query: seeking final index: %w", err)
	}
	r := bufio.NewReader(f)

	pos := lower
	for pos <= upper {
		line, readErr := r.ReadString('\n')
		if line == "" {
			break
		}
		trimmed := strings.TrimRight(line, "\n")
		pos += int64(len(line))
		lineTerm, p, parseErr := posting.ParseLine(trimmed)
		if parseErr == nil && lineTerm == term {
			return p, true, nil
		}
		if readErr != nil {
			break
		}
	}
	return posting.Posting{}, false, nil
}
