// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package query implements the lookup and ranking half of the
// pipeline: character-bucket lookup, a bounded linear scan of the
// term-offset samples to bracket a term's final-index line, a
// seek-based read of the matched posting, and union/score/sort
// ranking into a URL list.
package query

import (
	"encoding/json"
	"fmt"
	"os"
)

// byteRange is the [start, end) span of one character bucket's
// samples inside the term-offset file.
type byteRange struct {
	Start int64
	End   int64
}

func (r *byteRange) UnmarshalJSON(data []byte) error {
	var pair [2]int64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// CharBucketMap is the small, fully-resident map from a term's first
// byte to the byte range of its offset samples. It is the only index
// structure the query path keeps in memory.
type CharBucketMap map[string]byteRange

// LoadCharBucketMap reads char_offsets.json.
func LoadCharBucketMap(path string) (CharBucketMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("query: reading char bucket map: %w", err)
	}
	var m CharBucketMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("query: decoding char bucket map: %w", err)
	}
	return m, nil
}
