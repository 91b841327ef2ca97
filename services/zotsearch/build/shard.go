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
	"os"
)

// loadShard decodes a whole spilled shard file into memory.
func loadShard(path string) (map[string]map[int]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("build: reading shard %s: %w", path, err)
	}
	var m map[string]map[int]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("build: decoding shard %s: %w", path, err)
	}
	return m, nil
}

// loadChunk materializes shard path fully, takes the next chunkSize
// keys starting at pos from its sorted key list, and returns that
// slice alongside the advanced cursor position. The full decode is
// discarded on return, only the requested chunk survives, bounding
// the merge's working set to one chunk per shard at a time at the
// cost of re-reading each shard file once per chunk.
func loadChunk(path string, pos, chunkSize int) (chunk map[string]map[int]float64, newPos int, err error) {
	full, err := loadShard(path)
	if err != nil {
		return nil, pos, err
	}
	keys := sortedKeys(full)
	if pos >= len(keys) {
		return map[string]map[int]float64{}, pos, nil
	}
	end := pos + chunkSize
	if end > len(keys) {
		end = len(keys)
	}
	chunk = make(map[string]map[int]float64, end-pos)
	for _, k := range keys[pos:end] {
		chunk[k] = full[k]
	}
	return chunk, end, nil
}

// shardCursor walks one spilled shard's terms in ascending order,
// loading bounded chunks on demand via loadChunk.
type shardCursor struct {
	id        int
	path      string
	chunkSize int

	pos       int
	chunk     map[string]map[int]float64
	chunkKeys []string
	idx       int
}

func newShardCursor(id int, path string, chunkSize int) (*shardCursor, error) {
	c := &shardCursor{id: id, path: path, chunkSize: chunkSize}
	if err := c.loadNextChunk(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *shardCursor) loadNextChunk() error {
	chunk, newPos, err := loadChunk(c.path, c.pos, c.chunkSize)
	if err != nil {
		return err
	}
	c.pos = newPos
	c.chunk = chunk
	c.chunkKeys = sortedKeys(chunk)
	c.idx = 0
	return nil
}

// peek returns the current front term, if any remain.
func (c *shardCursor) peek() (string, bool) {
	if c.idx < len(c.chunkKeys) {
		return c.chunkKeys[c.idx], true
	}
	return "", false
}

// postingFor returns the currently-loaded chunk's posting for term.
// It is only valid for the term last returned by peek.
func (c *shardCursor) postingFor(term string) (map[int]float64, bool) {
	p, ok := c.chunk[term]
	return p, ok
}

// advance moves past the current front term and returns the new
// front term, loading the next chunk from disk if the current one is
// exhausted.
func (c *shardCursor) advance() (string, bool, error) {
	c.idx++
	if c.idx < len(c.chunkKeys) {
		return c.chunkKeys[c.idx], true, nil
	}
	if err := c.loadNextChunk(); err != nil {
		return "", false, err
	}
	if len(c.chunkKeys) == 0 {
		return "", false, nil
	}
	return c.chunkKeys[0], true, nil
}
