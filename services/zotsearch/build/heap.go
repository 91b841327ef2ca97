// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package build

// heapEntry is one shard's current front term, ordered by term and
// then by shard id so the merge visits ties in a stable, deterministic
// order.
type heapEntry struct {
	term  string
	shard int
}

// termHeap is a min-heap of heapEntry over container/heap, driving the
// external k-way merge.
type termHeap []heapEntry

func (h termHeap) Len() int { return len(h) }

func (h termHeap) Less(i, j int) bool {
	if h[i].term != h[j].term {
		return h[i].term < h[j].term
	}
	return h[i].shard < h[j].shard
}

func (h termHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *termHeap) Push(x any) {
	*h = append(*h, x.(heapEntry))
}

func (h *termHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
