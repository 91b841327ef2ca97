// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package query

import (
	"sort"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/numfmt"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/posting"
)

// rank orders candidates: the candidate set is the union of doc-ids
// across postings (excluding the reserved df slot), score is the sum
// of each posting's contribution, ties break by first-encountered
// order (query-term order, then ascending docId within a posting) so
// results are deterministic for identical inputs.
func rank(postings []posting.Posting) []int {
	scores := make(map[int]float64)
	var order []int
	seen := make(map[int]struct{})

	for _, p := range postings {
		ids := make([]int, 0, len(p.Scores))
		for id := range p.Scores {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				order = append(order, id)
			}
			scores[id] += p.Scores[id]
		}
	}

	for id := range scores {
		scores[id] = numfmt.Round5(scores[id])
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	return order
}
