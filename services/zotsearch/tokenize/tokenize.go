// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tokenize implements the tokenizer and term weigher: maximal
// ASCII alphanumeric runs, Porter-stemmed, with a 3x weight for
// tokens drawn from an important-tag text fragment.
package tokenize

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

// tokenPattern matches maximal runs of ASCII alphanumerics.
var tokenPattern = regexp.MustCompile(`[A-Za-z0-9]+`)

// Tokenize splits s into lower-cased alphanumeric tokens in order of
// appearance. It does not stem; call Stem on each result.
func Tokenize(s string) []string {
	raw := tokenPattern.FindAllString(s, -1)
	out := make([]string, len(raw))
	for i, tok := range raw {
		out[i] = strings.ToLower(tok)
	}
	return out
}

// Stem reduces a lower-cased token to its Porter stem.
//
// stemStopWords is true: the source corpus (and its query path) stems
// every token uniformly, stop words included, so queries and document
// postings use the same vocabulary.
func Stem(token string) string {
	return english.Stem(token, true)
}

// StemAll tokenizes and stems s in one pass, returning stems in order
// (with repeats — callers that need counts should fold the result
// themselves, as Weigh does).
func StemAll(s string) []string {
	tokens := Tokenize(s)
	stems := make([]string, len(tokens))
	for i, tok := range tokens {
		stems[i] = Stem(tok)
	}
	return stems
}

// Weigh builds the term->raw_count map for one document: every
// stemmed token of fullText counts once, and every stemmed token of
// importantText counts an additional importantBoost times (default 2,
// yielding 3x weight for importance-tagged occurrences).
func Weigh(fullText, importantText string, importantBoost int) map[string]int {
	counts := make(map[string]int)
	for _, stem := range StemAll(fullText) {
		counts[stem]++
	}
	for _, stem := range StemAll(importantText) {
		counts[stem] += importantBoost
	}
	return counts
}
