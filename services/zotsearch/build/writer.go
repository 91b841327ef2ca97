// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package build

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/posting"
)

// charRange is the byte span of one first-character bucket's samples
// inside the term-offset file.
type charRange struct {
	Start int64
	End   int64
}

// MarshalJSON emits the [start, end] pair form the query side reads
// back from char_offsets.json.
func (r charRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{r.Start, r.End})
}

// sample is one (term, line-start-offset) pair pending a flush to the
// term-offset file.
type sample struct {
	term string
	pos  int64
}

// indexWriter streams finalized terms to the final index file while
// bookkeeping the term-offset samples and character-bucket ranges:
// every sampleInterval-th term is recorded, every first-character
// change closes out the prior bucket (recording its trailing term
// too, so no bucket is ever sample-less), and the very last term of
// the build closes out the final bucket on Close.
//
// No in-memory buffer of finalized terms is kept across flush cycles.
// Each term is written to the index file as soon as the merge
// finalizes it: the term threshold governs shard spill size upstream,
// not output batching here, and streaming writes produce
// byte-identical output to a batched writer while using less memory,
// since nothing about a term's offset or bucket placement depends on
// how many sibling terms are buffered alongside it.
type indexWriter struct {
	indexFile  *bufio.Writer
	offsetFile *bufio.Writer
	closeFns   []func() error

	sampleInterval int
	uniqueCount    int

	currentChar byte // 0 is the "no bucket open yet" sentinel
	bucketStart int64
	charRanges  map[string]charRange

	inFlight []sample

	prevTerm string
	prevPos  int64

	indexPos  int64
	offsetPos int64
}

func newIndexWriter(indexPath, offsetPath string, sampleInterval int) (*indexWriter, error) {
	indexF, err := os.Create(indexPath)
	if err != nil {
		return nil, fmt.Errorf("build: creating index file: %w", err)
	}
	offsetF, err := os.Create(offsetPath)
	if err != nil {
		indexF.Close()
		return nil, fmt.Errorf("build: creating offset file: %w", err)
	}
	return &indexWriter{
		indexFile:      bufio.NewWriter(indexF),
		offsetFile:     bufio.NewWriter(offsetF),
		closeFns:       []func() error{indexF.Close, offsetF.Close},
		sampleInterval: sampleInterval,
		charRanges:     make(map[string]charRange),
	}, nil
}

// WriteTerm appends one finalized term's postings line and updates
// the offset/bucket bookkeeping for it.
func (w *indexWriter) WriteTerm(term string, df int, scores map[int]float64) error {
	lineStart := w.indexPos
	w.uniqueCount++
	firstChar := term[0]
	boundary := firstChar != w.currentChar
	takeSample := boundary || w.uniqueCount%w.sampleInterval == 0

	if boundary {
		if w.prevTerm != "" {
			w.inFlight = append(w.inFlight, sample{w.prevTerm, w.prevPos})
		}
		if err := w.flushSamples(); err != nil {
			return err
		}
		if w.currentChar != 0 {
			w.charRanges[string(w.currentChar)] = charRange{Start: w.bucketStart, End: w.offsetPos}
		}
		w.bucketStart = w.offsetPos
		w.currentChar = firstChar
	}
	if takeSample {
		w.inFlight = append(w.inFlight, sample{term, lineStart})
	}
	w.prevTerm = term
	w.prevPos = lineStart

	p := posting.Posting{DF: df, Scores: scores}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("build: marshaling postings for %q: %w", term, err)
	}
	line := term + "|" + string(body) + "\n"
	n, err := w.indexFile.WriteString(line)
	w.indexPos += int64(n)
	if err != nil {
		return fmt.Errorf("build: writing index line for %q: %w", term, err)
	}
	return nil
}

func (w *indexWriter) flushSamples() error {
	for _, s := range w.inFlight {
		line := fmt.Sprintf("%s:%d\n", s.term, s.pos)
		n, err := w.offsetFile.WriteString(line)
		w.offsetPos += int64(n)
		if err != nil {
			return fmt.Errorf("build: writing offset sample for %q: %w", s.term, err)
		}
	}
	w.inFlight = nil
	return nil
}

// Close flushes the trailing bucket (ensuring the final term is
// recorded even if it landed on neither a sample boundary nor a
// character change), writes the character-bucket map, and closes the
// underlying files. It returns the completed bucket map and the total
// count of distinct terms written.
func (w *indexWriter) Close(charMapPath string) (map[string]charRange, int, error) {
	if w.prevTerm != "" {
		alreadySampled := len(w.inFlight) > 0 && w.inFlight[len(w.inFlight)-1].term == w.prevTerm
		if !alreadySampled {
			w.inFlight = append(w.inFlight, sample{w.prevTerm, w.prevPos})
		}
	}
	if err := w.flushSamples(); err != nil {
		return nil, 0, err
	}
	if w.currentChar != 0 {
		w.charRanges[string(w.currentChar)] = charRange{Start: w.bucketStart, End: w.offsetPos}
	}

	if err := w.indexFile.Flush(); err != nil {
		return nil, 0, fmt.Errorf("build: flushing index file: %w", err)
	}
	if err := w.offsetFile.Flush(); err != nil {
		return nil, 0, fmt.Errorf("build: flushing offset file: %w", err)
	}
	for _, fn := range w.closeFns {
		if err := fn(); err != nil {
			return nil, 0, fmt.Errorf("build: closing build output: %w", err)
		}
	}

	f, err := os.Create(charMapPath)
	if err != nil {
		return nil, 0, fmt.Errorf("build: creating char bucket map: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(w.charRanges); err != nil {
		return nil, 0, fmt.Errorf("build: writing char bucket map: %w", err)
	}

	return w.charRanges, w.uniqueCount, nil
}
