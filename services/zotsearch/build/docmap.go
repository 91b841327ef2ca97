// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package build

import (
	"bufio"
	"fmt"
	"os"
)

// WriteDocumentMap writes the document URL map: one URL per line,
// line N (1-indexed) is the URL for docId N. urls must already be in
// docId order (urls[0] is docId 1).
func WriteDocumentMap(path string, urls []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("build: creating document map %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, u := range urls {
		if _, err := fmt.Fprintf(w, "%s\n", u); err != nil {
			return fmt.Errorf("build: writing document map entry: %w", err)
		}
	}
	return w.Flush()
}
