// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package intake implements corpus walking, HTML text extraction, and
// document-level filtering: the first stage of the build pipeline,
// producing the (url, fullText, importantText) triples that feed
// tokenization.
package intake

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// Walk lists leaf files under root in deterministic order: the two
// levels of the "developer/DEV/<domain>/<file>" layout are each
// visited lexically, which filepath.WalkDir already guarantees by
// sorting directory entries before descending. docId assignment by
// the caller follows this order.
func Walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
