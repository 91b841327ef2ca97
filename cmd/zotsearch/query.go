// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/query"
)

func newQueryCommand() *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:   "query [terms...]",
		Short: "Run a query against a completed build's artifacts and print the ranked URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := query.Open(
				filepath.Join(workDir, "txt", "complete_index.txt"),
				filepath.Join(workDir, "txt", "term_offsets.txt"),
				filepath.Join(workDir, "json", "char_offsets.json"),
				filepath.Join(workDir, "txt", "document_mapping.txt"),
			)
			if err != nil {
				return fmt.Errorf("opening index: %w", err)
			}

			results, err := engine.Search(args)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if len(results) == 0 {
				fmt.Println("no results")
				return nil
			}
			for _, url := range results {
				fmt.Println(url)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "work-dir", ".", "directory containing the build's output artifacts")
	return cmd
}
