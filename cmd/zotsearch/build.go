// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/spf13/cobra"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/build"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/config"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/store"
)

func newBuildCommand() *cobra.Command {
	var configPath string
	var manifestDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the build pipeline over a corpus and write the final index artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			start := time.Now()
			result, err := build.Run(cfg)
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}
			duration := time.Since(start)

			fmt.Printf("indexed %d documents, %d unique terms, %d shards, in %s\n",
				result.DocumentCount, result.UniqueTermCount, result.ShardCount, duration)

			if manifestDir == "" {
				return nil
			}
			db, err := badger.Open(badger.DefaultOptions(manifestDir).WithLogger(nil))
			if err != nil {
				return fmt.Errorf("opening manifest store at %s: %w", manifestDir, err)
			}
			defer db.Close()

			manifests, err := store.NewManifestStore(db, slog.Default())
			if err != nil {
				return err
			}
			_, err = manifests.Save(context.Background(), result, cfg.CorpusRoot, cfg.WorkDir,
				time.Now().UnixMilli(), duration.Milliseconds())
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a build config YAML file (defaults to the embedded default)")
	cmd.Flags().StringVar(&manifestDir, "manifest-dir", filepath.Join(".", "zotsearch-manifests"), "BadgerDB directory for the build manifest store; empty disables manifest recording")
	return cmd
}
