// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ashneetrathore/zotsearch/services/zotsearch/api"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/query"
	"github.com/ashneetrathore/zotsearch/services/zotsearch/store"
)

func newServeCommand() *cobra.Command {
	var workDir string
	var manifestDir string
	var addr string
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
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

			var manifests *store.ManifestStore
			if manifestDir != "" {
				db, err := badger.Open(badger.DefaultOptions(manifestDir).WithLogger(nil))
				if err != nil {
					return fmt.Errorf("opening manifest store at %s: %w", manifestDir, err)
				}
				defer db.Close()
				manifests, err = store.NewManifestStore(db, slog.Default())
				if err != nil {
					return err
				}
			}

			if debug {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}

			router := gin.New()
			router.Use(gin.Recovery())
			router.Use(otelgin.Middleware("zotsearch"))
			if debug {
				router.Use(gin.Logger())
			}
			router.GET("/metrics", gin.WrapH(promhttp.Handler()))

			handlers := api.NewHandlers(engine, manifests)
			api.RegisterRoutes(router, handlers)

			slog.Info("zotsearch query API listening", slog.String("addr", addr))
			return http.ListenAndServe(addr, router)
		},
	}

	cmd.Flags().StringVar(&workDir, "work-dir", ".", "directory containing the build's output artifacts")
	cmd.Flags().StringVar(&manifestDir, "manifest-dir", "", "BadgerDB directory for the build manifest store; empty disables /v1/stats")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable gin debug mode and request logging")
	return cmd
}
