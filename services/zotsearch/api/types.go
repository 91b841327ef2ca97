// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package api exposes the query engine over HTTP: given a sequence
// of raw query strings, return a ranked sequence of URLs. It does not
// paginate or render results; it is the thin JSON data endpoint a
// results front-end would call.
package api

import "github.com/ashneetrathore/zotsearch/services/zotsearch/store"

// ErrorResponse is the JSON body returned for any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SearchResponse is the body of a successful GET /v1/search.
type SearchResponse struct {
	Query   []string `json:"query"`
	Results []string `json:"results"`
	Count   int      `json:"count"`
}

// StatsResponse reports the latest build manifest.
type StatsResponse struct {
	Manifest *store.Manifest `json:"manifest"`
}
