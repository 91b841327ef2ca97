// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the query API's endpoints.
//
// Endpoints:
//
//	GET /v1/search - run a query, return ranked URLs
//	GET /v1/stats  - report the latest build manifest
//	GET /healthz   - liveness check
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	router.GET("/healthz", h.HandleHealth)

	v1 := router.Group("/v1")
	{
		v1.GET("/search", h.HandleSearch)
		v1.GET("/stats", h.HandleStats)
	}
}
