// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VerseforgeAI/VerseForge/services/poet/handlers"
	"github.com/VerseforgeAI/VerseForge/services/poet/observability"
)

// SetupRoutes registers the poet service's endpoints on router.
func SetupRoutes(router *gin.Engine, gen handlers.PoemGenerator, metrics *observability.PoetMetrics) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/poem", handlers.HandlePoem(gen, metrics))
		v1.GET("/poem/templates", handlers.HandleTemplates())
	}
}
