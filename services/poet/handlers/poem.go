// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the HTTP handlers for the poet service.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VerseforgeAI/VerseForge/services/poet/datatypes"
	"github.com/VerseforgeAI/VerseForge/services/poet/generator"
	"github.com/VerseforgeAI/VerseForge/services/poet/observability"
	"github.com/VerseforgeAI/VerseForge/services/rhyme"
	"github.com/VerseforgeAI/VerseForge/services/sampler"
)

// PoemGenerator is the generation entry point the handlers depend on.
// generator.Orchestrator implements it; tests substitute fakes.
type PoemGenerator interface {
	Generate(ctx context.Context, schemeInput string) (*generator.Result, error)
}

// HandlePoem generates a poem for the scheme in the request body.
//
// Failure bodies carry a stable error code plus a user-facing message:
//   - 400 invalid_request: body failed binding or validation
//   - 503 rhyme_unavailable: the rhyme source could not be reached
//   - 504 line_not_found: the rhymes are not matching up; worth retrying
//   - 504 timeout: generation exceeded its deadline
//   - 500 sampler_exhausted: the sentence source failed, which should
//     not happen with a healthy corpus
func HandlePoem(gen PoemGenerator, metrics *observability.PoetMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.PoemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Error:   "invalid_request",
				Message: "Request body must be JSON with a scheme field.",
			})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				RequestID: req.RequestID,
				Error:     "invalid_request",
				Message:   "Scheme must be 1-256 printable ASCII characters.",
			})
			return
		}
		req.EnsureDefaults()

		slog.Info("Received poem request", "request_id", req.RequestID, "scheme", req.Scheme)

		start := time.Now()
		result, err := gen.Generate(c.Request.Context(), req.Scheme)
		if err != nil {
			status, code, message, label := mapGenerationError(err)
			slog.Error("Poem generation failed",
				"request_id", req.RequestID, "scheme", req.Scheme,
				"error", err, "status", status)
			if metrics != nil {
				metrics.ObserveGeneration(label, time.Since(start))
			}
			c.JSON(status, datatypes.ErrorResponse{
				RequestID: req.RequestID,
				Error:     code,
				Message:   message,
			})
			return
		}

		if metrics != nil {
			metrics.ObserveGeneration(observability.StatusSuccess, result.Elapsed)
			if result.Retried {
				metrics.GenerationRetriesTotal.Inc()
			}
		}

		c.JSON(http.StatusOK, datatypes.NewPoemResponse(
			req.RequestID, req.Scheme, result.Lines, result.Elapsed, result.Retried))
	}
}

// mapGenerationError translates a generation failure into an HTTP status,
// a stable error code, a user-facing message, and a metrics label.
func mapGenerationError(err error) (int, string, string, observability.GenerationStatus) {
	switch {
	case errors.Is(err, generator.ErrTimedOut):
		return http.StatusGatewayTimeout, "timeout",
			"The poem timed out. Please try again.",
			observability.StatusTimeout
	case errors.Is(err, generator.ErrLineNotFound):
		return http.StatusGatewayTimeout, "line_not_found",
			"The rhymes aren't matching up. Please try again.",
			observability.StatusLineNotFound
	case errors.Is(err, rhyme.ErrUnavailable):
		return http.StatusServiceUnavailable, "rhyme_unavailable",
			"The rhyme dictionary is unreachable right now. Please try again later.",
			observability.StatusRhymeUnavailable
	case errors.Is(err, sampler.ErrExhausted):
		return http.StatusInternalServerError, "sampler_exhausted",
			"Something very rare went wrong while drafting lines. Please try again.",
			observability.StatusSamplerExhausted
	case errors.Is(err, context.Canceled):
		return 499, "canceled", "The request was canceled.",
			observability.StatusCanceled
	default:
		return http.StatusInternalServerError, "internal",
			"An unexpected error occurred.",
			observability.StatusInternal
	}
}

// HandleTemplates lists the built-in scheme templates.
func HandleTemplates() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, datatypes.TemplatesResponse{
			Templates: generator.Templates(),
		})
	}
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
