// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides request and response structures for the poet
// service's HTTP surface.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// MaxSchemeLength bounds the scheme string accepted from clients. The
	// longest built-in template ("villanelle") is 24 characters; 256 leaves
	// generous room for custom schemes while keeping request cost bounded.
	MaxSchemeLength = 256
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// poemValidate is the validator instance for poem datatypes.
var poemValidate = validator.New()

// =============================================================================
// Poem Request Types
// =============================================================================

// PoemRequest is the body of POST /v1/poem.
//
// # Description
//
// PoemRequest names the rhyme scheme to generate against. Scheme accepts
// either a well-known template name ("limerick", "shakespearean-sonnet",
// looked up case-insensitively) or a raw scheme string such as "abab/cc",
// where each character is a rhyme unit and '/' separates stanzas.
//
// # Validation
//
// Uses go-playground/validator:
//   - RequestID: optional, must be a valid UUID v4 when present
//   - Scheme: required, 1-256 printable ASCII characters
type PoemRequest struct {
	RequestID string `json:"request_id,omitempty" validate:"omitempty,uuid4"`
	Scheme    string `json:"scheme" validate:"required,min=1,max=256,printascii"`
}

// Validate validates the PoemRequest fields after JSON binding.
func (r *PoemRequest) Validate() error {
	return poemValidate.Struct(r)
}

// EnsureDefaults populates RequestID when the client did not supply one,
// so every generation can be traced end to end.
func (r *PoemRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.New().String()
	}
}

// =============================================================================
// Poem Response Types
// =============================================================================

// PoemResponse is the success body of POST /v1/poem.
//
// Lines are in scheme order; a stanza break appears as an empty string so
// clients can render blank separator lines verbatim.
type PoemResponse struct {
	RequestID      string   `json:"request_id"`
	Scheme         string   `json:"scheme"`
	Lines          []string `json:"lines"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	Retried        bool     `json:"retried"`
}

// NewPoemResponse assembles a PoemResponse from a finished generation.
func NewPoemResponse(requestID, scheme string, lines []string, elapsed time.Duration, retried bool) *PoemResponse {
	return &PoemResponse{
		RequestID:      requestID,
		Scheme:         scheme,
		Lines:          lines,
		ElapsedSeconds: elapsed.Seconds(),
		Retried:        retried,
	}
}

// TemplatesResponse is the body of GET /v1/poem/templates, mapping each
// template name to its scheme.
type TemplatesResponse struct {
	Templates map[string]string `json:"templates"`
}

// ErrorResponse is the body of every non-2xx poet response.
//
// Error is a stable machine-readable identifier; Message is the
// human-readable explanation surfaced to the end user.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}
