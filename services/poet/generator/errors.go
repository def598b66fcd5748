// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package generator assembles poems that satisfy a rhyme scheme.
//
// A scheme is a sequence of single-symbol units plus '/' stanza breaks;
// lines emitted for the same unit must share rhyming final words.
// Candidate lines come from a sentence supplier with no rhyme awareness,
// and rhyme relationships come from a cached rhyme lookup, so assembly is
// a bounded generate-and-test search per line.
//
// The entry point is Orchestrator.Generate, which wraps one assembly
// pass in a deadline and retries exactly once when the line search
// exhausts its draw budget.
package generator

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel failures of a generation attempt. Supplier and rhyme-source
// failures propagate unchanged from their own packages; these cover the
// failures generation itself produces.
var (
	// ErrLineNotFound is returned when the rhyming line search used up
	// its draw budget. Recoverable exactly once at the Orchestrator
	// level, then terminal.
	ErrLineNotFound = errors.New("no rhyming line found within the draw budget")

	// ErrTimedOut is returned when the generation deadline expires.
	// Partial output is discarded.
	ErrTimedOut = errors.New("poem generation timed out")
)

// LineNotFoundError carries the working state of a failed assembly pass
// so the orchestrator can resume with the same scheme and the unit
// counts as they stood at failure time, rather than restarting the
// bookkeeping from scratch.
type LineNotFoundError struct {
	// Scheme is the resolved scheme being generated.
	Scheme string

	// Counts holds remaining occurrences per unit at failure time,
	// already decremented for every line emitted before the failure.
	Counts map[rune]int

	// StartedAt is when the original attempt began.
	StartedAt time.Time
}

// Error implements the error interface.
func (e *LineNotFoundError) Error() string {
	return fmt.Sprintf("no rhyming line found for scheme %q after %s",
		e.Scheme, time.Since(e.StartedAt).Round(time.Millisecond))
}

// Unwrap supports errors.Is(err, ErrLineNotFound).
func (e *LineNotFoundError) Unwrap() error {
	return ErrLineNotFound
}
