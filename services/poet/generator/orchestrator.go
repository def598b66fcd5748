// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultGenerationTimeout covers one full request, including the single
// retry pass.
const DefaultGenerationTimeout = 60 * time.Second

// SlowNotifier is called when the first line-search exhaustion triggers
// the retry, so a surface can tell the caller generation is taking
// unusually long. It must not block.
type SlowNotifier func(scheme string)

// Result is a completed poem.
type Result struct {
	// Lines are the poem lines in order, with "" marking stanza breaks.
	Lines []string

	// Elapsed is the wall time of the whole generation, both passes
	// included.
	Elapsed time.Duration

	// Retried reports whether the single mid-generation retry was used.
	Retried bool
}

// Orchestrator wraps assembly in a deadline and the single-retry
// escalation protocol.
type Orchestrator struct {
	assembler *Assembler
	timeout   time.Duration
	onSlow    SlowNotifier
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithTimeout overrides the generation deadline.
func WithTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithSlowNotifier installs a notifier for the retry escalation.
func WithSlowNotifier(fn SlowNotifier) OrchestratorOption {
	return func(o *Orchestrator) { o.onSlow = fn }
}

// NewOrchestrator creates an Orchestrator around assembler.
func NewOrchestrator(assembler *Assembler, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		assembler: assembler,
		timeout:   DefaultGenerationTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate produces a poem for schemeInput, which is either a raw scheme
// or a template name.
//
// One assembly pass runs under the deadline. If it fails because the
// line search used up its draw budget, the caller is notified and the
// assembler is re-invoked exactly once, reusing the same scheme and the
// unit counts as they stood at failure time. A second such failure is
// terminal. Deadline expiry at any point fails the whole request with
// ErrTimedOut and discards partial lines. All other failures propagate
// unchanged for errors.Is dispatch at the surface.
func (o *Orchestrator) Generate(ctx context.Context, schemeInput string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.Generate")
	defer span.End()

	scheme := ResolveTemplate(schemeInput)
	span.SetAttributes(attribute.String("poem.scheme", scheme))

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	att := NewAttempt(scheme)
	retried := false

	lines, err := o.assembler.Run(ctx, att)

	var lnf *LineNotFoundError
	if errors.As(err, &lnf) {
		retried = true
		slog.Warn("Rhyming line search exhausted its budget, retrying once",
			"scheme", lnf.Scheme)
		if o.onSlow != nil {
			o.onSlow(lnf.Scheme)
		}

		retry := &Attempt{
			Scheme:    lnf.Scheme,
			Units:     []rune(lnf.Scheme),
			Counts:    lnf.Counts,
			StartedAt: lnf.StartedAt,
		}
		lines, err = o.assembler.Run(ctx, retry)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("deadline of %s expired: %w", o.timeout, ErrTimedOut)
		}
		return nil, err
	}

	elapsed := time.Since(att.StartedAt)
	slog.Info("Poem generated",
		"scheme", scheme, "lines", len(lines),
		"elapsed_ms", elapsed.Milliseconds(), "retried", retried)

	return &Result{
		Lines:   lines,
		Elapsed: elapsed,
		Retried: retried,
	}, nil
}
