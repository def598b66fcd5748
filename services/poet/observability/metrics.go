// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the poet service.
//
// Metrics cover poem generation outcomes and latency, rhyme lookup cache
// behavior, and the empty-rhyme-set diagnostic. They are exposed on the
// /metrics endpoint; all operations are thread-safe via Prometheus's
// internal locking.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "verseforge"

// Subsystem for poem generation metrics
const poetSubsystem = "poet"

// PoetMetrics holds all Prometheus metrics for poem generation.
// Initialize once at startup via InitMetrics().
type PoetMetrics struct {
	// GenerationsTotal counts poem generations by terminal status.
	// Labels: status (success, line_not_found, timeout, rhyme_unavailable,
	// sampler_exhausted, canceled)
	GenerationsTotal *prometheus.CounterVec

	// GenerationDurationSeconds measures end-to-end generation latency.
	// Labels: status (success, error)
	GenerationDurationSeconds *prometheus.HistogramVec

	// GenerationRetriesTotal counts mid-generation retries after a line
	// search exhausted its draw budget.
	GenerationRetriesTotal prometheus.Counter

	// RhymeLookupsTotal counts rhyme set lookups by cache result.
	// Labels: result (hit, miss, error)
	RhymeLookupsTotal *prometheus.CounterVec

	// EmptyRhymeSetsTotal counts words whose rhyme lookup returned no
	// rhymes at all. A rising rate means seed lines are being discarded.
	EmptyRhymeSetsTotal prometheus.Counter
}

// DefaultMetrics is the singleton instance of PoetMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *PoetMetrics

// InitMetrics creates and registers all Prometheus metrics. Call once at
// application startup; a second call panics on duplicate registration.
func InitMetrics() *PoetMetrics {
	DefaultMetrics = &PoetMetrics{
		GenerationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: poetSubsystem,
				Name:      "generations_total",
				Help:      "Total poem generations by terminal status",
			},
			[]string{"status"},
		),

		GenerationDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: poetSubsystem,
				Name:      "generation_duration_seconds",
				Help:      "End-to-end poem generation latency in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"status"},
		),

		GenerationRetriesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: poetSubsystem,
				Name:      "generation_retries_total",
				Help:      "Total mid-generation retries after line search exhaustion",
			},
		),

		RhymeLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: poetSubsystem,
				Name:      "rhyme_lookups_total",
				Help:      "Total rhyme set lookups by cache result",
			},
			[]string{"result"},
		),

		EmptyRhymeSetsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: poetSubsystem,
				Name:      "empty_rhyme_sets_total",
				Help:      "Total rhyme lookups that returned an empty set",
			},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Generation Status Labels
// =============================================================================

// GenerationStatus labels the terminal outcome of a generation.
type GenerationStatus string

const (
	// StatusSuccess indicates a complete poem was returned.
	StatusSuccess GenerationStatus = "success"

	// StatusLineNotFound indicates the line search exhausted its budget
	// on both passes.
	StatusLineNotFound GenerationStatus = "line_not_found"

	// StatusTimeout indicates the generation deadline expired.
	StatusTimeout GenerationStatus = "timeout"

	// StatusRhymeUnavailable indicates the rhyme source could not be
	// reached.
	StatusRhymeUnavailable GenerationStatus = "rhyme_unavailable"

	// StatusSamplerExhausted indicates the sentence source failed to
	// produce a candidate line.
	StatusSamplerExhausted GenerationStatus = "sampler_exhausted"

	// StatusCanceled indicates the client went away mid-generation.
	StatusCanceled GenerationStatus = "canceled"

	// StatusInternal indicates an unrecognized failure.
	StatusInternal GenerationStatus = "internal"
)

// ObserveGeneration records a finished generation's outcome and latency.
func (m *PoetMetrics) ObserveGeneration(status GenerationStatus, elapsed time.Duration) {
	m.GenerationsTotal.WithLabelValues(string(status)).Inc()
	durationStatus := "error"
	if status == StatusSuccess {
		durationStatus = "success"
	}
	m.GenerationDurationSeconds.WithLabelValues(durationStatus).Observe(elapsed.Seconds())
}

// =============================================================================
// Rhyme Cache Observer
// =============================================================================

// RhymeObserver adapts PoetMetrics to the rhyme cache's observer hooks.
type RhymeObserver struct {
	metrics *PoetMetrics
}

// NewRhymeObserver wraps metrics for use as a rhyme.Observer.
func NewRhymeObserver(metrics *PoetMetrics) *RhymeObserver {
	return &RhymeObserver{metrics: metrics}
}

// RhymeLookup records one cache lookup with its result label.
func (o *RhymeObserver) RhymeLookup(result string) {
	o.metrics.RhymeLookupsTotal.WithLabelValues(result).Inc()
}

// EmptyRhymeSet records a lookup that found no rhymes for word.
func (o *RhymeObserver) EmptyRhymeSet(word string) {
	o.metrics.EmptyRhymeSetsTotal.Inc()
}
