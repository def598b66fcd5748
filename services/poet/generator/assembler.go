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
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("verseforge.poet.generator")

// RhymeSource returns the set of words rhyming with word. rhyme.Cache
// implements it. The returned set is owned by the caller.
type RhymeSource interface {
	GetOrCompute(ctx context.Context, word string) (map[string]struct{}, error)
}

// Attempt is the working state of one assembly pass.
//
// Counts is decremented once per emitted line and is deliberately shared
// with any LineNotFoundError raised mid-pass: the single orchestrator
// retry resumes with the counts as they stood at failure time instead of
// resetting them.
type Attempt struct {
	// Scheme is the resolved scheme string.
	Scheme string

	// Units is the ordered symbol sequence of Scheme.
	Units []rune

	// Counts maps each unit to its remaining not-yet-emitted
	// occurrences. A count of 1 marks the unit's final occurrence.
	Counts map[rune]int

	// StartedAt is when generation of this request began. It survives
	// into the retry so elapsed time covers both passes.
	StartedAt time.Time
}

// NewAttempt parses scheme into a fresh Attempt.
func NewAttempt(scheme string) *Attempt {
	units, counts := ParseScheme(scheme)
	return &Attempt{
		Scheme:    scheme,
		Units:     units,
		Counts:    counts,
		StartedAt: time.Now(),
	}
}

// Assembler walks scheme units in order and accumulates matching lines.
type Assembler struct {
	supplier SentenceSupplier
	rhymes   RhymeSource
	searcher *Searcher
}

// NewAssembler wires an Assembler from its collaborators.
func NewAssembler(supplier SentenceSupplier, rhymes RhymeSource, searcher *Searcher) *Assembler {
	return &Assembler{
		supplier: supplier,
		rhymes:   rhymes,
		searcher: searcher,
	}
}

// Run performs one assembly pass over att's units.
//
// Per unit, in order:
//   - stanza break: emit a blank separator line;
//   - first occurrence: draw a seed line (see seedUnit) and, unless this
//     is the unit's only remaining occurrence, record its rhyme set;
//   - repeat occurrence: search for a line rhyming with the unit's
//     accumulated set, then extend the set with the new line's rhymes
//     unless this occurrence is the unit's last.
//
// Each emitted line decrements the unit's remaining count. Returns the
// ordered lines, with "" marking stanza breaks. On failure the lines
// accumulated so far are discarded; a search budget failure is returned
// as *LineNotFoundError carrying att's scheme and live counts, and all
// other collaborator errors propagate unchanged.
func (a *Assembler) Run(ctx context.Context, att *Attempt) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Assembler.Run")
	defer span.End()
	span.SetAttributes(attribute.String("poem.scheme", att.Scheme))

	lines := make([]string, 0, len(att.Units))
	rhymeTrack := make(map[rune]map[string]struct{})
	existing := make(map[string]struct{})

	for _, unit := range att.Units {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		if unit == StanzaBreak {
			lines = append(lines, "")
			continue
		}

		isLastOccurrence := att.Counts[unit] == 1

		var line string
		var err error
		if track, seen := rhymeTrack[unit]; !seen {
			line, err = a.seedUnit(ctx, rhymeTrack, existing, unit, isLastOccurrence)
		} else {
			line, err = a.searcher.Find(ctx, track, existing)
			if err == nil && !isLastOccurrence {
				// Keep the acceptable-rhyme pool growing across the
				// group instead of pinning it to the seed line.
				var grown map[string]struct{}
				grown, err = a.rhymes.GetOrCompute(ctx, LastWord(line))
				if err == nil {
					for w := range grown {
						track[w] = struct{}{}
					}
				}
			}
			if errors.Is(err, ErrLineNotFound) {
				err = &LineNotFoundError{
					Scheme:    att.Scheme,
					Counts:    att.Counts,
					StartedAt: att.StartedAt,
				}
			}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		lines = append(lines, line)
		existing[line] = struct{}{}
		att.Counts[unit]--
	}

	span.SetAttributes(attribute.Int("poem.lines", len(lines)))
	return lines, nil
}

// seedUnit draws the first line of a rhyme group.
//
// When the unit has only this occurrence left, any non-duplicate line
// closes the group and no rhyme set is needed. Otherwise the seed's
// final word must have a non-empty rhyme set, since a word rhyming with
// nothing cannot anchor a group; unusable draws are discarded and the
// loop is bounded only by the request deadline.
func (a *Assembler) seedUnit(ctx context.Context, rhymeTrack map[rune]map[string]struct{},
	existing map[string]struct{}, unit rune, isLastOccurrence bool) (string, error) {

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line, err := a.supplier.Next(ctx)
		if err != nil {
			return "", err
		}
		if _, dup := existing[line]; dup {
			continue
		}

		if isLastOccurrence {
			return line, nil
		}

		rhymeSet, err := a.rhymes.GetOrCompute(ctx, LastWord(line))
		if err != nil {
			return "", err
		}
		if len(rhymeSet) == 0 {
			continue
		}

		rhymeTrack[unit] = rhymeSet
		return line, nil
	}
}
