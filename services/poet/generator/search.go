// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package generator

import (
	"context"
	"strings"
)

// DefaultSearchBound is the draw budget per rhyming line. The supplier
// has no rhyme awareness, so the search is pure generate-and-test and
// must terminate even against an empty or unreachable rhyme set.
const DefaultSearchBound = 80000

// sentencePunctuation matches ASCII punctuation stripped from the ends
// of a final word before rhyme lookup.
const sentencePunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// SentenceSupplier produces candidate lines. sampler.Supplier implements
// it; tests substitute scripted suppliers.
type SentenceSupplier interface {
	Next(ctx context.Context) (string, error)
}

// LastWord extracts the rhyme-bearing word of a line: the final
// whitespace-delimited token with surrounding punctuation stripped.
// Returns "" for a blank line.
func LastWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], sentencePunctuation)
}

// Searcher finds lines whose final word lies in a target rhyme set.
type Searcher struct {
	supplier SentenceSupplier
	bound    int
}

// NewSearcher creates a Searcher with the given draw budget per Find
// call. A non-positive bound selects DefaultSearchBound.
func NewSearcher(supplier SentenceSupplier, bound int) *Searcher {
	if bound <= 0 {
		bound = DefaultSearchBound
	}
	return &Searcher{supplier: supplier, bound: bound}
}

// Find draws candidate lines until one both rhymes and is new.
//
// A line is accepted iff its final word is in targetRhymes and its full
// text is not in existingLines. Every unaccepted draw counts toward the
// bound regardless of why it was rejected; after exactly bound draws the
// search fails with ErrLineNotFound. Supplier errors (exhaustion,
// cancellation) propagate unchanged and immediately.
func (s *Searcher) Find(ctx context.Context, targetRhymes, existingLines map[string]struct{}) (string, error) {
	for draws := 0; draws < s.bound; draws++ {
		line, err := s.supplier.Next(ctx)
		if err != nil {
			return "", err
		}
		if _, rhymes := targetRhymes[LastWord(line)]; !rhymes {
			continue
		}
		if _, dup := existingLines[line]; dup {
			continue
		}
		return line, nil
	}
	return "", ErrLineNotFound
}
