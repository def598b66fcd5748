// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for values forwarded to
// external systems. Candidate rhyme words come out of corpus text and end
// up in outbound query strings, so they are checked here before leaving
// the process.
package validation

import (
	"fmt"
	"regexp"
)

// MaxWordLength bounds a rhyme lookup word. Dictionary words top out far
// below this; anything longer is corpus noise, not a word.
const MaxWordLength = 50

// wordPattern matches a single dictionary-ish word: letters with
// optional interior apostrophes or hyphens ("lov'd", "mother-in-law").
var wordPattern = regexp.MustCompile(`^[a-zA-Z]+(?:['\-][a-zA-Z]+)*$`)

// ValidateWord reports whether word is safe and sensible to send to a
// rhyme lookup service.
//
// Valid words:
//   - 1-50 characters
//   - Letters a-z, A-Z
//   - Interior apostrophes (') and hyphens (-) between letter runs
//
// Returns an error naming the failed rule otherwise.
//
// Example:
//
//	if err := validation.ValidateWord(word); err != nil {
//	    return fmt.Errorf("bad rhyme word: %w", err)
//	}
func ValidateWord(word string) error {
	if word == "" {
		return fmt.Errorf("word is empty")
	}
	if len(word) > MaxWordLength {
		return fmt.Errorf("word exceeds %d characters: %q", MaxWordLength, word[:MaxWordLength])
	}
	if !wordPattern.MatchString(word) {
		return fmt.Errorf("word contains invalid characters: %q", word)
	}
	return nil
}
