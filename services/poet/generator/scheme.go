// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package generator

import "strings"

// StanzaBreak separates stanzas in a scheme. It is structural, not a
// rhyme unit, and produces a blank line in the output.
const StanzaBreak = '/'

// templates maps well-known form names to their schemes. Keys are looked
// up case-insensitively; the scheme values themselves are case-sensitive
// ('a' and 'A' are distinct units).
var templates = map[string]string{
	"shakespearean-sonnet": "abab/cdcd/efef/gg",
	"spenserian-sonnet":    "abab/bcbc/cdcd/ee",
	"petrarch-sonnet":      "abbaabba/cdecde",
	"ballade":              "ababbcbc",
	"terza-rima":           "aba/bcb/cdc/ded/ee",
	"villanelle":           "aba/aba/aba/aba/aba/abaa",
	"limerick":             "aabba",
}

// Templates returns a copy of the named scheme templates.
func Templates() map[string]string {
	out := make(map[string]string, len(templates))
	for name, scheme := range templates {
		out[name] = scheme
	}
	return out
}

// ResolveTemplate replaces a template name with its scheme. The lookup
// is case-insensitive on the name only; raw schemes pass through
// unchanged, preserving the case of their unit symbols.
func ResolveTemplate(input string) string {
	if scheme, ok := templates[strings.ToLower(input)]; ok {
		return scheme
	}
	return input
}

// ParseScheme splits a scheme into its ordered unit symbols and the
// occurrence count per unit. Stanza breaks appear in the unit sequence
// but are excluded from the counts. Any other symbol, recognized or
// not, is treated as an ordinary unit.
func ParseScheme(scheme string) ([]rune, map[rune]int) {
	units := []rune(scheme)
	counts := make(map[rune]int)
	for _, unit := range units {
		if unit == StanzaBreak {
			continue
		}
		counts[unit]++
	}
	return units, counts
}
