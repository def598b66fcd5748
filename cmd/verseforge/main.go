// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

// defaultServerURL is where a locally deployed poet service listens.
const defaultServerURL = "http://localhost:8085"

var rootCmd = &cobra.Command{
	Use:   "verseforge",
	Short: "Generate rhyme-scheme poems from the VerseForge poet service",
	Long: `verseforge is the command line client for the VerseForge poet service.

Poems are generated against a rhyme scheme: either a built-in template
name such as "limerick" or "shakespearean-sonnet", or a raw scheme
string like "abab/cc" where each character is a rhyme unit and '/'
starts a new stanza.

Examples:
  verseforge poem limerick
  verseforge poem "abab/cc"
  verseforge templates`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

// serverURL resolves the poet service base URL: flag, then environment,
// then the local default.
func serverURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("VERSEFORGE_SERVER_URL"); env != "" {
		return env
	}
	return defaultServerURL
}
