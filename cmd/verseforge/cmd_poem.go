// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/VerseforgeAI/VerseForge/pkg/ux"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	poemServer     string // Poet service base URL
	poemTimeout    time.Duration
	poemJSONOutput bool // Output the raw JSON response
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var poemCmd = &cobra.Command{
	Use:   "poem <scheme>",
	Short: "Generate a poem for a rhyme scheme or template name",
	Long: `Generates a poem against a rhyme scheme.

The scheme is either a built-in template name (see 'verseforge templates')
or a raw scheme string where each character is a rhyme unit and '/'
starts a new stanza. Unit symbols are case sensitive: "aA" is two
different rhyme groups.

Examples:
  verseforge poem limerick
  verseforge poem "abab/cc"
  verseforge poem villanelle --json`,
	Args: cobra.ExactArgs(1),
	Run:  runPoemCommand,
}

func init() {
	poemCmd.Flags().StringVar(&poemServer, "server", "",
		"Poet service base URL (default: $VERSEFORGE_SERVER_URL or "+defaultServerURL+")")
	poemCmd.Flags().DurationVar(&poemTimeout, "timeout", 90*time.Second,
		"Client-side request timeout; generation itself is capped server side")
	poemCmd.Flags().BoolVar(&poemJSONOutput, "json", false,
		"Output the raw JSON response for scripting")

	rootCmd.AddCommand(poemCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runPoemCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), poemTimeout)
	defer cancel()

	spinner := ux.NewSpinner("composing your poem...")
	spinner.Start()

	client := newPoetClient(serverURL(poemServer), poemTimeout)
	poem, err := client.GeneratePoem(ctx, args[0])
	spinner.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if poemJSONOutput {
		out, err := json.MarshalIndent(poem, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	for _, line := range poem.Lines {
		fmt.Println(line)
	}
	if poem.Retried {
		fmt.Fprintln(os.Stderr, "(took a retry to find rhymes)")
	}
}
