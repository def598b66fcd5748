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
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var (
	templatesServer     string
	templatesJSONOutput bool
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in rhyme scheme templates",
	Run:   runTemplatesCommand,
}

func init() {
	templatesCmd.Flags().StringVar(&templatesServer, "server", "",
		"Poet service base URL (default: $VERSEFORGE_SERVER_URL or "+defaultServerURL+")")
	templatesCmd.Flags().BoolVar(&templatesJSONOutput, "json", false,
		"Output as JSON for scripting")

	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesCommand(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := newPoetClient(serverURL(templatesServer), 10*time.Second)
	templates, err := client.ListTemplates(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if templatesJSONOutput {
		out, err := json.MarshalIndent(templates, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-22s %s\n", name, templates[name])
	}
}
