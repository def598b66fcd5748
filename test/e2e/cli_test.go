// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
)

// newFakePoetService stands in for a deployed poet server so the CLI can
// be exercised end to end without network access or live generation.
func newFakePoetService(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/poem", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Scheme string `json:"scheme"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Scheme == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "invalid_request",
				"message": "Request body must be JSON with a scheme field.",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"request_id":      "e2e-fixed-id",
			"scheme":          req.Scheme,
			"lines":           []string{"the cat sat on the mat", "it wore a tiny hat"},
			"elapsed_seconds": 0.42,
			"retried":         false,
		})
	})
	mux.HandleFunc("GET /v1/poem/templates", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"templates": map[string]string{
				"limerick":             "aabba",
				"shakespearean-sonnet": "abab/cdcd/efef/gg",
			},
		})
	})
	return httptest.NewServer(mux)
}

func runCLI(t *testing.T, serverURL string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command(cliBinary, args...)
	cmd.Env = append(cmd.Environ(), "VERSEFORGE_SERVER_URL="+serverURL)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestPoemCommand(t *testing.T) {
	srv := newFakePoetService(t)
	defer srv.Close()

	t.Run("prints poem lines to stdout", func(t *testing.T) {
		stdout, stderr, err := runCLI(t, srv.URL, "poem", "aa")
		if err != nil {
			t.Fatalf("poem command failed: %v\nstderr: %s", err, stderr)
		}
		if !strings.Contains(stdout, "the cat sat on the mat") {
			t.Errorf("stdout missing poem line: %q", stdout)
		}
	})

	t.Run("json flag emits the raw response", func(t *testing.T) {
		stdout, stderr, err := runCLI(t, srv.URL, "poem", "limerick", "--json")
		if err != nil {
			t.Fatalf("poem --json failed: %v\nstderr: %s", err, stderr)
		}
		var res struct {
			Scheme string   `json:"scheme"`
			Lines  []string `json:"lines"`
		}
		if err := json.Unmarshal([]byte(stdout), &res); err != nil {
			t.Fatalf("stdout is not valid JSON: %v\n%q", err, stdout)
		}
		if res.Scheme != "limerick" || len(res.Lines) != 2 {
			t.Errorf("unexpected response: %+v", res)
		}
	})

	t.Run("missing scheme argument fails", func(t *testing.T) {
		_, _, err := runCLI(t, srv.URL, "poem")
		if err == nil {
			t.Error("expected a usage error with no scheme argument")
		}
	})

	t.Run("unreachable server exits non-zero", func(t *testing.T) {
		_, stderr, err := runCLI(t, "http://127.0.0.1:1", "poem", "aa")
		if err == nil {
			t.Error("expected failure against an unreachable server")
		}
		if !strings.Contains(stderr, "Error") {
			t.Errorf("stderr missing error report: %q", stderr)
		}
	})
}

func TestTemplatesCommand(t *testing.T) {
	srv := newFakePoetService(t)
	defer srv.Close()

	t.Run("lists templates with schemes", func(t *testing.T) {
		stdout, stderr, err := runCLI(t, srv.URL, "templates")
		if err != nil {
			t.Fatalf("templates command failed: %v\nstderr: %s", err, stderr)
		}
		if !strings.Contains(stdout, "limerick") || !strings.Contains(stdout, "aabba") {
			t.Errorf("stdout missing template listing: %q", stdout)
		}
	})

	t.Run("json flag emits a JSON object", func(t *testing.T) {
		stdout, _, err := runCLI(t, srv.URL, "templates", "--json")
		if err != nil {
			t.Fatalf("templates --json failed: %v", err)
		}
		var res map[string]string
		if err := json.Unmarshal([]byte(stdout), &res); err != nil {
			t.Fatalf("stdout is not valid JSON: %v\n%q", err, stdout)
		}
		if res["limerick"] != "aabba" {
			t.Errorf("unexpected templates: %v", res)
		}
	})
}
