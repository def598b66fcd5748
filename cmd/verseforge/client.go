// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/VerseforgeAI/VerseForge/services/poet/datatypes"
)

// poetClient is a thin HTTP client for the poet service API.
type poetClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPoetClient(baseURL string, timeout time.Duration) *poetClient {
	return &poetClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GeneratePoem calls POST /v1/poem. A non-2xx response is returned as an
// error built from the service's error body.
func (c *poetClient) GeneratePoem(ctx context.Context, scheme string) (*datatypes.PoemResponse, error) {
	body, err := json.Marshal(datatypes.PoemRequest{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("marshal poem request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/poem", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create poem request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call poet service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read poet response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errRes datatypes.ErrorResponse
		if json.Unmarshal(data, &errRes) == nil && errRes.Message != "" {
			return nil, fmt.Errorf("poet service: %s", errRes.Message)
		}
		return nil, fmt.Errorf("poet service returned status %d", resp.StatusCode)
	}

	var poem datatypes.PoemResponse
	if err := json.Unmarshal(data, &poem); err != nil {
		return nil, fmt.Errorf("parse poem response: %w", err)
	}
	return &poem, nil
}

// ListTemplates calls GET /v1/poem/templates.
func (c *poetClient) ListTemplates(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/poem/templates", nil)
	if err != nil {
		return nil, fmt.Errorf("create templates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call poet service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poet service returned status %d", resp.StatusCode)
	}

	var res datatypes.TemplatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("parse templates response: %w", err)
	}
	return res.Templates, nil
}
