// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// SearchClient provides access to multi-tab regex search.
//
// Access this client through [Client.Search].
type SearchClient struct {
	c *Client
}

// Scan searches all submitted tabs with the given pattern and flags.
//
// Flags use the JavaScript convention ("i", "m", "s"; "g", "u", and "y"
// are accepted and ignored). A pattern that fails the safety gate is
// returned as an [APIError] with code "PATTERN_REJECTED".
func (s *SearchClient) Scan(ctx context.Context, tabs []Tab, pattern, flags string) (*SearchReport, error) {
	data, err := s.c.postJSON(ctx, "/api/v1/search", map[string]interface{}{
		"tabs":    tabs,
		"pattern": pattern,
		"flags":   flags,
	})
	if err != nil {
		return nil, err
	}

	var report SearchReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse search report: %w", err)
	}

	return &report, nil
}
