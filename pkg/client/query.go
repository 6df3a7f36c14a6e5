// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// QueryClient provides access to filter query operations.
//
// Filter queries are boolean expressions over log lines, such as
// "severity:error OR severity:critical". Access this client through
// [Client.Query]:
//
//	result, err := client.Query.Compile(ctx, "severity:error")
type QueryClient struct {
	c *Client
}

// Compile validates a filter query without running it.
//
// A malformed query is not a transport error: the result's OK field is
// false and Error carries the message.
func (q *QueryClient) Compile(ctx context.Context, queryStr string) (*CompileResult, error) {
	data, err := q.c.postJSON(ctx, "/api/v1/query/compile", map[string]string{
		"query": queryStr,
	})
	if err != nil {
		return nil, err
	}

	var result CompileResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse compile result: %w", err)
	}

	return &result, nil
}

// Filter applies a filter query to inline content.
func (q *QueryClient) Filter(ctx context.Context, content, queryStr string) (*FilterResult, error) {
	return q.filter(ctx, map[string]string{
		"content": content,
		"query":   queryStr,
	})
}

// FilterFile applies a filter query to a file on the server.
func (q *QueryClient) FilterFile(ctx context.Context, path, queryStr string) (*FilterResult, error) {
	return q.filter(ctx, map[string]string{
		"path":  path,
		"query": queryStr,
	})
}

func (q *QueryClient) filter(ctx context.Context, body map[string]string) (*FilterResult, error) {
	data, err := q.c.postJSON(ctx, "/api/v1/query/filter", body)
	if err != nil {
		return nil, err
	}

	var result FilterResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse filter result: %w", err)
	}

	return &result, nil
}
