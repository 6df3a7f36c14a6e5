// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// PathClient provides access to JSON path operations.
//
// Path expressions use dotted keys and bracketed indices, such as
// "nodes[1].status" or `items["key with spaces"]`. Access this client
// through [Client.Paths].
type PathClient struct {
	c *Client
}

// Resolve walks the parsed document and returns the value at the path.
//
// A missing path is not an error: the result's Found field is false.
func (p *PathClient) Resolve(ctx context.Context, content, expr string) (*ResolveResult, error) {
	data, err := p.c.postJSON(ctx, "/api/v1/path/resolve", map[string]string{
		"content": content,
		"expr":    expr,
	})
	if err != nil {
		return nil, err
	}

	var result ResolveResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse resolve result: %w", err)
	}

	return &result, nil
}

// Locate finds the exact character span of the path in the raw text.
//
// The result's Selection is nil when the path is absent or the text is
// malformed.
func (p *PathClient) Locate(ctx context.Context, content, expr string) (*LocateResult, error) {
	data, err := p.c.postJSON(ctx, "/api/v1/path/locate", map[string]string{
		"content": content,
		"expr":    expr,
	})
	if err != nil {
		return nil, err
	}

	var result LocateResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse locate result: %w", err)
	}

	return &result, nil
}

// LocateFile locates the path in a file on the server.
func (p *PathClient) LocateFile(ctx context.Context, path, expr string) (*LocateResult, error) {
	data, err := p.c.postJSON(ctx, "/api/v1/path/locate", map[string]string{
		"path": path,
		"expr": expr,
	})
	if err != nil {
		return nil, err
	}

	var result LocateResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse locate result: %w", err)
	}

	return &result, nil
}
