// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// DocumentClient provides access to file snapshots and tree listings.
//
// Access this client through [Client.Documents].
type DocumentClient struct {
	c *Client
}

// Open returns a snapshot of the given file on the server.
func (d *DocumentClient) Open(ctx context.Context, path string) (*Snapshot, error) {
	data, err := d.c.get(ctx, "/api/v1/documents/open?path="+url.QueryEscape(path))
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return &snap, nil
}

// Tree lists the directory tree under the server's document root.
func (d *DocumentClient) Tree(ctx context.Context) ([]TreeEntry, error) {
	return d.tree(ctx, "")
}

// TreeAt lists the directory tree under an explicit path.
func (d *DocumentClient) TreeAt(ctx context.Context, path string) ([]TreeEntry, error) {
	return d.tree(ctx, path)
}

func (d *DocumentClient) tree(ctx context.Context, path string) ([]TreeEntry, error) {
	endpoint := "/api/v1/documents/tree"
	if path != "" {
		endpoint += "?path=" + url.QueryEscape(path)
	}

	data, err := d.c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var entries []TreeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse tree: %w", err)
	}

	return entries, nil
}
