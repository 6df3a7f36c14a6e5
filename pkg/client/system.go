// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// SystemClient provides access to version and health endpoints.
//
// Access this client through [Client.System].
type SystemClient struct {
	c *Client
}

// Version returns the server's build information.
func (s *SystemClient) Version(ctx context.Context) (*VersionInfo, error) {
	data, err := s.c.get(ctx, "/api/v1/version")
	if err != nil {
		return nil, err
	}

	var info VersionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse version info: %w", err)
	}

	return &info, nil
}

// Health reports whether the server is up.
func (s *SystemClient) Health(ctx context.Context) error {
	_, err := s.c.get(ctx, "/api/v1/health")
	return err
}
