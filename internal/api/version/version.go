// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package version implements date-based API versioning for the Loupe API.
//
// Versions are dates (e.g., "2026-08-30") sent via the Loupe-Version
// header. When no header is provided, the latest version is used.
//
// When making breaking changes:
//  1. Create a new version constant with today's date
//  2. Update LatestVersion to the new version
//  3. Add a transformer in transformer.go for the old version
package version

import "context"

// Version constants. Add new versions here when making breaking changes.
const (
	// Version20260830 is the initial API version.
	Version20260830 = "2026-08-30"
)

// LatestVersion is the current default API version.
var LatestVersion = Version20260830

// known holds every version the server still serves.
var known = map[string]bool{
	Version20260830: true,
}

// IsKnown reports whether the server recognizes the given version.
func IsKnown(v string) bool {
	return known[v]
}

// Header is the HTTP header used to specify the API version.
const Header = "Loupe-Version"

type contextKey string

const versionKey contextKey = "api-version"

// FromContext returns the API version from the context.
// Returns LatestVersion if not set.
func FromContext(ctx context.Context) string {
	v, ok := ctx.Value(versionKey).(string)
	if !ok || v == "" {
		return LatestVersion
	}
	return v
}

// WithContext returns a new context with the API version set.
func WithContext(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, versionKey, version)
}
