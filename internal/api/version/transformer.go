// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package version

// Transformer transforms response data for a specific API version.
// Transformers maintain backwards compatibility when making breaking
// changes: a transformer for an old version maps the current response
// shape back to the shape that version's clients expect.
type Transformer func(data interface{}) interface{}

// transformers maps versions to endpoint-specific transformers.
// Format: version -> endpoint -> transformer function
//
// Currently empty since 2026-08-30 is the initial version.
var transformers = map[string]map[string]Transformer{}

// Transform applies version-specific transformations to response data.
// If no transformer exists for the version/endpoint combination, the
// data is returned unchanged.
func Transform(version, endpoint string, data interface{}) interface{} {
	if version == LatestVersion {
		return data
	}

	versionTransformers, ok := transformers[version]
	if !ok {
		return data
	}

	transformer, ok := versionTransformers[endpoint]
	if !ok {
		return data
	}

	return transformer(data)
}
