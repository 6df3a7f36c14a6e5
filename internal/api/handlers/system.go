// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"net/http"
	"runtime"

	apiversion "github.com/wingedpig/loupe/internal/api/version"
)

// SystemHandler serves version and health endpoints.
type SystemHandler struct {
	version string
}

// NewSystemHandler creates a system handler. version is the application
// version string set at build time.
func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{version: version}
}

// VersionInfo is the response body for the version endpoint.
type VersionInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	GoVersion  string `json:"go_version"`
}

// Version handles GET /api/v1/version.
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, VersionInfo{
		Version:    h.version,
		APIVersion: apiversion.FromContext(r.Context()),
		GoVersion:  runtime.Version(),
	})
}

// Health handles GET /api/v1/health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
