// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wingedpig/loupe/internal/metrics"
	"github.com/wingedpig/loupe/internal/search"
	"github.com/wingedpig/loupe/internal/worker"
)

// SearchHandler serves multi-tab regex search.
type SearchHandler struct {
	bridge  *worker.Bridge
	metrics *metrics.Metrics
	opts    search.Options
}

// NewSearchHandler creates a search handler with the caller-owned limits
// from configuration.
func NewSearchHandler(bridge *worker.Bridge, m *metrics.Metrics, opts search.Options) *SearchHandler {
	return &SearchHandler{bridge: bridge, metrics: m, opts: opts}
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Tabs    []search.Tab `json:"tabs"`
	Pattern string       `json:"pattern"`
	Flags   string       `json:"flags"`
}

// Search scans all submitted tabs. The pattern passes the safety gate before
// any scanning starts; a gate rejection is a bad request, reported before
// the worker is involved.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, "invalid request body")
		return
	}

	if err := h.opts.Gate.Validate(req.Pattern, req.Flags); err != nil {
		h.metrics.GateRejections.Inc()
		WriteError(w, http.StatusBadRequest, ErrPatternError, err.Error())
		return
	}

	_, resultCh := h.bridge.Submit(worker.TaskSearch, func(ctx context.Context) (any, error) {
		start := time.Now()
		report, err := search.Scan(ctx, req.Tabs, req.Pattern, req.Flags, h.opts)
		h.metrics.SearchDuration.Observe(time.Since(start).Seconds())
		return report, err
	})

	res := <-resultCh
	if res.Err != nil {
		writeBridgeError(w, res.Err)
		return
	}
	WriteJSON(w, http.StatusOK, res.Value)
}
