// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wingedpig/loupe/internal/document"
	"github.com/wingedpig/loupe/internal/metrics"
	"github.com/wingedpig/loupe/internal/query"
	"github.com/wingedpig/loupe/internal/worker"
)

// QueryHandler serves filter compilation and document filtering.
type QueryHandler struct {
	bridge  *worker.Bridge
	store   *document.Store
	metrics *metrics.Metrics
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(bridge *worker.Bridge, store *document.Store, m *metrics.Metrics) *QueryHandler {
	return &QueryHandler{bridge: bridge, store: store, metrics: m}
}

// CompileRequest is the body of POST /api/query/compile.
type CompileRequest struct {
	Query string `json:"query"`
}

// CompileResponse mirrors the compiled query for UI visualization: plain
// data, no closures.
type CompileResponse struct {
	OK          bool           `json:"ok"`
	Error       string         `json:"error,omitempty"`
	ClauseCount int            `json:"clauseCount,omitempty"`
	TermCount   int            `json:"termCount,omitempty"`
	Clauses     []query.Clause `json:"clauses,omitempty"`
}

// Compile validates and compiles a filter query on the request thread.
// Compilation is cheap; only document scans go through the worker. A
// malformed query is a successful HTTP response carrying the error as data.
func (h *QueryHandler) Compile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, "invalid request body")
		return
	}

	q, err := query.Compile(req.Query)
	if err != nil {
		h.metrics.QueriesCompiled.WithLabelValues("error").Inc()
		WriteJSON(w, http.StatusOK, CompileResponse{OK: false, Error: err.Error()})
		return
	}

	h.metrics.QueriesCompiled.WithLabelValues("ok").Inc()
	WriteJSON(w, http.StatusOK, CompileResponse{
		OK:          true,
		ClauseCount: q.ClauseCount,
		TermCount:   q.TermCount,
		Clauses:     q.Clauses,
	})
}

// FilterRequest is the body of POST /api/query/filter. Content may be given
// inline or by document path.
type FilterRequest struct {
	Content string `json:"content"`
	Path    string `json:"path"`
	Query   string `json:"query"`
}

// Filter applies a filter query to a document through the worker bridge.
func (h *QueryHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, "invalid request body")
		return
	}

	content := req.Content
	if req.Path != "" {
		snap, err := h.store.Open(req.Path)
		if err != nil {
			WriteError(w, http.StatusNotFound, ErrNotFound, err.Error())
			return
		}
		content = snap.Content
	}

	_, resultCh := h.bridge.Submit(worker.TaskFilter, func(ctx context.Context) (any, error) {
		start := time.Now()
		res := query.FilterContent(content, req.Query)
		h.metrics.FilterDuration.Observe(time.Since(start).Seconds())
		return res, nil
	})

	res := <-resultCh
	if res.Err != nil {
		writeBridgeError(w, res.Err)
		return
	}
	WriteJSON(w, http.StatusOK, res.Value)
}

// writeBridgeError maps worker bridge failures onto the response envelope.
func writeBridgeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, worker.ErrSuperseded):
		WriteError(w, http.StatusConflict, ErrSuperseded, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
	}
}
