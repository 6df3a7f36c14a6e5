// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wingedpig/loupe/internal/document"
	"github.com/wingedpig/loupe/internal/jsonpath"
	"github.com/wingedpig/loupe/internal/metrics"
	"github.com/wingedpig/loupe/internal/worker"
)

// PathHandler serves JSON path resolution and text location.
type PathHandler struct {
	bridge  *worker.Bridge
	store   *document.Store
	metrics *metrics.Metrics
}

// NewPathHandler creates a new path handler.
func NewPathHandler(bridge *worker.Bridge, store *document.Store, m *metrics.Metrics) *PathHandler {
	return &PathHandler{bridge: bridge, store: store, metrics: m}
}

// PathRequest is the body of the resolve and locate endpoints.
type PathRequest struct {
	Content string `json:"content"`
	Path    string `json:"path"`
	Expr    string `json:"expr"`
}

func (h *PathHandler) content(w http.ResponseWriter, req *PathRequest) (string, bool) {
	if req.Path == "" {
		return req.Content, true
	}
	snap, err := h.store.Open(req.Path)
	if err != nil {
		WriteError(w, http.StatusNotFound, ErrNotFound, err.Error())
		return "", false
	}
	return snap.Content, true
}

// ResolveResponse is the outcome of a value resolution.
type ResolveResponse struct {
	Found  bool     `json:"found"`
	Value  any      `json:"value,omitempty"`
	Tokens []string `json:"tokens"`
}

// Resolve parses the path expression and walks the parsed document. A
// missing path is found=false, not an error; malformed JSON is a bad
// request.
func (h *PathHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, "invalid request body")
		return
	}
	content, ok := h.content(w, &req)
	if !ok {
		return
	}

	tokens := jsonpath.ParsePathTokens(req.Expr)
	if len(tokens) == 0 {
		WriteJSON(w, http.StatusOK, ResolveResponse{Found: false, Tokens: tokens})
		return
	}

	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, "document is not valid JSON")
		return
	}

	value, found := jsonpath.ResolveValue(parsed, tokens)
	WriteJSON(w, http.StatusOK, ResolveResponse{Found: found, Value: value, Tokens: tokens})
}

// LocateResponse wraps a locate outcome; Selection is null when the path is
// absent or the text is malformed.
type LocateResponse struct {
	Selection *jsonpath.Selection `json:"selection"`
	Tokens    []string            `json:"tokens"`
}

// Locate re-scans the raw text for the path's exact character span, through
// the worker bridge.
func (h *PathHandler) Locate(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, "invalid request body")
		return
	}
	content, ok := h.content(w, &req)
	if !ok {
		return
	}

	tokens := jsonpath.ParsePathTokens(req.Expr)

	_, resultCh := h.bridge.Submit(worker.TaskLocate, func(ctx context.Context) (any, error) {
		start := time.Now()
		sel := jsonpath.Locate(content, tokens)
		h.metrics.LocateDuration.Observe(time.Since(start).Seconds())
		return sel, nil
	})

	res := <-resultCh
	if res.Err != nil {
		writeBridgeError(w, res.Err)
		return
	}

	sel, _ := res.Value.(*jsonpath.Selection)
	WriteJSON(w, http.StatusOK, LocateResponse{Selection: sel, Tokens: tokens})
}
