// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"net/http"

	"github.com/wingedpig/loupe/internal/document"
)

// DocumentHandler serves snapshot and tree endpoints.
type DocumentHandler struct {
	store    *document.Store
	root     string
	treeOpts document.TreeOptions
}

// NewDocumentHandler creates a document handler rooted at the configured
// directory.
func NewDocumentHandler(store *document.Store, root string, treeOpts document.TreeOptions) *DocumentHandler {
	return &DocumentHandler{store: store, root: root, treeOpts: treeOpts}
}

// Open returns a snapshot of the requested file.
func (h *DocumentHandler) Open(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, "missing path parameter")
		return
	}

	snap, err := h.store.Open(path)
	if err != nil {
		WriteError(w, http.StatusNotFound, ErrNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, snap)
}

// Tree lists the directory tree under the configured root, or under an
// explicit path within it.
func (h *DocumentHandler) Tree(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("path")
	if dir == "" {
		dir = h.root
	}

	entries, err := document.ListTree(dir, h.treeOpts)
	if err != nil {
		WriteError(w, http.StatusNotFound, ErrNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}
