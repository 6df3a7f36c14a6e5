// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

// Condition is one compiled predicate within a filter clause.
type Condition struct {
	Kind   string `json:"kind"`
	Token  string `json:"token"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Flags  string `json:"flags,omitempty"`
	Negate bool   `json:"negate,omitempty"`
}

// CompileResult is the outcome of compiling a filter query. A malformed
// query is reported here rather than as a transport error.
type CompileResult struct {
	OK          bool          `json:"ok"`
	Error       string        `json:"error,omitempty"`
	ClauseCount int           `json:"clauseCount,omitempty"`
	TermCount   int           `json:"termCount,omitempty"`
	Clauses     [][]Condition `json:"clauses,omitempty"`
}

// FilterResult is the outcome of filtering a document's lines.
type FilterResult struct {
	Error         string   `json:"error,omitempty"`
	FilteredLines []string `json:"filteredLines"`
	ResultCount   int      `json:"resultCount"`
	TotalCount    int      `json:"totalCount"`
	ClauseCount   int      `json:"clauseCount"`
	TermCount     int      `json:"termCount"`
}

// ResolveResult is the outcome of resolving a JSON path to a value.
type ResolveResult struct {
	Found  bool        `json:"found"`
	Value  interface{} `json:"value,omitempty"`
	Tokens []string    `json:"tokens"`
}

// Selection is a character span in raw document text. From/To cover the
// matched key or element; ValueFrom/ValueTo cover its value. Line and Col
// are 1-based.
type Selection struct {
	From      int `json:"from"`
	To        int `json:"to"`
	ValueFrom int `json:"valueFrom"`
	ValueTo   int `json:"valueTo"`
	Line      int `json:"line"`
	Col       int `json:"col"`
}

// LocateResult is the outcome of locating a JSON path in raw text.
// Selection is nil when the path is absent or the text is malformed.
type LocateResult struct {
	Selection *Selection `json:"selection"`
	Tokens    []string   `json:"tokens"`
}

// Tab is one named document submitted to a search.
type Tab struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// SearchMatch is a single regex hit within a tab.
type SearchMatch struct {
	Tab  string `json:"tab"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
	From int    `json:"from"`
	To   int    `json:"to"`
	Text string `json:"text"`
}

// SearchReport is the outcome of a multi-tab search.
type SearchReport struct {
	Matches   []SearchMatch `json:"matches"`
	Truncated bool          `json:"truncated"`
	Tabs      int           `json:"tabs"`
}

// Snapshot is a loaded document.
type Snapshot struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	Size       int64  `json:"size"`
	LineEnding string `json:"lineEnding"`
	Language   string `json:"language"`
}

// TreeEntry is one node in a directory listing.
type TreeEntry struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	IsDir    bool        `json:"isDir"`
	Children []TreeEntry `json:"children,omitempty"`
}

// VersionInfo describes the server build.
type VersionInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	GoVersion  string `json:"go_version"`
}
