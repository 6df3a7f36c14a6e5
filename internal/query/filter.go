// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package query

import "strings"

// FilterResult is the outcome of applying a filter query to a document.
// Errors travel as data in Error; the zero counts and empty lines of a failed
// compile never replace a previously good result in the UI.
type FilterResult struct {
	Error         string   `json:"error,omitempty"`
	FilteredLines []string `json:"filteredLines"`
	ResultCount   int      `json:"resultCount"`
	TotalCount    int      `json:"totalCount"`
	ClauseCount   int      `json:"clauseCount"`
	TermCount     int      `json:"termCount"`
	Clauses       []Clause `json:"clauses,omitempty"`
}

// splitLines breaks content into its non-blank lines, with CRLF endings
// normalized. Order is preserved.
func splitLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// FilterContent applies a filter query to a document's lines, preserving
// original order. A blank query passes every non-blank line through. A
// malformed query returns its error with empty results; FilterContent never
// panics across the worker boundary.
func FilterContent(content, raw string) FilterResult {
	lines := splitLines(content)

	if strings.TrimSpace(raw) == "" {
		return FilterResult{
			FilteredLines: lines,
			ResultCount:   len(lines),
			TotalCount:    len(lines),
		}
	}

	q, err := Compile(raw)
	if err != nil {
		return FilterResult{
			Error:         err.Error(),
			FilteredLines: []string{},
			TotalCount:    len(lines),
		}
	}

	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		if q.Match(line) {
			filtered = append(filtered, line)
		}
	}

	return FilterResult{
		FilteredLines: filtered,
		ResultCount:   len(filtered),
		TotalCount:    len(lines),
		ClauseCount:   q.ClauseCount,
		TermCount:     q.TermCount,
		Clauses:       q.Clauses,
	}
}
