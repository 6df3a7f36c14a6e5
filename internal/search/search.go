// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package search scans many open tabs with one user-supplied regex, under a
// shared wall-clock budget and a per-tab match cap.
package search

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wingedpig/loupe/internal/regexsafe"
)

// Defaults for the caller-owned limits.
const (
	DefaultBudget    = 5000 * time.Millisecond
	DefaultMaxPerTab = 50
)

// Tab is one open document to scan: a name and a plain string snapshot.
type Tab struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Match is one regex hit. Line and Col are 1-based; From and To are character
// offsets into the tab's content.
type Match struct {
	Tab  string `json:"tab"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
	From int    `json:"from"`
	To   int    `json:"to"`
	Text string `json:"text"`
}

// Options are the limits the caller imposes on a scan. The zero-value Gate
// applies the default pattern policy.
type Options struct {
	Budget    time.Duration
	MaxPerTab int
	Gate      regexsafe.Gate
}

// Report is the outcome of a multi-tab scan. Truncated is set when any tab
// stopped early on a limit; hitting a limit is never an error.
type Report struct {
	Matches   []Match       `json:"matches"`
	Truncated bool          `json:"truncated"`
	Tabs      int           `json:"tabs"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Scan searches every tab. The pattern and flags pass the regex safety gate
// before any regex is built; a gate rejection is returned as the error. Tabs
// are scanned in parallel but the report lists matches in tab order.
// Scanning a tab stops once the per-tab cap or the shared budget is hit;
// hitting a limit truncates the report, it never fails the scan.
func Scan(ctx context.Context, tabs []Tab, pattern, flags string, opts Options) (*Report, error) {
	re, err := opts.Gate.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}

	budget := opts.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	maxPerTab := opts.MaxPerTab
	if maxPerTab <= 0 {
		maxPerTab = DefaultMaxPerTab
	}

	start := time.Now()
	deadline := start.Add(budget)

	perTab := make([][]Match, len(tabs))
	truncated := make([]bool, len(tabs))

	g, ctx := errgroup.WithContext(ctx)
	for i, tab := range tabs {
		i, tab := i, tab
		g.Go(func() error {
			perTab[i], truncated[i] = scanTab(ctx, re, tab, maxPerTab, deadline)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Matches: []Match{}, Tabs: len(tabs)}
	for i := range tabs {
		report.Matches = append(report.Matches, perTab[i]...)
		if truncated[i] {
			report.Truncated = true
		}
	}
	report.Elapsed = time.Since(start)
	return report, nil
}

// scanTab searches one tab line by line. It stops at the match cap, the
// shared deadline, or context cancellation, reporting truncation.
func scanTab(ctx context.Context, re *regexp.Regexp, tab Tab, maxPerTab int, deadline time.Time) ([]Match, bool) {
	var matches []Match
	truncated := false
	offset := 0
	lineNo := 0

	for _, line := range strings.Split(tab.Content, "\n") {
		lineNo++
		if len(matches) >= maxPerTab || time.Now().After(deadline) || ctx.Err() != nil {
			truncated = true
			break
		}

		for _, loc := range re.FindAllStringIndex(line, -1) {
			matches = append(matches, Match{
				Tab:  tab.Name,
				Line: lineNo,
				Col:  loc[0] + 1,
				From: offset + loc[0],
				To:   offset + loc[1],
				Text: line,
			})
			if len(matches) >= maxPerTab {
				truncated = true
				break
			}
		}

		offset += len(line) + 1
	}

	return matches, truncated
}
