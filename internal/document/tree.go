// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultMaxTreeDepth caps tree recursion.
const DefaultMaxTreeDepth = 10

// DefaultIgnore lists directory names skipped in every listing.
var DefaultIgnore = []string{"node_modules", "target", ".git"}

// TreeEntry is one node in a directory listing.
type TreeEntry struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	IsDir    bool        `json:"isDir"`
	Children []TreeEntry `json:"children,omitempty"`
}

// TreeOptions controls a listing.
type TreeOptions struct {
	MaxDepth int
	Ignore   []string // glob patterns matched against entry names
}

// ListTree builds a depth-capped file tree rooted at dir. Hidden entries and
// ignore-pattern matches are skipped; directories sort before files, then by
// case-insensitive name.
func ListTree(dir string, opts TreeOptions) ([]TreeEntry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxTreeDepth
	}

	patterns := opts.Ignore
	if patterns == nil {
		patterns = DefaultIgnore
	}
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("bad ignore pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	return listDir(dir, 0, maxDepth, globs), nil
}

func listDir(dir string, depth, maxDepth int, ignore []glob.Glob) []TreeEntry {
	if depth > maxDepth {
		return nil
	}

	items, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].IsDir() != items[j].IsDir() {
			return items[i].IsDir()
		}
		return strings.ToLower(items[i].Name()) < strings.ToLower(items[j].Name())
	})

	var entries []TreeEntry
	for _, item := range items {
		name := item.Name()
		if strings.HasPrefix(name, ".") || matchesAny(ignore, name) {
			continue
		}

		entry := TreeEntry{
			Name:  name,
			Path:  filepath.Join(dir, name),
			IsDir: item.IsDir(),
		}
		if item.IsDir() {
			entry.Children = listDir(entry.Path, depth+1, maxDepth, ignore)
		}
		entries = append(entries, entry)
	}

	return entries
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
