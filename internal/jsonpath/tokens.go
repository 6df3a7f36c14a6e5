// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package jsonpath resolves dotted/bracketed path expressions against JSON
// documents two ways: against the parsed value (cheap, loses position) and by
// re-scanning the raw text to recover exact character offsets.
package jsonpath

import (
	"regexp"
	"strings"
)

var pathPrefix = regexp.MustCompile(`(?i)^path:\s*`)

// One scanning pattern captures dotted identifiers and bracketed numeric or
// quoted indices in a single pass.
var segment = regexp.MustCompile(
	`\[\s*(\d+)\s*\]` + // [0]
		`|\[\s*"((?:\\.|[^"\\])*)"\s*\]` + // ["key"]
		`|\[\s*'((?:\\.|[^'\\])*)'\s*\]` + // ['key']
		`|([^.\[\]"']+)`, // plain identifier
)

// ParsePathTokens splits a path expression like nodes[1].status or
// metrics["error_count"] into ordered segments. An optional leading path:
// prefix is stripped case-insensitively. Empty input yields an empty list,
// which callers read as "no path selected," not an error.
func ParsePathTokens(raw string) []string {
	s := strings.TrimSpace(raw)
	s = pathPrefix.ReplaceAllString(s, "")
	if s == "" {
		return []string{}
	}

	tokens := []string{}
	for _, m := range segment.FindAllStringSubmatch(s, -1) {
		switch {
		case strings.HasPrefix(m[0], "[") && strings.Contains(m[0], `"`):
			tokens = append(tokens, unescapeSegment(m[2], '"'))
		case strings.HasPrefix(m[0], "[") && strings.Contains(m[0], "'"):
			tokens = append(tokens, unescapeSegment(m[3], '\''))
		case m[1] != "":
			tokens = append(tokens, m[1])
		default:
			tokens = append(tokens, m[4])
		}
	}
	return tokens
}

// unescapeSegment undoes quoting inside a bracketed segment the same way
// filter term values are unescaped: only the quote character and backslash.
func unescapeSegment(s string, quote byte) string {
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == quote || s[i+1] == '\\') {
			out.WriteByte(s[i+1])
			i++
			continue
		}
		out.WriteByte(s[i])
	}
	return out.String()
}
