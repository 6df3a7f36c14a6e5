// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package query implements the log filter language: quote-aware tokenizing,
// negatable field predicates, and OR-of-ANDs query compilation.
package query

import (
	"errors"
	"strings"
)

// ErrUnterminatedQuote is returned when a filter string ends inside an open
// quote. The message is surfaced verbatim in the UI.
var ErrUnterminatedQuote = errors.New("Unterminated quoted value in filter.")

// Tokenize splits a filter string into quote-aware tokens. Whitespace and
// commas separate tokens outside quotes. A " or ' opens a verbatim span that
// consumes everything — including operator words — until the unescaped
// matching quote; backslash escapes only the quote character and backslash.
// The quotes themselves are kept in the token so later stages can tell a
// quoted "AND" from the operator.
func Tokenize(raw string) ([]string, error) {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		ch := raw[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == ',':
			flush()
			i++

		case ch == '"' || ch == '\'':
			quote := ch
			cur.WriteByte(ch)
			i++
			closed := false
			for i < len(raw) {
				c := raw[i]
				if c == '\\' && i+1 < len(raw) && (raw[i+1] == quote || raw[i+1] == '\\') {
					cur.WriteByte(c)
					cur.WriteByte(raw[i+1])
					i += 2
					continue
				}
				cur.WriteByte(c)
				i++
				if c == quote {
					closed = true
					break
				}
			}
			if !closed {
				return nil, ErrUnterminatedQuote
			}

		default:
			cur.WriteByte(ch)
			i++
		}
	}
	flush()

	return tokens, nil
}

// unquoteValue strips a single level of matching single or double quotes and
// unescapes the quote character and backslash inside. Unquoted input is
// returned as-is.
func unquoteValue(s string) string {
	if len(s) < 2 {
		return s
	}
	quote := s[0]
	if (quote != '"' && quote != '\'') || s[len(s)-1] != quote {
		return s
	}
	inner := s[1 : len(s)-1]

	var out strings.Builder
	out.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) && (inner[i+1] == quote || inner[i+1] == '\\') {
			out.WriteByte(inner[i+1])
			i++
			continue
		}
		out.WriteByte(inner[i])
	}
	return out.String()
}
