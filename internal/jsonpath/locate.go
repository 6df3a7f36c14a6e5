// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package jsonpath

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Selection is the exact character span of a path match in the original
// text: From/To cover the matched object key (or array element), ValueFrom/
// ValueTo the value itself. Line and Col are 1-based and derived from From.
type Selection struct {
	From      int `json:"from"`
	To        int `json:"to"`
	ValueFrom int `json:"valueFrom"`
	ValueTo   int `json:"valueTo"`
	Line      int `json:"line"`
	Col       int `json:"col"`
}

// maxLocateDepth bounds the mutual recursion; adversarially nested input
// fails closed past it.
const maxLocateDepth = 1000

var (
	errUnexpectedEnd = errors.New("unexpected end of JSON input")
	errMalformed     = errors.New("malformed JSON")
	errTooDeep       = errors.New("nesting too deep")
)

// Locate re-scans raw JSON text for the value at the given path and returns
// its exact character span, or nil when the path is absent or the text is
// malformed. It never returns a partial location: callers jump a cursor to
// the result, and an off-by-N jump is strictly worse than no match.
//
// The scan is a single forward pass: one monotonically-advancing cursor,
// O(len(raw)) time, O(path depth) stack. Only the first occurrence of the
// path in document order is recorded.
func Locate(raw string, tokens []string) *Selection {
	if len(tokens) == 0 {
		return nil
	}

	s := &scanner{src: raw, target: tokens}
	s.skipSpace()
	if _, err := s.parseValue(nil, 0); err != nil {
		return nil
	}
	if !s.found {
		return nil
	}

	sel := s.sel
	sel.Line, sel.Col = lineCol(raw, sel.From)
	return &sel
}

// span is the half-open character range a parse routine just consumed.
type span struct {
	from, to int
}

// scanner carries the cursor as explicit state so concurrent Locate calls
// share nothing.
type scanner struct {
	src    string
	pos    int
	target []string
	found  bool
	sel    Selection
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) parseValue(path []string, depth int) (span, error) {
	if depth > maxLocateDepth {
		return span{}, errTooDeep
	}
	s.skipSpace()
	if s.pos >= len(s.src) {
		return span{}, errUnexpectedEnd
	}

	switch s.src[s.pos] {
	case '{':
		return s.parseObject(path, depth)
	case '[':
		return s.parseArray(path, depth)
	case '"':
		return s.parseString()
	default:
		return s.parseLiteral()
	}
}

func (s *scanner) parseObject(path []string, depth int) (span, error) {
	start := s.pos
	s.pos++ // consume '{'
	s.skipSpace()

	if s.pos < len(s.src) && s.src[s.pos] == '}' {
		s.pos++
		return span{start, s.pos}, nil
	}

	for {
		s.skipSpace()
		if s.pos >= len(s.src) || s.src[s.pos] != '"' {
			return span{}, errMalformed
		}
		keySpan, err := s.parseString()
		if err != nil {
			return span{}, err
		}
		key := decodeKey(s.src[keySpan.from:keySpan.to])

		s.skipSpace()
		if s.pos >= len(s.src) || s.src[s.pos] != ':' {
			return span{}, errMalformed
		}
		s.pos++

		childPath := append(path[:len(path):len(path)], key)
		valueSpan, err := s.parseValue(childPath, depth+1)
		if err != nil {
			return span{}, err
		}

		// First match in document order wins; scanning continues regardless.
		if !s.found && pathEqual(childPath, s.target) {
			s.found = true
			s.sel = Selection{
				From:      keySpan.from,
				To:        keySpan.to,
				ValueFrom: valueSpan.from,
				ValueTo:   valueSpan.to,
			}
		}

		s.skipSpace()
		if s.pos >= len(s.src) {
			return span{}, errUnexpectedEnd
		}
		switch s.src[s.pos] {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return span{start, s.pos}, nil
		default:
			return span{}, errMalformed
		}
	}
}

func (s *scanner) parseArray(path []string, depth int) (span, error) {
	start := s.pos
	s.pos++ // consume '['
	s.skipSpace()

	if s.pos < len(s.src) && s.src[s.pos] == ']' {
		s.pos++
		return span{start, s.pos}, nil
	}

	for idx := 0; ; idx++ {
		childPath := append(path[:len(path):len(path)], strconv.Itoa(idx))
		valueSpan, err := s.parseValue(childPath, depth+1)
		if err != nil {
			return span{}, err
		}

		// Array element matches select the value span itself.
		if !s.found && pathEqual(childPath, s.target) {
			s.found = true
			s.sel = Selection{
				From:      valueSpan.from,
				To:        valueSpan.to,
				ValueFrom: valueSpan.from,
				ValueTo:   valueSpan.to,
			}
		}

		s.skipSpace()
		if s.pos >= len(s.src) {
			return span{}, errUnexpectedEnd
		}
		switch s.src[s.pos] {
		case ',':
			s.pos++
		case ']':
			s.pos++
			return span{start, s.pos}, nil
		default:
			return span{}, errMalformed
		}
	}
}

// parseString consumes a double-quoted string. A backslash advances two
// characters, so an escaped quote cannot terminate the string early.
func (s *scanner) parseString() (span, error) {
	start := s.pos
	s.pos++ // consume opening '"'

	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			s.pos++
			return span{start, s.pos}, nil
		default:
			s.pos++
		}
	}
	return span{}, errUnexpectedEnd
}

// parseLiteral consumes a number, boolean, or null: everything up to the
// next structural delimiter or whitespace.
func (s *scanner) parseLiteral() (span, error) {
	start := s.pos
	for s.pos < len(s.src) && !isDelimiter(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return span{}, errMalformed
	}
	return span{start, s.pos}, nil
}

func isDelimiter(c byte) bool {
	switch c {
	case ',', '}', ']', '{', '[', ':', '"', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// decodeKey turns a raw quoted key, including the surrounding quotes, into
// the string the standard decoder would produce, so keys with \n or \uXXXX
// escapes compare equal to the resolver's view of the same document. A key
// that does not decode falls back to stripping the simple escapes only.
func decodeKey(quoted string) string {
	var key string
	if err := json.Unmarshal([]byte(quoted), &key); err == nil {
		return key
	}
	return unescapeSegment(quoted[1:len(quoted)-1], '"')
}

func pathEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// lineCol converts an absolute offset to 1-based line and column by counting
// newlines strictly before it.
func lineCol(src string, offset int) (line, col int) {
	before := src[:offset]
	line = 1 + strings.Count(before, "\n")
	col = offset - strings.LastIndexByte(before, '\n')
	return line, col
}
