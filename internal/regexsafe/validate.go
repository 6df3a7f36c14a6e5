// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package regexsafe gates regex construction from user input.
//
// Every code path that builds a live regexp from user-supplied text — filter
// re: terms, multi-tab search, the interactive tester — must call Validate
// first. The gate is fail-closed: a rejected pattern is never compiled and
// there is no sanitized fallback.
package regexsafe

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxPatternLength is the longest user pattern the default gate accepts.
const MaxPatternLength = 256

// Gate is a validation policy. The zero value uses the default limits, so
// callers without configuration can use the package-level functions.
type Gate struct {
	// MaxPatternLength overrides the default length cap when positive.
	MaxPatternLength int
}

func (g Gate) maxPatternLength() int {
	if g.MaxPatternLength > 0 {
		return g.MaxPatternLength
	}
	return MaxPatternLength
}

// Gate rejection errors. The messages are user-visible; tests pin them.
var (
	ErrTooLong      = errors.New("Regex too long")
	ErrInvalidFlags = errors.New("Invalid regex flags")
	ErrCatastrophic = errors.New("Regex rejected: potentially catastrophic backtracking")
)

var (
	validFlags = regexp.MustCompile(`^[gimsuy]*$`)

	// A parenthesized group whose body contains a quantifier, e.g. (a+), (.*), (a{2,}).
	groupWithQuantifier = regexp.MustCompile(`\([^)]*[+*{][^)]*\)`)

	// A quantifier immediately following a closing paren, e.g. )+ or )* or ){.
	quantifierAfterGroup = regexp.MustCompile(`\)[+*{]`)
)

// Validate checks a (pattern, flags) pair before any regex is built from it.
//
// The nested-quantifier check is a conservative static heuristic, not a proof
// of linear-time matching: it has both false positives and false negatives.
// Its thresholds are policy; changing them requires updating the test
// fixtures that pin the current strictness.
func (g Gate) Validate(pattern, flags string) error {
	if len(pattern) > g.maxPatternLength() {
		return ErrTooLong
	}
	if !validFlags.MatchString(flags) {
		return ErrInvalidFlags
	}
	if groupWithQuantifier.MatchString(pattern) && quantifierAfterGroup.MatchString(pattern) {
		return ErrCatastrophic
	}
	return nil
}

// Validate checks the pair against the default gate limits.
func Validate(pattern, flags string) error {
	return Gate{}.Validate(pattern, flags)
}

// Compile validates the pair and then compiles it, translating the flag
// letters to Go syntax: i, m, and s become inline (?ims) flags; g, u, and y
// are accepted but have no Go equivalent (matching here is already
// non-global, Unicode-aware, and non-sticky) and are dropped.
func (g Gate) Compile(pattern, flags string) (*regexp.Regexp, error) {
	if err := g.Validate(pattern, flags); err != nil {
		return nil, err
	}

	var inline strings.Builder
	for _, f := range []byte{'i', 'm', 's'} {
		if strings.IndexByte(flags, f) >= 0 {
			inline.WriteByte(f)
		}
	}

	full := pattern
	if inline.Len() > 0 {
		full = "(?" + inline.String() + ")" + pattern
	}

	re, err := regexp.Compile(full)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return re, nil
}

// Compile validates and compiles the pair with the default gate limits.
func Compile(pattern, flags string) (*regexp.Regexp, error) {
	return Gate{}.Compile(pattern, flags)
}
