// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wingedpig/loupe/internal/regexsafe"
)

// ConditionKind tags how a condition matches a line. Conditions are plain
// tagged data rather than closures so a compiled query can cross the worker
// boundary and be rendered by the UI.
type ConditionKind string

const (
	KindSeverity ConditionKind = "severity"
	KindIP       ConditionKind = "ip"
	KindText     ConditionKind = "text"
	KindRegex    ConditionKind = "regex"
	KindGeneric  ConditionKind = "generic"
)

// Condition is one negatable predicate term within a clause. Immutable once
// built.
type Condition struct {
	Kind   ConditionKind `json:"kind"`
	Token  string        `json:"token"`
	Field  string        `json:"field,omitempty"`
	Value  string        `json:"value"`
	Flags  string        `json:"flags,omitempty"`
	Negate bool          `json:"negate"`

	re *regexp.Regexp // set for KindSeverity and KindRegex
}

// matchRaw evaluates the condition's predicate against a line, ignoring
// Negate. lower is the pre-lowered line, shared across conditions.
func (c *Condition) matchRaw(line, lower string) bool {
	switch c.Kind {
	case KindSeverity, KindRegex:
		return c.re.MatchString(line)
	case KindIP, KindText:
		return strings.Contains(lower, c.Value)
	case KindGeneric:
		return strings.Contains(lower, c.Field+"="+c.Value) ||
			strings.Contains(lower, c.Field+":"+c.Value)
	}
	return false
}

// Holds evaluates the condition including negation.
func (c *Condition) Holds(line, lower string) bool {
	m := c.matchRaw(line, lower)
	if c.Negate {
		return !m
	}
	return m
}

// parseTerm turns one token into a Condition. The token's Negate flag is
// filled in by the clause compiler.
func parseTerm(token string) (Condition, error) {
	cond := Condition{Token: token}

	colon := strings.Index(token, ":")
	if colon <= 0 || token[0] == '"' || token[0] == '\'' {
		// No field prefix: plain lowercase substring search.
		value := unquoteValue(token)
		if value == "" {
			return Condition{}, fmt.Errorf("Empty filter term")
		}
		cond.Kind = KindText
		cond.Value = strings.ToLower(value)
		return cond, nil
	}

	field := strings.ToLower(token[:colon])
	value := unquoteValue(token[colon+1:])
	if value == "" {
		return Condition{}, fmt.Errorf("Empty value for field %q", field)
	}

	switch field {
	case "severity":
		// Word-boundary match so "error" does not match "errors".
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(value) + `\b`)
		if err != nil {
			return Condition{}, fmt.Errorf("Invalid severity value %q", value)
		}
		cond.Kind = KindSeverity
		cond.Field = field
		cond.Value = value
		cond.re = re

	case "ip":
		cond.Kind = KindIP
		cond.Field = field
		cond.Value = strings.ToLower(value)

	case "text", "msg", "message":
		cond.Kind = KindText
		cond.Field = field
		cond.Value = strings.ToLower(value)

	case "re", "regex":
		pattern, flags := value, "i"
		if strings.HasPrefix(value, "/") {
			if last := strings.LastIndex(value, "/"); last > 0 {
				pattern = value[1:last]
				flags = value[last+1:]
			}
		}
		// A gate failure is a term-parse error, never a downstream throw.
		re, err := regexsafe.Compile(pattern, flags)
		if err != nil {
			return Condition{}, err
		}
		cond.Kind = KindRegex
		cond.Field = "re"
		cond.Value = pattern
		cond.Flags = flags
		cond.re = re

	default:
		// Unrecognized fields stay usable: match field=value or field:value
		// as a lowercase substring.
		cond.Kind = KindGeneric
		cond.Field = field
		cond.Value = strings.ToLower(value)
	}

	return cond, nil
}
