// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"errors"
	"strings"
)

// Structural filter errors. Messages are user-visible; tests pin them.
var (
	ErrEmptyFilter     = errors.New("Empty filter")
	ErrEmptyClause     = errors.New("Empty filter clause")
	ErrDanglingNot     = errors.New("Filter cannot end with NOT")
	ErrLeadingOr       = errors.New("Unexpected OR operator")
	ErrTrailingOr      = errors.New("Filter cannot end with OR")
)

// Clause is an ordered list of conditions joined with AND semantics.
type Clause []Condition

// CompiledQuery is the result of compiling a filter string: OR-of-ANDs over
// tagged conditions. Built fresh per compile call, never mutated, never
// cached across distinct query strings.
type CompiledQuery struct {
	Clauses     []Clause `json:"clauses"`
	ClauseCount int      `json:"clauseCount"`
	TermCount   int      `json:"termCount"`
}

// isOperator reports whether tok is the given keyword, case-insensitively.
// Quoted tokens keep their quotes through tokenization, so a quoted operator
// word never compares equal here.
func isOperator(tok, word string) bool {
	return strings.EqualFold(tok, word)
}

// compileClause turns one OR-branch's token run into a clause. AND tokens are
// no-ops; NOT toggles a pending-negate flag, as do leading ! characters fused
// onto a token. A clause may not be empty and may not end with an unresolved
// negation.
func compileClause(tokens []string) (Clause, error) {
	var clause Clause
	negate := false

	for _, tok := range tokens {
		if isOperator(tok, "AND") || tok == "&&" {
			continue
		}
		if isOperator(tok, "NOT") || tok == "!" {
			negate = !negate
			continue
		}

		term := tok
		for strings.HasPrefix(term, "!") {
			negate = !negate
			term = term[1:]
		}
		if term == "" {
			continue
		}

		cond, err := parseTerm(term)
		if err != nil {
			return nil, err
		}
		cond.Negate = negate
		negate = false
		clause = append(clause, cond)
	}

	if negate {
		return nil, ErrDanglingNot
	}
	if len(clause) == 0 {
		return nil, ErrEmptyClause
	}
	return clause, nil
}

// Compile parses a raw filter string into a compiled query. Compilation is
// all-or-nothing: a successful result has at least one clause and every
// clause has at least one condition.
func Compile(raw string) (*CompiledQuery, error) {
	tokens, err := Tokenize(raw)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyFilter
	}

	// Split into OR-branches.
	var branches [][]string
	var cur []string
	for _, tok := range tokens {
		if isOperator(tok, "OR") || tok == "||" {
			if len(cur) == 0 {
				return nil, ErrLeadingOr
			}
			branches = append(branches, cur)
			cur = nil
			continue
		}
		cur = append(cur, tok)
	}
	if len(cur) == 0 {
		return nil, ErrTrailingOr
	}
	branches = append(branches, cur)

	q := &CompiledQuery{}
	for _, branch := range branches {
		clause, err := compileClause(branch)
		if err != nil {
			return nil, err
		}
		q.Clauses = append(q.Clauses, clause)
		q.TermCount += len(clause)
	}
	q.ClauseCount = len(q.Clauses)

	return q, nil
}

// Match evaluates a line against the query: a line matches if any clause's
// conditions all hold. Evaluation short-circuits within a clause on the first
// failing condition and across clauses on the first fully-matching clause.
func (q *CompiledQuery) Match(line string) bool {
	lower := strings.ToLower(line)

	for _, clause := range q.Clauses {
		matched := true
		for i := range clause {
			if !clause[i].Holds(line, lower) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
