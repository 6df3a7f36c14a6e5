// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileStructure(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		clauseCount int
		termCount   int
		wantErr     error
	}{
		{"single term", "error", 1, 1, nil},
		{"implicit and", "error timeout", 1, 2, nil},
		{"explicit and", "error AND timeout", 1, 2, nil},
		{"symbolic and", "error && timeout", 1, 2, nil},
		{"or branches", "error OR warn", 2, 2, nil},
		{"symbolic or", "error || warn", 2, 2, nil},
		{"mixed", "severity:error AND host:db01 OR severity:critical", 2, 3, nil},
		{"lowercase operators", "error or warn", 2, 2, nil},
		{"empty", "", 0, 0, ErrEmptyFilter},
		{"leading or", "OR error", 0, 0, ErrLeadingOr},
		{"trailing or", "error OR", 0, 0, ErrTrailingOr},
		{"double or", "a OR OR b", 0, 0, ErrLeadingOr},
		{"only and", "AND", 0, 0, ErrEmptyClause},
		{"dangling not", "error AND NOT", 0, 0, ErrDanglingNot},
		{"lone not", "NOT", 0, 0, ErrDanglingNot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Compile(tt.query)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.clauseCount, q.ClauseCount)
			assert.Equal(t, tt.termCount, q.TermCount)

			// All-or-nothing: at least one clause, no empty clause.
			require.GreaterOrEqual(t, len(q.Clauses), 1)
			for _, clause := range q.Clauses {
				assert.GreaterOrEqual(t, len(clause), 1)
			}
		})
	}
}

func TestCompileNegation(t *testing.T) {
	q, err := Compile("NOT severity:error")
	require.NoError(t, err)
	require.Len(t, q.Clauses, 1)
	require.Len(t, q.Clauses[0], 1)
	assert.True(t, q.Clauses[0][0].Negate)

	// Double negation cancels.
	q, err = Compile("NOT NOT severity:error")
	require.NoError(t, err)
	assert.False(t, q.Clauses[0][0].Negate)

	// Fused ! characters each toggle.
	q, err = Compile("!severity:error")
	require.NoError(t, err)
	assert.True(t, q.Clauses[0][0].Negate)

	q, err = Compile("!!severity:error")
	require.NoError(t, err)
	assert.False(t, q.Clauses[0][0].Negate)

	// NOT combined with fused !.
	q, err = Compile("NOT !severity:error")
	require.NoError(t, err)
	assert.False(t, q.Clauses[0][0].Negate)
}

func TestCompileQuotedOperatorIsLiteral(t *testing.T) {
	q, err := Compile(`"OR"`)
	require.NoError(t, err)
	require.Equal(t, 1, q.ClauseCount)
	assert.Equal(t, "or", q.Clauses[0][0].Value)
	assert.True(t, q.Match("this OR that"))
}

func TestMatchOrOfAnds(t *testing.T) {
	q, err := Compile("severity:error host:db01 OR severity:critical")
	require.NoError(t, err)

	assert.True(t, q.Match("ERROR on host=db01"))
	assert.False(t, q.Match("ERROR on host=db02"))
	assert.True(t, q.Match("CRITICAL disk full"))
	assert.False(t, q.Match("INFO all good"))
}

func TestMatchNegatedCondition(t *testing.T) {
	q, err := Compile(`severity:error AND NOT text:"health check"`)
	require.NoError(t, err)

	assert.True(t, q.Match("ERROR db write failed"))
	assert.False(t, q.Match("ERROR health check endpoint down"))
	assert.False(t, q.Match("INFO health check ok"))
}

func TestCompileDeterminism(t *testing.T) {
	lines := []string{
		"ERROR one",
		"errors plural",
		"WARN two",
		"host=db01 CRITICAL",
		"",
		"plain line",
	}

	const raw = "severity:error OR host:db01"
	a, err := Compile(raw)
	require.NoError(t, err)
	b, err := Compile(raw)
	require.NoError(t, err)

	for _, line := range lines {
		assert.Equal(t, a.Match(line), b.Match(line), "line %q", line)
	}
}
