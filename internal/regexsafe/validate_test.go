// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package regexsafe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		flags   string
		wantErr error
	}{
		{"simple pattern", "error", "i", nil},
		{"empty pattern", "", "", nil},
		{"anchored pattern", "^fail(ed|ure)$", "im", nil},
		{"group without outer quantifier", "(a+)b", "", nil},
		{"quantifier after plain group", "(ab)+", "", nil},
		{"all legal flags", "x", "gimsuy", nil},
		{"nested plus", "(a+)+", "i", ErrCatastrophic},
		{"nested star", "(.*)*", "i", ErrCatastrophic},
		{"nested bounded", "(a{2,})+", "", ErrCatastrophic},
		{"bad flag", "x", "z", ErrInvalidFlags},
		{"mixed bad flags", "x", "iq", ErrInvalidFlags},
		{"too long", strings.Repeat("a", 257), "", ErrTooLong},
		{"too long wins over content", strings.Repeat("(a+)+", 52), "", ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.pattern, tt.flags)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLengthBoundary(t *testing.T) {
	assert.NoError(t, Validate(strings.Repeat("a", 256), ""))
	assert.ErrorIs(t, Validate(strings.Repeat("a", 257), ""), ErrTooLong)
}

func TestCompileFlagTranslation(t *testing.T) {
	re, err := Compile("error", "i")
	require.NoError(t, err)
	assert.True(t, re.MatchString("An ERROR occurred"))
	assert.True(t, re.MatchString("error"))

	re, err = Compile("^b$", "m")
	require.NoError(t, err)
	assert.True(t, re.MatchString("a\nb\nc"))

	// g, u, y are accepted and ignored.
	re, err = Compile("abc", "guy")
	require.NoError(t, err)
	assert.True(t, re.MatchString("xxabcxx"))
}

func TestCompileRejectsBeforeBuilding(t *testing.T) {
	_, err := Compile("(a+)+", "i")
	require.ErrorIs(t, err, ErrCatastrophic)
}

func TestCompileBadSyntax(t *testing.T) {
	_, err := Compile("[unclosed", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex pattern")
}

func TestGateConfiguredLengthCap(t *testing.T) {
	g := Gate{MaxPatternLength: 8}

	assert.NoError(t, g.Validate(strings.Repeat("a", 8), ""))
	assert.ErrorIs(t, g.Validate(strings.Repeat("a", 9), ""), ErrTooLong)

	// The default gate still accepts what the tightened one rejects.
	assert.NoError(t, Validate(strings.Repeat("a", 9), ""))

	// The zero value is the default policy.
	assert.NoError(t, Gate{}.Validate(strings.Repeat("a", 256), ""))
	assert.ErrorIs(t, Gate{}.Validate(strings.Repeat("a", 257), ""), ErrTooLong)
}

func TestGateCompileUsesConfiguredCap(t *testing.T) {
	g := Gate{MaxPatternLength: 4}
	_, err := g.Compile("toolong", "")
	require.ErrorIs(t, err, ErrTooLong)

	re, err := g.Compile("ok", "i")
	require.NoError(t, err)
	assert.True(t, re.MatchString("OK"))
}
