// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package jsonpath

import "strconv"

// ResolveValue walks an already-parsed JSON value one token at a time.
// Against an array the token must parse as a non-negative in-bounds integer
// index; against an object it must be a present key. Any mismatch at any
// depth returns found=false immediately — no partial result. Cost is O(path
// depth), independent of document size.
func ResolveValue(parsed any, tokens []string) (any, bool) {
	cur := parsed
	for _, tok := range tokens {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[tok]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			cur = v[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}
