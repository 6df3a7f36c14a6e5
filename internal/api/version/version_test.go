// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiddlewareDefaultsToLatest(t *testing.T) {
	var served string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = FromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/api/v1/version", nil)
	rec := httptest.NewRecorder()
	Middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, LatestVersion, served)
	assert.Equal(t, LatestVersion, rec.Header().Get(Header))
}

func TestMiddlewareClampsUnknownVersion(t *testing.T) {
	var served string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = FromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/api/v1/version", nil)
	req.Header.Set(Header, "1999-01-01")
	rec := httptest.NewRecorder()
	Middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, LatestVersion, served)
	assert.Equal(t, LatestVersion, rec.Header().Get(Header))
}

func TestFromContextUnset(t *testing.T) {
	assert.Equal(t, LatestVersion, FromContext(context.Background()))
}

func TestTransformPassThrough(t *testing.T) {
	data := map[string]int{"n": 1}
	assert.Equal(t, data, Transform(LatestVersion, "/api/v1/version", data))
	assert.Equal(t, data, Transform("1999-01-01", "/api/v1/version", data))
}
