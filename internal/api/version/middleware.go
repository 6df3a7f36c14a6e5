// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package version

import "net/http"

// Middleware reads the requested API version from the request header and
// stores it in the request context for the handlers and transformers. A
// missing or unrecognized version falls back to the latest; the response
// header always echoes the version actually served.
//
// Usage:
//
//	router.Use(version.Middleware)
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version := r.Header.Get(Header)
		if !IsKnown(version) {
			version = LatestVersion
		}

		ctx := WithContext(r.Context(), version)
		w.Header().Set(Header, version)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
