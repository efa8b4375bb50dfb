// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP JSON endpoints of the blog. Every
// handler derives a policy.Viewer from the request session and passes it
// to the blog service, which decides what the viewer may see or change.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"blogicum/internal/middleware"
	"blogicum/internal/policy"
)

// viewer returns the identity the request acts as.
func viewer(r *http.Request) policy.Viewer {
	return middleware.ViewerFromCtx(r.Context())
}

// pageParam reads ?page=N. Anything that is not a number means page 1.
func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// idParam reads a positive integer URL parameter. A malformed id cannot
// name any row, so it is reported as not found.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, policy.ErrNotFound
	}
	return id, nil
}
