// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"blogicum/internal/policy"
	"blogicum/internal/render"
	"blogicum/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// LoadSession retrieves the session from Valkey and stores it in the
// request context. It does not enforce authentication: a missing or
// unreadable session leaves the request anonymous.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// ViewerFromSession derives the viewer a session acts as. A session still
// waiting for its second factor, or carrying a role the application does
// not know, is anonymous. Staff or admin roles are only elevated once a
// TOTP code has been verified.
func ViewerFromSession(d *session.Data) policy.Viewer {
	if d == nil || d.Pending2FA || !d.Role.Valid() {
		return policy.Anonymous()
	}
	return policy.User(d.UserID, d.Role.IsElevated() && d.SecondFactor)
}

// ViewerFromCtx returns the viewer for the session loaded into ctx.
func ViewerFromCtx(ctx context.Context) policy.Viewer {
	return ViewerFromSession(SessionFromCtx(ctx))
}

// RequireAuth answers 401 unless the request carries a fully
// authenticated session. Must be applied after LoadSession.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ViewerFromCtx(r.Context()).Authenticated {
			render.Error(w, r, policy.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession answers 401 unless some session exists, including one
// still pending its second factor. Used by the 2FA endpoints.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			render.Error(w, r, policy.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireElevated answers 403 for viewers that are not staff or admin with
// a verified second factor. Must be applied after RequireAuth.
func RequireElevated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ViewerFromCtx(r.Context()).IsElevated() {
			render.Error(w, r, policy.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
