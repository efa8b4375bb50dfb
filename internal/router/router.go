// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Blogicum API. Routes are grouped into public reads, authenticated
// writes, the auth flow and the staff area.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"blogicum/internal/handlers"
	"blogicum/internal/middleware"
	"blogicum/internal/render"
	"blogicum/internal/session"
)

// Handlers bundles the handler groups served by the router.
type Handlers struct {
	Public *handlers.Public
	Posts  *handlers.Posts
	Auth   *handlers.Auth
	Staff  *handlers.Staff
}

// Options controls transport-level behaviour. Secure marks the CSRF
// cookie Secure and enables HSTS. AuthLimiter, when set, throttles the
// login, registration and 2FA endpoints per client IP.
type Options struct {
	Secure      bool
	AuthLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions *session.Store, h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. Recoverer wraps
	// everything after the request id, and the session is loaded before
	// the logger so log lines carry the user id.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.LoadSession(sessions))
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(opts.Secure))
	r.Use(middleware.CSRF(opts.Secure))

	throttle := func(next http.Handler) http.Handler { return next }
	if opts.AuthLimiter != nil {
		throttle = opts.AuthLimiter.Middleware
	}

	r.Get("/health", healthHandler)

	// Public reads. Visibility is decided per viewer by the blog service.
	r.Get("/", h.Public.Index)
	r.Get("/categories", h.Public.Categories)
	r.Get("/locations", h.Public.Locations)
	r.Get("/category/{slug}", h.Public.Category)
	r.Get("/profile/{username}", h.Public.Profile)
	r.Get("/posts/{id}", h.Posts.Detail)
	r.Get("/posts/{id}/comments", h.Posts.ListComments)

	// Authenticated writes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Put("/profile/edit_profile", h.Auth.EditProfile)

		r.Post("/posts/create", h.Posts.Create)
		r.Put("/posts/{id}/edit", h.Posts.Update)
		r.Delete("/posts/{id}/delete", h.Posts.Delete)
		r.Post("/posts/{id}/image", h.Posts.UploadImage)

		r.Post("/posts/{id}/comment", h.Posts.AddComment)
		r.Put("/posts/{id}/comments/{comment_id}/edit", h.Posts.UpdateComment)
		r.Delete("/posts/{id}/comments/{comment_id}/delete", h.Posts.DeleteComment)
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(throttle).Post("/registration", h.Auth.Register)
		r.With(throttle).Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)

		// 2FA accepts sessions still pending their second factor.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Use(throttle)
			r.Post("/2fa/setup", h.Auth.TwoFASetup)
			r.Post("/2fa/verify", h.Auth.TwoFAVerify)
		})
	})

	// Staff area: category and location management.
	r.Route("/staff", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireElevated)

		r.Get("/categories", h.Staff.CategoriesList)
		r.Post("/categories", h.Staff.CategoryCreate)
		r.Put("/categories/{id}", h.Staff.CategoryUpdate)
		r.Delete("/categories/{id}", h.Staff.CategoryDelete)

		r.Get("/locations", h.Staff.LocationsList)
		r.Post("/locations", h.Staff.LocationCreate)
		r.Delete("/locations/{id}", h.Staff.LocationDelete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusNotFound, render.ErrorBody{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusMethodNotAllowed, render.ErrorBody{Error: "method not allowed"})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
