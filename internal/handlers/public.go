// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blogicum/internal/blog"
	"blogicum/internal/cache"
	"blogicum/internal/models"
	"blogicum/internal/policy"
	"blogicum/internal/render"
)

// Public serves the post listings: the index, category pages and profiles.
type Public struct {
	blog  *blog.Service
	cache *cache.ListingCache
}

// NewPublic creates a new Public handler group. listings may be nil.
func NewPublic(svc *blog.Service, listings *cache.ListingCache) *Public {
	return &Public{blog: svc, cache: listings}
}

// listing is the response body of every post listing.
type listing struct {
	policy.Page[models.Post]
	NumPages    int              `json:"num_pages"`
	HasNext     bool             `json:"has_next"`
	HasPrevious bool             `json:"has_previous"`
	Category    *models.Category `json:"category,omitempty"`
	Profile     *profile         `json:"profile,omitempty"`

	// missing marks a listing whose category does not exist or is hidden.
	missing bool
}

// cacheable reports whether the listing names something that exists.
// Unknown categories and pages past the end are not stored, which keeps
// the key space bounded by real content.
func (l *listing) cacheable() bool {
	return !l.missing && l.Number <= l.NumPages
}

func newListing(page policy.Page[models.Post]) *listing {
	return &listing{
		Page:        page,
		NumPages:    page.NumPages(),
		HasNext:     page.HasNext(),
		HasPrevious: page.HasPrevious(),
	}
}

// profile is the public part of a user account.
type profile struct {
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func newProfile(u *models.User) *profile {
	return &profile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

// serve writes a listing. Anonymous listings are identical for every
// visitor, so they are served from and stored in the listing cache.
func (h *Public) serve(w http.ResponseWriter, r *http.Request, key string, build func() (*listing, error)) {
	anonymous := !viewer(r).Authenticated
	if anonymous {
		if body, ok := h.cache.Get(r.Context(), key); ok {
			render.Raw(w, http.StatusOK, body)
			return
		}
	}

	result, err := build()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		render.Error(w, r, fmt.Errorf("encode listing: %w", err))
		return
	}
	if anonymous && result.cacheable() {
		h.cache.Set(r.Context(), key, body)
	}
	render.Raw(w, http.StatusOK, body)
}

// Index lists every post visible to the viewer, newest first.
func (h *Public) Index(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	h.serve(w, r, cache.IndexKey(page), func() (*listing, error) {
		result, err := h.blog.Index(r.Context(), viewer(r), page)
		if err != nil {
			return nil, err
		}
		return newListing(result), nil
	})
}

// Category lists the visible posts of a published category. Unknown and
// hidden categories answer an empty page.
func (h *Public) Category(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page := pageParam(r)
	h.serve(w, r, cache.CategoryKey(slug, page), func() (*listing, error) {
		cat, result, err := h.blog.CategoryPosts(r.Context(), viewer(r), slug, page)
		if err != nil {
			return nil, err
		}
		l := newListing(result)
		l.Category = cat
		l.missing = cat == nil
		return l, nil
	})
}

// Profile lists a user's posts. The owner also sees drafts and scheduled
// posts; an unknown username answers 404.
func (h *Public) Profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	page := pageParam(r)
	h.serve(w, r, cache.ProfileKey(username, page), func() (*listing, error) {
		u, result, err := h.blog.Profile(r.Context(), viewer(r), username, page)
		if err != nil {
			return nil, err
		}
		l := newListing(result)
		l.Profile = newProfile(u)
		return l, nil
	})
}

// Categories lists the categories a post may be filed under.
func (h *Public) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.blog.ListCategories(r.Context(), viewer(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, cats)
}

// Locations lists the locations a post may reference.
func (h *Public) Locations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.blog.ListLocations(r.Context(), viewer(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, locs)
}
