// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"blogicum/internal/blog"
	"blogicum/internal/cache"
	"blogicum/internal/render"
)

// Staff serves category and location management for elevated viewers.
type Staff struct {
	blog  *blog.Service
	cache *cache.ListingCache
}

// NewStaff creates a new Staff handler group. listings may be nil.
func NewStaff(svc *blog.Service, listings *cache.ListingCache) *Staff {
	return &Staff{blog: svc, cache: listings}
}

// CategoriesList returns every category, published or not.
func (h *Staff) CategoriesList(w http.ResponseWriter, r *http.Request) {
	cats, err := h.blog.ListCategories(r.Context(), viewer(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, cats)
}

// CategoryCreate adds a category. The slug is derived from the title when
// omitted.
func (h *Staff) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in blog.CategoryInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	cat, err := h.blog.CreateCategory(r.Context(), viewer(r), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.cache.InvalidateAll(r.Context())
	render.JSON(w, http.StatusCreated, cat)
}

// CategoryUpdate edits a category. Publishing or hiding it changes which
// posts the public sees.
func (h *Staff) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var in blog.CategoryInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	cat, err := h.blog.UpdateCategory(r.Context(), viewer(r), id, in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.cache.InvalidateAll(r.Context())
	render.JSON(w, http.StatusOK, cat)
}

// CategoryDelete removes a category. Its posts lose the reference.
func (h *Staff) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.blog.DeleteCategory(r.Context(), viewer(r), id); err != nil {
		render.Error(w, r, err)
		return
	}

	h.cache.InvalidateAll(r.Context())
	render.NoContent(w)
}

// LocationsList returns every location.
func (h *Staff) LocationsList(w http.ResponseWriter, r *http.Request) {
	locs, err := h.blog.ListLocations(r.Context(), viewer(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, locs)
}

// LocationCreate adds a location.
func (h *Staff) LocationCreate(w http.ResponseWriter, r *http.Request) {
	var in blog.LocationInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	loc, err := h.blog.CreateLocation(r.Context(), viewer(r), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, loc)
}

// LocationDelete removes a location. Its posts lose the reference.
func (h *Staff) LocationDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.blog.DeleteLocation(r.Context(), viewer(r), id); err != nil {
		render.Error(w, r, err)
		return
	}

	h.cache.InvalidateAll(r.Context())
	render.NoContent(w)
}
