// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"blogicum/internal/blog"
	"blogicum/internal/cache"
	"blogicum/internal/render"
)

// MaxImageBytes caps post image uploads.
const MaxImageBytes = 5 << 20

// Posts serves post pages and their comments.
type Posts struct {
	blog  *blog.Service
	cache *cache.ListingCache
}

// NewPosts creates a new Posts handler group. listings may be nil.
func NewPosts(svc *blog.Service, listings *cache.ListingCache) *Posts {
	return &Posts{blog: svc, cache: listings}
}

// Detail shows a post with its rendered text and comments.
func (h *Posts) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	detail, err := h.blog.PostDetail(r.Context(), viewer(r), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, detail)
}

// Create publishes a new post authored by the viewer.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var in blog.PostInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	post, err := h.blog.CreatePost(r.Context(), viewer(r), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.cache.InvalidateAll(r.Context())
	render.JSON(w, http.StatusCreated, post)
}

// Update edits a post the viewer owns.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var in blog.PostInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	post, err := h.blog.UpdatePost(r.Context(), viewer(r), id, in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.cache.InvalidateAll(r.Context())
	render.JSON(w, http.StatusOK, post)
}

// Delete removes a post and its comments.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.blog.DeletePost(r.Context(), viewer(r), id); err != nil {
		render.Error(w, r, err)
		return
	}

	h.cache.InvalidateAll(r.Context())
	render.NoContent(w)
}

// UploadImage attaches the multipart "image" file to a post. The content
// type is sniffed from the file, not taken from the client.
func (h *Posts) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if !h.blog.ImagesEnabled() {
		render.Error(w, r, blog.ErrStorageDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes+1<<20)
	if err := r.ParseMultipartForm(MaxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.Error(w, r, blog.ValidationError{"image": "The image may not exceed 5 MB."})
			return
		}
		render.Error(w, r, fmt.Errorf("%w: %v", render.ErrBadRequest, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		render.Error(w, r, blog.ValidationError{"image": "This field is required."})
		return
	}
	defer file.Close()

	if header.Size > MaxImageBytes {
		render.Error(w, r, blog.ValidationError{"image": "The image may not exceed 5 MB."})
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		render.Error(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	body := io.MultiReader(bytes.NewReader(head), file)

	post, err := h.blog.AttachImage(r.Context(), viewer(r), id, header.Filename, contentType, body, header.Size)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.cache.InvalidateAll(r.Context())
	render.JSON(w, http.StatusOK, post)
}
