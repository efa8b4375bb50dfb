// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"blogicum/internal/blog"
	"blogicum/internal/render"
)

// commentIDs reads the post and comment ids of a comment route.
func commentIDs(r *http.Request) (postID, commentID int64, err error) {
	if postID, err = idParam(r, "id"); err != nil {
		return 0, 0, err
	}
	if commentID, err = idParam(r, "comment_id"); err != nil {
		return 0, 0, err
	}
	return postID, commentID, nil
}

// ListComments returns the comments of a post the viewer can see, oldest
// first.
func (h *Posts) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	comments, err := h.blog.Comments(r.Context(), viewer(r), postID)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, comments)
}

// AddComment comments on a post the viewer can see.
func (h *Posts) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var in blog.CommentInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	comment, err := h.blog.AddComment(r.Context(), viewer(r), postID, in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	// Listings carry comment counts.
	h.cache.InvalidateAll(r.Context())
	render.JSON(w, http.StatusCreated, comment)
}

// UpdateComment edits a comment the viewer owns.
func (h *Posts) UpdateComment(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentIDs(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var in blog.CommentInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	comment, err := h.blog.UpdateComment(r.Context(), viewer(r), postID, commentID, in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, comment)
}

// DeleteComment removes a comment the viewer owns.
func (h *Posts) DeleteComment(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentIDs(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.blog.DeleteComment(r.Context(), viewer(r), postID, commentID); err != nil {
		render.Error(w, r, err)
		return
	}

	h.cache.InvalidateAll(r.Context())
	render.NoContent(w)
}
