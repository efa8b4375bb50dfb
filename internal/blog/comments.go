// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/policy"
)

// CommentInput is the editable part of a comment.
type CommentInput struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// Comments lists the comments of a post v may see, oldest first.
func (s *Service) Comments(ctx context.Context, v policy.Viewer, postID int64) ([]models.Comment, error) {
	p, err := s.GetPost(ctx, v, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// AddComment adds a comment by v to a post v can see.
func (s *Service) AddComment(ctx context.Context, v policy.Viewer, postID int64, in CommentInput) (*models.Comment, error) {
	if !v.Authenticated {
		return nil, policy.ErrUnauthenticated
	}

	p, err := s.GetPost(ctx, v, postID)
	if err != nil {
		return nil, err
	}

	in.Text = strings.TrimSpace(in.Text)
	if err := check(in); err != nil {
		return nil, err
	}

	c, err := s.comments.Create(ctx, &models.Comment{
		PostID:   p.ID,
		AuthorID: v.UserID,
		Text:     in.Text,
	})
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	slog.Info("comment added", "post_id", p.ID, "comment_id", c.ID)
	return c, nil
}

// loadCommentForChange resolves a comment of a post for modification by v.
// The comment must belong to the post and the post must be visible to v.
func (s *Service) loadCommentForChange(ctx context.Context, v policy.Viewer, postID, commentID int64) (*models.Comment, error) {
	if !v.Authenticated {
		return nil, policy.ErrUnauthenticated
	}

	p, err := s.GetPost(ctx, v, postID)
	if err != nil {
		return nil, err
	}

	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("load comment: %w", err)
	}
	if c == nil || !policy.CommentVisible(c, p, s.now(), v) {
		return nil, policy.ErrNotFound
	}

	if err := policy.Authorize(c, v); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateComment changes the text of a comment owned by v.
func (s *Service) UpdateComment(ctx context.Context, v policy.Viewer, postID, commentID int64, in CommentInput) (*models.Comment, error) {
	c, err := s.loadCommentForChange(ctx, v, postID, commentID)
	if err != nil {
		return nil, err
	}

	in.Text = strings.TrimSpace(in.Text)
	if err := check(in); err != nil {
		return nil, err
	}

	c.Text = in.Text
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return c, nil
}

// DeleteComment removes a comment owned by v.
func (s *Service) DeleteComment(ctx context.Context, v policy.Viewer, postID, commentID int64) error {
	c, err := s.loadCommentForChange(ctx, v, postID, commentID)
	if err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
