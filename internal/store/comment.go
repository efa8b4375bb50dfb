// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogicum/internal/models"
)

// CommentStore handles comment persistence.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentSelect = `
	SELECT cm.id, cm.post_id, cm.author_id, cm.text, cm.created_at, u.username
	FROM comments cm
	JOIN users u ON u.id = cm.author_id`

func scanComment(s scanner) (*models.Comment, error) {
	var c models.Comment
	err := s.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.AuthorUsername)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByPost returns the comments of a post, oldest first.
func (s *CommentStore) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		commentSelect+` WHERE cm.post_id = $1 ORDER BY cm.created_at ASC, cm.id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	items := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	c, err := scanComment(s.db.QueryRowContext(ctx, commentSelect+` WHERE cm.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a comment and returns it with the author name loaded.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	var created sql.NullTime
	if !c.CreatedAt.IsZero() {
		created = sql.NullTime{Time: c.CreatedAt, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, author_id, text, created_at)
		VALUES ($1, $2, $3, COALESCE($4, NOW()))
		RETURNING id
	`, c.PostID, c.AuthorID, c.Text, created).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update replaces the text of a comment.
func (s *CommentStore) Update(ctx context.Context, c *models.Comment) error {
	_, err := s.db.ExecContext(ctx, `UPDATE comments SET text = $1 WHERE id = $2`, c.Text, c.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes a comment by ID.
func (s *CommentStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
