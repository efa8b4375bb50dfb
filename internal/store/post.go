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
	"blogicum/internal/policy"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postSelect loads a post with its author name, category, location and
// comment count. The aliases p and c are relied on by policy.Filter.SQL.
const postSelect = `
	SELECT p.id, p.title, p.text, p.pub_date, p.author_id, p.category_id,
	       p.location_id, p.is_published, p.image, p.created_at,
	       u.username,
	       c.id, c.title, c.description, c.slug, c.is_published, c.created_at,
	       l.id, l.name, l.is_published, l.created_at,
	       (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN locations l ON l.id = p.location_id`

// scanPost scans a postSelect row, hydrating the joined relations.
func scanPost(s scanner) (*models.Post, error) {
	var p models.Post
	var catID, locID sql.NullInt64
	var catTitle, catDesc, catSlug, locName sql.NullString
	var catPublished, locPublished sql.NullBool
	var catCreated, locCreated sql.NullTime
	err := s.Scan(
		&p.ID, &p.Title, &p.Text, &p.PubDate, &p.AuthorID, &p.CategoryID,
		&p.LocationID, &p.IsPublished, &p.Image, &p.CreatedAt,
		&p.AuthorUsername,
		&catID, &catTitle, &catDesc, &catSlug, &catPublished, &catCreated,
		&locID, &locName, &locPublished, &locCreated,
		&p.CommentCount,
	)
	if err != nil {
		return nil, err
	}

	if catID.Valid {
		p.Category = &models.Category{
			ID:          catID.Int64,
			Title:       catTitle.String,
			Description: catDesc.String,
			Slug:        catSlug.String,
			IsPublished: catPublished.Bool,
			CreatedAt:   catCreated.Time,
		}
	}
	if locID.Valid {
		p.Location = &models.Location{
			ID:          locID.Int64,
			Name:        locName.String,
			IsPublished: locPublished.Bool,
			CreatedAt:   locCreated.Time,
		}
	}
	return &p, nil
}

// List returns one page of posts matching the filter, newest first.
func (s *PostStore) List(ctx context.Context, f policy.Filter, req policy.PageRequest) (policy.Page[models.Post], error) {
	req = policy.NewPageRequest(req.Number, req.Size)
	page := policy.Page[models.Post]{Items: []models.Post{}, Number: req.Number, Size: req.Size}
	if f.Empty {
		return page, nil
	}

	where, args := f.SQL(1)

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE `+where, args...).Scan(&page.Total)
	if err != nil {
		return page, fmt.Errorf("count posts: %w", err)
	}
	if page.Total == 0 || req.Offset() >= page.Total {
		return page, nil
	}

	limit := len(args) + 1
	query := fmt.Sprintf("%s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		postSelect, where, policy.OrderSQL, limit, limit+1)
	args = append(args, req.Size, req.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return page, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return page, fmt.Errorf("scan post: %w", err)
		}
		page.Items = append(page.Items, *p)
	}
	return page, rows.Err()
}

// FindByID retrieves a post by ID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with relations loaded.
// A zero CreatedAt is filled in by the database.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	var created sql.NullTime
	if !p.CreatedAt.IsZero() {
		created = sql.NullTime{Time: p.CreatedAt, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, text, pub_date, author_id, category_id,
		                   location_id, is_published, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
		RETURNING id
	`, p.Title, p.Text, p.PubDate, p.AuthorID, p.CategoryID,
		p.LocationID, p.IsPublished, p.Image, created,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", mapErr(err))
	}
	return s.FindByID(ctx, id)
}

// Update saves the editable fields of a post. Author and creation time
// never change.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, text = $2, pub_date = $3, category_id = $4,
			location_id = $5, is_published = $6
		WHERE id = $7
	`, p.Title, p.Text, p.PubDate, p.CategoryID, p.LocationID, p.IsPublished, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", mapErr(err))
	}
	return nil
}

// SetImage replaces the image key of a post. A nil key clears it.
func (s *PostStore) SetImage(ctx context.Context, id int64, key *string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE posts SET image = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("set post image: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Its comments go with it (ON DELETE CASCADE).
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
