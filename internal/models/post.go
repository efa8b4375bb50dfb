// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostState is the derived publication state of a post. It is never stored;
// it follows from the post's flag, its pub date and its category.
type PostState string

const (
	PostStateDraft                      PostState = "draft"
	PostStateScheduled                  PostState = "scheduled"
	PostStatePublished                  PostState = "published"
	PostStatePublishedButCategoryHidden PostState = "published_category_hidden"
)

// Post is a blog entry. PubDate in the future schedules the post.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	PubDate     time.Time `json:"pub_date"`
	AuthorID    uuid.UUID `json:"author_id"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	LocationID  *int64    `json:"location_id,omitempty"`
	IsPublished bool      `json:"is_published"`
	Image       *string   `json:"image,omitempty"` // object key in the public bucket
	CreatedAt   time.Time `json:"created_at"`

	// Virtual fields populated by store methods.
	AuthorUsername string    `json:"author_username"`
	Category       *Category `json:"category,omitempty"`
	Location       *Location `json:"location,omitempty"`
	CommentCount   int       `json:"comment_count"`
}

// OwnerID returns the id of the user who wrote the post.
func (p *Post) OwnerID() uuid.UUID {
	return p.AuthorID
}

// Comment is a reader's reply to a post. Comments live and die with their post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	AuthorUsername string `json:"author_username"`
}

// OwnerID returns the id of the user who wrote the comment.
func (c *Comment) OwnerID() uuid.UUID {
	return c.AuthorID
}
