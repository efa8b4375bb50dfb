// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog implements the blog use cases on top of the policy engine:
// listings, post detail, post and comment changes, category and location
// management, and user accounts. Every method takes the acting
// policy.Viewer explicitly; the service never looks at sessions.
package blog

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"blogicum/internal/models"
	"blogicum/internal/policy"
)

// PostRepository persists posts. FindByID returns (nil, nil) when the post
// does not exist. Delete also removes the post's comments.
type PostRepository interface {
	List(ctx context.Context, f policy.Filter, req policy.PageRequest) (policy.Page[models.Post], error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	SetImage(ctx context.Context, id int64, key *string) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int64) error
	CountPosts(ctx context.Context, id int64) (int, error)
}

// LocationRepository persists locations.
type LocationRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]models.Location, error)
	FindByID(ctx context.Context, id int64) (*models.Location, error)
	Create(ctx context.Context, l *models.Location) (*models.Location, error)
	Delete(ctx context.Context, id int64) error
}

// CommentRepository persists comments. ListByPost returns oldest first.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	Update(ctx context.Context, c *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository persists accounts.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) error
	SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, id uuid.UUID) error
}

// ImageStore keeps post images in object storage.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Deps groups the collaborators of a Service. Images may be nil, which
// disables image uploads. Now defaults to time.Now.
type Deps struct {
	Posts      PostRepository
	Categories CategoryRepository
	Locations  LocationRepository
	Comments   CommentRepository
	Users      UserRepository
	Images     ImageStore
	PageSize   int
	Now        func() time.Time
}

// Service implements the blog use cases.
type Service struct {
	posts      PostRepository
	categories CategoryRepository
	locations  LocationRepository
	comments   CommentRepository
	users      UserRepository
	images     ImageStore
	pageSize   int
	now        func() time.Time
}

// New creates a Service from its dependencies.
func New(d Deps) *Service {
	s := &Service{
		posts:      d.Posts,
		categories: d.Categories,
		locations:  d.Locations,
		comments:   d.Comments,
		users:      d.Users,
		images:     d.Images,
		pageSize:   d.PageSize,
		now:        d.Now,
	}
	if s.pageSize < 1 {
		s.pageSize = policy.DefaultPageSize
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// PageSize is the configured number of posts per listing page.
func (s *Service) PageSize() int {
	return s.pageSize
}

// ImagesEnabled reports whether an image store is configured.
func (s *Service) ImagesEnabled() bool {
	return s.images != nil
}
