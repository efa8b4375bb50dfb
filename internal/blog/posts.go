// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"blogicum/internal/markdown"
	"blogicum/internal/models"
	"blogicum/internal/policy"
)

// PostInput is the editable part of a post. On update, a nil PubDate or
// IsPublished keeps the stored value; CategoryID and LocationID always
// replace it, so nil clears the reference.
type PostInput struct {
	Title       string     `json:"title" validate:"required,max=256"`
	Text        string     `json:"text" validate:"required"`
	PubDate     *time.Time `json:"pub_date"`
	CategoryID  *int64     `json:"category_id"`
	LocationID  *int64     `json:"location_id"`
	IsPublished *bool      `json:"is_published"`
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Text = strings.TrimSpace(in.Text)
}

// PostDetail is a post as shown on its own page.
type PostDetail struct {
	Post     models.Post      `json:"post"`
	State    models.PostState `json:"state"`
	HTML     string           `json:"html"`
	ImageURL string           `json:"image_url,omitempty"`
	Comments []models.Comment `json:"comments"`
	CanEdit  bool             `json:"can_edit"`
}

// ListPosts returns one page of the posts v may see in scope.
func (s *Service) ListPosts(ctx context.Context, v policy.Viewer, scope policy.Scope, page int) (policy.Page[models.Post], error) {
	f := policy.BuildListingFilter(s.now(), v, scope)
	req := policy.NewPageRequest(page, s.pageSize)
	if f.Empty {
		return policy.Paginate[models.Post](nil, req), nil
	}

	result, err := s.posts.List(ctx, f, req)
	if err != nil {
		return result, fmt.Errorf("list posts: %w", err)
	}
	return result, nil
}

// Index lists every publicly visible post.
func (s *Service) Index(ctx context.Context, v policy.Viewer, page int) (policy.Page[models.Post], error) {
	return s.ListPosts(ctx, v, policy.All(), page)
}

// CategoryPosts lists the visible posts of the category with the given
// slug. An unknown or hidden category yields a nil category and an empty
// page.
func (s *Service) CategoryPosts(ctx context.Context, v policy.Viewer, slug string, page int) (*models.Category, policy.Page[models.Post], error) {
	cat, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, policy.Page[models.Post]{}, fmt.Errorf("category posts: %w", err)
	}
	if cat == nil || !cat.IsPublished {
		return nil, policy.Paginate[models.Post](nil, policy.NewPageRequest(page, s.pageSize)), nil
	}

	result, err := s.ListPosts(ctx, v, policy.ByCategory(cat.ID), page)
	return cat, result, err
}

// Profile returns a user and one page of their posts. The user's own
// drafts and scheduled posts are included when v is that user.
func (s *Service) Profile(ctx context.Context, v policy.Viewer, username string, page int) (*models.User, policy.Page[models.Post], error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, policy.Page[models.Post]{}, fmt.Errorf("profile: %w", err)
	}
	if u == nil {
		return nil, policy.Page[models.Post]{}, policy.ErrNotFound
	}

	result, err := s.ListPosts(ctx, v, policy.ByAuthor(u.ID), page)
	return u, result, err
}

// GetPost returns the post if v may see it, or policy.ErrNotFound.
func (s *Service) GetPost(ctx context.Context, v policy.Viewer, id int64) (*models.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if p == nil || !policy.PostVisible(p, s.now(), v) {
		return nil, policy.ErrNotFound
	}
	return p, nil
}

// PostDetail returns the post with its rendered text and its comments.
func (s *Service) PostDetail(ctx context.Context, v policy.Viewer, id int64) (*PostDetail, error) {
	p, err := s.GetPost(ctx, v, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	html, err := markdown.ToHTML(p.Text)
	if err != nil {
		return nil, fmt.Errorf("post detail render: %w", err)
	}

	d := &PostDetail{
		Post:     *p,
		State:    policy.State(p, s.now()),
		HTML:     html,
		Comments: comments,
		CanEdit:  policy.CanModify(p, v),
	}
	if p.Image != nil && s.images != nil {
		d.ImageURL = s.images.URL(*p.Image)
	}
	return d, nil
}

// loadForChange fetches a post v wants to modify. A viewer who may not
// modify the post gets ErrForbidden only if they can see it.
func (s *Service) loadForChange(ctx context.Context, v policy.Viewer, id int64) (*models.Post, error) {
	if !v.Authenticated {
		return nil, policy.ErrUnauthenticated
	}

	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if p == nil {
		return nil, policy.ErrNotFound
	}

	if err := policy.Authorize(p, v); err != nil {
		if !policy.PostVisible(p, s.now(), v) {
			return nil, policy.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// checkRefs verifies that referenced categories and locations exist and
// are visible to v.
func (s *Service) checkRefs(ctx context.Context, v policy.Viewer, in *PostInput) error {
	verr := ValidationError{}

	if in.CategoryID != nil {
		c, err := s.categories.FindByID(ctx, *in.CategoryID)
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if c == nil || !policy.CategoryVisible(c, v) {
			verr["category_id"] = "Select a valid choice."
		}
	}

	if in.LocationID != nil {
		l, err := s.locations.FindByID(ctx, *in.LocationID)
		if err != nil {
			return fmt.Errorf("check location: %w", err)
		}
		if l == nil || !policy.LocationVisible(l, v) {
			verr["location_id"] = "Select a valid choice."
		}
	}

	if len(verr) > 0 {
		return verr
	}
	return nil
}

// CreatePost publishes a new post authored by v.
func (s *Service) CreatePost(ctx context.Context, v policy.Viewer, in PostInput) (*models.Post, error) {
	if !v.Authenticated {
		return nil, policy.ErrUnauthenticated
	}

	in.normalize()
	if err := check(in); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, v, &in); err != nil {
		return nil, err
	}

	p := &models.Post{
		Title:       in.Title,
		Text:        in.Text,
		PubDate:     s.now(),
		AuthorID:    v.UserID,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
		IsPublished: true,
	}
	if in.PubDate != nil {
		p.PubDate = *in.PubDate
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}

	created, err := s.posts.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	slog.Info("post created", "post_id", created.ID, "author_id", v.UserID)
	return created, nil
}

// UpdatePost changes a post owned by v (or any post, for elevated viewers).
func (s *Service) UpdatePost(ctx context.Context, v policy.Viewer, id int64, in PostInput) (*models.Post, error) {
	p, err := s.loadForChange(ctx, v, id)
	if err != nil {
		return nil, err
	}

	in.normalize()
	if err := check(in); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, v, &in); err != nil {
		return nil, err
	}

	p.Title = in.Title
	p.Text = in.Text
	p.CategoryID = in.CategoryID
	p.LocationID = in.LocationID
	if in.PubDate != nil {
		p.PubDate = *in.PubDate
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}

	if err := s.posts.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	updated, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	return updated, nil
}

// DeletePost removes a post, its comments and its image.
func (s *Service) DeletePost(ctx context.Context, v policy.Viewer, id int64) error {
	p, err := s.loadForChange(ctx, v, id)
	if err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if p.Image != nil && s.images != nil {
		if err := s.images.Delete(ctx, *p.Image); err != nil {
			slog.Warn("failed to delete post image", "post_id", p.ID, "key", *p.Image, "error", err)
		}
	}

	slog.Info("post deleted", "post_id", p.ID, "by", v.UserID)
	return nil
}

// allowedImageTypes maps accepted content types to file extensions.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AttachImage uploads an image and sets it on the post, replacing any
// previous one.
func (s *Service) AttachImage(ctx context.Context, v policy.Viewer, id int64, filename, contentType string, body io.Reader, size int64) (*models.Post, error) {
	if s.images == nil {
		return nil, ErrStorageDisabled
	}

	p, err := s.loadForChange(ctx, v, id)
	if err != nil {
		return nil, err
	}

	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, invalid("image", "Upload a JPEG, PNG, GIF or WebP image.")
	}
	if e := strings.ToLower(filepath.Ext(filename)); e == ".jpeg" && ext == ".jpg" {
		ext = e
	}

	key := fmt.Sprintf("posts/%d/%s%s", p.ID, uuid.NewString(), ext)
	if err := s.images.Upload(ctx, key, contentType, body, size); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	if err := s.posts.SetImage(ctx, p.ID, &key); err != nil {
		return nil, fmt.Errorf("attach image: %w", err)
	}

	if p.Image != nil {
		if err := s.images.Delete(ctx, *p.Image); err != nil {
			slog.Warn("failed to delete replaced image", "post_id", p.ID, "key", *p.Image, "error", err)
		}
	}

	updated, err := s.posts.FindByID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	return updated, nil
}
