// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/policy"
	"blogicum/internal/slug"
	"blogicum/internal/store"
)

// CategoryInput is the editable part of a category. An empty slug is
// generated from the title.
type CategoryInput struct {
	Title       string `json:"title" validate:"required,max=256"`
	Description string `json:"description"`
	Slug        string `json:"slug" validate:"required,max=64,slug"`
	IsPublished *bool  `json:"is_published"`
}

// LocationInput is the editable part of a location.
type LocationInput struct {
	Name        string `json:"name" validate:"required,max=256"`
	IsPublished *bool  `json:"is_published"`
}

func (in *CategoryInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Title)
	}
}

// validate checks the input. A slug that could not be derived from a
// non-empty title gets a message saying so instead of "required".
func (in *CategoryInput) validate() error {
	err := check(in)
	var verr ValidationError
	if in.Slug == "" && in.Title != "" && errors.As(err, &verr) {
		if _, ok := verr["slug"]; ok {
			verr["slug"] = "Could not derive a slug from the title; set one explicitly."
		}
	}
	return err
}

func conflict(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return ErrConflict
	}
	return err
}

// ListCategories returns the categories v may see.
func (s *Service) ListCategories(ctx context.Context, v policy.Viewer) ([]models.Category, error) {
	items, err := s.categories.List(ctx, !v.IsElevated())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// CreateCategory adds a category. Only elevated viewers manage categories.
func (s *Service) CreateCategory(ctx context.Context, v policy.Viewer, in CategoryInput) (*models.Category, error) {
	if err := policy.AuthorizeTaxonomy(v); err != nil {
		return nil, err
	}

	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	c, err := s.categories.Create(ctx, &models.Category{
		Title:       in.Title,
		Description: in.Description,
		Slug:        in.Slug,
		IsPublished: in.IsPublished == nil || *in.IsPublished,
	})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", conflict(err))
	}

	slog.Info("category created", "category_id", c.ID, "slug", c.Slug)
	return c, nil
}

// UpdateCategory changes a category. The slug of a category that posts
// reference cannot change.
func (s *Service) UpdateCategory(ctx context.Context, v policy.Viewer, id int64, in CategoryInput) (*models.Category, error) {
	if err := policy.AuthorizeTaxonomy(v); err != nil {
		return nil, err
	}

	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if c == nil {
		return nil, policy.ErrNotFound
	}

	if strings.TrimSpace(in.Slug) == "" {
		in.Slug = c.Slug
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	if in.Slug != c.Slug {
		n, err := s.categories.CountPosts(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("update category: %w", err)
		}
		if n > 0 {
			return nil, ErrSlugLocked
		}
	}

	c.Title = in.Title
	c.Description = in.Description
	c.Slug = in.Slug
	if in.IsPublished != nil {
		c.IsPublished = *in.IsPublished
	}

	if err := s.categories.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", conflict(err))
	}
	return c, nil
}

// DeleteCategory removes a category. Its posts lose the reference.
func (s *Service) DeleteCategory(ctx context.Context, v policy.Viewer, id int64) error {
	if err := policy.AuthorizeTaxonomy(v); err != nil {
		return err
	}

	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if c == nil {
		return policy.ErrNotFound
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	slog.Info("category deleted", "category_id", id)
	return nil
}

// ListLocations returns the locations v may see.
func (s *Service) ListLocations(ctx context.Context, v policy.Viewer) ([]models.Location, error) {
	items, err := s.locations.List(ctx, !v.IsElevated())
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return items, nil
}

// CreateLocation adds a location.
func (s *Service) CreateLocation(ctx context.Context, v policy.Viewer, in LocationInput) (*models.Location, error) {
	if err := policy.AuthorizeTaxonomy(v); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := check(in); err != nil {
		return nil, err
	}

	l, err := s.locations.Create(ctx, &models.Location{
		Name:        in.Name,
		IsPublished: in.IsPublished == nil || *in.IsPublished,
	})
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return l, nil
}

// DeleteLocation removes a location. Its posts lose the reference.
func (s *Service) DeleteLocation(ctx context.Context, v policy.Viewer, id int64) error {
	if err := policy.AuthorizeTaxonomy(v); err != nil {
		return err
	}

	l, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if l == nil {
		return policy.ErrNotFound
	}

	if err := s.locations.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}
