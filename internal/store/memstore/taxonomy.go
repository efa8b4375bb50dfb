// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"context"
	"sort"

	"blogicum/internal/models"
	"blogicum/internal/store"
)

// CategoryStore is the in-memory category repository.
type CategoryStore struct{ db *DB }

// List returns categories ordered by title.
func (s *CategoryStore) List(_ context.Context, publishedOnly bool) ([]models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	items := []models.Category{}
	for _, c := range s.db.categories {
		if publishedOnly && !c.IsPublished {
			continue
		}
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Title != items[j].Title {
			return items[i].Title < items[j].Title
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// FindByID returns the category with the given id, or nil.
func (s *CategoryStore) FindByID(_ context.Context, id int64) (*models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	c, ok := s.db.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// FindBySlug returns the category with the given slug, or nil.
func (s *CategoryStore) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, c := range s.db.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

// slugTaken reports whether another category uses slug. Callers hold the lock.
func (s *CategoryStore) slugTaken(slug string, except int64) bool {
	for _, c := range s.db.categories {
		if c.Slug == slug && c.ID != except {
			return true
		}
	}
	return false
}

// Create stores a new category. Slugs are unique.
func (s *CategoryStore) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.slugTaken(c.Slug, 0) {
		return nil, store.ErrDuplicate
	}
	row := *c
	row.ID = s.db.id()
	row.CreatedAt = stamp(row.CreatedAt)
	s.db.categories[row.ID] = row
	return &row, nil
}

// Update saves an existing category.
func (s *CategoryStore) Update(_ context.Context, c *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row, ok := s.db.categories[c.ID]
	if !ok {
		return nil
	}
	if s.slugTaken(c.Slug, c.ID) {
		return store.ErrDuplicate
	}
	row.Title = c.Title
	row.Description = c.Description
	row.Slug = c.Slug
	row.IsPublished = c.IsPublished
	s.db.categories[c.ID] = row
	return nil
}

// Delete removes a category and clears it from its posts.
func (s *CategoryStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.categories, id)
	for pid, p := range s.db.posts {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			s.db.posts[pid] = p
		}
	}
	return nil
}

// CountPosts returns how many posts reference the category.
func (s *CategoryStore) CountPosts(_ context.Context, id int64) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	n := 0
	for _, p := range s.db.posts {
		if p.CategoryID != nil && *p.CategoryID == id {
			n++
		}
	}
	return n, nil
}

// LocationStore is the in-memory location repository.
type LocationStore struct{ db *DB }

// List returns locations ordered by name.
func (s *LocationStore) List(_ context.Context, publishedOnly bool) ([]models.Location, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	items := []models.Location{}
	for _, l := range s.db.locations {
		if publishedOnly && !l.IsPublished {
			continue
		}
		items = append(items, l)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// FindByID returns the location with the given id, or nil.
func (s *LocationStore) FindByID(_ context.Context, id int64) (*models.Location, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	l, ok := s.db.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// Create stores a new location.
func (s *LocationStore) Create(_ context.Context, l *models.Location) (*models.Location, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := *l
	row.ID = s.db.id()
	row.CreatedAt = stamp(row.CreatedAt)
	s.db.locations[row.ID] = row
	return &row, nil
}

// Delete removes a location and clears it from its posts.
func (s *LocationStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.locations, id)
	for pid, p := range s.db.posts {
		if p.LocationID != nil && *p.LocationID == id {
			p.LocationID = nil
			s.db.posts[pid] = p
		}
	}
	return nil
}
