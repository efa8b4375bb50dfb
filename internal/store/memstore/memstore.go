// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memstore is an in-memory implementation of the blog repositories.
// It backs STORAGE_BACKEND=memory and the service tests. It mirrors the
// PostgreSQL schema's rules: unique usernames and slugs, comments deleted
// with their post, and category or location references cleared when the
// referenced row is deleted.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"blogicum/internal/models"
	"blogicum/internal/policy"
)

// DB holds every table behind one lock.
type DB struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]models.User
	categories map[int64]models.Category
	locations  map[int64]models.Location
	posts      map[int64]models.Post
	comments   map[int64]models.Comment
	nextID     int64
}

// New returns an empty database.
func New() *DB {
	return &DB{
		users:      make(map[uuid.UUID]models.User),
		categories: make(map[int64]models.Category),
		locations:  make(map[int64]models.Location),
		posts:      make(map[int64]models.Post),
		comments:   make(map[int64]models.Comment),
	}
}

// Posts returns the post repository.
func (db *DB) Posts() *PostStore { return &PostStore{db: db} }

// Categories returns the category repository.
func (db *DB) Categories() *CategoryStore { return &CategoryStore{db: db} }

// Locations returns the location repository.
func (db *DB) Locations() *LocationStore { return &LocationStore{db: db} }

// Comments returns the comment repository.
func (db *DB) Comments() *CommentStore { return &CommentStore{db: db} }

// Users returns the user repository.
func (db *DB) Users() *UserStore { return &UserStore{db: db} }

// id hands out identifiers shared by all tables. Callers hold the write lock.
func (db *DB) id() int64 {
	db.nextID++
	return db.nextID
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

// hydrate fills the virtual fields of a post the way the SQL join does.
// Callers hold at least the read lock.
func (db *DB) hydrate(p models.Post) models.Post {
	p.Category = nil
	p.Location = nil
	if p.CategoryID != nil {
		if c, ok := db.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	if p.LocationID != nil {
		if l, ok := db.locations[*p.LocationID]; ok {
			p.Location = &l
		}
	}
	if u, ok := db.users[p.AuthorID]; ok {
		p.AuthorUsername = u.Username
	}
	p.CommentCount = 0
	for _, c := range db.comments {
		if c.PostID == p.ID {
			p.CommentCount++
		}
	}
	return p
}

// PostStore is the in-memory post repository.
type PostStore struct{ db *DB }

// List returns one page of posts matching the filter, newest first.
func (s *PostStore) List(_ context.Context, f policy.Filter, req policy.PageRequest) (policy.Page[models.Post], error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var matched []models.Post
	if !f.Empty {
		for _, p := range s.db.posts {
			p = s.db.hydrate(p)
			if f.Match(&p) {
				matched = append(matched, p)
			}
		}
	}
	policy.SortPosts(matched)
	return policy.Paginate(matched, req), nil
}

// FindByID returns the post with the given id, or nil.
func (s *PostStore) FindByID(_ context.Context, id int64) (*models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.posts[id]
	if !ok {
		return nil, nil
	}
	p = s.db.hydrate(p)
	return &p, nil
}

// Create stores a new post. A zero CreatedAt is set to the current time.
func (s *PostStore) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := *p
	row.ID = s.db.id()
	row.CreatedAt = stamp(row.CreatedAt)
	s.db.posts[row.ID] = row

	out := s.db.hydrate(row)
	return &out, nil
}

// Update saves the editable fields of an existing post.
func (s *PostStore) Update(_ context.Context, p *models.Post) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row, ok := s.db.posts[p.ID]
	if !ok {
		return nil
	}
	row.Title = p.Title
	row.Text = p.Text
	row.PubDate = p.PubDate
	row.CategoryID = p.CategoryID
	row.LocationID = p.LocationID
	row.IsPublished = p.IsPublished
	s.db.posts[p.ID] = row
	return nil
}

// SetImage replaces the image key of a post.
func (s *PostStore) SetImage(_ context.Context, id int64, key *string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if row, ok := s.db.posts[id]; ok {
		row.Image = key
		s.db.posts[id] = row
	}
	return nil
}

// Delete removes a post together with its comments.
func (s *PostStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.posts, id)
	for cid, c := range s.db.comments {
		if c.PostID == id {
			delete(s.db.comments, cid)
		}
	}
	return nil
}
