// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"blogicum/internal/models"
	"blogicum/internal/store"
)

// CommentStore is the in-memory comment repository.
type CommentStore struct{ db *DB }

func (s *CommentStore) withAuthor(c models.Comment) models.Comment {
	if u, ok := s.db.users[c.AuthorID]; ok {
		c.AuthorUsername = u.Username
	}
	return c
}

// ListByPost returns the comments of a post, oldest first.
func (s *CommentStore) ListByPost(_ context.Context, postID int64) ([]models.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	items := []models.Comment{}
	for _, c := range s.db.comments {
		if c.PostID == postID {
			items = append(items, s.withAuthor(c))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// FindByID returns the comment with the given id, or nil.
func (s *CommentStore) FindByID(_ context.Context, id int64) (*models.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	c, ok := s.db.comments[id]
	if !ok {
		return nil, nil
	}
	c = s.withAuthor(c)
	return &c, nil
}

// Create stores a new comment.
func (s *CommentStore) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := *c
	row.ID = s.db.id()
	row.CreatedAt = stamp(row.CreatedAt)
	row.AuthorUsername = ""
	s.db.comments[row.ID] = row

	out := s.withAuthor(row)
	return &out, nil
}

// Update replaces the text of a comment.
func (s *CommentStore) Update(_ context.Context, c *models.Comment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if row, ok := s.db.comments[c.ID]; ok {
		row.Text = c.Text
		s.db.comments[c.ID] = row
	}
	return nil
}

// Delete removes a comment.
func (s *CommentStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.comments, id)
	return nil
}

// UserStore is the in-memory user repository.
type UserStore struct{ db *DB }

// usernameTaken reports whether another user has the name. Callers hold the lock.
func (s *UserStore) usernameTaken(name string, except uuid.UUID) bool {
	for _, u := range s.db.users {
		if u.Username == name && u.ID != except {
			return true
		}
	}
	return false
}

// FindByUsername returns the user with the given username, or nil.
func (s *UserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// FindByID returns the user with the given id, or nil.
func (s *UserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Create stores a new user. Usernames are unique.
func (s *UserStore) Create(_ context.Context, u *models.User) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := *u
	if row.Role == "" {
		row.Role = models.RoleUser
	}
	if !row.Role.Valid() {
		return nil, store.ErrInvalidRole
	}
	if s.usernameTaken(u.Username, uuid.Nil) {
		return nil, store.ErrDuplicate
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = stamp(row.CreatedAt)
	row.UpdatedAt = row.CreatedAt
	s.db.users[row.ID] = row
	return &row, nil
}

// UpdateProfile saves the editable profile fields of a user.
func (s *UserStore) UpdateProfile(_ context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row, ok := s.db.users[u.ID]
	if !ok {
		return nil
	}
	if s.usernameTaken(u.Username, u.ID) {
		return store.ErrDuplicate
	}
	row.Username = u.Username
	row.Email = u.Email
	row.FirstName = u.FirstName
	row.LastName = u.LastName
	row.UpdatedAt = time.Now().UTC()
	s.db.users[u.ID] = row
	return nil
}

// SetTOTPSecret saves the TOTP secret of a user.
func (s *UserStore) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if row, ok := s.db.users[id]; ok {
		row.TOTPSecret = &secret
		s.db.users[id] = row
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user.
func (s *UserStore) EnableTOTP(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if row, ok := s.db.users[id]; ok {
		row.TOTPEnabled = true
		s.db.users[id] = row
	}
	return nil
}
