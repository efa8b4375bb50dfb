// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"blogicum/internal/models"
)

// ScopeKind selects the listing context.
type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeCategory
	ScopeAuthor
)

// Scope is the listing context: everything, one category, or one author.
type Scope struct {
	Kind       ScopeKind
	CategoryID int64
	AuthorID   uuid.UUID
}

// All is the scope of the index page.
func All() Scope {
	return Scope{Kind: ScopeAll}
}

// ByCategory is the scope of a category page.
func ByCategory(id int64) Scope {
	return Scope{Kind: ScopeCategory, CategoryID: id}
}

// ByAuthor is the scope of a profile page.
func ByAuthor(id uuid.UUID) Scope {
	return Scope{Kind: ScopeAuthor, AuthorID: id}
}

// Filter is the declarative form of the visibility rules for one listing.
// Stores either evaluate it with Match or render it with SQL.
type Filter struct {
	Now        time.Time
	Public     bool // apply PubliclyVisible
	CategoryID *int64
	AuthorID   *uuid.UUID
	Empty      bool // invalid scope: matches nothing
}

// BuildListingFilter composes the filter for a listing. Every scope applies
// the strict public rule, except a profile viewed by its own user, which
// also lists drafts and scheduled posts. Invalid scopes give an empty filter.
func BuildListingFilter(now time.Time, v Viewer, s Scope) Filter {
	f := Filter{Now: now, Public: true}

	switch s.Kind {
	case ScopeAll:
	case ScopeCategory:
		if s.CategoryID <= 0 {
			f.Empty = true
			break
		}
		id := s.CategoryID
		f.CategoryID = &id
	case ScopeAuthor:
		if s.AuthorID == uuid.Nil {
			f.Empty = true
			break
		}
		id := s.AuthorID
		f.AuthorID = &id
		if v.Is(id) {
			f.Public = false
		}
	default:
		f.Empty = true
	}

	return f
}

// Match evaluates the filter against a post held in memory. The post's
// Category must be loaded for the public rule to pass.
func (f Filter) Match(p *models.Post) bool {
	if f.Empty || p == nil {
		return false
	}
	if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
		return false
	}
	if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
		return false
	}
	if f.Public && !PubliclyVisible(p, f.Now) {
		return false
	}
	return true
}

// SQL renders the filter as a PostgreSQL WHERE fragment. Posts are aliased
// "p" and their category is LEFT JOINed as "c". Placeholders are numbered
// from start, so the fragment can follow other arguments.
func (f Filter) SQL(start int) (string, []any) {
	if f.Empty {
		return "FALSE", nil
	}

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", start+len(args)-1)
	}

	if f.CategoryID != nil {
		conds = append(conds, "p.category_id = "+arg(*f.CategoryID))
	}
	if f.AuthorID != nil {
		conds = append(conds, "p.author_id = "+arg(*f.AuthorID))
	}
	if f.Public {
		conds = append(conds,
			"p.is_published = TRUE",
			"p.pub_date <= "+arg(f.Now),
			"(p.category_id IS NULL OR c.is_published = TRUE)",
		)
	}

	if len(conds) == 0 {
		return "TRUE", nil
	}
	return strings.Join(conds, " AND "), args
}

// OrderSQL is the listing order: newest first, ties broken by id.
const OrderSQL = "p.created_at DESC, p.id DESC"

// Newer reports whether a sorts before b in listing order.
func Newer(a, b *models.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// SortPosts orders posts in listing order.
func SortPosts(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return Newer(&posts[i], &posts[j])
	})
}
