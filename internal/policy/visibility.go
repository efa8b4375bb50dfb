// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import (
	"time"

	"blogicum/internal/models"
)

// PubliclyVisible applies the strict rule: the post is published, its pub
// date has passed and its category, if any, is published.
func PubliclyVisible(p *models.Post, now time.Time) bool {
	if p == nil || !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	return categoryPublished(p)
}

// categoryPublished treats a missing category as passing. A category id
// without a loaded category fails closed.
func categoryPublished(p *models.Post) bool {
	if p.Category != nil {
		return p.Category.IsPublished
	}
	return p.CategoryID == nil
}

// PostVisible reports whether v may read p at time now. Authors always see
// their own posts and elevated viewers see everything.
func PostVisible(p *models.Post, now time.Time, v Viewer) bool {
	if p == nil {
		return false
	}
	if v.Is(p.AuthorID) || v.IsElevated() {
		return true
	}
	return PubliclyVisible(p, now)
}

// CommentVisible reports whether v may read c. A comment has no flag of its
// own: it is visible exactly when its parent post is.
func CommentVisible(c *models.Comment, parent *models.Post, now time.Time, v Viewer) bool {
	if c == nil || parent == nil || c.PostID != parent.ID {
		return false
	}
	return PostVisible(parent, now, v)
}

// CategoryVisible reports whether v may see the category page.
func CategoryVisible(c *models.Category, v Viewer) bool {
	if c == nil {
		return false
	}
	return c.IsPublished || v.IsElevated()
}

// LocationVisible reports whether v may see the location.
func LocationVisible(l *models.Location, v Viewer) bool {
	if l == nil {
		return false
	}
	return l.IsPublished || v.IsElevated()
}

// State derives the publication state of p at time now.
func State(p *models.Post, now time.Time) models.PostState {
	switch {
	case !p.IsPublished:
		return models.PostStateDraft
	case p.PubDate.After(now):
		return models.PostStateScheduled
	case !categoryPublished(p):
		return models.PostStatePublishedButCategoryHidden
	default:
		return models.PostStatePublished
	}
}
