// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import "github.com/google/uuid"

// Owned is implemented by items that have an author.
type Owned interface {
	OwnerID() uuid.UUID
}

// CanModify reports whether v may edit or delete item: the viewer is
// authenticated and is either the author or elevated.
func CanModify(item Owned, v Viewer) bool {
	if item == nil || !v.Authenticated {
		return false
	}
	return v.IsElevated() || v.Is(item.OwnerID())
}

// Authorize is CanModify expressed as an error.
func Authorize(item Owned, v Viewer) error {
	if !v.Authenticated {
		return ErrUnauthenticated
	}
	if !CanModify(item, v) {
		return ErrForbidden
	}
	return nil
}

// CanManageTaxonomy reports whether v may create, edit or delete categories
// and locations. These have no author; only elevated viewers manage them.
func CanManageTaxonomy(v Viewer) bool {
	return v.IsElevated()
}

// AuthorizeTaxonomy is CanManageTaxonomy expressed as an error.
func AuthorizeTaxonomy(v Viewer) error {
	if !v.Authenticated {
		return ErrUnauthenticated
	}
	if !CanManageTaxonomy(v) {
		return ErrForbidden
	}
	return nil
}
