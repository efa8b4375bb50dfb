// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import "github.com/google/uuid"

// Viewer is the identity a request acts as. The zero value is anonymous.
type Viewer struct {
	UserID        uuid.UUID
	Authenticated bool
	Elevated      bool // staff or admin with a verified second factor
}

// Anonymous returns the viewer for requests without a session.
func Anonymous() Viewer {
	return Viewer{}
}

// User returns an authenticated viewer.
func User(id uuid.UUID, elevated bool) Viewer {
	return Viewer{UserID: id, Authenticated: true, Elevated: elevated}
}

// Is reports whether the viewer is the authenticated user with the given id.
func (v Viewer) Is(id uuid.UUID) bool {
	return v.Authenticated && id != uuid.Nil && v.UserID == id
}

// IsElevated reports whether the viewer bypasses visibility and ownership
// checks. Anonymous viewers are never elevated.
func (v Viewer) IsElevated() bool {
	return v.Authenticated && v.Elevated
}
