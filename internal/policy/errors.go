// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import "errors"

var (
	// ErrNotFound is returned for missing items and for items the viewer
	// may not see. Callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a viewer who can see an item tries to
	// change it without owning it.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated is returned when an anonymous viewer attempts a
	// mutating operation.
	ErrUnauthenticated = errors.New("authentication required")
)
