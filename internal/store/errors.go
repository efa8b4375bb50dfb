// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides PostgreSQL access for the blog entities. Each store
// struct wraps a *sql.DB and exposes typed, context-aware query methods.
// Finders return (nil, nil) when no row matches.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when an insert or update violates a unique
// constraint (usernames, category slugs).
var ErrDuplicate = errors.New("store: duplicate value")

// ErrInvalidRole is returned when a user is created with a role outside
// user, staff and admin.
var ErrInvalidRole = errors.New("store: unknown role")

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// mapErr converts driver errors into store sentinels where one applies.
func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
