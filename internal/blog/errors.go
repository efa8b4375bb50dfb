// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrConflict is returned when a username or category slug is taken.
	ErrConflict = errors.New("blog: already exists")

	// ErrSlugLocked is returned when changing the slug of a category that
	// posts already reference.
	ErrSlugLocked = errors.New("blog: category slug is in use")

	// ErrInvalidCredentials is returned by Authenticate for an unknown
	// username or a wrong password.
	ErrInvalidCredentials = errors.New("blog: invalid username or password")

	// ErrInvalidCode is returned when a TOTP code does not verify.
	ErrInvalidCode = errors.New("blog: invalid verification code")

	// ErrTwoFactorEnabled is returned when enrolling an account whose
	// second factor is already active.
	ErrTwoFactorEnabled = errors.New("blog: two-factor authentication is already enabled")

	// ErrStorageDisabled is returned for image operations when no object
	// storage is configured.
	ErrStorageDisabled = errors.New("blog: image storage is not configured")
)

// ValidationError maps input field names to messages.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// invalid builds a single-field ValidationError.
func invalid(field, msg string) ValidationError {
	return ValidationError{field: msg}
}
