// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"blogicum/internal/models"
	"blogicum/internal/policy"
)

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// ProfileInput is the editable part of an account.
type ProfileInput struct {
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// Register creates a regular user account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := check(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", conflict(err))
	}

	slog.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Authenticate checks a username and password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// User returns the account with the given id, or policy.ErrNotFound.
func (s *Service) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, policy.ErrNotFound
	}
	return u, nil
}

// UpdateProfile changes the account of v.
func (s *Service) UpdateProfile(ctx context.Context, v policy.Viewer, in ProfileInput) (*models.User, error) {
	if !v.Authenticated {
		return nil, policy.ErrUnauthenticated
	}

	u, err := s.User(ctx, v.UserID)
	if err != nil {
		return nil, err
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := check(in); err != nil {
		return nil, err
	}

	u.Username = in.Username
	u.Email = in.Email
	u.FirstName = strings.TrimSpace(in.FirstName)
	u.LastName = strings.TrimSpace(in.LastName)

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, fmt.Errorf("update profile: %w", conflict(err))
	}
	return u, nil
}

// StartTwoFactor generates and stores a new TOTP secret for the user.
// It is keyed by user id, not viewer, because a user whose second factor
// is still pending is not yet a viewer.
func (s *Service) StartTwoFactor(ctx context.Context, userID uuid.UUID, issuer string) (*otp.Key, error) {
	u, err := s.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.TOTPEnabled {
		return nil, ErrTwoFactorEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: u.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}

	if err := s.users.SetTOTPSecret(ctx, u.ID, key.Secret()); err != nil {
		return nil, fmt.Errorf("save totp secret: %w", err)
	}
	return key, nil
}

// VerifyTwoFactor checks a TOTP code. The first valid code enables 2FA.
func (s *Service) VerifyTwoFactor(ctx context.Context, userID uuid.UUID, code string) (*models.User, error) {
	u, err := s.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.TOTPSecret == nil || !totp.Validate(strings.TrimSpace(code), *u.TOTPSecret) {
		return nil, ErrInvalidCode
	}

	if !u.TOTPEnabled {
		if err := s.users.EnableTOTP(ctx, u.ID); err != nil {
			return nil, fmt.Errorf("enable totp: %w", err)
		}
		u.TOTPEnabled = true
		slog.Info("2fa enabled", "user_id", u.ID)
	}
	return u, nil
}
