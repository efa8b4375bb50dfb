// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"blogicum/internal/blog"
	"blogicum/internal/cache"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/policy"
	"blogicum/internal/render"
	"blogicum/internal/session"
)

// Auth groups the account endpoints: registration, login, two-factor
// enrollment and profile editing.
type Auth struct {
	blog     *blog.Service
	sessions *session.Store
	cache    *cache.ListingCache
	issuer   string
}

// NewAuth creates a new Auth handler group. issuer names the site in
// authenticator apps.
func NewAuth(svc *blog.Service, sessions *session.Store, listings *cache.ListingCache, issuer string) *Auth {
	return &Auth{
		blog:     svc,
		sessions: sessions,
		cache:    listings,
		issuer:   issuer,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User                   *models.User `json:"user"`
	TwoFactorRequired      bool         `json:"two_factor_required"`
	TwoFactorSetupRequired bool         `json:"two_factor_setup_required"`
}

type twoFactorSetup struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	QRCode string `json:"qr_code"` // base64 PNG
}

type twoFactorCode struct {
	Code string `json:"code"`
}

// Register creates a regular account. It does not log the new user in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var in blog.RegisterInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	u, err := a.blog.Register(r.Context(), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, u)
}

// Login checks credentials and starts a new session. Accounts with 2FA
// enabled get a pending session that acts as anonymous until a code is
// verified.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	u, err := a.blog.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	// A fresh session id on every login.
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("destroy previous session failed", "error", err)
	}
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:     u.ID,
		Username:   u.Username,
		Role:       u.Role,
		Pending2FA: u.TOTPEnabled,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	slog.Info("user logged in", "user_id", u.ID, "pending_2fa", u.TOTPEnabled)
	render.JSON(w, http.StatusOK, loginResponse{
		User:                   u,
		TwoFactorRequired:      u.TOTPEnabled,
		TwoFactorSetupRequired: u.Needs2FASetup(),
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}

// TwoFASetup generates a TOTP secret for the session user and returns it
// with a QR code for authenticator apps.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		render.Error(w, r, policy.ErrUnauthenticated)
		return
	}

	key, err := a.blog.StartTwoFactor(r.Context(), sess.UserID, a.issuer)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		render.Error(w, r, fmt.Errorf("qr code: %w", err))
		return
	}

	render.JSON(w, http.StatusOK, twoFactorSetup{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: base64.StdEncoding.EncodeToString(png),
	})
}

// TwoFAVerify checks a TOTP code. Success enables 2FA on first use,
// completes a pending login and turns on elevated roles. The session id
// is rotated.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		render.Error(w, r, policy.ErrUnauthenticated)
		return
	}

	var in twoFactorCode
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	u, err := a.blog.VerifyTwoFactor(r.Context(), sess.UserID, in.Code)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("destroy pre-2fa session failed", "error", err)
	}
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:       u.ID,
		Username:     u.Username,
		Role:         u.Role,
		SecondFactor: true,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	slog.Info("2fa verified", "user_id", u.ID)
	render.JSON(w, http.StatusOK, loginResponse{User: u})
}

// EditProfile updates the viewer's own account.
func (a *Auth) EditProfile(w http.ResponseWriter, r *http.Request) {
	var in blog.ProfileInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}

	u, err := a.blog.UpdateProfile(r.Context(), viewer(r), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if sess := middleware.SessionFromCtx(r.Context()); sess != nil && sess.Username != u.Username {
		sess.Username = u.Username
		if err := a.sessions.Update(r.Context(), r, sess); err != nil {
			slog.Warn("session username refresh failed", "user_id", u.ID, "error", err)
		}
	}

	// Listings show author usernames.
	a.cache.InvalidateAll(r.Context())
	render.JSON(w, http.StatusOK, u)
}
