// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory store and an in-process Valkey.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/pquerna/otp/totp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"blogicum/internal/blog"
	"blogicum/internal/cache"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/session"
	"blogicum/internal/store/memstore"
)

const testPassword = "correct horse battery"

// fakeImages is an in-memory blog.ImageStore.
type fakeImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeImages) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeImages) URL(key string) string {
	return "https://cdn.test/" + key
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	DB       *memstore.DB
	Valkey   *miniredis.Miniredis
	Sessions *session.Store
	Listings *cache.ListingCache
	Images   *fakeImages
	Blog     *blog.Service

	Public *Public
	Posts  *Posts
	Auth   *Auth
	Staff  *Staff

	mux http.Handler
}

// newTestEnv creates a complete test environment. images=false leaves
// object storage unconfigured.
func newTestEnv(t *testing.T, images bool) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	db := memstore.New()
	env := &testEnv{
		DB:       db,
		Valkey:   mr,
		Sessions: session.NewStore(client, false),
		Listings: cache.NewListingCache(client, time.Minute),
		Images:   &fakeImages{objects: map[string][]byte{}, types: map[string]string{}},
	}

	deps := blog.Deps{
		Posts:      db.Posts(),
		Categories: db.Categories(),
		Locations:  db.Locations(),
		Comments:   db.Comments(),
		Users:      db.Users(),
		PageSize:   2,
	}
	if images {
		deps.Images = env.Images
	}
	env.Blog = blog.New(deps)

	env.Public = NewPublic(env.Blog, env.Listings)
	env.Posts = NewPosts(env.Blog, env.Listings)
	env.Auth = NewAuth(env.Blog, env.Sessions, env.Listings, "Blogicum")
	env.Staff = NewStaff(env.Blog, env.Listings)

	r := chi.NewRouter()
	r.Use(middleware.LoadSession(env.Sessions))
	r.Get("/", env.Public.Index)
	r.Get("/categories", env.Public.Categories)
	r.Get("/category/{slug}", env.Public.Category)
	r.Get("/profile/{username}", env.Public.Profile)
	r.Put("/profile/edit_profile", env.Auth.EditProfile)
	r.Post("/posts/create", env.Posts.Create)
	r.Get("/posts/{id}", env.Posts.Detail)
	r.Put("/posts/{id}/edit", env.Posts.Update)
	r.Delete("/posts/{id}/delete", env.Posts.Delete)
	r.Post("/posts/{id}/image", env.Posts.UploadImage)
	r.Get("/posts/{id}/comments", env.Posts.ListComments)
	r.Post("/posts/{id}/comment", env.Posts.AddComment)
	r.Put("/posts/{id}/comments/{comment_id}/edit", env.Posts.UpdateComment)
	r.Delete("/posts/{id}/comments/{comment_id}/delete", env.Posts.DeleteComment)
	r.Post("/auth/registration", env.Auth.Register)
	r.Post("/auth/login", env.Auth.Login)
	r.Post("/auth/logout", env.Auth.Logout)
	r.Post("/auth/2fa/setup", env.Auth.TwoFASetup)
	r.Post("/auth/2fa/verify", env.Auth.TwoFAVerify)
	r.Get("/staff/categories", env.Staff.CategoriesList)
	r.Post("/staff/categories", env.Staff.CategoryCreate)
	r.Put("/staff/categories/{id}", env.Staff.CategoryUpdate)
	r.Delete("/staff/categories/{id}", env.Staff.CategoryDelete)
	r.Get("/staff/locations", env.Staff.LocationsList)
	r.Post("/staff/locations", env.Staff.LocationCreate)
	r.Delete("/staff/locations/{id}", env.Staff.LocationDelete)
	env.mux = r

	return env
}

// do sends a request through the test router. body is JSON-encoded unless
// it is already an io.Reader.
func (env *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a JSON response body.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

// sessionCookie returns the last live session cookie set on a response.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge >= 0 && c.Value != "" {
			found = c
		}
	}
	if found == nil {
		t.Fatalf("no session cookie in response (status %d)", rec.Code)
	}
	return found
}

// createUser stores an account with testPassword.
func (env *testEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := env.DB.Users().Create(context.Background(), &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// login authenticates through the API and returns the session cookie.
func (env *testEnv) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/auth/login", credentials{Username: username, Password: testPassword}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", username, rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

// loginStaff creates a staff account, enrolls TOTP and returns an
// elevated session cookie.
func (env *testEnv) loginStaff(t *testing.T, username string) *http.Cookie {
	t.Helper()
	env.createUser(t, username, models.RoleStaff)
	cookie := env.login(t, username)

	rec := env.do(t, http.MethodPost, "/auth/2fa/setup", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("2fa setup: status %d: %s", rec.Code, rec.Body.String())
	}
	setup := decode[twoFactorSetup](t, rec)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	rec = env.do(t, http.MethodPost, "/auth/2fa/verify", twoFactorCode{Code: code}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("2fa verify: status %d: %s", rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

// category stores a category directly.
func (env *testEnv) category(t *testing.T, slug string, published bool) *models.Category {
	t.Helper()
	c, err := env.DB.Categories().Create(context.Background(), &models.Category{Title: slug, Slug: slug, IsPublished: published})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

// post stores a post directly.
func (env *testEnv) post(t *testing.T, author *models.User, title string, published bool, pub time.Time, cat *models.Category) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Text: "text of " + title, PubDate: pub, AuthorID: author.ID, IsPublished: published}
	if cat != nil {
		p.CategoryID = &cat.ID
	}
	created, err := env.DB.Posts().Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return created
}

func boolPtr(b bool) *bool { return &b }
