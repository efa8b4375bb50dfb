package blog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"blogicum/internal/models"
	"blogicum/internal/policy"
	"blogicum/internal/store/memstore"
)

var ctx = context.Background()

// now is the fixed clock of every service test.
var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db     *memstore.DB
	svc    *Service
	images *fakeImages

	author *models.User
	reader *models.User
	staff  *models.User

	open   *models.Category
	hidden *models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := memstore.New()
	f := &fixture{db: db, images: &fakeImages{objects: map[string][]byte{}}}
	f.svc = New(Deps{
		Posts:      db.Posts(),
		Categories: db.Categories(),
		Locations:  db.Locations(),
		Comments:   db.Comments(),
		Users:      db.Users(),
		Images:     f.images,
		PageSize:   10,
		Now:        func() time.Time { return now },
	})

	mkUser := func(name string, role models.Role) *models.User {
		u, err := db.Users().Create(ctx, &models.User{Username: name, PasswordHash: "x", Role: role})
		require.NoError(t, err)
		return u
	}
	f.author = mkUser("author", models.RoleUser)
	f.reader = mkUser("reader", models.RoleUser)
	f.staff = mkUser("staff", models.RoleStaff)

	var err error
	f.open, err = db.Categories().Create(ctx, &models.Category{Title: "Open", Slug: "open", IsPublished: true})
	require.NoError(t, err)
	f.hidden, err = db.Categories().Create(ctx, &models.Category{Title: "Hidden", Slug: "hidden"})
	require.NoError(t, err)
	return f
}

func (f *fixture) viewer(u *models.User) policy.Viewer {
	return policy.User(u.ID, u.Role.IsElevated())
}

// post stores a post directly, bypassing the service, so tests control
// every field including the creation time.
func (f *fixture) post(t *testing.T, title string, published bool, pub time.Time, cat *models.Category, created time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		Title: title, Text: "body of " + title, PubDate: pub, AuthorID: f.author.ID,
		IsPublished: published, CreatedAt: created,
	}
	if cat != nil {
		p.CategoryID = &cat.ID
	}
	out, err := f.db.Posts().Create(ctx, p)
	require.NoError(t, err)
	return out
}

func titles(p policy.Page[models.Post]) []string {
	out := []string{}
	for _, it := range p.Items {
		out = append(out, it.Title)
	}
	return out
}

// fakeImages is an in-memory ImageStore.
type fakeImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

func (f *fakeImages) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if f.fail != nil {
		return f.fail
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = buf.Bytes()
	return nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeImages) URL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeImages) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }
