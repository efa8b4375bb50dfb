package policy

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"blogicum/internal/models"
)

// scenarioPosts builds A (published, past), B (published, future) and
// C (unpublished) in a published category, created in that order.
func scenarioPosts(author uuid.UUID, cat *models.Category) []models.Post {
	mk := func(id int64, title string, published bool, pubDate time.Time, created time.Time) models.Post {
		catID := cat.ID
		return models.Post{
			ID: id, Title: title, AuthorID: author, IsPublished: published,
			PubDate: pubDate, CreatedAt: created, CategoryID: &catID, Category: cat,
		}
	}
	return []models.Post{
		mk(1, "A", true, now.Add(-48*time.Hour), now.Add(-3*time.Hour)),
		mk(2, "B", true, now.Add(48*time.Hour), now.Add(-2*time.Hour)),
		mk(3, "C", false, now.Add(-48*time.Hour), now.Add(-1*time.Hour)),
	}
}

func apply(posts []models.Post, f Filter) []string {
	var matched []models.Post
	for i := range posts {
		if f.Match(&posts[i]) {
			matched = append(matched, posts[i])
		}
	}
	SortPosts(matched)
	titles := []string{}
	for _, p := range matched {
		titles = append(titles, p.Title)
	}
	return titles
}

func TestListingScenarioAnonymous(t *testing.T) {
	posts := scenarioPosts(uuid.New(), publishedCategory())

	got := apply(posts, BuildListingFilter(now, Anonymous(), All()))
	if want := []string{"A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("All listing = %v, want %v", got, want)
	}
}

func TestProfileScenarioOwner(t *testing.T) {
	author := uuid.New()
	posts := scenarioPosts(author, publishedCategory())

	got := apply(posts, BuildListingFilter(now, User(author, false), ByAuthor(author)))
	if want := []string{"C", "B", "A"}; !reflect.DeepEqual(got, want) {
		t.Errorf("own profile = %v, want %v", got, want)
	}
}

func TestProfileScenarioOtherViewers(t *testing.T) {
	author := uuid.New()
	posts := scenarioPosts(author, publishedCategory())

	viewers := map[string]Viewer{
		"anonymous": Anonymous(),
		"other":     User(uuid.New(), false),
		"staff":     User(uuid.New(), true),
	}
	for name, v := range viewers {
		t.Run(name, func(t *testing.T) {
			got := apply(posts, BuildListingFilter(now, v, ByAuthor(author)))
			if want := []string{"A"}; !reflect.DeepEqual(got, want) {
				t.Errorf("profile = %v, want %v", got, want)
			}
		})
	}
}

func TestListingAppliesStrictRuleEvenForAuthorAndStaff(t *testing.T) {
	author := uuid.New()
	cat := publishedCategory()
	posts := scenarioPosts(author, cat)

	for _, v := range []Viewer{User(author, false), User(uuid.New(), true)} {
		if got := apply(posts, BuildListingFilter(now, v, All())); !reflect.DeepEqual(got, []string{"A"}) {
			t.Errorf("All listing for %+v = %v, want [A]", v, got)
		}
		if got := apply(posts, BuildListingFilter(now, v, ByCategory(cat.ID))); !reflect.DeepEqual(got, []string{"A"}) {
			t.Errorf("category listing for %+v = %v, want [A]", v, got)
		}
	}
}

func TestCategoryScope(t *testing.T) {
	author := uuid.New()
	travel := publishedCategory()
	posts := scenarioPosts(author, travel)
	posts = append(posts, models.Post{
		ID: 4, Title: "D", AuthorID: author, IsPublished: true,
		PubDate: now.Add(-time.Hour), CreatedAt: now,
	})

	if got := apply(posts, BuildListingFilter(now, Anonymous(), ByCategory(travel.ID))); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("category listing = %v, want [A]", got)
	}
	if got := apply(posts, BuildListingFilter(now, Anonymous(), All())); !reflect.DeepEqual(got, []string{"D", "A"}) {
		t.Errorf("all listing = %v, want [D A]", got)
	}
	if got := apply(posts, BuildListingFilter(now, Anonymous(), ByCategory(999))); len(got) != 0 {
		t.Errorf("unknown category listing = %v, want empty", got)
	}
}

func TestHiddenCategoryScope(t *testing.T) {
	posts := scenarioPosts(uuid.New(), hiddenCategory())

	if got := apply(posts, BuildListingFilter(now, Anonymous(), All())); len(got) != 0 {
		t.Errorf("all listing with hidden category = %v, want empty", got)
	}
}

func TestInvalidScopesAreEmpty(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
	}{
		{"zero category", ByCategory(0)},
		{"negative category", ByCategory(-4)},
		{"nil author", ByAuthor(uuid.Nil)},
		{"unknown kind", Scope{Kind: ScopeKind(42)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := BuildListingFilter(now, User(uuid.New(), true), tt.scope)
			if !f.Empty {
				t.Fatal("expected empty filter")
			}
			if f.Match(&models.Post{IsPublished: true, PubDate: now.Add(-time.Hour)}) {
				t.Error("empty filter matched a post")
			}
			where, args := f.SQL(1)
			if where != "FALSE" || len(args) != 0 {
				t.Errorf("SQL() = %q %v, want FALSE with no args", where, args)
			}
		})
	}
}

func TestOrderingTieBreaksByID(t *testing.T) {
	posts := []models.Post{
		{ID: 1, Title: "first", CreatedAt: now},
		{ID: 3, Title: "third", CreatedAt: now},
		{ID: 2, Title: "second", CreatedAt: now},
		{ID: 4, Title: "older", CreatedAt: now.Add(-time.Minute)},
	}
	SortPosts(posts)

	var got []int64
	for _, p := range posts {
		got = append(got, p.ID)
	}
	if want := []int64{3, 2, 1, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestFilterSQL(t *testing.T) {
	author := uuid.New()

	t.Run("public all", func(t *testing.T) {
		where, args := BuildListingFilter(now, Anonymous(), All()).SQL(1)
		want := "p.is_published = TRUE AND p.pub_date <= $1 AND (p.category_id IS NULL OR c.is_published = TRUE)"
		if where != want {
			t.Errorf("where:\n got %q\nwant %q", where, want)
		}
		if len(args) != 1 || args[0] != now {
			t.Errorf("args = %v, want [now]", args)
		}
	})

	t.Run("category with offset placeholders", func(t *testing.T) {
		where, args := BuildListingFilter(now, Anonymous(), ByCategory(5)).SQL(3)
		if !strings.HasPrefix(where, "p.category_id = $3 AND ") {
			t.Errorf("where = %q, want category condition on $3", where)
		}
		if !strings.Contains(where, "p.pub_date <= $4") {
			t.Errorf("where = %q, want pub_date on $4", where)
		}
		if len(args) != 2 || args[0] != int64(5) {
			t.Errorf("args = %v", args)
		}
	})

	t.Run("own profile skips the public rule", func(t *testing.T) {
		where, args := BuildListingFilter(now, User(author, false), ByAuthor(author)).SQL(1)
		if where != "p.author_id = $1" {
			t.Errorf("where = %q, want author condition only", where)
		}
		if len(args) != 1 || args[0] != author {
			t.Errorf("args = %v, want [author]", args)
		}
	})

	t.Run("no conditions", func(t *testing.T) {
		where, args := Filter{}.SQL(1)
		if where != "TRUE" || args != nil {
			t.Errorf("SQL() = %q %v, want TRUE", where, args)
		}
	})
}
