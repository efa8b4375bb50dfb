package policy

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"blogicum/internal/models"
)

func TestCanModify(t *testing.T) {
	author := uuid.New()
	other := uuid.New()
	post := &models.Post{AuthorID: author}
	comment := &models.Comment{AuthorID: author}

	tests := []struct {
		name   string
		item   Owned
		viewer Viewer
		want   bool
	}{
		{"author edits post", post, User(author, false), true},
		{"author edits comment", comment, User(author, false), true},
		{"other user", post, User(other, false), false},
		{"elevated user", post, User(other, true), true},
		{"anonymous", post, Anonymous(), false},
		{"anonymous carrying author id", post, Viewer{UserID: author}, false},
		{"anonymous carrying elevated flag", post, Viewer{Elevated: true}, false},
		{"nil item", nil, User(author, true), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModify(tt.item, tt.viewer); got != tt.want {
				t.Errorf("CanModify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanModifyOnlyOwnerOrElevated(t *testing.T) {
	for i := 0; i < 50; i++ {
		author := uuid.New()
		viewerID := uuid.New()
		if i%5 == 0 {
			viewerID = author
		}
		elevated := i%3 == 0
		v := User(viewerID, elevated)

		want := viewerID == author || elevated
		if got := CanModify(&models.Post{AuthorID: author}, v); got != want {
			t.Fatalf("CanModify(owner=%v, elevated=%v) = %v, want %v", viewerID == author, elevated, got, want)
		}
	}
}

func TestAuthorize(t *testing.T) {
	author := uuid.New()
	post := &models.Post{AuthorID: author}

	if err := Authorize(post, User(author, false)); err != nil {
		t.Errorf("author: got %v, want nil", err)
	}
	if err := Authorize(post, Anonymous()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous: got %v, want ErrUnauthenticated", err)
	}
	if err := Authorize(post, User(uuid.New(), false)); !errors.Is(err, ErrForbidden) {
		t.Errorf("other: got %v, want ErrForbidden", err)
	}
}

func TestAuthorizeTaxonomy(t *testing.T) {
	if err := AuthorizeTaxonomy(User(uuid.New(), true)); err != nil {
		t.Errorf("staff: got %v, want nil", err)
	}
	if err := AuthorizeTaxonomy(User(uuid.New(), false)); !errors.Is(err, ErrForbidden) {
		t.Errorf("user: got %v, want ErrForbidden", err)
	}
	if err := AuthorizeTaxonomy(Anonymous()); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous: got %v, want ErrUnauthenticated", err)
	}
}
