package db

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryUserStore_CreateAssignsSequentialIDs(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	first := &User{Email: "a@x.com", PasswordHash: "hash1"}
	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("failed to create first user: %v", err)
	}
	if first.ID != 1 {
		t.Errorf("expected first user ID 1, got %d", first.ID)
	}

	second := &User{Email: "b@x.com", PasswordHash: "hash2"}
	if err := store.Create(ctx, second); err != nil {
		t.Fatalf("failed to create second user: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("expected second user ID 2, got %d", second.ID)
	}
}

func TestMemoryUserStore_DuplicateEmail(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	if err := store.Create(ctx, &User{Email: "a@x.com", PasswordHash: "hash"}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	err := store.Create(ctx, &User{Email: "a@x.com", PasswordHash: "other"})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestMemoryUserStore_EmailComparisonIsCaseSensitive(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	if err := store.Create(ctx, &User{Email: "a@x.com", PasswordHash: "hash"}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	// A differently-cased email is a different user
	if err := store.Create(ctx, &User{Email: "A@x.com", PasswordHash: "hash"}); err != nil {
		t.Errorf("expected differently-cased email to register, got %v", err)
	}

	if _, err := store.GetByEmail(ctx, "a@X.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown casing, got %v", err)
	}
}

func TestMemoryPostStore_InsertAssignsSequentialIDs(t *testing.T) {
	store := NewMemoryPostStore()
	ctx := context.Background()

	first, err := store.Insert(ctx, "First", "content", "a@x.com")
	if err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	if first.ID != 1 {
		t.Errorf("expected first post ID 1, got %d", first.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	second, err := store.Insert(ctx, "Second", "content", "a@x.com")
	if err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("expected second post ID 2, got %d", second.ID)
	}
}

func TestMemoryPostStore_ListAllPreservesInsertionOrder(t *testing.T) {
	store := NewMemoryPostStore()
	ctx := context.Background()

	titles := []string{"one", "two", "three"}
	for _, title := range titles {
		if _, err := store.Insert(ctx, title, "content", "a@x.com"); err != nil {
			t.Fatalf("failed to insert %q: %v", title, err)
		}
	}

	posts, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(posts) != len(titles) {
		t.Fatalf("expected %d posts, got %d", len(titles), len(posts))
	}
	for i, title := range titles {
		if posts[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, posts[i].Title)
		}
	}
}

func TestMemoryPostStore_ReplaceContentKeepsIdentityFields(t *testing.T) {
	store := NewMemoryPostStore()
	ctx := context.Background()

	created, err := store.Insert(ctx, "Title", "Content", "a@x.com")
	if err != nil {
		t.Fatalf("failed to insert: %v", err)
	}

	updated, err := store.ReplaceContent(ctx, created.ID, "New Title", "New Content")
	if err != nil {
		t.Fatalf("failed to replace content: %v", err)
	}

	if updated.Title != "New Title" || updated.Content != "New Content" {
		t.Errorf("content not replaced: %+v", updated)
	}
	if updated.ID != created.ID {
		t.Errorf("ID changed from %d to %d", created.ID, updated.ID)
	}
	if updated.AuthorEmail != created.AuthorEmail {
		t.Errorf("author changed from %q to %q", created.AuthorEmail, updated.AuthorEmail)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", created.CreatedAt, updated.CreatedAt)
	}
}

func TestMemoryPostStore_ReplaceContentMissingPost(t *testing.T) {
	store := NewMemoryPostStore()

	_, err := store.ReplaceContent(context.Background(), 42, "t", "c")
	if !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestMemoryPostStore_SecondRemoveObservesNotFound(t *testing.T) {
	store := NewMemoryPostStore()
	ctx := context.Background()

	post, err := store.Insert(ctx, "Title", "Content", "a@x.com")
	if err != nil {
		t.Fatalf("failed to insert: %v", err)
	}

	if err := store.Remove(ctx, post.ID); err != nil {
		t.Fatalf("first remove failed: %v", err)
	}
	if err := store.Remove(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound on second remove, got %v", err)
	}

	if _, err := store.GetByID(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound after remove, got %v", err)
	}
}

func TestMemoryPostStore_ConcurrentRemovesExactlyOneWins(t *testing.T) {
	store := NewMemoryPostStore()
	ctx := context.Background()

	post, err := store.Insert(ctx, "Title", "Content", "a@x.com")
	if err != nil {
		t.Fatalf("failed to insert: %v", err)
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Remove(ctx, post.ID)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	notFound := 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrPostNotFound):
			notFound++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly one successful remove, got %d", succeeded)
	}
	if notFound != callers-1 {
		t.Errorf("expected %d NotFound results, got %d", callers-1, notFound)
	}
}

func TestMemoryPostStore_ReturnedPostsAreCopies(t *testing.T) {
	store := NewMemoryPostStore()
	ctx := context.Background()

	created, err := store.Insert(ctx, "Title", "Content", "a@x.com")
	if err != nil {
		t.Fatalf("failed to insert: %v", err)
	}

	created.Title = "mutated"

	stored, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if stored.Title != "Title" {
		t.Errorf("store leaked internal state: title = %q", stored.Title)
	}
}
