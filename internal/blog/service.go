package blog

import (
	"context"
	"errors"

	"github.com/blogapp/backend/internal/db"
)

// ErrNotAuthor is returned when an authenticated identity attempts to
// mutate a post it does not own.
var ErrNotAuthor = errors.New("requester is not the post author")

// Service wraps a PostStore with ownership enforcement. Reads are
// world-readable; mutations are restricted to the recorded author.
type Service struct {
	posts db.PostStore
}

func NewService(posts db.PostStore) *Service {
	return &Service{posts: posts}
}

func (s *Service) ListAll(ctx context.Context) ([]db.Post, error) {
	return s.posts.ListAll(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*db.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Create stores a new post attributed to the requester. The author is
// always the authenticated identity; callers cannot attribute a post to
// anyone else.
func (s *Service) Create(ctx context.Context, requesterEmail, title, content string) (*db.Post, error) {
	return s.posts.Insert(ctx, title, content, requesterEmail)
}

// Update replaces the title and content of an existing post. Returns
// db.ErrPostNotFound for an unknown id and ErrNotAuthor when the
// requester is not the recorded author; the post is left unchanged in
// both cases.
func (s *Service) Update(ctx context.Context, requesterEmail string, id int64, title, content string) (*db.Post, error) {
	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Strict byte equality on the email claim: no case folding, no
	// trimming.
	if existing.AuthorEmail != requesterEmail {
		return nil, ErrNotAuthor
	}

	return s.posts.ReplaceContent(ctx, id, title, content)
}

// Delete removes an existing post after the same lookup-then-ownership
// sequence as Update. Of two racing deletes of the same id, the second
// observes db.ErrPostNotFound.
func (s *Service) Delete(ctx context.Context, requesterEmail string, id int64) error {
	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.AuthorEmail != requesterEmail {
		return ErrNotAuthor
	}

	return s.posts.Remove(ctx, id)
}
