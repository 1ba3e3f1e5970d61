package db

import (
	"context"
	"sync"
	"time"
)

// MemoryUserStore is an in-memory UserStore. It backs the server when no
// database is configured and the service tests.
type MemoryUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*User
	nextID  int64
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byEmail: make(map[string]*User),
		nextID:  1,
	}
}

func (s *MemoryUserStore) Create(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return ErrEmailExists
	}

	user.ID = s.nextID
	s.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	stored := *user
	s.byEmail[user.Email] = &stored
	return nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

// MemoryPostStore is an in-memory PostStore. A single mutex serializes all
// mutations, so lookup-then-mutate sequences against the same id resolve
// cleanly: the loser of a delete race gets ErrPostNotFound.
type MemoryPostStore struct {
	mu     sync.Mutex
	posts  []*Post
	nextID int64
}

func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{nextID: 1}
}

func (s *MemoryPostStore) ListAll(ctx context.Context) ([]Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (s *MemoryPostStore) GetByID(ctx context.Context, id int64) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, ErrPostNotFound
	}

	copied := *p
	return &copied, nil
}

func (s *MemoryPostStore) Insert(ctx context.Context, title, content, authorEmail string) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := &Post{
		ID:          s.nextID,
		Title:       title,
		Content:     content,
		AuthorEmail: authorEmail,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextID++
	s.posts = append(s.posts, post)

	copied := *post
	return &copied, nil
}

func (s *MemoryPostStore) ReplaceContent(ctx context.Context, id int64, title, content string) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, ErrPostNotFound
	}

	p.Title = title
	p.Content = content

	copied := *p
	return &copied, nil
}

func (s *MemoryPostStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return ErrPostNotFound
}

// find returns the stored post or nil. Caller must hold the lock.
func (s *MemoryPostStore) find(id int64) *Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}
