package db

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
	ErrPostNotFound = errors.New("post not found")
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Post struct {
	ID          int64
	Title       string
	Content     string
	AuthorEmail string
	CreatedAt   time.Time
}

// UserStore holds user credentials. Emails are unique and compared exactly
// as stored; users are never updated or deleted.
type UserStore interface {
	// Create inserts a new user, assigning the next sequential ID.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, user *User) error

	// GetByEmail returns the user with the given email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// PostStore holds blog posts keyed by sequential ID. The store serializes
// concurrent mutations of the same post so that check-then-act sequences
// in the service layer cannot corrupt state; of two racing deletes, the
// second observes ErrPostNotFound.
type PostStore interface {
	// ListAll returns every post in insertion order.
	ListAll(ctx context.Context) ([]Post, error)

	// GetByID returns the post with the given ID, or ErrPostNotFound.
	GetByID(ctx context.Context, id int64) (*Post, error)

	// Insert stores a new post with the next sequential ID and the current
	// timestamp, returning the stored record.
	Insert(ctx context.Context, title, content, authorEmail string) (*Post, error)

	// ReplaceContent updates title and content only. ID, author and
	// creation time are immutable. Returns ErrPostNotFound if absent.
	ReplaceContent(ctx context.Context, id int64, title, content string) (*Post, error)

	// Remove deletes the post, or returns ErrPostNotFound if absent.
	Remove(ctx context.Context, id int64) error
}
