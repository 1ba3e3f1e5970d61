package db

import (
	"context"
	"database/sql"
	"errors"
)

// PostRepository is the Postgres-backed PostStore.
type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) ListAll(ctx context.Context) ([]Post, error) {
	query := `
		SELECT id, title, content, author_email, created_at
		FROM posts
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorEmail, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*Post, error) {
	query := `
		SELECT id, title, content, author_email, created_at
		FROM posts
		WHERE id = $1
	`

	post := &Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Content, &post.AuthorEmail, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

func (r *PostRepository) Insert(ctx context.Context, title, content, authorEmail string) (*Post, error) {
	query := `
		INSERT INTO posts (title, content, author_email)
		VALUES ($1, $2, $3)
		RETURNING id, title, content, author_email, created_at
	`

	post := &Post{}
	err := r.db.QueryRowContext(ctx, query, title, content, authorEmail).Scan(
		&post.ID, &post.Title, &post.Content, &post.AuthorEmail, &post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *PostRepository) ReplaceContent(ctx context.Context, id int64, title, content string) (*Post, error) {
	// Single statement keeps the update atomic relative to concurrent
	// mutations of the same id. author_email and created_at are never
	// touched.
	query := `
		UPDATE posts
		SET title = $2, content = $3
		WHERE id = $1
		RETURNING id, title, content, author_email, created_at
	`

	post := &Post{}
	err := r.db.QueryRowContext(ctx, query, id, title, content).Scan(
		&post.ID, &post.Title, &post.Content, &post.AuthorEmail, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

func (r *PostRepository) Remove(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPostNotFound
	}

	return nil
}
