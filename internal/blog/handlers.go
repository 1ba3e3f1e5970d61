package blog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/blogapp/backend/internal/auth"
	"github.com/blogapp/backend/internal/db"
	apperrors "github.com/blogapp/backend/internal/errors"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// Request/Response types

// CreatePostRequest carries only the mutable post fields. Any author
// field a client sends is dropped during decoding; attribution comes from
// the verified token.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type PostResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorEmail string    `json:"authorEmail"`
	CreatedAt   time.Time `json:"createdAt"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

func toPostResponse(p *db.Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		AuthorEmail: p.AuthorEmail,
		CreatedAt:   p.CreatedAt,
	}
}

// ListPosts handles GET /blogposts
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) error {
	posts, err := h.service.ListAll(r.Context())
	if err != nil {
		return apperrors.DatabaseError("failed to list posts").WithCause(err)
	}

	responses := make([]PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, toPostResponse(&posts[i]))
	}

	requestID := apperrors.GetRequestID(r.Context())
	apperrors.WriteJSON(w, requestID, http.StatusOK, responses)
	return nil
}

// GetPost handles GET /blogposts/{id}
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) error {
	id, err := parsePostID(r)
	if err != nil {
		return apperrors.ValidationError("invalid post ID")
	}

	post, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrPostNotFound) {
			return apperrors.PostNotFound()
		}
		return apperrors.DatabaseError("failed to get post").WithCause(err)
	}

	requestID := apperrors.GetRequestID(r.Context())
	apperrors.WriteJSON(w, requestID, http.StatusOK, toPostResponse(post))
	return nil
}

// CreatePost handles POST /blogposts
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) error {
	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		return apperrors.Unauthorized("not authenticated")
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if req.Title == "" {
		return apperrors.ValidationError("title is required")
	}

	post, err := h.service.Create(r.Context(), userCtx.Email, req.Title, req.Content)
	if err != nil {
		return apperrors.DatabaseError("failed to create post").WithCause(err)
	}

	requestID := apperrors.GetRequestID(r.Context())
	apperrors.WriteJSON(w, requestID, http.StatusOK, toPostResponse(post))
	return nil
}

// UpdatePost handles PUT /blogposts/{id}
func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) error {
	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		return apperrors.Unauthorized("not authenticated")
	}

	id, err := parsePostID(r)
	if err != nil {
		return apperrors.ValidationError("invalid post ID")
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if req.Title == "" {
		return apperrors.ValidationError("title is required")
	}

	post, err := h.service.Update(r.Context(), userCtx.Email, id, req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrPostNotFound):
			return apperrors.PostNotFound()
		case errors.Is(err, ErrNotAuthor):
			return apperrors.Forbidden("only the original author may modify this post")
		default:
			return apperrors.DatabaseError("failed to update post").WithCause(err)
		}
	}

	requestID := apperrors.GetRequestID(r.Context())
	apperrors.WriteJSON(w, requestID, http.StatusOK, toPostResponse(post))
	return nil
}

// DeletePost handles DELETE /blogposts/{id}
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) error {
	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		return apperrors.Unauthorized("not authenticated")
	}

	id, err := parsePostID(r)
	if err != nil {
		return apperrors.ValidationError("invalid post ID")
	}

	if err := h.service.Delete(r.Context(), userCtx.Email, id); err != nil {
		switch {
		case errors.Is(err, db.ErrPostNotFound):
			return apperrors.PostNotFound()
		case errors.Is(err, ErrNotAuthor):
			return apperrors.Forbidden("only the original author may delete this post")
		default:
			return apperrors.DatabaseError("failed to delete post").WithCause(err)
		}
	}

	requestID := apperrors.GetRequestID(r.Context())
	apperrors.WriteJSON(w, requestID, http.StatusOK, DeleteResponse{Message: "post deleted"})
	return nil
}

func parsePostID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
