package blog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blogapp/backend/internal/auth"
	"github.com/blogapp/backend/internal/db"
	apperrors "github.com/blogapp/backend/internal/errors"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	h := NewHandlers(NewService(db.NewMemoryPostStore()))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /blogposts", apperrors.HandleFunc(h.ListPosts))
	mux.HandleFunc("GET /blogposts/{id}", apperrors.HandleFunc(h.GetPost))
	mux.HandleFunc("POST /blogposts", apperrors.HandleFunc(h.CreatePost))
	mux.HandleFunc("PUT /blogposts/{id}", apperrors.HandleFunc(h.UpdatePost))
	mux.HandleFunc("DELETE /blogposts/{id}", apperrors.HandleFunc(h.DeletePost))
	return mux
}

// asUser attaches an authenticated identity the way auth.Middleware does.
func asUser(req *http.Request, email string) *http.Request {
	ctx := context.WithValue(req.Context(), auth.UserContextKey, &auth.UserContext{Email: email})
	return req.WithContext(ctx)
}

func TestCreatePost_ForcesAuthorFromIdentity(t *testing.T) {
	mux := newTestMux(t)

	// The payload claims a different author; the server must ignore it
	body := `{"title":"T","content":"C","authorEmail":"evil@x.com"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/blogposts", strings.NewReader(body)), "a@x.com")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var resp PostResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AuthorEmail != "a@x.com" {
		t.Errorf("expected author a@x.com, got %s", resp.AuthorEmail)
	}
}

func TestCreatePost_RequiresTitle(t *testing.T) {
	mux := newTestMux(t)

	req := asUser(httptest.NewRequest(http.MethodPost, "/blogposts", strings.NewReader(`{"content":"C"}`)), "a@x.com")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetPost_UnknownID(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/blogposts/42", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGetPost_InvalidID(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/blogposts/abc", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUpdatePost_NonAuthorGets403(t *testing.T) {
	mux := newTestMux(t)

	req := asUser(httptest.NewRequest(http.MethodPost, "/blogposts", strings.NewReader(`{"title":"T","content":"C"}`)), "a@x.com")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create failed: %d", w.Code)
	}

	req = asUser(httptest.NewRequest(http.MethodPut, "/blogposts/1", strings.NewReader(`{"title":"X","content":"Y"}`)), "b@x.com")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	var errResp apperrors.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if errResp.Error.Code != apperrors.CodeForbidden {
		t.Errorf("expected code FORBIDDEN, got %s", errResp.Error.Code)
	}

	// Post is unchanged
	req = httptest.NewRequest(http.MethodGet, "/blogposts/1", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var post PostResponse
	if err := json.NewDecoder(w.Body).Decode(&post); err != nil {
		t.Fatalf("failed to decode post: %v", err)
	}
	if post.Title != "T" || post.Content != "C" {
		t.Errorf("post mutated by non-author: %+v", post)
	}
}

func TestUpdatePost_AuthorSucceeds(t *testing.T) {
	mux := newTestMux(t)

	req := asUser(httptest.NewRequest(http.MethodPost, "/blogposts", strings.NewReader(`{"title":"T","content":"C"}`)), "a@x.com")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create failed: %d", w.Code)
	}

	req = asUser(httptest.NewRequest(http.MethodPut, "/blogposts/1", strings.NewReader(`{"title":"New","content":"Body"}`)), "a@x.com")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var post PostResponse
	if err := json.NewDecoder(w.Body).Decode(&post); err != nil {
		t.Fatalf("failed to decode post: %v", err)
	}
	if post.Title != "New" || post.Content != "Body" {
		t.Errorf("unexpected post after update: %+v", post)
	}
	if post.AuthorEmail != "a@x.com" {
		t.Errorf("author changed to %s", post.AuthorEmail)
	}
}

func TestDeletePost_SecondDeleteIs404(t *testing.T) {
	mux := newTestMux(t)

	req := asUser(httptest.NewRequest(http.MethodPost, "/blogposts", strings.NewReader(`{"title":"T","content":"C"}`)), "a@x.com")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create failed: %d", w.Code)
	}

	req = asUser(httptest.NewRequest(http.MethodDelete, "/blogposts/1", nil), "a@x.com")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on first delete, got %d", w.Code)
	}

	req = asUser(httptest.NewRequest(http.MethodDelete, "/blogposts/1", nil), "a@x.com")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestDeletePost_NonAuthorGets403(t *testing.T) {
	mux := newTestMux(t)

	req := asUser(httptest.NewRequest(http.MethodPost, "/blogposts", strings.NewReader(`{"title":"T","content":"C"}`)), "a@x.com")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create failed: %d", w.Code)
	}

	req = asUser(httptest.NewRequest(http.MethodDelete, "/blogposts/1", nil), "b@x.com")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestListPosts_Empty(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/blogposts", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("expected empty array, got %s", got)
	}
}
