package api

import (
	"net/http"

	"github.com/blogapp/backend/internal/auth"
	"github.com/blogapp/backend/internal/blog"
	apperrors "github.com/blogapp/backend/internal/errors"
	"github.com/blogapp/backend/internal/health"
	"github.com/blogapp/backend/internal/metrics"
)

type Router struct {
	mux           *http.ServeMux
	authHandlers  *auth.Handlers
	authService   *auth.Service
	blogHandlers  *blog.Handlers
	healthHandler *health.Handler
}

func NewRouter(authHandlers *auth.Handlers, authService *auth.Service, blogHandlers *blog.Handlers, healthHandler *health.Handler) *Router {
	r := &Router{
		mux:           http.NewServeMux(),
		authHandlers:  authHandlers,
		authService:   authService,
		blogHandlers:  blogHandlers,
		healthHandler: healthHandler,
	}
	r.setupRoutes()
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) setupRoutes() {
	// Metrics wrap each route rather than the whole mux so the matched
	// pattern, not the raw path, labels the recording.
	instrument := metrics.Middleware(metrics.Default())
	handle := func(pattern string, h http.Handler) {
		r.mux.Handle(pattern, instrument(h))
	}

	// Operational endpoints
	handle("GET /health", http.HandlerFunc(r.healthHandler.HealthHandler))
	r.mux.HandleFunc("GET /metrics", metrics.Handler)

	// Auth routes (no auth required)
	handle("POST /auth/register", apperrors.HandleFunc(r.authHandlers.Register))
	handle("POST /auth/login", apperrors.HandleFunc(r.authHandlers.Login))

	// Post routes (world-readable)
	handle("GET /blogposts", apperrors.HandleFunc(r.blogHandlers.ListPosts))
	handle("GET /blogposts/{id}", apperrors.HandleFunc(r.blogHandlers.GetPost))

	// Post routes (auth required)
	handle("POST /blogposts", r.withAuth(apperrors.HandleFunc(r.blogHandlers.CreatePost)))
	handle("PUT /blogposts/{id}", r.withAuth(apperrors.HandleFunc(r.blogHandlers.UpdatePost)))
	handle("DELETE /blogposts/{id}", r.withAuth(apperrors.HandleFunc(r.blogHandlers.DeletePost)))
}

func (r *Router) withAuth(next http.HandlerFunc) http.HandlerFunc {
	middleware := auth.Middleware(r.authService)
	return func(w http.ResponseWriter, req *http.Request) {
		middleware(http.HandlerFunc(next)).ServeHTTP(w, req)
	}
}
