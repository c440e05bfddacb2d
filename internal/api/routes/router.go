package routes

import (
	"net/http"

	"github.com/openlistings/directory/internal/api/handlers"
	"github.com/openlistings/directory/internal/api/middleware"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	directoryHandler *handlers.DirectoryHandler

	businessHandler *handlers.BusinessHandler

	categoryHandler *handlers.CategoryHandler
}

// NewRouter creates a new router
func NewRouter(
	directoryHandler *handlers.DirectoryHandler,
	businessHandler *handlers.BusinessHandler,
	categoryHandler *handlers.CategoryHandler,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		directoryHandler: directoryHandler,

		businessHandler: businessHandler,

		categoryHandler: categoryHandler,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Directory search endpoint
	r.mux.HandleFunc("GET /api/directory/{state}/{city}/{category}", r.directoryHandler.Search)

	// Business profile endpoint
	r.mux.HandleFunc("GET /api/businesses/{slug}", r.businessHandler.GetBusiness)

	// Category catalog endpoint
	r.mux.HandleFunc("GET /api/categories", r.categoryHandler.ListCategories)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
