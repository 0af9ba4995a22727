package http

import (
	"net/http"
	"time"

	"github.com/atinyakov/bookshelf/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// Per-IP request budget for the account endpoints.
const (
	authRateLimit  = 20
	authRateWindow = time.Minute
)

// NewRouter constructs and returns an HTTP handler that serves
// the bookshelf API.
//
// Routes:
//
//	GET    /                          → Hello
//	POST   /api/users/register        → authHandler.Register (rate limited)
//	POST   /api/users/login           → authHandler.Login (rate limited)
//	GET    /api/books                 → bookHandler.List   (protected)
//	POST   /api/books                 → bookHandler.Create (protected)
//	PUT    /api/books/{id}            → bookHandler.Update (protected)
//	DELETE /api/books/{id}            → bookHandler.Delete (protected)
//	GET    /api/googlebooks/search    → catalogHandler.Search
//
// authGate is applied to the book routes only.
func NewRouter(
	authHandler *AuthHandler,
	bookHandler *BookHandler,
	catalogHandler *CatalogHandler,
	authGate func(http.Handler) http.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	// Log each request and its metadata, panics included
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	// Requests carrying a body must be JSON
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Get("/", Hello)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Use(httprate.LimitByIP(authRateLimit, authRateWindow))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Get("/googlebooks/search", catalogHandler.Search)

		// Protected group: requires a valid bearer token
		r.Route("/books", func(r chi.Router) {
			r.Use(authGate)
			r.Get("/", bookHandler.List)
			r.Post("/", bookHandler.Create)
			r.Put("/{id}", bookHandler.Update)
			r.Delete("/{id}", bookHandler.Delete)
		})
	})

	return r
}
