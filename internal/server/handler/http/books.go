package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/bookshelf/internal/middleware"
	"github.com/atinyakov/bookshelf/internal/models"
	"github.com/atinyakov/bookshelf/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// BookService defines the shelf operations required by the BookHandler.
// Every method takes the authenticated caller's id.
type BookService interface {
	List(ctx context.Context, userID string) ([]models.Book, error)
	Create(ctx context.Context, userID string, in models.Book) (*models.Book, error)
	Update(ctx context.Context, userID, id string, patch models.BookPatch) (*models.Book, error)
	Delete(ctx context.Context, userID, id string) (*service.DeleteResult, error)
}

// BookHandler handles the /api/books endpoints. It must sit behind BearerAuth.
type BookHandler struct {
	BookService BookService
	Logger      *zap.Logger
}

// CreateBookRequest is the body of POST /api/books. Any owner sent by the
// client is not part of it and therefore ignored.
type CreateBookRequest struct {
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	GoogleBookID string        `json:"googleBookId"`
	PosterURL    string        `json:"posterUrl"`
	TotalPages   int           `json:"totalPages"`
	CurrentPage  int           `json:"currentPage"`
	Notes        string        `json:"notes"`
	Status       models.Status `json:"status"`
}

// List handles GET /api/books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	books, err := h.BookService.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, books)
}

// Create handles POST /api/books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req CreateBookRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "Failed to decode request")
		return
	}

	book, err := h.BookService.Create(r.Context(), userID, models.Book{
		Title:        req.Title,
		Author:       req.Author,
		GoogleBookID: req.GoogleBookID,
		PosterURL:    req.PosterURL,
		TotalPages:   req.TotalPages,
		CurrentPage:  req.CurrentPage,
		Notes:        req.Notes,
		Status:       req.Status,
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, book)
}

// Update handles PUT /api/books/{id} with a partial body.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var patch models.BookPatch
	if err := render.DecodeJSON(r.Body, &patch); err != nil {
		badRequest(w, r, "Failed to decode request")
		return
	}

	book, err := h.BookService.Update(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, book)
}

// Delete handles DELETE /api/books/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	res, err := h.BookService.Delete(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	render.JSON(w, r, res)
}
