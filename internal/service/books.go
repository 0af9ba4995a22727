package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/bookshelf/internal/common"
	"github.com/atinyakov/bookshelf/internal/models"
	"github.com/google/uuid"
)

// BookRepository defines the persistence operations needed by the BookService.
type BookRepository interface {
	// ListByOwner returns every book of the user, oldest first.
	ListByOwner(ctx context.Context, userID string) ([]models.Book, error)
	// Create stores a new book. A duplicate catalog id for the same owner
	// yields common.ErrAlreadyExists.
	Create(ctx context.Context, b *models.Book) error
	// GetByID loads a book regardless of owner.
	GetByID(ctx context.Context, id string) (*models.Book, error)
	// Update persists every mutable field of b in a single write.
	Update(ctx context.Context, b *models.Book) error
	// Delete removes the book owned by userID.
	Delete(ctx context.Context, id, userID string) error
}

// DeleteResult confirms a removal.
type DeleteResult struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// BookService implements shelf operations. Every method acts on behalf of
// an already authenticated caller and never trusts an owner from input.
type BookService struct {
	repo BookRepository
}

// NewBookService constructs a BookService with the provided BookRepository.
func NewBookService(repo BookRepository) *BookService {
	return &BookService{repo: repo}
}

// List returns the caller's books. An empty shelf is an empty, non-nil slice.
func (s *BookService) List(ctx context.Context, userID string) ([]models.Book, error) {
	books, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, nil
}

// Create shelves a new book for userID. Id, owner and timestamps from in
// are ignored. A book created with progress gets its status from that
// progress, overriding any status in the request.
func (s *BookService) Create(ctx context.Context, userID string, in models.Book) (*models.Book, error) {
	b := &models.Book{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		Author:       strings.TrimSpace(in.Author),
		GoogleBookID: strings.TrimSpace(in.GoogleBookID),
		PosterURL:    strings.TrimSpace(in.PosterURL),
		TotalPages:   in.TotalPages,
		CurrentPage:  in.CurrentPage,
		Notes:        in.Notes,
		Status:       in.Status,
		UserID:       userID,
	}
	if b.PosterURL == "" {
		b.PosterURL = models.DefaultPosterURL
	}
	switch {
	case b.CurrentPage > 0:
		b.Status = models.DeriveStatus(b.CurrentPage, b.TotalPages)
	case b.Status == "":
		b.Status = models.StatusWantToRead
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: book already on your shelf", common.ErrConflict)
		}
		return nil, err
	}
	return b, nil
}

// Update applies patch to the book id owned by userID and returns the
// stored result. A missing book yields common.ErrNotFound and someone
// else's book yields common.ErrForbidden; neither writes anything.
func (s *BookService) Update(ctx context.Context, userID, id string, patch models.BookPatch) (*models.Book, error) {
	b, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(b)
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes the book id owned by userID, with the same checks as Update.
func (s *BookService) Delete(ctx context.Context, userID, id string) (*DeleteResult, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return nil, err
	}
	return &DeleteResult{Message: "Book removed", ID: id}, nil
}

func (s *BookService) owned(ctx context.Context, userID, id string) (*models.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, common.ErrForbidden
	}
	return b, nil
}
