package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/bookshelf/internal/common"
	"github.com/atinyakov/bookshelf/internal/models"
)

const bookColumns = `id, title, author, google_book_id, poster_url, total_pages, current_page, notes, status, user_id, created_at, updated_at`

// PostgresBookRepository implements book persistence against a PostgreSQL database.
type PostgresBookRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresBookRepository creates a new PostgresBookRepository using the provided *sql.DB.
func NewPostgresBookRepository(db *sql.DB) *PostgresBookRepository {
	return &PostgresBookRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.GoogleBookID, &b.PosterURL,
		&b.TotalPages, &b.CurrentPage, &b.Notes, &b.Status, &b.UserID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByOwner returns every book of userID ordered by creation time.
// It never returns a nil slice.
func (r *PostgresBookRepository) ListByOwner(ctx context.Context, userID string) ([]models.Book, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+bookColumns+` FROM books WHERE user_id = $1 ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Create inserts b and fills in its timestamps. A second book with the
// same catalog id for the same owner yields common.ErrAlreadyExists.
func (r *PostgresBookRepository) Create(ctx context.Context, b *models.Book) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO books (id, title, author, google_book_id, poster_url, total_pages, current_page, notes, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, b.ID, b.Title, b.Author, b.GoogleBookID, b.PosterURL,
		b.TotalPages, b.CurrentPage, b.Notes, string(b.Status), b.UserID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// GetByID loads a single book regardless of owner.
func (r *PostgresBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	b, err := scanBook(r.DB.QueryRowContext(ctx, `
		SELECT `+bookColumns+` FROM books WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// Update writes every mutable column of b in one statement, so a page
// change and its derived status land together. The owner is part of the
// predicate; a row owned by someone else is reported as common.ErrNotFound.
func (r *PostgresBookRepository) Update(ctx context.Context, b *models.Book) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE books SET
			title = $3, author = $4, poster_url = $5, total_pages = $6,
			current_page = $7, notes = $8, status = $9, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`, b.ID, b.UserID, b.Title, b.Author, b.PosterURL,
		b.TotalPages, b.CurrentPage, b.Notes, string(b.Status),
	).Scan(&b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// Delete removes the book id owned by userID.
func (r *PostgresBookRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM books WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
