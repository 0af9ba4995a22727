package models

import (
	"strings"

	"github.com/atinyakov/bookshelf/internal/common"
)

// Validate checks the invariants every stored book must hold.
func (b *Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.Author) == "" || strings.TrimSpace(b.GoogleBookID) == "" {
		return common.NewValidationError("Please include all required fields: title, author, and googleBookId")
	}
	if b.TotalPages < 0 {
		return common.NewValidationError("totalPages cannot be negative")
	}
	if b.CurrentPage < 0 {
		return common.NewValidationError("currentPage cannot be negative")
	}
	if b.CurrentPage > b.TotalPages {
		return common.NewValidationError("currentPage cannot exceed totalPages")
	}
	if !b.Status.Valid() {
		return common.NewValidationError("status must be one of: want-to-read, reading, completed")
	}
	return nil
}
