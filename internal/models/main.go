// Package models defines the core data structures for users and books.
package models

import "time"

// DefaultPosterURL is stored when a book is added without a cover image.
const DefaultPosterURL = "https://via.placeholder.com/150x200?text=No+Cover"

// User represents a registered reader.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Name is the display name chosen at registration.
	Name string `json:"name"`
	// Email is the unique login of the user.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the password. It is never serialized.
	PasswordHash []byte `json:"-"`
	// CreatedAt is the registration time.
	CreatedAt time.Time `json:"createdAt"`
}

// Book is one shelved title owned by exactly one user.
type Book struct {
	// ID is the unique identifier for the book record.
	ID string `json:"id"`
	// Title of the book.
	Title string `json:"title"`
	// Author holds the author name(s) as a single string.
	Author string `json:"author"`
	// GoogleBookID is the external catalog id of the volume.
	GoogleBookID string `json:"googleBookId"`
	// PosterURL is the cover image URL.
	PosterURL string `json:"posterUrl"`
	// TotalPages is the page count, 0 when unknown.
	TotalPages int `json:"totalPages"`
	// CurrentPage is the reader's progress, never above TotalPages.
	CurrentPage int `json:"currentPage"`
	// Notes holds free-text notes.
	Notes string `json:"notes"`
	// Status is the shelf the book sits on.
	Status Status `json:"status"`
	// UserID is the owner. It is set from the authenticated caller only.
	UserID string `json:"user"`
	// CreatedAt is the time the book was shelved.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time of the last modification.
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookPatch is a partial update. Nil fields are left untouched.
type BookPatch struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	PosterURL   *string `json:"posterUrl,omitempty"`
	TotalPages  *int    `json:"totalPages,omitempty"`
	CurrentPage *int    `json:"currentPage,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// Apply copies every non-nil field of p onto b.
//
// When the patch moves the current page, the status is recomputed from the
// new progress and any status carried by the same patch is ignored. A patch
// that only resizes the book re-derives the status too.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.PosterURL != nil {
		b.PosterURL = *p.PosterURL
	}
	if p.TotalPages != nil {
		b.TotalPages = *p.TotalPages
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.CurrentPage != nil {
		b.CurrentPage = *p.CurrentPage
	}
	if p.CurrentPage != nil || (p.TotalPages != nil && p.Status == nil) {
		b.Status = DeriveStatus(b.CurrentPage, b.TotalPages)
	}
}
