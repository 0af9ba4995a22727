package models

// Status identifies the shelf a book belongs to.
type Status string

const (
	// StatusWantToRead is the shelf for books not started yet.
	StatusWantToRead Status = "want-to-read"
	// StatusReading is the shelf for books in progress.
	StatusReading Status = "reading"
	// StatusCompleted is the shelf for finished books.
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known shelves.
func (s Status) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusCompleted:
		return true
	}
	return false
}

// DeriveStatus maps reading progress onto a shelf.
//
// A book with an unknown length (totalPages == 0) can never be completed by
// page count and stays on want-to-read.
func DeriveStatus(currentPage, totalPages int) Status {
	switch {
	case totalPages <= 0, currentPage <= 0:
		return StatusWantToRead
	case currentPage < totalPages:
		return StatusReading
	default:
		return StatusCompleted
	}
}
