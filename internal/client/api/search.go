package api

import (
	"context"
	"errors"
	"sync"
)

// ErrStaleResult is returned to a search that was overtaken by a newer one.
var ErrStaleResult = errors.New("stale search result")

// SearchFunc performs one catalog lookup.
type SearchFunc func(ctx context.Context, q string) (*Volumes, error)

// Sequencer makes sure only the most recent search delivers results.
// Starting a search cancels the one in flight, and a response that
// arrives after a newer search started is dropped with ErrStaleResult.
type Sequencer struct {
	search SearchFunc

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSequencer wraps search.
func NewSequencer(search SearchFunc) *Sequencer {
	return &Sequencer{search: search}
}

// Search runs q unless a newer call supersedes it first.
func (s *Sequencer) Search(ctx context.Context, q string) (*Volumes, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.seq++
	mine := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	res, err := s.search(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if mine != s.seq {
		return nil, ErrStaleResult
	}
	s.cancel = nil
	return res, err
}
