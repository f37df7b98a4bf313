package store

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned when a newer request replaced the one whose
// result just arrived.
var ErrSuperseded = errors.New("superseded by a newer request")

// Sequencer hands out tickets so that only the latest request of a view may
// publish its result. Taking a ticket cancels the context of the previous one.
type Sequencer struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Ticket identifies one request.
type Ticket struct {
	s  *Sequencer
	id uint64
}

// Next starts a new request. The returned context is cancelled when a later
// ticket is taken or when done is called.
func (s *Sequencer) Next(parent context.Context) (context.Context, Ticket, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.cancel = cancel
	t := Ticket{s: s, id: s.seq}
	s.mu.Unlock()

	return ctx, t, cancel
}

// Current reports whether t is still the latest ticket.
func (t Ticket) Current() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.seq == t.id
}

// Check returns ErrSuperseded when t is no longer current.
func (t Ticket) Check() error {
	if !t.Current() {
		return ErrSuperseded
	}
	return nil
}

// Cancel aborts the in-flight request, if any, and invalidates its ticket.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}
