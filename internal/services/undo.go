// Package services – snapshot stacks
//
// Undo/redo is a bounded pair of whole-snapshot stacks per comparison: every
// mutating action pushes the previous state onto undo and clears redo; undo
// and redo pop-and-swap complete Comparison snapshots. The stacks are
// process-local working state, not durable history (that is the repo's job).
package services

import (
	"sync"

	"github.com/tbourn/go-decision-backend/internal/domain"
)

// DefaultUndoDepth bounds each stack when no explicit depth is configured.
const DefaultUndoDepth = 25

// SnapshotStacks holds bounded undo/redo stacks keyed by comparison ID.
// Safe for concurrent use.
type SnapshotStacks struct {
	mu    sync.Mutex
	depth int
	undo  map[string][]*domain.Comparison
	redo  map[string][]*domain.Comparison
}

// NewSnapshotStacks constructs stacks bounded to depth entries per side;
// depth <= 0 uses DefaultUndoDepth.
func NewSnapshotStacks(depth int) *SnapshotStacks {
	if depth <= 0 {
		depth = DefaultUndoDepth
	}
	return &SnapshotStacks{
		depth: depth,
		undo:  make(map[string][]*domain.Comparison),
		redo:  make(map[string][]*domain.Comparison),
	}
}

// Record captures the pre-mutation state of a comparison. New mutations
// invalidate any redo tail.
func (s *SnapshotStacks) Record(prev *domain.Comparison) {
	if prev == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := prev.ID
	stack := append(s.undo[id], prev.Clone())
	if len(stack) > s.depth {
		stack = stack[len(stack)-s.depth:]
	}
	s.undo[id] = stack
	delete(s.redo, id)
}

// Undo returns the most recent prior snapshot, moving the current state onto
// the redo stack. The second return value is false when there is nothing to
// undo.
func (s *SnapshotStacks) Undo(current *domain.Comparison) (*domain.Comparison, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := current.ID
	stack := s.undo[id]
	if len(stack) == 0 {
		return nil, false
	}
	prev := stack[len(stack)-1]
	s.undo[id] = stack[:len(stack)-1]

	redo := append(s.redo[id], current.Clone())
	if len(redo) > s.depth {
		redo = redo[len(redo)-s.depth:]
	}
	s.redo[id] = redo

	return prev, true
}

// Redo re-applies the most recently undone snapshot, moving the current state
// back onto the undo stack.
func (s *SnapshotStacks) Redo(current *domain.Comparison) (*domain.Comparison, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := current.ID
	stack := s.redo[id]
	if len(stack) == 0 {
		return nil, false
	}
	next := stack[len(stack)-1]
	s.redo[id] = stack[:len(stack)-1]

	undo := append(s.undo[id], current.Clone())
	if len(undo) > s.depth {
		undo = undo[len(undo)-s.depth:]
	}
	s.undo[id] = undo

	return next, true
}

// Drop discards both stacks for a comparison (called on delete/reset).
func (s *SnapshotStacks) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.undo, id)
	delete(s.redo, id)
}
