// Package store holds the ordered, in-memory collection of functional
// dependencies and notifies subscribers after every mutation.
//
// A Store is not safe for concurrent use; session.Session serializes access.
package store

import (
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/tordrt/fdgraph/internal/fd"
)

// EventKind identifies the mutation that produced an Event
type EventKind int

const (
	EventAdded EventKind = iota + 1
	EventRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event describes one store mutation
type Event struct {
	Kind  EventKind
	FD    fd.FD
	Index int
}

// Listener receives events after the store has changed
type Listener func(Event)

// Store keeps FDs in insertion order
type Store struct {
	fds       []fd.FD
	listeners map[int]Listener
	nextID    int
}

// New creates an empty store
func New() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Add appends f and returns it with its identity set. Callers validate f first.
func (s *Store) Add(f fd.FD) fd.FD {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.Determinant = slices.Clone(f.Determinant)
	f.Dependent = slices.Clone(f.Dependent)
	s.fds = append(s.fds, f)
	s.publish(Event{Kind: EventAdded, FD: f, Index: len(s.fds) - 1})
	return f
}

// RemoveAt deletes the FD at position i. Out of range indexes are ignored.
func (s *Store) RemoveAt(i int) bool {
	if i < 0 || i >= len(s.fds) {
		return false
	}
	removed := s.fds[i]
	s.fds = slices.Delete(s.fds, i, i+1)
	s.publish(Event{Kind: EventRemoved, FD: removed, Index: i})
	return true
}

// Remove deletes the FD with the given identity
func (s *Store) Remove(id uuid.UUID) bool {
	return s.RemoveAt(s.IndexOf(id))
}

// IndexOf returns the position of id, or -1
func (s *Store) IndexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.fds, func(f fd.FD) bool { return f.ID == id })
}

// Get returns the FD with the given identity
func (s *Store) Get(id uuid.UUID) (fd.FD, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return fd.FD{}, false
	}
	return s.fds[i], true
}

// Len returns the number of stored FDs
func (s *Store) Len() int {
	return len(s.fds)
}

// List returns a restartable sequence over the current FDs in insertion
// order. Each range over it reads the store as it is at that moment.
func (s *Store) List() iter.Seq[fd.FD] {
	return func(yield func(fd.FD) bool) {
		for _, f := range s.fds {
			if !yield(f) {
				return
			}
		}
	}
}

// Snapshot copies the current FDs
func (s *Store) Snapshot() []fd.FD {
	return slices.Clone(s.fds)
}

// Subscribe registers fn and returns a function that removes it
func (s *Store) Subscribe(fn Listener) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Store) publish(ev Event) {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.listeners[id]; ok {
			fn(ev)
		}
	}
}
