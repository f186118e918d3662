// Package session owns the application state of one fdgraph instance: the
// dependency store, the validator, the canvas size, and the views that
// re-render whenever any of them changes.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/tordrt/fdgraph/internal/debounce"
	"github.com/tordrt/fdgraph/internal/fd"
	"github.com/tordrt/fdgraph/internal/layout"
	"github.com/tordrt/fdgraph/internal/store"
	"github.com/tordrt/fdgraph/internal/validate"
)

var (
	ErrNotFound  = errors.New("no functional dependency with that id")
	ErrAmbiguous = errors.New("id prefix matches more than one functional dependency")
)

// Reason tells a view why it is asked to render
type Reason int

const (
	ReasonChanged Reason = iota + 1
	ReasonResized
	ReasonInitial
)

// Snapshot is the state handed to views
type Snapshot struct {
	Reason Reason
	FDs    []fd.FD
	Width  float64
	Height float64
}

// View is an independent subscriber to session changes
type View interface {
	Render(Snapshot) error
}

type Config struct {
	Logger         *slog.Logger
	Clock          clockwork.Clock
	Validator      *validate.Validator
	Width          float64
	Height         float64
	ResizeDebounce time.Duration
}

func (cfg *Config) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("canvas width and height must be greater than 0")
	}
	if cfg.Validator == nil {
		cfg.Validator = validate.New(validate.DefaultMaxLength)
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.ResizeDebounce <= 0 {
		cfg.ResizeDebounce = debounce.DefaultDelay
	}
	return nil
}

type Session struct {
	log       *slog.Logger
	validator *validate.Validator
	store     *store.Store
	resize    *debounce.Debouncer

	mu            sync.Mutex
	views         []View
	width, height float64
	pendingW      float64
	pendingH      float64
}

func New(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		log:       cfg.Logger,
		validator: cfg.Validator,
		store:     store.New(),
		width:     cfg.Width,
		height:    cfg.Height,
	}
	s.resize = debounce.New(cfg.Clock, cfg.ResizeDebounce, s.applyResize)
	s.store.Subscribe(s.onStoreEvent)
	return s, nil
}

// Attach adds a view and renders the current state to it
func (s *Session) Attach(v View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.views = append(s.views, v)
	return v.Render(s.snapshot(ReasonInitial))
}

// Submit validates the raw field text and adds the FD on success. Nothing is
// stored when validation fails.
func (s *Session) Submit(determinant, dependent string) (fd.FD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, err := s.validator.Validate(determinant, dependent, s.store.List())
	if err != nil {
		s.log.Debug("rejected dependency", "determinant", determinant, "dependent", dependent, "error", err)
		return fd.FD{}, err
	}
	added := s.store.Add(candidate)
	s.log.Debug("added dependency", "id", added.ID, "fd", added.String())
	return added, nil
}

// Delete removes the FD with the given identity
func (s *Session) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Remove(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Resolve finds the identity for a full UUID or a unique prefix of one
func (s *Session) Resolve(handle string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle = strings.ToLower(strings.TrimSpace(handle))
	if id, err := uuid.Parse(handle); err == nil {
		if _, ok := s.store.Get(id); ok {
			return id, nil
		}
		return uuid.Nil, fmt.Errorf("%w: %s", ErrNotFound, handle)
	}

	var match uuid.UUID
	found := 0
	if handle != "" {
		for f := range s.store.List() {
			if strings.HasPrefix(f.ID.String(), handle) {
				match = f.ID
				found++
			}
		}
	}
	switch found {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %s", ErrNotFound, handle)
	case 1:
		return match, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %s", ErrAmbiguous, handle)
	}
}

// Resize records a new canvas size and schedules one debounced re-render
func (s *Session) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return errors.New("canvas width and height must be greater than 0")
	}
	s.mu.Lock()
	s.pendingW, s.pendingH = width, height
	s.mu.Unlock()

	s.resize.Trigger()
	return nil
}

// Close cancels a pending resize render
func (s *Session) Close() {
	s.resize.Stop()
}

// FDs returns a copy of the current dependencies in insertion order
func (s *Session) FDs() []fd.FD {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Size returns the current canvas size
func (s *Session) Size() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Layout computes the diagram for the current state
func (s *Session) Layout(opts layout.Options) *layout.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layout.Compute(s.store.Snapshot(), s.width, s.height, opts)
}

func (s *Session) applyResize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingW == s.width && s.pendingH == s.height {
		return
	}
	s.width, s.height = s.pendingW, s.pendingH
	s.log.Debug("canvas resized", "width", s.width, "height", s.height)
	s.renderLocked(ReasonResized)
}

// onStoreEvent runs with s.mu held: the store only changes inside Submit and Delete.
func (s *Session) onStoreEvent(ev store.Event) {
	s.log.Debug("store changed", "event", ev.Kind.String(), "index", ev.Index)
	s.renderLocked(ReasonChanged)
}

func (s *Session) renderLocked(reason Reason) {
	snap := s.snapshot(reason)
	for _, v := range s.views {
		if err := v.Render(snap); err != nil {
			s.log.Error("failed to render view", "error", err)
		}
	}
}

func (s *Session) snapshot(reason Reason) Snapshot {
	return Snapshot{
		Reason: reason,
		FDs:    s.store.Snapshot(),
		Width:  s.width,
		Height: s.height,
	}
}
