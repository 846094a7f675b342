// Package session implements the interactive state machine that ties key
// actions, the view filter, the cursor and the task store together. It has
// no terminal dependencies; the ui package feeds it actions and draws its
// snapshots.
package session

import (
	"errors"
	"io"
	"log/slog"

	"taskline/internal/storage"
)

// State is the phase of the session loop.
type State int

const (
	Running State = iota
	AwaitingTextInput
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingTextInput:
		return "awaiting-input"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// Action is a classified key press.
type Action int

const (
	None Action = iota
	Quit
	BeginAdd
	Delete
	NextTab
	PrevTab
	Down
	Up
	Toggle
	Top
	Bottom
)

var actionNames = map[Action]string{
	None:     "none",
	Quit:     "quit",
	BeginAdd: "add",
	Delete:   "delete",
	NextTab:  "next-tab",
	PrevTab:  "prev-tab",
	Down:     "down",
	Up:       "up",
	Toggle:   "toggle",
	Top:      "top",
	Bottom:   "bottom",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ErrNoInputPending is returned by Submit outside of text-input mode.
var ErrNoInputPending = errors.New("session: no text input pending")

// Session owns the view state and drives the store.
type Session struct {
	store   *storage.Store
	view    ViewState
	state   State
	loadErr error
	logger  *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for actions and failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFilter sets the filter the session starts on.
func WithFilter(f storage.Filter) Option {
	return func(s *Session) {
		s.view.Filter = f
	}
}

// New loads path into store and returns a running session. A missing or
// unreadable file and malformed records are not fatal: the session starts
// with whatever loaded and LoadErr reports the problem. Any other error,
// such as a database that cannot be opened, is returned.
func New(store *storage.Store, path string, opts ...Option) (*Session, error) {
	s := &Session{
		store:  store,
		state:  Running,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := store.Load(path); err != nil {
		var readErr *storage.ReadError
		if !errors.As(err, &readErr) && storage.RecordErrors(err) == nil {
			return nil, err
		}
		s.loadErr = err
		s.logger.Warn("load incomplete", "path", path, "err", err)
	}
	s.view.Reconcile(store.Count(s.view.Filter))
	s.logger.Info("session started", "path", path, "tasks", store.Count(storage.FilterAll))
	return s, nil
}

// LoadErr returns the non-fatal error from the initial load, if any.
func (s *Session) LoadErr() error { return s.loadErr }

// State returns the current phase.
func (s *Session) State() State { return s.state }

// View returns the current filter and cursor.
func (s *Session) View() ViewState { return s.view }

// Store returns the underlying task store.
func (s *Session) Store() *storage.Store { return s.store }

// Apply performs one action. It returns a *storage.WriteError when a
// mutation could not be persisted; the session is then Terminated.
// While awaiting text input only Quit is honoured. Once Terminated every
// call is a no-op.
func (s *Session) Apply(a Action) error {
	switch s.state {
	case Terminated:
		return nil
	case AwaitingTextInput:
		if a == Quit {
			s.terminate()
		}
		return nil
	}

	s.logger.Debug("action", "action", a, "filter", s.view.Filter, "cursor", s.view.Cursor)

	switch a {
	case Quit:
		s.terminate()
	case BeginAdd:
		s.state = AwaitingTextInput
	case Delete:
		if _, err := s.store.Remove(s.view.Cursor, s.view.Filter); err != nil {
			return s.fail(err)
		}
		s.reconcile()
	case Toggle:
		if _, err := s.store.Toggle(s.view.Cursor, s.view.Filter); err != nil {
			return s.fail(err)
		}
		// Under Done/Undone the toggled task leaves the view.
		s.reconcile()
	case NextTab:
		s.view.CycleForward()
	case PrevTab:
		s.view.CycleBackward()
	case Down:
		s.view.MoveDown(s.store.Count(s.view.Filter))
	case Up:
		s.view.MoveUp()
	case Top:
		s.view.Top()
	case Bottom:
		s.view.Bottom(s.store.Count(s.view.Filter))
	}
	return nil
}

// Submit completes text-input mode by adding text as a new task.
func (s *Session) Submit(text string) error {
	if s.state != AwaitingTextInput {
		return ErrNoInputPending
	}
	s.state = Running
	if err := s.store.Add(text); err != nil {
		return s.fail(err)
	}
	s.logger.Debug("task added", "filter", s.view.Filter, "tasks", s.store.Count(storage.FilterAll))
	return nil
}

// Cancel leaves text-input mode without adding anything.
func (s *Session) Cancel() {
	if s.state == AwaitingTextInput {
		s.state = Running
	}
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	State  State
	Filter storage.Filter
	Cursor int
	Rows   []storage.Task
	Counts map[storage.Filter]int
}

// Snapshot captures the current frame.
func (s *Session) Snapshot() Snapshot {
	counts := make(map[storage.Filter]int, len(storage.Filters))
	for _, f := range storage.Filters {
		counts[f] = s.store.Count(f)
	}
	return Snapshot{
		State:  s.state,
		Filter: s.view.Filter,
		Cursor: s.view.Cursor,
		Rows:   s.store.List(s.view.Filter),
		Counts: counts,
	}
}

func (s *Session) reconcile() {
	s.view.Reconcile(s.store.Count(s.view.Filter))
}

func (s *Session) terminate() {
	s.state = Terminated
	s.logger.Info("session terminated")
}

func (s *Session) fail(err error) error {
	s.logger.Error("persist failed", "path", s.store.Path(), "err", err)
	s.state = Terminated
	return err
}
