// Package storage owns the ordered task list and keeps it in sync with its
// data file. Every add and remove rewrites the file before returning.
package storage

import (
	"errors"
	"slices"
)

// SaveContext describes a completed write, for logging.
type SaveContext struct {
	Path        string
	Operation   string // "add", "remove" or "toggle"
	Description string // truncated task description
}

// Store holds the task list and the path it persists to.
type Store struct {
	tasks          []Task
	path           string
	backend        Backend
	persistToggles bool
	onSave         func(ctx SaveContext)
}

// New creates an empty store bound to path. Nothing is read until Load.
func New(path string) *Store {
	return &Store{tasks: []Task{}, path: path}
}

// SetOnSave registers a callback invoked after each successful write.
func (s *Store) SetOnSave(fn func(ctx SaveContext)) {
	s.onSave = fn
}

// SetPersistToggles makes Toggle write the file like Add and Remove do.
// Off by default: toggles stay in memory until the next add or remove.
func (s *Store) SetPersistToggles(on bool) {
	s.persistToggles = on
}

// Path returns the data file the store writes to.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory list with the contents of path and adopts path
// for later writes. On a *ReadError the list is left empty. Malformed records
// are skipped; their joined *RecordError is returned with the list populated.
func (s *Store) Load(path string) error {
	if s.backend != nil && path != s.path {
		_ = s.backend.Close()
		s.backend = nil
	}
	s.path = path
	s.tasks = []Task{}

	if s.backend == nil {
		b, err := OpenBackend(path)
		if err != nil {
			return err
		}
		s.backend = b
	}

	tasks, err := s.backend.Load()
	var readErr *ReadError
	if errors.As(err, &readErr) {
		return err
	}
	if tasks != nil {
		s.tasks = tasks
	}
	return err
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	return err
}

// Add appends a not-done task and persists. Line breaks in description
// become spaces; empty descriptions are kept as-is.
func (s *Store) Add(description string) error {
	description = CleanDescription(description)
	s.tasks = append(s.tasks, Task{Description: description})
	return s.save("add", description)
}

// Remove deletes the task at the filtered index and persists. An index
// outside the filtered view is a no-op and reports false.
func (s *Store) Remove(index int, f Filter) (bool, error) {
	pos, ok := s.Resolve(index, f)
	if !ok {
		return false, nil
	}
	desc := s.tasks[pos].Description
	s.tasks = slices.Delete(s.tasks, pos, pos+1)
	return true, s.save("remove", desc)
}

// Toggle flips the done flag of the task at the filtered index. The change
// is written only when persisting toggles was enabled.
func (s *Store) Toggle(index int, f Filter) (bool, error) {
	pos, ok := s.Resolve(index, f)
	if !ok {
		return false, nil
	}
	s.tasks[pos].Done = !s.tasks[pos].Done
	if !s.persistToggles {
		return true, nil
	}
	return true, s.save("toggle", s.tasks[pos].Description)
}

// Resolve maps a filtered index to an absolute position in one pass.
func (s *Store) Resolve(index int, f Filter) (int, bool) {
	if index < 0 {
		return 0, false
	}
	rank := 0
	for pos, t := range s.tasks {
		if !f.Matches(t) {
			continue
		}
		if rank == index {
			return pos, true
		}
		rank++
	}
	return 0, false
}

// Get returns a copy of the task at the filtered index.
func (s *Store) Get(index int, f Filter) (Task, bool) {
	pos, ok := s.Resolve(index, f)
	if !ok {
		return Task{}, false
	}
	return s.tasks[pos], true
}

// Count returns how many tasks match f.
func (s *Store) Count(f Filter) int {
	n := 0
	for _, t := range s.tasks {
		if f.Matches(t) {
			n++
		}
	}
	return n
}

// List returns the tasks matching f in stored order. The slice is a copy.
func (s *Store) List(f Filter) []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Tasks returns a copy of the whole list.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

func (s *Store) save(op, desc string) error {
	if s.backend == nil {
		b, err := OpenBackend(s.path)
		if err != nil {
			return &WriteError{Path: s.path, Err: err}
		}
		s.backend = b
	}
	if err := s.backend.Save(s.tasks); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	if s.onSave != nil {
		s.onSave(SaveContext{Path: s.path, Operation: op, Description: truncate(desc, 50)})
	}
	return nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}
