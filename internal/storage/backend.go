package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"taskline/internal/fsutil"
)

const dataFilePerm os.FileMode = 0600

// Backend persists the full task list. Every Save replaces whatever was
// stored before.
type Backend interface {
	// Load returns the stored tasks. A *ReadError means nothing could be
	// read; a joined *RecordError comes with the tasks that did parse.
	Load() ([]Task, error)
	Save(tasks []Task) error
	Close() error
}

// OpenBackend picks the backend for path by extension: ".db", ".sqlite" and
// ".sqlite3" use SQLite, everything else is a plain text file.
func OpenBackend(path string) (Backend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return openSQLite(path)
	default:
		return &textFile{path: path}, nil
	}
}

// textFile stores one "<status>,<description>" line per task.
type textFile struct {
	path string
}

func (f *textFile) Load() ([]Task, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, &ReadError{Path: f.path, Err: err}
	}
	defer file.Close()

	tasks, err := Decode(file)
	if err != nil && RecordErrors(err) == nil {
		return nil, &ReadError{Path: f.path, Err: err}
	}
	return tasks, err
}

func (f *textFile) Save(tasks []Task) error {
	perm := dataFilePerm
	if info, err := os.Stat(f.path); err == nil {
		perm = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return fsutil.ReplaceFile(f.path, perm, func(w io.Writer) error {
		return Encode(w, tasks)
	})
}

func (f *textFile) Close() error { return nil }
