package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// sqliteDB keeps the task list in a single table ordered by position. Save
// rewrites the table inside one transaction, mirroring the whole-file
// rewrite of the text backend.
type sqliteDB struct {
	path string
	db   *sql.DB
}

func openSQLite(path string) (*sqliteDB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	position INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0
);`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &sqliteDB{path: path, db: db}, nil
}

func (s *sqliteDB) Load() ([]Task, error) {
	rows, err := s.db.Query(`SELECT description, done FROM tasks ORDER BY position;`)
	if err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		var done int
		if err := rows.Scan(&t.Description, &done); err != nil {
			return nil, &ReadError{Path: s.path, Err: err}
		}
		t.Done = done == 1
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}
	return tasks, nil
}

func (s *sqliteDB) Save(tasks []Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks;`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks (position, description, done) VALUES (?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tasks {
		done := 0
		if t.Done {
			done = 1
		}
		if _, err := stmt.Exec(i, t.Description, done); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteDB) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: path}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
