// Package backup keeps timestamped snapshots of the task data file next to
// it and restores them.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"taskline/internal/fsutil"
	"taskline/internal/storage"
)

// Version constants for the backup format.
const (
	ManifestVersion = "1"
	ManifestFile    = "manifest.json"
	BackupsDir      = ".taskline-backups"
)

const nameLayout = "2006-01-02_150405"

// ErrNoBackups is returned by RestoreLatest when nothing has been backed up.
var ErrNoBackups = errors.New("no backups available")

// Manager handles backup and restore of one data file.
type Manager struct {
	dataFile   string // task data file (todo.txt, tasks.db, ...)
	backupDir  string // <data dir>/.taskline-backups
	appVersion string
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`
	File       string    `json:"file"`
	Tasks      int       `json:"tasks"`
	Done       int       `json:"done"`
}

// BackupInfo contains summary information about a backup.
type BackupInfo struct {
	Name      string // Directory name (2025-12-15_143022_123)
	Path      string // Full path to backup directory
	CreatedAt time.Time
	Tasks     int
	Done      int
}

// NewManager creates a backup manager for dataFile.
func NewManager(dataFile, appVersion string) *Manager {
	return &Manager{
		dataFile:   dataFile,
		backupDir:  filepath.Join(filepath.Dir(dataFile), BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// Dir returns the directory holding the backups.
func (m *Manager) Dir() string { return m.backupDir }

// Create snapshots the data file. Returns the backup name on success.
func (m *Manager) Create() (string, error) {
	if _, err := os.Stat(m.dataFile); err != nil {
		return "", fmt.Errorf("nothing to back up: %w", err)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Milliseconds keep names unique across quick successive backups. A
	// clash within the same millisecond moves on to the next free name.
	now := m.now()
	var stamp time.Time
	var name, backupPath string
	for i := 0; ; i++ {
		stamp = now.Add(time.Duration(i) * time.Millisecond)
		name = fmt.Sprintf("%s_%03d", stamp.Format(nameLayout), stamp.Nanosecond()/1e6)
		backupPath = filepath.Join(m.backupDir, name)
		err := os.Mkdir(backupPath, 0700)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) || i >= 1000 {
			return "", fmt.Errorf("failed to create backup: %w", err)
		}
	}

	base := filepath.Base(m.dataFile)
	if err := copyFileAtomic(m.dataFile, filepath.Join(backupPath, base)); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to copy %s: %w", base, err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  stamp,
		AppVersion: m.appVersion,
		File:       base,
	}
	// Counting is informational; an unreadable snapshot still gets kept.
	if tasks, err := loadTasks(m.dataFile); err == nil {
		manifest.Tasks, manifest.Done = countTasks(tasks)
	}

	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return name, nil
}

// List returns all available backups, newest first.
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue // not a backup
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (*BackupInfo, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
	}

	return &BackupInfo{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Tasks:     manifest.Tasks,
		Done:      manifest.Done,
	}, nil
}

// Restore replaces the data file with the named snapshot. The current file
// is backed up first; its name is returned so a bad restore can be undone.
func (m *Manager) Restore(name string) (string, error) {
	if err := validateBackupName(name); err != nil {
		return "", err
	}

	src := filepath.Join(m.backupDir, name, filepath.Base(m.dataFile))
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("backup %s has no %s", name, filepath.Base(m.dataFile))
		}
		return "", err
	}

	// Refuse snapshots that would not load cleanly.
	if _, err := loadTasks(src); err != nil {
		return "", fmt.Errorf("backup %s is invalid: %w", name, err)
	}

	var safetyName string
	if _, err := os.Stat(m.dataFile); err == nil {
		safetyName, err = m.Create()
		if err != nil {
			return "", fmt.Errorf("failed to create safety backup: %w", err)
		}
	}

	if err := copyFileAtomic(src, m.dataFile); err != nil {
		return safetyName, fmt.Errorf("failed to restore %s (safety backup: %s): %w", name, safetyName, err)
	}
	return safetyName, nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest() (string, string, error) {
	backups, err := m.List()
	if err != nil {
		return "", "", err
	}
	if len(backups) == 0 {
		return "", "", ErrNoBackups
	}
	name := backups[0].Name
	safety, err := m.Restore(name)
	return name, safety, err
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

// loadTasks reads path through the storage backend its extension selects.
func loadTasks(path string) ([]storage.Task, error) {
	b, err := storage.OpenBackend(path)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return b.Load()
}

func countTasks(tasks []storage.Task) (total, done int) {
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	return len(tasks), done
}

func copyFileAtomic(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return fsutil.ReplaceFile(dst, 0600, func(w io.Writer) error {
		_, err := io.Copy(w, f)
		return err
	})
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// parseBackupName parses a backup directory name into a timestamp.
// Format: 2006-01-02_150405_XXX (milliseconds).
func parseBackupName(name string) (time.Time, error) {
	if len(name) != len(nameLayout)+4 || name[len(nameLayout)] != '_' {
		return time.Time{}, fmt.Errorf("invalid backup format")
	}
	base, err := time.ParseInLocation(nameLayout, name[:len(nameLayout)], time.Local)
	if err != nil {
		return time.Time{}, err
	}
	ms, err := strconv.Atoi(name[len(nameLayout)+1:])
	if err != nil || ms < 0 || ms > 999 {
		return time.Time{}, fmt.Errorf("invalid milliseconds")
	}
	return base.Add(time.Duration(ms) * time.Millisecond), nil
}
