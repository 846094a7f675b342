package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// createTestStore returns a loaded store backed by a fresh file in a temp dir.
func createTestStore(t *testing.T, content string) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to seed data file: %v", err)
	}
	s := New(path)
	if err := s.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return string(data)
}

func descriptions(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Description)
	}
	return out
}

// =============================================================================
// Add / Load
// =============================================================================

func TestAdd_EmptyFileWritesSingleLine(t *testing.T) {
	s, path := createTestStore(t, "")

	if got := s.Count(FilterAll); got != 0 {
		t.Fatalf("Count(All) = %d, want 0", got)
	}
	if err := s.Add("x"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if got := readFile(t, path); got != " ,x\n" {
		t.Errorf("file = %q, want %q", got, " ,x\n")
	}
}

func TestAdd_AcceptsEmptyDescription(t *testing.T) {
	s, path := createTestStore(t, "")

	if err := s.Add(""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := readFile(t, path); got != " ,\n" {
		t.Errorf("file = %q, want %q", got, " ,\n")
	}
	if task, ok := s.Get(0, FilterAll); !ok || task.Description != "" || task.Done {
		t.Errorf("Get(0) = %+v, %v", task, ok)
	}
}

func TestAdd_LineBreaksBecomeSpaces(t *testing.T) {
	s, path := createTestStore(t, " ,Call mom\n")

	for _, desc := range []string{"buy milk\neggs", "trailing\r", "dos\r\nline"} {
		if err := s.Add(desc); err != nil {
			t.Fatalf("Add(%q) error = %v", desc, err)
		}
	}

	want := []string{"Call mom", "buy milk eggs", "trailing ", "dos line"}
	if got := descriptions(s.Tasks()); !reflect.DeepEqual(got, want) {
		t.Errorf("in memory = %q, want %q", got, want)
	}
	if got := readFile(t, path); got != " ,Call mom\n ,buy milk eggs\n ,trailing \n ,dos line\n" {
		t.Errorf("file = %q", got)
	}

	reloaded := New(path)
	defer reloaded.Close()
	if err := reloaded.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := descriptions(reloaded.Tasks()); !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded = %q, want %q", got, want)
	}

	// A later rewrite keeps every task.
	if _, err := reloaded.Remove(0, FilterAll); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := readFile(t, path); got != " ,buy milk eggs\n ,trailing \n ,dos line\n" {
		t.Errorf("file after remove = %q", got)
	}
}

func TestAdd_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.txt")
	s := New(path)

	err := s.Load(path)
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("Load() error = %v, want *ReadError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error should wrap os.ErrNotExist, got %v", err)
	}

	if err := s.Add("Call mom"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := readFile(t, path); got != " ,Call mom\n" {
		t.Errorf("file = %q", got)
	}
}

func TestLoad_ReplacesContentAndAdoptsPath(t *testing.T) {
	s, _ := createTestStore(t, " ,old\n")

	other := filepath.Join(t.TempDir(), "other.txt")
	if err := os.WriteFile(other, []byte("x,new one\n ,new two\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(other); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Path() != other {
		t.Errorf("Path() = %q, want %q", s.Path(), other)
	}
	want := []Task{{"new one", true}, {"new two", false}}
	if got := s.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tasks() = %+v, want %+v", got, want)
	}
}

func TestLoad_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.txt")
	content := " ,first\nno comma here\nx,second\n\n ,third\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s := New(path)
	err := s.Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want malformed record error")
	}

	recs := RecordErrors(err)
	if len(recs) != 1 {
		t.Fatalf("len(RecordErrors) = %d, want 1", len(recs))
	}
	if recs[0].Line != 2 || recs[0].Text != "no comma here" {
		t.Errorf("RecordError = %+v", recs[0])
	}

	want := []string{"first", "second", "third"}
	if got := descriptions(s.Tasks()); !reflect.DeepEqual(got, want) {
		t.Errorf("descriptions = %v, want %v", got, want)
	}
}

// =============================================================================
// Filtered addressing
// =============================================================================

func TestCount_PartitionsByDone(t *testing.T) {
	s, _ := createTestStore(t, "")
	for _, d := range []string{"a", "b", "c", "d", "e"} {
		if err := s.Add(d); err != nil {
			t.Fatal(err)
		}
		if s.Count(FilterAll) != s.Count(FilterDone)+s.Count(FilterUndone) {
			t.Fatalf("count invariant broken after adding %q", d)
		}
	}
	s.Toggle(1, FilterAll)
	s.Toggle(3, FilterAll)

	if got := s.Count(FilterDone); got != 2 {
		t.Errorf("Count(Done) = %d, want 2", got)
	}
	if got := s.Count(FilterUndone); got != 3 {
		t.Errorf("Count(Undone) = %d, want 3", got)
	}
	if s.Count(FilterAll) != s.Count(FilterDone)+s.Count(FilterUndone) {
		t.Error("count invariant broken after toggles")
	}
}

func TestResolve(t *testing.T) {
	// positions:   0     1     2     3     4
	s, _ := createTestStore(t, " ,a\nx,b\n ,c\nx,d\n ,e\n")

	tests := []struct {
		name    string
		index   int
		filter  Filter
		wantPos int
		wantOK  bool
	}{
		{"all first", 0, FilterAll, 0, true},
		{"all last", 4, FilterAll, 4, true},
		{"all out of range", 5, FilterAll, 0, false},
		{"done first", 0, FilterDone, 1, true},
		{"done second", 1, FilterDone, 3, true},
		{"done out of range", 2, FilterDone, 0, false},
		{"undone third", 2, FilterUndone, 4, true},
		{"negative", -1, FilterAll, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, ok := s.Resolve(tt.index, tt.filter)
			if ok != tt.wantOK || (ok && pos != tt.wantPos) {
				t.Errorf("Resolve(%d, %v) = (%d, %v), want (%d, %v)",
					tt.index, tt.filter, pos, ok, tt.wantPos, tt.wantOK)
			}
		})
	}
}

func TestToggle_DoneViewScenario(t *testing.T) {
	s, _ := createTestStore(t, " ,Call mom\n ,Do homework\n ,Sleep\n")

	if ok, err := s.Toggle(1, FilterAll); !ok || err != nil {
		t.Fatalf("Toggle() = %v, %v", ok, err)
	}

	want := []Task{{"Call mom", false}, {"Do homework", true}, {"Sleep", false}}
	if got := s.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tasks() = %+v, want %+v", got, want)
	}

	task, ok := s.Get(0, FilterDone)
	if !ok || task.Description != "Do homework" {
		t.Errorf("Get(0, Done) = %+v, %v, want Do homework", task, ok)
	}
}

func TestToggle_DoesNotPersistByDefault(t *testing.T) {
	s, path := createTestStore(t, " ,a\n")

	s.Toggle(0, FilterAll)

	if got := readFile(t, path); got != " ,a\n" {
		t.Errorf("file after toggle = %q, want unchanged", got)
	}

	// The next persisting operation carries the toggled state along.
	if err := s.Add("b"); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != "x,a\n ,b\n" {
		t.Errorf("file after add = %q", got)
	}
}

func TestToggle_PersistsWhenEnabled(t *testing.T) {
	s, path := createTestStore(t, " ,a\n")
	s.SetPersistToggles(true)

	if _, err := s.Toggle(0, FilterAll); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != "x,a\n" {
		t.Errorf("file = %q, want %q", got, "x,a\n")
	}
}

func TestToggle_OutOfRange(t *testing.T) {
	s, _ := createTestStore(t, " ,a\n")
	if ok, _ := s.Toggle(0, FilterDone); ok {
		t.Error("Toggle(0, Done) on empty done view should report false")
	}
	if s.Tasks()[0].Done {
		t.Error("task should be untouched")
	}
}

// =============================================================================
// Remove
// =============================================================================

func TestRemove_OutOfRangeIsNoOp(t *testing.T) {
	s, path := createTestStore(t, " ,a\nx,b\n")
	before := s.Tasks()

	for _, f := range Filters {
		ok, err := s.Remove(s.Count(f), f)
		if ok || err != nil {
			t.Errorf("Remove(count, %v) = %v, %v, want false, nil", f, ok, err)
		}
	}

	if got := s.Tasks(); !reflect.DeepEqual(got, before) {
		t.Errorf("Tasks() = %+v, want %+v", got, before)
	}
	if got := readFile(t, path); got != " ,a\nx,b\n" {
		t.Errorf("file changed: %q", got)
	}
}

func TestRemove_FilteredPreservesOrder(t *testing.T) {
	s, path := createTestStore(t, " ,a\nx,b\n ,c\nx,d\n ,e\n")

	ok, err := s.Remove(1, FilterUndone)
	if !ok || err != nil {
		t.Fatalf("Remove() = %v, %v", ok, err)
	}

	if got, want := descriptions(s.List(FilterUndone)), []string{"a", "e"}; !reflect.DeepEqual(got, want) {
		t.Errorf("undone = %v, want %v", got, want)
	}
	if got, want := descriptions(s.List(FilterAll)), []string{"a", "b", "d", "e"}; !reflect.DeepEqual(got, want) {
		t.Errorf("all = %v, want %v", got, want)
	}
	if got := readFile(t, path); got != " ,a\nx,b\nx,d\n ,e\n" {
		t.Errorf("file = %q", got)
	}
}

func TestRemove_WriteFailureIsWriteError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "todo.txt")
	s := New(path)

	err := s.Add("a")
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Add() error = %v, want *WriteError", err)
	}
	if writeErr.Path != path {
		t.Errorf("WriteError.Path = %q, want %q", writeErr.Path, path)
	}
}

func TestOnSave(t *testing.T) {
	s, path := createTestStore(t, "")

	var got []SaveContext
	s.SetOnSave(func(ctx SaveContext) { got = append(got, ctx) })

	s.Add("first")
	s.Toggle(0, FilterAll)
	s.Remove(0, FilterAll)

	want := []SaveContext{
		{Path: path, Operation: "add", Description: "first"},
		{Path: path, Operation: "remove", Description: "first"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("save contexts = %+v, want %+v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	s, path := createTestStore(t, "")
	input := []Task{
		{"Call mom", false},
		{"Pay rent, then groceries", true},
		{"  padded  ", false},
		{"ünïcødé ✓", true},
	}
	for _, task := range input {
		if err := s.Add(task.Description); err != nil {
			t.Fatal(err)
		}
	}
	s.SetPersistToggles(true)
	s.Toggle(1, FilterAll)
	s.Toggle(3, FilterAll)

	reloaded := New(path)
	if err := reloaded.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := reloaded.Tasks(); !reflect.DeepEqual(got, input) {
		t.Errorf("round trip = %+v, want %+v", got, input)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", FilterAll, false},
		{"ALL", FilterAll, false},
		{"done", FilterDone, false},
		{" Undone ", FilterUndone, false},
		{"later", FilterAll, true},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFilter(%q) = %v, %v", tt.in, got, err)
		}
	}
}
