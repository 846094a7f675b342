package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	statusDone   = "x"
	statusUndone = " "
	fieldSep     = ","
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// CleanDescription replaces line breaks with spaces so a description always
// fits on one line of the data file.
func CleanDescription(s string) string {
	return lineBreaks.Replace(s)
}

// FormatLine renders t as "<status>,<description>" without a newline.
func FormatLine(t Task) string {
	status := statusUndone
	if t.Done {
		status = statusDone
	}
	return status + fieldSep + CleanDescription(t.Description)
}

// ParseLine splits line on its first comma. Any status other than "x" reads
// as not done, so hand-edited files with "-" or "" still load.
func ParseLine(line string) (Task, error) {
	status, desc, ok := strings.Cut(line, fieldSep)
	if !ok {
		return Task{}, errors.New("missing ',' between status and description")
	}
	return Task{Description: desc, Done: status == statusDone}, nil
}

// Encode writes one line per task.
func Encode(w io.Writer, tasks []Task) error {
	bw := bufio.NewWriter(w)
	for _, t := range tasks {
		if _, err := bw.WriteString(FormatLine(t) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads tasks from r. Malformed lines are skipped and reported as a
// joined set of *RecordError next to the tasks that did parse. An I/O error
// aborts decoding and is returned unwrapped.
func Decode(r io.Reader) ([]Task, error) {
	br := bufio.NewReader(r)
	tasks := []Task{}
	var bad []error

	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if line == "" && errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			t, perr := ParseLine(line)
			if perr != nil {
				bad = append(bad, &RecordError{Line: lineNo, Text: line, Reason: perr.Error()})
			} else {
				tasks = append(tasks, t)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	return tasks, errors.Join(bad...)
}
