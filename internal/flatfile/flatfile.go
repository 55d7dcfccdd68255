// Package flatfile reads and writes the comma-separated record files the
// tournament data lives in. Files have no header and no escaping: one record
// per line, fields split on commas.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// Record is one line of a flat file split into fields.
type Record []string

// ReadRecords loads every non-blank line of path. A missing file is treated
// as an empty dataset.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("Data file not found, starting empty", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to open %s: %v", tournament.ErrIO, path, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, strings.Split(line, ","))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", tournament.ErrIO, path, err)
	}
	return records, nil
}

// WriteRecords replaces the content of path with records. The data is
// written to a temporary file in the same directory and renamed into place.
func WriteRecords(path string, records []Record) error {
	var b strings.Builder
	for _, r := range records {
		line, err := encode(r)
		if err != nil {
			return err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", tournament.ErrIO, dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file for %s: %v", tournament.ErrIO, path, err)
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: failed to write %s: %v", tournament.ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: failed to close %s: %v", tournament.ErrIO, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: failed to replace %s: %v", tournament.ErrIO, path, err)
	}
	log.Debug("Rewrote data file", "path", path, "records", len(records))
	return nil
}

// AppendRecord adds a single record to the end of path, creating it if needed.
func AppendRecord(path string, record Record) error {
	line, err := encode(record)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create data dir: %v", tournament.ErrIO, err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s for append: %v", tournament.ErrIO, path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("%w: failed to append to %s: %v", tournament.ErrIO, path, err)
	}
	return nil
}

// LastID returns the first field of the last record in path, or "" when the
// file is missing or empty.
func LastID(path string) (string, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", nil
	}
	return records[len(records)-1].Field(0), nil
}

// Field returns the i-th field trimmed of surrounding space, or "" if the
// record is short.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// CleanField reports whether s can be stored as a field.
func CleanField(s string) bool {
	return strings.TrimSpace(s) != "" && !strings.ContainsAny(s, ",\n\r")
}

func encode(r Record) (string, error) {
	for _, field := range r {
		if strings.ContainsAny(field, ",\n\r") {
			return "", fmt.Errorf("%w: %q", tournament.ErrInvalidField, field)
		}
	}
	return strings.Join(r, ","), nil
}
