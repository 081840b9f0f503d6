// Package file persists users and loans as JSON arrays on local disk. Every
// operation loads the whole file and every write replaces it, so it suits a
// single process with small data sets.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// table is one JSON array file. mu serialises load-modify-save cycles within
// the process; other processes writing the same file are not coordinated.
type table[T any] struct {
	mu   sync.Mutex
	path string
}

func newTable[T any](dir, name string) (*table[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	t := &table[T]{path: filepath.Join(dir, name)}

	if _, err := os.Stat(t.path); errors.Is(err, fs.ErrNotExist) {
		if err := t.save([]T{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	return t, nil
}

func (t *table[T]) load() ([]T, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(t.path), err)
	}

	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(t.path), err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// save writes through a temp file and rename so readers never see a partial
// array.
func (t *table[T]) save(rows []T) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(t.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(t.path), filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(t.path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(t.path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(t.path), err)
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(t.path), err)
	}
	return nil
}

// read runs fn over a snapshot of the rows.
func (t *table[T]) read(fn func([]T) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.load()
	if err != nil {
		return err
	}
	return fn(rows)
}

// update loads the rows, lets fn modify them and saves the result. Nothing is
// written when fn returns an error.
func (t *table[T]) update(fn func([]T) ([]T, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.load()
	if err != nil {
		return err
	}
	rows, err = fn(rows)
	if err != nil {
		return err
	}
	return t.save(rows)
}
