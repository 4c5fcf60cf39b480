package backend

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Storage keeps receipt files. Paths are flat names inside the store.
type Storage interface {
	Save(name string, data []byte) (string, error)
	Get(name string) ([]byte, error)
	Delete(name string) error
}

// LocalStorage keeps receipts in a single directory
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates dir if needed
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating receipt directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// file maps a receipt name to its location, refusing anything that is not a
// bare file name
func (l *LocalStorage) file(name string) (string, error) {
	if name == "" || name == "." || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid receipt name %q", name)
	}
	return filepath.Join(l.dir, name), nil
}

// Save writes data under name. The file appears only once fully written.
func (l *LocalStorage) Save(name string, data []byte) (string, error) {
	target, err := l.file(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp receipt: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing receipt %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing receipt %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("setting receipt mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("storing receipt %s: %w", name, err)
	}
	return name, nil
}

// Get reads a receipt. A missing receipt is ErrNotFound.
func (l *LocalStorage) Get(name string) ([]byte, error) {
	path, err := l.file(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("receipt %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading receipt %s: %w", name, err)
	}
	return data, nil
}

// Delete removes a receipt, ignoring receipts already gone
func (l *LocalStorage) Delete(name string) error {
	path, err := l.file(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting receipt %s: %w", name, err)
	}
	return nil
}
