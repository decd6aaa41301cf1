package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage keeps every key in a single JSON object on disk, rewritten
// atomically on each change. Values must be valid JSON; callers store
// JSON-serialized data, so the file stays human readable.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage returns a FileStorage at path, creating parent directories.
// The file itself is created on first write.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		return nil, errors.New("file storage path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &FileStorage{path: path}, nil
}

// Path returns the backing file.
func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read()
	if err != nil {
		return nil, err
	}
	val, ok := items[key]
	if !ok {
		return nil, nil
	}
	return []byte(val), nil
}

func (s *FileStorage) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read()
	if err != nil {
		return err
	}
	items[key] = json.RawMessage(append([]byte(nil), value...))
	return s.write(items)
}

func (s *FileStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return s.write(items)
}

func (s *FileStorage) Close() error { return nil }

func (s *FileStorage) read() (map[string]json.RawMessage, error) {
	items := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading storage file: %w", err)
	}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing storage file %s: %w", s.path, err)
	}
	return items, nil
}

func (s *FileStorage) write(items map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding storage file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating storage dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".schedboard-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing storage file: %w", err)
	}
	return nil
}
