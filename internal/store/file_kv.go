package store

import (
	"context"
	"path/filepath"
	"sync"

	"calc/internal/domain"
)

const kvFilename = "kv.json"

// FileKV keeps every key in a single JSON object on disk.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV returns a FileKV rooted at dir.
func NewFileKV(dir string) *FileKV {
	return &FileKV{path: filepath.Join(dir, kvFilename)}
}

// Path returns the backing file.
func (s *FileKV) Path() string { return s.path }

// Get returns the value stored under key.
func (s *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m := map[string]string{}
	if err := readJSON(s.path, &m); err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

// Set stores value under key, rewriting the file atomically.
func (s *FileKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// A corrupt file is replaced rather than blocking every later write.
	m := map[string]string{}
	_ = readJSON(s.path, &m)
	m[key] = value
	return writeJSON(s.path, m, 0o600)
}

// Compile-time assertion that FileKV implements domain.KVStore.
var _ domain.KVStore = (*FileKV)(nil)
