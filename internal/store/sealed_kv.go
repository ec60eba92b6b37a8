package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"

	"calc/internal/domain"
)

const sealedFilename = "kv.json.enc"

// SealedKV is FileKV with the whole map sealed under a passphrase
// (scrypt-derived key, ChaCha20-Poly1305).
type SealedKV struct {
	path       string
	passphrase string
	params     kdfParams
	mu         sync.Mutex
}

// NewSealedKV returns a SealedKV rooted at dir.
func NewSealedKV(dir, passphrase string) (*SealedKV, error) {
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}
	return &SealedKV{
		path:       filepath.Join(dir, sealedFilename),
		passphrase: passphrase,
		params:     defaultKDFParams(),
	}, nil
}

// Get decrypts the store and returns the value under key.
func (s *SealedKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

// Set stores value under key and reseals the file with a fresh salt.
//
// Unlike FileKV, an unreadable file is an error here: overwriting it would
// silently discard data sealed under a different passphrase.
func (s *SealedKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value

	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	blob, err := seal(s.passphrase, raw, s.params)
	if err != nil {
		return err
	}
	return writeFile(s.path, blob, 0o600)
}

func (s *SealedKV) load() (map[string]string, error) {
	m := map[string]string{}
	b, err := readFile(s.path)
	if err != nil || b == nil {
		return m, err
	}
	raw, err := open(s.passphrase, b)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Compile-time assertion that SealedKV implements domain.KVStore.
var _ domain.KVStore = (*SealedKV)(nil)
