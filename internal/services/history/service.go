package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"calc/internal/domain"
)

// StorageKey is the key the serialized list is stored under.
const StorageKey = "@calculator_history"

// ErrIndexOutOfRange is returned by index-based operations given a position
// outside the current list.
var ErrIndexOutOfRange = errors.New("history index out of range")

// Service is the history store.
type Service struct {
	kv    domain.KVStore
	log   *zap.Logger
	limit int

	mu      sync.Mutex
	entries []domain.HistoryEntry

	// persistMu is held from snapshot to kv.Set, and across Load, so
	// storage sees operations in the order they changed the list.
	persistMu sync.Mutex

	now   func() time.Time
	newID func() string
}

// New returns a Service persisting to kv. A nil logger discards log output.
func New(kv domain.KVStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		kv:    kv,
		log:   log.Named("history"),
		limit: domain.MaxHistoryEntries,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Load reads the persisted list and makes it the in-memory list.
//
// A missing key yields an empty list. A storage error or an undecodable
// value is logged, returns an empty list and leaves the in-memory list as
// it was.
func (s *Service) Load(ctx context.Context) []domain.HistoryEntry {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.log.Warn("Error loading history", zap.Error(err))
		return []domain.HistoryEntry{}
	}

	var entries []domain.HistoryEntry
	if ok {
		entries, err = decode(raw)
		if err != nil {
			s.log.Warn("Discarding undecodable history", zap.Error(err))
			return []domain.HistoryEntry{}
		}
	}
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	s.mu.Lock()
	s.entries = entries
	out := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Debug("History loaded", zap.Int("entries", len(out)))
	return out
}

// Append puts entry at the front, evicts past the bound and persists.
// A missing ID or timestamp is filled in; the stored entry is returned.
func (s *Service) Append(ctx context.Context, entry domain.HistoryEntry) domain.HistoryEntry {
	if entry.ID == "" {
		entry.ID = s.newID()
	}
	if entry.CreatedUTC == 0 {
		entry.CreatedUTC = s.now().Unix()
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	next := make([]domain.HistoryEntry, 0, s.limit)
	next = append(next, entry)
	next = append(next, s.entries...)
	if len(next) > s.limit {
		next = next[:s.limit]
	}
	s.entries = next
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return entry
}

// Remove deletes the entry at index and persists.
func (s *Service) Remove(ctx context.Context, index int) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	if index < 0 || index >= len(s.entries) {
		n := len(s.entries)
		s.mu.Unlock()
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, n)
	}
	next := make([]domain.HistoryEntry, 0, len(s.entries)-1)
	next = append(next, s.entries[:index]...)
	next = append(next, s.entries[index+1:]...)
	s.entries = next
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return nil
}

// Clear empties the list and persists.
func (s *Service) Clear(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	s.persist(ctx, nil)
}

// Select returns the expression of the entry at index, for re-insertion into
// the accumulator.
func (s *Service) Select(index int) (string, error) {
	e, err := s.SelectEntry(index)
	if err != nil {
		return "", err
	}
	return e.Expression, nil
}

// SelectEntry returns the whole entry at index.
func (s *Service) SelectEntry(index int) (domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return domain.HistoryEntry{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.entries))
	}
	return s.entries[index], nil
}

// Entries returns a copy of the in-memory list, most recent first.
func (s *Service) Entries() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Service) persist(ctx context.Context, entries []domain.HistoryEntry) {
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		s.log.Error("Error encoding history", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(b)); err != nil {
		s.log.Warn("Error saving history", zap.Error(err), zap.Int("entries", len(entries)))
	}
}

// decode accepts the current entry list and the older form that stored each
// entry as a single "expression = result" string.
func decode(raw string) ([]domain.HistoryEntry, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err == nil {
		return entries, nil
	}

	var lines []string
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, err
	}
	entries = make([]domain.HistoryEntry, 0, len(lines))
	for _, line := range lines {
		expr, result, _ := strings.Cut(line, " = ")
		entries = append(entries, domain.HistoryEntry{Expression: expr, Result: result})
	}
	return entries, nil
}

// Compile-time assertion that Service implements domain.HistoryService.
var _ domain.HistoryService = (*Service)(nil)
