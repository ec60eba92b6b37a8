package theme

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"calc/internal/domain"
)

// StorageKey is the key the preference is stored under.
const StorageKey = "@calculator_theme"

// Service holds the current theme.
type Service struct {
	kv       domain.KVStore
	log      *zap.Logger
	fallback domain.Theme

	mu      sync.Mutex
	current domain.Theme

	// persistMu orders writes so the stored value is the last one set.
	persistMu sync.Mutex
}

// New returns a Service that reports fallback until something else is
// loaded or set. An invalid fallback means light.
func New(kv domain.KVStore, fallback domain.Theme, log *zap.Logger) *Service {
	if !fallback.Valid() {
		fallback = domain.ThemeLight
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{kv: kv, log: log.Named("theme"), fallback: fallback, current: fallback}
}

// Load reads the persisted preference. A missing, unknown or unreadable
// value yields the fallback.
func (s *Service) Load(ctx context.Context) domain.Theme {
	t := s.fallback
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	switch {
	case err != nil:
		s.log.Warn("Error loading theme", zap.Error(err))
	case ok:
		if parsed, valid := domain.ParseTheme(raw); valid {
			t = parsed
		} else {
			s.log.Debug("Ignoring unknown theme", zap.String("value", raw))
		}
	}

	s.mu.Lock()
	s.current = t
	s.mu.Unlock()
	return t
}

// Set makes t current and persists it. Invalid values are ignored.
func (s *Service) Set(ctx context.Context, t domain.Theme) {
	if !t.Valid() {
		s.log.Debug("Ignoring invalid theme", zap.Stringer("theme", t))
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.current = t
	s.mu.Unlock()
	s.persist(ctx, t)
}

// Toggle switches to the other theme, persists it and returns it.
func (s *Service) Toggle(ctx context.Context) domain.Theme {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	t := s.current.Toggle()
	s.current = t
	s.mu.Unlock()

	s.persist(ctx, t)
	return t
}

// Current returns the in-memory theme.
func (s *Service) Current() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) persist(ctx context.Context, t domain.Theme) {
	if err := s.kv.Set(ctx, StorageKey, t.String()); err != nil {
		s.log.Warn("Error saving theme", zap.Error(err), zap.Stringer("theme", t))
	}
}

// Compile-time assertion that Service implements domain.ThemeService.
var _ domain.ThemeService = (*Service)(nil)
