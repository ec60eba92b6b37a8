package calculator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"calc/internal/domain"
	"calc/internal/expression"
	"calc/internal/input"
)

// Keypad keys with behaviour other than appending to the accumulator.
const (
	KeyEquals = "="
	KeyClear  = "C"
	KeyDelete = "DEL"
)

// Service is the calculator screen state.
type Service struct {
	engine  domain.Engine
	history domain.HistoryService
	log     *zap.Logger

	mu     sync.Mutex
	acc    input.Accumulator
	result string
}

// New returns a Service evaluating with engine and recording into history.
// A nil logger discards log output.
func New(engine domain.Engine, history domain.HistoryService, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{engine: engine, history: history, log: log.Named("calculator")}
}

// Press handles one keypad key and returns the resulting display.
func (s *Service) Press(ctx context.Context, key string) domain.Display {
	switch key {
	case KeyEquals:
		return s.Evaluate(ctx)
	case KeyClear:
		s.mu.Lock()
		defer s.mu.Unlock()
		s.acc.Clear()
		s.result = ""
		return s.displayLocked()
	case KeyDelete:
		s.mu.Lock()
		defer s.mu.Unlock()
		s.acc.DeleteLast()
		return s.displayLocked()
	default:
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.acc.Append(key) {
			s.log.Debug("Rejected key", zap.String("key", key), zap.Stringer("state", s.acc.State()))
		}
		return s.displayLocked()
	}
}

// Evaluate evaluates the accumulator.
//
// An empty accumulator clears the result without calling the engine. On
// success the formatted value becomes both the result and the new
// accumulator content, and the pair is recorded. On failure the result is
// domain.ErrorResult and the accumulator is left as typed. Recording runs
// after the screen state is updated, so Press and Display never wait on
// storage.
func (s *Service) Evaluate(ctx context.Context) domain.Display {
	s.mu.Lock()
	typed := s.acc.String()
	if strings.TrimSpace(typed) == "" {
		s.result = ""
		d := s.displayLocked()
		s.mu.Unlock()
		return d
	}

	value, err := s.evaluate(typed)
	if err != nil {
		s.result = domain.ErrorResult
	} else {
		s.result = value
		s.acc.Set(value)
	}
	d := s.displayLocked()
	s.mu.Unlock()

	if err == nil {
		s.record(ctx, typed, value)
	}
	return d
}

// EvaluateString evaluates raw in one shot, leaving the accumulator alone.
// The pair is recorded only when record is set. On failure the returned
// string is domain.ErrorResult alongside the error.
func (s *Service) EvaluateString(ctx context.Context, raw string, record bool) (string, error) {
	typed := strings.TrimSpace(raw)
	if typed == "" {
		return "", nil
	}
	value, err := s.evaluate(typed)
	if err != nil {
		return domain.ErrorResult, err
	}
	if record {
		s.record(ctx, typed, value)
	}
	return value, nil
}

// SelectHistory loads the expression of the history entry at index into the
// accumulator. With withResult the entry's result is shown as well;
// otherwise the result line is cleared.
func (s *Service) SelectHistory(_ context.Context, index int, withResult bool) (domain.Display, error) {
	entry, err := s.history.SelectEntry(index)
	if err != nil {
		return s.Display(), fmt.Errorf("select history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.acc.Set(entry.Expression)
	s.result = ""
	if withResult {
		s.result = entry.Result
	}
	return s.displayLocked(), nil
}

// Display returns the current screen contents.
func (s *Service) Display() domain.Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayLocked()
}

func (s *Service) displayLocked() domain.Display {
	return domain.Display{Expression: s.acc.String(), Result: s.result}
}

func (s *Service) evaluate(typed string) (string, error) {
	normalized := expression.Normalize(typed)
	v, err := s.engine.Eval(normalized, nil)
	if err != nil {
		s.log.Debug("Evaluation failed",
			zap.String("expression", typed),
			zap.String("normalized", normalized),
			zap.Error(err))
		return "", err
	}

	value := expression.Format(v)
	s.log.Debug("Evaluated", zap.String("expression", typed), zap.String("result", value))
	return value, nil
}

func (s *Service) record(ctx context.Context, typed, value string) {
	s.history.Append(ctx, domain.HistoryEntry{Expression: typed, Result: value})
}

// Compile-time assertion that Service implements domain.CalculatorService.
var _ domain.CalculatorService = (*Service)(nil)
