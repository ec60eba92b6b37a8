package interfaces

import (
	"context"

	domaintypes "calc/internal/domain/types"
)

// HistoryService keeps the bounded, most-recent-first calculation history.
type HistoryService interface {
	Load(ctx context.Context) []domaintypes.HistoryEntry
	Append(ctx context.Context, entry domaintypes.HistoryEntry) domaintypes.HistoryEntry
	Remove(ctx context.Context, index int) error
	Clear(ctx context.Context)
	Select(index int) (string, error)
	SelectEntry(index int) (domaintypes.HistoryEntry, error)
	Entries() []domaintypes.HistoryEntry
}

// CalculatorService owns the input accumulator and evaluates it.
type CalculatorService interface {
	Press(ctx context.Context, key string) domaintypes.Display
	Evaluate(ctx context.Context) domaintypes.Display
	EvaluateString(ctx context.Context, raw string, record bool) (string, error)
	SelectHistory(ctx context.Context, index int, withResult bool) (domaintypes.Display, error)
	Display() domaintypes.Display
}

// PlotService samples expressions for the plotting screen.
type PlotService interface {
	Sample(expression, variable string) domaintypes.Series
}

// ThemeService persists the light/dark preference.
type ThemeService interface {
	Load(ctx context.Context) domaintypes.Theme
	Set(ctx context.Context, theme domaintypes.Theme)
	Toggle(ctx context.Context) domaintypes.Theme
	Current() domaintypes.Theme
}
