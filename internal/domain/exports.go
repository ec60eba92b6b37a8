package domain

import (
	interfaces "calc/internal/domain/interfaces"
	types "calc/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Display      = types.Display
	HistoryEntry = types.HistoryEntry
	Theme        = types.Theme
	Point        = types.Point
	Series       = types.Series
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	KVStore           = interfaces.KVStore
	Engine            = interfaces.Engine
	HistoryService    = interfaces.HistoryService
	CalculatorService = interfaces.CalculatorService
	PlotService       = interfaces.PlotService
	ThemeService      = interfaces.ThemeService
)

// Re-exported constants.
const (
	ErrorResult       = types.ErrorResult
	MaxHistoryEntries = types.MaxHistoryEntries
	ThemeLight        = types.ThemeLight
	ThemeDark         = types.ThemeDark
)

// ParseTheme maps s to a Theme, reporting false for anything else.
func ParseTheme(s string) (Theme, bool) { return types.ParseTheme(s) }
