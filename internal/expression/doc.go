// Package expression turns what the user typed into something the
// evaluation engine accepts, and runs it.
//
// Normalize maps display glyphs (×, ÷, −, π) and named constants to the
// canonical ASCII syntax; MapToken does the same for a single keypad token.
// Engine evaluates canonical expressions through github.com/expr-lang/expr
// with a scientific function set registered, and Format prints the numeric
// result for display.
package expression
