// Package calculator implements the keypad calculator: it owns the input
// accumulator, evaluates it through an injected engine and records
// successful evaluations in the history service.
package calculator
