// Package input holds the expression being typed on the keypad.
package input

import (
	"strings"

	"calc/internal/expression"
)

// State is the accumulator's state.
type State int

const (
	Empty State = iota
	NonEmpty
)

// String returns a short name for the state.
func (s State) String() string {
	if s == Empty {
		return "empty"
	}
	return "non-empty"
}

// operators are the tokens the adjacency guard looks at. The ASCII forms are
// included because keypad glyphs are mapped before the check.
const operators = "+-*/%×÷"

// IsOperator reports whether token is a single operator glyph.
func IsOperator(token string) bool {
	rs := []rune(token)
	return len(rs) == 1 && strings.ContainsRune(operators, rs[0])
}

// Accumulator is the expression under construction.
//
// The guard is character level: it only rejects an operator typed into an
// empty accumulator or directly after another operator. Anything else that
// is malformed is left for the engine to reject. An Accumulator is not safe
// for concurrent use.
type Accumulator struct {
	buf []rune
}

// State reports Empty or NonEmpty.
func (a *Accumulator) State() State {
	if len(a.buf) == 0 {
		return Empty
	}
	return NonEmpty
}

// String returns the accumulated text.
func (a *Accumulator) String() string { return string(a.buf) }

// Append maps token with expression.MapToken and concatenates it, reporting
// whether the token was accepted.
//
// Constants are stored as their numeric value. When one follows a number or
// a closing parenthesis an explicit '*' is put in front of it.
func (a *Accumulator) Append(token string) bool {
	mapped := expression.MapToken(token)
	if mapped == "" {
		return false
	}
	if IsOperator(mapped) {
		if len(a.buf) == 0 || IsOperator(string(a.buf[len(a.buf)-1])) {
			return false
		}
	}
	if isConstant(mapped) && len(a.buf) > 0 && joinsOperand(a.buf[len(a.buf)-1]) {
		a.buf = append(a.buf, '*')
	}
	a.buf = append(a.buf, []rune(mapped)...)
	return true
}

// DeleteLast removes the final character, if any.
func (a *Accumulator) DeleteLast() {
	if len(a.buf) > 0 {
		a.buf = a.buf[:len(a.buf)-1]
	}
}

// Clear resets to Empty.
func (a *Accumulator) Clear() { a.buf = a.buf[:0] }

// Set replaces the accumulated text.
func (a *Accumulator) Set(s string) { a.buf = []rune(s) }

func isConstant(s string) bool {
	return s == expression.PiLiteral || s == expression.ELiteral
}

func joinsOperand(r rune) bool { return (r >= '0' && r <= '9') || r == '.' || r == ')' }
