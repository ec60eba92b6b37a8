package expression

import (
	"strings"
	"unicode"
)

// Numeric literals substituted for the named constants.
const (
	PiLiteral = "3.141592653589793"
	ELiteral  = "2.718281828459045"
)

// Normalize rewrites calculator display symbols into the syntax the engine
// parses: operator glyphs become ASCII and the named constants π, pi and a
// standalone e become numeric literals. A constant written directly after a
// number or closing parenthesis (or directly before an operand) gets an
// explicit '*' so "2π" reads as 2*π.
//
// Normalize never fails and is idempotent.
func Normalize(raw string) string {
	rs := []rune(raw)
	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == '×' || r == '·':
			b.WriteByte('*')
			i++
		case r == '÷':
			b.WriteByte('/')
			i++
		case r == '−':
			b.WriteByte('-')
			i++
		case r == 'π':
			writeConstant(&b, PiLiteral, rs, i+1)
			i++
		case isIdentStart(r):
			j := i + 1
			for j < len(rs) && isIdentPart(rs[j]) {
				j++
			}
			word := string(rs[i:j])
			switch {
			case word == "pi" || word == "PI" || word == "Pi":
				writeConstant(&b, PiLiteral, rs, j)
			case word == "e" && !isExponent(rs, i):
				writeConstant(&b, ELiteral, rs, j)
			default:
				b.WriteString(word)
			}
			i = j
		default:
			b.WriteRune(r)
			i++
		}
	}
	return b.String()
}

// MapToken converts a single keypad token into the text the accumulator
// stores. Constants are inserted as their numeric value, not the symbol.
func MapToken(token string) string {
	switch token {
	case "÷":
		return "/"
	case "×":
		return "*"
	case "π":
		return PiLiteral
	case "e":
		return ELiteral
	default:
		return token
	}
}

func writeConstant(b *strings.Builder, literal string, rs []rune, next int) {
	if s := b.String(); s != "" && joinsOperand(rune(s[len(s)-1])) {
		b.WriteByte('*')
	}
	b.WriteString(literal)
	if next < len(rs) && startsOperand(rs[next]) {
		b.WriteByte('*')
	}
}

// isExponent reports whether the 'e' at rs[i] is the exponent marker of a
// numeric literal such as 1e5 or 2.5e-3.
func isExponent(rs []rune, i int) bool {
	if i == 0 || !(isDigit(rs[i-1]) || rs[i-1] == '.') {
		return false
	}
	if i+1 >= len(rs) {
		return false
	}
	next := rs[i+1]
	if isDigit(next) {
		return true
	}
	return (next == '+' || next == '-') && i+2 < len(rs) && isDigit(rs[i+2])
}

func joinsOperand(r rune) bool { return isDigit(r) || r == '.' || r == ')' }

func startsOperand(r rune) bool { return isDigit(r) || r == '.' || r == '(' || isIdentStart(r) }

func isIdentStart(r rune) bool { return r == '_' || (unicode.IsLetter(r) && r != 'π') }

func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
