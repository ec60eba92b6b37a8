package expression

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"

	"calc/internal/domain"
)

var (
	// ErrEvaluate is returned when the engine rejects an expression.
	ErrEvaluate = errors.New("evaluate expression")

	// ErrNotNumeric is returned when an expression evaluates to something
	// other than a number, for example a comparison.
	ErrNotNumeric = errors.New("result is not a number")
)

// maxCachedPrograms bounds the compiled-program cache; the cache is dropped
// wholesale once it fills up.
const maxCachedPrograms = 256

// Engine evaluates expressions with github.com/expr-lang/expr.
//
// All arithmetic is float64: integer literals are compiled as floats and %
// is the floating-point remainder (math.Mod), so nothing wraps on overflow.
// Besides the operators expr understands natively (+ - * / % ^ **), the
// engine registers sin, cos, tan, asin, acos, atan, sqrt, log (base 10),
// ln, exp and abs, and binds the identifiers pi and e.
type Engine struct {
	mu       sync.Mutex
	programs map[string]*vm.Program
}

// NewEngine returns an Engine with an empty program cache.
func NewEngine() *Engine {
	return &Engine{programs: make(map[string]*vm.Program)}
}

// Eval compiles (or reuses) the program for expression and runs it with
// vars bound. Division and remainder by zero follow IEEE semantics.
func (e *Engine) Eval(expression string, vars map[string]float64) (float64, error) {
	src := strings.TrimSpace(expression)
	if src == "" {
		return 0, fmt.Errorf("%w: empty expression", ErrEvaluate)
	}
	src = widenIntegerLiterals(src)

	env := baseEnv(vars)
	program, err := e.program(src, env)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEvaluate, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEvaluate, err)
	}
	return toNumber(out)
}

func (e *Engine) program(src string, env map[string]any) (*vm.Program, error) {
	key := cacheKey(src, env)

	e.mu.Lock()
	p, ok := e.programs[key]
	e.mu.Unlock()
	if ok {
		return p, nil
	}

	p, err := expr.Compile(src, compileOptions(env)...)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if len(e.programs) >= maxCachedPrograms {
		e.programs = make(map[string]*vm.Program)
	}
	e.programs[key] = p
	e.mu.Unlock()
	return p, nil
}

func compileOptions(env map[string]any) []expr.Option {
	opts := []expr.Option{
		expr.Env(env),
		expr.Patch(floatLiterals{}),
		expr.Function("mod", binary(math.Mod), new(func(float64, float64) float64)),
		expr.Operator("%", "mod"),
	}
	for _, name := range functionNames {
		opts = append(opts, expr.DisableBuiltin(name), unary(name, functions[name]))
	}
	return opts
}

// floatLiterals rewrites integer literals into float literals so that every
// operator works on float64.
type floatLiterals struct{}

func (floatLiterals) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.IntegerNode); ok {
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	}
}

// maxIntegerDigits is the longest decimal literal expr parses as an int64
// without risk of overflow.
const maxIntegerDigits = 18

// widenIntegerLiterals appends ".0" to decimal literals too long for int64
// so the parser reads them as floats instead of rejecting them.
func widenIntegerLiterals(src string) string {
	var b strings.Builder
	for i := 0; i < len(src); {
		if !isDigitByte(src[i]) || (i > 0 && continuesToken(src[i-1])) {
			b.WriteByte(src[i])
			i++
			continue
		}
		j := i
		for j < len(src) && isDigitByte(src[j]) {
			j++
		}
		b.WriteString(src[i:j])
		if j-i > maxIntegerDigits && (j == len(src) || !continuesToken(src[j])) {
			b.WriteString(".0")
		}
		i = j
	}
	return b.String()
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

// continuesToken reports whether c glues onto an adjacent digit run, making
// it part of an identifier or a non-decimal literal.
func continuesToken(c byte) bool {
	return isDigitByte(c) || c == '.' || c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

var functions = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"sqrt": math.Sqrt,
	"log":  math.Log10,
	"ln":   math.Log,
	"exp":  math.Exp,
	"abs":  math.Abs,
}

var functionNames = func() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

func unary(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		x, err := toNumber(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn(x), nil
	}, new(func(float64) float64))
}

func binary(fn func(float64, float64) float64) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("expected 2 arguments, got %d", len(params))
		}
		x, err := toNumber(params[0])
		if err != nil {
			return nil, err
		}
		y, err := toNumber(params[1])
		if err != nil {
			return nil, err
		}
		return fn(x, y), nil
	}
}

func baseEnv(vars map[string]float64) map[string]any {
	env := map[string]any{
		"pi": math.Pi,
		"e":  math.E,
	}
	for k, v := range vars {
		env[k] = v
	}
	return env
}

// cacheKey keys a program by its source and the bound identifier names,
// since expr type-checks identifiers at compile time.
func cacheKey(src string, env map[string]any) string {
	names := make([]string, 0, len(env))
	for k := range env {
		names = append(names, k)
	}
	sort.Strings(names)
	return src + "\x00" + strings.Join(names, ",")
}

func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}

// Compile-time assertion that Engine implements domain.Engine.
var _ domain.Engine = (*Engine)(nil)
