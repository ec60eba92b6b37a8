package interfaces

// Engine evaluates a canonical expression, optionally with variable bindings.
type Engine interface {
	Eval(expression string, vars map[string]float64) (float64, error)
}
