package types

// ErrorResult is the display value shown when an expression cannot be evaluated.
const ErrorResult = "Error"

// MaxHistoryEntries bounds the recent-history list.
const MaxHistoryEntries = 10

// Display is what the calculator screen shows: the expression being typed
// and the result of the last evaluation.
type Display struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// Failed reports whether the result line carries the error sentinel.
func (d Display) Failed() bool { return d.Result == ErrorResult }
