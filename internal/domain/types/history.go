package types

// HistoryEntry records one successful evaluation.
type HistoryEntry struct {
	ID         string `json:"id,omitempty"`
	Expression string `json:"expression"`
	Result     string `json:"result"`
	CreatedUTC int64  `json:"created_utc,omitempty"`
}

// String renders the entry the way the history list shows it.
func (e HistoryEntry) String() string { return e.Expression + " = " + e.Result }
