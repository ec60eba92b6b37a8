package types

// Point is one sample of a plotted expression.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is an expression sampled over the plotting domain.
type Series struct {
	Expression string   `json:"expression"`
	Variable   string   `json:"variable"`
	Points     []Point  `json:"points"`
	Labels     []string `json:"labels"`
	// Failed counts samples the engine rejected; those points carry Y = 0.
	Failed int `json:"failed"`
}

// Ys returns the sampled values in order.
func (s Series) Ys() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Y
	}
	return out
}
