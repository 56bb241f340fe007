// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single maximum offer search. Value is the
// highest purchase price found that meets Threshold on Metric; Achieved is the
// metric at that price.
type Summary struct {
	TargetName      string   `json:"target_name"`
	Field           string   `json:"field"`
	Metric          string   `json:"metric"`
	Threshold       float64  `json:"threshold"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	Achieved        *float64 `json:"achieved"`
	Headroom        float64  `json:"headroom"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"original_display,omitempty"`
	ValueDisplay    string   `json:"value_display,omitempty"`
}

// Discount is how far below the asking price the offer sits. It is negative
// when the deal could bear a higher price.
func (s Summary) Discount() float64 {
	return s.Original - s.Value
}
