package model

// PricePoint is one dated value of an imported price history.
type PricePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// History is an imported price series for one ticker.
type History struct {
	Ticker     string       `json:"ticker"`
	Points     []PricePoint `json:"data"`
	SourceFile string       `json:"source_file,omitempty"`
}

// Values returns the history's values in order.
func (h *History) Values() []float64 {
	out := make([]float64, len(h.Points))
	for i, p := range h.Points {
		out[i] = p.Value
	}
	return out
}
