package models

// BreakdownLine is one human-readable entry of the price breakdown.
type BreakdownLine struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
}

// AddOnPricing is the customer-facing pricing summary for a design.
type AddOnPricing struct {
	AddOnPrice float64         `json:"addOnPrice"`
	Breakdown  []BreakdownLine `json:"breakdown"`
}

// QuoteResult is the full engine output: the summary plus per-element
// prices keyed by element id (zero for disabled elements), used by the UI
// to render per-item costs.
type QuoteResult struct {
	AddOnPricing AddOnPricing       `json:"addOnPricing"`
	ItemPrices   map[string]float64 `json:"itemPrices"`
}
