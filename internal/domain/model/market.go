package model

// MarketQuote is a posted line and price for one side of a bet, with optional
// market-sentiment context. Quotes are supplied externally and read-only to
// the engine. Price follows American-odds convention (-110, +150).
type MarketQuote struct {
	Line  float64 `json:"line"`
	Price int     `json:"price"`

	// Optional sentiment fields; nil means not observed.
	PublicPct   *float64 `json:"public_pct,omitempty"`
	SharpPct    *float64 `json:"sharp_pct,omitempty"`
	OpeningLine *float64 `json:"opening_line,omitempty"`
}

// ClosingLineValue is the movement from the opening line to the posted line.
// Positive values mean the market moved toward the quoted side. Returns
// (0, false) when no opening line was supplied.
func (q MarketQuote) ClosingLineValue() (float64, bool) {
	if q.OpeningLine == nil {
		return 0, false
	}
	return q.Line - *q.OpeningLine, true
}

// Float is a convenience for building optional quote fields.
func Float(v float64) *float64 { return &v }
