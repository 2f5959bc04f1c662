package domain

import "github.com/shopspring/decimal"

// TickerCategory groups tickers by their role in the reference schemes
type TickerCategory string

const (
	TickerCategoryCore        TickerCategory = "core"
	TickerCategoryGrowth      TickerCategory = "growth"
	TickerCategorySpeculation TickerCategory = "speculation"
	TickerCategoryCash        TickerCategory = "cash"
)

// TickerData is the reference record for one instrument
type TickerData struct {
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Sector   string          `json:"sector"`
	Category TickerCategory  `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Return1Y float64         `json:"return1Y"` // Percentage
	Vol      float64         `json:"vol"`      // Annualized, percentage
	Beta     float64         `json:"beta"`
}

// Scheme is a named reference allocation selectable as the active target
type Scheme struct {
	ID              int                        `json:"id"`
	Name            string                     `json:"name"`
	CategoryWeights map[TickerCategory]float64 `json:"weights"`
	Holdings        map[string]float64         `json:"holdings"` // symbol -> weight percentage
}

// MarketCatalog is the static market/scheme reference consulted by the
// reducer and the order lifecycle manager. It is never mutated by the core.
type MarketCatalog interface {
	// TickerBySymbol retrieves the reference record for a symbol
	TickerBySymbol(symbol string) (*TickerData, bool)

	// ReferencePrice retrieves the current reference price for a symbol
	ReferencePrice(symbol string) (decimal.Decimal, bool)

	// SchemeByID retrieves a reference allocation scheme by its id
	SchemeByID(id int) (*Scheme, bool)

	// Schemes retrieves all reference schemes in id order
	Schemes() []*Scheme
}
