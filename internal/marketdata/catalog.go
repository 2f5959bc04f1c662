// Package marketdata provides the static market/scheme reference catalog.
// It implements domain.MarketCatalog and is the only "repository" the
// engine consults: symbols with reference prices, sectors and betas, plus
// the five named allocation schemes.
package marketdata

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-engine/internal/domain"
)

// ticker is the declaration-order record the catalog is built from
type ticker struct {
	symbol   string
	name     string
	sector   string
	category domain.TickerCategory
	price    string
	return1Y float64
	vol      float64
	beta     float64
}

// Universe declaration. Category membership drives scheme holdings: each
// scheme weights a category, split evenly across the category's tickers.
var tickers = []ticker{
	// Core
	{"AAPL", "Apple Inc.", "Technology", domain.TickerCategoryCore, "190.00", 14.2, 22.4, 1.21},
	{"MSFT", "Microsoft Corporation", "Technology", domain.TickerCategoryCore, "415.00", 18.6, 21.1, 1.12},
	{"JNJ", "Johnson & Johnson", "Healthcare", domain.TickerCategoryCore, "155.50", -2.4, 13.8, 0.55},
	{"PG", "Procter & Gamble", "Consumer Staples", domain.TickerCategoryCore, "165.20", 7.1, 12.9, 0.47},
	{"JPM", "JPMorgan Chase & Co.", "Financials", domain.TickerCategoryCore, "198.40", 21.3, 19.6, 1.08},
	{"UNH", "UnitedHealth Group", "Healthcare", domain.TickerCategoryCore, "521.30", 6.8, 17.2, 0.62},
	{"KO", "Coca-Cola Company", "Consumer Staples", domain.TickerCategoryCore, "60.10", 3.9, 11.4, 0.52},
	{"V", "Visa Inc.", "Financials", domain.TickerCategoryCore, "281.70", 15.4, 18.3, 0.96},
	// Growth
	{"NVDA", "NVIDIA Corporation", "Technology", domain.TickerCategoryGrowth, "880.00", 92.5, 48.7, 1.74},
	{"AMZN", "Amazon.com Inc.", "Consumer Discretionary", domain.TickerCategoryGrowth, "178.20", 28.4, 30.2, 1.18},
	{"META", "Meta Platforms Inc.", "Technology", domain.TickerCategoryGrowth, "400.00", 41.8, 34.5, 1.26},
	{"GOOGL", "Alphabet Inc.", "Technology", domain.TickerCategoryGrowth, "174.60", 24.7, 27.8, 1.05},
	{"CRM", "Salesforce Inc.", "Technology", domain.TickerCategoryGrowth, "301.90", 12.3, 29.4, 1.22},
	{"ADBE", "Adobe Inc.", "Technology", domain.TickerCategoryGrowth, "558.40", 9.8, 28.6, 1.30},
	// Speculation
	{"PLTR", "Palantir Technologies", "Technology", domain.TickerCategorySpeculation, "24.30", 67.2, 58.3, 1.88},
	{"COIN", "Coinbase Global Inc.", "Financials", domain.TickerCategorySpeculation, "242.10", 88.9, 74.6, 2.31},
	{"MARA", "Marathon Digital Holdings", "Financials", domain.TickerCategorySpeculation, "20.40", 104.7, 92.1, 2.64},
	{"SMCI", "Super Micro Computer", "Technology", domain.TickerCategorySpeculation, "901.50", 121.4, 71.8, 2.05},
	{"SOFI", "SoFi Technologies", "Financials", domain.TickerCategorySpeculation, "8.90", 19.6, 55.7, 1.93},
	// Cash equivalents
	{"BIL", "SPDR 1-3 Month T-Bill ETF", "Cash", domain.TickerCategoryCash, "91.60", 5.2, 0.3, 0.01},
	{"SHV", "iShares Short Treasury Bond ETF", "Cash", domain.TickerCategoryCash, "110.20", 5.1, 0.4, 0.01},
	{"SGOV", "iShares 0-3 Month Treasury ETF", "Cash", domain.TickerCategoryCash, "100.40", 5.3, 0.2, 0.0},
	{"USFR", "WisdomTree Floating Rate Treasury", "Cash", domain.TickerCategoryCash, "50.40", 5.4, 0.3, 0.01},
}

// The five reference schemes. Category weights sum to 100; per-symbol
// holdings are derived in NewCatalog.
var schemes = []struct {
	id      int
	name    string
	weights map[domain.TickerCategory]float64
}{
	{1, "Extreme Bull", map[domain.TickerCategory]float64{domain.TickerCategoryCore: 40, domain.TickerCategoryGrowth: 30, domain.TickerCategorySpeculation: 20, domain.TickerCategoryCash: 10}},
	{2, "Moderate Bull", map[domain.TickerCategory]float64{domain.TickerCategoryCore: 40, domain.TickerCategoryGrowth: 30, domain.TickerCategorySpeculation: 10, domain.TickerCategoryCash: 20}},
	{3, "Neutral", map[domain.TickerCategory]float64{domain.TickerCategoryCore: 40, domain.TickerCategoryGrowth: 30, domain.TickerCategorySpeculation: 0, domain.TickerCategoryCash: 30}},
	{4, "Mild Bear", map[domain.TickerCategory]float64{domain.TickerCategoryCore: 40, domain.TickerCategoryGrowth: 15, domain.TickerCategorySpeculation: 0, domain.TickerCategoryCash: 45}},
	{5, "Extreme Bear", map[domain.TickerCategory]float64{domain.TickerCategoryCore: 40, domain.TickerCategoryGrowth: 0, domain.TickerCategorySpeculation: 0, domain.TickerCategoryCash: 60}},
}

// Catalog is the static domain.MarketCatalog implementation
type Catalog struct {
	bySymbol map[string]domain.TickerData
	ordered  []string
	schemes  []domain.Scheme
}

// NewCatalog builds the catalog, deriving each scheme's per-symbol holdings
// by splitting the category weight evenly across the category's tickers
// (rounded to two decimals)
func NewCatalog() *Catalog {
	c := &Catalog{
		bySymbol: make(map[string]domain.TickerData, len(tickers)),
		ordered:  make([]string, 0, len(tickers)),
	}

	byCategory := make(map[domain.TickerCategory][]string)
	for _, t := range tickers {
		c.bySymbol[t.symbol] = domain.TickerData{
			Symbol:   t.symbol,
			Name:     t.name,
			Sector:   t.sector,
			Category: t.category,
			Price:    decimal.RequireFromString(t.price),
			Return1Y: t.return1Y,
			Vol:      t.vol,
			Beta:     t.beta,
		}
		c.ordered = append(c.ordered, t.symbol)
		byCategory[t.category] = append(byCategory[t.category], t.symbol)
	}

	for _, s := range schemes {
		holdings := make(map[string]float64)
		for category, weight := range s.weights {
			members := byCategory[category]
			if weight == 0 || len(members) == 0 {
				continue
			}
			perTicker := math.Round(weight/float64(len(members))*100) / 100
			for _, symbol := range members {
				holdings[symbol] = perTicker
			}
		}
		categoryWeights := make(map[domain.TickerCategory]float64, len(s.weights))
		for category, weight := range s.weights {
			categoryWeights[category] = weight
		}
		c.schemes = append(c.schemes, domain.Scheme{
			ID:              s.id,
			Name:            s.name,
			CategoryWeights: categoryWeights,
			Holdings:        holdings,
		})
	}

	return c
}

// TickerBySymbol retrieves the reference record for a symbol
func (c *Catalog) TickerBySymbol(symbol string) (*domain.TickerData, bool) {
	t, ok := c.bySymbol[symbol]
	if !ok {
		return nil, false
	}
	copied := t
	return &copied, true
}

// ReferencePrice retrieves the current reference price for a symbol
func (c *Catalog) ReferencePrice(symbol string) (decimal.Decimal, bool) {
	t, ok := c.bySymbol[symbol]
	if !ok {
		return decimal.Zero, false
	}
	return t.Price, true
}

// SchemeByID retrieves a reference scheme by id.
// The returned scheme is a copy; callers cannot mutate the catalog.
func (c *Catalog) SchemeByID(id int) (*domain.Scheme, bool) {
	for i := range c.schemes {
		if c.schemes[i].ID == id {
			copied := cloneScheme(c.schemes[i])
			return &copied, true
		}
	}
	return nil, false
}

// Schemes retrieves all reference schemes in id order
func (c *Catalog) Schemes() []*domain.Scheme {
	out := make([]*domain.Scheme, len(c.schemes))
	for i := range c.schemes {
		copied := cloneScheme(c.schemes[i])
		out[i] = &copied
	}
	return out
}

// Symbols returns all catalog symbols in declaration order (category-major).
// Used by the bootstrap to build positions deterministically.
func (c *Catalog) Symbols() []string {
	return append([]string(nil), c.ordered...)
}

func cloneScheme(s domain.Scheme) domain.Scheme {
	copied := s
	copied.Holdings = make(map[string]float64, len(s.Holdings))
	for symbol, weight := range s.Holdings {
		copied.Holdings[symbol] = weight
	}
	copied.CategoryWeights = make(map[domain.TickerCategory]float64, len(s.CategoryWeights))
	for category, weight := range s.CategoryWeights {
		copied.CategoryWeights[category] = weight
	}
	return copied
}
