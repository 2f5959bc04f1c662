// Package bootstrap builds the default portfolio snapshot used when no
// snapshot file is supplied. The snapshot is fully deterministic: the
// synthetic performance history comes from a fixed-seed generator and the
// headline risk figures are derived from that history, so replaying the
// same command script always starts from the same aggregate.
package bootstrap

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/simaogato/portfolio-engine/internal/domain"
)

const (
	defaultSchemeID = 3 // Neutral
	seriesDays      = 45
	seriesSeed      = 20260209
	tradingDaysYear = 252
)

var (
	seriesStart = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	seedTime    = time.Date(2026, 2, 9, 10, 35, 0, 0, time.UTC)
)

// DefaultState builds the demo snapshot: Neutral scheme active, positions
// derived from the catalog, synthetic performance history and seed orders
// covering the order lifecycle.
func DefaultState(catalog domain.MarketCatalog) domain.PortfolioState {
	rng := rand.New(rand.NewSource(seriesSeed))

	scheme, ok := catalog.SchemeByID(defaultSchemeID)
	if !ok {
		scheme = catalog.Schemes()[0]
	}

	totalAum := decimal.NewFromInt(125_400_000)
	lastRunAt := time.Date(2026, 2, 9, 10, 30, 0, 0, time.UTC)

	performance := performanceSeries(rng)
	drawdown := drawdownSeries(rng)

	state := domain.PortfolioState{
		Portfolio: domain.Portfolio{
			ID:        "pf-001",
			Name:      "Global Growth Fund",
			Benchmark: "S&P 500",
			Currency:  "USD",
			TotalAum:  totalAum,
		},
		Allocation: domain.Allocation{
			ActiveScheme: scheme.ID,
			Objective:    "Neutral",
			RiskTarget:   12.0,
			Constraints: domain.Constraints{
				MaxPosition:   8.0,
				MaxSector:     25.0,
				TurnoverLimit: 20.0,
			},
			TargetWeights: cloneHoldings(scheme.Holdings),
			LastRunAt:     &lastRunAt,
			Frontier:      frontier(),
		},
		Trading: domain.Trading{
			Positions:         positions(catalog, scheme.Holdings, totalAum, rng),
			Orders:            seedOrders(),
			RecommendedTrades: []domain.RecommendedTrade{},
			Fills:             seedFills(),
		},
		Reporting: domain.Reporting{
			KPIs:              deriveKPIs(performance, drawdown),
			PerformanceSeries: performance,
			DrawdownSeries:    drawdown,
			Attribution:       attribution(),
			SectorExposures:   sectorExposures(),
			FactorExposures:   factorExposures(),
			FeedbackSignals:   feedbackSignals(),
		},
		LastUpdated: seedTime,
		DemoMode:    true,
	}
	return state
}

// positions builds one position per scheme holding, in catalog declaration
// order so the snapshot is byte-stable
func positions(catalog domain.MarketCatalog, holdings map[string]float64, totalAum decimal.Decimal, rng *rand.Rand) []domain.Position {
	symbols := orderedSymbols(catalog, holdings)

	out := make([]domain.Position, 0, len(symbols))
	for _, symbol := range symbols {
		weight := holdings[symbol]
		ticker, ok := catalog.TickerBySymbol(symbol)
		if !ok {
			continue
		}

		marketValue := decimal.NewFromFloat(weight).Mul(totalAum).Div(decimal.NewFromInt(100))
		quantity := marketValue.DivRound(ticker.Price, 0).IntPart()

		// Average cost implies roughly half the trailing-year move is
		// unrealized in the book
		avgCost := ticker.Price.Mul(decimal.NewFromFloat(1 - ticker.Return1Y/200)).Round(2)
		totalPnl := ticker.Price.Sub(avgCost).Mul(decimal.NewFromInt(quantity)).Round(0)
		dayPnl := marketValue.Mul(decimal.NewFromFloat((rng.Float64() - 0.45) * 0.01)).Round(0)

		out = append(out, domain.Position{
			Symbol:       symbol,
			Name:         ticker.Name,
			Sector:       ticker.Sector,
			Quantity:     quantity,
			AvgCost:      avgCost,
			CurrentPrice: ticker.Price,
			MarketValue:  ticker.Price.Mul(decimal.NewFromInt(quantity)).Round(0),
			Weight:       weight,
			DayPnl:       dayPnl,
			TotalPnl:     totalPnl,
			Beta:         ticker.Beta,
		})
	}
	return out
}

// orderedSymbols filters the catalog's declaration order down to the
// scheme's holdings
func orderedSymbols(catalog domain.MarketCatalog, holdings map[string]float64) []string {
	type lister interface{ Symbols() []string }

	var universe []string
	if l, ok := catalog.(lister); ok {
		universe = l.Symbols()
	} else {
		for symbol := range holdings {
			universe = append(universe, symbol)
		}
	}

	out := make([]string, 0, len(holdings))
	for _, symbol := range universe {
		if _, held := holdings[symbol]; held {
			out = append(out, symbol)
		}
	}
	return out
}

// performanceSeries is a 45-day indexed walk: both legs start at 100, the
// portfolio leg drifts slightly harder than the benchmark
func performanceSeries(rng *rand.Rand) []domain.PerformancePoint {
	series := make([]domain.PerformancePoint, 0, seriesDays)
	portfolio, benchmark := 100.0, 100.0
	for i := 0; i < seriesDays; i++ {
		portfolio += (rng.Float64() - 0.47) * 1.2
		benchmark += (rng.Float64() - 0.48) * 0.9
		series = append(series, domain.PerformancePoint{
			Date:      seriesStart.AddDate(0, 0, i).Format("2006-01-02"),
			Portfolio: round2(portfolio),
			Benchmark: round2(benchmark),
		})
	}
	return series
}

// drawdownSeries is a clamped downward walk over the same window
func drawdownSeries(rng *rand.Rand) []domain.DrawdownPoint {
	series := make([]domain.DrawdownPoint, 0, seriesDays)
	dd := 0.0
	for i := 0; i < seriesDays; i++ {
		dd += (rng.Float64() - 0.55) * 0.4
		if dd > 0 {
			dd = 0
		}
		series = append(series, domain.DrawdownPoint{
			Date:     seriesStart.AddDate(0, 0, i).Format("2006-01-02"),
			Drawdown: math.Round(dd*1000) / 1000,
		})
	}
	return series
}

// deriveKPIs computes the headline risk figures from the synthetic history
func deriveKPIs(performance []domain.PerformancePoint, drawdown []domain.DrawdownPoint) domain.KPIs {
	portfolioReturns := make([]float64, 0, len(performance)-1)
	activeReturns := make([]float64, 0, len(performance)-1)
	for i := 1; i < len(performance); i++ {
		rp := performance[i].Portfolio/performance[i-1].Portfolio - 1
		rb := performance[i].Benchmark/performance[i-1].Benchmark - 1
		portfolioReturns = append(portfolioReturns, rp)
		activeReturns = append(activeReturns, rp-rb)
	}

	annFactor := math.Sqrt(tradingDaysYear)
	vol := stat.StdDev(portfolioReturns, nil) * annFactor * 100
	meanDaily := stat.Mean(portfolioReturns, nil)
	sharpe := 0.0
	if vol > 0 {
		sharpe = meanDaily * tradingDaysYear * 100 / vol
	}

	trackingError := stat.StdDev(activeReturns, nil) * annFactor * 100
	informationRatio := 0.0
	if trackingError > 0 {
		informationRatio = stat.Mean(activeReturns, nil) * tradingDaysYear * 100 / trackingError
	}

	maxDrawdown := 0.0
	for _, point := range drawdown {
		if point.Drawdown < maxDrawdown {
			maxDrawdown = point.Drawdown
		}
	}

	return domain.KPIs{
		YtdReturn:        round2(performance[len(performance)-1].Portfolio - 100),
		AnnualizedVol:    round2(vol),
		Sharpe:           round2(sharpe),
		MaxDrawdown:      round2(maxDrawdown),
		TrackingError:    round2(trackingError),
		InformationRatio: round2(informationRatio),
	}
}

func frontier() []domain.FrontierPoint {
	return []domain.FrontierPoint{
		{Risk: 6.0, Return: 4.2, Sharpe: 0.70},
		{Risk: 8.0, Return: 6.8, Sharpe: 0.85},
		{Risk: 10.0, Return: 9.1, Sharpe: 0.91},
		{Risk: 12.0, Return: 11.0, Sharpe: 0.92, Label: "Current"},
		{Risk: 14.0, Return: 12.4, Sharpe: 0.89},
		{Risk: 16.0, Return: 13.2, Sharpe: 0.83},
		{Risk: 18.0, Return: 13.8, Sharpe: 0.77},
		{Risk: 20.0, Return: 14.1, Sharpe: 0.71},
		{Risk: 22.0, Return: 14.2, Sharpe: 0.65},
	}
}

// seedOrders covers the three live order states the blotter renders
func seedOrders() []domain.Order {
	limitAAPL := decimal.RequireFromString("190.00")
	limitMETA := decimal.RequireFromString("400.00")
	filledAt := time.Date(2026, 2, 9, 9, 30, 5, 0, time.UTC)

	return []domain.Order{
		{
			OrderID:    "ORD-001",
			Symbol:     "AAPL",
			Side:       domain.OrderSideBuy,
			Quantity:   200,
			Type:       domain.OrderTypeLimit,
			LimitPrice: &limitAAPL,
			Status:     domain.OrderStatusWorking,
			FilledQty:  0,
			CreatedAt:  time.Date(2026, 2, 9, 9, 45, 0, 0, time.UTC),
		},
		{
			OrderID:   "ORD-002",
			Symbol:    "NVDA",
			Side:      domain.OrderSideSell,
			Quantity:  500,
			Type:      domain.OrderTypeMarket,
			Status:    domain.OrderStatusFilled,
			FilledQty: 500,
			CreatedAt: time.Date(2026, 2, 9, 9, 30, 0, 0, time.UTC),
			FilledAt:  &filledAt,
		},
		{
			OrderID:    "ORD-003",
			Symbol:     "META",
			Side:       domain.OrderSideBuy,
			Quantity:   300,
			Type:       domain.OrderTypeLimit,
			LimitPrice: &limitMETA,
			Status:     domain.OrderStatusPartiallyFilled,
			FilledQty:  150,
			CreatedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC),
		},
	}
}

// seedFills match the filled quantities of the seed orders
func seedFills() []domain.Fill {
	return []domain.Fill{
		{
			OrderID:   "ORD-002",
			FillQty:   500,
			FillPrice: decimal.RequireFromString("880.00"),
			FillTime:  time.Date(2026, 2, 9, 9, 30, 5, 0, time.UTC),
		},
		{
			OrderID:   "ORD-003",
			FillQty:   150,
			FillPrice: decimal.RequireFromString("400.00"),
			FillTime:  time.Date(2026, 2, 9, 10, 5, 0, 0, time.UTC),
		},
	}
}

func attribution() []domain.Attribution {
	return []domain.Attribution{
		{Group: "Technology", Name: "AAPL", Contribution: 1.82},
		{Group: "Technology", Name: "MSFT", Contribution: 1.45},
		{Group: "Technology", Name: "NVDA", Contribution: 2.10},
		{Group: "Technology", Name: "META", Contribution: 0.65},
		{Group: "Technology", Name: "GOOGL", Contribution: 1.12},
		{Group: "Financials", Name: "JPM", Contribution: 0.75},
		{Group: "Financials", Name: "V", Contribution: 0.48},
		{Group: "Healthcare", Name: "JNJ", Contribution: -0.28},
		{Group: "Healthcare", Name: "UNH", Contribution: 0.42},
		{Group: "Consumer Staples", Name: "PG", Contribution: 0.18},
		{Group: "Consumer Staples", Name: "KO", Contribution: 0.12},
	}
}

func sectorExposures() []domain.Exposure {
	return []domain.Exposure{
		{Name: "Technology", Weight: 31.2},
		{Name: "Healthcare", Weight: 13.6},
		{Name: "Financials", Weight: 12.6},
		{Name: "Consumer Staples", Weight: 8.7},
		{Name: "Cash", Weight: 30.0},
	}
}

func factorExposures() []domain.FactorExposure {
	return []domain.FactorExposure{
		{Factor: "Market", Exposure: 1.02},
		{Factor: "Size", Exposure: 0.15},
		{Factor: "Value", Exposure: -0.22},
		{Factor: "Momentum", Exposure: 0.38},
		{Factor: "Quality", Exposure: 0.45},
		{Factor: "Low Vol", Exposure: -0.18},
	}
}

func feedbackSignals() []domain.FeedbackSignal {
	suggestedRiskTarget := 11.0
	return []domain.FeedbackSignal{
		{
			Type:                domain.FeedbackSignalWarning,
			Message:             "Technology sector exposure (31.2%) exceeds target max (25%). Consider rebalancing.",
			SuggestedRiskTarget: &suggestedRiskTarget,
			Flags:               []string{"SECTOR_OVERWEIGHT"},
		},
		{
			Type:    domain.FeedbackSignalInfo,
			Message: "Portfolio Sharpe ratio (0.92) is near optimal frontier peak. Current allocation is efficient.",
			Flags:   []string{"EFFICIENT"},
		},
	}
}

func cloneHoldings(holdings map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(holdings))
	for symbol, weight := range holdings {
		out[symbol] = weight
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
