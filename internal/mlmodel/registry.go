// Package mlmodel declares the interface boundary of the five external
// model collaborators: which slice of the aggregate each model reads, which
// slots it writes, and the exact read-projection handed to it. The models'
// own computations live outside this repository; the engine only builds
// their inputs and ingests their outputs.
package mlmodel

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-engine/internal/domain"
)

// Model ids
const (
	TradePlanner       = "ML_12"
	AllocationExplain  = "ML_13"
	ExecutionEvaluator = "ML_23"
	AllocationAdvisor  = "ML_31"
	TradingController  = "ML_32"
)

// fallbackRunID labels inputs built before any allocation run
const fallbackRunID = "A-LOCAL-RUN"

// liquiditySampleSize caps the market projections at the largest holdings
const liquiditySampleSize = 5

// Descriptor declares one model's boundary contract
type Descriptor struct {
	ID         string
	Name       string
	Location   string // Pipeline edge, e.g. "Allocation → Trading"
	Goal       string
	ReadsFrom  []string
	WritesTo   []string
	Confidence float64

	// BuildInput produces the model's declared read-projection of the
	// aggregate. Read-only; weights and limits are ratio-scaled (0-1) as
	// the collaborators expect.
	BuildInput func(state domain.PortfolioState) map[string]any
}

var registry = []Descriptor{
	{
		ID:       TradePlanner,
		Name:     "Trade Planner",
		Location: "Allocation → Trading",
		Goal:     "Convert target weights + current positions into executable trades + optional slicing plan.",
		ReadsFrom: []string{
			"allocation.targetWeights", "allocation.constraints.turnoverLimit",
			"portfolio.totalAum", "trading.positions",
		},
		WritesTo:   []string{"trading.recommendedTrades", "trading.orderPlan"},
		Confidence: 0.78,
		BuildInput: buildTradePlannerInput,
	},
	{
		ID:       AllocationExplain,
		Name:     "Allocation Explainer",
		Location: "Allocation → Reporting",
		Goal:     "Produce explainability + expected risk/return summary for reporting.",
		ReadsFrom: []string{
			"allocation.objective", "allocation.riskTarget", "allocation.constraints",
			"allocation.targetWeights", "allocation.frontier",
		},
		WritesTo:   []string{"reporting.expectedSummary", "reporting.allocationExplainability"},
		Confidence: 0.84,
		BuildInput: buildAllocationExplainInput,
	},
	{
		ID:         ExecutionEvaluator,
		Name:       "Execution Evaluator",
		Location:   "Trading → Reporting",
		Goal:       "Convert orders/fills into execution-quality metrics and anomalies for reporting.",
		ReadsFrom:  []string{"trading.orders", "trading.fills"},
		WritesTo:   []string{"reporting.execution"},
		Confidence: 0.81,
		BuildInput: buildExecutionEvaluatorInput,
	},
	{
		ID:       AllocationAdvisor,
		Name:     "Allocation Advisor",
		Location: "Reporting → Allocation",
		Goal:     "Use reporting/risk results to suggest new allocation inputs (risk target, constraints).",
		ReadsFrom: []string{
			"reporting.kpis", "reporting.sectorExposures", "reporting.factorExposures",
			"reporting.feedbackSignals.flags", "allocation.riskTarget", "allocation.constraints",
		},
		WritesTo:   []string{"reporting.suggestedAllocationInputs"},
		Confidence: 0.76,
		BuildInput: buildAllocationAdvisorInput,
	},
	{
		ID:       TradingController,
		Name:     "Trading Controller",
		Location: "Reporting → Trading",
		Goal:     "Use reporting + execution metrics to suggest trading throttles/controls.",
		ReadsFrom: []string{
			"reporting.execution.executionMetrics", "reporting.kpis.annualizedVol",
			"reporting.feedbackSignals.flags", "trading.controlsSuggested",
		},
		WritesTo:   []string{"trading.controlsSuggested"},
		Confidence: 0.79,
		BuildInput: buildTradingControllerInput,
	},
}

// All returns the model descriptors in pipeline order
func All() []Descriptor {
	return append([]Descriptor(nil), registry...)
}

// ByID retrieves one model descriptor
func ByID(id string) (Descriptor, bool) {
	for _, d := range registry {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// --- Input projections ---

func buildTradePlannerInput(state domain.PortfolioState) map[string]any {
	positions := make([]map[string]any, 0, len(state.Trading.Positions))
	for _, pos := range state.Trading.Positions {
		positions = append(positions, map[string]any{
			"symbol": pos.Symbol,
			"qty":    pos.Quantity,
			"price":  pos.CurrentPrice,
		})
	}

	liquidity := make([]map[string]any, 0, liquiditySampleSize)
	for _, pos := range headPositions(state.Trading.Positions) {
		liquidity = append(liquidity, map[string]any{
			"symbol":    pos.Symbol,
			"adv":       80_000_000,
			"spreadBps": 1.2,
		})
	}

	return map[string]any{
		"allocation": map[string]any{
			"runId":         runID(state.Allocation.LastRunAt),
			"targetWeights": weightEntries(state.Allocation.TargetWeights),
			"constraints": map[string]any{
				"turnoverLimit": toRatio(state.Allocation.Constraints.TurnoverLimit),
			},
		},
		"portfolio": map[string]any{
			"nav":       state.Portfolio.TotalAum,
			"cash":      state.Portfolio.TotalAum.Mul(decimal.NewFromFloat(0.02)).Round(0),
			"positions": positions,
		},
		"market": map[string]any{
			"liquidity": liquidity,
			"timestamp": state.LastUpdated.Format(time.RFC3339),
		},
		"riskControls": map[string]any{
			"maxOrderNotional":     500_000,
			"maxParticipationRate": 0.1,
		},
	}
}

func buildAllocationExplainInput(state domain.PortfolioState) map[string]any {
	frontier := make([]map[string]any, 0, len(state.Allocation.Frontier))
	for _, point := range state.Allocation.Frontier {
		frontier = append(frontier, map[string]any{
			"risk": toRatio(point.Risk),
			"ret":  toRatio(point.Return),
		})
	}

	weights := weightEntries(state.Allocation.TargetWeights)

	return map[string]any{
		"allocation": map[string]any{
			"runId": runID(state.Allocation.LastRunAt),
			"inputs": map[string]any{
				"objective":  state.Allocation.Objective,
				"riskTarget": toRatio(state.Allocation.RiskTarget),
				"constraints": map[string]any{
					"maxPositionWeight": toRatio(state.Allocation.Constraints.MaxPosition),
					"maxSectorWeight":   toRatio(state.Allocation.Constraints.MaxSector),
					"turnoverLimit":     toRatio(state.Allocation.Constraints.TurnoverLimit),
				},
			},
			"targetWeights": weights,
			"frontier":      frontier,
		},
		"benchmark": map[string]any{
			"id":      state.Portfolio.Benchmark,
			"weights": weights,
		},
		"riskModel": map[string]any{
			"covVersion":  "COV-20260209",
			"factorModel": "barra_like_v1",
		},
	}
}

func buildExecutionEvaluatorInput(state domain.PortfolioState) map[string]any {
	orders := make([]map[string]any, 0, len(state.Trading.Orders))
	for _, order := range state.Trading.Orders {
		orders = append(orders, map[string]any{
			"orderId":   order.OrderID,
			"symbol":    order.Symbol,
			"side":      strings.ToUpper(string(order.Side)),
			"qty":       order.Quantity,
			"type":      string(order.Type),
			"createdAt": order.CreatedAt.Format(time.RFC3339),
		})
	}

	fills := make([]map[string]any, 0, len(state.Trading.Fills))
	for _, fill := range state.Trading.Fills {
		fills = append(fills, map[string]any{
			"orderId":   fill.OrderID,
			"fillQty":   fill.FillQty,
			"fillPrice": fill.FillPrice,
			"fillTime":  fill.FillTime.Format(time.RFC3339),
		})
	}

	referencePrices := make([]map[string]any, 0, liquiditySampleSize)
	spreads := make([]map[string]any, 0, liquiditySampleSize)
	for _, pos := range headPositions(state.Trading.Positions) {
		referencePrices = append(referencePrices, map[string]any{
			"symbol":       pos.Symbol,
			"arrivalPrice": pos.CurrentPrice,
			"vwap5m":       pos.CurrentPrice.Mul(decimal.NewFromFloat(1.0003)).Round(2),
		})
		spreads = append(spreads, map[string]any{"symbol": pos.Symbol, "bps": 1.2})
	}

	return map[string]any{
		"trading": map[string]any{
			"orders": orders,
			"fills":  fills,
		},
		"market": map[string]any{
			"referencePrices": referencePrices,
			"spreadsBps":      spreads,
		},
	}
}

func buildAllocationAdvisorInput(state domain.PortfolioState) map[string]any {
	sectors := make([]map[string]any, 0, len(state.Reporting.SectorExposures))
	for _, sector := range state.Reporting.SectorExposures {
		sectors = append(sectors, map[string]any{
			"name":   sector.Name,
			"weight": toRatio(sector.Weight),
		})
	}

	factors := make([]map[string]any, 0, len(state.Reporting.FactorExposures))
	for _, factor := range state.Reporting.FactorExposures {
		factors = append(factors, map[string]any{
			"name":     factor.Factor,
			"exposure": factor.Exposure,
		})
	}

	return map[string]any{
		"reporting": map[string]any{
			"kpis": map[string]any{
				"returnYtd":      toRatio(state.Reporting.KPIs.YtdReturn),
				"volYtd":         toRatio(state.Reporting.KPIs.AnnualizedVol),
				"sharpeYtd":      state.Reporting.KPIs.Sharpe,
				"maxDrawdownYtd": toRatio(state.Reporting.KPIs.MaxDrawdown),
			},
			"exposures": map[string]any{
				"sectors": sectors,
				"factors": factors,
			},
			"flags": feedbackFlags(state.Reporting.FeedbackSignals),
		},
		"allocation": map[string]any{
			"inputs": map[string]any{
				"riskTarget": toRatio(state.Allocation.RiskTarget),
				"constraints": map[string]any{
					"maxSectorWeight": toRatio(state.Allocation.Constraints.MaxSector),
					"turnoverLimit":   toRatio(state.Allocation.Constraints.TurnoverLimit),
				},
			},
		},
	}
}

func buildTradingControllerInput(state domain.PortfolioState) map[string]any {
	var metrics map[string]any
	if state.Reporting.Execution != nil {
		metrics = map[string]any{
			"implementationShortfallBps": state.Reporting.Execution.ExecutionMetrics.ImplementationShortfallBps,
			"slippageBps":                state.Reporting.Execution.ExecutionMetrics.SlippageBps,
			"spreadCostBps":              state.Reporting.Execution.ExecutionMetrics.SpreadCostBps,
		}
	} else {
		// No execution report yet: assume a default-looking cost level
		metrics = map[string]any{"implementationShortfallBps": 12.0}
	}

	volRegime := "NORMAL"
	if state.Reporting.KPIs.AnnualizedVol > 12 {
		volRegime = "HIGH"
	}

	var controls map[string]any
	if state.Trading.ControlsSuggested != nil {
		controls = map[string]any{
			"maxParticipationRate": state.Trading.ControlsSuggested.MaxParticipationRate,
			"maxOrderNotional":     state.Trading.ControlsSuggested.MaxOrderNotional,
			"preferLimitOrders":    state.Trading.ControlsSuggested.PreferLimitOrders,
		}
	} else {
		controls = map[string]any{
			"maxParticipationRate": 0.1,
			"maxOrderNotional":     500_000,
			"preferLimitOrders":    false,
		}
	}

	return map[string]any{
		"reporting": map[string]any{
			"executionMetrics": metrics,
			"marketRegime":     map[string]any{"volRegime": volRegime},
			"flags":            feedbackFlags(state.Reporting.FeedbackSignals),
		},
		"trading": map[string]any{
			"currentControls": controls,
		},
	}
}

// --- Projection helpers ---

// toRatio converts a percentage to ratio scale for the collaborators'
// convention; values already at or below 1 pass through unchanged
func toRatio(value float64) float64 {
	if value > 1 {
		return math.Round(value/100*10000) / 10000
	}
	return value
}

// weightEntries projects a target-weight map as a sorted list of
// ratio-scaled entries (sorted so the projection is deterministic)
func weightEntries(weights map[string]float64) []map[string]any {
	symbols := make([]string, 0, len(weights))
	for symbol := range weights {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	entries := make([]map[string]any, 0, len(symbols))
	for _, symbol := range symbols {
		entries = append(entries, map[string]any{
			"symbol": symbol,
			"weight": math.Round(weights[symbol]/100*10000) / 10000,
		})
	}
	return entries
}

// headPositions returns the first few positions for market projections
func headPositions(positions []domain.Position) []domain.Position {
	if len(positions) > liquiditySampleSize {
		return positions[:liquiditySampleSize]
	}
	return positions
}

// feedbackFlags flattens all feedback-signal flags
func feedbackFlags(signals []domain.FeedbackSignal) []string {
	flags := make([]string, 0)
	for _, signal := range signals {
		flags = append(flags, signal.Flags...)
	}
	return flags
}

// runID labels an allocation run by its timestamp
func runID(lastRunAt *time.Time) string {
	if lastRunAt == nil {
		return fallbackRunID
	}
	return lastRunAt.Format(time.RFC3339)
}
