package reducer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/portfolio-engine/internal/command"
	"github.com/simaogato/portfolio-engine/internal/domain"
	"github.com/simaogato/portfolio-engine/internal/marketdata"
)

var fixedNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func newTestReducer() *Reducer {
	r := New(marketdata.NewCatalog())
	r.Now = func() time.Time { return fixedNow }
	return r
}

func baseState() domain.PortfolioState {
	return domain.PortfolioState{
		Portfolio: domain.Portfolio{
			ID:        "pf-001",
			Name:      "Global Growth Fund",
			Benchmark: "S&P 500",
			Currency:  "USD",
			TotalAum:  decimal.NewFromInt(125_400_000),
		},
		Allocation: domain.Allocation{
			ActiveScheme:  3,
			Objective:     "Neutral",
			RiskTarget:    12.0,
			Constraints:   domain.Constraints{MaxPosition: 8.0, MaxSector: 25.0, TurnoverLimit: 20.0},
			TargetWeights: map[string]float64{"AAPL": 6.0},
		},
		Trading: domain.Trading{
			Positions: []domain.Position{
				{
					Symbol:       "AAPL",
					Name:         "Apple Inc.",
					Sector:       "Technology",
					Quantity:     26_400,
					CurrentPrice: decimal.RequireFromString("190.00"),
					MarketValue:  decimal.NewFromInt(5_016_000),
					Weight:       4.0,
				},
			},
		},
		LastUpdated: time.Date(2026, 2, 9, 10, 35, 0, 0, time.UTC),
	}
}

func TestReduce_SetState_ReplacesWholesale(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	replacement := baseState()
	replacement.Portfolio.ID = "pf-002"

	next := r.Reduce(state, command.SetState{Snapshot: replacement})
	assert.Equal(t, "pf-002", next.Portfolio.ID)

	// The returned snapshot is detached from the command's snapshot
	replacement.Allocation.TargetWeights["AAPL"] = 99.0
	assert.Equal(t, 6.0, next.Allocation.TargetWeights["AAPL"])
}

func TestReduce_PatchState_StampsLastUpdated(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	demo := true
	next := r.Reduce(state, command.PatchState{Patch: domain.StatePatch{DemoMode: &demo}})

	assert.True(t, next.DemoMode)
	assert.Equal(t, fixedNow, next.LastUpdated)
	assert.False(t, state.DemoMode, "input state must not be mutated")
}

func TestReduce_SetScheme_ActivatesCatalogScheme(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.SetScheme{SchemeID: 1})

	assert.Equal(t, 1, next.Allocation.ActiveScheme)
	assert.Equal(t, "Extreme Bull", next.Allocation.Objective)
	// Extreme Bull holds speculation at 20% across 5 tickers
	assert.Equal(t, 4.0, next.Allocation.TargetWeights["PLTR"])
	require.NotNil(t, next.Allocation.LastRunAt)
	assert.Equal(t, fixedNow, *next.Allocation.LastRunAt)
}

func TestReduce_SetScheme_UnknownIDIsNoOp(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.SetScheme{SchemeID: 999999})

	assert.Equal(t, state, next)
}

func TestReduce_RunAllocation_KeepsActiveSchemeWeights(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.RunAllocation{
		Objective:   "ignored-label",
		RiskTarget:  10.0,
		Constraints: domain.Constraints{MaxPosition: 5.0, MaxSector: 20.0, TurnoverLimit: 15.0},
	})

	// Active scheme 3 (Neutral) exists in the catalog: its name and holdings win
	assert.Equal(t, "Neutral", next.Allocation.Objective)
	assert.Equal(t, 5.0, next.Allocation.TargetWeights["AAPL"])
	assert.Equal(t, 10.0, next.Allocation.RiskTarget)
	assert.Equal(t, 20.0, next.Allocation.Constraints.MaxSector)
}

func TestReduce_RunAllocation_FallbackObjectiveForUnknownScheme(t *testing.T) {
	r := newTestReducer()
	state := baseState()
	state.Allocation.ActiveScheme = 42 // not in the catalog

	next := r.Reduce(state, command.RunAllocation{Objective: "Custom Objective", RiskTarget: 9.0})

	assert.Equal(t, "Custom Objective", next.Allocation.Objective)
	// Existing weights are kept when the scheme is unknown
	assert.Equal(t, 6.0, next.Allocation.TargetWeights["AAPL"])
}

func TestReduce_Rebalance_ReplacesRecommendedTrades(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.Rebalance{})

	// AAPL 4.0% vs 6.0% target on 125.4M at 190.00 -> buy 13,200
	require.Len(t, next.Trading.RecommendedTrades, 1)
	trade := next.Trading.RecommendedTrades[0]
	assert.Equal(t, "AAPL", trade.Symbol)
	assert.Equal(t, domain.OrderSideBuy, trade.Side)
	assert.Equal(t, int64(13_200), trade.Quantity)
	require.NotNil(t, next.Trading.LastRebalanceAt)
	assert.Equal(t, fixedNow, *next.Trading.LastRebalanceAt)
}

func TestReduce_Rebalance_AtTargetIsEmpty(t *testing.T) {
	r := newTestReducer()
	state := baseState()
	state.Trading.Positions[0].Weight = 6.0
	state.Trading.Positions[0].MarketValue = decimal.NewFromInt(7_524_000)

	next := r.Reduce(state, command.Rebalance{})
	assert.Empty(t, next.Trading.RecommendedTrades)
}

func TestReduce_SubmitOrder_MarketFillsImmediately(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.SubmitOrder{
		Symbol:   "AAPL",
		Side:     domain.OrderSideBuy,
		Quantity: 100,
		Type:     domain.OrderTypeMarket,
	})

	require.Len(t, next.Trading.Orders, 1)
	order := next.Trading.Orders[0]
	assert.Equal(t, "ORD-001", order.OrderID)
	assert.Equal(t, domain.OrderStatusFilled, order.Status)
	assert.Equal(t, int64(100), order.FilledQty)

	require.Len(t, next.Trading.Fills, 1)
	assert.Equal(t, int64(100), next.Trading.Fills[0].FillQty)
	assert.True(t, next.Trading.Fills[0].FillPrice.Equal(decimal.RequireFromString("190.00")))
}

func TestReduce_SubmitOrder_LimitStaysWorking(t *testing.T) {
	r := newTestReducer()
	state := baseState()
	limit := decimal.RequireFromString("50.00")

	next := r.Reduce(state, command.SubmitOrder{
		Symbol:     "AAPL",
		Side:       domain.OrderSideBuy,
		Quantity:   100,
		Type:       domain.OrderTypeLimit,
		LimitPrice: &limit,
	})

	require.Len(t, next.Trading.Orders, 1)
	assert.Equal(t, domain.OrderStatusWorking, next.Trading.Orders[0].Status)
	assert.Equal(t, int64(0), next.Trading.Orders[0].FilledQty)
	assert.Empty(t, next.Trading.Fills)
}

func TestReduce_SubmitOrder_PrependsNewestFirst(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.SubmitOrder{Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: 10, Type: domain.OrderTypeMarket})
	next = r.Reduce(next, command.SubmitOrder{Symbol: "MSFT", Side: domain.OrderSideSell, Quantity: 20, Type: domain.OrderTypeMarket})

	require.Len(t, next.Trading.Orders, 2)
	assert.Equal(t, "ORD-002", next.Trading.Orders[0].OrderID)
	assert.Equal(t, "MSFT", next.Trading.Orders[0].Symbol)
	assert.Equal(t, "ORD-001", next.Trading.Orders[1].OrderID)
}

func TestReduce_SubmitOrder_InvalidParamsAreNoOps(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.SubmitOrder{Symbol: "AAPL", Quantity: 0, Type: domain.OrderTypeMarket})
	assert.Equal(t, state, next)

	next = r.Reduce(state, command.SubmitOrder{Symbol: "", Quantity: 10, Type: domain.OrderTypeMarket})
	assert.Equal(t, state, next)
}

func TestReduce_RunMLModel_TradePlanner(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.RunMLModel{
		ModelID: ModelTradePlanner,
		Output: map[string]any{
			"recommendedTrades": []any{
				map[string]any{"symbol": "AAPL", "side": "BUY", "qty": float64(500), "reason": "rebalance_to_target"},
			},
			"orderPlan": []any{
				map[string]any{"symbol": "AAPL", "parentQty": float64(500), "slices": []any{
					map[string]any{"qty": float64(200), "type": "MKT"},
				}},
			},
		},
	})

	require.Len(t, next.Trading.RecommendedTrades, 1)
	assert.Equal(t, int64(500), next.Trading.RecommendedTrades[0].Quantity)
	require.Len(t, next.Trading.OrderPlan, 1)
	require.NotNil(t, next.Trading.LastRebalanceAt)
}

func TestReduce_RunMLModel_EmptyPayloadIsTolerated(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.RunMLModel{ModelID: ModelTradePlanner, Output: map[string]any{}})

	assert.NotNil(t, next.Trading.RecommendedTrades)
	assert.Empty(t, next.Trading.RecommendedTrades)
	assert.Nil(t, next.Trading.OrderPlan)
}

func TestReduce_RunMLModel_AllocationExplainer(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.RunMLModel{
		ModelID: ModelAllocationExplain,
		Output: map[string]any{
			"expectedSummary": map[string]any{"expectedReturn": 0.125, "expectedVol": 0.12, "expectedTrackingError": 0.034},
		},
	})

	require.NotNil(t, next.Reporting.ExpectedSummary)
	assert.Equal(t, 0.125, next.Reporting.ExpectedSummary.ExpectedReturn)
	require.NotNil(t, next.Reporting.AllocationExplainability)
	assert.Empty(t, next.Reporting.AllocationExplainability.Explanations)
}

func TestReduce_RunMLModel_ExecutionEvaluator(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.RunMLModel{
		ModelID: ModelExecutionEvaluator,
		Output: map[string]any{
			"executionMetrics": map[string]any{"implementationShortfallBps": 4.3, "slippageBps": 4.3, "spreadCostBps": 1.2},
		},
	})

	require.NotNil(t, next.Reporting.Execution)
	assert.Equal(t, 4.3, next.Reporting.Execution.ExecutionMetrics.ImplementationShortfallBps)
}

func TestReduce_RunMLModel_AdvisorThenApply(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.RunMLModel{
		ModelID: ModelAllocationAdvisor,
		Output: map[string]any{
			"suggestedAllocationInputs": map[string]any{
				"riskTarget":  0.11,
				"constraints": map[string]any{"maxSectorWeight": 0.22, "turnoverLimit": 0.12},
			},
			"reasons": []any{map[string]any{"message": "reduce active risk", "severity": "MEDIUM"}},
		},
	})

	require.NotNil(t, next.Reporting.SuggestedAllocationInputs)
	assert.Equal(t, 0.11, next.Reporting.SuggestedAllocationInputs.RiskTarget)

	applied := r.Reduce(next, command.ApplySuggestedAllocation{})

	// Ratio-scale suggestion converted to percentages on apply
	assert.Equal(t, 11.0, applied.Allocation.RiskTarget)
	assert.Equal(t, 22.0, applied.Allocation.Constraints.MaxSector)
	assert.Equal(t, 12.0, applied.Allocation.Constraints.TurnoverLimit)
	// MaxPosition untouched by the suggestion
	assert.Equal(t, 8.0, applied.Allocation.Constraints.MaxPosition)
	assert.Nil(t, applied.Reporting.SuggestedAllocationInputs)
}

func TestReduce_ApplySuggestedAllocation_PercentScalePassesThrough(t *testing.T) {
	r := newTestReducer()
	state := baseState()
	state.Reporting.SuggestedAllocationInputs = &domain.SuggestedAllocationInputs{
		RiskTarget:  11.0, // already a percentage
		Constraints: domain.SuggestedConstraints{MaxSectorWeight: 22.0, TurnoverLimit: 12.0},
	}

	next := r.Reduce(state, command.ApplySuggestedAllocation{})
	assert.Equal(t, 11.0, next.Allocation.RiskTarget)
}

func TestReduce_ApplySuggestedAllocation_WithoutSuggestionIsNoOp(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.ApplySuggestedAllocation{})
	assert.Equal(t, state, next)
}

func TestReduce_RunMLModel_TradingController(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.RunMLModel{
		ModelID: ModelTradingController,
		Output: map[string]any{
			"suggestedTradingControls": map[string]any{
				"maxParticipationRate": 0.06,
				"maxOrderNotional":     float64(300000),
				"preferLimitOrders":    true,
			},
		},
	})

	require.NotNil(t, next.Trading.ControlsSuggested)
	assert.True(t, next.Trading.ControlsSuggested.PreferLimitOrders)

	// Absent controls clear the slot
	cleared := r.Reduce(next, command.RunMLModel{ModelID: ModelTradingController, Output: map[string]any{}})
	assert.Nil(t, cleared.Trading.ControlsSuggested)
}

func TestReduce_RunMLModel_UnknownModelIsNoOp(t *testing.T) {
	r := newTestReducer()
	state := baseState()

	next := r.Reduce(state, command.RunMLModel{ModelID: "ML_99", Output: map[string]any{"x": 1}})
	assert.Equal(t, state, next)
}

func TestReduce_Determinism(t *testing.T) {
	// Replaying the same command sequence from the same snapshot with the
	// same clock yields an identical final snapshot
	commands := []command.Command{
		command.SetScheme{SchemeID: 2},
		command.RunAllocation{Objective: "x", RiskTarget: 10, Constraints: domain.Constraints{MaxPosition: 8, MaxSector: 25, TurnoverLimit: 20}},
		command.Rebalance{},
		command.SubmitOrder{Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: 100, Type: domain.OrderTypeMarket},
		command.RunMLModel{ModelID: ModelAllocationAdvisor, Output: map[string]any{
			"suggestedAllocationInputs": map[string]any{"riskTarget": 0.11, "constraints": map[string]any{"maxSectorWeight": 0.22, "turnoverLimit": 0.12}},
		}},
		command.ApplySuggestedAllocation{},
	}

	run := func() domain.PortfolioState {
		r := newTestReducer()
		state := baseState()
		for _, cmd := range commands {
			state = r.Reduce(state, cmd)
		}
		return state
	}

	assert.Equal(t, run(), run())
}
