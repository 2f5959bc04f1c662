package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/portfolio-engine/internal/domain"
)

func TestPercentFromRatio(t *testing.T) {
	assert.Equal(t, 11.0, PercentFromRatio(0.11))
	assert.Equal(t, 11.0, PercentFromRatio(11.0))
	assert.Equal(t, 100.0, PercentFromRatio(1.0))
	assert.Equal(t, 1.01, PercentFromRatio(1.01))
	assert.Equal(t, 0.0, PercentFromRatio(0.0))
	// The documented hazard: 0.5 meaning "0.5%" is scaled anyway
	assert.Equal(t, 50.0, PercentFromRatio(0.5))
}

func TestOrderSideFromString(t *testing.T) {
	assert.Equal(t, domain.OrderSideSell, OrderSideFromString("SELL"))
	assert.Equal(t, domain.OrderSideSell, OrderSideFromString("sell"))
	assert.Equal(t, domain.OrderSideSell, OrderSideFromString("Short"))
	assert.Equal(t, domain.OrderSideBuy, OrderSideFromString("BUY"))
	assert.Equal(t, domain.OrderSideBuy, OrderSideFromString("buy"))
	// Unrecognized values default to Buy
	assert.Equal(t, domain.OrderSideBuy, OrderSideFromString("hold"))
	assert.Equal(t, domain.OrderSideBuy, OrderSideFromString(""))
}

func TestTradePlan_WellFormed(t *testing.T) {
	raw := map[string]any{
		"recommendedTrades": []any{
			map[string]any{
				"symbol":              "AAPL",
				"side":                "BUY",
				"qty":                 float64(500),
				"reason":              "rebalance_to_target",
				"expectedSlippageBps": 3.4,
				"fillProbability":     0.92,
			},
		},
		"orderPlan": []any{
			map[string]any{
				"symbol":    "AAPL",
				"parentQty": float64(500),
				"slices": []any{
					map[string]any{"qty": float64(200), "type": "MKT"},
					map[string]any{"qty": float64(300), "type": "LMT", "limitOffsetBps": float64(2)},
				},
			},
		},
	}

	trades, plan := TradePlan(raw)

	require.Len(t, trades, 1)
	assert.Equal(t, "AAPL", trades[0].Symbol)
	assert.Equal(t, domain.OrderSideBuy, trades[0].Side)
	assert.Equal(t, int64(500), trades[0].Quantity)
	require.NotNil(t, trades[0].ExpectedSlippageBps)
	assert.Equal(t, 3.4, *trades[0].ExpectedSlippageBps)
	require.NotNil(t, trades[0].FillProbability)
	assert.Equal(t, 0.92, *trades[0].FillProbability)

	require.Len(t, plan, 1)
	assert.Equal(t, int64(500), plan[0].ParentQty)
	require.Len(t, plan[0].Slices, 2)
	assert.Equal(t, "MKT", plan[0].Slices[0].Type)
	require.NotNil(t, plan[0].Slices[1].LimitOffsetBps)
	assert.Equal(t, 2.0, *plan[0].Slices[1].LimitOffsetBps)
}

func TestTradePlan_EmptyPayload(t *testing.T) {
	trades, plan := TradePlan(map[string]any{})

	assert.NotNil(t, trades)
	assert.Empty(t, trades)
	assert.Nil(t, plan)
}

func TestTradePlan_NilPayload(t *testing.T) {
	trades, plan := TradePlan(nil)
	assert.Empty(t, trades)
	assert.Nil(t, plan)
}

func TestTradePlan_MalformedOrderPlanDropped(t *testing.T) {
	raw := map[string]any{
		"recommendedTrades": []any{
			map[string]any{"symbol": "NVDA", "side": "sell", "qty": float64(100), "reason": "trim"},
		},
		"orderPlan": "not-an-array",
	}

	trades, plan := TradePlan(raw)

	require.Len(t, trades, 1)
	assert.Equal(t, domain.OrderSideSell, trades[0].Side)
	assert.Nil(t, trades[0].ExpectedSlippageBps)
	assert.Nil(t, plan)
}

func TestTradePlan_NonObjectEntriesCoerceToDefaults(t *testing.T) {
	raw := map[string]any{
		"recommendedTrades": []any{"garbage", float64(42)},
	}

	trades, _ := TradePlan(raw)

	require.Len(t, trades, 2)
	assert.Equal(t, "", trades[0].Symbol)
	assert.Equal(t, domain.OrderSideBuy, trades[0].Side)
	assert.Equal(t, int64(0), trades[0].Quantity)
}

func TestTradePlan_SliceTypeDefaultsToMarket(t *testing.T) {
	raw := map[string]any{
		"orderPlan": []any{
			map[string]any{
				"symbol":    "META",
				"parentQty": float64(100),
				"slices":    []any{map[string]any{"qty": float64(100)}},
			},
		},
	}

	_, plan := TradePlan(raw)
	require.Len(t, plan, 1)
	require.Len(t, plan[0].Slices, 1)
	assert.Equal(t, "MKT", plan[0].Slices[0].Type)
}

func TestAllocationExplain_WellFormed(t *testing.T) {
	raw := map[string]any{
		"expectedSummary": map[string]any{
			"expectedReturn":        0.125,
			"expectedVol":           0.12,
			"expectedTrackingError": 0.034,
		},
		"explanations": []any{
			map[string]any{
				"type":     "constraint_binding",
				"message":  "Max sector weight constraint limited Technology exposure.",
				"evidence": map[string]any{"constraint": "maxSectorWeight", "value": 0.25},
			},
		},
		"targetVsBenchmark": []any{
			map[string]any{"symbol": "AAPL", "targetWeight": 0.06, "benchmarkWeight": 0.07, "activeWeight": -0.01},
		},
	}

	summary, explain := AllocationExplain(raw)

	require.NotNil(t, summary)
	assert.Equal(t, 0.125, summary.ExpectedReturn)

	require.NotNil(t, explain)
	require.Len(t, explain.Explanations, 1)
	assert.Equal(t, "constraint_binding", explain.Explanations[0].Type)
	require.Len(t, explain.TargetVsBenchmark, 1)
	assert.Equal(t, -0.01, explain.TargetVsBenchmark[0].ActiveWeight)
}

func TestAllocationExplain_EmptyPayload(t *testing.T) {
	summary, explain := AllocationExplain(map[string]any{})

	assert.Nil(t, summary)
	require.NotNil(t, explain)
	assert.Empty(t, explain.Explanations)
	assert.Empty(t, explain.TargetVsBenchmark)
}

func TestExecution_WellFormed(t *testing.T) {
	raw := map[string]any{
		"executionMetrics": map[string]any{
			"implementationShortfallBps": 4.3,
			"slippageBps":                4.3,
			"spreadCostBps":              1.2,
		},
		"orderScores": []any{
			map[string]any{
				"orderId":      "O-7771",
				"qualityScore": 0.81,
				"notes":        []any{"Filled quickly", "Slightly above arrival"},
			},
		},
		"anomalies": []any{},
	}

	report := Execution(raw)

	require.NotNil(t, report)
	assert.Equal(t, 4.3, report.ExecutionMetrics.ImplementationShortfallBps)
	assert.Equal(t, 1.2, report.ExecutionMetrics.SpreadCostBps)
	require.Len(t, report.OrderScores, 1)
	assert.Equal(t, []string{"Filled quickly", "Slightly above arrival"}, report.OrderScores[0].Notes)
	assert.Empty(t, report.Anomalies)
}

func TestExecution_EmptyPayloadUsesShortfallDefault(t *testing.T) {
	report := Execution(map[string]any{})

	require.NotNil(t, report)
	assert.Equal(t, DefaultShortfallBps, report.ExecutionMetrics.ImplementationShortfallBps)
	assert.Equal(t, 0.0, report.ExecutionMetrics.SlippageBps)
	assert.Empty(t, report.OrderScores)
	assert.Empty(t, report.Anomalies)
}

func TestAllocationSuggestion_WellFormed(t *testing.T) {
	raw := map[string]any{
		"suggestedAllocationInputs": map[string]any{
			"riskTarget":  0.11,
			"constraints": map[string]any{"maxSectorWeight": 0.22, "turnoverLimit": 0.12},
		},
		"reasons": []any{
			map[string]any{"message": "Tracking error rising; reduce active risk.", "severity": "MEDIUM"},
		},
	}

	suggestion := AllocationSuggestion(raw)

	require.NotNil(t, suggestion)
	assert.Equal(t, 0.11, suggestion.RiskTarget)
	assert.Equal(t, 0.22, suggestion.Constraints.MaxSectorWeight)
	require.Len(t, suggestion.Reasons, 1)
	assert.Equal(t, "MEDIUM", suggestion.Reasons[0].Severity)
}

func TestAllocationSuggestion_AbsentClears(t *testing.T) {
	assert.Nil(t, AllocationSuggestion(map[string]any{}))
	assert.Nil(t, AllocationSuggestion(map[string]any{"suggestedAllocationInputs": "bogus"}))
}

func TestTradingControls_WellFormed(t *testing.T) {
	raw := map[string]any{
		"suggestedTradingControls": map[string]any{
			"maxParticipationRate": 0.06,
			"maxOrderNotional":     float64(300000),
			"preferLimitOrders":    true,
		},
	}

	controls := TradingControls(raw)

	require.NotNil(t, controls)
	assert.Equal(t, 0.06, controls.MaxParticipationRate)
	assert.Equal(t, "300000", controls.MaxOrderNotional.String())
	assert.True(t, controls.PreferLimitOrders)
}

func TestTradingControls_AbsentIsNil(t *testing.T) {
	assert.Nil(t, TradingControls(map[string]any{}))
	assert.Nil(t, TradingControls(nil))
}
