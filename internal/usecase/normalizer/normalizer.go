// Package normalizer validates and coerces the five external models'
// output payloads into domain shapes before they are merged into the
// aggregate. It is deliberately tolerant: absent or malformed fields fall
// back to safe defaults (empty list, nil, or a default-looking magnitude),
// and no payload ever produces an error.
package normalizer

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-engine/internal/domain"
)

// DefaultShortfallBps is the execution-cost magnitude assumed when a payload
// omits its implementation shortfall metric
const DefaultShortfallBps = 12.0

// PercentFromRatio bridges the two unit conventions used by different
// collaborators: values <= 1 are interpreted as fractions and scaled to
// percentages, values > 1 pass through unchanged.
//
// Known precision hazard: a legitimately sub-1% value already expressed as
// a percentage (e.g. 0.5 meaning 0.5%) is indistinguishable from a ratio
// and gets scaled. The heuristic is kept for compatibility.
func PercentFromRatio(value float64) float64 {
	if value <= 1 {
		return value * 100
	}
	return value
}

// OrderSideFromString normalizes an untrusted side string: any value with a
// case-insensitive "s" prefix is Sell, everything else (including
// unrecognized values) is Buy.
func OrderSideFromString(side string) domain.OrderSide {
	if strings.HasPrefix(strings.ToUpper(side), "S") {
		return domain.OrderSideSell
	}
	return domain.OrderSideBuy
}

// TradePlan normalizes the trade planner's (ML_12) output: a list of
// recommended trades plus an optional order plan. A missing or malformed
// trade list yields an empty slice; a malformed order plan is dropped
// entirely (nil).
func TradePlan(raw map[string]any) ([]domain.RecommendedTrade, []domain.OrderPlanItem) {
	trades := make([]domain.RecommendedTrade, 0)
	for _, item := range listField(raw, "recommendedTrades") {
		entry := asObject(item)
		trades = append(trades, domain.RecommendedTrade{
			Symbol:              stringField(entry, "symbol"),
			Side:                OrderSideFromString(stringField(entry, "side")),
			Quantity:            intField(entry, "qty"),
			Reason:              stringField(entry, "reason"),
			ExpectedSlippageBps: optionalNumberField(entry, "expectedSlippageBps"),
			FillProbability:     optionalNumberField(entry, "fillProbability"),
		})
	}

	return trades, orderPlan(raw)
}

// orderPlan maps a well-formed orderPlan array into plan items; anything
// other than an array drops the whole field
func orderPlan(raw map[string]any) []domain.OrderPlanItem {
	items := listField(raw, "orderPlan")
	if items == nil {
		return nil
	}

	plan := make([]domain.OrderPlanItem, 0, len(items))
	for _, item := range items {
		entry := asObject(item)

		slices := make([]domain.OrderPlanSlice, 0)
		for _, s := range listField(entry, "slices") {
			sliceEntry := asObject(s)
			sliceType := stringField(sliceEntry, "type")
			if sliceType == "" {
				sliceType = string(domain.OrderTypeMarket)
			}
			slices = append(slices, domain.OrderPlanSlice{
				Qty:            intField(sliceEntry, "qty"),
				Type:           sliceType,
				LimitOffsetBps: optionalNumberField(sliceEntry, "limitOffsetBps"),
			})
		}

		plan = append(plan, domain.OrderPlanItem{
			Symbol:    stringField(entry, "symbol"),
			ParentQty: intField(entry, "parentQty"),
			Slices:    slices,
		})
	}
	return plan
}

// AllocationExplain normalizes the allocation explainer's (ML_13) output.
// The summary is nil when absent; the explainability slot is always
// produced, with missing lists defaulting to empty.
func AllocationExplain(raw map[string]any) (*domain.ExpectedSummary, *domain.AllocationExplainability) {
	var summary *domain.ExpectedSummary
	if hasObjectField(raw, "expectedSummary") {
		s := objectField(raw, "expectedSummary")
		summary = &domain.ExpectedSummary{
			ExpectedReturn:        numberField(s, "expectedReturn"),
			ExpectedVol:           numberField(s, "expectedVol"),
			ExpectedTrackingError: numberField(s, "expectedTrackingError"),
		}
	}

	explanations := make([]domain.Explanation, 0)
	for _, item := range listField(raw, "explanations") {
		entry := asObject(item)
		explanations = append(explanations, domain.Explanation{
			Type:     stringField(entry, "type"),
			Message:  stringField(entry, "message"),
			Evidence: objectField(entry, "evidence"),
		})
	}

	targetVsBenchmark := make([]domain.TargetVsBenchmark, 0)
	for _, item := range listField(raw, "targetVsBenchmark") {
		entry := asObject(item)
		targetVsBenchmark = append(targetVsBenchmark, domain.TargetVsBenchmark{
			Symbol:          stringField(entry, "symbol"),
			TargetWeight:    numberField(entry, "targetWeight"),
			BenchmarkWeight: numberField(entry, "benchmarkWeight"),
			ActiveWeight:    numberField(entry, "activeWeight"),
		})
	}

	return summary, &domain.AllocationExplainability{
		Explanations:      explanations,
		TargetVsBenchmark: targetVsBenchmark,
	}
}

// Execution normalizes the execution evaluator's (ML_23) output into the
// reporting execution slot. Metrics pass through without unit conversion; a
// missing implementation shortfall defaults to DefaultShortfallBps.
func Execution(raw map[string]any) *domain.ExecutionReport {
	metrics := objectField(raw, "executionMetrics")

	scores := make([]domain.OrderScore, 0)
	for _, item := range listField(raw, "orderScores") {
		entry := asObject(item)
		scores = append(scores, domain.OrderScore{
			OrderID:      stringField(entry, "orderId"),
			QualityScore: numberField(entry, "qualityScore"),
			Notes:        stringListField(entry, "notes"),
		})
	}

	return &domain.ExecutionReport{
		ExecutionMetrics: domain.ExecutionMetrics{
			ImplementationShortfallBps: numberFieldOr(metrics, "implementationShortfallBps", DefaultShortfallBps),
			SlippageBps:                numberField(metrics, "slippageBps"),
			SpreadCostBps:              numberField(metrics, "spreadCostBps"),
		},
		OrderScores: scores,
		Anomalies:   stringListField(raw, "anomalies"),
	}
}

// AllocationSuggestion normalizes the allocation advisor's (ML_31) output.
// The suggestion keeps its ratio scale; conversion to percentages happens
// only when it is applied. An absent suggestion yields nil, which clears
// any pending suggestion.
func AllocationSuggestion(raw map[string]any) *domain.SuggestedAllocationInputs {
	if !hasObjectField(raw, "suggestedAllocationInputs") {
		return nil
	}
	inputs := objectField(raw, "suggestedAllocationInputs")
	constraints := objectField(inputs, "constraints")

	reasons := make([]domain.SuggestionReason, 0)
	for _, item := range listField(raw, "reasons") {
		entry := asObject(item)
		reasons = append(reasons, domain.SuggestionReason{
			Message:  stringField(entry, "message"),
			Severity: stringField(entry, "severity"),
		})
	}

	return &domain.SuggestedAllocationInputs{
		RiskTarget: numberField(inputs, "riskTarget"),
		Constraints: domain.SuggestedConstraints{
			MaxSectorWeight: numberField(constraints, "maxSectorWeight"),
			TurnoverLimit:   numberField(constraints, "turnoverLimit"),
		},
		Reasons: reasons,
	}
}

// TradingControls normalizes the trading controller's (ML_32) output.
// An absent suggestion yields nil.
func TradingControls(raw map[string]any) *domain.SuggestedControls {
	if !hasObjectField(raw, "suggestedTradingControls") {
		return nil
	}
	controls := objectField(raw, "suggestedTradingControls")

	return &domain.SuggestedControls{
		MaxParticipationRate: numberField(controls, "maxParticipationRate"),
		MaxOrderNotional:     decimal.NewFromFloat(numberField(controls, "maxOrderNotional")),
		PreferLimitOrders:    boolField(controls, "preferLimitOrders"),
	}
}
