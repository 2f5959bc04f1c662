package rebalancer

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-engine/internal/domain"
)

// DeadZonePct is the weight-difference threshold (in percentage points)
// below which no trade is recommended, to avoid churn from rounding noise
const DeadZonePct = 0.3

var oneHundred = decimal.NewFromInt(100)

// Recommend derives buy/sell recommendations from target vs. current weights
// Logic, per position (single pass, no netting or aggregation):
//  1. diff = targetWeight - currentWeight, in percentage points; a position
//     absent from the target map has target weight 0
//  2. skip when |diff| <= DeadZonePct
//  3. diffValue = (targetWeight/100) * totalAum - marketValue
//  4. quantity = round(|diffValue| / currentPrice); skip when zero
//
// Result ordering matches the input position ordering, so the output is
// stable for identical inputs.
func Recommend(positions []domain.Position, targetWeights map[string]float64, totalAum decimal.Decimal) []domain.RecommendedTrade {
	trades := make([]domain.RecommendedTrade, 0)

	for _, pos := range positions {
		targetWeight := targetWeights[pos.Symbol]
		diff := targetWeight - pos.Weight
		if math.Abs(diff) <= DeadZonePct {
			continue
		}

		// Unknown reference price: degrade to no trade rather than fail
		if pos.CurrentPrice.LessThanOrEqual(decimal.Zero) {
			continue
		}

		targetValue := decimal.NewFromFloat(targetWeight).Div(oneHundred).Mul(totalAum)
		diffValue := targetValue.Sub(pos.MarketValue)
		quantity := diffValue.Abs().DivRound(pos.CurrentPrice, 0).IntPart()
		if quantity <= 0 {
			continue
		}

		side := domain.OrderSideBuy
		reason := fmt.Sprintf("Underweight by %.1f%%", diff)
		if diff < 0 {
			side = domain.OrderSideSell
			reason = fmt.Sprintf("Overweight by %.1f%%", -diff)
		}

		trades = append(trades, domain.RecommendedTrade{
			Symbol:   pos.Symbol,
			Side:     side,
			Quantity: quantity,
			Reason:   reason,
		})
	}

	return trades
}
