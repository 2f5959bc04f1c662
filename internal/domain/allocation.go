package domain

import (
	"errors"
	"fmt"
	"time"
)

// Constraints are the allocation limits, all expressed as percentages (0-100)
type Constraints struct {
	MaxPosition   float64 `json:"maxPosition"`
	MaxSector     float64 `json:"maxSector"`
	TurnoverLimit float64 `json:"turnoverLimit"`
}

// FrontierPoint describes one point on the efficient-frontier reference curve
type FrontierPoint struct {
	Risk   float64 `json:"risk"`
	Return float64 `json:"return"`
	Sharpe float64 `json:"sharpe"`
	Label  string  `json:"label,omitempty"`
}

// Allocation holds the allocation-stage section of the aggregate
// Adheres to the data model defined in SPEC_FULL.md
type Allocation struct {
	ActiveScheme  int                `json:"activeScheme"`
	Objective     string             `json:"objective"`
	RiskTarget    float64            `json:"riskTarget"` // Percentage (0-100)
	Constraints   Constraints        `json:"constraints"`
	TargetWeights map[string]float64 `json:"targetWeights"` // symbol -> weight percentage (0-100)
	LastRunAt     *time.Time         `json:"lastRunAt"`
	Frontier      []FrontierPoint    `json:"frontier"`
}

// Validate ensures the allocation adheres to domain rules
// CRITICAL: weights are percentage units (0-100) inside the aggregate;
// externally-sourced ratios (0-1) must be converted before they reach here
func (a *Allocation) Validate() error {
	if a.RiskTarget < 0 {
		return errors.New("risk target must be non-negative")
	}

	for symbol, weight := range a.TargetWeights {
		if weight < 0 {
			return fmt.Errorf("target weight for %s must be non-negative", symbol)
		}
		if weight > 100 {
			return fmt.Errorf("target weight for %s must not exceed 100", symbol)
		}
	}

	return nil
}

// Clone returns a deep copy of the allocation section
func (a Allocation) Clone() Allocation {
	next := a
	next.TargetWeights = cloneWeights(a.TargetWeights)
	next.LastRunAt = cloneTime(a.LastRunAt)
	next.Frontier = append([]FrontierPoint(nil), a.Frontier...)
	return next
}

// cloneWeights deep-copies a symbol -> weight map
func cloneWeights(weights map[string]float64) map[string]float64 {
	if weights == nil {
		return nil
	}
	copied := make(map[string]float64, len(weights))
	for symbol, weight := range weights {
		copied[symbol] = weight
	}
	return copied
}
