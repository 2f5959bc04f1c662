// Package command defines the tagged command variants that form the only
// boundary into the state engine, plus JSON decoding for callers that
// receive commands as wire payloads.
package command

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-engine/internal/domain"
)

// Command kinds, matching the original action vocabulary
const (
	KindSetState                 = "SET_STATE"
	KindPatchState               = "PATCH_STATE"
	KindSetScheme                = "SET_SCHEME"
	KindRunAllocation            = "RUN_ALLOCATION"
	KindSubmitOrder              = "SUBMIT_ORDER"
	KindRebalance                = "REBALANCE"
	KindRunMLModel               = "RUN_ML_MODEL"
	KindApplySuggestedAllocation = "APPLY_SUGGESTED_ALLOCATION"
)

// Command is one state-transition request. Implementations are closed:
// the reducer dispatches on the concrete variant.
type Command interface {
	Kind() string
	isCommand()
}

// SetState replaces the aggregate wholesale
type SetState struct {
	Snapshot domain.PortfolioState
}

func (SetState) Kind() string { return KindSetState }
func (SetState) isCommand()   {}

// PatchState shallow-merges sections into the aggregate
type PatchState struct {
	Patch domain.StatePatch
}

func (PatchState) Kind() string { return KindPatchState }
func (PatchState) isCommand()   {}

// SetScheme activates a reference scheme by id.
// Unknown scheme ids are a no-op.
type SetScheme struct {
	SchemeID int
}

func (SetScheme) Kind() string { return KindSetScheme }
func (SetScheme) isCommand()   {}

// RunAllocation records an allocation run: risk target and constraints are
// taken from the command, target weights stay those of the active scheme.
// Objective is only a fallback label when the active scheme is unknown.
type RunAllocation struct {
	Objective   string
	RiskTarget  float64
	Constraints domain.Constraints
}

func (RunAllocation) Kind() string { return KindRunAllocation }
func (RunAllocation) isCommand()   {}

// SubmitOrder creates a new order (and, for market orders, its fill)
type SubmitOrder struct {
	Symbol     string
	Side       domain.OrderSide
	Quantity   int64
	Type       domain.OrderType
	LimitPrice *decimal.Decimal
}

func (SubmitOrder) Kind() string { return KindSubmitOrder }
func (SubmitOrder) isCommand()   {}

// Rebalance recomputes recommended trades from current vs. target weights
type Rebalance struct{}

func (Rebalance) Kind() string { return KindRebalance }
func (Rebalance) isCommand()   {}

// RunMLModel folds one external model's output back into the aggregate.
// Output is the model's raw, untrusted payload; the normalizer coerces it.
type RunMLModel struct {
	ModelID string
	Output  map[string]any
}

func (RunMLModel) Kind() string { return KindRunMLModel }
func (RunMLModel) isCommand()   {}

// ApplySuggestedAllocation copies the advisor's pending suggestion into the
// allocation inputs (converting ratios to percentages) and clears it
type ApplySuggestedAllocation struct{}

func (ApplySuggestedAllocation) Kind() string { return KindApplySuggestedAllocation }
func (ApplySuggestedAllocation) isCommand()   {}
