// Package reducer implements the pure state-transition function at the
// heart of the pipeline: (state, command) -> state. It is total — any
// command it cannot act on returns the input state unchanged — and has no
// side effects beyond the returned snapshot.
package reducer

import (
	"time"

	"github.com/simaogato/portfolio-engine/internal/command"
	"github.com/simaogato/portfolio-engine/internal/domain"
	"github.com/simaogato/portfolio-engine/internal/usecase/normalizer"
	"github.com/simaogato/portfolio-engine/internal/usecase/orders"
	"github.com/simaogato/portfolio-engine/internal/usecase/rebalancer"
)

// Model ids of the five external collaborators
const (
	ModelTradePlanner       = "ML_12"
	ModelAllocationExplain  = "ML_13"
	ModelExecutionEvaluator = "ML_23"
	ModelAllocationAdvisor  = "ML_31"
	ModelTradingController  = "ML_32"
)

// Reducer applies commands to portfolio state snapshots.
// Now is injectable so replays can pin timestamps; it defaults to time.Now.
type Reducer struct {
	Catalog domain.MarketCatalog
	Orders  *orders.Manager
	Now     func() time.Time
}

// New creates a new Reducer backed by the given reference catalog
func New(catalog domain.MarketCatalog) *Reducer {
	return &Reducer{
		Catalog: catalog,
		Orders:  orders.NewManager(catalog),
		Now:     time.Now,
	}
}

// Reduce applies one command and returns the next snapshot.
// The input state is never mutated; every mutating branch works on a deep
// clone and stamps lastUpdated. Invalid command targets (unknown scheme id,
// missing suggestion, bad order parameters) are silent no-ops: the input
// state is returned unchanged and no error is ever surfaced.
func (r *Reducer) Reduce(state domain.PortfolioState, cmd command.Command) domain.PortfolioState {
	switch c := cmd.(type) {
	case command.SetState:
		return c.Snapshot.Clone()

	case command.PatchState:
		next := c.Patch.ApplyTo(state)
		next.LastUpdated = r.Now()
		return next

	case command.SetScheme:
		return r.setScheme(state, c)

	case command.RunAllocation:
		return r.runAllocation(state, c)

	case command.Rebalance:
		return r.rebalance(state)

	case command.SubmitOrder:
		return r.submitOrder(state, c)

	case command.RunMLModel:
		return r.runMLModel(state, c)

	case command.ApplySuggestedAllocation:
		return r.applySuggestedAllocation(state)

	default:
		// Unrecognized command: state unchanged, never an error
		return state
	}
}

// setScheme activates a reference scheme, replacing objective and target
// weights. An unknown scheme id leaves the state untouched.
func (r *Reducer) setScheme(state domain.PortfolioState, c command.SetScheme) domain.PortfolioState {
	scheme, ok := r.Catalog.SchemeByID(c.SchemeID)
	if !ok {
		return state
	}

	now := r.Now()
	next := state.Clone()
	next.Allocation.ActiveScheme = scheme.ID
	next.Allocation.Objective = scheme.Name
	next.Allocation.TargetWeights = scheme.Holdings
	next.Allocation.LastRunAt = &now
	next.LastUpdated = now
	return next
}

// runAllocation records a run of the allocation stage: risk target and
// constraints come from the command, target weights stay those of the
// currently active scheme. The command's objective is only a fallback label
// for when the active scheme is missing from the catalog.
func (r *Reducer) runAllocation(state domain.PortfolioState, c command.RunAllocation) domain.PortfolioState {
	now := r.Now()
	next := state.Clone()

	if scheme, ok := r.Catalog.SchemeByID(state.Allocation.ActiveScheme); ok {
		next.Allocation.Objective = scheme.Name
		next.Allocation.TargetWeights = scheme.Holdings
	} else {
		next.Allocation.Objective = c.Objective
	}

	next.Allocation.RiskTarget = c.RiskTarget
	next.Allocation.Constraints = c.Constraints
	next.Allocation.LastRunAt = &now
	next.LastUpdated = now
	return next
}

// rebalance replaces the recommended trades with a fresh derivation from
// current positions and target weights
func (r *Reducer) rebalance(state domain.PortfolioState) domain.PortfolioState {
	trades := rebalancer.Recommend(
		state.Trading.Positions,
		state.Allocation.TargetWeights,
		state.Portfolio.TotalAum,
	)

	now := r.Now()
	next := state.Clone()
	next.Trading.RecommendedTrades = trades
	next.Trading.LastRebalanceAt = &now
	next.LastUpdated = now
	return next
}

// submitOrder creates a new order (and fill, for market orders) and prepends
// it to the book. Preconditions qty > 0 and non-empty symbol; violating
// either is a no-op.
func (r *Reducer) submitOrder(state domain.PortfolioState, c command.SubmitOrder) domain.PortfolioState {
	if c.Quantity <= 0 || c.Symbol == "" {
		return state
	}

	now := r.Now()
	next := state.Clone()

	order, fill := r.Orders.Create(next.Trading, c.Symbol, c.Side, c.Quantity, c.Type, c.LimitPrice, now)
	next.Trading.Orders = append([]domain.Order{order}, next.Trading.Orders...)
	if fill != nil {
		next.Trading.Fills = append([]domain.Fill{*fill}, next.Trading.Fills...)
	}

	next.LastUpdated = now
	return next
}

// runMLModel normalizes one external model's output and merges the result
// into the trading/reporting sections. Unknown model ids are a no-op;
// malformed payloads coerce to defaults and never fail.
func (r *Reducer) runMLModel(state domain.PortfolioState, c command.RunMLModel) domain.PortfolioState {
	now := r.Now()

	switch c.ModelID {
	case ModelTradePlanner:
		trades, plan := normalizer.TradePlan(c.Output)
		next := state.Clone()
		next.Trading.RecommendedTrades = trades
		next.Trading.OrderPlan = plan
		next.Trading.LastRebalanceAt = &now
		next.LastUpdated = now
		return next

	case ModelAllocationExplain:
		summary, explain := normalizer.AllocationExplain(c.Output)
		next := state.Clone()
		next.Reporting.ExpectedSummary = summary
		next.Reporting.AllocationExplainability = explain
		next.LastUpdated = now
		return next

	case ModelExecutionEvaluator:
		next := state.Clone()
		next.Reporting.Execution = normalizer.Execution(c.Output)
		next.LastUpdated = now
		return next

	case ModelAllocationAdvisor:
		next := state.Clone()
		next.Reporting.SuggestedAllocationInputs = normalizer.AllocationSuggestion(c.Output)
		next.LastUpdated = now
		return next

	case ModelTradingController:
		next := state.Clone()
		next.Trading.ControlsSuggested = normalizer.TradingControls(c.Output)
		next.LastUpdated = now
		return next

	default:
		return state
	}
}

// applySuggestedAllocation copies the advisor's pending suggestion into the
// allocation inputs, converting from ratio to percentage scale, then clears
// it. Without a pending suggestion this is a no-op.
func (r *Reducer) applySuggestedAllocation(state domain.PortfolioState) domain.PortfolioState {
	suggestion := state.Reporting.SuggestedAllocationInputs
	if suggestion == nil {
		return state
	}

	now := r.Now()
	next := state.Clone()
	next.Allocation.RiskTarget = normalizer.PercentFromRatio(suggestion.RiskTarget)
	next.Allocation.Constraints.MaxSector = normalizer.PercentFromRatio(suggestion.Constraints.MaxSectorWeight)
	next.Allocation.Constraints.TurnoverLimit = normalizer.PercentFromRatio(suggestion.Constraints.TurnoverLimit)
	next.Allocation.LastRunAt = &now
	next.Reporting.SuggestedAllocationInputs = nil
	next.LastUpdated = now
	return next
}
