package domain

// StatePatch is a shallow partial of the aggregate: a non-nil section
// replaces that section wholesale when the patch is applied.
type StatePatch struct {
	Portfolio  *Portfolio  `json:"portfolio,omitempty"`
	Allocation *Allocation `json:"allocation,omitempty"`
	Trading    *Trading    `json:"trading,omitempty"`
	Reporting  *Reporting  `json:"reporting,omitempty"`
	DemoMode   *bool       `json:"demoMode,omitempty"`
}

// ApplyTo shallow-merges the patch into state, cloning patched sections so
// the caller's patch remains detached from the resulting aggregate.
// The lastUpdated stamp is the reducer's responsibility.
func (p StatePatch) ApplyTo(state PortfolioState) PortfolioState {
	next := state.Clone()

	if p.Portfolio != nil {
		next.Portfolio = *p.Portfolio
	}
	if p.Allocation != nil {
		next.Allocation = p.Allocation.Clone()
	}
	if p.Trading != nil {
		next.Trading = p.Trading.Clone()
	}
	if p.Reporting != nil {
		next.Reporting = p.Reporting.Clone()
	}
	if p.DemoMode != nil {
		next.DemoMode = *p.DemoMode
	}

	return next
}
