package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio holds the identity of the managed portfolio
// Adheres to the data model defined in SPEC_FULL.md
type Portfolio struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Benchmark string          `json:"benchmark"`
	Currency  string          `json:"currency"`
	TotalAum  decimal.Decimal `json:"totalAum"` // Assets under management, always positive
}

// PortfolioState is the root aggregate for one pipeline session.
// It is replaced wholesale on every command (copy-on-write); callers never
// observe a partially mutated aggregate.
type PortfolioState struct {
	Portfolio   Portfolio  `json:"portfolio"`
	Allocation  Allocation `json:"allocation"`
	Trading     Trading    `json:"trading"`
	Reporting   Reporting  `json:"reporting"`
	LastUpdated time.Time  `json:"lastUpdated"` // Stamped on every successful mutation
	DemoMode    bool       `json:"demoMode"`
}

// Validate ensures the aggregate adheres to domain rules
// Returns an error if validation fails
func (s *PortfolioState) Validate() error {
	if s.Portfolio.TotalAum.LessThanOrEqual(decimal.Zero) {
		return errors.New("portfolio AUM must be positive")
	}

	if err := s.Allocation.Validate(); err != nil {
		return err
	}

	if err := s.Trading.Validate(); err != nil {
		return err
	}

	return nil
}

// Clone returns a deep copy of the aggregate.
// This is the basis of the copy-on-write snapshot discipline: the reducer
// mutates only clones, and the session hands out only clones.
func (s PortfolioState) Clone() PortfolioState {
	next := s
	next.Allocation = s.Allocation.Clone()
	next.Trading = s.Trading.Clone()
	next.Reporting = s.Reporting.Clone()
	return next
}

// cloneTime deep-copies an optional timestamp
func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

// cloneFloat deep-copies an optional float field
func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}

// cloneDecimal deep-copies an optional decimal field
func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	copied := *d
	return &copied
}
