// Package orders implements the creation half of the order lifecycle:
// market orders are born Filled with an immediate fill, limit orders are
// born Working. All later transitions (partial fills, cancels, rejects)
// arrive through external ingestion, never from this package.
package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-engine/internal/domain"
)

// Manager creates orders and their immediate fills
type Manager struct {
	Catalog domain.MarketCatalog
}

// NewManager creates a new order lifecycle manager
func NewManager(catalog domain.MarketCatalog) *Manager {
	return &Manager{Catalog: catalog}
}

// NextOrderID generates the id for the next order: "ORD-" plus the current
// order count + 1, zero-padded to three digits.
//
// Known hazard: the count restarts if the order list is ever truncated or
// replaced by a patched snapshot with fewer orders, so ids are only unique
// within an uninterrupted session. Kept for compatibility with the
// established id scheme; a monotonic counter would need a new aggregate
// field.
func NextOrderID(existing []domain.Order) string {
	return fmt.Sprintf("ORD-%03d", len(existing)+1)
}

// Create builds a new order against the current trading section.
// A market order is created already Filled with filledQty = quantity and an
// immediate fill; a limit order is created Working with no fill.
//
// The fill price is resolved in degrading steps: the position's current
// price if the symbol is held, else the catalog reference price, else the
// supplied limit price, else zero. Missing reference data never fails the
// order.
func (m *Manager) Create(
	trading domain.Trading,
	symbol string,
	side domain.OrderSide,
	quantity int64,
	orderType domain.OrderType,
	limitPrice *decimal.Decimal,
	now time.Time,
) (domain.Order, *domain.Fill) {
	order := domain.Order{
		OrderID:    NextOrderID(trading.Orders),
		Symbol:     symbol,
		Side:       side,
		Quantity:   quantity,
		Type:       orderType,
		LimitPrice: limitPrice,
		Status:     domain.OrderStatusWorking,
		FilledQty:  0,
		CreatedAt:  now,
	}

	if orderType != domain.OrderTypeMarket {
		return order, nil
	}

	filledAt := now
	order.Status = domain.OrderStatusFilled
	order.FilledQty = quantity
	order.FilledAt = &filledAt

	fill := &domain.Fill{
		OrderID:   order.OrderID,
		FillQty:   quantity,
		FillPrice: m.referencePrice(trading.Positions, symbol, limitPrice),
		FillTime:  now,
	}
	return order, fill
}

// referencePrice resolves the execution reference price for a symbol
func (m *Manager) referencePrice(positions []domain.Position, symbol string, limitPrice *decimal.Decimal) decimal.Decimal {
	for i := range positions {
		if positions[i].Symbol == symbol {
			return positions[i].CurrentPrice
		}
	}
	if m.Catalog != nil {
		if price, ok := m.Catalog.ReferencePrice(symbol); ok {
			return price
		}
	}
	if limitPrice != nil {
		return *limitPrice
	}
	return decimal.Zero
}
