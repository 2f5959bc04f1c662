package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide represents the direction of an order or recommended trade
type OrderSide string

const (
	OrderSideBuy  OrderSide = "Buy"
	OrderSideSell OrderSide = "Sell"
)

// OrderType represents the order type
type OrderType string

const (
	OrderTypeMarket OrderType = "MKT"
	OrderTypeLimit  OrderType = "LMT"
)

// OrderStatus represents a state in the order lifecycle machine
type OrderStatus string

const (
	OrderStatusWorking         OrderStatus = "Working"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCancelled       OrderStatus = "Cancelled"
	OrderStatusRejected        OrderStatus = "Rejected"
)

// CanTransitionTo reports whether moving from this status to next is a legal
// lifecycle transition. Only order creation happens locally; the remaining
// transitions are populated by external ingestion, so this predicate is the
// single place the full machine is asserted:
//
//	Working         -> PartiallyFilled | Filled | Cancelled | Rejected
//	PartiallyFilled -> Filled | Cancelled | Rejected
//	Filled, Cancelled, Rejected are terminal
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusWorking:
		return next == OrderStatusPartiallyFilled ||
			next == OrderStatusFilled ||
			next == OrderStatusCancelled ||
			next == OrderStatusRejected
	case OrderStatusPartiallyFilled:
		return next == OrderStatusFilled ||
			next == OrderStatusCancelled ||
			next == OrderStatusRejected
	default:
		// Filled, Cancelled and Rejected are terminal
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFilled || s == OrderStatusCancelled || s == OrderStatusRejected
}

// Position represents one current holding
type Position struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Sector       string          `json:"sector"`
	Quantity     int64           `json:"quantity"` // Never negative
	AvgCost      decimal.Decimal `json:"avgCost"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	MarketValue  decimal.Decimal `json:"marketValue"` // Always quantity * currentPrice, rounded
	Weight       float64         `json:"weight"`      // Percentage of AUM (0-100)
	DayPnl       decimal.Decimal `json:"dayPnl"`
	TotalPnl     decimal.Decimal `json:"totalPnl"`
	Beta         float64         `json:"beta"`
}

// Validate ensures the position adheres to domain rules
func (p *Position) Validate() error {
	if p.Symbol == "" {
		return errors.New("position symbol cannot be empty")
	}
	if p.Quantity < 0 {
		return fmt.Errorf("position %s quantity must be non-negative", p.Symbol)
	}
	if p.Weight < 0 {
		return fmt.Errorf("position %s weight must be non-negative", p.Symbol)
	}
	return nil
}

// Order represents one order in the session's append-ordered book (newest first)
type Order struct {
	OrderID    string           `json:"orderId"` // Immutable once created
	Symbol     string           `json:"symbol"`
	Side       OrderSide        `json:"side"`
	Quantity   int64            `json:"quantity"`
	Type       OrderType        `json:"type"`
	LimitPrice *decimal.Decimal `json:"limitPrice,omitempty"`
	Status     OrderStatus      `json:"status"`
	FilledQty  int64            `json:"filledQty"`
	CreatedAt  time.Time        `json:"createdAt"`
	FilledAt   *time.Time       `json:"filledAt,omitempty"`
}

// Validate ensures the order adheres to domain rules
// CRITICAL: filledQty never exceeds quantity
func (o *Order) Validate() error {
	if o.OrderID == "" {
		return errors.New("order id cannot be empty")
	}
	if o.Symbol == "" {
		return errors.New("order symbol cannot be empty")
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("order %s quantity must be positive", o.OrderID)
	}
	if o.FilledQty < 0 {
		return fmt.Errorf("order %s filled quantity must be non-negative", o.OrderID)
	}
	if o.FilledQty > o.Quantity {
		return fmt.Errorf("order %s filled quantity exceeds order quantity", o.OrderID)
	}
	return nil
}

// Clone returns a deep copy of the order
func (o Order) Clone() Order {
	next := o
	next.LimitPrice = cloneDecimal(o.LimitPrice)
	next.FilledAt = cloneTime(o.FilledAt)
	return next
}

// RecommendedTrade is one proposed trade from the recommendation engine or
// the trade-planner model
type RecommendedTrade struct {
	Symbol              string    `json:"symbol"`
	Side                OrderSide `json:"side"`
	Quantity            int64     `json:"quantity"`
	Reason              string    `json:"reason"`
	ExpectedSlippageBps *float64  `json:"expectedSlippageBps,omitempty"`
	FillProbability     *float64  `json:"fillProbability,omitempty"`
}

// Clone returns a deep copy of the recommended trade
func (t RecommendedTrade) Clone() RecommendedTrade {
	next := t
	next.ExpectedSlippageBps = cloneFloat(t.ExpectedSlippageBps)
	next.FillProbability = cloneFloat(t.FillProbability)
	return next
}

// OrderPlanSlice is one child slice of a planned parent order
type OrderPlanSlice struct {
	Qty            int64    `json:"qty"`
	Type           string   `json:"type"`
	LimitOffsetBps *float64 `json:"limitOffsetBps,omitempty"`
}

// OrderPlanItem is one parent/slice entry of the trade-planner's order plan
type OrderPlanItem struct {
	Symbol    string           `json:"symbol"`
	ParentQty int64            `json:"parentQty"`
	Slices    []OrderPlanSlice `json:"slices"`
}

// Clone returns a deep copy of the order plan item
func (i OrderPlanItem) Clone() OrderPlanItem {
	next := i
	next.Slices = make([]OrderPlanSlice, len(i.Slices))
	for idx, slice := range i.Slices {
		copied := slice
		copied.LimitOffsetBps = cloneFloat(slice.LimitOffsetBps)
		next.Slices[idx] = copied
	}
	return next
}

// Fill records one execution against an order
type Fill struct {
	OrderID   string          `json:"orderId"`
	FillQty   int64           `json:"fillQty"`
	FillPrice decimal.Decimal `json:"fillPrice"`
	FillTime  time.Time       `json:"fillTime"`
}

// SuggestedControls are trading throttles suggested by the trading controller
type SuggestedControls struct {
	MaxParticipationRate float64         `json:"maxParticipationRate"`
	MaxOrderNotional     decimal.Decimal `json:"maxOrderNotional"`
	PreferLimitOrders    bool            `json:"preferLimitOrders"`
}

// Trading holds the trading-stage section of the aggregate
type Trading struct {
	Positions         []Position         `json:"positions"`
	Orders            []Order            `json:"orders"` // Append-ordered, newest first
	RecommendedTrades []RecommendedTrade `json:"recommendedTrades"`
	OrderPlan         []OrderPlanItem    `json:"orderPlan"` // nil when no plan is active
	Fills             []Fill             `json:"fills"`
	ControlsSuggested *SuggestedControls `json:"controlsSuggested"`
	LastRebalanceAt   *time.Time         `json:"lastRebalanceAt"`
}

// Validate ensures the trading section adheres to domain rules
// CRITICAL: every order id is unique within the aggregate
func (t *Trading) Validate() error {
	for i := range t.Positions {
		if err := t.Positions[i].Validate(); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(t.Orders))
	for i := range t.Orders {
		if err := t.Orders[i].Validate(); err != nil {
			return err
		}
		if seen[t.Orders[i].OrderID] {
			return fmt.Errorf("duplicate order id %s", t.Orders[i].OrderID)
		}
		seen[t.Orders[i].OrderID] = true
	}

	return nil
}

// Clone returns a deep copy of the trading section
func (t Trading) Clone() Trading {
	next := t

	next.Positions = append([]Position(nil), t.Positions...)

	next.Orders = make([]Order, len(t.Orders))
	for i, order := range t.Orders {
		next.Orders[i] = order.Clone()
	}

	next.RecommendedTrades = make([]RecommendedTrade, len(t.RecommendedTrades))
	for i, trade := range t.RecommendedTrades {
		next.RecommendedTrades[i] = trade.Clone()
	}

	if t.OrderPlan != nil {
		next.OrderPlan = make([]OrderPlanItem, len(t.OrderPlan))
		for i, item := range t.OrderPlan {
			next.OrderPlan[i] = item.Clone()
		}
	}

	next.Fills = append([]Fill(nil), t.Fills...)

	if t.ControlsSuggested != nil {
		copied := *t.ControlsSuggested
		next.ControlsSuggested = &copied
	}

	next.LastRebalanceAt = cloneTime(t.LastRebalanceAt)
	return next
}
