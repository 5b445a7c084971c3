package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderState is the lifecycle state of the in-progress order.
type OrderState string

const (
	OrderEmpty      OrderState = "EMPTY"
	OrderActive     OrderState = "ACTIVE"
	OrderFinalizing OrderState = "FINALIZING"
)

// OrderLine is one distinct product in the in-progress order.
// UnitPrice is the price locked in at add time, adjusted for event pricing;
// BasePrice is the catalog price it was derived from.
type OrderLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Category    string          `json:"category"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	BasePrice   decimal.Decimal `json:"-"`
	Quantity    int             `json:"quantity"`
}

// Subtotal is UnitPrice × Quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderLineView is a line as handed to the presentation layer.
type OrderLineView struct {
	OrderLine
	Position        int    `json:"position"`
	DisplayUnit     string `json:"display_unit_price"`
	DisplaySubtotal string `json:"display_subtotal"`
}

// OrderSnapshot is a copy of the order taken after a transition.
type OrderSnapshot struct {
	OrderID      uuid.UUID       `json:"order_id"`
	State        OrderState      `json:"state"`
	Lines        []OrderLineView `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	DisplayTotal string          `json:"display_total"`
	EventPricing bool            `json:"event_pricing"`
}

// PaymentReceipt describes a committed payment.
type PaymentReceipt struct {
	OrderID uuid.UUID       `json:"order_id"`
	Records []SaleRecord    `json:"records"`
	Total   decimal.Decimal `json:"total"`
}
