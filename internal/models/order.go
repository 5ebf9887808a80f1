// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order may move from s to next.
// Fulfilment is forward-only: pending orders get confirmed, confirmed
// orders ship. Cancellation is possible until the order has shipped;
// shipped and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusConfirmed || next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	}
	return false
}

// OrderItem is a single cart line. Unit price is copied from the product
// at checkout time so later price changes don't rewrite order history.
type OrderItem struct {
	ProductID      uuid.UUID `json:"product_id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int64     `json:"line_total_cents"`
}

// Order is a completed checkout. Totals are always computed server-side
// from stored unit prices, never trusted from the client.
type Order struct {
	ID            uuid.UUID   `json:"id"`
	Number        string      `json:"number"`
	CustomerName  string      `json:"customer_name"`
	Email         string      `json:"email"`
	Company       string      `json:"company,omitempty"`
	Items         []OrderItem `json:"items"`
	SubtotalCents int64       `json:"subtotal_cents"`
	ShippingCents int64       `json:"shipping_cents"`
	TotalCents    int64       `json:"total_cents"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Flat shipping fee applied to every order; waived above the free threshold.
const (
	shippingFlatCents     = 1500
	freeShippingThreshold = 50000
)

// ComputeTotals fills per-line and order totals from unit prices and
// quantities. Call after Items is populated with prices from the catalog.
func (o *Order) ComputeTotals() {
	var subtotal int64
	for i := range o.Items {
		o.Items[i].LineTotalCents = o.Items[i].UnitPriceCents * int64(o.Items[i].Quantity)
		subtotal += o.Items[i].LineTotalCents
	}
	o.SubtotalCents = subtotal
	if subtotal >= freeShippingThreshold || subtotal == 0 {
		o.ShippingCents = 0
	} else {
		o.ShippingCents = shippingFlatCents
	}
	o.TotalCents = o.SubtotalCents + o.ShippingCents
}
