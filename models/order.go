package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

// Order references exactly one ticket. TransactionID is unset until the order
// is paid; at most one order ever holds a given transaction id.
type Order struct {
	ID            uuid.UUID  `bson:"_id" json:"id"`
	TicketID      uuid.UUID  `bson:"ticket_id" json:"ticketId"`
	Customer      string     `bson:"customer" json:"customer"`
	Seller        SellerRef  `bson:"seller" json:"seller"`
	Name          string     `bson:"name" json:"name"`
	Category      string     `bson:"category,omitempty" json:"category,omitempty"`
	Description   string     `bson:"description,omitempty" json:"description,omitempty"`
	Image         string     `bson:"image,omitempty" json:"image,omitempty"`
	Quantity      int        `bson:"quantity" json:"quantity"`
	Price         int64      `bson:"price" json:"price"` // unit price in minor units at purchase time
	Status        string     `bson:"status" json:"status"`
	TransactionID string     `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
	PaidAt        *time.Time `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
}

// CreateOrderRequest creates a pending order ahead of payment.
type CreateOrderRequest struct {
	TicketID uuid.UUID `json:"ticketId" binding:"required"`
	Customer string    `json:"customer" binding:"required,email"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// UpdateOrderStatusRequest is the manual status edit payload.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid"`
}

// OrderPaidEvent is published after a reconciliation wins the pending->paid
// transition or synthesizes a direct-purchase order.
type OrderPaidEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	TicketID      string    `json:"ticket_id"`
	Customer      string    `json:"customer"`
	Quantity      int       `json:"quantity"`
	Amount        int64     `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}
