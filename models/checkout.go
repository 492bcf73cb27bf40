package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseIntent is the checkout initiation payload. Price and TotalPrice are
// decimals in major currency units; either one may be given, otherwise the
// listed ticket price is used. OrderID marks the pre-created order flow.
type PurchaseIntent struct {
	TicketID    uuid.UUID        `json:"ticketId" binding:"required"`
	OrderID     *uuid.UUID       `json:"orderId"`
	TicketName  string           `json:"ticketName"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Price       *decimal.Decimal `json:"price"`
	TotalPrice  *decimal.Decimal `json:"totalPrice"`
	Quantity    int              `json:"quantity"`
	Customer    string           `json:"customer" binding:"required,email"`
}

// ReconcileRequest reports a checkout session back for reconciliation.
type ReconcileRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// ReconcileResult is what every reconciliation caller observes. OrderID is
// null when the session is not complete or carries no actionable metadata.
// InventoryShort flags a captured payment whose inventory decrement failed;
// it is a warning, not an error, and is never rolled back here.
type ReconcileResult struct {
	TransactionID  string     `json:"transactionId"`
	OrderID        *uuid.UUID `json:"orderId"`
	InventoryShort bool       `json:"inventoryShort,omitempty"`
}
