package models

import (
	"time"

	"github.com/google/uuid"
)

// SellerRef is the seller identity embedded in tickets and copied onto orders
// at creation time, so an order keeps its historical seller even if the ticket
// changes hands later.
type SellerRef struct {
	Email string `bson:"email" json:"email"`
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
}

// Ticket is a resale listing with a finite quantity. Quantity is only ever
// decremented by successful payment reconciliation.
type Ticket struct {
	ID          uuid.UUID `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty"`
	Price       int64     `bson:"price" json:"price"` // minor currency units
	Seller      SellerRef `bson:"seller" json:"seller"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// CreateTicketRequest is the seller-facing listing payload.
type CreateTicketRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       int64  `json:"price" binding:"required,min=1"`
	SellerName  string `json:"sellerName"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}
