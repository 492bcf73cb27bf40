package controllers

import (
	"errors"
	"net/http"
	"time"

	"ticket-marketplace/middleware"
	"ticket-marketplace/models"
	"ticket-marketplace/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderController covers order lifecycle glue: pending-order creation, reads
// scoped by verified identity, manual edits, deletion. The pending->paid
// transition itself belongs to the reconciliation engine.
type OrderController struct {
	Orders  repository.OrderStore
	Tickets repository.TicketStore
	Logger  *zap.Logger
}

// Create books a pending order. The seller reference is copied from the
// ticket now, so the order keeps it even if the ticket changes later.
func (oc *OrderController) Create(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := oc.Tickets.FindByID(c.Request.Context(), req.TicketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		oc.Logger.Error("ticket lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	order := &models.Order{
		ID:          uuid.New(),
		TicketID:    ticket.ID,
		Customer:    req.Customer,
		Seller:      ticket.Seller,
		Name:        ticket.Name,
		Category:    ticket.Category,
		Description: ticket.Description,
		Image:       ticket.Image,
		Quantity:    req.Quantity,
		Price:       ticket.Price,
		Status:      models.OrderStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := oc.Orders.Create(c.Request.Context(), order); err != nil {
		oc.Logger.Error("order creation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create booking"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// MyOrders returns the caller's own orders, scoped by the verified email.
func (oc *OrderController) MyOrders(c *gin.Context) {
	orders, err := oc.Orders.FindByCustomer(c.Request.Context(), middleware.TokenEmail(c))
	if err != nil {
		oc.Logger.Error("order listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// SellerOrders returns the orders placed against a seller's tickets.
func (oc *OrderController) SellerOrders(c *gin.Context) {
	orders, err := oc.Orders.FindBySeller(c.Request.Context(), c.Param("email"))
	if err != nil {
		oc.Logger.Error("seller order listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateStatus is the manual status edit. A paid order is immutable through
// this path; attempts to regress it return 409.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := oc.Orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, repository.ErrPaidImmutable):
			c.JSON(http.StatusConflict, gin.H{"error": "paid order status cannot be changed"})
		default:
			oc.Logger.Error("order status update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (oc *OrderController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := oc.Orders.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		oc.Logger.Error("order deletion failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
