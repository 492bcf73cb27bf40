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

// TicketController is plain CRUD glue over the inventory store. The only
// ticket mutation with real invariants, the conditional decrement, happens in
// the reconciliation engine, not here.
type TicketController struct {
	Tickets repository.TicketStore
	Logger  *zap.Logger
}

func (tc *TicketController) Create(c *gin.Context) {
	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	ticket := &models.Ticket{
		ID:          uuid.New(),
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Seller: models.SellerRef{
			Email: middleware.TokenEmail(c),
			Name:  req.SellerName,
		},
		Quantity:  req.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := tc.Tickets.Create(c.Request.Context(), ticket); err != nil {
		tc.Logger.Error("ticket creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ticket"})
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (tc *TicketController) List(c *gin.Context) {
	tickets, err := tc.Tickets.FindAll(c.Request.Context())
	if err != nil {
		tc.Logger.Error("ticket listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (tc *TicketController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	ticket, err := tc.Tickets.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		tc.Logger.Error("ticket lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ticket"})
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (tc *TicketController) SellerInventory(c *gin.Context) {
	tickets, err := tc.Tickets.FindBySeller(c.Request.Context(), c.Param("email"))
	if err != nil {
		tc.Logger.Error("seller inventory lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch inventory"})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (tc *TicketController) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Quantity and identity are not editable through this path; quantity only
	// moves through the reconciliation decrement.
	delete(updates, "_id")
	delete(updates, "id")
	delete(updates, "quantity")

	if err := tc.Tickets.Update(c.Request.Context(), id, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		tc.Logger.Error("ticket update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (tc *TicketController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	if err := tc.Tickets.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		tc.Logger.Error("ticket deletion failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
