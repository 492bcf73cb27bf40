package controllers

import (
	"errors"
	"net/http"

	"ticket-marketplace/models"
	"ticket-marketplace/monitoring"
	"ticket-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentController exposes checkout initiation and payment reconciliation.
type PaymentController struct {
	Checkout  *services.CheckoutService
	Reconcile *services.ReconciliationService
	Logger    *zap.Logger
}

// CreateCheckoutSession starts a gateway checkout session for a purchase
// intent and returns the redirect URL. Nothing is persisted locally.
func (pc *PaymentController) CreateCheckoutSession(c *gin.Context) {
	var intent models.PurchaseIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := pc.Checkout.Start(c.Request.Context(), &intent)
	if err != nil {
		monitoring.ObserveCheckoutSession("failed")
		switch {
		case errors.Is(err, services.ErrInvalidPurchaseIntent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		default:
			pc.Logger.Error("checkout session creation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create checkout session"})
		}
		return
	}

	monitoring.ObserveCheckoutSession("created")
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// PaymentSuccess reconciles a reported session. It is unauthenticated by
// design: the session state is fetched from the gateway, which is the trust
// source, and every path through the engine is idempotent.
func (pc *PaymentController) PaymentSuccess(c *gin.Context) {
	var req models.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := pc.Reconcile.Reconcile(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, services.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		default:
			pc.Logger.Error("reconciliation failed",
				zap.String("session_id", req.SessionID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
