package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-marketplace/models"
	"ticket-marketplace/monitoring"
	"ticket-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher emits best-effort notifications after a reconciliation
// commits. Failures are logged, never propagated.
type EventPublisher interface {
	PublishOrderPaid(ctx context.Context, event models.OrderPaidEvent) error
}

// ReconciliationService matches a confirmed payment session to durable order
// and inventory state exactly once. All cross-request coordination is pushed
// into the stores' conditional operations; the service itself holds no locks
// and is safe to invoke concurrently for the same session.
type ReconciliationService struct {
	orders  repository.OrderStore
	tickets repository.TicketStore
	gateway PaymentGateway
	events  EventPublisher
	log     *zap.Logger
}

func NewReconciliationService(
	orders repository.OrderStore,
	tickets repository.TicketStore,
	gateway PaymentGateway,
	events EventPublisher,
	log *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		orders:  orders,
		tickets: tickets,
		gateway: gateway,
		events:  events,
		log:     log,
	}
}

type targetKind int

const (
	targetNone targetKind = iota
	targetOrder
	targetTicket
)

// reconcileTarget is the tagged decoding of the session metadata. Order-flow
// metadata takes precedence when both identifiers are present.
type reconcileTarget struct {
	kind targetKind
	id   uuid.UUID
}

func resolveTarget(metadata map[string]string) reconcileTarget {
	if raw, ok := metadata["orderId"]; ok && raw != "" {
		// An unparsable id still selects the order flow; the lookup on the
		// zero id reports the order as missing rather than silently falling
		// through to a direct purchase.
		id, _ := uuid.Parse(raw)
		return reconcileTarget{kind: targetOrder, id: id}
	}
	if raw, ok := metadata["ticketId"]; ok && raw != "" {
		id, _ := uuid.Parse(raw)
		return reconcileTarget{kind: targetTicket, id: id}
	}
	return reconcileTarget{kind: targetNone}
}

// Reconcile retrieves the session and applies the matching flow. For a given
// completed session the order reaches paid exactly once and inventory is
// decremented at most once, no matter how many times this is called.
func (s *ReconciliationService) Reconcile(ctx context.Context, sessionID string) (*models.ReconcileResult, error) {
	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.Completed {
		// Polling before completion: report the confirmation id if the
		// gateway has one, mutate nothing.
		monitoring.ObserveReconciliation("none", "incomplete")
		return &models.ReconcileResult{TransactionID: sess.TransactionID}, nil
	}

	switch target := resolveTarget(sess.Metadata); target.kind {
	case targetOrder:
		return s.reconcileOrder(ctx, sess, target.id)
	case targetTicket:
		return s.reconcileDirect(ctx, sess, target.id)
	default:
		monitoring.ObserveReconciliation("none", "no_target")
		return &models.ReconcileResult{TransactionID: sess.TransactionID}, nil
	}
}

// reconcileOrder handles the pre-created order flow.
func (s *ReconciliationService) reconcileOrder(ctx context.Context, sess *SessionState, orderID uuid.UUID) (*models.ReconcileResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			monitoring.ObserveReconciliation("order", "not_found")
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	won, err := s.orders.MarkPaid(ctx, order.ID, sess.TransactionID)
	if err != nil {
		return nil, err
	}

	result := &models.ReconcileResult{
		TransactionID: sess.TransactionID,
		OrderID:       &order.ID,
	}
	if !won {
		// Duplicate delivery: the transition already happened, return the
		// same result without touching inventory.
		monitoring.ObserveReconciliation("order", "duplicate")
		s.log.Info("duplicate confirmation ignored",
			zap.String("order_id", order.ID.String()),
			zap.String("transaction_id", sess.TransactionID),
		)
		return result, nil
	}

	s.applyDecrement(ctx, order.TicketID, order.Quantity, result)
	monitoring.ObserveReconciliation("order", "paid")
	s.publishPaid(ctx, order, sess.TransactionID)
	return result, nil
}

// reconcileDirect handles the direct-purchase flow: no order exists until the
// confirmation arrives, so one is synthesized from the ticket.
func (s *ReconciliationService) reconcileDirect(ctx context.Context, sess *SessionState, ticketID uuid.UUID) (*models.ReconcileResult, error) {
	// Dedupe against an earlier delivery that already created the order.
	if existing, err := s.orders.FindByTransactionID(ctx, sess.TransactionID); err == nil {
		monitoring.ObserveReconciliation("ticket", "duplicate")
		return &models.ReconcileResult{
			TransactionID: sess.TransactionID,
			OrderID:       &existing.ID,
		}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			monitoring.ObserveReconciliation("ticket", "not_found")
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:            uuid.New(),
		TicketID:      ticket.ID,
		Customer:      sess.Metadata["customer"],
		Seller:        ticket.Seller,
		Name:          ticket.Name,
		Category:      ticket.Category,
		Description:   ticket.Description,
		Image:         ticket.Image,
		Quantity:      1,
		Price:         sess.AmountTotal,
		Status:        models.OrderStatusPaid,
		TransactionID: sess.TransactionID,
		CreatedAt:     now,
		PaidAt:        &now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateTransaction) {
			// Lost the insert race; the winner's order carries this
			// transaction, return it.
			existing, ferr := s.orders.FindByTransactionID(ctx, sess.TransactionID)
			if ferr != nil {
				return nil, fmt.Errorf("resolve duplicate transaction %s: %w", sess.TransactionID, ferr)
			}
			monitoring.ObserveReconciliation("ticket", "duplicate")
			return &models.ReconcileResult{
				TransactionID: sess.TransactionID,
				OrderID:       &existing.ID,
			}, nil
		}
		return nil, err
	}

	result := &models.ReconcileResult{
		TransactionID: sess.TransactionID,
		OrderID:       &order.ID,
	}
	s.applyDecrement(ctx, ticket.ID, 1, result)
	monitoring.ObserveReconciliation("ticket", "paid")
	s.publishPaid(ctx, order, sess.TransactionID)
	return result, nil
}

// applyDecrement performs the conditional inventory decrement. A shortfall is
// surfaced on the result, not returned as an error: the payment is already
// captured and that fact must never be hidden from the caller.
func (s *ReconciliationService) applyDecrement(ctx context.Context, ticketID uuid.UUID, quantity int, result *models.ReconcileResult) {
	err := s.tickets.DecrementQuantity(ctx, ticketID, quantity)
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		result.InventoryShort = true
		monitoring.ObserveInventoryShort()
		s.log.Warn("inventory short after captured payment",
			zap.String("ticket_id", ticketID.String()),
			zap.Int("quantity", quantity),
			zap.String("transaction_id", result.TransactionID),
		)
	case errors.Is(err, repository.ErrNotFound):
		s.log.Warn("ticket missing during decrement",
			zap.String("ticket_id", ticketID.String()),
			zap.String("transaction_id", result.TransactionID),
		)
	default:
		// The order is already paid; a transient store failure here must not
		// fail the reconciliation. The caller can safely retry, but the retry
		// will see the duplicate guard, so log loudly for manual follow-up.
		s.log.Error("inventory decrement failed after captured payment",
			zap.String("ticket_id", ticketID.String()),
			zap.Int("quantity", quantity),
			zap.String("transaction_id", result.TransactionID),
			zap.Error(err),
		)
	}
}

func (s *ReconciliationService) publishPaid(ctx context.Context, order *models.Order, transactionID string) {
	if s.events == nil {
		return
	}
	event := models.OrderPaidEvent{
		Type:          "order_paid",
		OrderID:       order.ID.String(),
		TicketID:      order.TicketID.String(),
		Customer:      order.Customer,
		Quantity:      order.Quantity,
		Amount:        order.Price,
		TransactionID: transactionID,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.events.PublishOrderPaid(ctx, event); err != nil {
		s.log.Warn("order paid event publish failed",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}
