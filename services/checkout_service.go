package services

import (
	"context"
	"errors"
	"fmt"

	"ticket-marketplace/models"
	"ticket-marketplace/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrInvalidPurchaseIntent rejects a checkout whose price and quantity
	// cannot be resolved to a positive integer minor-unit amount.
	ErrInvalidPurchaseIntent = errors.New("invalid purchase intent")

	ErrTicketNotFound = errors.New("ticket not found")
	ErrOrderNotFound  = errors.New("order not found")
)

var oneHundred = decimal.NewFromInt(100)

// CheckoutService starts gateway checkout sessions. It persists nothing;
// a session only becomes durable state once its completion is reconciled.
type CheckoutService struct {
	tickets repository.TicketStore
	gateway PaymentGateway
	log     *zap.Logger
}

func NewCheckoutService(tickets repository.TicketStore, gateway PaymentGateway, log *zap.Logger) *CheckoutService {
	return &CheckoutService{tickets: tickets, gateway: gateway, log: log}
}

// Start resolves the intent against the listed ticket, builds the line item
// and metadata, and returns the gateway redirect URL.
func (s *CheckoutService) Start(ctx context.Context, intent *models.PurchaseIntent) (string, error) {
	quantity := intent.Quantity
	if quantity < 1 {
		quantity = 1
	}

	ticket, err := s.tickets.FindByID(ctx, intent.TicketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrTicketNotFound
		}
		return "", fmt.Errorf("resolve ticket: %w", err)
	}

	unitAmount, err := resolveUnitAmount(intent, ticket, quantity)
	if err != nil {
		return "", err
	}

	name := intent.TicketName
	if name == "" {
		name = ticket.Name
	}
	description := intent.Description
	if description == "" {
		description = ticket.Description
	}
	image := intent.Image
	if image == "" {
		image = ticket.Image
	}

	metadata := map[string]string{
		"ticketId": intent.TicketID.String(),
		"customer": intent.Customer,
	}
	if intent.OrderID != nil {
		metadata["orderId"] = intent.OrderID.String()
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionInput{
		Name:          name,
		Description:   description,
		Image:         image,
		UnitAmount:    unitAmount,
		Quantity:      int64(quantity),
		CustomerEmail: intent.Customer,
		Metadata:      metadata,
	})
	if err != nil {
		return "", err
	}

	s.log.Info("checkout session created",
		zap.String("ticket_id", intent.TicketID.String()),
		zap.String("customer", intent.Customer),
		zap.Int64("unit_amount", unitAmount),
		zap.Int("quantity", quantity),
	)
	return url, nil
}

// resolveUnitAmount converts the intent's price (major units), or its total
// split across the quantity, or the listed ticket price, into integer cents.
func resolveUnitAmount(intent *models.PurchaseIntent, ticket *models.Ticket, quantity int) (int64, error) {
	var unit decimal.Decimal
	switch {
	case intent.Price != nil:
		unit = *intent.Price
	case intent.TotalPrice != nil:
		unit = intent.TotalPrice.Div(decimal.NewFromInt(int64(quantity)))
	default:
		return ticket.Price, validateAmount(decimal.NewFromInt(ticket.Price))
	}

	cents := unit.Mul(oneHundred)
	if err := validateAmount(cents); err != nil {
		return 0, err
	}
	return cents.IntPart(), nil
}

func validateAmount(cents decimal.Decimal) error {
	if !cents.IsInteger() || !cents.IsPositive() {
		return fmt.Errorf("%w: amount %s is not a positive whole number of cents",
			ErrInvalidPurchaseIntent, cents.String())
	}
	return nil
}
