package services

import (
	"context"
	"testing"

	"ticket-marketplace/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingGateway struct {
	lastInput CheckoutSessionInput
	called    bool
}

func (g *recordingGateway) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (string, error) {
	g.called = true
	g.lastInput = in
	return "https://checkout.example/cs_test", nil
}

func (g *recordingGateway) RetrieveSession(ctx context.Context, sessionID string) (*SessionState, error) {
	return nil, nil
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCheckoutStartWithExplicitPrice(t *testing.T) {
	ticket := testTicket(5)
	gw := &recordingGateway{}
	svc := NewCheckoutService(newFakeTicketStore(ticket), gw, zap.NewNop())

	url, err := svc.Start(context.Background(), &models.PurchaseIntent{
		TicketID: ticket.ID,
		Price:    dec("12.34"),
		Quantity: 2,
		Customer: "buyer@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.example/cs_test", url)
	assert.Equal(t, int64(1234), gw.lastInput.UnitAmount)
	assert.Equal(t, int64(2), gw.lastInput.Quantity)
	assert.Equal(t, "buyer@example.com", gw.lastInput.CustomerEmail)
	assert.Equal(t, ticket.ID.String(), gw.lastInput.Metadata["ticketId"])
	assert.NotContains(t, gw.lastInput.Metadata, "orderId")
	// Line item details fall back to the listing.
	assert.Equal(t, ticket.Name, gw.lastInput.Name)
}

func TestCheckoutStartWithTotalPrice(t *testing.T) {
	ticket := testTicket(5)
	gw := &recordingGateway{}
	svc := NewCheckoutService(newFakeTicketStore(ticket), gw, zap.NewNop())

	_, err := svc.Start(context.Background(), &models.PurchaseIntent{
		TicketID:   ticket.ID,
		TotalPrice: dec("90.00"),
		Quantity:   2,
		Customer:   "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4500), gw.lastInput.UnitAmount)
}

func TestCheckoutStartDefaultsToListedPrice(t *testing.T) {
	ticket := testTicket(5) // listed at 4500 minor units
	gw := &recordingGateway{}
	svc := NewCheckoutService(newFakeTicketStore(ticket), gw, zap.NewNop())

	_, err := svc.Start(context.Background(), &models.PurchaseIntent{
		TicketID: ticket.ID,
		Customer: "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4500), gw.lastInput.UnitAmount)
	assert.Equal(t, int64(1), gw.lastInput.Quantity)
}

func TestCheckoutStartPreCreatedOrderMetadata(t *testing.T) {
	ticket := testTicket(5)
	orderID := uuid.New()
	gw := &recordingGateway{}
	svc := NewCheckoutService(newFakeTicketStore(ticket), gw, zap.NewNop())

	_, err := svc.Start(context.Background(), &models.PurchaseIntent{
		TicketID: ticket.ID,
		OrderID:  &orderID,
		Price:    dec("10"),
		Quantity: 1,
		Customer: "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, orderID.String(), gw.lastInput.Metadata["orderId"])
}

func TestCheckoutStartInvalidIntent(t *testing.T) {
	ticket := testTicket(5)

	cases := map[string]*models.PurchaseIntent{
		"zero price": {
			TicketID: ticket.ID,
			Price:    dec("0"),
			Customer: "buyer@example.com",
		},
		"negative price": {
			TicketID: ticket.ID,
			Price:    dec("-5"),
			Customer: "buyer@example.com",
		},
		"fractional cents": {
			TicketID: ticket.ID,
			Price:    dec("9.999"),
			Customer: "buyer@example.com",
		},
		"total not divisible": {
			TicketID:   ticket.ID,
			TotalPrice: dec("10"),
			Quantity:   3,
			Customer:   "buyer@example.com",
		},
	}

	for name, intent := range cases {
		t.Run(name, func(t *testing.T) {
			gw := &recordingGateway{}
			svc := NewCheckoutService(newFakeTicketStore(ticket), gw, zap.NewNop())
			_, err := svc.Start(context.Background(), intent)
			assert.ErrorIs(t, err, ErrInvalidPurchaseIntent)
			assert.False(t, gw.called, "no gateway call on invalid intent")
		})
	}
}

func TestCheckoutStartUnknownTicket(t *testing.T) {
	gw := &recordingGateway{}
	svc := NewCheckoutService(newFakeTicketStore(), gw, zap.NewNop())

	_, err := svc.Start(context.Background(), &models.PurchaseIntent{
		TicketID: uuid.New(),
		Price:    dec("10"),
		Customer: "buyer@example.com",
	})
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.False(t, gw.called)
}
