package services

import "context"

// SessionState is the gateway's view of a checkout session at retrieval time.
// TransactionID is the payment confirmation identifier and may be empty while
// the session is still open.
type SessionState struct {
	ID            string
	Completed     bool
	TransactionID string
	AmountTotal   int64
	Metadata      map[string]string
}

// CheckoutSessionInput describes the single line item and the metadata
// attached at session creation.
type CheckoutSessionInput struct {
	Name          string
	Description   string
	Image         string
	UnitAmount    int64
	Quantity      int64
	CustomerEmail string
	Metadata      map[string]string
}

// PaymentGateway is the external payment collaborator. Session creation has no
// durable local effect; everything downstream hangs off RetrieveSession.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (redirectURL string, err error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionState, error)
}
