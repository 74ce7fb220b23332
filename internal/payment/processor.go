// Package payment defines the narrow processor capability the core depends
// on, plus the Stripe adapter that implements it. Services never see the
// processor's wire format, only Intent and Event.
package payment

import (
	"context"
	"errors"
)

// Intent is a processor-side authorization handle for a specific amount.
type Intent struct {
	Reference    string
	ClientSecret string
	Status       string
}

// Intent statuses the core cares about; anything else is reported verbatim.
const (
	IntentSucceeded = "succeeded"
	IntentCanceled  = "canceled"
)

// Event is a verified inbound processor notification.
type Event struct {
	ID        string
	Type      string
	Reference string
	Status    string
}

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// ErrInvalidSignature rejects an inbound event that fails authenticity
// verification. Nothing may be mutated when this is returned.
var ErrInvalidSignature = errors.New("invalid event signature")

// Processor is the full external payment capability.
type Processor interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
	GetIntent(ctx context.Context, reference string) (*Intent, error)
	VerifyEvent(payload []byte, signatureHeader string) (*Event, error)
}
