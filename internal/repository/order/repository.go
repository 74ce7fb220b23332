package order

import (
	"context"
	"errors"

	"quickbites-backend/internal/domain"
)

// ErrDuplicateOrderNumber signals a uniqueness collision on order_number so
// the checkout orchestrator can regenerate and retry.
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

type CreateOrderInput struct {
	OrderNumber      string
	UserID           string
	Items            []domain.OrderItem
	DeliveryAddress  domain.Address
	SubtotalCents    int64
	TaxCents         int64
	DeliveryFeeCents int64
	TotalCents       int64
	PaymentMethod    domain.PaymentMethod
}

type Repository interface {
	// Create persists the order, its frozen items and the initial pending
	// history entry in one transaction.
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByUser(ctx context.Context, id, userID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByPaymentReference(ctx context.Context, reference string) (*domain.Order, error)
	// SetPaymentReference stores the processor handle, only while the
	// payment is still pending. domain.ErrConflict if it no longer is.
	SetPaymentReference(ctx context.Context, orderID, reference string) error
	// UpdateStatus performs a compare-and-set on order_status and appends
	// the history entry atomically. domain.ErrConflict if the current
	// status no longer matches from.
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, actor, note string) error
	// MarkPaid flips payment_status pending -> paid. The boolean reports
	// whether this call won the flip; false means it was already paid.
	MarkPaid(ctx context.Context, orderID string) (bool, error)
	// MarkFailed flips payment_status pending -> failed; a paid order is
	// never downgraded.
	MarkFailed(ctx context.Context, orderID string) (bool, error)
}
