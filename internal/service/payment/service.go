// Package payment reconciles processor-reported outcomes into order state.
// The synchronous confirm path and the asynchronous webhook path may race
// for the same order; the conditional mark-paid write decides the winner,
// so the confirmation transition and cart clear run exactly once.
package payment

import (
	"context"
	"errors"
	"log"

	"quickbites-backend/internal/domain"
	gateway "quickbites-backend/internal/payment"
	orderrepo "quickbites-backend/internal/repository/order"
)

const confirmationNote = "Payment received, order confirmed"

type Service struct {
	orders    orderRepo
	status    statusController
	carts     cartClearer
	processor gateway.Processor
	currency  string
	logger    *log.Logger
}

type orderRepo interface {
	GetByUser(ctx context.Context, id, userID string) (*domain.Order, error)
	GetByPaymentReference(ctx context.Context, reference string) (*domain.Order, error)
	SetPaymentReference(ctx context.Context, orderID, reference string) error
	MarkPaid(ctx context.Context, orderID string) (bool, error)
	MarkFailed(ctx context.Context, orderID string) (bool, error)
}

type statusController interface {
	Transition(ctx context.Context, orderID string, to domain.OrderStatus, actor, note string) (*domain.Order, error)
}

type cartClearer interface {
	ClearByUser(ctx context.Context, userID string) error
}

func New(orders orderrepo.Repository, status statusController, carts cartClearer, processor gateway.Processor, currency string, logger *log.Logger) *Service {
	return &Service{
		orders:    orders,
		status:    status,
		carts:     carts,
		processor: processor,
		currency:  currency,
		logger:    logger,
	}
}

type IntentResult struct {
	Reference    string `json:"reference"`
	ClientSecret string `json:"clientSecret"`
	AmountCents  int64  `json:"amountCents"`
}

// CreateIntent creates (or reuses) a processor-side intent for the order's
// total. Calling it twice for the same still-pending order returns the
// existing intent rather than charging again.
func (s *Service) CreateIntent(ctx context.Context, orderID, userID string) (*IntentResult, error) {
	order, err := s.orders.GetByUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != domain.PaymentMethodStripe {
		return nil, domain.Validationf("order is not payable online")
	}
	if order.PaymentStatus != domain.PaymentPending {
		return nil, domain.ErrConflict
	}

	if order.PaymentReference != "" {
		intent, err := s.processor.GetIntent(ctx, order.PaymentReference)
		if err == nil && intent.Status != gateway.IntentCanceled {
			return &IntentResult{
				Reference:    intent.Reference,
				ClientSecret: intent.ClientSecret,
				AmountCents:  order.TotalCents,
			}, nil
		}
		if err != nil {
			s.logger.Printf("retrieve intent %s: %v, creating a new one", order.PaymentReference, err)
		}
	}

	intent, err := s.processor.CreateIntent(ctx, order.TotalCents, s.currency, map[string]string{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"userId":      userID,
	})
	if err != nil {
		return nil, &domain.ProcessorError{Op: "create intent", Err: err}
	}

	if err := s.orders.SetPaymentReference(ctx, order.ID, intent.Reference); err != nil {
		return nil, err
	}

	return &IntentResult{
		Reference:    intent.Reference,
		ClientSecret: intent.ClientSecret,
		AmountCents:  order.TotalCents,
	}, nil
}

type ConfirmResult struct {
	OrderID string `json:"orderId,omitempty"`
	Status  string `json:"status"`
	Paid    bool   `json:"paid"`
}

// Confirm is the synchronous client-triggered path: it asks the processor
// for the intent's current status and, if it succeeded, settles the order
// idempotently. A non-succeeded status is reported without any mutation.
func (s *Service) Confirm(ctx context.Context, reference string) (*ConfirmResult, error) {
	if reference == "" {
		return nil, domain.Validationf("payment reference is required")
	}

	intent, err := s.processor.GetIntent(ctx, reference)
	if err != nil {
		return nil, &domain.ProcessorError{Op: "get intent", Err: err}
	}
	if intent.Status != gateway.IntentSucceeded {
		return &ConfirmResult{Status: intent.Status}, nil
	}

	order, err := s.orders.GetByPaymentReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if err := s.settleSuccess(ctx, order); err != nil {
		return nil, err
	}
	return &ConfirmResult{OrderID: order.ID, Status: intent.Status, Paid: true}, nil
}

// HandleEvent is the asynchronous webhook path. It verifies authenticity
// before anything else and is idempotent under at-least-once delivery and
// reordering: duplicate successes no-op, and a late failure never
// downgrades a paid order.
func (s *Service) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.processor.VerifyEvent(payload, signatureHeader)
	if err != nil {
		return err
	}

	switch event.Type {
	case gateway.EventPaymentSucceeded:
		order, err := s.orders.GetByPaymentReference(ctx, event.Reference)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Acknowledge so the processor stops retrying a reference
				// we will never recognize.
				s.logger.Printf("success event for unknown reference %s ignored", event.Reference)
				return nil
			}
			return err
		}
		return s.settleSuccess(ctx, order)

	case gateway.EventPaymentFailed:
		order, err := s.orders.GetByPaymentReference(ctx, event.Reference)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Printf("failure event for unknown reference %s ignored", event.Reference)
				return nil
			}
			return err
		}
		flipped, err := s.orders.MarkFailed(ctx, order.ID)
		if err != nil {
			return err
		}
		if !flipped {
			s.logger.Printf("failure event for order %s ignored, payment already settled", order.ID)
		}
		return nil

	default:
		return nil
	}
}

// settleSuccess marks the order paid and, only if this call won the
// conditional flip, confirms the order and clears the owning user's cart.
func (s *Service) settleSuccess(ctx context.Context, order *domain.Order) error {
	won, err := s.orders.MarkPaid(ctx, order.ID)
	if err != nil {
		return err
	}
	if !won {
		// Duplicate delivery or a lost race with the other path.
		return nil
	}

	if order.OrderStatus == domain.StatusPending {
		if _, err := s.status.Transition(ctx, order.ID, domain.StatusConfirmed, "system", confirmationNote); err != nil {
			// The order may have been cancelled or confirmed concurrently;
			// payment state is already settled, so log and carry on.
			s.logger.Printf("confirm order %s after payment: %v", order.ID, err)
		}
	}

	if err := s.carts.ClearByUser(ctx, order.UserID); err != nil {
		s.logger.Printf("clear cart for user %s: %v", order.UserID, err)
	}
	return nil
}
