// Package order owns the status state machine. Transition is the single
// entry point for every order status change, whether staff-driven,
// customer-driven or payment-driven.
package order

import (
	"context"
	"log"

	"quickbites-backend/internal/domain"
	orderrepo "quickbites-backend/internal/repository/order"
)

type Service struct {
	repo   orderRepo
	carts  cartClearer
	logger *log.Logger
}

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByUser(ctx context.Context, id, userID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, actor, note string) error
	MarkPaid(ctx context.Context, orderID string) (bool, error)
}

type cartClearer interface {
	ClearByUser(ctx context.Context, userID string) error
}

func New(repo orderrepo.Repository, carts cartClearer, logger *log.Logger) *Service {
	return &Service{repo: repo, carts: carts, logger: logger}
}

func (s *Service) Get(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	return s.repo.GetByUser(ctx, orderID, userID)
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Transition validates the move against the status graph and applies it as
// a compare-and-set keyed on the validated current status, appending the
// history entry in the same write.
func (s *Service) Transition(ctx context.Context, orderID string, to domain.OrderStatus, actor, note string) (*domain.Order, error) {
	if !to.Valid() {
		return nil, domain.Validationf("unknown order status %q", to)
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.OrderStatus, to) {
		return nil, &domain.InvalidTransitionError{From: current.OrderStatus, To: to}
	}

	if err := s.repo.UpdateStatus(ctx, orderID, current.OrderStatus, to, actor, note); err != nil {
		return nil, err
	}

	s.settleCashOrder(ctx, current, to)

	return s.repo.GetByID(ctx, orderID)
}

// Cancel is the customer-facing transition to cancelled; ownership is
// checked before the state machine is consulted.
func (s *Service) Cancel(ctx context.Context, orderID, userID, note string) (*domain.Order, error) {
	if _, err := s.repo.GetByUser(ctx, orderID, userID); err != nil {
		return nil, err
	}
	if note == "" {
		note = "Cancelled by customer"
	}
	return s.Transition(ctx, orderID, domain.StatusCancelled, "customer", note)
}

// settleCashOrder handles the money-side effects the intent flow performs
// for card orders: staff confirming a cash order clears the cart that
// produced it, and delivery settles its payment.
func (s *Service) settleCashOrder(ctx context.Context, o *domain.Order, to domain.OrderStatus) {
	if o.PaymentMethod != domain.PaymentMethodCashOnDelivery {
		return
	}
	switch to {
	case domain.StatusConfirmed:
		if err := s.carts.ClearByUser(ctx, o.UserID); err != nil {
			s.logger.Printf("clear cart for user %s: %v", o.UserID, err)
		}
	case domain.StatusDelivered:
		if _, err := s.repo.MarkPaid(ctx, o.ID); err != nil {
			s.logger.Printf("mark cash order %s paid: %v", o.ID, err)
		}
	}
}
