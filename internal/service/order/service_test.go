package order

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"quickbites-backend/internal/domain"
)

type stubRepo struct {
	order         *domain.Order
	getErr        error
	ownedErr      error
	updateErr     error
	lastFrom      domain.OrderStatus
	lastTo        domain.OrderStatus
	lastActor     string
	lastNote      string
	updateCalls   int
	markPaidCalls int
	markPaidWon   bool
	markPaidErr   error
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubRepo) GetByUser(_ context.Context, _, userID string) (*domain.Order, error) {
	if s.ownedErr != nil {
		return nil, s.ownedErr
	}
	if s.order == nil || s.order.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return s.order, nil
}

func (s *stubRepo) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	if s.order == nil {
		return nil, nil
	}
	return []domain.Order{*s.order}, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, _ string, from, to domain.OrderStatus, actor, note string) error {
	s.updateCalls++
	s.lastFrom = from
	s.lastTo = to
	s.lastActor = actor
	s.lastNote = note
	if s.updateErr != nil {
		return s.updateErr
	}
	s.order.OrderStatus = to
	return nil
}

func (s *stubRepo) MarkPaid(_ context.Context, _ string) (bool, error) {
	s.markPaidCalls++
	return s.markPaidWon, s.markPaidErr
}

type stubCarts struct {
	clearedUser string
	clearCalls  int
	err         error
}

func (s *stubCarts) ClearByUser(_ context.Context, userID string) error {
	s.clearCalls++
	s.clearedUser = userID
	return s.err
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func pendingOrder(method domain.PaymentMethod) *domain.Order {
	return &domain.Order{
		ID:            "ord-1",
		UserID:        "u1",
		OrderStatus:   domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: method,
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	svc := &Service{repo: &stubRepo{}, carts: &stubCarts{}, logger: discard()}
	_, err := svc.Transition(context.Background(), "ord-1", "shipped", "staff", "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransitionIllegalMove(t *testing.T) {
	repo := &stubRepo{order: pendingOrder(domain.PaymentMethodStripe)}
	svc := &Service{repo: repo, carts: &stubCarts{}, logger: discard()}
	_, err := svc.Transition(context.Background(), "ord-1", domain.StatusDelivered, "staff", "")
	var terr *domain.InvalidTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
	if terr.From != domain.StatusPending || terr.To != domain.StatusDelivered {
		t.Fatalf("unexpected transition error: %+v", terr)
	}
	if repo.updateCalls != 0 {
		t.Fatal("illegal transition must not reach the repository")
	}
}

func TestTransitionUsesValidatedStatusAsGuard(t *testing.T) {
	repo := &stubRepo{order: pendingOrder(domain.PaymentMethodStripe)}
	svc := &Service{repo: repo, carts: &stubCarts{}, logger: discard()}

	got, err := svc.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "staff", "Accepted")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFrom != domain.StatusPending || repo.lastTo != domain.StatusConfirmed {
		t.Fatalf("expected pending->confirmed compare-and-set, got %s->%s", repo.lastFrom, repo.lastTo)
	}
	if repo.lastActor != "staff" || repo.lastNote != "Accepted" {
		t.Fatalf("unexpected history entry: %s %q", repo.lastActor, repo.lastNote)
	}
	if got.OrderStatus != domain.StatusConfirmed {
		t.Fatalf("expected reloaded order to be confirmed, got %s", got.OrderStatus)
	}
}

func TestTransitionLostRaceSurfacesConflict(t *testing.T) {
	repo := &stubRepo{order: pendingOrder(domain.PaymentMethodStripe), updateErr: domain.ErrConflict}
	svc := &Service{repo: repo, carts: &stubCarts{}, logger: discard()}
	if _, err := svc.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "staff", ""); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCancelChecksOwnership(t *testing.T) {
	repo := &stubRepo{order: pendingOrder(domain.PaymentMethodStripe)}
	svc := &Service{repo: repo, carts: &stubCarts{}, logger: discard()}
	if _, err := svc.Cancel(context.Background(), "ord-1", "someone-else", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatal("ownership failure must not mutate the order")
	}
}

func TestCancelDefaultsNote(t *testing.T) {
	repo := &stubRepo{order: pendingOrder(domain.PaymentMethodStripe)}
	svc := &Service{repo: repo, carts: &stubCarts{}, logger: discard()}
	got, err := svc.Cancel(context.Background(), "ord-1", "u1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastActor != "customer" || repo.lastNote != "Cancelled by customer" {
		t.Fatalf("unexpected history entry: %s %q", repo.lastActor, repo.lastNote)
	}
	if got.OrderStatus != domain.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.OrderStatus)
	}
}

func TestConfirmingCashOrderClearsCart(t *testing.T) {
	repo := &stubRepo{order: pendingOrder(domain.PaymentMethodCashOnDelivery)}
	carts := &stubCarts{}
	svc := &Service{repo: repo, carts: carts, logger: discard()}

	if _, err := svc.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "staff", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if carts.clearCalls != 1 || carts.clearedUser != "u1" {
		t.Fatalf("expected cart cleared for u1, got %d calls for %q", carts.clearCalls, carts.clearedUser)
	}
}

func TestConfirmingCardOrderLeavesCartAlone(t *testing.T) {
	repo := &stubRepo{order: pendingOrder(domain.PaymentMethodStripe)}
	carts := &stubCarts{}
	svc := &Service{repo: repo, carts: carts, logger: discard()}

	if _, err := svc.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "staff", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if carts.clearCalls != 0 {
		t.Fatal("card orders settle through the payment flow, not the status flow")
	}
}

func TestDeliveringCashOrderMarksPaid(t *testing.T) {
	order := pendingOrder(domain.PaymentMethodCashOnDelivery)
	order.OrderStatus = domain.StatusOutForDelivery
	repo := &stubRepo{order: order, markPaidWon: true}
	svc := &Service{repo: repo, carts: &stubCarts{}, logger: discard()}

	if _, err := svc.Transition(context.Background(), "ord-1", domain.StatusDelivered, "staff", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.markPaidCalls != 1 {
		t.Fatalf("expected cash settlement on delivery, got %d MarkPaid calls", repo.markPaidCalls)
	}
}

func TestCashSettlementErrorsDoNotFailTransition(t *testing.T) {
	repo := &stubRepo{order: pendingOrder(domain.PaymentMethodCashOnDelivery)}
	carts := &stubCarts{err: errors.New("redis down")}
	svc := &Service{repo: repo, carts: carts, logger: discard()}

	got, err := svc.Transition(context.Background(), "ord-1", domain.StatusConfirmed, "staff", "")
	if err != nil {
		t.Fatalf("transition must survive settlement errors, got %v", err)
	}
	if got.OrderStatus != domain.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", got.OrderStatus)
	}
}
