// Package checkout turns a cart into an order: the boundary between the
// mutable cart lifecycle and the immutable order lifecycle.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"quickbites-backend/internal/domain"
	"quickbites-backend/internal/pricing"
	cartrepo "quickbites-backend/internal/repository/cart"
	orderrepo "quickbites-backend/internal/repository/order"
)

// maxNumberRetries bounds regeneration attempts on an order-number
// uniqueness collision.
const maxNumberRetries = 5

type Service struct {
	carts   cartRepo
	orders  orderRepo
	catalog catalog
	now     func() time.Time
}

type cartRepo interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
}

type catalog interface {
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
}

func New(carts cartrepo.Repository, orders orderrepo.Repository, catalog catalog) *Service {
	return &Service{carts: carts, orders: orders, catalog: catalog, now: time.Now}
}

type CreateOrderInput struct {
	DeliveryAddress domain.Address       `json:"deliveryAddress"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
}

// CreateOrder re-validates every cart line against the catalog, freezes
// the lines at current catalog prices, computes totals and persists a new
// pending order. The cart is deliberately left intact: it is cleared only
// once payment succeeds, so an abandoned checkout can be retried.
func (s *Service) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*domain.Order, error) {
	if err := validateAddress(in.DeliveryAddress); err != nil {
		return nil, err
	}
	if !in.PaymentMethod.Valid() {
		return nil, domain.Validationf("unsupported payment method %q", in.PaymentMethod)
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	// Checkout validation is stricter than cart mutation: any unavailable
	// line aborts the whole order, and all offenders are reported at once.
	var unavailable []string
	items := make([]domain.OrderItem, 0, len(cart.Items))
	var subtotal int64
	for _, line := range cart.Items {
		menuItem, err := s.catalog.GetByID(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				unavailable = append(unavailable, line.Snapshot.Name)
				continue
			}
			return nil, err
		}
		if !menuItem.IsAvailable {
			unavailable = append(unavailable, menuItem.Name)
			continue
		}

		lineTotal := menuItem.PriceCents * int64(line.Quantity)
		subtotal += lineTotal
		items = append(items, domain.OrderItem{
			MenuItemID:     line.MenuItemID,
			Name:           menuItem.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: menuItem.PriceCents,
			TotalCents:     lineTotal,
			Snapshot: domain.ItemSnapshot{
				Name:         menuItem.Name,
				PriceCents:   menuItem.PriceCents,
				Image:        menuItem.Image,
				IsVegetarian: menuItem.IsVegetarian,
			},
		})
	}
	if len(unavailable) > 0 {
		return nil, &domain.UnavailableItemsError{Names: unavailable}
	}

	totals := pricing.ComputeTotals(subtotal)

	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		order, err := s.orders.Create(ctx, orderrepo.CreateOrderInput{
			OrderNumber:      s.generateOrderNumber(),
			UserID:           userID,
			Items:            items,
			DeliveryAddress:  in.DeliveryAddress,
			SubtotalCents:    subtotal,
			TaxCents:         totals.TaxCents,
			DeliveryFeeCents: totals.DeliveryFeeCents,
			TotalCents:       totals.TotalCents,
			PaymentMethod:    in.PaymentMethod,
		})
		if err != nil {
			if errors.Is(err, orderrepo.ErrDuplicateOrderNumber) {
				continue
			}
			return nil, err
		}
		return order, nil
	}
	return nil, fmt.Errorf("could not allocate a unique order number after %d attempts", maxNumberRetries)
}

// generateOrderNumber builds a date-coded, human-readable identifier with
// a random suffix, e.g. ORD-20260828-418203.
func (s *Service) generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%06d", s.now().UTC().Format("20060102"), rand.Intn(1000000))
}

func validateAddress(a domain.Address) error {
	var missing []string
	if strings.TrimSpace(a.AddressLine1) == "" {
		missing = append(missing, "addressLine1")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(a.ZipCode) == "" {
		missing = append(missing, "zipCode")
	}
	if len(missing) > 0 {
		return domain.Validationf("delivery address missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
