package cart

import (
	"context"
	"errors"

	"quickbites-backend/internal/domain"
	"quickbites-backend/internal/pricing"
	cartrepo "quickbites-backend/internal/repository/cart"
)

type Service struct {
	repo    cartRepo
	catalog catalog
}

type cartRepo interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, item domain.MenuItem, quantity int) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	ReplaceItems(ctx context.Context, cartID string, items []domain.CartItem) error
	Clear(ctx context.Context, cartID string) error
}

type catalog interface {
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
}

func New(repo cartrepo.Repository, catalog catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Get returns the user's cart, lazily reconciling each line against the
// catalog: lines whose item vanished or became unavailable are pruned and
// stale prices are refreshed, persisting any correction.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
		}
		return nil, err
	}

	kept := make([]domain.CartItem, 0, len(cart.Items))
	changed := false
	for _, item := range cart.Items {
		menuItem, err := s.catalog.GetByID(ctx, item.MenuItemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				changed = true
				continue
			}
			return nil, err
		}
		if !menuItem.IsAvailable {
			changed = true
			continue
		}
		if menuItem.PriceCents != item.UnitPriceCents {
			item.UnitPriceCents = menuItem.PriceCents
			item.TotalCents = menuItem.PriceCents * int64(item.Quantity)
			changed = true
		}
		kept = append(kept, item)
	}

	if !changed {
		return cart, nil
	}
	if err := s.repo.ReplaceItems(ctx, cart.ID, kept); err != nil {
		return nil, err
	}
	return s.repo.GetByUser(ctx, userID)
}

// Add puts quantity of a menu item into the user's cart, creating the cart
// lazily and merging with an existing line.
func (s *Service) Add(ctx context.Context, userID, menuItemID string, quantity int) (*domain.Cart, error) {
	if menuItemID == "" {
		return nil, domain.Validationf("menu item id is required")
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	menuItem, err := s.catalog.GetByID(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !menuItem.IsAvailable {
		return nil, domain.ErrNotFound
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddItem(ctx, cart.ID, *menuItem, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByUser(ctx, userID)
}

// UpdateItem changes a line's quantity. If the menu item has since become
// unavailable the line is removed instead and the caller is told which
// item was dropped.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var line *domain.CartItem
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			line = &cart.Items[i]
			break
		}
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}

	menuItem, err := s.catalog.GetByID(ctx, line.MenuItemID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if menuItem == nil || !menuItem.IsAvailable {
		if err := s.repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
			return nil, err
		}
		return nil, &domain.UnavailableItemsError{Names: []string{line.Snapshot.Name}}
	}

	if err := s.repo.UpdateItemQuantity(ctx, cart.ID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByUser(ctx, userID)
}

// Remove deletes a line from the cart.
func (s *Service) Remove(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.repo.GetByUser(ctx, userID)
}

// Clear empties the cart. Clearing a missing or already-empty cart is a
// no-op success.
func (s *Service) Clear(ctx context.Context, userID string) error {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.repo.Clear(ctx, cart.ID)
}

// Count returns the cart badge count.
func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return cart.TotalItems, nil
}

// Summary is the checkout preview: the reconciled cart plus the totals the
// pricing engine would charge right now.
type Summary struct {
	Cart             *domain.Cart `json:"cart"`
	TaxCents         int64        `json:"taxCents"`
	DeliveryFeeCents int64        `json:"deliveryFeeCents"`
	FreeDelivery     bool         `json:"freeDelivery"`
	GrandTotalCents  int64        `json:"grandTotalCents"`
}

func (s *Service) Summary(ctx context.Context, userID string) (*Summary, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	totals := pricing.ComputeTotals(cart.SubtotalCents)
	return &Summary{
		Cart:             cart,
		TaxCents:         totals.TaxCents,
		DeliveryFeeCents: totals.DeliveryFeeCents,
		FreeDelivery:     totals.DeliveryFeeCents == 0,
		GrandTotalCents:  totals.TotalCents,
	}, nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 || quantity > domain.MaxItemQuantity {
		return domain.Validationf("quantity must be between 1 and %d", domain.MaxItemQuantity)
	}
	return nil
}
