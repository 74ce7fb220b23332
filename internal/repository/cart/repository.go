package cart

import (
	"context"

	"quickbites-backend/internal/domain"
)

// Repository persists the per-user cart aggregate. Every mutation writes
// the item rows and the derived subtotal/count in one transaction.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem merges into an existing line or inserts a new one, capping the
	// merged quantity at domain.MaxItemQuantity.
	AddItem(ctx context.Context, cartID string, item domain.MenuItem, quantity int) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	// ReplaceItems rewrites the full item list; used by the lazy catalog
	// reconcile on reads.
	ReplaceItems(ctx context.Context, cartID string, items []domain.CartItem) error
	Clear(ctx context.Context, cartID string) error
	ClearByUser(ctx context.Context, userID string) error
}
