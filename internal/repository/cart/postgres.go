package cart

import (
	"context"
	"errors"
	"time"

	"quickbites-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const cartColumns = `id::text, user_id, subtotal_cents, total_items, created_at, updated_at`

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1`
	return r.fetchCart(ctx, q, userID)
}

func (r *postgresRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING ` + cartColumns
	return r.fetchCart(ctx, q, userID)
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID string, item domain.MenuItem, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lineID string
	var existingQty int
	var unitPrice int64
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity, unit_price_cents
FROM cart_items
WHERE cart_id = $1 AND menu_item_id = $2
FOR UPDATE
`, cartID, item.ID).Scan(&lineID, &existingQty, &unitPrice)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		newQty := existingQty + quantity
		if newQty > domain.MaxItemQuantity {
			return domain.Validationf("cannot have more than %d of this item", domain.MaxItemQuantity)
		}
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, total_cents = $2
WHERE id = $3
`, newQty, unitPrice*int64(newQty), lineID); err != nil {
			return err
		}
	} else {
		snapshot := domain.ItemSnapshot{
			Name:         item.Name,
			PriceCents:   item.PriceCents,
			Image:        item.Image,
			IsVegetarian: item.IsVegetarian,
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, menu_item_id, quantity, unit_price_cents, total_cents, snapshot)
VALUES ($1, $2, $3, $4, $5, $6)
`, cartID, item.ID, quantity, item.PriceCents, item.PriceCents*int64(quantity), snapshot); err != nil {
			return err
		}
	}

	if err := updateCartAggregates(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var unitPrice int64
	err = tx.QueryRow(ctx, `
SELECT unit_price_cents
FROM cart_items
WHERE id = $1 AND cart_id = $2
FOR UPDATE
`, itemID, cartID).Scan(&unitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1, total_cents = $2
WHERE id = $3 AND cart_id = $4
`, quantity, unitPrice*int64(quantity), itemID, cartID); err != nil {
		return err
	}

	if err := updateCartAggregates(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, itemID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := updateCartAggregates(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) ReplaceItems(ctx context.Context, cartID string, items []domain.CartItem) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	for _, item := range items {
		// Surviving lines keep their id and created_at so item handles a
		// client already holds stay valid across a reconcile.
		lineID := item.ID
		if lineID == "" {
			lineID = uuid.NewString()
		}
		createdAt := item.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (id, cart_id, menu_item_id, quantity, unit_price_cents, total_cents, snapshot, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, lineID, cartID, item.MenuItemID, item.Quantity, item.UnitPriceCents, item.TotalCents, item.Snapshot, createdAt); err != nil {
			return err
		}
	}

	if err := updateCartAggregates(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	return r.ReplaceItems(ctx, cartID, nil)
}

func (r *postgresRepo) ClearByUser(ctx context.Context, userID string) error {
	cart, err := r.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return r.Clear(ctx, cart.ID)
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SubtotalCents,
		&cart.TotalItems,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT id::text, cart_id::text, menu_item_id::text, quantity, unit_price_cents, total_cents, snapshot, created_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.MenuItemID,
			&item.Quantity,
			&item.UnitPriceCents,
			&item.TotalCents,
			&item.Snapshot,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

// updateCartAggregates recomputes the derived subtotal and item count from
// the item rows inside the same transaction as the mutation.
func updateCartAggregates(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET subtotal_cents = COALESCE((
	SELECT SUM(total_cents)
	FROM cart_items
	WHERE cart_id = $1
), 0),
    total_items = COALESCE((
	SELECT SUM(quantity)
	FROM cart_items
	WHERE cart_id = $1
), 0),
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}
