package order

import (
	"context"
	"errors"
	"log"

	"quickbites-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `id::text, order_number, user_id, delivery_address, subtotal_cents, tax_cents, delivery_fee_cents, total_cents, payment_method, payment_status, order_status, payment_reference, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (order_number, user_id, delivery_address, subtotal_cents, tax_cents, delivery_fee_cents, total_cents, payment_method)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + orderColumns
	order, err := scanOrder(tx.QueryRow(ctx, q,
		in.OrderNumber, in.UserID, in.DeliveryAddress,
		in.SubtotalCents, in.TaxCents, in.DeliveryFeeCents, in.TotalCents,
		in.PaymentMethod,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateOrderNumber
		}
		return nil, err
	}

	for _, item := range in.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, menu_item_id, name, quantity, unit_price_cents, total_cents, snapshot)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, order.ID, item.MenuItemID, item.Name, item.Quantity, item.UnitPriceCents, item.TotalCents, item.Snapshot); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO order_status_history (order_id, status, note, actor)
VALUES ($1, $2, $3, $4)
`, order.ID, domain.StatusPending, "Order placed", "customer"); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.fetchOrder(ctx, q, id)
}

func (r *postgresRepo) GetByUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`
	return r.fetchOrder(ctx, q, id, userID)
}

func (r *postgresRepo) GetByPaymentReference(ctx context.Context, reference string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE payment_reference = $1 AND payment_reference <> ''`
	return r.fetchOrder(ctx, q, reference)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) SetPaymentReference(ctx context.Context, orderID, reference string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET payment_reference = $2, updated_at = now()
WHERE id = $1 AND payment_status = 'pending'
`, orderID, reference)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, actor, note string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The write succeeds only if the status still matches what the caller
	// validated against, so history reflects the real transition order.
	cmd, err := tx.Exec(ctx, `
UPDATE orders
SET order_status = $3, updated_at = now()
WHERE id = $1 AND order_status = $2
`, orderID, from, to)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO order_status_history (order_id, status, note, actor)
VALUES ($1, $2, $3, $4)
`, orderID, to, note, actor); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET payment_status = 'paid', updated_at = now()
WHERE id = $1 AND payment_status = 'pending'
`, orderID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *postgresRepo) MarkFailed(ctx context.Context, orderID string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET payment_status = 'failed', updated_at = now()
WHERE id = $1 AND payment_status = 'pending'
`, orderID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q string, args ...interface{}) (*domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	if err := r.loadHistory(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, order *domain.Order) error {
	const q = `
SELECT id::text, order_id::text, menu_item_id::text, name, quantity, unit_price_cents, total_cents, snapshot
FROM order_items
WHERE order_id = $1
`
	rows, err := r.pool.Query(ctx, q, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MenuItemID,
			&item.Name,
			&item.Quantity,
			&item.UnitPriceCents,
			&item.TotalCents,
			&item.Snapshot,
		); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (r *postgresRepo) loadHistory(ctx context.Context, order *domain.Order) error {
	const q = `
SELECT status, note, actor, created_at
FROM order_status_history
WHERE order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var change domain.StatusChange
		if err := rows.Scan(&change.Status, &change.Note, &change.Actor, &change.CreatedAt); err != nil {
			return err
		}
		order.StatusHistory = append(order.StatusHistory, change)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	if err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.DeliveryAddress,
		&order.SubtotalCents,
		&order.TaxCents,
		&order.DeliveryFeeCents,
		&order.TotalCents,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.OrderStatus,
		&order.PaymentReference,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}
