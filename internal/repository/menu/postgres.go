package menu

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

const menuColumns = `id::text, name, description, price_cents, category, image, is_available, is_vegetarian, is_popular, preparation_mins, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.MenuItem, error) {
	const q = `
INSERT INTO menu_items (name, description, price_cents, category, image, is_vegetarian, is_popular, preparation_mins)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + menuColumns
	row := r.pool.QueryRow(ctx, q, in.Name, in.Description, in.PriceCents, in.Category, in.Image, in.IsVegetarian, in.IsPopular, in.PreparationMins)
	item, err := scanMenuItem(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.MenuItem, error) {
	const q = `
UPDATE menu_items
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    price_cents = COALESCE($4, price_cents),
    category = COALESCE($5, category),
    image = COALESCE($6, image),
    is_available = COALESCE($7, is_available),
    is_vegetarian = COALESCE($8, is_vegetarian),
    is_popular = COALESCE($9, is_popular),
    preparation_mins = COALESCE($10, preparation_mins),
    updated_at = now()
WHERE id = $1
RETURNING ` + menuColumns
	row := r.pool.QueryRow(ctx, q, id, in.Name, in.Description, in.PriceCents, in.Category, in.Image, in.IsAvailable, in.IsVegetarian, in.IsPopular, in.PreparationMins)
	item, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	const q = `SELECT ` + menuColumns + ` FROM menu_items WHERE id = $1`
	item, err := scanMenuItem(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.MenuItem, error) {
	q := `SELECT ` + menuColumns + ` FROM menu_items WHERE TRUE`
	args := []interface{}{}
	if f.Category != "" {
		args = append(args, f.Category)
		q += ` AND category = $1`
	}
	if f.AvailableOnly {
		q += ` AND is_available`
	}
	q += ` ORDER BY is_popular DESC, name ASC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE menu_items SET is_available = $2, updated_at = now() WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMenuItem(row pgx.Row) (*domain.MenuItem, error) {
	var item domain.MenuItem
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.PriceCents,
		&item.Category,
		&item.Image,
		&item.IsAvailable,
		&item.IsVegetarian,
		&item.IsPopular,
		&item.PreparationMins,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
