package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type menuItemSeed struct {
	Name            string
	Description     string
	PriceCents      int64
	Category        string
	Image           string
	IsVegetarian    bool
	IsPopular       bool
	PreparationMins int
}

// Apply inserts basic menu data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	items := []menuItemSeed{
		{
			Name:            "Margherita Pizza",
			Description:     "Tomato, mozzarella and fresh basil",
			PriceCents:      1250,
			Category:        "Pizza",
			Image:           "margherita.jpg",
			IsVegetarian:    true,
			IsPopular:       true,
			PreparationMins: 20,
		},
		{
			Name:            "Classic Cheeseburger",
			Description:     "Beef patty, cheddar, pickles and house sauce",
			PriceCents:      1000,
			Category:        "Burger",
			Image:           "cheeseburger.jpg",
			IsPopular:       true,
			PreparationMins: 15,
		},
		{
			Name:            "Pad Thai",
			Description:     "Rice noodles with tamarind, peanuts and lime",
			PriceCents:      1500,
			Category:        "Thai",
			Image:           "pad-thai.jpg",
			PreparationMins: 18,
		},
		{
			Name:            "Garden Salad",
			Description:     "Mixed leaves, cherry tomatoes and vinaigrette",
			PriceCents:      850,
			Category:        "Salads",
			Image:           "garden-salad.jpg",
			IsVegetarian:    true,
			PreparationMins: 10,
		},
	}

	for _, item := range items {
		if err := upsertMenuItem(ctx, pool, item); err != nil {
			return fmt.Errorf("upsert menu item %s: %w", item.Name, err)
		}
	}

	return nil
}

func upsertMenuItem(ctx context.Context, pool *pgxpool.Pool, item menuItemSeed) error {
	const q = `
INSERT INTO menu_items (name, description, price_cents, category, image, is_vegetarian, is_popular, preparation_mins)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (name) DO UPDATE
SET description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    category = EXCLUDED.category,
    image = EXCLUDED.image,
    is_vegetarian = EXCLUDED.is_vegetarian,
    is_popular = EXCLUDED.is_popular,
    preparation_mins = EXCLUDED.preparation_mins
`
	_, err := pool.Exec(ctx, q,
		item.Name, item.Description, item.PriceCents, item.Category,
		item.Image, item.IsVegetarian, item.IsPopular, item.PreparationMins,
	)
	return err
}
