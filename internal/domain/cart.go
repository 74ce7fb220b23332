package domain

import "time"

// ItemSnapshot freezes the menu item's details as they were when the line
// was added, so a cart or order can be rendered after the catalog changes.
type ItemSnapshot struct {
	Name         string `json:"name"`
	PriceCents   int64  `json:"priceCents"`
	Image        string `json:"image,omitempty"`
	IsVegetarian bool   `json:"isVegetarian"`
}

type Cart struct {
	ID            string     `json:"id"`
	UserID        string     `json:"-"`
	SubtotalCents int64      `json:"subtotalCents"`
	TotalItems    int        `json:"totalItems"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Items         []CartItem `json:"items"`
}

type CartItem struct {
	ID             string       `json:"id"`
	CartID         string       `json:"cartId"`
	MenuItemID     string       `json:"menuItemId"`
	Quantity       int          `json:"quantity"`
	UnitPriceCents int64        `json:"unitPriceCents"`
	TotalCents     int64        `json:"totalCents"`
	Snapshot       ItemSnapshot `json:"snapshot"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// MaxItemQuantity is the cumulative per-line cap enforced on add and update.
const MaxItemQuantity = 20

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
