package domain

import "time"

type MenuItem struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	PriceCents      int64     `json:"priceCents"`
	Category        string    `json:"category"`
	Image           string    `json:"image,omitempty"`
	IsAvailable     bool      `json:"isAvailable"`
	IsVegetarian    bool      `json:"isVegetarian"`
	IsPopular       bool      `json:"isPopular"`
	PreparationMins int       `json:"preparationMins"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
