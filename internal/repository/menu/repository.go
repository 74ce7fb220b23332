package menu

import (
	"context"

	"quickbites-backend/internal/domain"
)

type CreateInput struct {
	Name            string
	Description     string
	PriceCents      int64
	Category        string
	Image           string
	IsVegetarian    bool
	IsPopular       bool
	PreparationMins int
}

type UpdateInput struct {
	Name            *string
	Description     *string
	PriceCents      *int64
	Category        *string
	Image           *string
	IsAvailable     *bool
	IsVegetarian    *bool
	IsPopular       *bool
	PreparationMins *int
}

type ListFilter struct {
	Category      string
	AvailableOnly bool
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.MenuItem, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.MenuItem, error)
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	List(ctx context.Context, f ListFilter) ([]domain.MenuItem, error)
	SetAvailability(ctx context.Context, id string, available bool) error
}
