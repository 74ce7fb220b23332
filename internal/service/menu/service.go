// Package menu exposes the catalog lookup the cart and checkout flows
// depend on, plus the staff-facing write operations behind it.
package menu

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"quickbites-backend/internal/cache"
	"quickbites-backend/internal/domain"
	menurepo "quickbites-backend/internal/repository/menu"
)

type Service struct {
	repo     menurepo.Repository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *log.Logger
}

// New creates a Service. cache may be nil, in which case every lookup goes
// to the repository.
func New(repo menurepo.Repository, c cache.Cache, ttl time.Duration, logger *log.Logger) *Service {
	return &Service{repo: repo, cache: c, cacheTTL: ttl, logger: logger}
}

// GetByID is the catalog lookup used on every cart mutation and checkout.
// It reads through the cache; cache failures fall back to the repository.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, id); err == nil && raw != "" {
			var item domain.MenuItem
			if err := json.Unmarshal([]byte(raw), &item); err == nil {
				return &item, nil
			}
		}
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(item); err == nil {
			if err := s.cache.Set(ctx, id, string(raw), s.cacheTTL); err != nil {
				s.logger.Printf("menu cache set %s: %v", id, err)
			}
		}
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, category string, availableOnly bool) ([]domain.MenuItem, error) {
	return s.repo.List(ctx, menurepo.ListFilter{Category: category, AvailableOnly: availableOnly})
}

type CreateInput struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	PriceCents      int64  `json:"priceCents"`
	Category        string `json:"category"`
	Image           string `json:"image"`
	IsVegetarian    bool   `json:"isVegetarian"`
	IsPopular       bool   `json:"isPopular"`
	PreparationMins int    `json:"preparationMins"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < 3 {
		return nil, domain.Validationf("name must be at least 3 characters")
	}
	if in.PriceCents <= 0 {
		return nil, domain.Validationf("price must be positive")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, domain.Validationf("category is required")
	}
	image := in.Image
	if image == "" {
		image = "default-food.jpg"
	}
	mins := in.PreparationMins
	if mins == 0 {
		mins = 15
	}
	return s.repo.Create(ctx, menurepo.CreateInput{
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		PriceCents:      in.PriceCents,
		Category:        in.Category,
		Image:           image,
		IsVegetarian:    in.IsVegetarian,
		IsPopular:       in.IsPopular,
		PreparationMins: mins,
	})
}

type UpdateInput struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	PriceCents      *int64  `json:"priceCents"`
	Category        *string `json:"category"`
	Image           *string `json:"image"`
	IsAvailable     *bool   `json:"isAvailable"`
	IsVegetarian    *bool   `json:"isVegetarian"`
	IsPopular       *bool   `json:"isPopular"`
	PreparationMins *int    `json:"preparationMins"`
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.MenuItem, error) {
	if in.PriceCents != nil && *in.PriceCents <= 0 {
		return nil, domain.Validationf("price must be positive")
	}
	item, err := s.repo.Update(ctx, id, menurepo.UpdateInput{
		Name:            in.Name,
		Description:     in.Description,
		PriceCents:      in.PriceCents,
		Category:        in.Category,
		Image:           in.Image,
		IsAvailable:     in.IsAvailable,
		IsVegetarian:    in.IsVegetarian,
		IsPopular:       in.IsPopular,
		PreparationMins: in.PreparationMins,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return item, nil
}

func (s *Service) SetAvailability(ctx context.Context, id string, available bool) error {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, id); err != nil {
		s.logger.Printf("menu cache del %s: %v", id, err)
	}
}
