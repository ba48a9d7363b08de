package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/deal-service/internal/models"
)

// ShopService manages shop owner profiles and their preferred theme.
type ShopService struct {
	repo ShopRepo
	log  zerolog.Logger
}

func NewShopService(repo ShopRepo, log zerolog.Logger) *ShopService {
	return &ShopService{repo: repo, log: log}
}

// CreateShop registers a profile. A nil ID gets a fresh one and an empty theme
// defaults to light.
func (s *ShopService) CreateShop(ctx context.Context, shop *models.Shop) (*models.Shop, error) {
	shop.Name = strings.TrimSpace(shop.Name)
	if shop.Name == "" {
		return nil, models.ErrInvalidShopName
	}
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	if shop.Theme == "" {
		shop.Theme = models.ThemeLight
	}
	theme, err := models.ParseTheme(string(shop.Theme))
	if err != nil {
		return nil, err
	}
	shop.Theme = theme

	if err := s.repo.CreateShop(ctx, shop); err != nil {
		return nil, fmt.Errorf("create shop: %w", err)
	}
	loggerFrom(ctx, s.log).Info().Stringer("shop_id", shop.ID).Msg("shop created")
	return s.repo.GetShop(ctx, shop.ID)
}

func (s *ShopService) GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	return s.repo.GetShop(ctx, id)
}

// UpdateShop replaces the profile fields. The theme is left as is.
func (s *ShopService) UpdateShop(ctx context.Context, shop *models.Shop) (*models.Shop, error) {
	shop.Name = strings.TrimSpace(shop.Name)
	if shop.Name == "" {
		return nil, models.ErrInvalidShopName
	}
	if err := s.repo.UpdateShop(ctx, shop); err != nil {
		return nil, fmt.Errorf("update shop: %w", err)
	}
	return s.repo.GetShop(ctx, shop.ID)
}

// ShopNameAvailable reports whether no shop uses name yet, ignoring case and
// surrounding spaces.
func (s *ShopService) ShopNameAvailable(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, models.ErrInvalidShopName
	}
	taken, err := s.repo.ShopNameExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check shop name: %w", err)
	}
	return !taken, nil
}

func (s *ShopService) GetTheme(ctx context.Context, id uuid.UUID) (models.Theme, error) {
	shop, err := s.repo.GetShop(ctx, id)
	if err != nil {
		return "", err
	}
	return shop.Theme, nil
}

func (s *ShopService) SetTheme(ctx context.Context, id uuid.UUID, theme string) (models.Theme, error) {
	t, err := models.ParseTheme(theme)
	if err != nil {
		return "", err
	}
	if err := s.repo.SetTheme(ctx, id, t); err != nil {
		return "", fmt.Errorf("set theme: %w", err)
	}
	return t, nil
}
