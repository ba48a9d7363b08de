package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Cheertaboi/deal-service/internal/models"
)

// Repos required by the services (interfaces so tests can swap the store).

type PromotionRepo interface {
	FetchPromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	FetchSchedule(ctx context.Context, promotionID uuid.UUID) (models.WeeklySchedule, error)
	// CreatePromotion stores the schedule and deal together and creates one
	// redemption record per existing end user.
	CreatePromotion(ctx context.Context, p *models.Promotion) (uuid.UUID, error)
	// UpdatePromotion replaces every authored field, schedule included.
	UpdatePromotion(ctx context.Context, p *models.Promotion) error
	// SetDisabled updates the deal and the mirrored flag on its records.
	SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error
	DeletePromotion(ctx context.Context, id uuid.UUID) error
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*models.Promotion, error)
}

type RecordRepo interface {
	FetchRedemptionRecord(ctx context.Context, token uuid.UUID) (*models.RedemptionRecord, error)
	// CommitRedemption appends day and adds one point only if day is not already
	// present, as a single conditional update. It returns models.ErrConflict when
	// the condition fails.
	CommitRedemption(ctx context.Context, token uuid.UUID, day models.Date) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RedemptionRecord, error)
}

type UserRepo interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	// CreateUser also creates a record for every existing deal.
	CreateUser(ctx context.Context, u *models.EndUser) error
}

type ShopRepo interface {
	GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	CreateShop(ctx context.Context, s *models.Shop) error
	UpdateShop(ctx context.Context, s *models.Shop) error
	ShopNameExists(ctx context.Context, name string) (bool, error)
	SetTheme(ctx context.Context, id uuid.UUID, theme models.Theme) error
}
