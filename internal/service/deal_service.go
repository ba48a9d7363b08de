package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/Cheertaboi/deal-service/internal/models"
)

// DealService is the shop owner's side: authoring, toggling and listing deals.
type DealService struct {
	repo   PromotionRepo
	shops  ShopRepo
	loader *PromotionLoader
	loc    *time.Location
	now    func() time.Time
	log    zerolog.Logger
}

func NewDealService(repo PromotionRepo, shops ShopRepo, loader *PromotionLoader, loc *time.Location, log zerolog.Logger) *DealService {
	if loc == nil {
		loc = time.UTC
	}
	return &DealService{repo: repo, shops: shops, loader: loader, loc: loc, now: time.Now, log: log}
}

// CreateDeal stores p for shopID. Every registered end user gets a record.
func (s *DealService) CreateDeal(ctx context.Context, shopID uuid.UUID, p *models.Promotion) (*models.Promotion, error) {
	ctx, span := tracer.Start(ctx, "DealService.CreateDeal")
	defer span.End()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.shops.GetShop(ctx, shopID); err != nil {
		return nil, err
	}
	p.ShopID = shopID

	id, err := s.repo.CreatePromotion(ctx, p)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create deal: %w", err)
	}
	span.SetAttributes(attribute.String("deal.id", id.String()))
	loggerFrom(ctx, s.log).Info().Stringer("deal_id", id).Stringer("shop_id", shopID).Msg("deal created")

	return s.repo.FetchPromotion(ctx, id)
}

func (s *DealService) GetDeal(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	return s.repo.FetchPromotion(ctx, id)
}

func (s *DealService) GetSchedule(ctx context.Context, id uuid.UUID) (models.WeeklySchedule, error) {
	return s.repo.FetchSchedule(ctx, id)
}

// UpdateDeal replaces the authored fields of an existing deal. The schedule is
// replaced wholesale. The disabled flag is kept as is; DisableDeal and
// EnableDeal own it.
func (s *DealService) UpdateDeal(ctx context.Context, p *models.Promotion) (*models.Promotion, error) {
	ctx, span := tracer.Start(ctx, "DealService.UpdateDeal")
	defer span.End()
	span.SetAttributes(attribute.String("deal.id", p.ID.String()))

	if err := p.Validate(); err != nil {
		return nil, err
	}
	cur, err := s.repo.FetchPromotion(ctx, p.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update deal: %w", err)
	}
	p.Disabled = cur.Disabled
	if err := s.repo.UpdatePromotion(ctx, p); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update deal: %w", err)
	}
	s.loader.Invalidate(ctx, p.ID)
	return s.repo.FetchPromotion(ctx, p.ID)
}

func (s *DealService) DisableDeal(ctx context.Context, id uuid.UUID) error {
	return s.setDisabled(ctx, id, true)
}

func (s *DealService) EnableDeal(ctx context.Context, id uuid.UUID) error {
	return s.setDisabled(ctx, id, false)
}

func (s *DealService) setDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	ctx, span := tracer.Start(ctx, "DealService.SetDisabled")
	defer span.End()
	span.SetAttributes(attribute.String("deal.id", id.String()), attribute.Bool("deal.disabled", disabled))

	if err := s.repo.SetDisabled(ctx, id, disabled); err != nil {
		span.RecordError(err)
		return fmt.Errorf("set disabled: %w", err)
	}
	s.loader.Invalidate(ctx, id)
	loggerFrom(ctx, s.log).Info().Stringer("deal_id", id).Bool("disabled", disabled).Msg("deal toggled")
	return nil
}

// DeleteDeal removes the deal, its schedule and every record issued for it.
func (s *DealService) DeleteDeal(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DealService.DeleteDeal")
	defer span.End()

	if err := s.repo.DeletePromotion(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete deal: %w", err)
	}
	s.loader.Invalidate(ctx, id)
	loggerFrom(ctx, s.log).Info().Stringer("deal_id", id).Msg("deal deleted")
	return nil
}

// ListShopDeals returns a shop's deals with its name and location and each
// deal's availability right now.
func (s *DealService) ListShopDeals(ctx context.Context, shopID uuid.UUID) ([]models.ShopDeal, error) {
	ctx, span := tracer.Start(ctx, "DealService.ListShopDeals")
	defer span.End()

	var (
		shop  *models.Shop
		deals []*models.Promotion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shop, err = s.shops.GetShop(gctx, shopID)
		return err
	})
	g.Go(func() error {
		var err error
		deals, err = s.repo.ListByShop(gctx, shopID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]models.ShopDeal, 0, len(deals))
	for _, p := range deals {
		out = append(out, models.ShopDeal{
			Promotion:    *p,
			ShopName:     shop.Name,
			ShopLocation: shop.Location,
			Availability: Evaluate(p, now, s.loc),
		})
	}
	return out, nil
}

// Availability evaluates the deal at at, or at the current time when at is zero.
func (s *DealService) Availability(ctx context.Context, id uuid.UUID, at time.Time) (models.Availability, error) {
	p, err := s.loader.Load(ctx, id)
	if err != nil {
		return models.Availability{}, err
	}
	if at.IsZero() {
		at = s.now()
	}
	return Evaluate(p, at, s.loc), nil
}
