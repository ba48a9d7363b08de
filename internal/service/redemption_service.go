package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Cheertaboi/deal-service/internal/metrics"
	"github.com/Cheertaboi/deal-service/internal/models"
)

const redeemedMessage = "You have successfully redeemed this deal."

// RedemptionConfig carries the settings shared by every scan.
type RedemptionConfig struct {
	// Location decides "today" and the wall clock for window checks.
	Location *time.Location
	// Timeout bounds a single redemption. Zero means 8s.
	Timeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// RedemptionService runs a scanned token through lookup, user validation, the
// once-per-day check and the availability evaluator, then commits.
type RedemptionService struct {
	records RecordRepo
	users   UserRepo
	deals   *PromotionLoader
	loc     *time.Location
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

func NewRedemptionService(records RecordRepo, users UserRepo, deals *PromotionLoader, cfg RedemptionConfig, log zerolog.Logger) *RedemptionService {
	s := &RedemptionService{
		records: records,
		users:   users,
		deals:   deals,
		loc:     cfg.Location,
		timeout: cfg.Timeout,
		now:     cfg.Now,
		log:     log,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.timeout <= 0 {
		s.timeout = 8 * time.Second
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Redeem consumes today's use of the record identified by token. Every failure
// before the commit leaves the record untouched.
func (s *RedemptionService) Redeem(ctx context.Context, token string) (res *models.RedemptionResult, err error) {
	// short request-scoped deadline to avoid long-running ops
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "RedemptionService.Redeem")
	defer span.End()

	started := time.Now()
	var recordID uuid.UUID
	defer func() {
		outcome := "redeemed"
		if err != nil {
			outcome = models.Kind(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		metrics.Redemptions.WithLabelValues(outcome).Inc()
		metrics.RedeemDuration.Observe(time.Since(started).Seconds())

		log := loggerFrom(ctx, s.log)
		// The record id is the customer's code, so it stays out of info logs.
		switch {
		case err == nil:
			log.Info().Stringer("deal_id", res.PromotionID).Int("points", res.PointsAccumulated).Msg("deal redeemed")
		case outcome == "internal_error":
			log.Error().Err(err).Msg("redemption failed")
		default:
			log.Info().Str("outcome", outcome).Msg("redemption refused")
		}
		if recordID != uuid.Nil {
			log.Debug().Stringer("record_id", recordID).Str("outcome", outcome).Msg("redemption attempt")
		}
	}()

	id, perr := uuid.Parse(strings.TrimSpace(token))
	if perr != nil {
		return nil, models.ErrRecordNotFound
	}
	recordID = id

	// 1) lookup
	rec, err := s.records.FetchRedemptionRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch record: %w", err)
	}
	span.SetAttributes(
		attribute.String("deal.id", rec.PromotionID.String()),
		attribute.String("user.id", rec.UserID.String()),
	)

	// 2) the record's holder must still be a registered user
	ok, err := s.users.UserExists(ctx, rec.UserID)
	if err != nil {
		return nil, fmt.Errorf("validate user: %w", err)
	}
	if !ok {
		return nil, models.ErrInvalidUser
	}

	// 3) once per calendar day in the reference timezone
	now := s.now().In(s.loc)
	today := models.DateOf(now)
	if rec.RedeemedOn(today) {
		return nil, models.ErrAlreadyRedeemed
	}

	// 4) availability of the parent deal
	deal, err := s.deals.Load(ctx, rec.PromotionID)
	if err != nil {
		if errors.Is(err, models.ErrPromotionNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("load deal: %w", err)
	}
	if rec.Disabled {
		deal.Disabled = true
	}
	av := Evaluate(deal, now, s.loc)
	span.SetAttributes(attribute.String("deal.availability", string(av.Status)))
	if !av.Redeemable() {
		return nil, av.Err()
	}

	// 5) conditional commit
	if err := s.records.CommitRedemption(ctx, rec.ID, today); err != nil {
		if !errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("commit redemption: %w", err)
		}
		again, rerr := s.records.FetchRedemptionRecord(ctx, rec.ID)
		if rerr != nil {
			return nil, fmt.Errorf("re-read record: %w", rerr)
		}
		if again.RedeemedOn(today) {
			return nil, models.ErrAlreadyRedeemed
		}
		return nil, err
	}

	return &models.RedemptionResult{
		RecordID:          rec.ID,
		PromotionID:       rec.PromotionID,
		UserID:            rec.UserID,
		RedeemedOn:        today,
		PointsAccumulated: rec.PointsAccumulated + 1,
		Discount:          deal.Discount,
		Message:           redeemedMessage,
	}, nil
}

// loggerFrom prefers the request logger installed by the HTTP middleware.
func loggerFrom(ctx context.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
