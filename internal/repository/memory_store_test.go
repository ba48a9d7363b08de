package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Cheertaboi/deal-service/internal/models"
)

func seedShop(t *testing.T, m *MemoryStore, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, m.CreateShop(context.Background(), &models.Shop{ID: id, Name: name, Theme: models.ThemeLight}))
	return id
}

func newDeal(t *testing.T, shopID uuid.UUID) *models.Promotion {
	t.Helper()
	sched, err := models.NewWeekdaySchedule(models.MustTimeOfDay(9, 0), models.MustTimeOfDay(17, 0))
	require.NoError(t, err)
	return &models.Promotion{
		ShopID:        shopID,
		Discount:      models.PointBasedDiscount(5),
		PercentageOff: decimal.NewFromInt(15),
		Schedule:      sched,
	}
}

func TestMemoryStoreFanOutAndBackfill(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	shop := seedShop(t, m, "Corner Cafe")

	early := uuid.New()
	require.NoError(t, m.CreateUser(ctx, &models.EndUser{ID: early}))

	dealID, err := m.CreatePromotion(ctx, newDeal(t, shop))
	require.NoError(t, err)

	recs, err := m.ListByUser(ctx, early)
	require.NoError(t, err)
	require.Len(t, recs, 1, "fan-out on deal creation")
	assert.Equal(t, dealID, recs[0].PromotionID)

	late := uuid.New()
	require.NoError(t, m.CreateUser(ctx, &models.EndUser{ID: late}))
	recs, err = m.ListByUser(ctx, late)
	require.NoError(t, err)
	require.Len(t, recs, 1, "backfill on registration")
	assert.Equal(t, dealID, recs[0].PromotionID)

	assert.ErrorIs(t, m.CreateUser(ctx, &models.EndUser{ID: late}), models.ErrUserExists)
}

func TestMemoryStoreCreateRequiresShop(t *testing.T) {
	_, err := NewMemoryStore().CreatePromotion(context.Background(), newDeal(t, uuid.New()))
	assert.ErrorIs(t, err, models.ErrShopNotFound)
}

func TestMemoryStoreCommitIsConditional(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	shop := seedShop(t, m, "Corner Cafe")
	user := uuid.New()
	require.NoError(t, m.CreateUser(ctx, &models.EndUser{ID: user}))
	_, err := m.CreatePromotion(ctx, newDeal(t, shop))
	require.NoError(t, err)
	recs, _ := m.ListByUser(ctx, user)
	token := recs[0].ID

	day := models.MustDate("2024-06-10")
	require.NoError(t, m.CommitRedemption(ctx, token, day))
	assert.ErrorIs(t, m.CommitRedemption(ctx, token, day), models.ErrConflict)
	require.NoError(t, m.CommitRedemption(ctx, token, day.AddDays(1)))

	rec, err := m.FetchRedemptionRecord(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.PointsAccumulated)
	assert.Equal(t, []models.Date{day, day.AddDays(1)}, rec.RedeemedDates)

	assert.ErrorIs(t, m.CommitRedemption(ctx, uuid.New(), day), models.ErrRecordNotFound)
}

func TestMemoryStoreConcurrentCommit(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	shop := seedShop(t, m, "Corner Cafe")
	user := uuid.New()
	require.NoError(t, m.CreateUser(ctx, &models.EndUser{ID: user}))
	_, err := m.CreatePromotion(ctx, newDeal(t, shop))
	require.NoError(t, err)
	recs, _ := m.ListByUser(ctx, user)
	token := recs[0].ID
	day := models.MustDate("2024-06-10")

	var ok, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			err := m.CommitRedemption(ctx, token, day)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, models.ErrConflict):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, 31, conflicts.Load())

	rec, _ := m.FetchRedemptionRecord(ctx, token)
	assert.Equal(t, 1, rec.PointsAccumulated)
}

func TestMemoryStoreDisableMirrorsAndDeleteCascades(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	shop := seedShop(t, m, "Corner Cafe")
	user := uuid.New()
	require.NoError(t, m.CreateUser(ctx, &models.EndUser{ID: user}))
	dealID, err := m.CreatePromotion(ctx, newDeal(t, shop))
	require.NoError(t, err)

	require.NoError(t, m.SetDisabled(ctx, dealID, true))
	recs, _ := m.ListByUser(ctx, user)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Disabled)

	p, err := m.FetchPromotion(ctx, dealID)
	require.NoError(t, err)
	assert.True(t, p.Disabled)

	require.NoError(t, m.DeletePromotion(ctx, dealID))
	_, err = m.FetchPromotion(ctx, dealID)
	assert.ErrorIs(t, err, models.ErrPromotionNotFound)
	recs, _ = m.ListByUser(ctx, user)
	assert.Empty(t, recs)
	assert.ErrorIs(t, m.SetDisabled(ctx, dealID, false), models.ErrPromotionNotFound)
}

func TestMemoryStoreReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	shop := seedShop(t, m, "Corner Cafe")
	dealID, err := m.CreatePromotion(ctx, newDeal(t, shop))
	require.NoError(t, err)

	p, _ := m.FetchPromotion(ctx, dealID)
	p.Disabled = true
	again, _ := m.FetchPromotion(ctx, dealID)
	assert.False(t, again.Disabled)
}

func TestMemoryStoreShopNames(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	id := seedShop(t, m, "Corner Cafe")

	taken, err := m.ShopNameExists(ctx, "  corner CAFE ")
	require.NoError(t, err)
	assert.True(t, taken)

	err = m.CreateShop(ctx, &models.Shop{ID: uuid.New(), Name: "CORNER cafe"})
	assert.ErrorIs(t, err, models.ErrShopNameTaken)

	// Renaming to its own name is fine.
	require.NoError(t, m.UpdateShop(ctx, &models.Shop{ID: id, Name: "Corner Cafe", Location: "High St"}))

	require.NoError(t, m.SetTheme(ctx, id, models.ThemeDark))
	require.NoError(t, m.UpdateShop(ctx, &models.Shop{ID: id, Name: "Corner Cafe"}))
	s, err := m.GetShop(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, s.Theme, "profile update leaves the theme alone")
}
