package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/deal-service/internal/models"
)

func sampleDeal(t *testing.T) *models.Promotion {
	t.Helper()
	sched, err := models.NewScheduleByDay(map[models.Weekday]models.Slot{
		models.Monday: {Start: models.MustTimeOfDay(9, 0), End: models.MustTimeOfDay(17, 0)},
		models.Friday: {Start: models.MustTimeOfDay(10, 0), End: models.MustTimeOfDay(12, 30)},
	})
	require.NoError(t, err)
	expiry := models.MustDate("2024-12-31")
	return &models.Promotion{
		ID:            uuid.New(),
		ShopID:        uuid.New(),
		Discount:      models.PointBasedDiscount(5),
		PercentageOff: decimal.RequireFromString("12.5"),
		Schedule:      sched,
		ExpiryDate:    &expiry,
		Description:   "coffee",
	}
}

func TestDealCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewDealCache(time.Minute)
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	p := sampleDeal(t)
	got, err := c.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "miss is nil, nil")

	require.NoError(t, c.Set(ctx, p))
	got, err = c.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Description, got.Description)

	got.Description = "changed"
	again, _ := c.Get(ctx, p.ID)
	assert.Equal(t, "coffee", again.Description, "entries are copied out")

	now = now.Add(time.Minute)
	got, err = c.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, c.Len())
}

func TestDealCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewDealCache(time.Hour)
	p := sampleDeal(t)
	require.NoError(t, c.Set(ctx, p))
	require.NoError(t, c.Delete(ctx, p.ID))
	got, err := c.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// Set REDIS_TEST_ADDR (for example localhost:6379) to run against a real Redis.
func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis integration test")
	}
	client, err := NewRedisClient(addr, "", 0)
	require.NoError(t, err)
	c := NewRedisCache(client, time.Minute)
	defer c.Close()

	ctx := context.Background()
	p := sampleDeal(t)
	require.NoError(t, c.Set(ctx, p))
	got, err := c.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, p.Schedule.Equal(got.Schedule))
	assert.True(t, p.PercentageOff.Equal(got.PercentageOff))
	assert.Equal(t, *p.ExpiryDate, *got.ExpiryDate)
	assert.Equal(t, p.Discount, got.Discount)

	require.NoError(t, c.Delete(ctx, p.ID))
	got, err = c.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
