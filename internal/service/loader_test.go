package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/deal-service/internal/cache"
	"github.com/Cheertaboi/deal-service/internal/models"
)

// slowRepo holds the next FetchPromotion after it has read the row, until
// release is closed.
type slowRepo struct {
	PromotionRepo
	hold    atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (r *slowRepo) FetchPromotion(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	p, err := r.PromotionRepo.FetchPromotion(ctx, id)
	if r.hold.CompareAndSwap(true, false) {
		close(r.read)
		<-r.release
	}
	return p, err
}

func TestLoaderDoesNotCacheReadOverlappingUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dealID, _ := f.addDeal(t, weekdayDeal(t))

	repo := &slowRepo{PromotionRepo: f.store, read: make(chan struct{}), release: make(chan struct{})}
	c := cache.NewDealCache(time.Hour)
	loader := NewPromotionLoader(repo, c, zerolog.Nop())
	deals := NewDealService(repo, f.store, loader, london, zerolog.Nop())

	repo.hold.Store(true)
	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(ctx, dealID)
		done <- err
	}()
	<-repo.read

	expired := models.MustDate("2000-01-01")
	upd := weekdayDeal(t)
	upd.ID = dealID
	upd.ExpiryDate = &expired
	_, err := deals.UpdateDeal(ctx, upd)
	require.NoError(t, err)

	close(repo.release)
	require.NoError(t, <-done)

	got, err := loader.Load(ctx, dealID)
	require.NoError(t, err)
	require.NotNil(t, got.ExpiryDate, "old row must not be served after the update")
	assert.Equal(t, expired, *got.ExpiryDate)

	cached, err := c.Get(ctx, dealID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.NotNil(t, cached.ExpiryDate)
}

func TestLoaderCachesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dealID, _ := f.addDeal(t, weekdayDeal(t))

	c := cache.NewDealCache(time.Hour)
	loader := NewPromotionLoader(f.store, c, zerolog.Nop())

	_, err := loader.Load(ctx, dealID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	loader.Invalidate(ctx, dealID)
	assert.Equal(t, 0, c.Len())

	_, err = loader.Load(ctx, dealID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len(), "reads after an invalidation cache again")
}
