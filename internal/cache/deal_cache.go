package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Cheertaboi/deal-service/internal/models"
)

// PromotionCache holds deals read on the redemption path. A miss is (nil, nil).
type PromotionCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	Set(ctx context.Context, p *models.Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type entry struct {
	deal    models.Promotion
	expires time.Time
}

// DealCache is the in-process PromotionCache used when no Redis is configured.
type DealCache struct {
	mu    sync.RWMutex
	store map[uuid.UUID]entry
	ttl   time.Duration
	now   func() time.Time
}

func NewDealCache(ttl time.Duration) *DealCache {
	return &DealCache{
		store: make(map[uuid.UUID]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *DealCache) Get(_ context.Context, id uuid.UUID) (*models.Promotion, error) {
	c.mu.RLock()
	e, ok := c.store[id]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if c.ttl > 0 && !c.now().Before(e.expires) {
		c.mu.Lock()
		if cur, ok := c.store[id]; ok && cur.expires.Equal(e.expires) {
			delete(c.store, id)
		}
		c.mu.Unlock()
		return nil, nil
	}
	p := e.deal
	return &p, nil
}

func (c *DealCache) Set(_ context.Context, p *models.Promotion) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[p.ID] = entry{deal: *p, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *DealCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, id)
	return nil
}

func (c *DealCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
