package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"

	"github.com/Cheertaboi/deal-service/internal/cache"
	"github.com/Cheertaboi/deal-service/internal/metrics"
	"github.com/Cheertaboi/deal-service/internal/models"
)

var tracer = otel.Tracer("github.com/Cheertaboi/deal-service/internal/service")

// PromotionLoader reads deals through the cache. Concurrent misses for the same
// deal share one store read. A failing cache degrades to direct reads.
//
// Each deal has a generation that Invalidate bumps. A read only populates the
// cache if no invalidation happened while it was in flight, so a slow read of
// the old row cannot overwrite a later write.
type PromotionLoader struct {
	repo  PromotionRepo
	cache cache.PromotionCache
	group singleflight.Group
	log   zerolog.Logger

	mu   sync.Mutex
	gens map[uuid.UUID]uint64
}

// NewPromotionLoader accepts a nil cache, in which case every call hits repo.
func NewPromotionLoader(repo PromotionRepo, c cache.PromotionCache, log zerolog.Logger) *PromotionLoader {
	return &PromotionLoader{repo: repo, cache: c, log: log, gens: make(map[uuid.UUID]uint64)}
}

func (l *PromotionLoader) generation(id uuid.UUID) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gens[id]
}

func (l *PromotionLoader) Load(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	if l.cache != nil {
		p, err := l.cache.Get(ctx, id)
		switch {
		case err != nil:
			l.log.Warn().Err(err).Stringer("deal_id", id).Msg("deal cache read failed")
		case p != nil:
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return p, nil
		default:
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		}
	}

	v, err, _ := l.group.Do(id.String(), func() (any, error) {
		gen := l.generation(id)
		p, err := l.repo.FetchPromotion(ctx, id)
		if err != nil {
			return nil, err
		}
		if l.cache != nil {
			l.store(ctx, p, gen)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p := *v.(*models.Promotion)
	return &p, nil
}

// store caches p unless p.ID was invalidated after gen was taken. The lock is
// held across Set so an Invalidate cannot slip between the check and the write.
func (l *PromotionLoader) store(ctx context.Context, p *models.Promotion, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gens[p.ID] != gen {
		l.log.Debug().Stringer("deal_id", p.ID).Msg("deal changed during read, not caching")
		return
	}
	if err := l.cache.Set(ctx, p); err != nil {
		l.log.Warn().Err(err).Stringer("deal_id", p.ID).Msg("deal cache write failed")
	}
}

// Invalidate drops id from the cache after a write. Reads already in flight
// will not repopulate it.
func (l *PromotionLoader) Invalidate(ctx context.Context, id uuid.UUID) {
	l.mu.Lock()
	l.gens[id]++
	l.mu.Unlock()
	l.group.Forget(id.String())
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, id); err != nil {
		l.log.Warn().Err(err).Stringer("deal_id", id).Msg("deal cache invalidation failed")
	}
}
