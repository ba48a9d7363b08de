package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Redemptions counts scans by outcome: the error kind, or "redeemed".
	Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deal_service",
		Name:      "redemptions_total",
		Help:      "Redemption attempts by outcome.",
	}, []string{"outcome"})

	RedeemDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "deal_service",
		Name:      "redeem_duration_seconds",
		Help:      "Time spent handling a redemption.",
		Buckets:   prometheus.DefBuckets,
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deal_service",
		Name:      "deal_cache_lookups_total",
		Help:      "Deal cache lookups by result.",
	}, []string{"result"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
