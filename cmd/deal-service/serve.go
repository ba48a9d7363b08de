package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cheertaboi/deal-service/internal/api"
	"github.com/Cheertaboi/deal-service/internal/cache"
	"github.com/Cheertaboi/deal-service/internal/config"
	"github.com/Cheertaboi/deal-service/internal/repository"
	"github.com/Cheertaboi/deal-service/internal/service"
	"github.com/Cheertaboi/deal-service/internal/tracing"
	"github.com/Cheertaboi/deal-service/pkg/db"
)

type ServeCmd struct {
	Migrate bool `help:"Apply the schema before serving (postgres store only)."`
}

type repos struct {
	deals   service.PromotionRepo
	records service.RecordRepo
	users   service.UserRepo
	shops   service.ShopRepo
}

func (c *ServeCmd) Run(app *appContext) error {
	cfg, log := app.cfg, app.log

	tp, err := tracing.InitTracerProvider(serviceName, cfg.JaegerEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	var r repos
	switch cfg.Store {
	case config.StoreMemory:
		store := repository.NewMemoryStore()
		r = repos{deals: store, records: store, users: store, shops: store}
		log.Warn().Msg("using in-memory store; data is lost on exit")
	default:
		conn, err := db.NewPostgresConnection(cfg.Postgres)
		if err != nil {
			return err
		}
		defer conn.Close()
		if c.Migrate {
			applied, err := db.RunMigrations(context.Background(), conn)
			if err != nil {
				return err
			}
			log.Info().Strs("files", applied).Msg("migrations applied")
		}
		r = repos{
			deals:   repository.NewDealRepo(conn),
			records: repository.NewRecordRepo(conn),
			users:   repository.NewUserRepo(conn),
			shops:   repository.NewShopRepo(conn),
		}
	}

	var dealCache cache.PromotionCache
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		rc := cache.NewRedisCache(client, cfg.CacheTTL)
		defer rc.Close()
		dealCache = rc
	} else {
		dealCache = cache.NewDealCache(cfg.CacheTTL)
		if cfg.Store == config.StorePostgres {
			// Other replicas never see this process's invalidations.
			log.Warn().Dur("ttl", cfg.CacheTTL).Msg("REDIS_ADDR not set; deal cache is per process, run one replica or configure Redis")
		}
	}

	loader := service.NewPromotionLoader(r.deals, dealCache, log)
	handler := api.NewRouter(api.Services{
		Deals: service.NewDealService(r.deals, r.shops, loader, cfg.Location, log),
		Redemptions: service.NewRedemptionService(r.records, r.users, loader, service.RedemptionConfig{
			Location: cfg.Location,
			Timeout:  cfg.RedeemTimeout,
		}, log),
		Shops: service.NewShopService(r.shops, log),
		Users: service.NewUserService(r.users, r.records, log),
	}, log)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		<-sigs
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("HTTP server Shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("addr", srv.Addr).Str("store", cfg.Store).Str("timezone", cfg.Location.String()).Msg("starting deal-service")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-idleConnsClosed
	log.Info().Msg("server stopped")
	return nil
}
