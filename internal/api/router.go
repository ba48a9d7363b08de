package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/deal-service/internal/api/handlers"
	"github.com/Cheertaboi/deal-service/internal/api/middleware"
	"github.com/Cheertaboi/deal-service/internal/metrics"
	"github.com/Cheertaboi/deal-service/internal/service"
)

// Services are the dependencies the router wires into handlers.
type Services struct {
	Deals       *service.DealService
	Redemptions *service.RedemptionService
	Shops       *service.ShopService
	Users       *service.UserService
}

// NewRouter builds the HTTP router for the deal-service
func NewRouter(svc Services, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)

	dealHandler := handlers.NewDealHandler(svc.Deals)
	redemptionHandler := handlers.NewRedemptionHandler(svc.Redemptions)
	shopHandler := handlers.NewShopHandler(svc.Shops)
	userHandler := handlers.NewUserHandler(svc.Users)

	// Shop owner endpoints
	r.Route("/shops", func(r chi.Router) {
		r.Post("/", shopHandler.CreateShop)
		r.Get("/name-available", shopHandler.NameAvailable)
		r.Route("/{shopID}", func(r chi.Router) {
			r.Get("/", shopHandler.GetShop)
			r.Put("/", shopHandler.UpdateShop)
			r.Get("/theme", shopHandler.GetTheme)
			r.Put("/theme", shopHandler.SetTheme)
			r.Post("/deals", dealHandler.CreateDeal)
			r.Get("/deals", dealHandler.ListShopDeals)
		})
	})

	r.Route("/deals/{dealID}", func(r chi.Router) {
		r.Get("/", dealHandler.GetDeal)
		r.Put("/", dealHandler.UpdateDeal)
		r.Delete("/", dealHandler.DeleteDeal)
		r.Get("/schedule", dealHandler.GetSchedule)
		r.Get("/availability", dealHandler.Availability)
		r.Post("/disable", dealHandler.DisableDeal)
		r.Post("/enable", dealHandler.EnableDeal)
	})

	// End user endpoints
	r.Post("/users", userHandler.Register)
	r.Get("/users/{userID}/records", userHandler.Records)

	// Scan
	r.Post("/redemptions/{token}", redemptionHandler.Redeem)

	r.Handle("/metrics", metrics.Handler())

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
