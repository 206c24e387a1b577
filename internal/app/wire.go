package app

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/boetepot/platform/internal/domain"
	"github.com/boetepot/platform/internal/handler"
	"github.com/boetepot/platform/internal/infra"
	"github.com/boetepot/platform/internal/repository"
	"github.com/boetepot/platform/internal/service"
	"github.com/go-chi/chi/v5"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Store  repository.Store
	Auth   *service.AuthService
	Logger *slog.Logger
	// Metrics is optional; nil disables request metrics and /metrics.
	Metrics *infra.Metrics

	Prefix              string
	RecentLimit         int
	DefaultReasonAmount domain.Amount
	CORSOrigins         []string
	// TrustedProxies may set the login client IP via X-Forwarded-For.
	TrustedProxies []netip.Prefix
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	prefix := deps.Prefix
	if prefix == "" {
		prefix = "/api/fines"
	}

	// Services
	ledgerSvc := service.NewLedgerService(deps.Store, service.LedgerOptions{
		RecentLimit:         deps.RecentLimit,
		DefaultReasonAmount: deps.DefaultReasonAmount,
	}, logger)
	exportSvc := service.NewExportService(deps.Store, logger)

	// Handlers
	fineHandler := handler.NewFineHandler(ledgerSvc)
	playerHandler := handler.NewPlayerHandler(ledgerSvc)
	reasonHandler := handler.NewReasonHandler(ledgerSvc)
	authHandler := handler.NewAuthHandler(deps.Auth, deps.TrustedProxies)
	exportHandler := handler.NewExportHandler(exportSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	if deps.Metrics != nil {
		r.Use(handler.Metrics(deps.Metrics))
	}
	r.Use(handler.CORSWithOrigins(deps.CORSOrigins...))
	r.Use(handler.JSONContentType)

	r.Get("/health", handler.HealthHandler(ledgerSvc))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route(prefix, func(r chi.Router) {
		r.Get("/total", fineHandler.Total)
		r.Get("/recent", fineHandler.Recent)
		r.Get("/player-totals", fineHandler.PlayerTotals)
		r.Get("/player-history/{player}", fineHandler.PlayerHistory)
		r.Get("/all", fineHandler.All)
		r.Post("/add", fineHandler.Add)
		r.Delete("/{id}", fineHandler.Delete)
		r.Post("/reset", fineHandler.Reset)
		r.Get("/export", exportHandler.Season)

		r.Route("/players", func(r chi.Router) {
			r.Get("/", playerHandler.List)
			r.Post("/add", playerHandler.Add)
			r.Delete("/{name}", playerHandler.Delete)
		})

		r.Route("/reasons", func(r chi.Router) {
			r.Get("/", reasonHandler.List)
			r.Post("/add", reasonHandler.Add)
			r.Delete("/{id}", reasonHandler.Delete)
		})

		// No token is issued; mutating routes above stay open.
		r.Post("/login", authHandler.Login)
	})

	return r
}
