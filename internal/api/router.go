package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikhilbhutani/dinehub/internal/api/handlers"
	"github.com/nikhilbhutani/dinehub/internal/api/middleware"
	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/auth"
	"github.com/nikhilbhutani/dinehub/internal/config"
	"github.com/nikhilbhutani/dinehub/internal/metrics"
	"github.com/nikhilbhutani/dinehub/internal/order"
	"github.com/nikhilbhutani/dinehub/internal/payment"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
	"github.com/nikhilbhutani/dinehub/internal/webhook"
)

// TenantStore is the restaurant persistence the HTTP surface needs.
type TenantStore interface {
	tenant.Store
	handlers.RestaurantAdmin
}

// Dependencies are the long-lived collaborators built by cmd/api.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Checks   []handlers.Check

	Tenants  TenantStore
	Users    auth.UserStore
	Orders   order.Store
	Audit    handlers.AuditReader
	Events   tenant.EventRecorder
	Webhooks webhook.Store
	Queue    webhook.Enqueuer
	// Payments is nil when no provider key is configured.
	Payments payment.Provider
}

type Router struct {
	mux     *chi.Mux
	deps    Dependencies
	render  apperror.Renderer
	limiter *middleware.RateLimiter
}

func NewRouter(deps Dependencies) *Router {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	render := apperror.Renderer{Verbose: deps.Config.Development(), Logger: deps.Logger}
	return &Router{
		mux:     chi.NewRouter(),
		deps:    deps,
		render:  render,
		limiter: middleware.NewRateLimiter(deps.Config.Server.RateLimitRPS, deps.Config.Server.RateLimitBurst, render),
	}
}

// Close stops background work owned by the router.
func (rt *Router) Close() {
	rt.limiter.Stop()
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux
	cfg := rt.deps.Config

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(rt.deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins, cfg.Tenant.HeaderName))
	r.Use(rt.limiter.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.deps.Checks...)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	if rt.deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rt.deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Initialize services
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	jwt := auth.NewJWTMiddleware(tokens, rt.deps.Users, rt.render)
	rbac := auth.NewRBAC(rt.render)
	tenants := tenant.NewMiddleware(
		tenant.NewResolver(cfg.Tenant),
		tenant.NewLoader(rt.deps.Tenants, rt.deps.Events),
		rt.render,
		rt.deps.Metrics,
	)

	authSvc := auth.NewService(rt.deps.Users, auth.NewGuard(rt.deps.Orders, rt.deps.Events), tokens, rt.deps.Events)

	var notifier order.Notifier
	var webhookSvc *webhook.Service
	if rt.deps.Webhooks != nil {
		webhookSvc = webhook.NewService(rt.deps.Webhooks, rt.deps.Queue)
		notifier = webhookSvc
	}
	orderSvc := order.NewService(rt.deps.Orders, notifier, rt.deps.Metrics)
	paymentSvc := payment.NewService(rt.deps.Payments, rt.deps.Orders, notifier, rt.deps.Metrics, cfg.Payment)

	authH := handlers.NewAuthHandler(authSvc, rt.render)
	orderH := handlers.NewOrderHandler(orderSvc, rt.render)
	paymentH := handlers.NewPaymentHandler(paymentSvc, rt.render)
	adminH := handlers.NewAdminHandler(rt.deps.Audit, rt.deps.Tenants, authSvc, rt.render)

	optionalTenant := tenants.Handler(tenant.Options{})
	requiredTenant := tenants.Handler(tenant.Options{Required: true})

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwt.Authenticate)

		r.Route("/auth", func(r chi.Router) {
			r.Use(tenants.Handler(tenant.Options{AuthRoute: true}))
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
		})

		r.With(jwt.RequireAuth, optionalTenant).Get("/me", authH.Me)

		r.Route("/orders", func(r chi.Router) {
			r.Use(jwt.RequireAuth, requiredTenant)
			r.With(rbac.Require(auth.CapPlaceOrders)).Post("/", orderH.Create)
			r.Get("/", orderH.List)
			r.Get("/{id}", orderH.Get)
			r.With(rbac.Require(auth.CapManageOrders)).Patch("/{id}/status", orderH.UpdateStatus)
		})

		if cfg.Tenant.PathParam != "" {
			r.Route("/restaurants/{"+cfg.Tenant.PathParam+"}", func(r chi.Router) {
				r.Use(jwt.RequireAuth, requiredTenant)
				r.Get("/orders", orderH.List)
			})
		}

		// Group payments span restaurants, so the tenant is optional here.
		r.Route("/payments", func(r chi.Router) {
			r.Use(jwt.RequireAuth, optionalTenant, rbac.Require(auth.CapPlaceOrders))
			r.Post("/intents", paymentH.CreateIntent)
			r.Post("/mobile-intents", paymentH.CreateMobileIntent)
			r.Post("/confirm", paymentH.Confirm)
		})

		if webhookSvc != nil {
			webhookH := handlers.NewWebhookHandler(webhookSvc, rt.render)
			r.Route("/webhooks", func(r chi.Router) {
				r.Use(jwt.RequireAuth, requiredTenant, rbac.Require(auth.CapManageWebhooks))
				r.Post("/", webhookH.Create)
				r.Get("/", webhookH.List)
				r.Delete("/{id}", webhookH.Delete)
			})
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(jwt.RequireAuth, rbac.Require(auth.CapPlatformAdmin))
			r.Post("/payments/refund", paymentH.Refund)
			r.Get("/payments", paymentH.List)
			r.Get("/audit", adminH.AuditLogs)
			r.Post("/restaurants", adminH.CreateRestaurant)
			r.Patch("/restaurants/{restaurantId}/subscription", adminH.UpdateSubscription)
			r.Patch("/users/{id}/default-restaurant", adminH.SetDefaultRestaurant)
		})
	})

	return r
}
