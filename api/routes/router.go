package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockpulse/stockpulse-backend/api/controllers"
	"github.com/stockpulse/stockpulse-backend/api/middleware"
	"github.com/stockpulse/stockpulse-backend/internal/auth"
	"github.com/stockpulse/stockpulse-backend/internal/inventory"
	"github.com/stockpulse/stockpulse-backend/internal/orders"
	"github.com/stockpulse/stockpulse-backend/pkg/config"
	"github.com/stockpulse/stockpulse-backend/pkg/db"
	"github.com/stockpulse/stockpulse-backend/pkg/logger"
	"github.com/stockpulse/stockpulse-backend/pkg/metrics"
	"github.com/stockpulse/stockpulse-backend/pkg/redis"
)

// RouterParams collects everything the HTTP surface needs. The metrics
// registry and redis client are optional; routes that need them degrade
// to pass-through when absent.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    db.Pinger
	RedisClient *redis.Client

	UserLoader middleware.UserLoader

	AuthService           auth.Service
	RegisterService       auth.RegisterService
	AdminRegisterService  auth.AdminRegisterService
	ChangePasswordService auth.ChangePasswordService
	InventoryService      inventory.Service
	OrdersService         orders.Service

	MetricsRegistry *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if p.MetricsRegistry != nil {
		httpMetrics = metrics.NewHTTPMetrics(p.MetricsRegistry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)
	authLimiter := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if p.RedisClient == nil {
			return passThrough
		}
		return middleware.AuthRateLimit(policy, p.RedisClient, logg)
	}

	var redisPinger redis.Pinger
	if p.RedisClient != nil {
		redisPinger = p.RedisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, redisPinger))
	})

	if p.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(authLimiter(loginPolicy)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(authLimiter(registerPolicy)).Post("/register", controllers.AuthRegister(p.RegisterService, logg))
		if !cfg.App.IsProd() {
			r.Post("/create-admin", controllers.AdminAuthRegister(p.AdminRegisterService, logg))
		}
		r.With(middleware.Auth(cfg.JWT, p.UserLoader, logg)).
			Post("/change-password", controllers.AuthChangePassword(p.ChangePasswordService, logg))
	})

	r.Route("/api/inventory", func(r chi.Router) {
		// Reads are public, mutations require an admin bearer token.
		r.Get("/", controllers.InventoryList(p.InventoryService, logg))
		r.Get("/summary", controllers.InventorySummary(p.InventoryService, logg))
		r.Get("/{itemId}", controllers.InventoryGet(p.InventoryService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.UserLoader, logg))
			r.Use(middleware.RequireAdmin(logg))
			r.Post("/", controllers.InventoryCreate(p.InventoryService, logg))
			r.Put("/{itemId}", controllers.InventoryUpdate(p.InventoryService, logg))
			r.Delete("/{itemId}", controllers.InventoryDelete(p.InventoryService, logg))
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.UserLoader, logg))
		r.Get("/", controllers.OrderList(p.OrdersService, logg))
		r.Post("/", controllers.OrderCreate(p.OrdersService, logg))
		r.Get("/{orderId}", controllers.OrderGet(p.OrdersService, logg))
		r.With(middleware.RequireAdmin(logg)).Patch("/{orderId}", controllers.OrderUpdateStatus(p.OrdersService, logg))
	})

	return r
}

func passThrough(next http.Handler) http.Handler {
	return next
}
