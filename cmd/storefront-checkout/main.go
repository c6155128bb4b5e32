package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/cache"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/checkout"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/health"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/pricing"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/tracing"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/sendgrid"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/stripe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const version = "1.0.0"

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Otel, version)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	db, promoRepo, orderRepo, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	promoCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)

	// Collaborators
	var stripeClient stripe.Client
	if cfg.Stripe.APIKey != "" {
		stripeClient = stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	} else {
		slog.Warn("Stripe is not configured, card payments are disabled")
	}

	var emailService sendgrid.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailService = sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		slog.Warn("SendGrid is not configured, order confirmations are disabled")
	}

	promoService := service.NewPromoCodeService(promoRepo, promoCache)

	engine, err := pricing.NewEngine(cfg.Pricing, promoService)
	if err != nil {
		slog.Error("❌ Invalid pricing configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalog, err := checkout.NewCatalog(cfg.Checkout.EnabledProviders)
	if err != nil {
		slog.Error("❌ Invalid checkout configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	orderService := service.NewOrderService(orderRepo, stripeClient, emailService)
	checkoutService := service.NewCheckoutService(engine, catalog, orderService, rateLimiter, cfg.Checkout)

	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	healthChecker, err := health.NewHealthHandler(cfg, health.Options{Version: version})
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", version))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.Handle("GET /api/v1/checkout/providers", checkoutHandler.ListProviders())
	routerMux.Handle("POST /api/v1/pricing/quote", checkoutHandler.Quote())
	routerMux.Handle("POST /api/v1/checkout/sessions", authMiddleware.Authenticate(checkoutHandler.StartSession()))
	routerMux.Handle("GET /api/v1/checkout/sessions/{id}", authMiddleware.Authenticate(checkoutHandler.GetSession()))
	routerMux.Handle("PUT /api/v1/checkout/sessions/{id}/items", authMiddleware.Authenticate(checkoutHandler.SetItems()))
	routerMux.Handle("PATCH /api/v1/checkout/sessions/{id}/items/{itemId}", authMiddleware.Authenticate(checkoutHandler.UpdateItemQuantity()))
	routerMux.Handle("DELETE /api/v1/checkout/sessions/{id}/items/{itemId}", authMiddleware.Authenticate(checkoutHandler.RemoveItem()))
	routerMux.Handle("POST /api/v1/checkout/sessions/{id}/promo", authMiddleware.Authenticate(checkoutHandler.ApplyPromoCode()))
	routerMux.Handle("DELETE /api/v1/checkout/sessions/{id}/promo", authMiddleware.Authenticate(checkoutHandler.ClearPromoCode()))
	routerMux.Handle("PUT /api/v1/checkout/sessions/{id}/billing", authMiddleware.Authenticate(checkoutHandler.SetBilling()))
	routerMux.Handle("PUT /api/v1/checkout/sessions/{id}/provider", authMiddleware.Authenticate(checkoutHandler.SelectProvider()))
	routerMux.Handle("PUT /api/v1/checkout/sessions/{id}/purchase", authMiddleware.Authenticate(checkoutHandler.SelectPurchase()))
	routerMux.Handle("POST /api/v1/checkout/sessions/{id}/next", authMiddleware.Authenticate(checkoutHandler.Next()))
	routerMux.Handle("POST /api/v1/checkout/sessions/{id}/back", authMiddleware.Authenticate(checkoutHandler.Back()))
	routerMux.Handle("POST /api/v1/checkout/sessions/{id}/retry", authMiddleware.Authenticate(checkoutHandler.Retry()))
	routerMux.Handle("POST /api/v1/checkout/sessions/{id}/submit", authMiddleware.Authenticate(checkoutHandler.Submit()))
	routerMux.Handle("POST /api/v1/checkout/sessions/{id}/cancel", authMiddleware.Authenticate(checkoutHandler.Cancel()))
	routerMux.Handle("GET /api/v1/checkout/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.Handle("POST /api/v1/webhooks/stripe", orderHandler.HandleStripeWebhook())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthChecker.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront-checkout")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go evictIdleSessions(ctx, checkoutService, time.Minute)

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second+cfg.Checkout.SubmitTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}

func evictIdleSessions(ctx context.Context, checkoutService service.CheckoutService, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := checkoutService.EvictIdle(now); n > 0 {
				slog.Info("Evicted idle checkout sessions", slog.Int("count", n))
			}
		}
	}
}
