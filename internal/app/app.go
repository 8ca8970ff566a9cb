// Package app wires the storefront's dependencies and runs the HTTP server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/finexpress/storefront/internal/api"
	"github.com/finexpress/storefront/internal/auth"
	"github.com/finexpress/storefront/internal/domain/admin"
	"github.com/finexpress/storefront/internal/domain/coupon"
	"github.com/finexpress/storefront/internal/domain/dashboard"
	"github.com/finexpress/storefront/internal/domain/order"
	"github.com/finexpress/storefront/internal/storage/postgres"
	"github.com/finexpress/storefront/internal/web"
	"github.com/finexpress/storefront/pkg/health"
	"github.com/finexpress/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health checks.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	// Repositories.
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	couponRepo := postgres.NewCouponRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)

	// Coupon evaluator fronted by a bloom filter of known codes, so the
	// common typo path never hits the database.
	codes, err := couponRepo.ListCodes(ctx)
	if err != nil {
		return errors.Wrap(err, "list coupon codes")
	}
	evaluator := coupon.NewBloomGuard(coupon.NewRepoEvaluator(couponRepo), codes)

	// Rebuild the filter periodically so codes inserted while the server
	// runs become redeemable without a restart.
	go func() {
		ticker := time.NewTicker(cfg.Coupons.Refresh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				codes, err := couponRepo.ListCodes(ctx)
				if err != nil {
					lg.Warn("Refresh coupon codes", zap.Error(err))
					continue
				}
				evaluator.Reload(codes)
			}
		}
	}()

	// Domain services.
	orderMetrics, err := order.NewMetrics(m.MeterProvider().Meter("finexpress.storefront"))
	if err != nil {
		return errors.Wrap(err, "register order metrics")
	}
	orderService := order.NewService(orderRepo, evaluator, orderMetrics, lg.Named("orders"))
	adminService := admin.NewService(
		adminRepo,
		auth.NewBcryptHasher(0),
		auth.NewJWTIssuer([]byte(cfg.Session.JWTSecret), cfg.Session.TTL),
		lg.Named("admins"),
	)
	dashboardService := dashboard.NewService(productRepo, orderRepo, cfg.Dashboard.RecentOrders)

	// HTTP handlers.
	apiHandler := api.NewHandler(
		api.HandlerConfig{
			SessionTTL:    cfg.Session.TTL,
			SecureCookies: cfg.Session.SecureCookies,
		},
		productRepo,
		orderRepo,
		orderService,
		adminService,
		dashboardService,
	)
	webServer, err := web.NewServer(productRepo, orderRepo, orderService, evaluator)
	if err != nil {
		return errors.Wrap(err, "create web server")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	apiHandler.Register(mux)
	webServer.Register(mux)

	instrumented := otelhttp.NewHandler(mux, "storefront",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
