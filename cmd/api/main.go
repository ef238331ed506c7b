package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vinhngx/backend-foodee/internal/auth"
	"github.com/vinhngx/backend-foodee/internal/cart"
	"github.com/vinhngx/backend-foodee/internal/catalog"
	"github.com/vinhngx/backend-foodee/internal/chat"
	"github.com/vinhngx/backend-foodee/internal/checkout"
	"github.com/vinhngx/backend-foodee/internal/common"
	"github.com/vinhngx/backend-foodee/internal/config"
	"github.com/vinhngx/backend-foodee/internal/events"
	"github.com/vinhngx/backend-foodee/internal/favorites"
	"github.com/vinhngx/backend-foodee/internal/geo"
	"github.com/vinhngx/backend-foodee/internal/health"
	"github.com/vinhngx/backend-foodee/internal/notify"
	"github.com/vinhngx/backend-foodee/internal/obs"
	"github.com/vinhngx/backend-foodee/internal/order"
	"github.com/vinhngx/backend-foodee/internal/ratelimit"
	"github.com/vinhngx/backend-foodee/internal/resilience"
	"github.com/vinhngx/backend-foodee/internal/voucher"
)

func main() {
	cfg := config.MustLoad()
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	queueOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url for queue")
	}
	queue := asynq.NewClient(queueOpt)
	defer func() { _ = queue.Close() }()

	validate := validator.New()
	metrics := obs.NewHTTPMetrics("foodee", obs.ParseBucketsCSV(cfg.MetricsBucketsMs), nil)

	authSvc := &auth.Service{
		DB:         pool,
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}
	authMw := &auth.Middleware{Verifier: authSvc}
	authHandler := &auth.Handler{Svc: authSvc, Validate: validate}

	catalogSvc := &catalog.Service{DB: pool, Cache: catalog.NewCache(rdb, cfg.CatalogCacheTTL)}
	catalogHandler := &catalog.Handler{Svc: catalogSvc, Validate: validate}

	cartSvc := &cart.Service{DB: pool}
	cartHandler := &cart.Handler{Svc: cartSvc}

	voucherStore := voucher.Store{DB: pool}
	voucherHandler := &voucher.Handler{Store: voucherStore, Validate: validate}

	geoProvider := geo.CachedProvider{
		Next: geo.Client{
			BaseURL: cfg.GeoBaseURL,
			APIKey:  cfg.GeoAPIKey,
			HTTP: resilience.HTTPClient{
				Client:      &http.Client{},
				Breaker:     resilience.NewBreaker(5, 0.5, 30*time.Second).WithLogger(logger),
				BaseBackoff: cfg.GeoRetryBackoff,
				MaxAttempts: cfg.GeoMaxAttempts,
				Timeout:     cfg.GeoQuoteTimeout,
			},
		},
		R:   rdb,
		TTL: cfg.GeoQuoteCacheTTL,
	}

	notifyStore := &notify.Store{DB: pool}
	eventStore := &events.PGStore{DB: pool}
	bus := &events.Bus{
		Store:     eventStore,
		Notifiers: []events.Notifier{&notify.OrderNotifier{Store: notifyStore, Queue: queue, Log: logger}},
	}
	eventsAdmin := &events.AdminHandler{Store: eventStore}

	checkoutSvc := &checkout.Service{
		Cart:     cartSvc,
		Vouchers: voucherStore,
		Geo:      geoProvider,
		Guard:    &geo.Latest{},
		Orders:   &checkout.PGStore{DB: pool},
		Events:   bus,
		Timeout:  cfg.GeoQuoteTimeout,
		Log:      logger,
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	orderSvc := &order.Service{DB: pool, Events: bus}
	orderHandler := &order.Handler{Svc: orderSvc}
	orderAdmin := &order.AdminHandler{Svc: orderSvc}

	favHandler := &favorites.Handler{Svc: &favorites.Service{DB: pool}}

	chatSvc := &chat.Service{DB: pool}
	chatHandler := &chat.Handler{Svc: chatSvc}
	chatAdmin := &chat.AdminHandler{Svc: chatSvc}

	notifyHandler := &notify.Handler{Store: notifyStore}
	healthHandler := &health.Handler{DB: pool, R: rdb}

	authLimiter := &ratelimit.Limiter{
		R:      rdb,
		Window: cfg.AuthRateWindow,
		Max:    cfg.AuthRateMax,
		Prefix: "rl:auth",
		Log:    logger,
	}
	idem := common.Idem{R: rdb, TTL: cfg.IdempotencyTTL}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(authMw.Authenticate)
	r.Use(obs.RoutePatternMiddleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(obs.HTTPObs{Metrics: metrics}.Middleware)

	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
			})
			r.Post("/refresh", authHandler.Refresh)
			r.With(authMw.RequireAuth).Get("/me", authHandler.Me)
		})

		r.Get("/categories", catalogHandler.Categories)
		r.Get("/products", catalogHandler.Products)
		r.Get("/products/{slug}", catalogHandler.ProductDetail)

		r.Group(func(r chi.Router) {
			r.Use(authMw.RequireAuth)

			r.Get("/cart", cartHandler.Get)
			r.Delete("/cart", cartHandler.Clear)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Patch("/cart/items/{productId}", cartHandler.UpdateItem)
			r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)

			r.Get("/favorites", favHandler.List)
			r.Get("/favorites/ids", favHandler.ListIDs)
			r.Put("/favorites/{productId}", favHandler.Toggle)

			r.Post("/checkout/quote", checkoutHandler.Quote)
			r.With(idem.Middleware).Post("/checkout/orders", checkoutHandler.PlaceOrder)

			r.Get("/orders", orderHandler.List)
			r.Get("/orders/{orderId}", orderHandler.Get)
			r.Post("/orders/{orderId}/cancel", orderHandler.Cancel)

			r.Get("/notifications", notifyHandler.List)
			r.Post("/notifications/read-all", notifyHandler.MarkAllRead)
			r.Post("/notifications/{notificationId}/read", notifyHandler.MarkRead)

			r.Get("/chat/messages", chatHandler.List)
			r.Post("/chat/messages", chatHandler.Post)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMw.RequireAdmin)

			r.Post("/categories", catalogHandler.AdminCreateCategory)
			r.Post("/products", catalogHandler.AdminCreateProduct)
			r.Put("/products/{id}", catalogHandler.AdminUpdateProduct)
			r.Delete("/products/{id}", catalogHandler.AdminDeleteProduct)

			r.Get("/vouchers", voucherHandler.List)
			r.Post("/vouchers", voucherHandler.Create)
			r.Put("/vouchers/{code}", voucherHandler.Update)
			r.Delete("/vouchers/{code}", voucherHandler.Delete)

			r.Get("/orders", orderAdmin.List)
			r.Get("/orders/{orderId}", orderAdmin.Get)
			r.Patch("/orders/{orderId}/status", orderAdmin.PatchStatus)

			r.Get("/events", eventsAdmin.Recent)

			r.Get("/chat/threads", chatAdmin.Threads)
			r.Get("/chat/threads/{userId}/messages", chatAdmin.Messages)
			r.Post("/chat/threads/{userId}/messages", chatAdmin.Reply)
		})
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Str("env", cfg.AppEnv).Msg("api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
		os.Exit(1)
	}
}
