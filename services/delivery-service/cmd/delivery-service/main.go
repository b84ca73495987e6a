package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/md-rashed-zaman/storefront/libs/config"
	"github.com/md-rashed-zaman/storefront/libs/db"
	"github.com/md-rashed-zaman/storefront/libs/httpx"
	"github.com/md-rashed-zaman/storefront/libs/kafkax"
	otelx "github.com/md-rashed-zaman/storefront/libs/otel"
	"github.com/md-rashed-zaman/storefront/libs/runtime"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/cache"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/consumer"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/delivery"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/handlers"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/inbox"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/metrics"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/outbox"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/settings"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/storage"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/migrations"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}
	service := config.String("SERVICE_NAME", "delivery-service")
	port, err := config.Port("PORT", "8085")
	if err != nil {
		panic(err)
	}
	grpcPort, err := config.Port("GRPC_PORT", "9095")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	m := metrics.New()
	brokers := config.String("KAFKA_BROKERS", "")
	readyChecks := []runtime.ReadyCheck{
		{Name: "kafka", Optional: true, Check: kafkax.ReadyCheck(brokers)},
	}

	var (
		store settings.Store
		pool  *db.Pool
	)
	if dbURL := strings.TrimSpace(config.String("DATABASE_URL", "")); dbURL != "" {
		pool, err = db.Open(ctx, dbURL)
		if err != nil {
			logger.Error("db connection failed", "err", err)
			panic(err)
		}
		defer pool.Close()

		if config.Bool("DB_MIGRATE", true) {
			version, err := db.Migrate(migrations.FS, ".", dbURL)
			if err != nil {
				logger.Error("db migration failed", "err", err)
				panic(err)
			}
			logger.Info("db migrated", "version", version)
		}
		store = storage.NewSettingsRepository(pool, outbox.NewRepository(pool))
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)})
	} else if path := strings.TrimSpace(config.String("SETTINGS_FILE", "")); path != "" {
		fp, err := settings.LoadFile(path)
		if err != nil {
			logger.Error("settings file load failed", "err", err, "path", path)
			panic(err)
		}
		logger.Info("using file-backed settings", "path", path, "merchants", len(fp.MerchantIDs()))
		store = fp
	} else {
		logger.Warn("no DATABASE_URL or SETTINGS_FILE; settings are kept in memory")
		store = settings.NewMemoryProvider()
	}

	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	var (
		settingsCache settings.Cache
		rateLimitMW   httpx.Middleware
	)
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer func() { _ = rdb.Close() }()

		settingsCache = cache.NewSettingsCache(rdb,
			config.Seconds("SETTINGS_CACHE_TTL_SECONDS", 5*time.Minute),
			config.String("SETTINGS_CACHE_PREFIX", "delivery:settings"))
		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl:delivery"))
		rateLimitMW = rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		readyChecks = append(readyChecks, runtime.ReadyCheck{
			Name:     "redis",
			Optional: true,
			Check:    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		logger.Info("settings cache and rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	provider := settings.NewCachedProvider(store, settingsCache, logger, m)
	svc := delivery.NewService(provider, delivery.WithMetrics(m))
	deliveryHandler := handlers.NewDeliveryHandler(svc, logger)
	settingsHandler := handlers.NewSettingsHandler(store, provider, logger)

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/api/v1/public/delivery/status", m.InstrumentHandler("status", http.HandlerFunc(deliveryHandler.Status)))
	mux.Handle("/api/v1/public/delivery/slots", m.InstrumentHandler("slots", http.HandlerFunc(deliveryHandler.Slots)))
	mux.Handle("/api/v1/public/delivery/quote", m.InstrumentHandler("quote", http.HandlerFunc(deliveryHandler.Quote)))
	mux.Handle("/api/v1/merchant/delivery-settings", m.InstrumentHandler("settings", settingsHandler))

	httpHandler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ALLOWED_ORIGINS", ""),
			AllowedMethods: config.List("CORS_ALLOWED_METHODS", "GET,POST,PUT,OPTIONS"),
			AllowedHeaders: config.List("CORS_ALLOWED_HEADERS", "Content-Type,X-Request-Id,X-Merchant-Id"),
			MaxAge:         config.Seconds("CORS_MAX_AGE_SECONDS", 10*time.Minute),
		}),
		httpx.WithRecover(logger),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger, "/healthz", "/readyz", "/metrics"),
		httpx.WithBodyLimit(int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))),
		httpx.WithTimeout(config.Seconds("REQUEST_TIMEOUT_SECONDS", 10*time.Second)),
		rateLimitMW,
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "delivery")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := startGrpcServer(gctx, g, logger, grpcPort, svc); err != nil {
		logger.Error("grpc server init failed", "err", err)
		panic(err)
	}

	if pool != nil {
		publisher := outbox.NewPublisher(pool, outbox.NewRepository(pool), logger, outbox.PublisherConfig{
			Brokers:   brokers,
			PollEvery: config.Seconds("OUTBOX_POLL_SECONDS", 2*time.Second),
			BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
			Retention: config.Seconds("OUTBOX_RETENTION_SECONDS", 7*24*time.Hour),
		})
		g.Go(func() error { return publisher.Run(gctx) })

		if topic := strings.TrimSpace(config.String("KAFKA_SETTINGS_TOPIC", storage.SettingsUpdatedEvent)); topic != "" && brokers != "" {
			eventConsumer := consumer.New(logger, inbox.NewRepository(pool), consumer.Config{
				Brokers: brokers,
				GroupID: config.String("KAFKA_GROUP_ID", service),
				Topic:   topic,
			}, settingsUpdatedHandler(logger, provider, m))
			g.Go(func() error { return eventConsumer.Run(gctx) })
		}
	}

	if err := g.Wait(); err != nil {
		logger.Error("delivery-service stopped with error", "err", err)
	}
	logger.Info("delivery-service stopped")
}

// settingsUpdatedHandler reloads the cached settings of the merchant named in the event.
func settingsUpdatedHandler(logger *slog.Logger, provider *settings.CachedProvider, m *metrics.Metrics) consumer.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var payload storage.SettingsUpdated
		if err := json.Unmarshal(msg.Value, &payload); err != nil || strings.TrimSpace(payload.MerchantID) == "" {
			logger.Error("invalid settings event payload", "err", err, "topic", msg.Topic)
			m.EventConsumed("invalid")
			return nil
		}
		if err := provider.Refresh(ctx, payload.MerchantID); err != nil {
			m.EventConsumed("error")
			return err
		}
		logger.Info("settings cache refreshed", "merchant_id", payload.MerchantID, "version", payload.Version)
		m.EventConsumed("applied")
		return nil
	}
}
