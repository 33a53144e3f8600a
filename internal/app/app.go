package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tinybakery/pos/internal/config"
	"github.com/tinybakery/pos/internal/domain"
	"github.com/tinybakery/pos/internal/event"
	handler "github.com/tinybakery/pos/internal/handler/http"
	"github.com/tinybakery/pos/internal/service"
	"github.com/tinybakery/pos/internal/store"
	memorystore "github.com/tinybakery/pos/internal/store/memory"
	postgresstore "github.com/tinybakery/pos/internal/store/postgres"
	redisstore "github.com/tinybakery/pos/internal/store/redis"
	"github.com/tinybakery/pos/pkg/database"
	"github.com/tinybakery/pos/pkg/health"
	pkgkafka "github.com/tinybakery/pos/pkg/kafka"
	"github.com/tinybakery/pos/pkg/middleware"
)

// App wires together all dependencies and runs the POS service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *goredis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
	posService *service.POSService
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app := &App{cfg: cfg, logger: logger}

	// Initialize the state store for the configured driver.
	stateStore, err := app.initStore(ctx)
	if err != nil {
		return nil, err
	}

	// Initialize Kafka producer with connection validation and retry.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	if err := pingKafkaWithRetry(ctx, producer, logger); err != nil {
		logger.Warn("kafka producer ping failed after retries, continuing in degraded mode",
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}
	app.producer = producer

	// Load persisted state, seeding the catalog on first run.
	state := loadOrSeedState(ctx, stateStore, logger)

	// Build the dependency graph.
	eventProducer := event.NewProducer(producer, logger)
	posService := service.NewPOSService(state, stateStore, eventProducer, logger)
	app.posService = posService

	// Health checks.
	healthHandler := health.NewHandler()
	if app.pool != nil {
		healthHandler.Register("postgres", func(ctx context.Context) error {
			return app.pool.Ping(ctx)
		})
	}
	if app.redis != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return app.redis.Ping(ctx).Err()
		})
	}
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	router := handler.NewRouter(posService, healthHandler, logger, cors)

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// initStore builds the state store for cfg.StoreDriver. Redis and Postgres
// stores are wrapped in a circuit breaker so a dead backend fails fast.
func (a *App) initStore(ctx context.Context) (store.Store, error) {
	switch a.cfg.StoreDriver {
	case config.StoreDriverMemory:
		a.logger.Info("using in-memory state store")
		return memorystore.New(), nil

	case config.StoreDriverRedis:
		client, err := database.NewRedisClient(ctx, database.RedisConfig{
			Host:     a.cfg.RedisHost,
			Port:     a.cfg.RedisPort,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		a.logger.Info("connected to Redis",
			slog.String("host", a.cfg.RedisHost),
			slog.Int("port", a.cfg.RedisPort),
		)
		return store.NewBreakerStore(redisstore.New(client, a.cfg.RedisStateKey)), nil

	case config.StoreDriverPostgres:
		pgCfg := database.PostgresConfig{
			Host:            a.cfg.PostgresHost,
			Port:            a.cfg.PostgresPort,
			User:            a.cfg.PostgresUser,
			Password:        a.cfg.PostgresPass,
			DBName:          a.cfg.PostgresDB,
			SSLMode:         a.cfg.PostgresSSL,
			MaxConns:        a.cfg.DBMaxConns,
			MinConns:        a.cfg.DBMinConns,
			MaxConnLifetime: time.Duration(a.cfg.DBMaxConnLifetimeMins) * time.Minute,
			MaxConnIdleTime: time.Duration(a.cfg.DBMaxConnIdleTimeMins) * time.Minute,
		}

		pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		a.logger.Info("connected to PostgreSQL",
			slog.String("host", a.cfg.PostgresHost),
			slog.Int("port", a.cfg.PostgresPort),
			slog.String("database", a.cfg.PostgresDB),
		)

		if err := postgresstore.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return store.NewBreakerStore(postgresstore.New(pool)), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.StoreDriver)
	}
}

// loadOrSeedState restores the persisted session state. Both an absent record
// and an unreadable one fall back to the seed catalog: persistence is
// best-effort, so a corrupt record must not keep the terminal from opening.
func loadOrSeedState(ctx context.Context, st store.Store, logger *slog.Logger) *domain.State {
	state, err := st.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("no persisted state, starting from seed catalog")
		} else {
			logger.Warn("persisted state unreadable, starting from seed catalog",
				slog.String("error", err.Error()),
			)
		}
		return domain.SeedState()
	}

	logger.Info("restored persisted state",
		slog.Int("products", len(state.Inventory)),
		slog.Int("ledger_entries", len(state.Ledger)),
		slog.Float64("revenue", state.Revenue),
	)
	return state
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Kafka producer
// 3. State store backends
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.closeBackends()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// closeBackends closes whichever storage backend was opened.
func (a *App) closeBackends() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
}

// pingKafkaWithRetry attempts to ping the Kafka producer with exponential
// backoff (3 attempts, 1s/2s/4s with ±25% jitter).
func pingKafkaWithRetry(ctx context.Context, producer *pkgkafka.Producer, logger *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if err := producer.Ping(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if attempt < 2 {
			base := time.Duration(1<<uint(attempt)) * time.Second
			jitter := time.Duration(float64(base) * 0.25 * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter for retry backoff
			wait := base + jitter
			logger.Warn("kafka producer ping failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", 3),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("kafka ping: context canceled during retry: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("kafka producer ping failed after 3 attempts: %w", lastErr)
}
