package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/vote-service/internal/api/http"
	"github.com/spec-kit/vote-service/internal/api/http/handlers"
	"github.com/spec-kit/vote-service/internal/auth"
	"github.com/spec-kit/vote-service/internal/config"
	"github.com/spec-kit/vote-service/internal/domain"
	"github.com/spec-kit/vote-service/internal/events"
	"github.com/spec-kit/vote-service/internal/observability"
	"github.com/spec-kit/vote-service/internal/persistence"
	"github.com/spec-kit/vote-service/internal/repository"
	"github.com/spec-kit/vote-service/internal/service"
	"github.com/spec-kit/vote-service/internal/throttle"
	"github.com/spec-kit/vote-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	sectionRepo := repository.NewSectionRepository(pool)
	optionRepo := repository.NewOptionRepository(pool)
	voteRepo := repository.NewVoteRepository(pool)

	metrics := observability.NewMetrics()
	dependencies := map[string]handlers.Pinger{"postgres": pg, "redis": nil}

	store, rdb := throttleStore(ctx, cfg, pool, logger)
	if rdb != nil {
		defer rdb.Close()
		dependencies["redis"] = rdb
	}
	throttler := throttle.New(store, throttle.WithRejectHook(func(key domain.ThrottleKey) {
		metrics.RecordThrottleRejection(key.Route)
	}))

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		RoleRepo:   roleRepo,
		Tokens:     tokens,
		Hasher:     auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	voteService := service.NewVoteService(service.VoteDependencies{
		EventRepo:   eventRepo,
		SectionRepo: sectionRepo,
		OptionRepo:  optionRepo,
		VoteRepo:    voteRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		EventRepo:   eventRepo,
		SectionRepo: sectionRepo,
		OptionRepo:  optionRepo,
		Logger:      logger,
	})

	bootstrap(ctx, cfg.Auth, authService, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:    handlers.NewAuthHandler(authService),
		Admin:   handlers.NewAdminHandler(authService),
		Votes:   handlers.NewVotesHandler(voteService),
		Catalog: handlers.NewCatalogHandler(catalogService),
		Gates: httptransport.NewGates(httptransport.GateDependencies{
			Keys:      cfg.APIKeys,
			Tokens:    tokens,
			Users:     userRepo,
			Throttler: throttler,
			Rules:     cfg.Throttle,
		}),
		Metrics: metrics.Handler(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("throttle_backend", cfg.Throttle.Backend))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

// throttleStore selects the window store named by the configuration. The
// Redis connection is returned only for the redis backend.
func throttleStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (throttle.Store, *persistence.Redis) {
	switch cfg.Throttle.Backend {
	case config.ThrottleBackendRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		return throttle.NewRedisStore(rdb.Client, longestWindow(cfg.Throttle)), rdb
	case config.ThrottleBackendMemory:
		logger.Warn("in-memory throttle store is per process")
		return throttle.NewMemoryStore(), nil
	default:
		return repository.NewRequestLogRepository(pool), nil
	}
}

func longestWindow(cfg config.ThrottleConfig) time.Duration {
	longest := cfg.Default.Window()
	for _, rule := range []config.RateRule{cfg.Login, cfg.Votes} {
		if w := rule.Window(); w > longest {
			longest = w
		}
	}
	return longest
}

// bootstrap seeds reference roles and the optional first administrator.
func bootstrap(ctx context.Context, cfg config.AuthConfig, authService *service.AuthService, logger *zap.Logger) {
	if _, err := authService.SeedRoles(ctx); err != nil {
		logger.Fatal("failed to seed roles", zap.Error(err))
	}
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return
	}
	if _, err := authService.EnsureAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		logger.Fatal("failed to create bootstrap administrator", zap.Error(err))
	}
}
