// Package container provides dependency injection using Uber FX.
// The configuration and the logger are supplied by the caller.
package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/homemadefood/backoffice/internal/application/account"
	"github.com/homemadefood/backoffice/internal/application/kitchen"
	"github.com/homemadefood/backoffice/internal/application/mapping"
	"github.com/homemadefood/backoffice/internal/infrastructure/config"
	"github.com/homemadefood/backoffice/internal/infrastructure/http/handlers"
	"github.com/homemadefood/backoffice/internal/infrastructure/http/middleware"
	"github.com/homemadefood/backoffice/internal/infrastructure/http/server"
	"github.com/homemadefood/backoffice/internal/infrastructure/monitoring"
	"github.com/homemadefood/backoffice/internal/infrastructure/notification"
	gormstore "github.com/homemadefood/backoffice/internal/infrastructure/persistence/gorm"
	"github.com/homemadefood/backoffice/internal/infrastructure/persistence/memory"
	"github.com/homemadefood/backoffice/internal/infrastructure/persistence/migrations"
	"github.com/homemadefood/backoffice/internal/infrastructure/persistence/postgres"
	redisclient "github.com/homemadefood/backoffice/internal/infrastructure/persistence/redis"
	"github.com/homemadefood/backoffice/internal/infrastructure/persistence/sqlite"
	"github.com/homemadefood/backoffice/internal/infrastructure/security"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
	"github.com/homemadefood/backoffice/pkg/healthcheck"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ObservabilityModule,
	DatabaseModule,
	RedisModule,
	SecurityModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// Domain is the subset of Module needed to run the kitchen services
// without the HTTP server, as the seed command does
var Domain = fx.Options(
	ObservabilityModule,
	DatabaseModule,
	KitchenModule,
)

// ObservabilityModule provides metrics, tracing and health checks
var ObservabilityModule = fx.Provide(
	monitoring.NewMetricsCollector,
	NewTracing,
	func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
		return healthcheck.New(cfg.App.Version, log)
	},
)

// DatabaseModule provides the unit of work factory and the account repository
var DatabaseModule = fx.Provide(
	NewPersistence,
)

// RedisModule provides the toast store and the token revocation list,
// backed by redis when it is enabled and by process memory otherwise
var RedisModule = fx.Provide(
	NewRedisClient,
	NewToastStore,
	NewRevocationList,
)

// SecurityModule provides token handling and the sign-in use case
var SecurityModule = fx.Provide(
	func(cfg *config.Config) config.AuthConfig { return cfg.Auth },
	fx.Annotate(security.NewTokenService, fx.As(fx.Self()), fx.As(new(account.TokenIssuer))),
	security.NewAuthenticator,
	fx.Annotate(account.NewService, fx.As(fx.Self()), fx.As(new(inbound.AccountService))),
)

// KitchenModule provides the kitchen services
var KitchenModule = fx.Provide(
	fx.Annotate(kitchen.NewFoodCategoriesService, fx.As(fx.Self()), fx.As(new(inbound.FoodCategoriesService))),
	fx.Annotate(kitchen.NewIngredientsService, fx.As(fx.Self()), fx.As(new(inbound.IngredientsService))),
	fx.Annotate(kitchen.NewRecipesService, fx.As(fx.Self()), fx.As(new(inbound.RecipesService))),
	fx.Annotate(kitchen.NewDailyMenuService, fx.As(new(inbound.DailyMenuService))),
)

// ServiceModule provides application services
var ServiceModule = fx.Options(
	KitchenModule,
	fx.Provide(mapping.NewMapper),
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	middleware.New,
	func(cfg *config.Config, mapper *mapping.Mapper, toasts outbound.ToastStore, metrics *monitoring.MetricsCollector, log *zap.Logger) *handlers.Views {
		return handlers.NewViews(mapper, toasts, metrics, cfg.Admin.GridPageSize, log)
	},
	handlers.NewAccountHandler,
	handlers.NewRecipesHandler,
	handlers.NewIngredientsHandler,
	handlers.NewFoodCategoriesHandler,
	handlers.NewDailyMenusHandler,
	NewRoutes,
	server.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// NewTracing builds the tracer provider and flushes it on stop
func NewTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tracing, err := monitoring.NewTracingProvider(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: tracing.Shutdown})
	return tracing, nil
}

// Persistence is what the database driver contributes to the graph
type Persistence struct {
	fx.Out

	Store outbound.Store
	Users outbound.UserRepository
}

// NewPersistence builds the stores of the configured driver. The memory
// driver keeps everything in process; the others go through gorm.
func NewPersistence(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
) (Persistence, error) {
	if cfg.Database.Driver == "memory" {
		log.Warn("Using the in-memory database, data is lost on restart")
		return Persistence{
			Store: memory.NewStore(),
			Users: memory.NewUserRepository(),
		}, nil
	}

	db, err := NewDatabase(lc, cfg, log, metrics, health)
	if err != nil {
		return Persistence{}, err
	}
	return Persistence{
		Store: gormstore.NewStore(db).WithBatchSize(cfg.Database.BatchSize),
		Users: gormstore.NewUserRepository(db),
	}, nil
}

// NewDatabase opens the configured database. Postgres gets the embedded
// migrations when auto_migrate is set; sqlite is migrated from the models.
func NewDatabase(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
) (*gorm.DB, error) {
	dbCfg := cfg.Database

	var db *gorm.DB
	switch dbCfg.Driver {
	case "postgres":
		if dbCfg.AutoMigrate {
			if err := migratePostgres(cfg, log); err != nil {
				return nil, err
			}
		}
		cm, err := postgres.NewConnectionManager(cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return cm.Close() }})
		db = cm.DB()

	default:
		var err error
		db, err = sqlite.SetupDatabase(dbCfg.Path, gormstore.NewLogger(log, dbCfg.LogLevel, dbCfg.SlowQueryThreshold))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}})
		log.Info("Connected to SQLite database", zap.String("path", dbCfg.Path))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := metrics.RegisterDBStats(sqlDB, dbCfg.Database); err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}
	health.Register("database", healthcheck.NewDatabaseChecker(sqlDB))

	return db, nil
}

func migratePostgres(cfg *config.Config, log *zap.Logger) error {
	migrator, err := migrations.New(cfg.GetDSN(cfg.Database.Host), cfg.Database.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return migrator.Up()
}

// NewRedisClient connects to redis when it is enabled. It returns nil otherwise.
func NewRedisClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, health *healthcheck.HealthCheck) (redis.UniversalClient, error) {
	if !cfg.Redis.Enable {
		log.Info("Redis is disabled, toasts and revoked tokens are kept in memory")
		return nil, nil
	}

	client, err := redisclient.NewClient(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
	health.Register("redis", healthcheck.NewRedisChecker(client))
	return client, nil
}

func NewToastStore(client redis.UniversalClient, log *zap.Logger) outbound.ToastStore {
	if client == nil {
		return notification.NewMemoryStore()
	}
	return notification.NewRedisStore(client, log)
}

func NewRevocationList(client redis.UniversalClient) security.RevocationList {
	if client == nil {
		return security.NewMemoryRevocationList()
	}
	return security.NewRedisRevocationList(client)
}

type routeParams struct {
	fx.In

	Account        *handlers.AccountHandler
	Recipes        *handlers.RecipesHandler
	Ingredients    *handlers.IngredientsHandler
	FoodCategories *handlers.FoodCategoriesHandler
	DailyMenus     *handlers.DailyMenusHandler
}

// NewRoutes lists the controllers in menu order
func NewRoutes(p routeParams) server.Routes {
	return server.Routes{
		Account: p.Account,
		Admin: []server.RouteRegistrar{
			p.DailyMenus,
			p.Recipes,
			p.Ingredients,
			p.FoodCategories,
		},
	}
}

// RegisterLifecycleHooks seeds the administrator account and runs the
// HTTP server between start and stop
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	accounts *account.Service,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting HomeMadeFood back office",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			if cfg.Auth.AdminPassword == "" {
				log.Warn("auth.admin_password is not set, no administrator account is created")
			} else if err := accounts.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.BCryptCost); err != nil {
				return fmt.Errorf("failed to ensure administrator account: %w", err)
			}

			go func() {
				if err := srv.Start(); err != nil {
					log.Error("HTTP server stopped unexpectedly", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down HomeMadeFood back office")
			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			_ = log.Sync()
			return nil
		},
	})
}
