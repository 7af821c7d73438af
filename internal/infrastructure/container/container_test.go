package container

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/infrastructure/config"
	"github.com/homemadefood/backoffice/internal/infrastructure/persistence/memory"
	"github.com/homemadefood/backoffice/internal/infrastructure/security"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "HomeMadeFood", Version: "test", Environment: "test"},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{
			Driver:    "sqlite",
			Path:      ":memory:",
			Database:  "homemadefood",
			LogLevel:  "error",
			BatchSize: 50,
		},
		Auth: config.AuthConfig{
			JWTExpiration: time.Hour,
			BCryptCost:    4,
			CookieName:    "hmf_token",
			AdminEmail:    "admin@homemadefood.local",
			AdminPassword: "admin-password",
		},
		Monitoring: config.MonitoringConfig{MetricsPath: "/metrics", HealthCheckPath: "/health"},
		Admin:      config.AdminConfig{GridPageSize: 25},
	}
}

func TestModuleGraphIsComplete(t *testing.T) {
	err := fx.ValidateApp(fx.Supply(testConfig(), zap.NewNop()), Module)
	require.NoError(t, err)

	err = fx.ValidateApp(fx.Supply(testConfig(), zap.NewNop()), Domain, fx.Invoke(func(inbound.RecipesService) {}))
	require.NoError(t, err)
}

func TestAppStartsAndSeedsAdministrator(t *testing.T) {
	var (
		accounts inbound.AccountService
		toasts   outbound.ToastStore
		revoked  security.RevocationList
	)

	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(testConfig(), zap.NewNop()),
		Module,
		fx.Populate(&accounts, &toasts, &revoked),
	)
	app.RequireStart()
	defer app.RequireStop()

	session, err := accounts.Login(context.Background(), "admin@homemadefood.local", "admin-password")
	require.NoError(t, err)
	assert.Contains(t, session.Roles, "admin")

	assert.IsType(t, &security.MemoryRevocationList{}, revoked, "redis is disabled")
	assert.NotNil(t, toasts)
}

func TestMemoryDriverKeepsEverythingInProcess(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "memory"

	var (
		store    outbound.Store
		users    outbound.UserRepository
		accounts inbound.AccountService
		recipes  inbound.RecipesService
	)
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(cfg, zap.NewNop()),
		Module,
		fx.Populate(&store, &users, &accounts, &recipes),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.IsType(t, &memory.Store{}, store)
	assert.IsType(t, &memory.UserRepository{}, users)

	ctx := context.Background()
	_, err := accounts.Login(ctx, "admin@homemadefood.local", "admin-password")
	require.NoError(t, err)

	recipe := food.NewRecipe("Soup of the day", food.DishTypeSoup)
	require.NoError(t, recipes.AddRecipe(ctx, recipe, nil, nil, nil, nil))
	stored, err := recipes.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}
