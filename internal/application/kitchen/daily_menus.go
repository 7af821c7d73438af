package kitchen

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

// DailyMenuService implements inbound.DailyMenuService
type DailyMenuService struct {
	store  outbound.Store
	logger *zap.Logger
}

var _ inbound.DailyMenuService = (*DailyMenuService)(nil)

// NewDailyMenuService creates a new daily menu service
func NewDailyMenuService(store outbound.Store, logger *zap.Logger) *DailyMenuService {
	return &DailyMenuService{
		store:  store,
		logger: logger.Named("daily-menu-service"),
	}
}

// GetAllDailyMenus streams every menu with its recipes
func (s *DailyMenuService) GetAllDailyMenus(ctx context.Context) iter.Seq2[*food.DailyMenu, error] {
	return s.store.Begin().DailyMenus().GetAll(ctx, outbound.WithRelations("Recipes"))
}

func (s *DailyMenuService) SearchDailyMenusByRecipeTitle(ctx context.Context, fragment string) iter.Seq2[*food.DailyMenu, error] {
	return filter(s.GetAllDailyMenus(ctx), func(m *food.DailyMenu) bool {
		return m.HasRecipeTitled(fragment)
	})
}

// GetDailyMenuByID returns (nil, nil) when the menu does not exist
func (s *DailyMenuService) GetDailyMenuByID(ctx context.Context, id uuid.UUID) (*food.DailyMenu, error) {
	if err := food.RequireID("id", id); err != nil {
		return nil, err
	}

	menu, err := s.store.Begin().DailyMenus().GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get daily menu", err)
	}
	return menu, nil
}

func (s *DailyMenuService) AddDailyMenu(ctx context.Context, date time.Time, recipeIDs []uuid.UUID) (*food.DailyMenu, error) {
	if date.IsZero() {
		return nil, apperrors.NewInvalidArgumentError("date", "must be set")
	}

	uow := s.store.Begin()
	recipes, err := resolveRecipes(ctx, uow, recipeIDs)
	if err != nil {
		return nil, err
	}

	menu := food.NewDailyMenu(date, recipes)
	s.logger.Info("Adding daily menu",
		zap.String("daily_menu_id", menu.ID.String()),
		zap.Time("date", menu.Date),
		zap.Int("recipes", len(recipes)),
	)

	uow.DailyMenus().Add(menu)
	if err := commit(ctx, uow, "add daily menu"); err != nil {
		return nil, err
	}

	s.logger.Info("Daily menu added successfully", zap.String("daily_menu_id", menu.ID.String()))
	return menu, nil
}

// EditDailyMenu replaces the date and recipe selection of a menu. It
// returns (nil, nil) when the menu does not exist.
func (s *DailyMenuService) EditDailyMenu(ctx context.Context, id uuid.UUID, date time.Time, recipeIDs []uuid.UUID) (*food.DailyMenu, error) {
	if err := food.RequireID("id", id); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, apperrors.NewInvalidArgumentError("date", "must be set")
	}

	uow := s.store.Begin()
	menu, err := uow.DailyMenus().GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get daily menu", err)
	}
	if menu == nil {
		return nil, nil
	}

	recipes, err := resolveRecipes(ctx, uow, recipeIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Editing daily menu", zap.String("daily_menu_id", id.String()))

	menu.Date = food.TruncateToDay(date)
	menu.Recipes = recipes
	menu.UpdatedAt = time.Now()
	uow.DailyMenus().Update(menu)
	if err := commit(ctx, uow, "edit daily menu"); err != nil {
		return nil, err
	}
	return menu, nil
}

func (s *DailyMenuService) DeleteDailyMenu(ctx context.Context, menu *food.DailyMenu) error {
	if err := food.RequireEntity("menu", menu); err != nil {
		return err
	}
	if err := food.RequireID("menu.ID", menu.ID); err != nil {
		return err
	}

	s.logger.Info("Deleting daily menu", zap.String("daily_menu_id", menu.ID.String()))

	uow := s.store.Begin()
	uow.DailyMenus().Delete(menu)
	return commit(ctx, uow, "delete daily menu")
}

// resolveRecipes turns a selection of ids into recipes, in selection order
// with duplicates dropped. Every id must name an existing recipe.
func resolveRecipes(ctx context.Context, uow outbound.UnitOfWork, ids []uuid.UUID) ([]*food.Recipe, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	recipes := make([]*food.Recipe, 0, len(ids))

	for _, id := range ids {
		if err := food.RequireID("recipeIDs", id); err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		recipe, err := uow.Recipes().GetByID(ctx, id)
		if err != nil {
			return nil, apperrors.NewDatabaseError("get recipe", err)
		}
		if recipe == nil {
			return nil, apperrors.NewInvalidArgumentError("recipeIDs", "recipe "+id.String()+" does not exist")
		}
		recipes = append(recipes, recipe)
	}

	return recipes, nil
}
