package kitchen

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

// RecipesService implements inbound.RecipesService
type RecipesService struct {
	store       outbound.Store
	ingredients *IngredientsService
	logger      *zap.Logger
}

var _ inbound.RecipesService = (*RecipesService)(nil)

// NewRecipesService creates a new recipes service
func NewRecipesService(store outbound.Store, ingredients *IngredientsService, logger *zap.Logger) *RecipesService {
	return &RecipesService{
		store:       store,
		ingredients: ingredients,
		logger:      logger.Named("recipes-service"),
	}
}

// AddRecipe stores recipe together with one ingredient per index of the
// parallel slices and derives its costing. Every slice must be at least as
// long as ingredientNames.
func (s *RecipesService) AddRecipe(ctx context.Context, recipe *food.Recipe, ingredientNames []string, quantities []float64, prices []decimal.Decimal, foodCategoryIDs []uuid.UUID) error {
	if err := food.RequireEntity("recipe", recipe); err != nil {
		return err
	}
	if err := checkParallel(len(ingredientNames), len(quantities), len(prices), len(foodCategoryIDs)); err != nil {
		return err
	}

	// recipe is only written back once the draft is committed
	draft := *recipe
	draft.Ingredients = slices.Clone(recipe.Ingredients)
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	now := time.Now()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now

	s.logger.Info("Adding recipe",
		zap.String("recipe_id", draft.ID.String()),
		zap.String("title", draft.Title),
		zap.Int("ingredients", len(ingredientNames)),
	)

	uow := s.store.Begin()
	uow.Recipes().Add(&draft)

	for i, name := range ingredientNames {
		ingredient, err := s.ingredients.CreateIngredient(ctx, uow, strings.ToLower(name), foodCategoryIDs[i], prices[i], quantities[i])
		if err != nil {
			return err
		}
		ingredient.RecipeID = draft.ID
		draft.Ingredients = append(draft.Ingredients, ingredient)
	}

	if err := draft.ApplyCosting(); err != nil {
		return err
	}

	if err := commit(ctx, uow, "add recipe"); err != nil {
		return err
	}
	*recipe = draft

	s.logger.Info("Recipe added successfully",
		zap.String("recipe_id", recipe.ID.String()),
		zap.String("cost_per_portion", recipe.CostPerPortion.String()),
		zap.String("price_per_portion", recipe.PricePerPortion.String()),
	)
	return nil
}

func checkParallel(names, quantities, prices, categories int) error {
	for _, p := range []struct {
		argument string
		length   int
	}{
		{"quantities", quantities},
		{"prices", prices},
		{"foodCategoryIDs", categories},
	} {
		if p.length < names {
			return apperrors.NewInvalidArgumentError(p.argument,
				fmt.Sprintf("index out of range: %d ingredient names but %d values", names, p.length))
		}
	}
	return nil
}

func (s *RecipesService) GetAllRecipes(ctx context.Context) iter.Seq2[*food.Recipe, error] {
	return s.store.Begin().Recipes().GetAll(ctx)
}

// GetRecipeByID returns (nil, nil) when the recipe does not exist
func (s *RecipesService) GetRecipeByID(ctx context.Context, id uuid.UUID) (*food.Recipe, error) {
	if err := food.RequireID("id", id); err != nil {
		return nil, err
	}

	recipe, err := s.store.Begin().Recipes().GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get recipe", err)
	}
	return recipe, nil
}

// EditRecipe stores the recipe's own fields. Costing is not recomputed.
func (s *RecipesService) EditRecipe(ctx context.Context, recipe *food.Recipe) error {
	if err := food.RequireEntity("recipe", recipe); err != nil {
		return err
	}
	if err := food.RequireID("recipe.ID", recipe.ID); err != nil {
		return err
	}

	s.logger.Info("Editing recipe", zap.String("recipe_id", recipe.ID.String()))

	recipe.UpdatedAt = time.Now()
	uow := s.store.Begin()
	uow.Recipes().Update(recipe)
	return commit(ctx, uow, "edit recipe")
}

// DeleteRecipe removes the recipe only; its ingredients are kept
func (s *RecipesService) DeleteRecipe(ctx context.Context, recipe *food.Recipe) error {
	if err := food.RequireEntity("recipe", recipe); err != nil {
		return err
	}
	if err := food.RequireID("recipe.ID", recipe.ID); err != nil {
		return err
	}

	s.logger.Info("Deleting recipe", zap.String("recipe_id", recipe.ID.String()))

	uow := s.store.Begin()
	uow.Recipes().Delete(recipe)
	return commit(ctx, uow, "delete recipe")
}

// GetAllOfDishType keeps the store's natural order
func (s *RecipesService) GetAllOfDishType(ctx context.Context, dishType food.DishType) iter.Seq2[*food.Recipe, error] {
	return filter(s.GetAllRecipes(ctx), func(r *food.Recipe) bool {
		return r.DishType == dishType
	})
}

func (s *RecipesService) SearchRecipesByTitle(ctx context.Context, fragment string) iter.Seq2[*food.Recipe, error] {
	return filter(s.GetAllRecipes(ctx), func(r *food.Recipe) bool {
		return containsFold(r.Title, fragment)
	})
}
