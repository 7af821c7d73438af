package kitchen

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

// IngredientsService implements inbound.IngredientsService
type IngredientsService struct {
	store      outbound.Store
	categories *FoodCategoriesService
	logger     *zap.Logger
}

var _ inbound.IngredientsService = (*IngredientsService)(nil)

// NewIngredientsService creates a new ingredients service
func NewIngredientsService(store outbound.Store, categories *FoodCategoriesService, logger *zap.Logger) *IngredientsService {
	return &IngredientsService{
		store:      store,
		categories: categories,
		logger:     logger.Named("ingredients-service"),
	}
}

// AddIngredient stores a standalone ingredient of an existing recipe.
// The food category's running total is left untouched.
func (s *IngredientsService) AddIngredient(ctx context.Context, name string, foodCategoryID uuid.UUID, pricePerUnit decimal.Decimal, quantityPerUnit float64, recipeID uuid.UUID) (*food.Ingredient, error) {
	if err := food.RequireName("name", name); err != nil {
		return nil, err
	}
	if err := food.RequireID("foodCategoryID", foodCategoryID); err != nil {
		return nil, err
	}
	if err := food.RequireID("recipeID", recipeID); err != nil {
		return nil, err
	}

	s.logger.Info("Adding ingredient",
		zap.String("name", name),
		zap.String("food_category_id", foodCategoryID.String()),
		zap.String("recipe_id", recipeID.String()),
	)

	ingredient := food.NewIngredient(name, foodCategoryID, pricePerUnit, quantityPerUnit)
	ingredient.RecipeID = recipeID

	uow := s.store.Begin()
	uow.Ingredients().Add(ingredient)
	if err := commit(ctx, uow, "add ingredient"); err != nil {
		return nil, err
	}

	s.logger.Info("Ingredient added successfully", zap.String("ingredient_id", ingredient.ID.String()))
	return ingredient, nil
}

// CreateIngredient materializes an ingredient inside uow and rolls its
// quantity into its food category. The caller attaches it to a recipe and
// commits.
func (s *IngredientsService) CreateIngredient(ctx context.Context, uow outbound.UnitOfWork, name string, foodCategoryID uuid.UUID, pricePerUnit decimal.Decimal, quantityPerUnit float64) (*food.Ingredient, error) {
	if err := food.RequireName("name", name); err != nil {
		return nil, err
	}
	if err := food.RequireID("foodCategoryID", foodCategoryID); err != nil {
		return nil, err
	}

	ingredient := food.NewIngredient(name, foodCategoryID, pricePerUnit, quantityPerUnit)
	if err := s.categories.addIngredientQuantity(ctx, uow, ingredient); err != nil {
		return nil, err
	}
	uow.Ingredients().Add(ingredient)

	return ingredient, nil
}

func (s *IngredientsService) GetAllIngredients(ctx context.Context) iter.Seq2[*food.Ingredient, error] {
	return s.store.Begin().Ingredients().GetAll(ctx)
}

// GetAllIngredientsIncludingRecipes eager-loads each ingredient's recipe
func (s *IngredientsService) GetAllIngredientsIncludingRecipes(ctx context.Context) iter.Seq2[*food.Ingredient, error] {
	return s.store.Begin().Ingredients().GetAll(ctx, outbound.WithRelations("Recipe"))
}

// SearchIngredientsByName returns ingredients whose name contains fragment
func (s *IngredientsService) SearchIngredientsByName(ctx context.Context, fragment string) iter.Seq2[*food.Ingredient, error] {
	return filter(s.GetAllIngredientsIncludingRecipes(ctx), func(i *food.Ingredient) bool {
		return containsFold(i.Name, fragment)
	})
}

// GetIngredientByID returns (nil, nil) when the ingredient does not exist
func (s *IngredientsService) GetIngredientByID(ctx context.Context, id uuid.UUID) (*food.Ingredient, error) {
	if err := food.RequireID("id", id); err != nil {
		return nil, err
	}

	ingredient, err := s.store.Begin().Ingredients().GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get ingredient", err)
	}
	return ingredient, nil
}

func (s *IngredientsService) EditIngredient(ctx context.Context, ingredient *food.Ingredient) error {
	if err := food.RequireEntity("ingredient", ingredient); err != nil {
		return err
	}
	if err := food.RequireID("ingredient.ID", ingredient.ID); err != nil {
		return err
	}

	s.logger.Info("Editing ingredient", zap.String("ingredient_id", ingredient.ID.String()))

	ingredient.PricePerMeasuringUnit = food.RoundCurrency(ingredient.PricePerMeasuringUnit)
	ingredient.UpdatedAt = time.Now()
	uow := s.store.Begin()
	uow.Ingredients().Update(ingredient)
	return commit(ctx, uow, "edit ingredient")
}

func (s *IngredientsService) DeleteIngredient(ctx context.Context, ingredient *food.Ingredient) error {
	if err := food.RequireEntity("ingredient", ingredient); err != nil {
		return err
	}
	if err := food.RequireID("ingredient.ID", ingredient.ID); err != nil {
		return err
	}

	s.logger.Info("Deleting ingredient", zap.String("ingredient_id", ingredient.ID.String()))

	uow := s.store.Begin()
	uow.Ingredients().Delete(ingredient)
	return commit(ctx, uow, "delete ingredient")
}
