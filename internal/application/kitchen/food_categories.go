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

// FoodCategoriesService implements inbound.FoodCategoriesService
type FoodCategoriesService struct {
	store  outbound.Store
	logger *zap.Logger
}

var _ inbound.FoodCategoriesService = (*FoodCategoriesService)(nil)

// NewFoodCategoriesService creates a new food categories service
func NewFoodCategoriesService(store outbound.Store, logger *zap.Logger) *FoodCategoriesService {
	return &FoodCategoriesService{
		store:  store,
		logger: logger.Named("food-categories-service"),
	}
}

func (s *FoodCategoriesService) AddFoodCategory(ctx context.Context, name string) (*food.FoodCategory, error) {
	if err := food.RequireName("name", name); err != nil {
		return nil, err
	}

	s.logger.Info("Adding food category", zap.String("name", name))

	category := food.NewFoodCategory(name)
	uow := s.store.Begin()
	uow.FoodCategories().Add(category)
	if err := commit(ctx, uow, "add food category"); err != nil {
		return nil, err
	}

	s.logger.Info("Food category added successfully", zap.String("food_category_id", category.ID.String()))
	return category, nil
}

func (s *FoodCategoriesService) GetAllFoodCategories(ctx context.Context) iter.Seq2[*food.FoodCategory, error] {
	return s.store.Begin().FoodCategories().GetAll(ctx)
}

// GetFoodCategoryByID returns (nil, nil) when the category does not exist
func (s *FoodCategoriesService) GetFoodCategoryByID(ctx context.Context, id uuid.UUID) (*food.FoodCategory, error) {
	if err := food.RequireID("id", id); err != nil {
		return nil, err
	}

	category, err := s.store.Begin().FoodCategories().GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get food category", err)
	}
	return category, nil
}

func (s *FoodCategoriesService) EditFoodCategory(ctx context.Context, category *food.FoodCategory) error {
	if err := food.RequireEntity("category", category); err != nil {
		return err
	}
	if err := food.RequireID("category.ID", category.ID); err != nil {
		return err
	}

	s.logger.Info("Editing food category", zap.String("food_category_id", category.ID.String()))

	category.UpdatedAt = time.Now()
	uow := s.store.Begin()
	uow.FoodCategories().Update(category)
	return commit(ctx, uow, "edit food category")
}

func (s *FoodCategoriesService) DeleteFoodCategory(ctx context.Context, category *food.FoodCategory) error {
	if err := food.RequireEntity("category", category); err != nil {
		return err
	}
	if err := food.RequireID("category.ID", category.ID); err != nil {
		return err
	}

	s.logger.Info("Deleting food category", zap.String("food_category_id", category.ID.String()))

	uow := s.store.Begin()
	uow.FoodCategories().Delete(category)
	return commit(ctx, uow, "delete food category")
}

// AddIngredientQuantityToFoodCategory adds the ingredient's quantity to its
// category's running total. Calling it twice for one ingredient counts the
// quantity twice.
func (s *FoodCategoriesService) AddIngredientQuantityToFoodCategory(ctx context.Context, ingredient *food.Ingredient) error {
	if err := food.RequireEntity("ingredient", ingredient); err != nil {
		return err
	}

	uow := s.store.Begin()
	if err := s.addIngredientQuantity(ctx, uow, ingredient); err != nil {
		return err
	}
	return commit(ctx, uow, "add ingredient quantity to food category")
}

func (s *FoodCategoriesService) addIngredientQuantity(ctx context.Context, uow outbound.UnitOfWork, ingredient *food.Ingredient) error {
	if err := food.RequireID("ingredient.FoodCategoryID", ingredient.FoodCategoryID); err != nil {
		return err
	}

	category, err := uow.FoodCategories().GetByID(ctx, ingredient.FoodCategoryID)
	if err != nil {
		return apperrors.NewDatabaseError("get food category", err)
	}
	if category == nil {
		return apperrors.NewInvalidArgumentError("ingredient.FoodCategoryID", "food category does not exist")
	}

	category.AddIngredientQuantity(ingredient.QuantityInMeasuringUnit)
	uow.FoodCategories().Update(category)

	s.logger.Debug("Food category total increased",
		zap.String("food_category_id", category.ID.String()),
		zap.Float64("quantity", ingredient.QuantityInMeasuringUnit),
		zap.Float64("total", category.QuantityOfAllCategoryIngredients),
	)
	return nil
}
