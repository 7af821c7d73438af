// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homemadefood/backoffice/internal/domain/food"
)

// IngredientsService manages ingredients
type IngredientsService interface {
	AddIngredient(ctx context.Context, name string, foodCategoryID uuid.UUID, pricePerUnit decimal.Decimal, quantityPerUnit float64, recipeID uuid.UUID) (*food.Ingredient, error)
	GetAllIngredients(ctx context.Context) iter.Seq2[*food.Ingredient, error]
	GetAllIngredientsIncludingRecipes(ctx context.Context) iter.Seq2[*food.Ingredient, error]
	GetIngredientByID(ctx context.Context, id uuid.UUID) (*food.Ingredient, error)
	EditIngredient(ctx context.Context, ingredient *food.Ingredient) error
	DeleteIngredient(ctx context.Context, ingredient *food.Ingredient) error
	// SearchIngredientsByName matches name fragments case-insensitively
	SearchIngredientsByName(ctx context.Context, fragment string) iter.Seq2[*food.Ingredient, error]
}

// RecipesService manages recipes and their costing
type RecipesService interface {
	AddRecipe(ctx context.Context, recipe *food.Recipe, ingredientNames []string, quantities []float64, prices []decimal.Decimal, foodCategoryIDs []uuid.UUID) error
	GetAllRecipes(ctx context.Context) iter.Seq2[*food.Recipe, error]
	GetRecipeByID(ctx context.Context, id uuid.UUID) (*food.Recipe, error)
	EditRecipe(ctx context.Context, recipe *food.Recipe) error
	DeleteRecipe(ctx context.Context, recipe *food.Recipe) error
	GetAllOfDishType(ctx context.Context, dishType food.DishType) iter.Seq2[*food.Recipe, error]
	SearchRecipesByTitle(ctx context.Context, fragment string) iter.Seq2[*food.Recipe, error]
}

// FoodCategoriesService manages food categories and their running totals
type FoodCategoriesService interface {
	AddFoodCategory(ctx context.Context, name string) (*food.FoodCategory, error)
	GetAllFoodCategories(ctx context.Context) iter.Seq2[*food.FoodCategory, error]
	GetFoodCategoryByID(ctx context.Context, id uuid.UUID) (*food.FoodCategory, error)
	EditFoodCategory(ctx context.Context, category *food.FoodCategory) error
	DeleteFoodCategory(ctx context.Context, category *food.FoodCategory) error
	AddIngredientQuantityToFoodCategory(ctx context.Context, ingredient *food.Ingredient) error
}

// DailyMenuService manages daily menus
type DailyMenuService interface {
	GetAllDailyMenus(ctx context.Context) iter.Seq2[*food.DailyMenu, error]
	GetDailyMenuByID(ctx context.Context, id uuid.UUID) (*food.DailyMenu, error)
	AddDailyMenu(ctx context.Context, date time.Time, recipeIDs []uuid.UUID) (*food.DailyMenu, error)
	EditDailyMenu(ctx context.Context, id uuid.UUID, date time.Time, recipeIDs []uuid.UUID) (*food.DailyMenu, error)
	DeleteDailyMenu(ctx context.Context, menu *food.DailyMenu) error
	// SearchDailyMenusByRecipeTitle returns menus serving a recipe whose title contains fragment
	SearchDailyMenusByRecipeTitle(ctx context.Context, fragment string) iter.Seq2[*food.DailyMenu, error]
}
