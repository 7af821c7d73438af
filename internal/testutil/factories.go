package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

// Factory builds kitchen entities from a seeded faker so failures reproduce
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a new factory with seeded faker
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// Price returns a unit price between 0.10 and 20.00
func (f *Factory) Price() decimal.Decimal {
	return decimal.NewFromFloat(f.faker.Price(0.10, 20)).Round(2)
}

// Quantity returns a positive whole quantity
func (f *Factory) Quantity() float64 {
	return float64(f.faker.IntRange(1, 10))
}

// FoodCategory returns an unsaved category
func (f *Factory) FoodCategory() *food.FoodCategory {
	return food.NewFoodCategory(f.faker.Vegetable())
}

// Recipe returns an unsaved recipe of dishType without ingredients
func (f *Factory) Recipe(dishType food.DishType) *food.Recipe {
	return food.NewRecipe(f.faker.Dessert(), dishType)
}

// Ingredient returns an unsaved ingredient of the given category
func (f *Factory) Ingredient(category *food.FoodCategory) *food.Ingredient {
	return food.NewIngredient(f.faker.Fruit(), category.ID, f.Price(), f.Quantity())
}

// DailyMenu returns an unsaved menu for a random day of the coming month
func (f *Factory) DailyMenu(recipes ...*food.Recipe) *food.DailyMenu {
	return food.NewDailyMenu(time.Now().AddDate(0, 0, f.faker.IntRange(0, 30)), recipes)
}

// Seed stages every entity into one unit of work of store and commits it
func Seed(t *testing.T, store outbound.Store, entities ...any) {
	t.Helper()
	uow := store.Begin()
	for _, entity := range entities {
		switch e := entity.(type) {
		case *food.Recipe:
			uow.Recipes().Add(e)
		case *food.Ingredient:
			uow.Ingredients().Add(e)
		case *food.FoodCategory:
			uow.FoodCategories().Add(e)
		case *food.DailyMenu:
			uow.DailyMenus().Add(e)
		default:
			t.Fatalf("cannot seed %T", entity)
		}
	}
	require.NoError(t, uow.Commit(context.Background()))
}
