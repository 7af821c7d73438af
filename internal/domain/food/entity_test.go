package food

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

// FoodTestSuite covers the kitchen entities and their costing rules
type FoodTestSuite struct {
	suite.Suite
}

func TestFoodTestSuite(t *testing.T) {
	suite.Run(t, new(FoodTestSuite))
}

func (suite *FoodTestSuite) TestRecipeCosting() {
	suite.Run("EggAndMilk_ShouldSumAndMarkUp", func() {
		// Arrange
		recipe := NewRecipe("Omelette", DishTypeMainDish)
		recipe.Ingredients = []*Ingredient{
			NewIngredient("egg", uuid.New(), decimal.RequireFromString("0.20"), 1),
			NewIngredient("milk", uuid.New(), decimal.RequireFromString("0.50"), 2),
		}

		// Act
		err := recipe.ApplyCosting()

		// Assert
		require.NoError(suite.T(), err)
		assert.True(suite.T(), decimal.RequireFromString("0.70").Equal(recipe.CostPerPortion))
		assert.Equal(suite.T(), 3.0, recipe.QuantityPerPortion)
		assert.Equal(suite.T(), "2.3333", recipe.PricePerPortion.StringFixed(4))
	})

	suite.Run("NoIngredients_ShouldBeZero", func() {
		recipe := NewRecipe("Water", DishTypeSoup)

		require.NoError(suite.T(), recipe.ApplyCosting())
		assert.True(suite.T(), recipe.CostPerPortion.IsZero())
		assert.True(suite.T(), recipe.PricePerPortion.IsZero())
		assert.Zero(suite.T(), recipe.QuantityPerPortion)
	})

	suite.Run("NegativeCost_ShouldBeRejected", func() {
		recipe := NewRecipe("Refund", DishTypeSoup)
		recipe.Ingredients = []*Ingredient{
			NewIngredient("voucher", uuid.New(), decimal.NewFromInt(-5), 1),
		}

		err := recipe.ApplyCosting()

		assert.True(suite.T(), apperrors.IsInvalidArgument(err))
		assert.True(suite.T(), recipe.CostPerPortion.IsZero(), "figures must stay untouched on failure")
	})
}

func (suite *FoodTestSuite) TestCalculatePricePerPortion() {
	price, err := CalculatePricePerPortion(decimal.NewFromInt(3), CostPercentage)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), decimal.NewFromInt(10).Equal(price))

	_, err = CalculatePricePerPortion(decimal.NewFromInt(-1), CostPercentage)
	assert.True(suite.T(), apperrors.IsInvalidArgument(err))

	_, err = CalculatePricePerPortion(decimal.NewFromInt(1), -0.3)
	assert.True(suite.T(), apperrors.IsInvalidArgument(err))

	_, err = CalculatePricePerPortion(decimal.NewFromInt(1), 0)
	assert.True(suite.T(), apperrors.IsInvalidArgument(err))
}

func (suite *FoodTestSuite) TestCurrencyIsKeptAtFourPlaces() {
	milk := NewIngredient("milk", uuid.New(), decimal.RequireFromString("12345678.12345678901"), 1)
	assert.Equal(suite.T(), "12345678.1235", milk.PricePerMeasuringUnit.String())

	recipe := NewRecipe("Omelette", DishTypeMainDish)
	recipe.Ingredients = []*Ingredient{
		NewIngredient("egg", uuid.New(), decimal.RequireFromString("0.20"), 1),
		NewIngredient("milk", uuid.New(), decimal.RequireFromString("0.50"), 2),
	}
	require.NoError(suite.T(), recipe.ApplyCosting())
	assert.True(suite.T(), decimal.RequireFromString("2.3333").Equal(recipe.PricePerPortion), recipe.PricePerPortion.String())
	assert.Equal(suite.T(), CurrencyPlaces, -recipe.PricePerPortion.Exponent())
}

func (suite *FoodTestSuite) TestFoodCategoryRunningTotalIsAdditive() {
	category := NewFoodCategory("Dairy")

	category.AddIngredientQuantity(2)
	category.AddIngredientQuantity(2)

	assert.Equal(suite.T(), 4.0, category.QuantityOfAllCategoryIngredients)
}

func (suite *FoodTestSuite) TestDailyMenu() {
	soup := NewRecipe("Tomato soup", DishTypeSoup)
	salad := NewRecipe("Shopska salad", DishTypeSalad)
	broth := NewRecipe("Chicken broth", DishTypeSoup)
	date := time.Date(2024, time.March, 8, 17, 45, 0, 0, time.UTC)

	menu := NewDailyMenu(date, []*Recipe{soup, salad, broth})

	assert.Equal(suite.T(), time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC), menu.Date)
	assert.Equal(suite.T(), []*Recipe{soup, broth}, menu.RecipesOfDishType(DishTypeSoup))
	assert.Empty(suite.T(), menu.RecipesOfDishType(DishTypeBBQ))
	assert.True(suite.T(), menu.HasRecipeTitled("SHOPSKA"))
	assert.False(suite.T(), menu.HasRecipeTitled("pizza"))
}

func (suite *FoodTestSuite) TestDishTypes() {
	for _, dishType := range AllDishTypes() {
		assert.True(suite.T(), dishType.IsValid())

		parsed, err := ParseDishType(dishType.Label())
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), dishType, parsed)
	}

	parsed, err := ParseDishType("BIG_SALAD")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), DishTypeBigSalad, parsed)

	_, err = ParseDishType("dessert")
	assert.Error(suite.T(), err)
	assert.False(suite.T(), DishType("dessert").IsValid())
}

func (suite *FoodTestSuite) TestGuards() {
	assert.True(suite.T(), apperrors.IsInvalidArgument(RequireID("id", uuid.Nil)))
	assert.NoError(suite.T(), RequireID("id", uuid.New()))
	assert.True(suite.T(), apperrors.IsInvalidArgument(RequireName("name", "")))
	assert.NoError(suite.T(), RequireName("name", "tomato"))

	var missing *Ingredient
	assert.True(suite.T(), apperrors.IsInvalidArgument(RequireEntity("ingredient", missing)))
	assert.NoError(suite.T(), RequireEntity("ingredient", &Ingredient{}))
}
