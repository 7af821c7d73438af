// Package food contains the kitchen domain: recipes, the ingredients they
// are costed from, the food categories ingredients are classified into and
// the daily menus recipes are served on.
package food

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe is a dish with its derived costing figures.
//
// CostPerPortion, PricePerPortion and QuantityPerPortion are computed once
// from the ingredient set when the recipe is added. Later ingredient edits do
// not recompute them.
type Recipe struct {
	ID                 uuid.UUID       `json:"id"`
	Title              string          `json:"title"`
	DishType           DishType        `json:"dishType"`
	Ingredients        []*Ingredient   `json:"ingredients,omitempty"`
	CostPerPortion     decimal.Decimal `json:"costPerPortion"`
	PricePerPortion    decimal.Decimal `json:"pricePerPortion"`
	QuantityPerPortion float64         `json:"quantityPerPortion"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// NewRecipe creates a recipe with a fresh identifier
func NewRecipe(title string, dishType DishType) *Recipe {
	now := time.Now()
	return &Recipe{
		ID:        uuid.New(),
		Title:     title,
		DishType:  dishType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyCosting derives the costing figures from the current ingredients.
func (r *Recipe) ApplyCosting() error {
	cost := CalculateCostPerPortion(r.Ingredients)
	price, err := CalculatePricePerPortion(cost, CostPercentage)
	if err != nil {
		return err
	}

	r.CostPerPortion = cost
	r.PricePerPortion = price
	r.QuantityPerPortion = CalculateQuantityPerPortion(r.Ingredients)
	return nil
}

// Ingredient is one costed line of a recipe.
type Ingredient struct {
	ID                      uuid.UUID       `json:"id"`
	Name                    string          `json:"name"`
	PricePerMeasuringUnit   decimal.Decimal `json:"pricePerMeasuringUnit"`
	QuantityInMeasuringUnit float64         `json:"quantityInMeasuringUnit"`
	RecipeID                uuid.UUID       `json:"recipeId"`
	Recipe                  *Recipe         `json:"recipe,omitempty"`
	FoodCategoryID          uuid.UUID       `json:"foodCategoryId"`
	FoodCategory            *FoodCategory   `json:"foodCategory,omitempty"`
	CreatedAt               time.Time       `json:"createdAt"`
	UpdatedAt               time.Time       `json:"updatedAt"`
}

// NewIngredient creates an ingredient with a fresh identifier
func NewIngredient(name string, foodCategoryID uuid.UUID, price decimal.Decimal, quantity float64) *Ingredient {
	now := time.Now()
	return &Ingredient{
		ID:                      uuid.New(),
		Name:                    name,
		PricePerMeasuringUnit:   RoundCurrency(price),
		QuantityInMeasuringUnit: quantity,
		FoodCategoryID:          foodCategoryID,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// FoodCategory classifies ingredients and keeps a running total of the
// quantities attributed to it.
type FoodCategory struct {
	ID                               uuid.UUID `json:"id"`
	Name                             string    `json:"name"`
	QuantityOfAllCategoryIngredients float64   `json:"quantityOfAllCategoryIngredients"`
	CreatedAt                        time.Time `json:"createdAt"`
	UpdatedAt                        time.Time `json:"updatedAt"`
}

// NewFoodCategory creates a category with an empty running total
func NewFoodCategory(name string) *FoodCategory {
	now := time.Now()
	return &FoodCategory{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddIngredientQuantity grows the running total. There is no inverse: the
// total is never decremented when ingredients are edited or deleted.
func (c *FoodCategory) AddIngredientQuantity(quantity float64) {
	c.QuantityOfAllCategoryIngredients += quantity
	c.UpdatedAt = time.Now()
}

// DailyMenu is the selection of recipes served on one day.
type DailyMenu struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	Recipes   []*Recipe `json:"recipes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewDailyMenu creates a menu for the day containing date
func NewDailyMenu(date time.Time, recipes []*Recipe) *DailyMenu {
	now := time.Now()
	return &DailyMenu{
		ID:        uuid.New(),
		Date:      TruncateToDay(date),
		Recipes:   recipes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RecipesOfDishType returns the menu's recipes of one dish type in menu order.
func (m *DailyMenu) RecipesOfDishType(dishType DishType) []*Recipe {
	var recipes []*Recipe
	for _, recipe := range m.Recipes {
		if recipe.DishType == dishType {
			recipes = append(recipes, recipe)
		}
	}
	return recipes
}

// HasRecipeTitled reports whether any recipe title contains fragment, ignoring case.
func (m *DailyMenu) HasRecipeTitled(fragment string) bool {
	needle := strings.ToLower(fragment)
	for _, recipe := range m.Recipes {
		if strings.Contains(strings.ToLower(recipe.Title), needle) {
			return true
		}
	}
	return false
}

// TruncateToDay drops the time of day, keeping the date's location.
func TruncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
