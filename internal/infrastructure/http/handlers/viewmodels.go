package handlers

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homemadefood/backoffice/internal/domain/food"
)

// View models receive entity fields through mapping.Map, so their json
// tags mirror the entity's.

type RecipeViewModel struct {
	ID                 uuid.UUID              `json:"id"`
	Title              string                 `json:"title"`
	DishType           food.DishType          `json:"dishType"`
	CostPerPortion     decimal.Decimal        `json:"costPerPortion"`
	PricePerPortion    decimal.Decimal        `json:"pricePerPortion"`
	QuantityPerPortion float64                `json:"quantityPerPortion"`
	Ingredients        []*IngredientViewModel `json:"ingredients"`
}

// RecipeOption is a recipe as listed in a select box
type RecipeOption struct {
	ID       uuid.UUID     `json:"id"`
	Title    string        `json:"title"`
	DishType food.DishType `json:"dishType"`
}

type IngredientViewModel struct {
	ID                      uuid.UUID              `json:"id"`
	Name                    string                 `json:"name"`
	PricePerMeasuringUnit   decimal.Decimal        `json:"pricePerMeasuringUnit"`
	QuantityInMeasuringUnit float64                `json:"quantityInMeasuringUnit"`
	RecipeID                uuid.UUID              `json:"recipeId"`
	Recipe                  *RecipeOption          `json:"recipe"`
	FoodCategoryID          uuid.UUID              `json:"foodCategoryId"`
	FoodCategory            *FoodCategoryViewModel `json:"foodCategory"`
}

type FoodCategoryViewModel struct {
	ID                               uuid.UUID `json:"id"`
	Name                             string    `json:"name"`
	QuantityOfAllCategoryIngredients float64   `json:"quantityOfAllCategoryIngredients"`
}

type DailyMenuViewModel struct {
	ID      uuid.UUID       `json:"id"`
	Date    time.Time       `json:"date"`
	Recipes []*RecipeOption `json:"recipes"`
}

// DishGroup is the recipes of one dish type, in menu order
type DishGroup struct {
	DishType food.DishType
	Recipes  []*RecipeOption
}

// Groups buckets the menu's recipes by dish type. Every dish type is
// present, possibly empty.
func (m *DailyMenuViewModel) Groups() []DishGroup {
	return groupByDishType(m.Recipes)
}

// RecipeIDs lists the selected recipes for pre-checking a form
func (m *DailyMenuViewModel) RecipeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m.Recipes))
	for _, recipe := range m.Recipes {
		ids = append(ids, recipe.ID)
	}
	return ids
}

func groupByDishType(recipes []*RecipeOption) []DishGroup {
	dishTypes := food.AllDishTypes()
	groups := make([]DishGroup, 0, len(dishTypes))
	for _, dishType := range dishTypes {
		group := DishGroup{DishType: dishType}
		for _, recipe := range recipes {
			if recipe.DishType == dishType {
				group.Recipes = append(group.Recipes, recipe)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// Grid is one page of an index listing
type Grid[T any] struct {
	Items []*T
	Pager Pager
	// Query is the active search, echoed back under QueryParam
	Query      string
	QueryParam string
}

// Form is an add or edit form with the values to redisplay
type Form[T any] struct {
	Values T
	Errors []string
	Action string
	// Options feeds the form's select boxes
	Options map[string]any
}

// recipeAddForm carries the ingredients as parallel fields, one entry per
// row of the form
type recipeAddForm struct {
	Title           string    `form:"title" binding:"required,max=200"`
	DishType        string    `form:"dishType" binding:"required,dish_type"`
	IngredientNames []string  `form:"ingredientNames"`
	Quantities      []float64 `form:"quantities" binding:"dive,gte=0"`
	Prices          []string  `form:"prices" binding:"dive,omitempty,numeric"`
	FoodCategoryIDs []string  `form:"foodCategoryIds" binding:"dive,omitempty,notnil_uuid"`
}

// withoutBlankRows drops the rows whose ingredient name was left empty
func (f recipeAddForm) withoutBlankRows() recipeAddForm {
	out := recipeAddForm{Title: f.Title, DishType: f.DishType}
	for i, name := range f.IngredientNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		out.IngredientNames = append(out.IngredientNames, name)
		if i < len(f.Quantities) {
			out.Quantities = append(out.Quantities, f.Quantities[i])
		}
		if i < len(f.Prices) {
			out.Prices = append(out.Prices, f.Prices[i])
		}
		if i < len(f.FoodCategoryIDs) {
			out.FoodCategoryIDs = append(out.FoodCategoryIDs, f.FoodCategoryIDs[i])
		}
	}
	return out
}

type recipeEditForm struct {
	Title    string `form:"title" binding:"required,max=200"`
	DishType string `form:"dishType" binding:"required,dish_type"`
}

type ingredientAddForm struct {
	Name           string  `form:"name" binding:"required,max=200"`
	FoodCategoryID string  `form:"foodCategoryId" binding:"required,notnil_uuid"`
	RecipeID       string  `form:"recipeId" binding:"required,notnil_uuid"`
	Price          string  `form:"price" binding:"required,numeric"`
	Quantity       float64 `form:"quantity" binding:"gte=0"`
}

type ingredientEditForm struct {
	Name     string  `form:"name" binding:"required,max=200"`
	Price    string  `form:"price" binding:"required,numeric"`
	Quantity float64 `form:"quantity" binding:"gte=0"`
}

type foodCategoryForm struct {
	Name string `form:"name" binding:"required,max=200"`
}

type dailyMenuForm struct {
	Date      string   `form:"selectedDate" binding:"required,datetime=2006-01-02"`
	RecipeIDs []string `form:"recipeIds" binding:"dive,notnil_uuid"`
}
