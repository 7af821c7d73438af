package gorm

import (
	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/domain/user"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	roles := make(StringSlice, len(u.Roles()))
	for i, role := range u.Roles() {
		roles[i] = string(role)
	}

	return &UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		Roles:        roles,
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
		LastLoginAt:  u.LastLoginAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(model *UserModel) *user.User {
	roles := make([]user.Role, len(model.Roles))
	for i, role := range model.Roles {
		roles[i] = user.Role(role)
	}

	return user.Reconstitute(
		model.ID,
		model.Email,
		model.PasswordHash,
		roles,
		model.CreatedAt,
		model.UpdatedAt,
		model.LastLoginAt,
	)
}

// RecipeToModel converts a domain recipe to a GORM model. Ingredients are
// persisted through their own repository and are not mapped here.
func RecipeToModel(r *food.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:                 r.ID,
		Title:              r.Title,
		DishType:           string(r.DishType),
		CostPerPortion:     NewMoney(r.CostPerPortion),
		PricePerPortion:    NewMoney(r.PricePerPortion),
		QuantityPerPortion: r.QuantityPerPortion,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(model *RecipeModel) *food.Recipe {
	r := &food.Recipe{
		ID:                 model.ID,
		Title:              model.Title,
		DishType:           food.DishType(model.DishType),
		CostPerPortion:     model.CostPerPortion.Decimal,
		PricePerPortion:    model.PricePerPortion.Decimal,
		QuantityPerPortion: model.QuantityPerPortion,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}

	for i := range model.Ingredients {
		r.Ingredients = append(r.Ingredients, ModelToIngredient(&model.Ingredients[i]))
	}

	return r
}

// IngredientToModel converts a domain ingredient to a GORM model
func IngredientToModel(i *food.Ingredient) *IngredientModel {
	return &IngredientModel{
		ID:                      i.ID,
		Name:                    i.Name,
		PricePerMeasuringUnit:   NewMoney(i.PricePerMeasuringUnit),
		QuantityInMeasuringUnit: i.QuantityInMeasuringUnit,
		RecipeID:                i.RecipeID,
		FoodCategoryID:          i.FoodCategoryID,
		CreatedAt:               i.CreatedAt,
		UpdatedAt:               i.UpdatedAt,
	}
}

// ModelToIngredient converts a GORM model to a domain ingredient
func ModelToIngredient(model *IngredientModel) *food.Ingredient {
	i := &food.Ingredient{
		ID:                      model.ID,
		Name:                    model.Name,
		PricePerMeasuringUnit:   model.PricePerMeasuringUnit.Decimal,
		QuantityInMeasuringUnit: model.QuantityInMeasuringUnit,
		RecipeID:                model.RecipeID,
		FoodCategoryID:          model.FoodCategoryID,
		CreatedAt:               model.CreatedAt,
		UpdatedAt:               model.UpdatedAt,
	}

	if model.Recipe != nil {
		i.Recipe = ModelToRecipe(model.Recipe)
	}
	if model.FoodCategory != nil {
		i.FoodCategory = ModelToFoodCategory(model.FoodCategory)
	}

	return i
}

// FoodCategoryToModel converts a domain food category to a GORM model
func FoodCategoryToModel(c *food.FoodCategory) *FoodCategoryModel {
	return &FoodCategoryModel{
		ID:                               c.ID,
		Name:                             c.Name,
		QuantityOfAllCategoryIngredients: c.QuantityOfAllCategoryIngredients,
		CreatedAt:                        c.CreatedAt,
		UpdatedAt:                        c.UpdatedAt,
	}
}

// ModelToFoodCategory converts a GORM model to a domain food category
func ModelToFoodCategory(model *FoodCategoryModel) *food.FoodCategory {
	return &food.FoodCategory{
		ID:                               model.ID,
		Name:                             model.Name,
		QuantityOfAllCategoryIngredients: model.QuantityOfAllCategoryIngredients,
		CreatedAt:                        model.CreatedAt,
		UpdatedAt:                        model.UpdatedAt,
	}
}

// DailyMenuToModel converts a domain daily menu to a GORM model. Only the
// identifiers of the selected recipes are carried over.
func DailyMenuToModel(m *food.DailyMenu) *DailyMenuModel {
	model := &DailyMenuModel{
		ID:        m.ID,
		Date:      m.Date,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	for _, recipe := range m.Recipes {
		model.Recipes = append(model.Recipes, RecipeModel{ID: recipe.ID})
	}

	return model
}

// ModelToDailyMenu converts a GORM model to a domain daily menu
func ModelToDailyMenu(model *DailyMenuModel) *food.DailyMenu {
	m := &food.DailyMenu{
		ID:        model.ID,
		Date:      model.Date,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	for i := range model.Recipes {
		m.Recipes = append(m.Recipes, ModelToRecipe(&model.Recipes[i]))
	}

	return m
}
