package kitchen_test

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/application/kitchen"
	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/infrastructure/persistence/memory"
	"github.com/homemadefood/backoffice/internal/testutil"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

func collect[T any](t *testing.T, seq iter.Seq2[*T, error]) []*T {
	t.Helper()
	var out []*T
	for item, err := range seq {
		require.NoError(t, err)
		out = append(out, item)
	}
	return out
}

type services struct {
	categories  *kitchen.FoodCategoriesService
	ingredients *kitchen.IngredientsService
	recipes     *kitchen.RecipesService
	menus       *kitchen.DailyMenuService
}

// KitchenTestSuite runs the use cases against the in-memory store
type KitchenTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	factory *testutil.Factory
	services
}

func TestKitchenTestSuite(t *testing.T) {
	suite.Run(t, new(KitchenTestSuite))
}

func (s *KitchenTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.factory = testutil.NewFactory(42)

	log := zap.NewNop()
	s.categories = kitchen.NewFoodCategoriesService(s.store, log)
	s.ingredients = kitchen.NewIngredientsService(s.store, s.categories, log)
	s.recipes = kitchen.NewRecipesService(s.store, s.ingredients, log)
	s.menus = kitchen.NewDailyMenuService(s.store, log)
}

func (s *KitchenTestSuite) TestAddIngredientScenario() {
	categoryID, recipeID := uuid.New(), uuid.New()

	added, err := s.ingredients.AddIngredient(s.ctx, "Tomato", categoryID, decimal.RequireFromString("1.50"), 2, recipeID)
	s.Require().NoError(err)

	found, err := s.ingredients.GetIngredientByID(s.ctx, added.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("Tomato", found.Name)
	s.True(decimal.RequireFromString("1.50").Equal(found.PricePerMeasuringUnit))
	s.Equal(2.0, found.QuantityInMeasuringUnit)
	s.Equal(recipeID, found.RecipeID)
	s.Equal(categoryID, found.FoodCategoryID)
}

func (s *KitchenTestSuite) TestAddIngredientGuards() {
	price := decimal.RequireFromString("1")
	tests := []struct {
		name       string
		ingredient string
		categoryID uuid.UUID
		recipeID   uuid.UUID
	}{
		{"empty name", "", uuid.New(), uuid.New()},
		{"empty category", "Salt", uuid.Nil, uuid.New()},
		{"empty recipe", "Salt", uuid.New(), uuid.Nil},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			ingredient, err := s.ingredients.AddIngredient(s.ctx, tt.ingredient, tt.categoryID, price, 1, tt.recipeID)
			s.Nil(ingredient)
			s.True(apperrors.IsInvalidArgument(err))
		})
	}

	s.Empty(collect(s.T(), s.ingredients.GetAllIngredients(s.ctx)))
}

func (s *KitchenTestSuite) TestAddRecipeScenario() {
	dairy := food.NewFoodCategory("Dairy")
	eggs := food.NewFoodCategory("Eggs")
	testutil.Seed(s.T(), s.store, dairy, eggs)

	recipe := food.NewRecipe("Omelette", food.DishTypeMainDish)
	err := s.recipes.AddRecipe(s.ctx, recipe,
		[]string{"Egg", "Milk"},
		[]float64{1, 2},
		[]decimal.Decimal{decimal.RequireFromString("0.20"), decimal.RequireFromString("0.50")},
		[]uuid.UUID{eggs.ID, dairy.ID},
	)
	s.Require().NoError(err)

	stored, err := s.recipes.GetRecipeByID(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.True(decimal.RequireFromString("0.70").Equal(stored.CostPerPortion), stored.CostPerPortion.String())
	s.Equal("2.3333", stored.PricePerPortion.StringFixed(4))
	s.Equal(3.0, stored.QuantityPerPortion)

	s.Require().Len(stored.Ingredients, 2)
	s.Equal("egg", stored.Ingredients[0].Name)
	s.Equal("milk", stored.Ingredients[1].Name)
	for _, ingredient := range stored.Ingredients {
		s.Equal(recipe.ID, ingredient.RecipeID)
	}

	eggTotal, err := s.categories.GetFoodCategoryByID(s.ctx, eggs.ID)
	s.Require().NoError(err)
	s.Equal(1.0, eggTotal.QuantityOfAllCategoryIngredients)
	dairyTotal, err := s.categories.GetFoodCategoryByID(s.ctx, dairy.ID)
	s.Require().NoError(err)
	s.Equal(2.0, dairyTotal.QuantityOfAllCategoryIngredients)
}

func (s *KitchenTestSuite) TestAddRecipeAccumulatesIntoSharedCategory() {
	vegetables := s.factory.FoodCategory()
	testutil.Seed(s.T(), s.store, vegetables)

	recipe := s.factory.Recipe(food.DishTypeSalad)
	err := s.recipes.AddRecipe(s.ctx, recipe,
		[]string{"Lettuce", "Cucumber", "Tomato"},
		[]float64{1, 2, 4},
		[]decimal.Decimal{s.factory.Price(), s.factory.Price(), s.factory.Price()},
		[]uuid.UUID{vegetables.ID, vegetables.ID, vegetables.ID},
	)
	s.Require().NoError(err)

	stored, err := s.categories.GetFoodCategoryByID(s.ctx, vegetables.ID)
	s.Require().NoError(err)
	s.Equal(7.0, stored.QuantityOfAllCategoryIngredients)
}

func (s *KitchenTestSuite) TestAddRecipeAssignsMissingID() {
	recipe := &food.Recipe{Title: "Water", DishType: food.DishTypeSoup}

	s.Require().NoError(s.recipes.AddRecipe(s.ctx, recipe, nil, nil, nil, nil))

	s.NotEqual(uuid.Nil, recipe.ID)
	s.True(recipe.CostPerPortion.IsZero())
	stored, err := s.recipes.GetRecipeByID(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.NotNil(stored)
}

func (s *KitchenTestSuite) TestAddRecipeWithMismatchedLengthsStagesNothing() {
	category := s.factory.FoodCategory()
	testutil.Seed(s.T(), s.store, category)

	recipe := s.factory.Recipe(food.DishTypePasta)
	err := s.recipes.AddRecipe(s.ctx, recipe,
		[]string{"Flour", "Egg"},
		[]float64{1},
		[]decimal.Decimal{s.factory.Price(), s.factory.Price()},
		[]uuid.UUID{category.ID, category.ID},
	)
	s.True(apperrors.IsInvalidArgument(err))
	s.Contains(err.Error(), "out of range")

	stored, err := s.recipes.GetRecipeByID(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Nil(stored)

	unchanged, err := s.categories.GetFoodCategoryByID(s.ctx, category.ID)
	s.Require().NoError(err)
	s.Zero(unchanged.QuantityOfAllCategoryIngredients)
}

func (s *KitchenTestSuite) TestAddRecipeWithUnknownCategoryPersistsNothing() {
	recipe := s.factory.Recipe(food.DishTypeBBQ)
	err := s.recipes.AddRecipe(s.ctx, recipe,
		[]string{"Ribs"},
		[]float64{1},
		[]decimal.Decimal{s.factory.Price()},
		[]uuid.UUID{uuid.New()},
	)
	s.True(apperrors.IsInvalidArgument(err))

	s.Empty(collect(s.T(), s.recipes.GetAllRecipes(s.ctx)))
	s.Empty(collect(s.T(), s.ingredients.GetAllIngredients(s.ctx)))
}

func (s *KitchenTestSuite) TestFailedAddRecipeLeavesRecipeUntouched() {
	category := s.factory.FoodCategory()
	testutil.Seed(s.T(), s.store, category)

	recipe := &food.Recipe{Title: "Stew", DishType: food.DishTypeMainDish}
	err := s.recipes.AddRecipe(s.ctx, recipe,
		[]string{"Beef", "Ghost"},
		[]float64{1, 1},
		[]decimal.Decimal{s.factory.Price(), s.factory.Price()},
		[]uuid.UUID{category.ID, uuid.New()},
	)
	s.True(apperrors.IsInvalidArgument(err))

	s.Equal(uuid.Nil, recipe.ID)
	s.Empty(recipe.Ingredients)
	s.True(recipe.CreatedAt.IsZero())
	s.True(recipe.UpdatedAt.IsZero())
	s.True(recipe.CostPerPortion.IsZero())

	unchanged, err := s.categories.GetFoodCategoryByID(s.ctx, category.ID)
	s.Require().NoError(err)
	s.Zero(unchanged.QuantityOfAllCategoryIngredients)
}

func (s *KitchenTestSuite) TestRollupTwiceDoublesTheTotal() {
	category := s.factory.FoodCategory()
	testutil.Seed(s.T(), s.store, category)
	ingredient := food.NewIngredient("salt", category.ID, s.factory.Price(), 3)

	s.Require().NoError(s.categories.AddIngredientQuantityToFoodCategory(s.ctx, ingredient))
	s.Require().NoError(s.categories.AddIngredientQuantityToFoodCategory(s.ctx, ingredient))

	stored, err := s.categories.GetFoodCategoryByID(s.ctx, category.ID)
	s.Require().NoError(err)
	s.Equal(6.0, stored.QuantityOfAllCategoryIngredients)
}

func (s *KitchenTestSuite) TestRollupIsNotReversedByDelete() {
	category := s.factory.FoodCategory()
	testutil.Seed(s.T(), s.store, category)
	recipe := s.factory.Recipe(food.DishTypeSoup)
	s.Require().NoError(s.recipes.AddRecipe(s.ctx, recipe,
		[]string{"Leek"}, []float64{5}, []decimal.Decimal{s.factory.Price()}, []uuid.UUID{category.ID}))

	s.Require().NoError(s.ingredients.DeleteIngredient(s.ctx, recipe.Ingredients[0]))

	stored, err := s.categories.GetFoodCategoryByID(s.ctx, category.ID)
	s.Require().NoError(err)
	s.Equal(5.0, stored.QuantityOfAllCategoryIngredients)
}

func (s *KitchenTestSuite) TestCostingIsNotRecomputedOnIngredientEdit() {
	category := s.factory.FoodCategory()
	testutil.Seed(s.T(), s.store, category)
	recipe := s.factory.Recipe(food.DishTypeVegetarian)
	s.Require().NoError(s.recipes.AddRecipe(s.ctx, recipe,
		[]string{"Tofu"}, []float64{1}, []decimal.Decimal{decimal.RequireFromString("3")}, []uuid.UUID{category.ID}))

	tofu, err := s.ingredients.GetIngredientByID(s.ctx, recipe.Ingredients[0].ID)
	s.Require().NoError(err)
	tofu.PricePerMeasuringUnit = decimal.RequireFromString("9")
	s.Require().NoError(s.ingredients.EditIngredient(s.ctx, tofu))

	stored, err := s.recipes.GetRecipeByID(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("3").Equal(stored.CostPerPortion))
	s.True(decimal.RequireFromString("9").Equal(stored.Ingredients[0].PricePerMeasuringUnit))
}

func (s *KitchenTestSuite) TestGetAllOfDishTypeKeepsNaturalOrder() {
	firstSoup := s.factory.Recipe(food.DishTypeSoup)
	salad := s.factory.Recipe(food.DishTypeSalad)
	secondSoup := s.factory.Recipe(food.DishTypeSoup)
	testutil.Seed(s.T(), s.store, firstSoup, salad, secondSoup)

	soups := collect(s.T(), s.recipes.GetAllOfDishType(s.ctx, food.DishTypeSoup))
	s.Require().Len(soups, 2)
	s.Equal(firstSoup.ID, soups[0].ID)
	s.Equal(secondSoup.ID, soups[1].ID)
}

func (s *KitchenTestSuite) TestSearches() {
	category := s.factory.FoodCategory()
	carbonara := food.NewRecipe("Spaghetti Carbonara", food.DishTypePasta)
	goulash := food.NewRecipe("Goulash", food.DishTypeSoup)
	bacon := food.NewIngredient("smoked bacon", category.ID, s.factory.Price(), 1)
	bacon.RecipeID = carbonara.ID
	menu := s.factory.DailyMenu(carbonara)
	testutil.Seed(s.T(), s.store, category, carbonara, goulash, bacon, menu)

	byTitle := collect(s.T(), s.recipes.SearchRecipesByTitle(s.ctx, "carbo"))
	s.Require().Len(byTitle, 1)
	s.Equal(carbonara.ID, byTitle[0].ID)

	byName := collect(s.T(), s.ingredients.SearchIngredientsByName(s.ctx, "BACON"))
	s.Require().Len(byName, 1)
	s.Require().NotNil(byName[0].Recipe)
	s.Equal("Spaghetti Carbonara", byName[0].Recipe.Title)

	s.Len(collect(s.T(), s.menus.SearchDailyMenusByRecipeTitle(s.ctx, "spaghetti")), 1)
	s.Empty(collect(s.T(), s.menus.SearchDailyMenusByRecipeTitle(s.ctx, "goulash")))
}

func (s *KitchenTestSuite) TestAbsentRecordsAreNil() {
	id := uuid.New()

	ingredient, err := s.ingredients.GetIngredientByID(s.ctx, id)
	s.NoError(err)
	s.Nil(ingredient)

	recipe, err := s.recipes.GetRecipeByID(s.ctx, id)
	s.NoError(err)
	s.Nil(recipe)

	category, err := s.categories.GetFoodCategoryByID(s.ctx, id)
	s.NoError(err)
	s.Nil(category)

	menu, err := s.menus.GetDailyMenuByID(s.ctx, id)
	s.NoError(err)
	s.Nil(menu)

	edited, err := s.menus.EditDailyMenu(s.ctx, id, time.Now(), nil)
	s.NoError(err)
	s.Nil(edited)
}

func (s *KitchenTestSuite) TestDailyMenuLifecycle() {
	soup := s.factory.Recipe(food.DishTypeSoup)
	salad := s.factory.Recipe(food.DishTypeSalad)
	testutil.Seed(s.T(), s.store, soup, salad)
	day := time.Date(2024, time.March, 4, 13, 30, 0, 0, time.UTC)

	menu, err := s.menus.AddDailyMenu(s.ctx, day, []uuid.UUID{soup.ID, soup.ID, salad.ID})
	s.Require().NoError(err)
	s.Equal(time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), menu.Date)

	stored, err := s.menus.GetDailyMenuByID(s.ctx, menu.ID)
	s.Require().NoError(err)
	s.Require().Len(stored.Recipes, 2)

	edited, err := s.menus.EditDailyMenu(s.ctx, menu.ID, day.AddDate(0, 0, 1), []uuid.UUID{salad.ID})
	s.Require().NoError(err)
	s.Require().NotNil(edited)

	stored, err = s.menus.GetDailyMenuByID(s.ctx, menu.ID)
	s.Require().NoError(err)
	s.Equal(5, stored.Date.Day())
	s.Require().Len(stored.Recipes, 1)
	s.Equal(salad.ID, stored.Recipes[0].ID)

	s.Require().NoError(s.menus.DeleteDailyMenu(s.ctx, stored))
	s.Empty(collect(s.T(), s.menus.GetAllDailyMenus(s.ctx)))
}

func (s *KitchenTestSuite) TestDailyMenuRejectsBadSelection() {
	soup := s.factory.Recipe(food.DishTypeSoup)
	testutil.Seed(s.T(), s.store, soup)

	_, err := s.menus.AddDailyMenu(s.ctx, time.Now(), []uuid.UUID{soup.ID, uuid.New()})
	s.True(apperrors.IsInvalidArgument(err))

	_, err = s.menus.AddDailyMenu(s.ctx, time.Now(), []uuid.UUID{uuid.Nil})
	s.True(apperrors.IsInvalidArgument(err))

	_, err = s.menus.AddDailyMenu(s.ctx, time.Time{}, []uuid.UUID{soup.ID})
	s.True(apperrors.IsInvalidArgument(err))

	s.Empty(collect(s.T(), s.menus.GetAllDailyMenus(s.ctx)))
}

func (s *KitchenTestSuite) TestFoodCategoryCRUD() {
	category, err := s.categories.AddFoodCategory(s.ctx, "Grains")
	s.Require().NoError(err)

	category.Name = "Cereals"
	s.Require().NoError(s.categories.EditFoodCategory(s.ctx, category))

	all := collect(s.T(), s.categories.GetAllFoodCategories(s.ctx))
	s.Require().Len(all, 1)
	s.Equal("Cereals", all[0].Name)

	s.Require().NoError(s.categories.DeleteFoodCategory(s.ctx, category))
	s.Empty(collect(s.T(), s.categories.GetAllFoodCategories(s.ctx)))

	_, err = s.categories.AddFoodCategory(s.ctx, "")
	s.True(apperrors.IsInvalidArgument(err))
}

func (s *KitchenTestSuite) TestRecipeEditAndDelete() {
	recipe := s.factory.Recipe(food.DishTypeMainDish)
	testutil.Seed(s.T(), s.store, recipe)

	recipe.Title = "Schnitzel"
	s.Require().NoError(s.recipes.EditRecipe(s.ctx, recipe))
	stored, err := s.recipes.GetRecipeByID(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Equal("Schnitzel", stored.Title)

	s.Require().NoError(s.recipes.DeleteRecipe(s.ctx, stored))
	gone, err := s.recipes.GetRecipeByID(s.ctx, recipe.ID)
	s.Require().NoError(err)
	s.Nil(gone)
}

// Guard tests use mocks so that any store access fails the test.

func newMockedServices(store *testutil.MockStore) services {
	log := zap.NewNop()
	categories := kitchen.NewFoodCategoriesService(store, log)
	ingredients := kitchen.NewIngredientsService(store, categories, log)
	return services{
		categories:  categories,
		ingredients: ingredients,
		recipes:     kitchen.NewRecipesService(store, ingredients, log),
		menus:       kitchen.NewDailyMenuService(store, log),
	}
}

func TestEmptyIdentifiersAreRejectedWithoutStoreAccess(t *testing.T) {
	ctx := context.Background()
	store := &testutil.MockStore{}
	svc := newMockedServices(store)

	calls := map[string]func() error{
		"GetIngredientByID": func() error {
			_, err := svc.ingredients.GetIngredientByID(ctx, uuid.Nil)
			return err
		},
		"GetRecipeByID": func() error {
			_, err := svc.recipes.GetRecipeByID(ctx, uuid.Nil)
			return err
		},
		"GetFoodCategoryByID": func() error {
			_, err := svc.categories.GetFoodCategoryByID(ctx, uuid.Nil)
			return err
		},
		"GetDailyMenuByID": func() error {
			_, err := svc.menus.GetDailyMenuByID(ctx, uuid.Nil)
			return err
		},
		"EditDailyMenu": func() error {
			_, err := svc.menus.EditDailyMenu(ctx, uuid.Nil, time.Now(), nil)
			return err
		},
		"EditIngredient":     func() error { return svc.ingredients.EditIngredient(ctx, &food.Ingredient{}) },
		"DeleteIngredient":   func() error { return svc.ingredients.DeleteIngredient(ctx, &food.Ingredient{}) },
		"EditRecipe":         func() error { return svc.recipes.EditRecipe(ctx, &food.Recipe{}) },
		"DeleteRecipe":       func() error { return svc.recipes.DeleteRecipe(ctx, &food.Recipe{}) },
		"EditFoodCategory":   func() error { return svc.categories.EditFoodCategory(ctx, &food.FoodCategory{}) },
		"DeleteFoodCategory": func() error { return svc.categories.DeleteFoodCategory(ctx, &food.FoodCategory{}) },
		"DeleteDailyMenu":    func() error { return svc.menus.DeleteDailyMenu(ctx, &food.DailyMenu{}) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			require.True(t, apperrors.IsInvalidArgument(err), err.Error())
		})
	}

	store.AssertNotCalled(t, "Begin")
}

func TestNilEntitiesAreRejectedWithoutStoreAccess(t *testing.T) {
	ctx := context.Background()
	store := &testutil.MockStore{}
	svc := newMockedServices(store)

	for name, err := range map[string]error{
		"DeleteIngredient":   svc.ingredients.DeleteIngredient(ctx, nil),
		"EditIngredient":     svc.ingredients.EditIngredient(ctx, nil),
		"AddRecipe":          svc.recipes.AddRecipe(ctx, nil, nil, nil, nil, nil),
		"EditRecipe":         svc.recipes.EditRecipe(ctx, nil),
		"DeleteRecipe":       svc.recipes.DeleteRecipe(ctx, nil),
		"Rollup":             svc.categories.AddIngredientQuantityToFoodCategory(ctx, nil),
		"EditFoodCategory":   svc.categories.EditFoodCategory(ctx, nil),
		"DeleteFoodCategory": svc.categories.DeleteFoodCategory(ctx, nil),
		"DeleteDailyMenu":    svc.menus.DeleteDailyMenu(ctx, nil),
	} {
		require.True(t, apperrors.IsInvalidArgument(err), name)
	}

	store.AssertNotCalled(t, "Begin")
}

func TestDeleteIngredientStagesAndCommitsOnce(t *testing.T) {
	ctx := context.Background()
	uow := testutil.NewMockUnitOfWork()
	store := &testutil.MockStore{}
	store.On("Begin").Return(uow).Once()
	ingredient := food.NewIngredient("salt", uuid.New(), decimal.RequireFromString("0.1"), 1)

	uow.IngredientRepo.On("Delete", ingredient).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	require.NoError(t, newMockedServices(store).ingredients.DeleteIngredient(ctx, ingredient))

	store.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCommitFailureSurfacesAsDatabaseError(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection reset")
	uow := testutil.NewMockUnitOfWork()
	store := &testutil.MockStore{}
	store.On("Begin").Return(uow)
	uow.CategoryRepo.On("Add", mock.AnythingOfType("*food.FoodCategory")).Once()
	uow.On("Commit", ctx).Return(cause).Once()

	category, err := newMockedServices(store).categories.AddFoodCategory(ctx, "Fish")

	require.Nil(t, category)
	require.True(t, apperrors.Is(err, apperrors.CodeDatabaseError))
	require.ErrorIs(t, err, cause)
	uow.AssertExpectations(t)
}

func TestRollupLooksUpCategoryInCallersUnitOfWork(t *testing.T) {
	ctx := context.Background()
	category := food.NewFoodCategory("Herbs")
	ingredient := food.NewIngredient("basil", category.ID, decimal.RequireFromString("0.3"), 4)

	uow := testutil.NewMockUnitOfWork()
	store := &testutil.MockStore{}
	store.On("Begin").Return(uow).Once()
	uow.CategoryRepo.On("GetByID", ctx, category.ID).Return(category, nil).Once()
	uow.CategoryRepo.On("Update", category).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	require.NoError(t, newMockedServices(store).categories.AddIngredientQuantityToFoodCategory(ctx, ingredient))
	require.Equal(t, 4.0, category.QuantityOfAllCategoryIngredients)
	uow.AssertExpectations(t)
}
