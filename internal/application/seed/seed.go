// Package seed loads kitchen fixtures from YAML through the kitchen services,
// so seeded data obeys the same rules as data entered in the admin area
package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
)

const dateLayout = "2006-01-02"

// Fixtures is the document layout of a seed file
type Fixtures struct {
	FoodCategories []string        `yaml:"foodCategories"`
	Recipes        []RecipeFixture `yaml:"recipes"`
	DailyMenus     []MenuFixture   `yaml:"dailyMenus"`
}

type RecipeFixture struct {
	Title       string              `yaml:"title"`
	DishType    string              `yaml:"dishType"`
	Ingredients []IngredientFixture `yaml:"ingredients"`
}

type IngredientFixture struct {
	Name         string  `yaml:"name"`
	Quantity     float64 `yaml:"quantity"`
	Price        string  `yaml:"price"`
	FoodCategory string  `yaml:"foodCategory"`
}

// MenuFixture names its recipes by title
type MenuFixture struct {
	Date    string   `yaml:"date"`
	Recipes []string `yaml:"recipes"`
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (*Fixtures, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var fixtures Fixtures
	if err := decoder.Decode(&fixtures); err != nil {
		if err == io.EOF {
			return &fixtures, nil
		}
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &fixtures, nil
}

// LoadFile parses the seed document at path
func LoadFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Summary counts what Apply created and what already existed
type Summary struct {
	FoodCategories int
	Recipes        int
	DailyMenus     int
	Skipped        int
}

// Seeder writes fixtures through the kitchen services
type Seeder struct {
	categories inbound.FoodCategoriesService
	recipes    inbound.RecipesService
	menus      inbound.DailyMenuService
	logger     *zap.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(categories inbound.FoodCategoriesService, recipes inbound.RecipesService, menus inbound.DailyMenuService, logger *zap.Logger) *Seeder {
	return &Seeder{
		categories: categories,
		recipes:    recipes,
		menus:      menus,
		logger:     logger.Named("seeder"),
	}
}

// Apply adds the fixtures. Categories and recipes are matched by name and
// title, menus by date; existing ones are skipped, so a file can be applied
// again after it grew.
func (s *Seeder) Apply(ctx context.Context, fixtures *Fixtures) (Summary, error) {
	var summary Summary

	categoryIDs, err := s.categoryIndex(ctx)
	if err != nil {
		return summary, err
	}
	for _, name := range fixtures.FoodCategories {
		key := strings.ToLower(name)
		if _, ok := categoryIDs[key]; ok {
			summary.Skipped++
			continue
		}
		category, err := s.categories.AddFoodCategory(ctx, name)
		if err != nil {
			return summary, fmt.Errorf("food category %q: %w", name, err)
		}
		categoryIDs[key] = category.ID
		summary.FoodCategories++
	}

	recipeIDs, err := s.recipeIndex(ctx)
	if err != nil {
		return summary, err
	}
	for _, fixture := range fixtures.Recipes {
		key := strings.ToLower(fixture.Title)
		if _, ok := recipeIDs[key]; ok {
			summary.Skipped++
			continue
		}
		recipe, err := s.addRecipe(ctx, fixture, categoryIDs)
		if err != nil {
			return summary, fmt.Errorf("recipe %q: %w", fixture.Title, err)
		}
		recipeIDs[key] = recipe.ID
		summary.Recipes++
	}

	menuDates, err := s.menuDates(ctx)
	if err != nil {
		return summary, err
	}
	for _, fixture := range fixtures.DailyMenus {
		date, err := time.ParseInLocation(dateLayout, fixture.Date, time.Local)
		if err != nil {
			return summary, fmt.Errorf("daily menu %q: date must be YYYY-MM-DD", fixture.Date)
		}
		if menuDates[date.Format(dateLayout)] {
			summary.Skipped++
			continue
		}

		ids := make([]uuid.UUID, 0, len(fixture.Recipes))
		for _, title := range fixture.Recipes {
			id, ok := recipeIDs[strings.ToLower(title)]
			if !ok {
				return summary, fmt.Errorf("daily menu %s: unknown recipe %q", fixture.Date, title)
			}
			ids = append(ids, id)
		}
		if _, err := s.menus.AddDailyMenu(ctx, date, ids); err != nil {
			return summary, fmt.Errorf("daily menu %s: %w", fixture.Date, err)
		}
		menuDates[fixture.Date] = true
		summary.DailyMenus++
	}

	s.logger.Info("Fixtures applied",
		zap.Int("food_categories", summary.FoodCategories),
		zap.Int("recipes", summary.Recipes),
		zap.Int("daily_menus", summary.DailyMenus),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (s *Seeder) addRecipe(ctx context.Context, fixture RecipeFixture, categoryIDs map[string]uuid.UUID) (*food.Recipe, error) {
	dishType, err := food.ParseDishType(fixture.DishType)
	if err != nil {
		return nil, err
	}

	n := len(fixture.Ingredients)
	names := make([]string, 0, n)
	quantities := make([]float64, 0, n)
	prices := make([]decimal.Decimal, 0, n)
	categories := make([]uuid.UUID, 0, n)
	for _, ingredient := range fixture.Ingredients {
		price, err := decimal.NewFromString(ingredient.Price)
		if err != nil {
			return nil, fmt.Errorf("ingredient %q: invalid price %q", ingredient.Name, ingredient.Price)
		}
		categoryID, ok := categoryIDs[strings.ToLower(ingredient.FoodCategory)]
		if !ok {
			return nil, fmt.Errorf("ingredient %q: unknown food category %q", ingredient.Name, ingredient.FoodCategory)
		}
		names = append(names, ingredient.Name)
		quantities = append(quantities, ingredient.Quantity)
		prices = append(prices, price)
		categories = append(categories, categoryID)
	}

	recipe := food.NewRecipe(fixture.Title, dishType)
	if err := s.recipes.AddRecipe(ctx, recipe, names, quantities, prices, categories); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *Seeder) categoryIndex(ctx context.Context) (map[string]uuid.UUID, error) {
	index := make(map[string]uuid.UUID)
	for category, err := range s.categories.GetAllFoodCategories(ctx) {
		if err != nil {
			return nil, err
		}
		index[strings.ToLower(category.Name)] = category.ID
	}
	return index, nil
}

func (s *Seeder) recipeIndex(ctx context.Context) (map[string]uuid.UUID, error) {
	index := make(map[string]uuid.UUID)
	for recipe, err := range s.recipes.GetAllRecipes(ctx) {
		if err != nil {
			return nil, err
		}
		index[strings.ToLower(recipe.Title)] = recipe.ID
	}
	return index, nil
}

func (s *Seeder) menuDates(ctx context.Context) (map[string]bool, error) {
	dates := make(map[string]bool)
	for menu, err := range s.menus.GetAllDailyMenus(ctx) {
		if err != nil {
			return nil, err
		}
		dates[menu.Date.Format(dateLayout)] = true
	}
	return dates, nil
}
