package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

const defaultBatchSize = 100

// Store implements outbound.Store over a GORM connection
type Store struct {
	db        *gorm.DB
	batchSize int
}

// NewStore creates a new relational store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, batchSize: defaultBatchSize}
}

// WithBatchSize sets how many rows GetAll fetches per round trip
func (s *Store) WithBatchSize(size int) *Store {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

// Begin opens a unit of work. Reads run immediately against the
// connection; writes are buffered until Commit.
func (s *Store) Begin() outbound.UnitOfWork {
	u := &UnitOfWork{db: s.db, batchSize: s.batchSize}
	u.recipes = newRepository(u, recipeMapping)
	u.ingredients = newRepository(u, ingredientMapping)
	u.categories = newRepository(u, categoryMapping)
	u.menus = newRepository(u, menuMapping)
	return u
}

// UnitOfWork buffers staged writes and flushes them in one transaction
type UnitOfWork struct {
	db          *gorm.DB
	batchSize   int
	ops         []func(tx *gorm.DB) error
	recipes     *repository[food.Recipe, RecipeModel]
	ingredients *repository[food.Ingredient, IngredientModel]
	categories  *repository[food.FoodCategory, FoodCategoryModel]
	menus       *repository[food.DailyMenu, DailyMenuModel]
}

func (u *UnitOfWork) Recipes() outbound.Repository[food.Recipe]             { return u.recipes }
func (u *UnitOfWork) Ingredients() outbound.Repository[food.Ingredient]     { return u.ingredients }
func (u *UnitOfWork) FoodCategories() outbound.Repository[food.FoodCategory] { return u.categories }
func (u *UnitOfWork) DailyMenus() outbound.Repository[food.DailyMenu]       { return u.menus }

// Commit runs every staged operation, in staging order, inside one
// transaction. The buffer is cleared whether or not the commit succeeds.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	ops := u.ops
	u.ops = nil

	if len(ops) == 0 {
		return ctx.Err()
	}

	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, op := range ops {
			if err := op(tx); err != nil {
				return fmt.Errorf("commit operation %d: %w", i, err)
			}
		}
		return nil
	})
}

func (u *UnitOfWork) stage(op func(tx *gorm.DB) error) {
	u.ops = append(u.ops, op)
}
