package gorm

import (
	"context"
	"errors"
	"iter"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

// mapping binds a domain entity to its GORM model
type mapping[T outbound.Entity, M any] struct {
	id        func(*T) uuid.UUID
	toModel   func(*T) *M
	toEntity  func(*M) *T
	relations []string
	insert    func(tx *gorm.DB, model *M) error
	update    func(tx *gorm.DB, model *M) error
}

var recipeMapping = mapping[food.Recipe, RecipeModel]{
	id:        func(r *food.Recipe) uuid.UUID { return r.ID },
	toModel:   RecipeToModel,
	toEntity:  ModelToRecipe,
	relations: []string{"Ingredients"},
	insert:    insertRow[RecipeModel],
	update:    updateRow[RecipeModel],
}

var ingredientMapping = mapping[food.Ingredient, IngredientModel]{
	id:        func(i *food.Ingredient) uuid.UUID { return i.ID },
	toModel:   IngredientToModel,
	toEntity:  ModelToIngredient,
	relations: []string{"Recipe", "FoodCategory"},
	insert:    insertRow[IngredientModel],
	update:    updateRow[IngredientModel],
}

var categoryMapping = mapping[food.FoodCategory, FoodCategoryModel]{
	id:       func(c *food.FoodCategory) uuid.UUID { return c.ID },
	toModel:  FoodCategoryToModel,
	toEntity: ModelToFoodCategory,
	insert:   insertRow[FoodCategoryModel],
	update:   updateRow[FoodCategoryModel],
}

var menuMapping = mapping[food.DailyMenu, DailyMenuModel]{
	id:        func(m *food.DailyMenu) uuid.UUID { return m.ID },
	toModel:   DailyMenuToModel,
	toEntity:  ModelToDailyMenu,
	relations: []string{"Recipes"},
	insert: func(tx *gorm.DB, model *DailyMenuModel) error {
		if err := insertRow(tx, model); err != nil {
			return err
		}
		return replaceMenuRecipes(tx, model)
	},
	update: func(tx *gorm.DB, model *DailyMenuModel) error {
		if err := updateRow(tx, model); err != nil {
			return err
		}
		return replaceMenuRecipes(tx, model)
	},
}

func insertRow[M any](tx *gorm.DB, model *M) error {
	return tx.Omit(clause.Associations).Create(model).Error
}

// updateRow writes every column, zero values included, and fails when no
// live row matches the primary key.
func updateRow[M any](tx *gorm.DB, model *M) error {
	result := tx.Model(model).
		Select("*").
		Omit(clause.Associations, "created_at", "deleted_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func deleteRow[M any](tx *gorm.DB, model *M) error {
	result := tx.Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func replaceMenuRecipes(tx *gorm.DB, model *DailyMenuModel) error {
	if err := tx.Where("daily_menu_id = ?", model.ID).Delete(&DailyMenuRecipeModel{}).Error; err != nil {
		return err
	}
	if len(model.Recipes) == 0 {
		return nil
	}

	// a recipe is selected at most once per menu
	seen := make(map[uuid.UUID]bool, len(model.Recipes))
	rows := make([]DailyMenuRecipeModel, 0, len(model.Recipes))
	for _, recipe := range model.Recipes {
		if seen[recipe.ID] {
			continue
		}
		seen[recipe.ID] = true
		rows = append(rows, DailyMenuRecipeModel{DailyMenuID: model.ID, RecipeID: recipe.ID})
	}
	return tx.Create(&rows).Error
}

// repository is the GORM implementation of outbound.Repository. Entities it
// returns are tracked, so one unit of work sees one instance per id.
type repository[T outbound.Entity, M any] struct {
	uow     *UnitOfWork
	mapping mapping[T, M]
	tracked map[uuid.UUID]*T
}

func newRepository[T outbound.Entity, M any](uow *UnitOfWork, m mapping[T, M]) *repository[T, M] {
	return &repository[T, M]{uow: uow, mapping: m, tracked: make(map[uuid.UUID]*T)}
}

func (r *repository[T, M]) query(ctx context.Context, relations []string) *gorm.DB {
	db := r.uow.db.WithContext(ctx)
	for _, relation := range relations {
		if !r.supports(relation) {
			continue
		}
		if relation == "Ingredients" {
			db = db.Preload(relation, func(tx *gorm.DB) *gorm.DB {
				return tx.Order("created_at, id")
			})
			continue
		}
		db = db.Preload(relation)
	}
	return db
}

func (r *repository[T, M]) supports(relation string) bool {
	for _, known := range r.mapping.relations {
		if known == relation {
			return true
		}
	}
	return false
}

func (r *repository[T, M]) track(model *M) *T {
	entity := r.mapping.toEntity(model)
	id := r.mapping.id(entity)
	if tracked, ok := r.tracked[id]; ok {
		return tracked
	}
	r.tracked[id] = entity
	return entity
}

// GetByID loads the record with every relation of its type
func (r *repository[T, M]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	if entity, ok := r.tracked[id]; ok {
		return entity, nil
	}

	var model M
	err := r.query(ctx, r.mapping.relations).Where("id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.track(&model), nil
}

// GetAll pages through the table in creation order, one batch per round trip
func (r *repository[T, M]) GetAll(ctx context.Context, opts ...outbound.QueryOption) iter.Seq2[*T, error] {
	o := outbound.ApplyQueryOptions(opts)
	batchSize := r.uow.batchSize

	return func(yield func(*T, error) bool) {
		for offset := 0; ; offset += batchSize {
			var batch []*M
			err := r.query(ctx, o.Preload).
				Order("created_at, id").
				Offset(offset).
				Limit(batchSize).
				Find(&batch).Error
			if err != nil {
				yield(nil, err)
				return
			}

			for _, model := range batch {
				if !yield(r.track(model), nil) {
					return
				}
			}

			if len(batch) < batchSize {
				return
			}
		}
	}
}

func (r *repository[T, M]) Add(entity *T) {
	r.tracked[r.mapping.id(entity)] = entity
	r.uow.stage(func(tx *gorm.DB) error {
		return r.mapping.insert(tx, r.mapping.toModel(entity))
	})
}

func (r *repository[T, M]) Update(entity *T) {
	r.tracked[r.mapping.id(entity)] = entity
	r.uow.stage(func(tx *gorm.DB) error {
		return r.mapping.update(tx, r.mapping.toModel(entity))
	})
}

func (r *repository[T, M]) Delete(entity *T) {
	delete(r.tracked, r.mapping.id(entity))
	r.uow.stage(func(tx *gorm.DB) error {
		return deleteRow(tx, r.mapping.toModel(entity))
	})
}
