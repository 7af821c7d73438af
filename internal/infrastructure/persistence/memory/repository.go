package memory

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

// kind describes how one entity type is stored and read back.
type kind[T outbound.Entity] struct {
	id        func(*T) uuid.UUID
	table     func(*state) *table[T]
	relations []string
	// row strips relations so the stored value holds only its own columns
	row func(*T) *T
	// hydrate returns a caller-owned copy with the requested relations
	hydrate func(*state, *T, outbound.QueryOptions) *T
}

var recipeKind = kind[food.Recipe]{
	id:        func(r *food.Recipe) uuid.UUID { return r.ID },
	table:     func(s *state) *table[food.Recipe] { return s.recipes },
	relations: []string{"Ingredients"},
	row: func(r *food.Recipe) *food.Recipe {
		c := *r
		c.Ingredients = nil
		return &c
	},
	hydrate: func(s *state, row *food.Recipe, o outbound.QueryOptions) *food.Recipe {
		c := *row
		if o.Has("Ingredients") {
			for _, id := range s.ingredients.order {
				ingredient := s.ingredients.rows[id]
				if ingredient.RecipeID == row.ID {
					ic := *ingredient
					c.Ingredients = append(c.Ingredients, &ic)
				}
			}
		}
		return &c
	},
}

var ingredientKind = kind[food.Ingredient]{
	id:        func(i *food.Ingredient) uuid.UUID { return i.ID },
	table:     func(s *state) *table[food.Ingredient] { return s.ingredients },
	relations: []string{"Recipe", "FoodCategory"},
	row: func(i *food.Ingredient) *food.Ingredient {
		c := *i
		c.Recipe = nil
		c.FoodCategory = nil
		return &c
	},
	hydrate: func(s *state, row *food.Ingredient, o outbound.QueryOptions) *food.Ingredient {
		c := *row
		if recipe, ok := s.recipes.get(row.RecipeID); ok && o.Has("Recipe") {
			rc := *recipe
			c.Recipe = &rc
		}
		if category, ok := s.categories.get(row.FoodCategoryID); ok && o.Has("FoodCategory") {
			cc := *category
			c.FoodCategory = &cc
		}
		return &c
	},
}

var categoryKind = kind[food.FoodCategory]{
	id:    func(c *food.FoodCategory) uuid.UUID { return c.ID },
	table: func(s *state) *table[food.FoodCategory] { return s.categories },
	row: func(c *food.FoodCategory) *food.FoodCategory {
		cc := *c
		return &cc
	},
	hydrate: func(_ *state, row *food.FoodCategory, _ outbound.QueryOptions) *food.FoodCategory {
		c := *row
		return &c
	},
}

var menuKind = kind[food.DailyMenu]{
	id:        func(m *food.DailyMenu) uuid.UUID { return m.ID },
	table:     func(s *state) *table[food.DailyMenu] { return s.menus },
	relations: []string{"Recipes"},
	row: func(m *food.DailyMenu) *food.DailyMenu {
		c := *m
		c.Recipes = make([]*food.Recipe, 0, len(m.Recipes))
		seen := make(map[uuid.UUID]bool, len(m.Recipes))
		for _, recipe := range m.Recipes {
			if seen[recipe.ID] {
				continue
			}
			seen[recipe.ID] = true
			c.Recipes = append(c.Recipes, &food.Recipe{ID: recipe.ID})
		}
		return &c
	},
	hydrate: func(s *state, row *food.DailyMenu, o outbound.QueryOptions) *food.DailyMenu {
		c := *row
		c.Recipes = nil
		if o.Has("Recipes") {
			for _, ref := range row.Recipes {
				if recipe, ok := s.recipes.get(ref.ID); ok {
					rc := *recipe
					c.Recipes = append(c.Recipes, &rc)
				}
			}
		}
		return &c
	},
}

// repository tracks every entity it hands out, so repeated reads of the
// same id inside one unit of work share an instance.
type repository[T outbound.Entity] struct {
	uow     *UnitOfWork
	kind    kind[T]
	tracked map[uuid.UUID]*T
}

func newRepository[T outbound.Entity](uow *UnitOfWork, k kind[T]) *repository[T] {
	return &repository[T]{uow: uow, kind: k, tracked: make(map[uuid.UUID]*T)}
}

func (r *repository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if entity, ok := r.tracked[id]; ok {
		return entity, nil
	}

	s := r.uow.store.snapshot()
	row, ok := r.kind.table(s).get(id)
	if !ok {
		return nil, nil
	}

	entity := r.kind.hydrate(s, row, outbound.QueryOptions{Preload: r.kind.relations})
	r.tracked[id] = entity
	return entity, nil
}

func (r *repository[T]) GetAll(ctx context.Context, opts ...outbound.QueryOption) iter.Seq2[*T, error] {
	o := outbound.ApplyQueryOptions(opts)
	return func(yield func(*T, error) bool) {
		s := r.uow.store.snapshot()
		t := r.kind.table(s)
		for _, id := range t.order {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			entity, ok := r.tracked[id]
			if !ok {
				entity = r.kind.hydrate(s, t.rows[id], o)
				r.tracked[id] = entity
			}
			if !yield(entity, nil) {
				return
			}
		}
	}
}

func (r *repository[T]) Add(entity *T) {
	id := r.kind.id(entity)
	r.tracked[id] = entity
	r.uow.stage(func(s *state) error {
		return r.kind.table(s).insert(id, r.kind.row(entity))
	})
}

func (r *repository[T]) Update(entity *T) {
	id := r.kind.id(entity)
	r.tracked[id] = entity
	r.uow.stage(func(s *state) error {
		return r.kind.table(s).replace(id, r.kind.row(entity))
	})
}

func (r *repository[T]) Delete(entity *T) {
	id := r.kind.id(entity)
	delete(r.tracked, id)
	r.uow.stage(func(s *state) error {
		return r.kind.table(s).remove(id)
	})
}
