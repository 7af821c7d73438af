// Package memory provides the in-process persistence behind the "memory"
// database driver: an outbound.Store and a user repository. Nothing survives
// a restart.
//
// Committed data lives in an immutable snapshot. Commit copies the current
// snapshot, applies the staged operations to the copy and publishes it, so
// readers never take a lock and a failed commit leaves nothing behind.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

var (
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrRecordNotFound = errors.New("record not found")
)

// Store is an in-memory implementation of outbound.Store
type Store struct {
	current atomic.Pointer[state]
	writeMu sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{}
	s.current.Store(newState())
	return s
}

// Begin opens a unit of work against the store
func (s *Store) Begin() outbound.UnitOfWork {
	u := &UnitOfWork{store: s}
	u.recipes = newRepository(u, recipeKind)
	u.ingredients = newRepository(u, ingredientKind)
	u.categories = newRepository(u, categoryKind)
	u.menus = newRepository(u, menuKind)
	return u
}

func (s *Store) snapshot() *state {
	return s.current.Load()
}

// UnitOfWork stages changes until Commit
type UnitOfWork struct {
	store       *Store
	ops         []func(*state) error
	recipes     *repository[food.Recipe]
	ingredients *repository[food.Ingredient]
	categories  *repository[food.FoodCategory]
	menus       *repository[food.DailyMenu]
}

func (u *UnitOfWork) Recipes() outbound.Repository[food.Recipe]             { return u.recipes }
func (u *UnitOfWork) Ingredients() outbound.Repository[food.Ingredient]     { return u.ingredients }
func (u *UnitOfWork) FoodCategories() outbound.Repository[food.FoodCategory] { return u.categories }
func (u *UnitOfWork) DailyMenus() outbound.Repository[food.DailyMenu]       { return u.menus }

// Commit applies every staged operation in staging order as one atomic step.
// The staging buffer is cleared whether or not the commit succeeds.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	ops := u.ops
	u.ops = nil

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ops) == 0 {
		return nil
	}

	u.store.writeMu.Lock()
	defer u.store.writeMu.Unlock()

	next := u.store.snapshot().clone()
	for i, op := range ops {
		if err := op(next); err != nil {
			return fmt.Errorf("commit operation %d: %w", i, err)
		}
	}
	u.store.current.Store(next)
	return nil
}

func (u *UnitOfWork) stage(op func(*state) error) {
	u.ops = append(u.ops, op)
}

type state struct {
	recipes     *table[food.Recipe]
	ingredients *table[food.Ingredient]
	categories  *table[food.FoodCategory]
	menus       *table[food.DailyMenu]
}

func newState() *state {
	return &state{
		recipes:     newTable[food.Recipe](),
		ingredients: newTable[food.Ingredient](),
		categories:  newTable[food.FoodCategory](),
		menus:       newTable[food.DailyMenu](),
	}
}

func (s *state) clone() *state {
	return &state{
		recipes:     s.recipes.clone(),
		ingredients: s.ingredients.clone(),
		categories:  s.categories.clone(),
		menus:       s.menus.clone(),
	}
}

// table keeps rows in insertion order, which is the store's natural order.
type table[T any] struct {
	order []uuid.UUID
	rows  map[uuid.UUID]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]*T)}
}

func (t *table[T]) clone() *table[T] {
	c := &table[T]{
		order: make([]uuid.UUID, len(t.order)),
		rows:  make(map[uuid.UUID]*T, len(t.rows)),
	}
	copy(c.order, t.order)
	for id, row := range t.rows {
		c.rows[id] = row
	}
	return c
}

func (t *table[T]) get(id uuid.UUID) (*T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) insert(id uuid.UUID, row *T) error {
	if _, exists := t.rows[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, id)
	}
	t.rows[id] = row
	t.order = append(t.order, id)
	return nil
}

func (t *table[T]) replace(id uuid.UUID, row *T) error {
	if _, exists := t.rows[id]; !exists {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	t.rows[id] = row
	return nil
}

func (t *table[T]) remove(id uuid.UUID) error {
	if _, exists := t.rows[id]; !exists {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}
