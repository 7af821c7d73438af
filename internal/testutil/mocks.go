// Package testutil provides mock implementations of the outbound ports and
// test data factories shared by package tests
package testutil

import (
	"context"
	"iter"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/domain/user"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

// MockStore provides a mock implementation of outbound.Store
type MockStore struct {
	mock.Mock
}

// Begin returns the unit of work configured with On("Begin")
func (m *MockStore) Begin() outbound.UnitOfWork {
	args := m.Called()
	return args.Get(0).(outbound.UnitOfWork)
}

// MockUnitOfWork provides a mock implementation of outbound.UnitOfWork
// whose repositories are themselves mocks
type MockUnitOfWork struct {
	mock.Mock
	RecipeRepo     *MockRepository[food.Recipe]
	IngredientRepo *MockRepository[food.Ingredient]
	CategoryRepo   *MockRepository[food.FoodCategory]
	MenuRepo       *MockRepository[food.DailyMenu]
}

// NewMockUnitOfWork creates a unit of work with empty repository mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		RecipeRepo:     &MockRepository[food.Recipe]{},
		IngredientRepo: &MockRepository[food.Ingredient]{},
		CategoryRepo:   &MockRepository[food.FoodCategory]{},
		MenuRepo:       &MockRepository[food.DailyMenu]{},
	}
}

func (m *MockUnitOfWork) Recipes() outbound.Repository[food.Recipe]             { return m.RecipeRepo }
func (m *MockUnitOfWork) Ingredients() outbound.Repository[food.Ingredient]     { return m.IngredientRepo }
func (m *MockUnitOfWork) FoodCategories() outbound.Repository[food.FoodCategory] { return m.CategoryRepo }
func (m *MockUnitOfWork) DailyMenus() outbound.Repository[food.DailyMenu]       { return m.MenuRepo }

// Commit records the call
func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// AssertExpectations checks the unit of work and every repository mock
func (m *MockUnitOfWork) AssertExpectations(t mock.TestingT) bool {
	return m.Mock.AssertExpectations(t) &&
		m.RecipeRepo.AssertExpectations(t) &&
		m.IngredientRepo.AssertExpectations(t) &&
		m.CategoryRepo.AssertExpectations(t) &&
		m.MenuRepo.AssertExpectations(t)
}

// MockRepository provides a mock implementation of outbound.Repository
type MockRepository[T outbound.Entity] struct {
	mock.Mock
}

func (m *MockRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, id)
	entity, _ := args.Get(0).(*T)
	return entity, args.Error(1)
}

// GetAll yields the []*T configured as the first return value
func (m *MockRepository[T]) GetAll(ctx context.Context, opts ...outbound.QueryOption) iter.Seq2[*T, error] {
	args := m.Called(ctx, outbound.ApplyQueryOptions(opts))
	items, _ := args.Get(0).([]*T)
	err := args.Error(1)
	return func(yield func(*T, error) bool) {
		if err != nil {
			yield(nil, err)
			return
		}
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

func (m *MockRepository[T]) Add(entity *T)    { m.Called(entity) }
func (m *MockRepository[T]) Update(entity *T) { m.Called(entity) }
func (m *MockRepository[T]) Delete(entity *T) { m.Called(entity) }

// MockUserRepository provides a mock implementation of outbound.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
