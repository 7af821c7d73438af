// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/domain/user"
)

// Entity is the set of kitchen entities a Repository can hold
type Entity interface {
	food.Recipe | food.Ingredient | food.FoodCategory | food.DailyMenu
}

// Repository is the generic data access contract over one entity type.
//
// Add, Update and Delete only stage a change; nothing reaches the store
// until the owning UnitOfWork commits. GetByID returns (nil, nil) when the
// record does not exist.
type Repository[T Entity] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	// GetAll streams every record in the store's natural order. The query
	// runs when the sequence is ranged over, not when GetAll is called.
	GetAll(ctx context.Context, opts ...QueryOption) iter.Seq2[*T, error]
	Add(entity *T)
	Update(entity *T)
	Delete(entity *T)
}

// QueryOptions controls eager loading of relations in GetAll
type QueryOptions struct {
	Preload []string
}

// QueryOption mutates QueryOptions
type QueryOption func(*QueryOptions)

// WithRelations eager-loads the named relations ("Recipe", "FoodCategory", "Ingredients", "Recipes")
func WithRelations(relations ...string) QueryOption {
	return func(o *QueryOptions) {
		o.Preload = append(o.Preload, relations...)
	}
}

// ApplyQueryOptions folds opts into a QueryOptions value
func ApplyQueryOptions(opts []QueryOption) QueryOptions {
	var o QueryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Has reports whether relation was requested
func (o QueryOptions) Has(relation string) bool {
	for _, r := range o.Preload {
		if r == relation {
			return true
		}
	}
	return false
}

// UnitOfWork is one logical operation's view of the store. Staged changes
// from every repository are flushed together, in staging order, by Commit.
type UnitOfWork interface {
	Recipes() Repository[food.Recipe]
	Ingredients() Repository[food.Ingredient]
	FoodCategories() Repository[food.FoodCategory]
	DailyMenus() Repository[food.DailyMenu]
	Commit(ctx context.Context) error
}

// Store opens units of work
type Store interface {
	Begin() UnitOfWork
}

// UserRepository defines the interface for account persistence
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// ToastType is the severity of a toast notification
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastInfo    ToastType = "info"
	ToastWarning ToastType = "warning"
	ToastError   ToastType = "error"
)

// Toast is a one-shot notification shown on the next rendered page
type Toast struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    ToastType `json:"type"`
}

// ToastStore queues toasts per browser session
type ToastStore interface {
	Push(ctx context.Context, sessionID string, toast Toast) error
	// Pop returns and clears every queued toast for the session
	Pop(ctx context.Context, sessionID string) ([]Toast, error)
}

// ToastTTL bounds how long an unread toast is kept
const ToastTTL = 10 * time.Minute
