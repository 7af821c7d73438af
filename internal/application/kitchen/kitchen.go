// Package kitchen provides the application layer of the back office: the
// ingredient, recipe, food category and daily menu use cases.
//
// Every public operation opens its own unit of work and commits it at most
// once. Helpers that take a unit of work stage into the caller's and leave
// the commit to it.
package kitchen

import (
	"context"
	"iter"
	"strings"

	"github.com/homemadefood/backoffice/internal/ports/outbound"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

// filter lazily keeps the items of seq that match. Errors pass through.
func filter[T any](seq iter.Seq2[*T, error], keep func(*T) bool) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		for item, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			if keep(item) && !yield(item, nil) {
				return
			}
		}
	}
}

func containsFold(s, fragment string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(fragment))
}

func commit(ctx context.Context, uow outbound.UnitOfWork, operation string) error {
	if err := uow.Commit(ctx); err != nil {
		return apperrors.NewDatabaseError(operation, err)
	}
	return nil
}
