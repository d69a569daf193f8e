// Package repositories defines the persistence ports consumed by the
// services layer together with the error contract their implementations
// must honour.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/query"
)

// RepositoryError lets callers branch on storage failure semantics without
// depending on a concrete backend.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

// IsConflict reports whether err represents a lost write race or duplicate.
func IsConflict(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsConflict()
}

// IsUnavailable reports whether err represents a transient backend outage.
func IsUnavailable(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsUnavailable()
}

// OrderRepository persists order aggregates.
type OrderRepository interface {
	// List returns one page of orders matching the filter descriptor along
	// with the total match count.
	List(ctx context.Context, q query.OrderQuery) (domain.Page[domain.Order], error)

	FindByID(ctx context.Context, id string) (domain.Order, error)

	Insert(ctx context.Context, order domain.Order) error

	// UpdateStatus conditionally moves the order from the previously read
	// status to the target status. Implementations must fail with a conflict
	// when the stored status no longer equals from.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, updatedAt time.Time) (domain.Order, error)
}

// ProductRepository persists catalogue products.
type ProductRepository interface {
	List(ctx context.Context, q query.ProductQuery) (domain.Page[domain.Product], error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (domain.Product, error)
	// SlugTaken reports whether another product (excluding excludeID) already
	// owns the slug.
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	Insert(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository persists product categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id string) (domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (domain.Category, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	Insert(ctx context.Context, category domain.Category) error
	Update(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, id string) error
}

// UserRepository persists account records.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Insert(ctx context.Context, user domain.User) error
}
