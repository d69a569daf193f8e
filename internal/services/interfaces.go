// Package services implements the application use cases on top of the
// repository ports.
package services

import (
	"context"
	"time"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/query"
)

// OrderService exposes the order lifecycle use cases.
type OrderService interface {
	// ListOrders returns one page of orders described by the filter.
	ListOrders(ctx context.Context, q query.OrderQuery) (domain.Page[domain.Order], error)

	// GetOrder loads a single order. Malformed identifiers behave like
	// missing orders.
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)

	// UpdateStatus validates and applies a status transition.
	UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (domain.Order, error)
}

// UpdateOrderStatusCommand carries an admin-initiated status transition.
type UpdateOrderStatusCommand struct {
	OrderID string
	Status  domain.OrderStatus
	ActorID string
}

// OrderStatusChangedEvent is emitted after a successful transition.
type OrderStatusChangedEvent struct {
	OrderID        string             `json:"orderId"`
	PreviousStatus domain.OrderStatus `json:"previousStatus"`
	NewStatus      domain.OrderStatus `json:"newStatus"`
	ChangedBy      string             `json:"changedBy,omitempty"`
	OccurredAt     time.Time          `json:"occurredAt"`
}

// OrderEventPublisher publishes order lifecycle events for downstream consumers.
type OrderEventPublisher interface {
	PublishStatusChanged(ctx context.Context, event OrderStatusChangedEvent) (string, error)
}

// CatalogService exposes the public catalogue and its admin management surface.
type CatalogService interface {
	ListProducts(ctx context.Context, q query.ProductQuery) (domain.Page[domain.Product], error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, categoryID string) (domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error)

	CreateProduct(ctx context.Context, cmd ProductCommand) (domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, cmd ProductCommand) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error

	CreateCategory(ctx context.Context, cmd CategoryCommand) (domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, cmd CategoryCommand) (domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
}

// ProductCommand carries the writable product fields for create and update.
type ProductCommand struct {
	Name         string
	Description  string
	Price        float64
	SalePrice    *float64
	CategoryID   string
	Images       []string
	WeightOrSize string
	Stock        int
}

// CategoryCommand carries the writable category fields for create and update.
type CategoryCommand struct {
	Name        string
	Description string
}

// AccountService exposes registration, login, and profile lookup.
type AccountService interface {
	Register(ctx context.Context, cmd RegisterCommand) (AuthResult, error)
	Login(ctx context.Context, cmd LoginCommand) (AuthResult, error)
	GetProfile(ctx context.Context, userID string) (domain.User, error)
}

// RegisterCommand carries a new account registration.
type RegisterCommand struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginCommand carries a login attempt.
type LoginCommand struct {
	Email    string
	Password string
}

// AuthResult bundles the authenticated user with a freshly minted token.
type AuthResult struct {
	User  domain.User
	Token string
}
