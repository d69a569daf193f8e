package domain

import "time"

// SortOrder indicates ascending or descending ordering for list queries.
type SortOrder string

const (
	// SortAsc sorts results in ascending order.
	SortAsc SortOrder = "asc"
	// SortDesc sorts results in descending order.
	SortDesc SortOrder = "desc"
)

// RangeQuery represents inclusive range filters for numeric or timestamp fields.
type RangeQuery[T comparable] struct {
	From *T
	To   *T
}

// Page is a single page of results together with the collection-wide totals
// needed to render offset pagination.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// Pages returns the total page count, ceil(Total/Limit).
func (p Page[T]) Pages() int64 {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + int64(p.Limit) - 1) / int64(p.Limit)
}

// Address is the flat shipping address record attached to an order.
type Address struct {
	FullName   string
	Phone      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// OrderItem is a single line item: a product reference with a snapshot of
// the name and unit price at purchase time.
type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	Image       string
}

// Order is the order aggregate as stored. The lifecycle service mutates only
// Status and UpdatedAt; everything else is owned by the persistence layer.
type Order struct {
	ID            string
	UserID        string
	Items         []OrderItem
	TotalAmount   float64
	Status        OrderStatus
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	Shipping      Address
	TrackingID    string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CategorySummary is the populated shape of a category reference on a
// product: just enough for listings and navigation.
type CategorySummary struct {
	ID   string
	Name string
	Slug string
}

// Category groups products for browsing.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product is a catalogue entry. Category holds the raw reference; listings
// carry the populated summary alongside.
type Product struct {
	ID           string
	Name         string
	Slug         string
	Description  string
	Price        float64
	SalePrice    *float64
	CategoryID   string
	Category     *CategorySummary
	Images       []string
	WeightOrSize string
	Stock        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRole partitions callers into regular customers and administrators.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is an account record. PasswordHash never leaves the services layer.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         UserRole
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
