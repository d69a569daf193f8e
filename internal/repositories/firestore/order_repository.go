// Package firestore contains the Cloud Firestore implementations of the
// repository ports.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/tridala-nutra/api/internal/domain"
	pfirestore "github.com/tridala-nutra/api/internal/platform/firestore"
	"github.com/tridala-nutra/api/internal/query"
	"github.com/tridala-nutra/api/internal/repositories"
)

const ordersCollection = "orders"

// OrderRepository is the Firestore-backed order store.
type OrderRepository struct {
	provider   *pfirestore.Provider
	collection *pfirestore.Collection[orderDocument]
}

// NewOrderRepository constructs a Firestore-backed order repository.
func NewOrderRepository(provider *pfirestore.Provider) (*OrderRepository, error) {
	if provider == nil {
		return nil, errors.New("order repository: firestore provider is required")
	}
	return &OrderRepository{
		provider:   provider,
		collection: pfirestore.NewCollection[orderDocument](provider, ordersCollection),
	}, nil
}

// List returns one page of orders matching the filter descriptor together
// with the total match count.
func (r *OrderRepository) List(ctx context.Context, q query.OrderQuery) (domain.Page[domain.Order], error) {
	if r == nil || r.collection == nil {
		return domain.Page[domain.Order]{}, errors.New("order repository not initialised")
	}

	// An exact-id search short-circuits the query path entirely.
	if q.OrderID != "" {
		page := domain.Page[domain.Order]{Page: q.Page, Limit: q.Limit}
		doc, err := r.collection.Get(ctx, q.OrderID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return page, nil
			}
			return domain.Page[domain.Order]{}, err
		}
		order := decodeOrderDocument(doc.ID, doc.Data)
		if !orderMatchesQuery(order, q) {
			return page, nil
		}
		page.Total = 1
		if q.Offset() == 0 {
			page.Items = []domain.Order{order}
		}
		return page, nil
	}

	filter := func(fq firestore.Query) firestore.Query {
		if q.Status != nil {
			fq = fq.Where("status", "==", string(*q.Status))
		}
		if q.CreatedAt.From != nil {
			fq = fq.Where("createdAt", ">=", q.CreatedAt.From.UTC())
		}
		if q.CreatedAt.To != nil {
			fq = fq.Where("createdAt", "<=", q.CreatedAt.To.UTC())
		}
		return fq
	}

	total, err := r.collection.Count(ctx, filter)
	if err != nil {
		return domain.Page[domain.Order]{}, err
	}

	docs, err := r.collection.Query(ctx, func(fq firestore.Query) firestore.Query {
		fq = filter(fq)
		fq = fq.OrderBy(orderSortField(q.Sort.Field), direction(q.Sort.Order))
		return fq.Offset(q.Offset()).Limit(q.Limit)
	})
	if err != nil {
		return domain.Page[domain.Order]{}, err
	}

	items := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		items = append(items, decodeOrderDocument(doc.ID, doc.Data))
	}
	return domain.Page[domain.Order]{
		Items: items,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}, nil
}

// FindByID loads a single order by its identifier.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	if r == nil || r.collection == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}
	doc, err := r.collection.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Order{}, err
	}
	return decodeOrderDocument(doc.ID, doc.Data), nil
}

// Insert stores a new order document.
func (r *OrderRepository) Insert(ctx context.Context, order domain.Order) error {
	if r == nil || r.collection == nil {
		return errors.New("order repository not initialised")
	}
	order.ID = strings.TrimSpace(order.ID)
	if order.ID == "" {
		return errors.New("order repository: id is required")
	}
	return r.collection.Create(ctx, order.ID, encodeOrderDocument(order))
}

// UpdateStatus moves the order to the target status inside a transaction,
// aborting with a conflict when the stored status no longer matches from.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, updatedAt time.Time) (domain.Order, error) {
	if r == nil || r.collection == nil {
		return domain.Order{}, errors.New("order repository not initialised")
	}

	ref, err := r.collection.Ref(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Order{}, err
	}

	var updated domain.Order
	err = r.provider.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if err != nil {
			return err
		}
		doc, err := pfirestore.Decode[orderDocument](snapshot)
		if err != nil {
			return err
		}
		if doc.Data.Status != string(from) {
			return pfirestore.NewError("orders.update_status", pfirestore.KindConflict,
				fmt.Errorf("order status changed concurrently: have %s, expected %s", doc.Data.Status, from))
		}

		if err := tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(to)},
			{Path: "updatedAt", Value: updatedAt.UTC()},
		}); err != nil {
			return err
		}

		updated = decodeOrderDocument(doc.ID, doc.Data)
		updated.Status = to
		updated.UpdatedAt = updatedAt.UTC()
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

// orderMatchesQuery applies the descriptor predicates to an order fetched
// outside the query builder, keeping the exact-id path consistent with it.
func orderMatchesQuery(order domain.Order, q query.OrderQuery) bool {
	if q.Status != nil && order.Status != *q.Status {
		return false
	}
	if q.CreatedAt.From != nil && order.CreatedAt.Before(q.CreatedAt.From.UTC()) {
		return false
	}
	if q.CreatedAt.To != nil && order.CreatedAt.After(q.CreatedAt.To.UTC()) {
		return false
	}
	return true
}

func orderSortField(field string) string {
	// Orders carry no name or stock field; everything outside the whitelist
	// falls back to creation time.
	switch field {
	case "price":
		return "totalAmount"
	case "createdAt":
		return "createdAt"
	default:
		return "createdAt"
	}
}

func direction(order domain.SortOrder) firestore.Direction {
	if order == domain.SortAsc {
		return firestore.Asc
	}
	return firestore.Desc
}

type orderDocument struct {
	UserID        string              `firestore:"userId"`
	Items         []orderItemDocument `firestore:"items"`
	TotalAmount   float64             `firestore:"totalAmount"`
	Status        string              `firestore:"status"`
	PaymentMethod string              `firestore:"paymentMethod"`
	PaymentStatus string              `firestore:"paymentStatus"`
	Shipping      addressDocument     `firestore:"shippingAddress"`
	TrackingID    string              `firestore:"trackingId,omitempty"`
	Notes         string              `firestore:"notes,omitempty"`
	CreatedAt     time.Time           `firestore:"createdAt"`
	UpdatedAt     time.Time           `firestore:"updatedAt"`
}

type orderItemDocument struct {
	ProductID   string  `firestore:"productId"`
	ProductName string  `firestore:"productName"`
	Quantity    int     `firestore:"quantity"`
	UnitPrice   float64 `firestore:"unitPrice"`
	Image       string  `firestore:"image,omitempty"`
}

type addressDocument struct {
	FullName   string `firestore:"fullName"`
	Phone      string `firestore:"phone"`
	Street     string `firestore:"street"`
	City       string `firestore:"city"`
	State      string `firestore:"state"`
	PostalCode string `firestore:"postalCode"`
	Country    string `firestore:"country"`
}

func encodeOrderDocument(order domain.Order) orderDocument {
	items := make([]orderItemDocument, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemDocument{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Image:       item.Image,
		})
	}
	return orderDocument{
		UserID:        order.UserID,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentStatus),
		Shipping:      addressDocument(order.Shipping),
		TrackingID:    order.TrackingID,
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt.UTC(),
		UpdatedAt:     order.UpdatedAt.UTC(),
	}
}

func decodeOrderDocument(id string, doc orderDocument) domain.Order {
	items := make([]domain.OrderItem, 0, len(doc.Items))
	for _, item := range doc.Items {
		items = append(items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Image:       item.Image,
		})
	}
	return domain.Order{
		ID:            id,
		UserID:        doc.UserID,
		Items:         items,
		TotalAmount:   doc.TotalAmount,
		Status:        domain.OrderStatus(doc.Status),
		PaymentMethod: domain.PaymentMethod(doc.PaymentMethod),
		PaymentStatus: domain.PaymentStatus(doc.PaymentStatus),
		Shipping:      domain.Address(doc.Shipping),
		TrackingID:    doc.TrackingID,
		Notes:         doc.Notes,
		CreatedAt:     doc.CreatedAt.UTC(),
		UpdatedAt:     doc.UpdatedAt.UTC(),
	}
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)
