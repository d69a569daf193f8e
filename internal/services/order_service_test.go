package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/query"
	"github.com/tridala-nutra/api/internal/repositories"
)

type stubRepoError struct {
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e *stubRepoError) Error() string       { return "stub repository error" }
func (e *stubRepoError) IsNotFound() bool    { return e.notFound }
func (e *stubRepoError) IsConflict() bool    { return e.conflict }
func (e *stubRepoError) IsUnavailable() bool { return e.unavailable }

type stubOrderRepository struct {
	listFn         func(ctx context.Context, q query.OrderQuery) (domain.Page[domain.Order], error)
	findByIDFn     func(ctx context.Context, id string) (domain.Order, error)
	insertFn       func(ctx context.Context, order domain.Order) error
	updateStatusFn func(ctx context.Context, id string, from, to domain.OrderStatus, updatedAt time.Time) (domain.Order, error)
}

func (s *stubOrderRepository) List(ctx context.Context, q query.OrderQuery) (domain.Page[domain.Order], error) {
	return s.listFn(ctx, q)
}

func (s *stubOrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubOrderRepository) Insert(ctx context.Context, order domain.Order) error {
	return s.insertFn(ctx, order)
}

func (s *stubOrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, updatedAt time.Time) (domain.Order, error) {
	return s.updateStatusFn(ctx, id, from, to, updatedAt)
}

var _ repositories.OrderRepository = (*stubOrderRepository)(nil)

type capturingPublisher struct {
	mu     sync.Mutex
	events []OrderStatusChangedEvent
	err    error
}

func (p *capturingPublisher) PublishStatusChanged(_ context.Context, event OrderStatusChangedEvent) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.events = append(p.events, event)
	return "msg-1", nil
}

func testOrder(id string, status domain.OrderStatus) domain.Order {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.Order{
		ID:            id,
		UserID:        "usr_01J8ZQ3V9GJ5X2M4T6R8W0YBCD",
		Status:        status,
		TotalAmount:   1499,
		PaymentMethod: domain.PaymentMethodCOD,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func newTestOrderService(t *testing.T, repo repositories.OrderRepository, events OrderEventPublisher, now time.Time) OrderService {
	t.Helper()
	svc, err := NewOrderService(OrderServiceDeps{
		Orders: repo,
		Events: events,
		Clock:  func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewOrderService returned error: %v", err)
	}
	return svc
}

func TestUpdateStatusAppliesValidTransition(t *testing.T) {
	orderID := domain.NewID(domain.OrderIDPrefix)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	stored := testOrder(orderID, domain.OrderStatusPending)

	repo := &stubOrderRepository{
		findByIDFn: func(_ context.Context, id string) (domain.Order, error) {
			if id != orderID {
				t.Fatalf("unexpected id %q", id)
			}
			return stored, nil
		},
		updateStatusFn: func(_ context.Context, id string, from, to domain.OrderStatus, updatedAt time.Time) (domain.Order, error) {
			if from != domain.OrderStatusPending || to != domain.OrderStatusProcessing {
				t.Fatalf("unexpected transition %s -> %s", from, to)
			}
			updated := stored
			updated.Status = to
			updated.UpdatedAt = updatedAt
			return updated, nil
		},
	}
	publisher := &capturingPublisher{}
	svc := newTestOrderService(t, repo, publisher, now)

	updated, err := svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{
		OrderID: orderID,
		Status:  domain.OrderStatusProcessing,
		ActorID: "usr_admin",
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != domain.OrderStatusProcessing {
		t.Errorf("Status = %s, want processing", updated.Status)
	}
	if !updated.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt, now)
	}
	if !updated.UpdatedAt.After(stored.UpdatedAt) {
		t.Error("UpdatedAt should advance past the stored timestamp")
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.PreviousStatus != domain.OrderStatusPending || event.NewStatus != domain.OrderStatusProcessing {
		t.Errorf("unexpected event %+v", event)
	}
	if event.ChangedBy != "usr_admin" {
		t.Errorf("ChangedBy = %q, want usr_admin", event.ChangedBy)
	}
}

func TestUpdateStatusRejectsSkippedStep(t *testing.T) {
	orderID := domain.NewID(domain.OrderIDPrefix)
	repo := &stubOrderRepository{
		findByIDFn: func(_ context.Context, _ string) (domain.Order, error) {
			return testOrder(orderID, domain.OrderStatusPending), nil
		},
		updateStatusFn: func(_ context.Context, _ string, _, _ domain.OrderStatus, _ time.Time) (domain.Order, error) {
			t.Fatal("UpdateStatus should not reach the repository")
			return domain.Order{}, nil
		},
	}
	svc := newTestOrderService(t, repo, nil, time.Now())

	_, err := svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{
		OrderID: orderID,
		Status:  domain.OrderStatusShipped,
	})
	if !errors.Is(err, ErrOrderInvalidTransition) {
		t.Fatalf("expected ErrOrderInvalidTransition, got %v", err)
	}
	if !strings.Contains(err.Error(), "Pending") || !strings.Contains(err.Error(), "Shipped") {
		t.Errorf("error should name both statuses, got %q", err.Error())
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestOrderService(t, &stubOrderRepository{
		findByIDFn: func(_ context.Context, _ string) (domain.Order, error) {
			t.Fatal("repository should not be consulted for an unknown status")
			return domain.Order{}, nil
		},
	}, nil, time.Now())

	_, err := svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{
		OrderID: domain.NewID(domain.OrderIDPrefix),
		Status:  "in_production",
	})
	if !errors.Is(err, ErrOrderInvalidInput) {
		t.Fatalf("expected ErrOrderInvalidInput, got %v", err)
	}
}

func TestUpdateStatusRejectsMalformedID(t *testing.T) {
	svc := newTestOrderService(t, &stubOrderRepository{
		findByIDFn: func(_ context.Context, _ string) (domain.Order, error) {
			t.Fatal("repository should not be consulted for a malformed id")
			return domain.Order{}, nil
		},
	}, nil, time.Now())

	_, err := svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{
		OrderID: "not-an-order-id",
		Status:  domain.OrderStatusProcessing,
	})
	if !errors.Is(err, ErrOrderInvalidInput) {
		t.Fatalf("expected ErrOrderInvalidInput, got %v", err)
	}
	if errors.Is(err, ErrOrderNotFound) {
		t.Fatal("a malformed id on a status change is invalid input, not a missing order")
	}
}

func TestUpdateStatusMapsRepositoryConflict(t *testing.T) {
	orderID := domain.NewID(domain.OrderIDPrefix)
	repo := &stubOrderRepository{
		findByIDFn: func(_ context.Context, _ string) (domain.Order, error) {
			return testOrder(orderID, domain.OrderStatusPending), nil
		},
		updateStatusFn: func(_ context.Context, _ string, _, _ domain.OrderStatus, _ time.Time) (domain.Order, error) {
			return domain.Order{}, &stubRepoError{conflict: true}
		},
	}
	svc := newTestOrderService(t, repo, nil, time.Now())

	_, err := svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{
		OrderID: orderID,
		Status:  domain.OrderStatusProcessing,
	})
	if !errors.Is(err, ErrOrderConflict) {
		t.Fatalf("expected ErrOrderConflict, got %v", err)
	}
}

func TestUpdateStatusPublishFailureDoesNotFailTransition(t *testing.T) {
	orderID := domain.NewID(domain.OrderIDPrefix)
	repo := &stubOrderRepository{
		findByIDFn: func(_ context.Context, _ string) (domain.Order, error) {
			return testOrder(orderID, domain.OrderStatusShipped), nil
		},
		updateStatusFn: func(_ context.Context, _ string, _, to domain.OrderStatus, updatedAt time.Time) (domain.Order, error) {
			updated := testOrder(orderID, to)
			updated.UpdatedAt = updatedAt
			return updated, nil
		},
	}
	publisher := &capturingPublisher{err: errors.New("pubsub unreachable")}
	svc := newTestOrderService(t, repo, publisher, time.Now())

	updated, err := svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{
		OrderID: orderID,
		Status:  domain.OrderStatusDelivered,
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != domain.OrderStatusDelivered {
		t.Errorf("Status = %s, want delivered", updated.Status)
	}
}

func TestGetOrderTreatsMalformedIDAsMissing(t *testing.T) {
	svc := newTestOrderService(t, &stubOrderRepository{
		findByIDFn: func(_ context.Context, _ string) (domain.Order, error) {
			t.Fatal("repository should not be consulted for a malformed id")
			return domain.Order{}, nil
		},
	}, nil, time.Now())

	for _, raw := range []string{"", "12345", "prd_01J8ZQ3V9GJ5X2M4T6R8W0YBCD", "ord_nope"} {
		if _, err := svc.GetOrder(context.Background(), raw); !errors.Is(err, ErrOrderNotFound) {
			t.Errorf("GetOrder(%q) = %v, want ErrOrderNotFound", raw, err)
		}
	}
}

func TestListOrdersPaginationMetadata(t *testing.T) {
	repo := &stubOrderRepository{
		listFn: func(_ context.Context, q query.OrderQuery) (domain.Page[domain.Order], error) {
			if q.Offset() != 20 {
				t.Fatalf("Offset = %d, want 20", q.Offset())
			}
			items := make([]domain.Order, 20)
			return domain.Page[domain.Order]{Items: items, Total: 45, Page: q.Page, Limit: q.Limit}, nil
		},
	}
	svc := newTestOrderService(t, repo, nil, time.Now())

	page, err := svc.ListOrders(context.Background(), query.OrderQuery{Page: 2, Limit: 20})
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if page.Total != 45 {
		t.Errorf("Total = %d, want 45", page.Total)
	}
	if got := page.Pages(); got != 3 {
		t.Errorf("Pages = %d, want 3", got)
	}
}

// Two concurrent transitions from the same observed status must produce
// exactly one winner; the loser surfaces as a conflict.
func TestUpdateStatusConcurrentTransitionsOneWinner(t *testing.T) {
	orderID := domain.NewID(domain.OrderIDPrefix)

	var mu sync.Mutex
	stored := testOrder(orderID, domain.OrderStatusPending)

	repo := &stubOrderRepository{
		findByIDFn: func(_ context.Context, _ string) (domain.Order, error) {
			mu.Lock()
			defer mu.Unlock()
			return stored, nil
		},
		updateStatusFn: func(_ context.Context, _ string, from, to domain.OrderStatus, updatedAt time.Time) (domain.Order, error) {
			mu.Lock()
			defer mu.Unlock()
			if stored.Status != from {
				return domain.Order{}, &stubRepoError{conflict: true}
			}
			stored.Status = to
			stored.UpdatedAt = updatedAt
			return stored, nil
		},
	}
	svc := newTestOrderService(t, repo, &capturingPublisher{}, time.Now())

	start := make(chan struct{})
	results := make(chan error, 2)
	for _, target := range []domain.OrderStatus{domain.OrderStatusProcessing, domain.OrderStatusCancelled} {
		go func(target domain.OrderStatus) {
			<-start
			_, err := svc.UpdateStatus(context.Background(), UpdateOrderStatusCommand{
				OrderID: orderID,
				Status:  target,
			})
			results <- err
		}(target)
	}
	close(start)

	var wins, conflicts int
	for i := 0; i < 2; i++ {
		err := <-results
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrOrderConflict), errors.Is(err, ErrOrderInvalidTransition):
			// Depending on interleaving the loser either hits the
			// conditional write or re-reads the already-moved status.
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("wins = %d, conflicts = %d, want exactly one of each", wins, conflicts)
	}
}
