package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/query"
	"github.com/tridala-nutra/api/internal/repositories"
)

var (
	// ErrOrderInvalidInput signals the caller provided invalid data.
	ErrOrderInvalidInput = errors.New("order: invalid input")
	// ErrOrderNotFound indicates the order could not be located.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrOrderInvalidTransition indicates a disallowed status transition was attempted.
	ErrOrderInvalidTransition = errors.New("order: invalid status transition")
	// ErrOrderConflict indicates the order changed concurrently.
	ErrOrderConflict = errors.New("order: conflict")
	// ErrOrderUnavailable indicates a transient backend outage.
	ErrOrderUnavailable = errors.New("order: storage unavailable")
)

// OrderServiceDeps bundles collaborators required to construct the order service.
type OrderServiceDeps struct {
	Orders repositories.OrderRepository
	Events OrderEventPublisher
	Clock  func() time.Time
	Logger func(ctx context.Context, event string, fields map[string]any)
}

type orderService struct {
	orders repositories.OrderRepository
	events OrderEventPublisher
	clock  func() time.Time
	logger func(context.Context, string, map[string]any)
}

// NewOrderService wires dependencies into a concrete OrderService implementation.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("order service: order repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &orderService{
		orders: deps.Orders,
		events: deps.Events,
		clock: func() time.Time {
			return clock().UTC()
		},
		logger: logger,
	}, nil
}

func (s *orderService) ListOrders(ctx context.Context, q query.OrderQuery) (domain.Page[domain.Order], error) {
	page, err := s.orders.List(ctx, q)
	if err != nil {
		return domain.Page[domain.Order]{}, s.mapRepositoryError(err)
	}
	return page, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if !domain.IsValidOrderID(orderID) {
		// A malformed reference can never match a stored order.
		return domain.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, s.mapRepositoryError(err)
	}
	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (domain.Order, error) {
	orderID := strings.TrimSpace(cmd.OrderID)
	if !domain.IsValidOrderID(orderID) {
		return domain.Order{}, fmt.Errorf("%w: malformed order id %q", ErrOrderInvalidInput, cmd.OrderID)
	}
	target := domain.OrderStatus(strings.TrimSpace(string(cmd.Status)))
	if !domain.IsValidOrderStatus(target) {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", ErrOrderInvalidInput, string(cmd.Status))
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if !domain.CanTransition(order.Status, target) {
		return domain.Order{}, fmt.Errorf("%w: cannot change status from %s to %s",
			ErrOrderInvalidTransition, domain.StatusLabel(order.Status), domain.StatusLabel(target))
	}

	now := s.clock()
	updated, err := s.orders.UpdateStatus(ctx, order.ID, order.Status, target, now)
	if err != nil {
		return domain.Order{}, s.mapRepositoryError(err)
	}

	s.publishStatusChanged(ctx, OrderStatusChangedEvent{
		OrderID:        updated.ID,
		PreviousStatus: order.Status,
		NewStatus:      updated.Status,
		ChangedBy:      strings.TrimSpace(cmd.ActorID),
		OccurredAt:     now,
	})

	return updated, nil
}

func (s *orderService) publishStatusChanged(ctx context.Context, event OrderStatusChangedEvent) {
	if s.events == nil {
		return
	}
	if _, err := s.events.PublishStatusChanged(ctx, event); err != nil {
		// Event delivery is best effort; the transition already committed.
		s.logger(ctx, "order.status.changed.publish_failed", map[string]any{
			"orderId": event.OrderID,
			"error":   err.Error(),
		})
	}
}

func (s *orderService) mapRepositoryError(err error) error {
	switch {
	case repositories.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	case repositories.IsConflict(err):
		return fmt.Errorf("%w: %v", ErrOrderConflict, err)
	case repositories.IsUnavailable(err):
		return fmt.Errorf("%w: %v", ErrOrderUnavailable, err)
	default:
		return err
	}
}
