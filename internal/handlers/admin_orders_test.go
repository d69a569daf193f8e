package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/query"
	"github.com/tridala-nutra/api/internal/services"
)

type stubOrderService struct {
	listFn   func(ctx context.Context, q query.OrderQuery) (domain.Page[domain.Order], error)
	getFn    func(ctx context.Context, orderID string) (domain.Order, error)
	updateFn func(ctx context.Context, cmd services.UpdateOrderStatusCommand) (domain.Order, error)
}

func (s *stubOrderService) ListOrders(ctx context.Context, q query.OrderQuery) (domain.Page[domain.Order], error) {
	return s.listFn(ctx, q)
}

func (s *stubOrderService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	return s.getFn(ctx, orderID)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, cmd services.UpdateOrderStatusCommand) (domain.Order, error) {
	return s.updateFn(ctx, cmd)
}

var _ services.OrderService = (*stubOrderService)(nil)

func adminOrderRouter(svc services.OrderService) chi.Router {
	r := chi.NewRouter()
	NewAdminOrderHandlers(svc).Routes(r)
	return r
}

func sampleOrder(status domain.OrderStatus) domain.Order {
	created := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)
	return domain.Order{
		ID:     "ord_01J8ZQ3V9GJ5X2M4T6R8W0YBCD",
		UserID: "usr_01J8ZQ3V9GJ5X2M4T6R8W0YBCD",
		Items: []domain.OrderItem{
			{ProductID: "prd_01J8ZQ3V9GJ5X2M4T6R8W0YBCD", ProductName: "Groundnut Oil 1L", Quantity: 2, UnitPrice: 499},
		},
		TotalAmount:   998,
		Status:        status,
		PaymentMethod: domain.PaymentMethodUPI,
		PaymentStatus: domain.PaymentStatusCompleted,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

type listEnvelope struct {
	Success    bool             `json:"success"`
	Data       []map[string]any `json:"data"`
	Pagination *struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int64 `json:"pages"`
	} `json:"pagination"`
	Message string `json:"message"`
}

type objectEnvelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Message string         `json:"message"`
}

func TestAdminListOrders(t *testing.T) {
	svc := &stubOrderService{
		listFn: func(_ context.Context, q query.OrderQuery) (domain.Page[domain.Order], error) {
			if q.Status == nil || *q.Status != domain.OrderStatusShipped {
				t.Fatalf("status filter = %v, want shipped", q.Status)
			}
			if q.Page != 2 || q.Limit != 10 {
				t.Fatalf("page/limit = %d/%d, want 2/10", q.Page, q.Limit)
			}
			return domain.Page[domain.Order]{
				Items: []domain.Order{sampleOrder(domain.OrderStatusShipped)},
				Total: 31,
				Page:  q.Page,
				Limit: q.Limit,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/?status=shipped&page=2&limit=10", nil)
	rr := httptest.NewRecorder()
	adminOrderRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body listEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
	if len(body.Data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(body.Data))
	}
	if body.Data[0]["statusLabel"] != "Shipped" {
		t.Errorf("statusLabel = %v, want Shipped", body.Data[0]["statusLabel"])
	}
	if body.Pagination == nil {
		t.Fatal("pagination block missing")
	}
	if body.Pagination.Total != 31 || body.Pagination.Pages != 4 {
		t.Errorf("pagination total/pages = %d/%d, want 31/4", body.Pagination.Total, body.Pagination.Pages)
	}
}

func TestAdminGetOrderNotFound(t *testing.T) {
	svc := &stubOrderService{
		getFn: func(_ context.Context, orderID string) (domain.Order, error) {
			return domain.Order{}, services.ErrOrderNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/ord_unknown", nil)
	rr := httptest.NewRecorder()
	adminOrderRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	var body objectEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Message != "order not found" {
		t.Errorf("message = %q, want order not found", body.Message)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	svc := &stubOrderService{
		updateFn: func(_ context.Context, cmd services.UpdateOrderStatusCommand) (domain.Order, error) {
			if cmd.Status != domain.OrderStatusProcessing {
				t.Fatalf("status = %q, want processing", cmd.Status)
			}
			order := sampleOrder(domain.OrderStatusProcessing)
			order.ID = cmd.OrderID
			return order, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/ord_01J8ZQ3V9GJ5X2M4T6R8W0YBCD/status", strings.NewReader(`{"status":"processing"}`))
	rr := httptest.NewRecorder()
	adminOrderRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var body objectEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Data["status"] != "processing" {
		t.Errorf("status = %v, want processing", body.Data["status"])
	}
}

func TestAdminUpdateOrderStatusRejectsInvalidTransition(t *testing.T) {
	svc := &stubOrderService{
		updateFn: func(_ context.Context, _ services.UpdateOrderStatusCommand) (domain.Order, error) {
			return domain.Order{}, services.ErrOrderInvalidTransition
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/ord_01J8ZQ3V9GJ5X2M4T6R8W0YBCD/status", strings.NewReader(`{"status":"shipped"}`))
	rr := httptest.NewRecorder()
	adminOrderRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestAdminUpdateOrderStatusConflict(t *testing.T) {
	svc := &stubOrderService{
		updateFn: func(_ context.Context, _ services.UpdateOrderStatusCommand) (domain.Order, error) {
			return domain.Order{}, services.ErrOrderConflict
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/ord_01J8ZQ3V9GJ5X2M4T6R8W0YBCD/status", strings.NewReader(`{"status":"cancelled"}`))
	rr := httptest.NewRecorder()
	adminOrderRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
}

func TestAdminUpdateOrderStatusRejectsMalformedBody(t *testing.T) {
	svc := &stubOrderService{
		updateFn: func(_ context.Context, _ services.UpdateOrderStatusCommand) (domain.Order, error) {
			t.Fatal("service should not be reached for malformed JSON")
			return domain.Order{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/ord_01J8ZQ3V9GJ5X2M4T6R8W0YBCD/status", strings.NewReader(`{"status":`))
	rr := httptest.NewRecorder()
	adminOrderRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
