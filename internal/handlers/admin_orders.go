package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/platform/auth"
	"github.com/tridala-nutra/api/internal/platform/httpx"
	"github.com/tridala-nutra/api/internal/query"
	"github.com/tridala-nutra/api/internal/services"
)

// AdminOrderHandlers exposes the order console: listing, inspection, and
// status transitions.
type AdminOrderHandlers struct {
	orders services.OrderService
}

// NewAdminOrderHandlers constructs a new AdminOrderHandlers instance.
func NewAdminOrderHandlers(orders services.OrderService) *AdminOrderHandlers {
	return &AdminOrderHandlers{orders: orders}
}

// Routes registers the /orders endpoints inside the admin group.
func (h *AdminOrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listOrders)
	r.Get("/{orderID}", h.getOrder)
	r.Put("/{orderID}/status", h.updateStatus)
}

func (h *AdminOrderHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("order service unavailable", http.StatusServiceUnavailable))
		return
	}

	page, err := h.orders.ListOrders(ctx, query.BuildOrderQuery(r.URL.Query()))
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}

	items := make([]orderPayload, 0, len(page.Items))
	for _, order := range page.Items {
		items = append(items, toOrderPayload(order))
	}
	httpx.WriteList(ctx, w, http.StatusOK, items, pageMeta(page))
}

func (h *AdminOrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("order service unavailable", http.StatusServiceUnavailable))
		return
	}

	order, err := h.orders.GetOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, toOrderPayload(order))
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandlers) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("order service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req updateOrderStatusRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	var actorID string
	if identity, ok := auth.IdentityFromContext(ctx); ok && identity != nil {
		actorID = identity.UID
	}

	order, err := h.orders.UpdateStatus(ctx, services.UpdateOrderStatusCommand{
		OrderID: chi.URLParam(r, "orderID"),
		Status:  domain.OrderStatus(strings.TrimSpace(req.Status)),
		ActorID: actorID,
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, toOrderPayload(order))
}

func writeOrderError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderInvalidInput),
		errors.Is(err, services.ErrOrderInvalidTransition):
		httpx.WriteError(ctx, w, httpx.NewError(err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrOrderNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("order not found", http.StatusNotFound))
	case errors.Is(err, services.ErrOrderConflict):
		httpx.WriteError(ctx, w, httpx.NewError("order was modified concurrently, retry with fresh data", http.StatusConflict))
	case errors.Is(err, services.ErrOrderUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("order service temporarily unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("Internal Server Error", http.StatusInternalServerError))
	}
}
