package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/platform/auth"
	"github.com/tridala-nutra/api/internal/query"
)

func testRouter(t *testing.T) (chi.Router, *auth.TokenIssuer) {
	t.Helper()
	issuer := testIssuer(t)
	authn := auth.NewAuthenticator(issuer)

	catalog := &stubCatalogService{
		listProductsFn: func(_ context.Context, q query.ProductQuery) (domain.Page[domain.Product], error) {
			return domain.Page[domain.Product]{Page: q.Page, Limit: q.Limit}, nil
		},
	}
	orders := &stubOrderService{
		listFn: func(_ context.Context, q query.OrderQuery) (domain.Page[domain.Order], error) {
			return domain.Page[domain.Order]{Page: q.Page, Limit: q.Limit}, nil
		},
	}

	adminOrders := NewAdminOrderHandlers(orders)
	adminCatalog := NewAdminCatalogHandlers(catalog)

	r := NewRouter(
		WithCatalogRoutes(NewCatalogHandlers(catalog).Routes),
		WithAccountRoutes(NewAccountHandlers(authn, &stubAccountService{}).Routes),
		WithAdminRoutes(func(admin chi.Router) {
			admin.Route("/orders", adminOrders.Routes)
			adminCatalog.Routes(admin)
		}),
		WithAdminMiddlewares(authn.RequireAdmin()),
	)
	return r, issuer
}

func TestRouterHealthz(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestRouterPublicCatalog(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
}

func TestRouterUnknownRouteEnvelope(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

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
	if body.Message == "" {
		t.Error("message should describe the missing route")
	}
}

func TestRouterAdminRequiresAdminRole(t *testing.T) {
	r, issuer := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rr.Code)
	}

	userToken, err := issuer.Issue(auth.Identity{UID: "usr_01J8ZQ3V9GJ5X2M4T6R8W0YBCD", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("user status = %d, want 403", rr.Code)
	}

	adminToken, err := issuer.Issue(auth.Identity{UID: "usr_01J8ZQ3V9GJ5X2M4T6R8W0YBCE", Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
}
