package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/platform/httpx"
	"github.com/tridala-nutra/api/internal/query"
	"github.com/tridala-nutra/api/internal/services"
)

// CatalogHandlers exposes the public product and category endpoints.
type CatalogHandlers struct {
	catalog services.CatalogService
}

// NewCatalogHandlers constructs a new CatalogHandlers instance.
func NewCatalogHandlers(catalog services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// Routes registers the /products and /categories endpoints.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Route("/products", func(products chi.Router) {
		products.Get("/", h.listProducts)
		products.Get("/slug/{slug}", h.getProductBySlug)
		products.Get("/category/{categoryID}", h.listProductsByCategory)
		products.Get("/{productID}", h.getProduct)
	})
	r.Route("/categories", func(categories chi.Router) {
		categories.Get("/", h.listCategories)
		categories.Get("/slug/{slug}", h.getCategoryBySlug)
		categories.Get("/{categoryID}", h.getCategory)
	})
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	page, err := h.catalog.ListProducts(ctx, query.BuildProductQuery(r.URL.Query()))
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	items := make([]productPayload, 0, len(page.Items))
	for _, product := range page.Items {
		items = append(items, toProductPayload(product))
	}
	httpx.WriteList(ctx, w, http.StatusOK, items, pageMeta(page))
}

func (h *CatalogHandlers) listProductsByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	categoryID := strings.TrimSpace(chi.URLParam(r, "categoryID"))
	if !domain.IsValidCategoryID(categoryID) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid category reference", http.StatusBadRequest))
		return
	}

	q := query.BuildProductQuery(r.URL.Query())
	q.CategoryID = categoryID

	page, err := h.catalog.ListProducts(ctx, q)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	items := make([]productPayload, 0, len(page.Items))
	for _, product := range page.Items {
		items = append(items, toProductPayload(product))
	}
	httpx.WriteList(ctx, w, http.StatusOK, items, pageMeta(page))
}

func (h *CatalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productID"))
	if !domain.IsValidProductID(productID) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid product reference", http.StatusBadRequest))
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, toProductPayload(product))
}

func (h *CatalogHandlers) getProductBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	product, err := h.catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, toProductPayload(product))
}

func (h *CatalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	items := make([]categoryPayload, 0, len(categories))
	for _, category := range categories {
		items = append(items, toCategoryPayload(category))
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, items)
}

func (h *CatalogHandlers) getCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	categoryID := strings.TrimSpace(chi.URLParam(r, "categoryID"))
	if !domain.IsValidCategoryID(categoryID) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid category reference", http.StatusBadRequest))
		return
	}

	category, err := h.catalog.GetCategory(ctx, categoryID)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, toCategoryPayload(category))
}

func (h *CatalogHandlers) getCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	category, err := h.catalog.GetCategoryBySlug(ctx, slug)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, toCategoryPayload(category))
}

func writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError(err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCatalogNotFound):
		httpx.WriteError(ctx, w, httpx.NewError(err.Error(), http.StatusNotFound))
	case errors.Is(err, services.ErrCatalogConflict):
		httpx.WriteError(ctx, w, httpx.NewError(err.Error(), http.StatusConflict))
	case errors.Is(err, services.ErrCatalogUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("catalog temporarily unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("Internal Server Error", http.StatusInternalServerError))
	}
}
