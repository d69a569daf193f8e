package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tridala-nutra/api/internal/platform/httpx"
	"github.com/tridala-nutra/api/internal/services"
)

// AdminCatalogHandlers exposes product and category management for the admin
// console.
type AdminCatalogHandlers struct {
	catalog services.CatalogService
}

// NewAdminCatalogHandlers constructs a new AdminCatalogHandlers instance.
func NewAdminCatalogHandlers(catalog services.CatalogService) *AdminCatalogHandlers {
	return &AdminCatalogHandlers{catalog: catalog}
}

// Routes registers the /products and /categories endpoints inside the admin
// group.
func (h *AdminCatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Route("/products", func(products chi.Router) {
		products.Post("/", h.createProduct)
		products.Put("/{productID}", h.updateProduct)
		products.Delete("/{productID}", h.deleteProduct)
	})
	r.Route("/categories", func(categories chi.Router) {
		categories.Post("/", h.createCategory)
		categories.Put("/{categoryID}", h.updateCategory)
		categories.Delete("/{categoryID}", h.deleteCategory)
	})
}

type productRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	SalePrice    *float64 `json:"salePrice"`
	CategoryID   string   `json:"categoryId"`
	Images       []string `json:"images"`
	WeightOrSize string   `json:"weightOrSize"`
	Stock        int      `json:"stock"`
}

func (req productRequest) command() services.ProductCommand {
	return services.ProductCommand{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		SalePrice:    req.SalePrice,
		CategoryID:   req.CategoryID,
		Images:       req.Images,
		WeightOrSize: req.WeightOrSize,
		Stock:        req.Stock,
	}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *AdminCatalogHandlers) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req productRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	product, err := h.catalog.CreateProduct(ctx, req.command())
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusCreated, toProductPayload(product))
}

func (h *AdminCatalogHandlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req productRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	product, err := h.catalog.UpdateProduct(ctx, chi.URLParam(r, "productID"), req.command())
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, toProductPayload(product))
}

func (h *AdminCatalogHandlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	if err := h.catalog.DeleteProduct(ctx, chi.URLParam(r, "productID")); err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminCatalogHandlers) createCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req categoryRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	category, err := h.catalog.CreateCategory(ctx, services.CategoryCommand{Name: req.Name, Description: req.Description})
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusCreated, toCategoryPayload(category))
}

func (h *AdminCatalogHandlers) updateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req categoryRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	category, err := h.catalog.UpdateCategory(ctx, chi.URLParam(r, "categoryID"), services.CategoryCommand{Name: req.Name, Description: req.Description})
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, toCategoryPayload(category))
}

func (h *AdminCatalogHandlers) deleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	if err := h.catalog.DeleteCategory(ctx, chi.URLParam(r, "categoryID")); err != nil {
		writeCatalogError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
