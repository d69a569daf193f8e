package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tridala-nutra/api/internal/domain"
	pfirestore "github.com/tridala-nutra/api/internal/platform/firestore"
	"github.com/tridala-nutra/api/internal/query"
	"github.com/tridala-nutra/api/internal/repositories"
)

const productsCollection = "products"

// ProductRepository is the Firestore-backed product store.
type ProductRepository struct {
	collection *pfirestore.Collection[productDocument]
}

// NewProductRepository constructs a Firestore-backed product repository.
func NewProductRepository(provider *pfirestore.Provider) (*ProductRepository, error) {
	if provider == nil {
		return nil, errors.New("product repository: firestore provider is required")
	}
	return &ProductRepository{
		collection: pfirestore.NewCollection[productDocument](provider, productsCollection),
	}, nil
}

// List returns one page of products matching the filter descriptor.
func (r *ProductRepository) List(ctx context.Context, q query.ProductQuery) (domain.Page[domain.Product], error) {
	if r == nil || r.collection == nil {
		return domain.Page[domain.Product]{}, errors.New("product repository not initialised")
	}

	if q.ProductID != "" {
		page := domain.Page[domain.Product]{Page: q.Page, Limit: q.Limit}
		doc, err := r.collection.Get(ctx, q.ProductID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return page, nil
			}
			return domain.Page[domain.Product]{}, err
		}
		product := decodeProductDocument(doc.ID, doc.Data)
		if !productMatchesQuery(product, q) {
			return page, nil
		}
		page.Total = 1
		if q.Offset() == 0 {
			page.Items = []domain.Product{product}
		}
		return page, nil
	}

	filter := func(fq firestore.Query) firestore.Query {
		if q.CategoryID != "" {
			fq = fq.Where("categoryId", "==", q.CategoryID)
		}
		if q.Price.From != nil {
			fq = fq.Where("price", ">=", *q.Price.From)
		}
		if q.Price.To != nil {
			fq = fq.Where("price", "<=", *q.Price.To)
		}
		return fq
	}

	total, err := r.collection.Count(ctx, filter)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}

	docs, err := r.collection.Query(ctx, func(fq firestore.Query) firestore.Query {
		fq = filter(fq)
		fq = fq.OrderBy(productSortField(q.Sort.Field), direction(q.Sort.Order))
		return fq.Offset(q.Offset()).Limit(q.Limit)
	})
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}

	items := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		items = append(items, decodeProductDocument(doc.ID, doc.Data))
	}
	return domain.Page[domain.Product]{
		Items: items,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}, nil
}

// FindByID loads a product by its identifier.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	if r == nil || r.collection == nil {
		return domain.Product{}, errors.New("product repository not initialised")
	}
	doc, err := r.collection.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Product{}, err
	}
	return decodeProductDocument(doc.ID, doc.Data), nil
}

// FindBySlug loads a product by its URL slug.
func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (domain.Product, error) {
	if r == nil || r.collection == nil {
		return domain.Product{}, errors.New("product repository not initialised")
	}
	docs, err := r.collection.Query(ctx, func(fq firestore.Query) firestore.Query {
		return fq.Where("slug", "==", strings.TrimSpace(slug)).Limit(1)
	})
	if err != nil {
		return domain.Product{}, err
	}
	if len(docs) == 0 {
		return domain.Product{}, pfirestore.WrapError("products.find_by_slug", status.Error(codes.NotFound, "product not found"))
	}
	return decodeProductDocument(docs[0].ID, docs[0].Data), nil
}

// SlugTaken reports whether another product already owns the slug.
func (r *ProductRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	if r == nil || r.collection == nil {
		return false, errors.New("product repository not initialised")
	}
	docs, err := r.collection.Query(ctx, func(fq firestore.Query) firestore.Query {
		return fq.Where("slug", "==", strings.TrimSpace(slug)).Limit(2)
	})
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if doc.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Insert stores a new product document.
func (r *ProductRepository) Insert(ctx context.Context, product domain.Product) error {
	if r == nil || r.collection == nil {
		return errors.New("product repository not initialised")
	}
	product.ID = strings.TrimSpace(product.ID)
	if product.ID == "" {
		return errors.New("product repository: id is required")
	}
	return r.collection.Create(ctx, product.ID, encodeProductDocument(product))
}

// Update replaces the product document state.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	if r == nil || r.collection == nil {
		return errors.New("product repository not initialised")
	}
	product.ID = strings.TrimSpace(product.ID)
	if product.ID == "" {
		return errors.New("product repository: id is required")
	}
	return r.collection.Set(ctx, product.ID, encodeProductDocument(product))
}

// Delete removes a product document.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.collection == nil {
		return errors.New("product repository not initialised")
	}
	return r.collection.Delete(ctx, strings.TrimSpace(id))
}

// productSortField maps a sort descriptor onto a stored field path. Firestore
// rejects an empty field path, so anything outside the known set falls back
// to creation time.
func productSortField(field string) string {
	switch field {
	case "price", "name", "stock", "createdAt":
		return field
	default:
		return "createdAt"
	}
}

// productMatchesQuery applies the descriptor predicates to a product fetched
// outside the query builder, keeping the exact-id path consistent with it.
func productMatchesQuery(product domain.Product, q query.ProductQuery) bool {
	if q.CategoryID != "" && product.CategoryID != q.CategoryID {
		return false
	}
	if q.Price.From != nil && product.Price < *q.Price.From {
		return false
	}
	if q.Price.To != nil && product.Price > *q.Price.To {
		return false
	}
	return true
}

type productDocument struct {
	Name         string    `firestore:"name"`
	Slug         string    `firestore:"slug"`
	Description  string    `firestore:"description,omitempty"`
	Price        float64   `firestore:"price"`
	SalePrice    *float64  `firestore:"salePrice,omitempty"`
	CategoryID   string    `firestore:"categoryId"`
	Images       []string  `firestore:"images,omitempty"`
	WeightOrSize string    `firestore:"weightOrSize,omitempty"`
	Stock        int       `firestore:"stock"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func encodeProductDocument(product domain.Product) productDocument {
	return productDocument{
		Name:         product.Name,
		Slug:         product.Slug,
		Description:  product.Description,
		Price:        product.Price,
		SalePrice:    product.SalePrice,
		CategoryID:   product.CategoryID,
		Images:       product.Images,
		WeightOrSize: product.WeightOrSize,
		Stock:        product.Stock,
		CreatedAt:    product.CreatedAt.UTC(),
		UpdatedAt:    product.UpdatedAt.UTC(),
	}
}

func decodeProductDocument(id string, doc productDocument) domain.Product {
	return domain.Product{
		ID:           id,
		Name:         doc.Name,
		Slug:         doc.Slug,
		Description:  doc.Description,
		Price:        doc.Price,
		SalePrice:    doc.SalePrice,
		CategoryID:   doc.CategoryID,
		Images:       doc.Images,
		WeightOrSize: doc.WeightOrSize,
		Stock:        doc.Stock,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)
