package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/platform/textutil"
	"github.com/tridala-nutra/api/internal/query"
	"github.com/tridala-nutra/api/internal/repositories"
)

var (
	// ErrCatalogInvalidInput signals the caller provided invalid data.
	ErrCatalogInvalidInput = errors.New("catalog: invalid input")
	// ErrCatalogNotFound indicates the product or category could not be located.
	ErrCatalogNotFound = errors.New("catalog: not found")
	// ErrCatalogConflict indicates a slug collision or concurrent modification.
	ErrCatalogConflict = errors.New("catalog: conflict")
	// ErrCatalogUnavailable indicates a transient backend outage.
	ErrCatalogUnavailable = errors.New("catalog: storage unavailable")
)

// CatalogServiceDeps bundles collaborators required to construct the catalog service.
type CatalogServiceDeps struct {
	Products    repositories.ProductRepository
	Categories  repositories.CategoryRepository
	Clock       func() time.Time
	IDGenerator func(prefix string) string
}

type catalogService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	clock      func() time.Time
	newID      func(prefix string) string

	// Rich text descriptions come from the admin console; everything else
	// is stripped down to safe markup before persistence.
	sanitizer *bluemonday.Policy
}

// NewCatalogService wires dependencies into a concrete CatalogService implementation.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Products == nil {
		return nil, errors.New("catalog service: product repository is required")
	}
	if deps.Categories == nil {
		return nil, errors.New("catalog service: category repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = domain.NewID
	}

	return &catalogService{
		products:   deps.Products,
		categories: deps.Categories,
		clock: func() time.Time {
			return clock().UTC()
		},
		newID:     idGen,
		sanitizer: bluemonday.UGCPolicy(),
	}, nil
}

func (s *catalogService) ListProducts(ctx context.Context, q query.ProductQuery) (domain.Page[domain.Product], error) {
	page, err := s.products.List(ctx, q)
	if err != nil {
		return domain.Page[domain.Product]{}, s.mapRepositoryError(err)
	}
	if err := s.populateCategories(ctx, page.Items); err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return page, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if !domain.IsValidProductID(productID) {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrCatalogNotFound, productID)
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, s.mapRepositoryError(err)
	}
	s.populateCategory(ctx, &product)
	return product, nil
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Product{}, fmt.Errorf("%w: slug is required", ErrCatalogInvalidInput)
	}
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, s.mapRepositoryError(err)
	}
	s.populateCategory(ctx, &product)
	return product, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, s.mapRepositoryError(err)
	}
	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, categoryID string) (domain.Category, error) {
	categoryID = strings.TrimSpace(categoryID)
	if !domain.IsValidCategoryID(categoryID) {
		return domain.Category{}, fmt.Errorf("%w: %s", ErrCatalogNotFound, categoryID)
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return domain.Category{}, s.mapRepositoryError(err)
	}
	return category, nil
}

func (s *catalogService) GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Category{}, fmt.Errorf("%w: slug is required", ErrCatalogInvalidInput)
	}
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return domain.Category{}, s.mapRepositoryError(err)
	}
	return category, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, cmd ProductCommand) (domain.Product, error) {
	product, err := s.buildProduct(ctx, cmd)
	if err != nil {
		return domain.Product{}, err
	}

	taken, err := s.products.SlugTaken(ctx, product.Slug, "")
	if err != nil {
		return domain.Product{}, s.mapRepositoryError(err)
	}
	if taken {
		return domain.Product{}, fmt.Errorf("%w: product slug %q already exists", ErrCatalogConflict, product.Slug)
	}

	now := s.clock()
	product.ID = s.newID(domain.ProductIDPrefix)
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.products.Insert(ctx, product); err != nil {
		return domain.Product{}, s.mapRepositoryError(err)
	}
	s.populateCategory(ctx, &product)
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, productID string, cmd ProductCommand) (domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if !domain.IsValidProductID(productID) {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrCatalogNotFound, productID)
	}

	existing, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, s.mapRepositoryError(err)
	}

	product, err := s.buildProduct(ctx, cmd)
	if err != nil {
		return domain.Product{}, err
	}

	taken, err := s.products.SlugTaken(ctx, product.Slug, productID)
	if err != nil {
		return domain.Product{}, s.mapRepositoryError(err)
	}
	if taken {
		return domain.Product{}, fmt.Errorf("%w: product slug %q already exists", ErrCatalogConflict, product.Slug)
	}

	product.ID = productID
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.clock()

	if err := s.products.Update(ctx, product); err != nil {
		return domain.Product{}, s.mapRepositoryError(err)
	}
	s.populateCategory(ctx, &product)
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if !domain.IsValidProductID(productID) {
		return fmt.Errorf("%w: %s", ErrCatalogNotFound, productID)
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return s.mapRepositoryError(err)
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		return s.mapRepositoryError(err)
	}
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, cmd CategoryCommand) (domain.Category, error) {
	category, err := s.buildCategory(cmd)
	if err != nil {
		return domain.Category{}, err
	}

	taken, err := s.categories.SlugTaken(ctx, category.Slug, "")
	if err != nil {
		return domain.Category{}, s.mapRepositoryError(err)
	}
	if taken {
		return domain.Category{}, fmt.Errorf("%w: category slug %q already exists", ErrCatalogConflict, category.Slug)
	}

	now := s.clock()
	category.ID = s.newID(domain.CategoryIDPrefix)
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := s.categories.Insert(ctx, category); err != nil {
		return domain.Category{}, s.mapRepositoryError(err)
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, categoryID string, cmd CategoryCommand) (domain.Category, error) {
	categoryID = strings.TrimSpace(categoryID)
	if !domain.IsValidCategoryID(categoryID) {
		return domain.Category{}, fmt.Errorf("%w: %s", ErrCatalogNotFound, categoryID)
	}

	existing, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return domain.Category{}, s.mapRepositoryError(err)
	}

	category, err := s.buildCategory(cmd)
	if err != nil {
		return domain.Category{}, err
	}

	taken, err := s.categories.SlugTaken(ctx, category.Slug, categoryID)
	if err != nil {
		return domain.Category{}, s.mapRepositoryError(err)
	}
	if taken {
		return domain.Category{}, fmt.Errorf("%w: category slug %q already exists", ErrCatalogConflict, category.Slug)
	}

	category.ID = categoryID
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = s.clock()

	if err := s.categories.Update(ctx, category); err != nil {
		return domain.Category{}, s.mapRepositoryError(err)
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, categoryID string) error {
	categoryID = strings.TrimSpace(categoryID)
	if !domain.IsValidCategoryID(categoryID) {
		return fmt.Errorf("%w: %s", ErrCatalogNotFound, categoryID)
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return s.mapRepositoryError(err)
	}

	// Deleting a category that products still point at would leave dangling
	// references all over the catalogue.
	inUse, err := s.products.List(ctx, query.ProductQuery{Page: 1, Limit: 1, CategoryID: categoryID})
	if err != nil {
		return s.mapRepositoryError(err)
	}
	if inUse.Total > 0 {
		return fmt.Errorf("%w: category %s is still referenced by %d product(s)", ErrCatalogConflict, categoryID, inUse.Total)
	}

	if err := s.categories.Delete(ctx, categoryID); err != nil {
		return s.mapRepositoryError(err)
	}
	return nil
}

func (s *catalogService) buildProduct(ctx context.Context, cmd ProductCommand) (domain.Product, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return domain.Product{}, fmt.Errorf("%w: product name is required", ErrCatalogInvalidInput)
	}
	if cmd.Price < 0 {
		return domain.Product{}, fmt.Errorf("%w: price must not be negative", ErrCatalogInvalidInput)
	}
	if cmd.SalePrice != nil && (*cmd.SalePrice < 0 || *cmd.SalePrice > cmd.Price) {
		return domain.Product{}, fmt.Errorf("%w: sale price must be between 0 and the regular price", ErrCatalogInvalidInput)
	}
	if cmd.Stock < 0 {
		return domain.Product{}, fmt.Errorf("%w: stock must not be negative", ErrCatalogInvalidInput)
	}

	categoryID := strings.TrimSpace(cmd.CategoryID)
	if !domain.IsValidCategoryID(categoryID) {
		return domain.Product{}, fmt.Errorf("%w: category reference is invalid", ErrCatalogInvalidInput)
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if repositories.IsNotFound(err) {
			return domain.Product{}, fmt.Errorf("%w: category %s does not exist", ErrCatalogInvalidInput, categoryID)
		}
		return domain.Product{}, s.mapRepositoryError(err)
	}

	slug := textutil.Slugify(name)
	if slug == "" {
		return domain.Product{}, fmt.Errorf("%w: product name yields an empty slug", ErrCatalogInvalidInput)
	}

	return domain.Product{
		Name:         name,
		Slug:         slug,
		Description:  s.sanitizer.Sanitize(cmd.Description),
		Price:        cmd.Price,
		SalePrice:    cmd.SalePrice,
		CategoryID:   categoryID,
		Images:       cmd.Images,
		WeightOrSize: strings.TrimSpace(cmd.WeightOrSize),
		Stock:        cmd.Stock,
	}, nil
}

func (s *catalogService) buildCategory(cmd CategoryCommand) (domain.Category, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return domain.Category{}, fmt.Errorf("%w: category name is required", ErrCatalogInvalidInput)
	}
	slug := textutil.Slugify(name)
	if slug == "" {
		return domain.Category{}, fmt.Errorf("%w: category name yields an empty slug", ErrCatalogInvalidInput)
	}
	return domain.Category{
		Name:        name,
		Slug:        slug,
		Description: s.sanitizer.Sanitize(cmd.Description),
	}, nil
}

// populateCategories resolves category summaries for a batch of products,
// fetching each distinct category once.
func (s *catalogService) populateCategories(ctx context.Context, products []domain.Product) error {
	cache := make(map[string]*domain.CategorySummary)
	for i := range products {
		id := products[i].CategoryID
		if id == "" {
			continue
		}
		summary, seen := cache[id]
		if !seen {
			category, err := s.categories.FindByID(ctx, id)
			if err != nil {
				if repositories.IsNotFound(err) {
					// Dangling reference; the product stays listable.
					cache[id] = nil
					continue
				}
				return s.mapRepositoryError(err)
			}
			summary = &domain.CategorySummary{ID: category.ID, Name: category.Name, Slug: category.Slug}
			cache[id] = summary
		}
		if summary != nil {
			copied := *summary
			products[i].Category = &copied
		}
	}
	return nil
}

func (s *catalogService) populateCategory(ctx context.Context, product *domain.Product) {
	if product == nil || product.CategoryID == "" || product.Category != nil {
		return
	}
	category, err := s.categories.FindByID(ctx, product.CategoryID)
	if err != nil {
		return
	}
	product.Category = &domain.CategorySummary{ID: category.ID, Name: category.Name, Slug: category.Slug}
}

func (s *catalogService) mapRepositoryError(err error) error {
	switch {
	case repositories.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrCatalogNotFound, err)
	case repositories.IsConflict(err):
		return fmt.Errorf("%w: %v", ErrCatalogConflict, err)
	case repositories.IsUnavailable(err):
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	default:
		return err
	}
}
