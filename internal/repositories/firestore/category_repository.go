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
	"github.com/tridala-nutra/api/internal/repositories"
)

const categoriesCollection = "categories"

// CategoryRepository is the Firestore-backed category store.
type CategoryRepository struct {
	collection *pfirestore.Collection[categoryDocument]
}

// NewCategoryRepository constructs a Firestore-backed category repository.
func NewCategoryRepository(provider *pfirestore.Provider) (*CategoryRepository, error) {
	if provider == nil {
		return nil, errors.New("category repository: firestore provider is required")
	}
	return &CategoryRepository{
		collection: pfirestore.NewCollection[categoryDocument](provider, categoriesCollection),
	}, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("category repository not initialised")
	}
	docs, err := r.collection.Query(ctx, func(fq firestore.Query) firestore.Query {
		return fq.OrderBy("name", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, decodeCategoryDocument(doc.ID, doc.Data))
	}
	return categories, nil
}

// FindByID loads a category by its identifier.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (domain.Category, error) {
	if r == nil || r.collection == nil {
		return domain.Category{}, errors.New("category repository not initialised")
	}
	doc, err := r.collection.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Category{}, err
	}
	return decodeCategoryDocument(doc.ID, doc.Data), nil
}

// FindBySlug loads a category by its URL slug.
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (domain.Category, error) {
	if r == nil || r.collection == nil {
		return domain.Category{}, errors.New("category repository not initialised")
	}
	docs, err := r.collection.Query(ctx, func(fq firestore.Query) firestore.Query {
		return fq.Where("slug", "==", strings.TrimSpace(slug)).Limit(1)
	})
	if err != nil {
		return domain.Category{}, err
	}
	if len(docs) == 0 {
		return domain.Category{}, pfirestore.WrapError("categories.find_by_slug", status.Error(codes.NotFound, "category not found"))
	}
	return decodeCategoryDocument(docs[0].ID, docs[0].Data), nil
}

// SlugTaken reports whether another category already owns the slug.
func (r *CategoryRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	if r == nil || r.collection == nil {
		return false, errors.New("category repository not initialised")
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

// Insert stores a new category document.
func (r *CategoryRepository) Insert(ctx context.Context, category domain.Category) error {
	if r == nil || r.collection == nil {
		return errors.New("category repository not initialised")
	}
	category.ID = strings.TrimSpace(category.ID)
	if category.ID == "" {
		return errors.New("category repository: id is required")
	}
	return r.collection.Create(ctx, category.ID, encodeCategoryDocument(category))
}

// Update replaces the category document state.
func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) error {
	if r == nil || r.collection == nil {
		return errors.New("category repository not initialised")
	}
	category.ID = strings.TrimSpace(category.ID)
	if category.ID == "" {
		return errors.New("category repository: id is required")
	}
	return r.collection.Set(ctx, category.ID, encodeCategoryDocument(category))
}

// Delete removes a category document.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.collection == nil {
		return errors.New("category repository not initialised")
	}
	return r.collection.Delete(ctx, strings.TrimSpace(id))
}

type categoryDocument struct {
	Name        string    `firestore:"name"`
	Slug        string    `firestore:"slug"`
	Description string    `firestore:"description,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func encodeCategoryDocument(category domain.Category) categoryDocument {
	return categoryDocument{
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		CreatedAt:   category.CreatedAt.UTC(),
		UpdatedAt:   category.UpdatedAt.UTC(),
	}
}

func decodeCategoryDocument(id string, doc categoryDocument) domain.Category {
	return domain.Category{
		ID:          id,
		Name:        doc.Name,
		Slug:        doc.Slug,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
}

var _ repositories.CategoryRepository = (*CategoryRepository)(nil)
