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

const usersCollection = "users"

// UserRepository is the Firestore-backed account store.
type UserRepository struct {
	collection *pfirestore.Collection[userDocument]
}

// NewUserRepository constructs a Firestore-backed user repository.
func NewUserRepository(provider *pfirestore.Provider) (*UserRepository, error) {
	if provider == nil {
		return nil, errors.New("user repository: firestore provider is required")
	}
	return &UserRepository{
		collection: pfirestore.NewCollection[userDocument](provider, usersCollection),
	}, nil
}

// FindByID loads an account by its identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	if r == nil || r.collection == nil {
		return domain.User{}, errors.New("user repository not initialised")
	}
	doc, err := r.collection.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.User{}, err
	}
	return decodeUserDocument(doc.ID, doc.Data), nil
}

// FindByEmail loads an account by its normalised email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if r == nil || r.collection == nil {
		return domain.User{}, errors.New("user repository not initialised")
	}
	normalised := strings.ToLower(strings.TrimSpace(email))
	docs, err := r.collection.Query(ctx, func(fq firestore.Query) firestore.Query {
		return fq.Where("email", "==", normalised).Limit(1)
	})
	if err != nil {
		return domain.User{}, err
	}
	if len(docs) == 0 {
		return domain.User{}, pfirestore.WrapError("users.find_by_email", status.Error(codes.NotFound, "user not found"))
	}
	return decodeUserDocument(docs[0].ID, docs[0].Data), nil
}

// Insert stores a new account document.
func (r *UserRepository) Insert(ctx context.Context, user domain.User) error {
	if r == nil || r.collection == nil {
		return errors.New("user repository not initialised")
	}
	user.ID = strings.TrimSpace(user.ID)
	if user.ID == "" {
		return errors.New("user repository: id is required")
	}
	return r.collection.Create(ctx, user.ID, encodeUserDocument(user))
}

type userDocument struct {
	Name         string    `firestore:"name"`
	Email        string    `firestore:"email"`
	Phone        string    `firestore:"phone,omitempty"`
	Role         string    `firestore:"role"`
	PasswordHash string    `firestore:"passwordHash"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func encodeUserDocument(user domain.User) userDocument {
	return userDocument{
		Name:         user.Name,
		Email:        strings.ToLower(strings.TrimSpace(user.Email)),
		Phone:        user.Phone,
		Role:         string(user.Role),
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.UTC(),
		UpdatedAt:    user.UpdatedAt.UTC(),
	}
}

func decodeUserDocument(id string, doc userDocument) domain.User {
	return domain.User{
		ID:           id,
		Name:         doc.Name,
		Email:        doc.Email,
		Phone:        doc.Phone,
		Role:         domain.UserRole(doc.Role),
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
}

var _ repositories.UserRepository = (*UserRepository)(nil)
