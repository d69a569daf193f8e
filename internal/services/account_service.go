package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/platform/auth"
	"github.com/tridala-nutra/api/internal/repositories"
)

const minPasswordLength = 6

var (
	// ErrAccountInvalidInput signals the caller provided invalid registration data.
	ErrAccountInvalidInput = errors.New("account: invalid input")
	// ErrAccountEmailTaken indicates the email is already registered.
	ErrAccountEmailTaken = errors.New("account: email already registered")
	// ErrAccountInvalidCredentials indicates a failed login attempt.
	ErrAccountInvalidCredentials = errors.New("account: invalid credentials")
	// ErrAccountNotFound indicates the account could not be located.
	ErrAccountNotFound = errors.New("account: not found")
	// ErrAccountUnavailable indicates a transient backend outage.
	ErrAccountUnavailable = errors.New("account: storage unavailable")
)

// TokenMinter issues bearer tokens for authenticated principals.
type TokenMinter interface {
	Issue(identity auth.Identity) (string, error)
}

// AccountServiceDeps bundles collaborators required to construct the account service.
type AccountServiceDeps struct {
	Users       repositories.UserRepository
	Tokens      TokenMinter
	Clock       func() time.Time
	IDGenerator func(prefix string) string
	// BcryptCost lets tests lower the hashing cost; zero means bcrypt.DefaultCost.
	BcryptCost int
}

type accountService struct {
	users  repositories.UserRepository
	tokens TokenMinter
	clock  func() time.Time
	newID  func(prefix string) string
	cost   int
}

// NewAccountService wires dependencies into a concrete AccountService implementation.
func NewAccountService(deps AccountServiceDeps) (AccountService, error) {
	if deps.Users == nil {
		return nil, errors.New("account service: user repository is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("account service: token minter is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = domain.NewID
	}
	cost := deps.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &accountService{
		users:  deps.Users,
		tokens: deps.Tokens,
		clock: func() time.Time {
			return clock().UTC()
		},
		newID: idGen,
		cost:  cost,
	}, nil
}

func (s *accountService) Register(ctx context.Context, cmd RegisterCommand) (AuthResult, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return AuthResult{}, fmt.Errorf("%w: name is required", ErrAccountInvalidInput)
	}
	email, err := normaliseEmail(cmd.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if len(cmd.Password) < minPasswordLength {
		return AuthResult{}, fmt.Errorf("%w: password must be at least %d characters", ErrAccountInvalidInput, minPasswordLength)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return AuthResult{}, fmt.Errorf("%w: %s", ErrAccountEmailTaken, email)
	} else if !repositories.IsNotFound(err) {
		return AuthResult{}, s.mapRepositoryError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.cost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("account: hash password: %w", err)
	}

	now := s.clock()
	user := domain.User{
		ID:           s.newID(domain.UserIDPrefix),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(cmd.Phone),
		Role:         domain.RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if repositories.IsConflict(err) {
			return AuthResult{}, fmt.Errorf("%w: %s", ErrAccountEmailTaken, email)
		}
		return AuthResult{}, s.mapRepositoryError(err)
	}

	return s.authResult(user)
}

func (s *accountService) Login(ctx context.Context, cmd LoginCommand) (AuthResult, error) {
	email, err := normaliseEmail(cmd.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if cmd.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: password is required", ErrAccountInvalidInput)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			// Same failure as a wrong password so the endpoint does not
			// reveal which emails are registered.
			return AuthResult{}, ErrAccountInvalidCredentials
		}
		return AuthResult{}, s.mapRepositoryError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return AuthResult{}, ErrAccountInvalidCredentials
	}

	return s.authResult(user)
}

func (s *accountService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if !domain.IsValidUserID(userID) {
		return domain.User{}, fmt.Errorf("%w: %s", ErrAccountNotFound, userID)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, s.mapRepositoryError(err)
	}
	return user, nil
}

func (s *accountService) authResult(user domain.User) (AuthResult, error) {
	token, err := s.tokens.Issue(auth.Identity{
		UID:   user.ID,
		Email: user.Email,
		Role:  string(user.Role),
	})
	if err != nil {
		return AuthResult{}, fmt.Errorf("account: issue token: %w", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *accountService) mapRepositoryError(err error) error {
	switch {
	case repositories.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrAccountNotFound, err)
	case repositories.IsUnavailable(err):
		return fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
	default:
		return err
	}
}

func normaliseEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrAccountInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: email is malformed", ErrAccountInvalidInput)
	}
	return email, nil
}
