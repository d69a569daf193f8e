package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tridala-nutra/api/internal/platform/auth"
	"github.com/tridala-nutra/api/internal/platform/httpx"
	"github.com/tridala-nutra/api/internal/services"
)

const maxBodySize = 16 * 1024

// AccountHandlers exposes registration, login, and the profile endpoint.
type AccountHandlers struct {
	authn    *auth.Authenticator
	accounts services.AccountService
}

// NewAccountHandlers constructs a new AccountHandlers instance.
func NewAccountHandlers(authn *auth.Authenticator, accounts services.AccountService) *AccountHandlers {
	return &AccountHandlers{authn: authn, accounts: accounts}
}

// Routes registers the /auth endpoints.
func (h *AccountHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(authed chi.Router) {
		if h.authn != nil {
			authed.Use(h.authn.RequireAuth())
		}
		authed.Get("/me", h.me)
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AccountHandlers) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.accounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("account service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req registerRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	result, err := h.accounts.Register(ctx, services.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeAccountError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusCreated, authPayload{User: toUserPayload(result.User), Token: result.Token})
}

func (h *AccountHandlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.accounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("account service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req loginRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	result, err := h.accounts.Login(ctx, services.LoginCommand{Email: req.Email, Password: req.Password})
	if err != nil {
		writeAccountError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, authPayload{User: toUserPayload(result.User), Token: result.Token})
}

func (h *AccountHandlers) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.accounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("account service unavailable", http.StatusServiceUnavailable))
		return
	}

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil {
		httpx.WriteError(ctx, w, httpx.NewError("authentication required", http.StatusUnauthorized))
		return
	}

	user, err := h.accounts.GetProfile(ctx, identity.UID)
	if err != nil {
		writeAccountError(ctx, w, err)
		return
	}
	httpx.WriteJSON(ctx, w, http.StatusOK, toUserPayload(user))
}

func writeAccountError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrAccountInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError(err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrAccountInvalidCredentials):
		httpx.WriteError(ctx, w, httpx.NewError("invalid email or password", http.StatusUnauthorized))
	case errors.Is(err, services.ErrAccountEmailTaken):
		httpx.WriteError(ctx, w, httpx.NewError("email already registered", http.StatusConflict))
	case errors.Is(err, services.ErrAccountNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("account not found", http.StatusNotFound))
	case errors.Is(err, services.ErrAccountUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("account service temporarily unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("Internal Server Error", http.StatusInternalServerError))
	}
}

// decodeBody reads a bounded JSON request body. It writes the error response
// itself and reports whether decoding succeeded.
func decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("request body must be valid JSON", http.StatusBadRequest))
		return false
	}
	return true
}
