// Package httpx implements the JSON response envelope shared by every
// endpoint: {"success": true, "data": ...} on the happy path, optionally with
// a pagination block, and {"success": false, "message": ...} on failure.
package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/tridala-nutra/api/internal/platform/requestctx"
)

// Pagination is the metadata block attached to list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// WriteJSON writes a success envelope with the provided payload.
func WriteJSON(ctx context.Context, w http.ResponseWriter, status int, data any) {
	write(ctx, w, status, envelope{Success: true, Data: data})
}

// WriteList writes a success envelope for a paginated collection.
func WriteList(ctx context.Context, w http.ResponseWriter, status int, data any, page Pagination) {
	write(ctx, w, status, envelope{Success: true, Data: data, Pagination: &page})
}

// Error represents the canonical JSON error envelope returned by the API.
type Error struct {
	Message string
	Status  int
}

// NewError constructs a new Error with the provided parameters.
func NewError(message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{
		Message: sanitize(message, 512),
		Status:  status,
	}
}

// Error implements the error interface.
func (e Error) Error() string { return e.Message }

// WriteError writes the structured error as JSON to the provided response writer.
func WriteError(ctx context.Context, w http.ResponseWriter, err Error) {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	write(ctx, w, status, envelope{Success: false, Message: err.Message})
}

func write(ctx context.Context, w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		requestctx.Logger(ctx).Warn("failed encoding response body", zap.Error(err))
	}
}

func sanitize(value string, limit int) string {
	if limit <= 0 {
		limit = 256
	}
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.TrimSpace(value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
