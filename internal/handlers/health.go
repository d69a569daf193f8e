package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"
)

// ReadinessCheck probes a single dependency, returning nil when healthy.
type ReadinessCheck func(ctx context.Context) error

// HealthHandlers serves the liveness and readiness endpoints.
type HealthHandlers struct {
	version   string
	startedAt time.Time
	clock     func() time.Time
	timeout   time.Duration
	checks    map[string]ReadinessCheck
}

// HealthOption customises the health handlers before construction.
type HealthOption func(*HealthHandlers)

// NewHealthHandlers constructs the health endpoints.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{
		clock:     time.Now,
		startedAt: time.Now(),
		timeout:   5 * time.Second,
		checks:    make(map[string]ReadinessCheck),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// WithHealthVersion records the build version reported by /healthz.
func WithHealthVersion(version string) HealthOption {
	return func(h *HealthHandlers) { h.version = version }
}

// WithHealthClock overrides the time source, mainly for tests.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithHealthStartedAt records the process start time used for uptime.
func WithHealthStartedAt(startedAt time.Time) HealthOption {
	return func(h *HealthHandlers) { h.startedAt = startedAt }
}

// WithReadinessCheck registers a named dependency probe run by /readyz.
func WithReadinessCheck(name string, check ReadinessCheck) HealthOption {
	return func(h *HealthHandlers) {
		if name != "" && check != nil {
			h.checks[name] = check
		}
	}
}

// Healthz reports process liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.clock()
	writeHealthJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   h.version,
		"uptime":    now.Sub(h.startedAt).String(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

// Readyz runs every registered dependency probe and reports 503 when any
// probe fails.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checks))
	var details []string

	for _, name := range h.checkNames() {
		if err := h.checks[name](ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = "unavailable"
			details = append(details, name+": "+err.Error())
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]any{
		"status": "ok",
		"checks": checks,
	}
	if status != http.StatusOK {
		body["status"] = "unavailable"
		body["details"] = details
	}
	writeHealthJSON(w, status, body)
}

func (h *HealthHandlers) checkNames() []string {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeHealthJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
