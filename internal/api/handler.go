package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eugenenazirov/env-registry/internal/environment"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler exposes the environment registry over HTTP. The surface is
// read-only: selection happens once at bootstrap, never via the API.
type Handler struct {
	registry *environment.Registry

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler over the provided registry.
func NewHandler(registry *environment.Registry, opts ...HandlerOption) *Handler {
	h := &Handler{
		registry: registry,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	if id, err := h.registry.Current(); err == nil {
		resp.Environment = string(id)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetEnvironment(w http.ResponseWriter, r *http.Request) {
	_ = r
	id, err := h.registry.Current()
	if err != nil {
		writeRegistryError(w, err)
		return
	}

	name, err := h.registry.DisplayName()
	if err != nil {
		writeRegistryError(w, err)
		return
	}
	baseURL, err := h.registry.BaseURL()
	if err != nil {
		writeRegistryError(w, err)
		return
	}
	settings, err := h.registry.Settings()
	if err != nil {
		writeRegistryError(w, err)
		return
	}

	resp := environmentResponse{
		Environment: string(id),
		DisplayName: name,
		BaseURL:     baseURL,
		Settings:    settings,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListEnvironments(w http.ResponseWriter, r *http.Request) {
	_ = r
	current, _ := h.registry.Current()

	ids := h.registry.IDs()
	items := make([]environmentListItem, 0, len(ids))
	for _, id := range ids {
		cfg, ok := h.registry.Lookup(id)
		if !ok {
			continue
		}
		items = append(items, environmentListItem{
			Environment: string(id),
			DisplayName: cfg.DisplayName,
			BaseURL:     cfg.BaseURL,
			Current:     id == current,
		})
	}

	writeJSON(w, http.StatusOK, environmentListResponse{Environments: items})
}

func writeRegistryError(w http.ResponseWriter, err error) {
	if errors.Is(err, environment.ErrNotInitialized) {
		writeError(w, http.StatusServiceUnavailable, "Environment not selected", err.Error())
		return
	}
	writeInternalError(w, err)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type environmentResponse struct {
	Environment string            `json:"environment"`
	DisplayName string            `json:"displayName"`
	BaseURL     string            `json:"baseUrl"`
	Settings    map[string]string `json:"settings,omitempty"`
}

type environmentListItem struct {
	Environment string `json:"environment"`
	DisplayName string `json:"displayName"`
	BaseURL     string `json:"baseUrl"`
	Current     bool   `json:"current"`
}

type environmentListResponse struct {
	Environments []environmentListItem `json:"environments"`
}

type healthResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
