package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/store"
	"github.com/aussiebroadwan/coursehub/pkg/authsdk"
	"github.com/aussiebroadwan/coursehub/pkg/httpx"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	StartTime time.Time
	Version   string
	Store     store.Store

	// TempTokens is probed separately when it is backed by something other
	// than Store.
	TempTokens store.TempTokens
}

func (h *HealthHandler) response(status string, checks *authsdk.HealthChecks) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.StartTime).Round(time.Second).String(),
		Version: h.Version,
		Checks:  checks,
	}
}

// HandleLivez godoc
//
//	@Summary		Liveness Check Endpoint
//	@Description	Returns 200 while the process is serving requests
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (h *HealthHandler) HandleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.response("ok", nil))
}

// HandleReadyz godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Probes the database and the 2FA temp-token store
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"all checks ok"
//	@Failure		503	{object}	authsdk.HealthResponse	"at least one check failed"
//	@Router			/readyz [get].
func (h *HealthHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := &authsdk.HealthChecks{
		Database:   probe(r.Context(), h.Store),
		TempTokens: "ok",
	}
	// sqlite temp tokens live in the same database and have no Ping.
	if p, ok := h.TempTokens.(pinger); ok {
		checks.TempTokens = probe(r.Context(), p)
	}

	if checks.Database != "ok" || checks.TempTokens != "ok" {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, h.response("degraded", checks))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.response("ok", checks))
}

func probe(ctx context.Context, p pinger) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
