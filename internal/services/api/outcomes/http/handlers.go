// Package http provides http transport for recorded execution outcomes
package http

import (
	stdhttp "net/http"
	"strconv"

	"ordersnag/internal/modkit/httpkit"
	outdom "ordersnag/internal/services/outcomes/domain"
)

const defaultLimit = 50

// Register mounts outcome endpoints on the given router
func Register(r httpkit.Router, reader outdom.ReaderPort) {
	h := &handlers{reader: reader}

	httpkit.Get(r, "/", h.recent)
}

type handlers struct {
	reader outdom.ReaderPort
}

// RecentOutput wraps the most recent recorded outcomes
type RecentOutput struct {
	Outcomes []outdom.ExecutionOutcome `json:"outcomes"`
}

// swagger:route GET /outcomes Outcomes outcomesRecent
// @Summary Most recent execution outcomes
// @Tags Outcomes
// @Produce json
// @Param limit query int false "row cap, defaults to 50"
// @Success 200 type RecentOutput ok
// @Router /outcomes [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := h.reader.Recent(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	return RecentOutput{Outcomes: recs}, nil
}
