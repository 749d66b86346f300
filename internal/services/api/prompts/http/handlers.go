// Package http provides http transport for confirmation prompts
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"ordersnag/internal/modkit/httpkit"
	"ordersnag/internal/services/api/prompts/domain"
	prdom "ordersnag/internal/services/prompts/domain"
)

// Register mounts prompt endpoints on the given router
func Register(r httpkit.Router, reg prdom.RegistryPort) {
	h := &handlers{reg: reg}

	httpkit.Get(r, "/", h.pending)
	httpkit.PostJSON[domain.ReplyInput](r, "/{id}/reply", h.reply)
}

type handlers struct {
	reg prdom.RegistryPort
}

// swagger:route GET /prompts Prompts promptsPending
// @Summary List confirmation prompts awaiting a reply
// @Tags Prompts
// @Produce json
// @Success 200 type domain.PendingOutput ok
// @Router /prompts [get]
func (h *handlers) pending(_ *stdhttp.Request) (any, error) {
	return domain.PendingOutput{Prompts: h.reg.Pending()}, nil
}

// swagger:route POST /prompts/{id}/reply Prompts promptsReply
// @Summary Answer a pending confirmation prompt
// @Tags Prompts
// @Accept json
// @Produce json
// @Param id path string true "prompt id"
// @Param payload body domain.ReplyInput true "Reply"
// @Success 200 type domain.ReplyOutput ok
// @Router /prompts/{id}/reply [post]
func (h *handlers) reply(r *stdhttp.Request, in domain.ReplyInput) (any, error) {
	id := chi.URLParam(r, "id")
	if err := h.reg.Resolve(id, *in.Accept); err != nil {
		return nil, err
	}
	return domain.ReplyOutput{ID: id, Resolved: true}, nil
}
