// Package http provides http transport for policy administration
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"ordersnag/internal/modkit/httpkit"
	"ordersnag/internal/services/api/policies/domain"
	poldom "ordersnag/internal/services/policies/domain"
)

// Register mounts policy endpoints on the given router
func Register(r httpkit.Router, reader poldom.ReaderPort, writer poldom.WriterPort) {
	h := &handlers{reader: reader, writer: writer}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{platform}", h.get)
	httpkit.PutJSON[domain.UpsertInput](r, "/{platform}", h.upsert)
	httpkit.Delete(r, "/{platform}", h.remove)
}

type handlers struct {
	reader poldom.ReaderPort
	writer poldom.WriterPort
}

// swagger:route GET /policies Policies policiesList
// @Summary List all platform policies
// @Tags Policies
// @Produce json
// @Success 200 type domain.ListOutput ok
// @Router /policies [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	pols, err := h.reader.List(r.Context())
	if err != nil {
		return nil, err
	}
	return domain.ListOutput{Policies: pols}, nil
}

// swagger:route GET /policies/{platform} Policies policiesGet
// @Summary Fetch one platform policy
// @Tags Policies
// @Produce json
// @Param platform path string true "platform name"
// @Success 200 type poldom.PlatformPolicy ok
// @Router /policies/{platform} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.reader.Get(r.Context(), chi.URLParam(r, "platform"))
}

// swagger:route PUT /policies/{platform} Policies policiesUpsert
// @Summary Create or replace a platform policy
// @Tags Policies
// @Accept json
// @Produce json
// @Param platform path string true "platform name"
// @Param payload body domain.UpsertInput true "Policy"
// @Success 200 type poldom.PlatformPolicy ok
// @Router /policies/{platform} [put]
func (h *handlers) upsert(r *stdhttp.Request, in domain.UpsertInput) (any, error) {
	return h.writer.Upsert(r.Context(), in.Policy(chi.URLParam(r, "platform")))
}

// swagger:route DELETE /policies/{platform} Policies policiesDelete
// @Summary Remove a platform policy
// @Tags Policies
// @Produce json
// @Param platform path string true "platform name"
// @Success 200 type map[string]bool ok
// @Router /policies/{platform} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	if err := h.writer.Delete(r.Context(), chi.URLParam(r, "platform")); err != nil {
		return nil, err
	}
	return map[string]bool{"deleted": true}, nil
}
