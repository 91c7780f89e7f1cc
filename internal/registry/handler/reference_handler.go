package handler

import (
	"net/http"

	"crudlandia/pkg/platform/httputil"
	"crudlandia/pkg/requestcontext"
)

// CreateReference handles POST /api/references.
func (h *Handler) CreateReference(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[ReferenceRequest](w, r, h.logger)
	if !ok {
		return
	}

	created, err := h.references.Create(r.Context(), req.Code, req.Name)
	if err != nil {
		h.writeServiceError(r, w, "reference create", err)
		return
	}

	h.logger.InfoContext(r.Context(), "reference created",
		"request_id", requestcontext.RequestID(r.Context()),
		"reference_id", created.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// GetReference handles GET /api/references/{id}.
func (h *Handler) GetReference(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ref, err := h.references.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(r, w, "reference get", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ref)
}
