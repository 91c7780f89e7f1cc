package handler

import (
	"net/http"

	"crudlandia/pkg/platform/httputil"
	"crudlandia/pkg/requestcontext"
)

// CreateExample handles POST /api/examples.
func (h *Handler) CreateExample(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[ExampleRequest](w, r, h.logger)
	if !ok {
		return
	}

	created, err := h.examples.Create(r.Context(), req.toInput())
	if err != nil {
		h.writeServiceError(r, w, "example create", err)
		return
	}

	h.logger.InfoContext(r.Context(), "example created",
		"request_id", requestcontext.RequestID(r.Context()),
		"example_id", created.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// UpdateExample handles PUT /api/examples/{id}.
func (h *Handler) UpdateExample(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ExampleRequest](w, r, h.logger)
	if !ok {
		return
	}

	updated, err := h.examples.Update(r.Context(), id, req.toInput())
	if err != nil {
		h.writeServiceError(r, w, "example update", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// GetExample handles GET /api/examples/{id}.
func (h *Handler) GetExample(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, err := h.examples.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(r, w, "example get", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

// SearchExamples handles POST /api/examples/search.
func (h *Handler) SearchExamples(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[ExampleSearchRequest](w, r, h.logger)
	if !ok {
		return
	}

	page, err := h.examples.List(r.Context(), req.toQuery())
	if err != nil {
		h.writeServiceError(r, w, "example search", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// DeleteExample handles DELETE /api/examples/{id}.
func (h *Handler) DeleteExample(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.examples.Delete(r.Context(), id); err != nil {
		h.writeServiceError(r, w, "example delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeactivateExample handles PUT /api/examples/{id}/deactivate.
func (h *Handler) DeactivateExample(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, err := h.examples.Deactivate(r.Context(), id)
	if err != nil {
		h.writeServiceError(r, w, "example deactivate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}
