package handler

import (
	"net/http"

	"crudlandia/pkg/platform/httputil"
	"crudlandia/pkg/requestcontext"
)

// CreateProduct handles POST /api/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[ProductRequest](w, r, h.logger)
	if !ok {
		return
	}

	created, err := h.products.Create(r.Context(), req.toInput())
	if err != nil {
		h.writeServiceError(r, w, "product create", err)
		return
	}

	h.logger.InfoContext(r.Context(), "product created",
		"request_id", requestcontext.RequestID(r.Context()),
		"product_id", created.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/products/{id}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ProductRequest](w, r, h.logger)
	if !ok {
		return
	}

	updated, err := h.products.Update(r.Context(), id, req.toInput())
	if err != nil {
		h.writeServiceError(r, w, "product update", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// GetProduct handles GET /api/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(r, w, "product get", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// SearchProducts handles POST /api/products/search.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[ProductSearchRequest](w, r, h.logger)
	if !ok {
		return
	}

	page, err := h.products.List(r.Context(), req.toQuery())
	if err != nil {
		h.writeServiceError(r, w, "product search", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// DeleteProduct handles DELETE /api/products/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		h.writeServiceError(r, w, "product delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeactivateProduct handles PUT /api/products/{id}/deactivate.
func (h *Handler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	p, err := h.products.Deactivate(r.Context(), id)
	if err != nil {
		h.writeServiceError(r, w, "product deactivate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}
