// Package handler wires the registry services to their HTTP endpoints.
// Handlers decode and validate request bodies, delegate to the services, and
// translate domain errors into the shared JSON envelope.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"crudlandia/internal/registry/models"
	"crudlandia/internal/registry/query"
	"crudlandia/internal/registry/service"
	dErrors "crudlandia/pkg/domain-errors"
	"crudlandia/pkg/platform/httputil"
)

// ExampleService defines the example operations the handler depends on.
type ExampleService interface {
	Create(ctx context.Context, in service.ExampleInput) (*models.Example, error)
	Update(ctx context.Context, id uuid.UUID, in service.ExampleInput) (*models.Example, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Example, error)
	List(ctx context.Context, q query.ExampleQuery) (*query.Page[*models.Example], error)
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) (*models.Example, error)
}

// ProductService defines the product operations the handler depends on.
type ProductService interface {
	Create(ctx context.Context, in service.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, in service.ProductInput) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, q query.ProductQuery) (*query.Page[*models.Product], error)
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ReferenceService defines the reference operations the handler depends on.
type ReferenceService interface {
	Create(ctx context.Context, code, name string) (*models.Reference, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reference, error)
}

// Handler wires registry endpoints to their services.
type Handler struct {
	examples   ExampleService
	products   ProductService
	references ReferenceService
	logger     *slog.Logger
}

// New constructs a registry handler with its dependencies.
func New(examples ExampleService, products ProductService, references ReferenceService, logger *slog.Logger) *Handler {
	return &Handler{
		examples:   examples,
		products:   products,
		references: references,
		logger:     logger,
	}
}

// Register mounts all registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/examples", func(r chi.Router) {
		r.Post("/", h.CreateExample)
		r.Post("/search", h.SearchExamples)
		r.Get("/{id}", h.GetExample)
		r.Put("/{id}", h.UpdateExample)
		r.Delete("/{id}", h.DeleteExample)
		r.Put("/{id}/deactivate", h.DeactivateExample)
	})
	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Post("/search", h.SearchProducts)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
		r.Put("/{id}/deactivate", h.DeactivateProduct)
	})
	r.Route("/api/references", func(r chi.Router) {
		r.Post("/", h.CreateReference)
		r.Get("/{id}", h.GetReference)
	})
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "id must be a valid UUID").With("id", raw)
	}
	return id, nil
}

func (h *Handler) writeServiceError(r *http.Request, w http.ResponseWriter, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(r.Context(), op+" failed", "error", err)
	}
	httputil.WriteError(w, err)
}
