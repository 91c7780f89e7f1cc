package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"crudlandia/internal/registry/models"
	dErrors "crudlandia/pkg/domain-errors"
	"crudlandia/pkg/platform/sentinel"
)

// ReferenceService manages the lookup records examples point at. References
// are create-and-read only.
type ReferenceService struct {
	references ReferenceStore
	cfg        *serviceConfig
}

// NewReferenceService constructs a ReferenceService.
func NewReferenceService(references ReferenceStore, opts ...Option) *ReferenceService {
	return &ReferenceService{
		references: references,
		cfg:        newServiceConfig(opts),
	}
}

// Create validates and persists a new reference.
func (s *ReferenceService) Create(ctx context.Context, code, name string) (*models.Reference, error) {
	ref, err := models.NewReference(code, name)
	if err != nil {
		return nil, asValidation(err)
	}

	err = s.cfg.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.references.Insert(txCtx, ref); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create reference")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.logAudit(ctx, "reference_created", "reference_id", ref.ID)
	if s.cfg.metrics != nil {
		s.cfg.metrics.IncrementReferencesCreated()
	}
	return ref, nil
}

// GetByID returns the reference or a not-found error.
func (s *ReferenceService) GetByID(ctx context.Context, id uuid.UUID) (*models.Reference, error) {
	ref, err := s.references.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "reference not found").With("id", id.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reference")
	}
	return ref, nil
}
