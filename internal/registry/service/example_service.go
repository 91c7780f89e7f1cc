package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crudlandia/internal/registry/models"
	"crudlandia/internal/registry/query"
	dErrors "crudlandia/pkg/domain-errors"
	"crudlandia/pkg/platform/sentinel"
	"crudlandia/pkg/requestcontext"
)

// ExampleService orchestrates the example record lifecycle.
type ExampleService struct {
	examples   ExampleStore
	references ReferenceStore
	cfg        *serviceConfig
}

// NewExampleService constructs an ExampleService.
func NewExampleService(examples ExampleStore, references ReferenceStore, opts ...Option) *ExampleService {
	return &ExampleService{
		examples:   examples,
		references: references,
		cfg:        newServiceConfig(opts),
	}
}

// ExampleInput carries the client-settable fields of an example. Status is
// deliberately absent: it is forced ACTIVE on creation and only changed
// through Deactivate.
type ExampleInput struct {
	ReferenceID uuid.UUID
	Name        string
	Description *string
	Sequence    int
	Value       *decimal.Decimal
	Weight      *float64
	// IssuedAt zero on create means "now". On update it is required.
	IssuedAt time.Time
}

// Create validates name uniqueness and the reference foreign key, defaults
// the issued time, forces ACTIVE status, and persists a new example.
func (s *ExampleService) Create(ctx context.Context, in ExampleInput) (*models.Example, error) {
	var created *models.Example
	err := s.cfg.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if existing, err := s.findByName(txCtx, in.Name); err != nil {
			return err
		} else if existing != nil {
			s.cfg.incrementConflicts()
			return nameConflict(in.Name, existing.ID.String())
		}

		if err := s.resolveReference(txCtx, in.ReferenceID); err != nil {
			return err
		}

		issuedAt := in.IssuedAt
		if issuedAt.IsZero() {
			issuedAt = requestcontext.Now(txCtx)
		}

		e, err := models.NewExample(in.ReferenceID, in.Name, in.Description, in.Sequence, in.Value, in.Weight, issuedAt)
		if err != nil {
			return asValidation(err)
		}

		if err := s.examples.Insert(txCtx, e); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				// Lost the race past the pre-check; the unique index won.
				s.cfg.incrementConflicts()
				return nameConflict(in.Name, "")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create example")
		}
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.logAudit(ctx, "example_created", "example_id", created.ID)
	if s.cfg.metrics != nil {
		s.cfg.metrics.IncrementExamplesCreated()
	}
	return created, nil
}

// Update overwrites every field except status, re-validating name uniqueness
// against other records and the reference foreign key. A stale version is
// reported as a retryable conflict, never silently resolved.
func (s *ExampleService) Update(ctx context.Context, id uuid.UUID, in ExampleInput) (*models.Example, error) {
	var updated *models.Example
	err := s.cfg.tx.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.load(txCtx, id)
		if err != nil {
			return err
		}

		// A same-id match is the record keeping its own name, not a conflict.
		if other, err := s.findByName(txCtx, in.Name); err != nil {
			return err
		} else if other != nil && other.ID != id {
			s.cfg.incrementConflicts()
			return nameConflict(in.Name, other.ID.String())
		}

		if err := s.resolveReference(txCtx, in.ReferenceID); err != nil {
			return err
		}

		if err := e.ApplyUpdate(in.ReferenceID, in.Name, in.Description, in.Sequence, in.Value, in.Weight, in.IssuedAt); err != nil {
			return asValidation(err)
		}

		if err := s.persist(txCtx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.logAudit(ctx, "example_updated", "example_id", id)
	return updated, nil
}

// GetByID returns the example or a not-found error.
func (s *ExampleService) GetByID(ctx context.Context, id uuid.UUID) (*models.Example, error) {
	return s.load(ctx, id)
}

// List serves a filtered, sorted, bounded page of examples. Sort parameters
// are validated against the whitelist before any store interaction.
func (s *ExampleService) List(ctx context.Context, q query.ExampleQuery) (*query.Page[*models.Example], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	rows, total, err := s.examples.Query(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list examples")
	}
	if s.cfg.metrics != nil {
		s.cfg.metrics.ObserveList(start)
	}
	return &query.Page[*models.Example]{
		Items:      rows,
		TotalCount: total,
		PageNumber: q.Page.Number,
		PageSize:   q.Page.Size,
	}, nil
}

// Delete removes the row entirely. No tombstone is kept; use Deactivate for
// a reversible shutdown.
func (s *ExampleService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.cfg.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.examples.Delete(txCtx, id); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return notFound(id)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete example")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cfg.logAudit(ctx, "example_deleted", "example_id", id)
	return nil
}

// Deactivate transitions the example to INACTIVE and durably persists the
// change through the store's version-checked update.
func (s *ExampleService) Deactivate(ctx context.Context, id uuid.UUID) (*models.Example, error) {
	var deactivated *models.Example
	err := s.cfg.tx.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.load(txCtx, id)
		if err != nil {
			return err
		}
		e.Deactivate()
		if err := s.persist(txCtx, e); err != nil {
			return err
		}
		deactivated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cfg.logAudit(ctx, "example_deactivated", "example_id", id)
	return deactivated, nil
}

func (s *ExampleService) load(ctx context.Context, id uuid.UUID) (*models.Example, error) {
	e, err := s.examples.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load example")
	}
	return e, nil
}

func (s *ExampleService) findByName(ctx context.Context, name string) (*models.Example, error) {
	e, err := s.examples.FindByName(ctx, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check example name")
	}
	return e, nil
}

func (s *ExampleService) resolveReference(ctx context.Context, referenceID uuid.UUID) error {
	if _, err := s.references.FindByID(ctx, referenceID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeReferenceNotFound, "reference not found").
				With("reference_id", referenceID.String())
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reference")
	}
	return nil
}

func (s *ExampleService) persist(ctx context.Context, e *models.Example) error {
	if err := s.examples.Update(ctx, e); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrVersionConflict):
			s.cfg.incrementConflicts()
			return dErrors.New(dErrors.CodeVersionConflict, "example was modified concurrently").
				With("id", e.ID.String())
		case errors.Is(err, sentinel.ErrDuplicate):
			s.cfg.incrementConflicts()
			return nameConflict(e.Name, "")
		case errors.Is(err, sentinel.ErrNotFound):
			return notFound(e.ID)
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update example")
		}
	}
	return nil
}

func nameConflict(name, existingID string) *dErrors.Error {
	err := dErrors.New(dErrors.CodeNameConflict, "example name already in use").With("name", name)
	if existingID != "" {
		err = err.With("existing_id", existingID)
	}
	return err
}

func notFound(id uuid.UUID) *dErrors.Error {
	return dErrors.New(dErrors.CodeNotFound, "example not found").With("id", id.String())
}

// asValidation converts model invariant violations into validation errors
// for the API response, leaving other errors untouched.
func asValidation(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) && de.Code == dErrors.CodeInvariantViolation {
		return dErrors.New(dErrors.CodeValidation, de.Message)
	}
	return err
}
