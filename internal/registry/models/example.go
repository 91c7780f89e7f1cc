package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dErrors "crudlandia/pkg/domain-errors"
)

const (
	maxExampleNameLen        = 80
	maxExampleDescriptionLen = 200
)

// ExampleStatus is the lifecycle state of an example record.
type ExampleStatus string

const (
	StatusActive   ExampleStatus = "ACTIVE"
	StatusInactive ExampleStatus = "INACTIVE"
)

// Valid reports whether s is a known status value.
func (s ExampleStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Example is the main record of the registry.
//
// Invariants:
//   - Name is non-empty, at most 80 characters, and globally unique
//   - ReferenceID must resolve to an existing Reference
//   - Status is always ACTIVE on creation and never client-settable there
type Example struct {
	Audit
	ReferenceID uuid.UUID        `json:"reference_id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Sequence    int              `json:"sequence"`
	Value       *decimal.Decimal `json:"value,omitempty"`
	Weight      *float64         `json:"weight,omitempty"`
	IssuedAt    time.Time        `json:"issued_at"`
	Status      ExampleStatus    `json:"status"`
}

// NewExample validates invariants and builds an unpersisted example.
// Status is forced to ACTIVE regardless of what the caller wanted.
func NewExample(referenceID uuid.UUID, name string, description *string, sequence int,
	value *decimal.Decimal, weight *float64, issuedAt time.Time) (*Example, error) {

	if err := validateExampleFields(referenceID, name, description, issuedAt); err != nil {
		return nil, err
	}
	return &Example{
		ReferenceID: referenceID,
		Name:        name,
		Description: description,
		Sequence:    sequence,
		Value:       value,
		Weight:      weight,
		IssuedAt:    issuedAt,
		Status:      StatusActive,
	}, nil
}

// ApplyUpdate overwrites every mutable field. Status is untouched: lifecycle
// transitions go through Deactivate only.
func (e *Example) ApplyUpdate(referenceID uuid.UUID, name string, description *string,
	sequence int, value *decimal.Decimal, weight *float64, issuedAt time.Time) error {

	if err := validateExampleFields(referenceID, name, description, issuedAt); err != nil {
		return err
	}
	e.ReferenceID = referenceID
	e.Name = name
	e.Description = description
	e.Sequence = sequence
	e.Value = value
	e.Weight = weight
	e.IssuedAt = issuedAt
	return nil
}

// Deactivate transitions the example to INACTIVE. The transition is
// idempotent; persisting it is the caller's job.
func (e *Example) Deactivate() {
	e.Status = StatusInactive
}

func (e *Example) IsActive() bool {
	return e.Status == StatusActive
}

func validateExampleFields(referenceID uuid.UUID, name string, description *string, issuedAt time.Time) error {
	if referenceID == uuid.Nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "example reference id is required")
	}
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "example name cannot be empty")
	}
	if len(name) > maxExampleNameLen {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "example name must be %d characters or less", maxExampleNameLen)
	}
	if description != nil && len(*description) > maxExampleDescriptionLen {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "example description must be %d characters or less", maxExampleDescriptionLen)
	}
	if issuedAt.IsZero() {
		return dErrors.New(dErrors.CodeInvariantViolation, "example issued time is required")
	}
	return nil
}
