package models

import (
	dErrors "crudlandia/pkg/domain-errors"
)

const (
	maxReferenceCodeLen = 10
	maxReferenceNameLen = 80
)

// Reference is a lookup record that examples point at by foreign key.
// It is immutable once created: no update or delete operation exists, and it
// is never cascade-deleted when examples go away.
type Reference struct {
	Audit
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewReference validates invariants and builds an unpersisted reference.
// Identity and audit fields are stamped by the store on insert.
func NewReference(code, name string) (*Reference, error) {
	if code == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reference code cannot be empty")
	}
	if len(code) > maxReferenceCodeLen {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "reference code must be %d characters or less", maxReferenceCodeLen)
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reference name cannot be empty")
	}
	if len(name) > maxReferenceNameLen {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "reference name must be %d characters or less", maxReferenceNameLen)
	}
	return &Reference{Code: code, Name: name}, nil
}
