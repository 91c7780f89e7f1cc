package models

import (
	"time"

	"github.com/shopspring/decimal"

	dErrors "crudlandia/pkg/domain-errors"
)

// Product is an independently managed record with two uniqueness constraints.
//
// Invariants:
//   - Code and Name are both required and each globally unique, checked as
//     two independent constraints
type Product struct {
	Audit
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Value  decimal.Decimal `json:"value"`
	Brand  *string         `json:"brand,omitempty"`
	Expiry *time.Time      `json:"expiry,omitempty"`
	Active bool            `json:"active"`
}

// NewProduct validates invariants and builds an unpersisted product. All
// supplied fields are persisted as given; there is no default substitution.
func NewProduct(code, name string, value decimal.Decimal, brand *string, expiry *time.Time, active bool) (*Product, error) {
	if err := validateProductFields(code, name); err != nil {
		return nil, err
	}
	return &Product{
		Code:   code,
		Name:   name,
		Value:  value,
		Brand:  brand,
		Expiry: expiry,
		Active: active,
	}, nil
}

// ApplyUpdate overwrites code, name, value, and active unconditionally.
// Brand and expiry keep their stored values unless the caller supplied one:
// those two fields have partial-update semantics.
func (p *Product) ApplyUpdate(code, name string, value decimal.Decimal, brand *string, expiry *time.Time, active bool) error {
	if err := validateProductFields(code, name); err != nil {
		return err
	}
	p.Code = code
	p.Name = name
	p.Value = value
	if brand != nil {
		p.Brand = brand
	}
	if expiry != nil {
		p.Expiry = expiry
	}
	p.Active = active
	return nil
}

// Deactivate clears the active flag. Idempotent; persisting it is the
// caller's job.
func (p *Product) Deactivate() {
	p.Active = false
}

func validateProductFields(code, name string) error {
	if code == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "product code cannot be empty")
	}
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "product name cannot be empty")
	}
	return nil
}
