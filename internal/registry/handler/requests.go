package handler

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crudlandia/internal/registry/models"
	"crudlandia/internal/registry/query"
	"crudlandia/internal/registry/service"
	dErrors "crudlandia/pkg/domain-errors"
)

const (
	defaultSortColumn = "created_at"
	defaultPageSize   = 10
	maxPageSize       = 100
)

// ExampleRequest is the body for POST /api/examples and PUT /api/examples/{id}.
type ExampleRequest struct {
	ReferenceID string           `json:"reference_id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Sequence    int              `json:"sequence"`
	Value       *decimal.Decimal `json:"value"`
	Weight      *float64         `json:"weight"`
	IssuedAt    *time.Time       `json:"issued_at"`

	parsedReferenceID uuid.UUID
}

// Validate parses the reference id and rejects missing required fields.
// Field-level constraints beyond presence are the model's job.
func (r *ExampleRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.ReferenceID == "" {
		return dErrors.New(dErrors.CodeValidation, "reference_id is required")
	}
	refID, err := uuid.Parse(r.ReferenceID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "reference_id must be a valid UUID").
			With("reference_id", r.ReferenceID)
	}
	r.parsedReferenceID = refID
	return nil
}

func (r *ExampleRequest) toInput() service.ExampleInput {
	in := service.ExampleInput{
		ReferenceID: r.parsedReferenceID,
		Name:        r.Name,
		Description: r.Description,
		Sequence:    r.Sequence,
		Value:       r.Value,
		Weight:      r.Weight,
	}
	if r.IssuedAt != nil {
		in.IssuedAt = *r.IssuedAt
	}
	return in
}

// SearchPage carries the shared sort and page parameters of search bodies.
type SearchPage struct {
	ColumnType string `json:"column_type"`
	OrderType  string `json:"order_type"`
	PageNumber int    `json:"page_number"`
	PageSize   int    `json:"page_size"`
}

// normalize fills defaults and bounds the page size. Column and direction
// validity is checked by the query whitelist, not here.
func (p *SearchPage) normalize() error {
	if p.ColumnType == "" {
		p.ColumnType = defaultSortColumn
	}
	if p.OrderType == "" {
		p.OrderType = query.Ascending
	}
	if p.PageNumber == 0 {
		p.PageNumber = 1
	}
	if p.PageSize == 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		return dErrors.Newf(dErrors.CodeValidation, "page size must be at most %d", maxPageSize)
	}
	return nil
}

func (p *SearchPage) sort() query.Sort {
	return query.Sort{Column: p.ColumnType, Direction: p.OrderType}
}

func (p *SearchPage) page() query.PageRequest {
	return query.PageRequest{Number: p.PageNumber, Size: p.PageSize}
}

// ExampleSearchRequest is the body for POST /api/examples/search.
type ExampleSearchRequest struct {
	Name       string     `json:"name"`
	Status     *string    `json:"status"`
	IssuedFrom *time.Time `json:"issued_from"`
	IssuedTo   *time.Time `json:"issued_to"`
	SearchPage
}

func (r *ExampleSearchRequest) Validate() error {
	return r.normalize()
}

func (r *ExampleSearchRequest) toQuery() query.ExampleQuery {
	q := query.ExampleQuery{
		Name:       strings.TrimSpace(r.Name),
		IssuedFrom: r.IssuedFrom,
		IssuedTo:   r.IssuedTo,
		Sort:       r.sort(),
		Page:       r.page(),
	}
	if r.Status != nil {
		status := models.ExampleStatus(strings.ToUpper(*r.Status))
		q.Status = &status
	}
	return q
}

// ProductRequest is the body for POST /api/products and PUT /api/products/{id}.
// Value and active are required on every write: an omitted active must never
// silently reactivate a deactivated product, so there is no default.
type ProductRequest struct {
	Code   string           `json:"code"`
	Name   string           `json:"name"`
	Value  *decimal.Decimal `json:"value"`
	Brand  *string          `json:"brand"`
	Expiry *time.Time       `json:"expiry"`
	Active *bool            `json:"active"`
}

func (r *ProductRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	if r.Code == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Value == nil {
		return dErrors.New(dErrors.CodeValidation, "value is required")
	}
	if r.Active == nil {
		return dErrors.New(dErrors.CodeValidation, "active is required")
	}
	return nil
}

func (r *ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Code:   r.Code,
		Name:   r.Name,
		Value:  *r.Value,
		Brand:  r.Brand,
		Expiry: r.Expiry,
		Active: *r.Active,
	}
}

// ProductSearchRequest is the body for POST /api/products/search.
type ProductSearchRequest struct {
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Active      *bool      `json:"active"`
	CreatedFrom *time.Time `json:"created_from"`
	CreatedTo   *time.Time `json:"created_to"`
	SearchPage
}

func (r *ProductSearchRequest) Validate() error {
	return r.normalize()
}

func (r *ProductSearchRequest) toQuery() query.ProductQuery {
	return query.ProductQuery{
		Code:        strings.TrimSpace(r.Code),
		Name:        strings.TrimSpace(r.Name),
		Active:      r.Active,
		CreatedFrom: r.CreatedFrom,
		CreatedTo:   r.CreatedTo,
		Sort:        r.sort(),
		Page:        r.page(),
	}
}

// ReferenceRequest is the body for POST /api/references.
type ReferenceRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (r *ReferenceRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	if r.Code == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}
