// Package query models the read path of the registry: filter/sort/page
// requests validated against per-entity whitelists before any store is
// touched. The query path is strictly read-only and never mutates records.
package query

import (
	"strings"
	"time"

	"crudlandia/internal/registry/models"
	dErrors "crudlandia/pkg/domain-errors"
)

// Sort directions accepted by the boundary. Anything else is rejected.
const (
	Ascending  = "asc"
	Descending = "desc"
)

// Sort is the requested ordering. Column must pass the entity's whitelist.
type Sort struct {
	Column    string
	Direction string
}

// PageRequest is 1-indexed: page 1 with size N returns the first N matches.
type PageRequest struct {
	Number int
	Size   int
}

// Offset translates the 1-indexed page into a row offset.
func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// Page is one bounded result page plus the total match count, so clients can
// compute page counts without a second query.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
}

// exampleSortColumns is the fixed whitelist of sortable example columns.
var exampleSortColumns = map[string]struct{}{
	"name":       {},
	"sequence":   {},
	"value":      {},
	"weight":     {},
	"issued_at":  {},
	"status":     {},
	"created_at": {},
}

// productSortColumns is the fixed whitelist of sortable product columns.
var productSortColumns = map[string]struct{}{
	"code":       {},
	"name":       {},
	"value":      {},
	"brand":      {},
	"expiry":     {},
	"active":     {},
	"created_at": {},
}

// ExampleQuery filters examples. All supplied filters are conjunctive;
// absent (zero/nil) filters are not applied. Date bounds are inclusive and
// apply to the issued timestamp.
type ExampleQuery struct {
	IssuedFrom *time.Time
	IssuedTo   *time.Time
	Name       string
	Status     *models.ExampleStatus
	Sort       Sort
	Page       PageRequest
}

// Validate rejects malformed sort and page parameters before any storage
// interaction and normalizes the sort direction.
func (q *ExampleQuery) Validate() error {
	if err := validateSort(&q.Sort, exampleSortColumns); err != nil {
		return err
	}
	if q.Status != nil && !q.Status.Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown status %q", string(*q.Status))
	}
	return validatePage(q.Page)
}

// ProductQuery filters products. Date bounds are inclusive and apply to the
// creation timestamp.
type ProductQuery struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Code        string
	Name        string
	Active      *bool
	Sort        Sort
	Page        PageRequest
}

// Validate rejects malformed sort and page parameters before any storage
// interaction and normalizes the sort direction.
func (q *ProductQuery) Validate() error {
	if err := validateSort(&q.Sort, productSortColumns); err != nil {
		return err
	}
	return validatePage(q.Page)
}

func validateSort(s *Sort, whitelist map[string]struct{}) error {
	if _, ok := whitelist[s.Column]; !ok {
		return dErrors.Newf(dErrors.CodeInvalidSortColumn, "column %q is not sortable", s.Column).
			With("column", s.Column)
	}
	dir := strings.ToLower(s.Direction)
	if dir != Ascending && dir != Descending {
		return dErrors.Newf(dErrors.CodeInvalidSortDirection, "direction %q is not one of asc, desc", s.Direction).
			With("direction", s.Direction)
	}
	s.Direction = dir
	return nil
}

func validatePage(p PageRequest) error {
	if p.Number < 1 {
		return dErrors.New(dErrors.CodeValidation, "page number must be at least 1")
	}
	if p.Size < 1 {
		return dErrors.New(dErrors.CodeValidation, "page size must be at least 1")
	}
	return nil
}
