package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudlandia/internal/registry/models"
	dErrors "crudlandia/pkg/domain-errors"
)

func validExampleQuery() ExampleQuery {
	return ExampleQuery{
		Sort: Sort{Column: "name", Direction: "asc"},
		Page: PageRequest{Number: 1, Size: 10},
	}
}

func TestExampleQueryValidate(t *testing.T) {
	t.Run("accepts whitelisted column", func(t *testing.T) {
		q := validExampleQuery()
		require.NoError(t, q.Validate())
	})

	t.Run("rejects unknown column", func(t *testing.T) {
		q := validExampleQuery()
		q.Sort.Column = "nonexistent"
		err := q.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidSortColumn))
		assert.Equal(t, "nonexistent", dErrors.Details(err)["column"])
	})

	t.Run("rejects column not in this entity's whitelist", func(t *testing.T) {
		q := validExampleQuery()
		q.Sort.Column = "brand" // sortable for products, not examples
		assert.True(t, dErrors.HasCode(q.Validate(), dErrors.CodeInvalidSortColumn))
	})

	t.Run("rejects unknown direction", func(t *testing.T) {
		q := validExampleQuery()
		q.Sort.Direction = "sideways"
		err := q.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidSortDirection))
		assert.Equal(t, "sideways", dErrors.Details(err)["direction"])
	})

	t.Run("normalizes direction case", func(t *testing.T) {
		q := validExampleQuery()
		q.Sort.Direction = "DESC"
		require.NoError(t, q.Validate())
		assert.Equal(t, Descending, q.Sort.Direction)
	})

	t.Run("rejects zero page number", func(t *testing.T) {
		q := validExampleQuery()
		q.Page.Number = 0
		assert.True(t, dErrors.HasCode(q.Validate(), dErrors.CodeValidation))
	})

	t.Run("rejects zero page size", func(t *testing.T) {
		q := validExampleQuery()
		q.Page.Size = 0
		assert.True(t, dErrors.HasCode(q.Validate(), dErrors.CodeValidation))
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		q := validExampleQuery()
		bogus := models.ExampleStatus("PENDING")
		q.Status = &bogus
		assert.True(t, dErrors.HasCode(q.Validate(), dErrors.CodeValidation))
	})
}

func TestProductQueryValidate(t *testing.T) {
	q := ProductQuery{
		Sort: Sort{Column: "expiry", Direction: "desc"},
		Page: PageRequest{Number: 2, Size: 25},
	}
	require.NoError(t, q.Validate())

	q.Sort.Column = "issued_at" // example column, not a product one
	assert.True(t, dErrors.HasCode(q.Validate(), dErrors.CodeInvalidSortColumn))
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Number: 1, Size: 10}.Offset())
	assert.Equal(t, 10, PageRequest{Number: 2, Size: 10}.Offset())
	assert.Equal(t, 50, PageRequest{Number: 11, Size: 5}.Offset())
}
