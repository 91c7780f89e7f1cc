package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "crudlandia/pkg/domain-errors"
)

func TestNewReference(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ref, err := NewReference("REF001", "Test")
		require.NoError(t, err)
		assert.Equal(t, "REF001", ref.Code)
		assert.Equal(t, "Test", ref.Name)
		assert.Equal(t, uuid.Nil, ref.ID, "identity is assigned by the store")
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewReference("", "Test")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects code over 10 chars", func(t *testing.T) {
		_, err := NewReference(strings.Repeat("X", 11), "Test")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects name over 80 chars", func(t *testing.T) {
		_, err := NewReference("REF001", strings.Repeat("n", 81))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestNewExample(t *testing.T) {
	refID := uuid.New()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("status is always ACTIVE on creation", func(t *testing.T) {
		e, err := NewExample(refID, "Ex1", nil, 1, nil, nil, issued)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, e.Status)
		assert.True(t, e.IsActive())
	})

	t.Run("rejects missing reference id", func(t *testing.T) {
		_, err := NewExample(uuid.Nil, "Ex1", nil, 1, nil, nil, issued)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects name over 80 chars", func(t *testing.T) {
		_, err := NewExample(refID, strings.Repeat("n", 81), nil, 1, nil, nil, issued)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects description over 200 chars", func(t *testing.T) {
		desc := strings.Repeat("d", 201)
		_, err := NewExample(refID, "Ex1", &desc, 1, nil, nil, issued)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects zero issued time", func(t *testing.T) {
		_, err := NewExample(refID, "Ex1", nil, 1, nil, nil, time.Time{})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestExampleApplyUpdateLeavesStatusAlone(t *testing.T) {
	refID := uuid.New()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	e, err := NewExample(refID, "Ex1", nil, 1, nil, nil, issued)
	require.NoError(t, err)
	e.Deactivate()

	val := decimal.RequireFromString("19.90")
	weight := 2.5
	require.NoError(t, e.ApplyUpdate(refID, "Ex1 renamed", nil, 2, &val, &weight, issued))

	assert.Equal(t, StatusInactive, e.Status, "update must not touch status")
	assert.Equal(t, "Ex1 renamed", e.Name)
	assert.Equal(t, 2, e.Sequence)
}

func TestProductApplyUpdatePartialFields(t *testing.T) {
	brand := "Acme"
	expiry := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	p, err := NewProduct("P-1", "Widget", decimal.RequireFromString("10.00"), &brand, &expiry, true)
	require.NoError(t, err)

	t.Run("absent brand and expiry are retained", func(t *testing.T) {
		require.NoError(t, p.ApplyUpdate("P-1", "Widget v2", decimal.RequireFromString("12.00"), nil, nil, true))
		require.NotNil(t, p.Brand)
		assert.Equal(t, "Acme", *p.Brand)
		require.NotNil(t, p.Expiry)
		assert.Equal(t, expiry, *p.Expiry)
		assert.Equal(t, "Widget v2", p.Name)
	})

	t.Run("supplied brand overwrites", func(t *testing.T) {
		newBrand := "Globex"
		require.NoError(t, p.ApplyUpdate("P-1", "Widget v2", decimal.RequireFromString("12.00"), &newBrand, nil, true))
		assert.Equal(t, "Globex", *p.Brand)
	})
}

func TestProductDeactivateIsIdempotent(t *testing.T) {
	p, err := NewProduct("P-1", "Widget", decimal.RequireFromString("10.00"), nil, nil, true)
	require.NoError(t, err)

	p.Deactivate()
	assert.False(t, p.Active)
	p.Deactivate()
	assert.False(t, p.Active)
}

func TestAuditStamping(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	id := uuid.New()

	var a Audit
	a.StampInsert(id, now, "alice")
	assert.Equal(t, id, a.ID)
	assert.Equal(t, int64(1), a.Version)
	assert.Equal(t, "alice", a.CreatedBy)
	assert.Equal(t, now, a.UpdatedAt)

	a.StampUpdate(later, "bob")
	assert.Equal(t, int64(2), a.Version)
	assert.Equal(t, "alice", a.CreatedBy, "creation audit is immutable")
	assert.Equal(t, "bob", a.UpdatedBy)
	assert.Equal(t, later, a.UpdatedAt)
}
