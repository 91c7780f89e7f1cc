package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit is the shared identity and audit metadata embedded into every record.
//
// Invariants:
//   - ID is assigned by the store on insert and immutable thereafter
//   - Version starts at 1 on insert and increments on every successful update
//   - a write referencing a stale Version must fail, never silently overwrite
//
// Population is a storage concern: stores stamp these fields on insert and
// update so entity code never touches them.
type Audit struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by"`
	Version   int64     `json:"version"`
}

// StampInsert assigns identity and initial audit state. Called by stores only.
func (a *Audit) StampInsert(id uuid.UUID, now time.Time, actor string) {
	a.ID = id
	a.CreatedAt = now
	a.CreatedBy = actor
	a.UpdatedAt = now
	a.UpdatedBy = actor
	a.Version = 1
}

// StampUpdate advances the audit state after a successful version-checked
// write. Called by stores only.
func (a *Audit) StampUpdate(now time.Time, actor string) {
	a.UpdatedAt = now
	a.UpdatedBy = actor
	a.Version++
}
