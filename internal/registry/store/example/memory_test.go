package example

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"crudlandia/internal/registry/models"
	"crudlandia/internal/registry/query"
	"crudlandia/pkg/platform/sentinel"
	"crudlandia/pkg/requestcontext"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) newExample(name string, sequence int) *models.Example {
	e, err := models.NewExample(uuid.New(), name, nil, sequence, nil, nil,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	return e
}

func (s *MemoryStoreSuite) TestInsertStampsIdentityAndAudit() {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithActor(requestcontext.WithTime(s.ctx, now), "tester")

	e := s.newExample("widget", 1)
	s.Require().NoError(s.store.Insert(ctx, e))

	s.NotEqual(uuid.Nil, e.ID)
	s.Equal(int64(1), e.Version)
	s.Equal(now, e.CreatedAt)
	s.Equal("tester", e.CreatedBy)
}

func (s *MemoryStoreSuite) TestInsertRejectsDuplicateName() {
	s.Require().NoError(s.store.Insert(s.ctx, s.newExample("widget", 1)))
	err := s.store.Insert(s.ctx, s.newExample("widget", 2))
	s.ErrorIs(err, sentinel.ErrDuplicate)
}

func (s *MemoryStoreSuite) TestLoadedRecordsAreIsolatedCopies() {
	e := s.newExample("widget", 1)
	s.Require().NoError(s.store.Insert(s.ctx, e))

	loaded, err := s.store.FindByID(s.ctx, e.ID)
	s.Require().NoError(err)
	loaded.Name = "mutated"

	again, err := s.store.FindByID(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal("widget", again.Name)
}

func (s *MemoryStoreSuite) TestUpdateRequiresMatchingVersion() {
	e := s.newExample("widget", 1)
	s.Require().NoError(s.store.Insert(s.ctx, e))

	stale, err := s.store.FindByID(s.ctx, e.ID)
	s.Require().NoError(err)

	e.Sequence = 2
	s.Require().NoError(s.store.Update(s.ctx, e))
	s.Equal(int64(2), e.Version)

	stale.Sequence = 3
	s.ErrorIs(s.store.Update(s.ctx, stale), sentinel.ErrVersionConflict)
}

func (s *MemoryStoreSuite) TestUpdateReindexesOnRename() {
	e := s.newExample("widget", 1)
	s.Require().NoError(s.store.Insert(s.ctx, e))

	e.Name = "gadget"
	s.Require().NoError(s.store.Update(s.ctx, e))

	_, err := s.store.FindByName(s.ctx, "widget")
	s.ErrorIs(err, sentinel.ErrNotFound)
	found, err := s.store.FindByName(s.ctx, "gadget")
	s.Require().NoError(err)
	s.Equal(e.ID, found.ID)

	// The old name is free for a new record now.
	s.NoError(s.store.Insert(s.ctx, s.newExample("widget", 2)))
}

func (s *MemoryStoreSuite) TestUpdateRejectsNameOwnedByOtherRecord() {
	a := s.newExample("widget", 1)
	s.Require().NoError(s.store.Insert(s.ctx, a))
	b := s.newExample("gadget", 2)
	s.Require().NoError(s.store.Insert(s.ctx, b))

	b.Name = "widget"
	s.ErrorIs(s.store.Update(s.ctx, b), sentinel.ErrDuplicate)
}

func (s *MemoryStoreSuite) TestDeleteFreesTheName() {
	e := s.newExample("widget", 1)
	s.Require().NoError(s.store.Insert(s.ctx, e))
	s.Require().NoError(s.store.Delete(s.ctx, e.ID))

	s.ErrorIs(s.store.Delete(s.ctx, e.ID), sentinel.ErrNotFound)
	s.NoError(s.store.Insert(s.ctx, s.newExample("widget", 2)))
}

func (s *MemoryStoreSuite) TestQueryFiltersSortsAndPaginates() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e, err := models.NewExample(uuid.New(), "record-"+string(rune('a'+i)), nil, i, nil, nil,
			base.AddDate(0, 0, i))
		s.Require().NoError(err)
		s.Require().NoError(s.store.Insert(s.ctx, e))
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 3)
	rows, total, err := s.store.Query(s.ctx, query.ExampleQuery{
		IssuedFrom: &from,
		IssuedTo:   &to,
		Sort:       query.Sort{Column: "issued_at", Direction: query.Descending},
		Page:       query.PageRequest{Number: 1, Size: 2},
	})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(rows, 2)
	s.Equal("record-d", rows[0].Name)
	s.Equal("record-c", rows[1].Name)

	rows, total, err = s.store.Query(s.ctx, query.ExampleQuery{
		IssuedFrom: &from,
		IssuedTo:   &to,
		Sort:       query.Sort{Column: "issued_at", Direction: query.Descending},
		Page:       query.PageRequest{Number: 2, Size: 2},
	})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(rows, 1)
	s.Equal("record-b", rows[0].Name)
}

func (s *MemoryStoreSuite) TestQueryNameFilterIsCaseInsensitiveSubstring() {
	for _, name := range []string{"Blue Widget", "red widget", "gadget"} {
		e := s.newExample(name, 0)
		s.Require().NoError(s.store.Insert(s.ctx, e))
	}

	rows, total, err := s.store.Query(s.ctx, query.ExampleQuery{
		Name: "WIDGET",
		Sort: query.Sort{Column: "name", Direction: query.Ascending},
		Page: query.PageRequest{Number: 1, Size: 10},
	})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Require().Len(rows, 2)
	s.Equal("Blue Widget", rows[0].Name)
}

func (s *MemoryStoreSuite) TestQueryPageBeyondMatchesIsEmptyWithTotal() {
	s.Require().NoError(s.store.Insert(s.ctx, s.newExample("widget", 1)))

	rows, total, err := s.store.Query(s.ctx, query.ExampleQuery{
		Sort: query.Sort{Column: "name", Direction: query.Ascending},
		Page: query.PageRequest{Number: 3, Size: 10},
	})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Empty(rows)
}
