package example

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"crudlandia/internal/registry/models"
	"crudlandia/internal/registry/query"
	"crudlandia/pkg/platform/sentinel"
	"crudlandia/pkg/requestcontext"
)

// InMemory keeps examples in a mutex-guarded map with a name uniqueness
// index, giving the same constraint guarantees the Postgres store gets from
// its unique index. Records are stored and returned as copies: a caller
// mutating a loaded record changes nothing until it calls Update.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*models.Example
	byName map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[uuid.UUID]*models.Example),
		byName: make(map[string]uuid.UUID),
	}
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Example, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(e), nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Example, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.byID[id]), nil
}

// Insert assigns identity and audit state and persists the record, enforcing
// name uniqueness atomically under the store lock.
func (s *InMemory) Insert(ctx context.Context, e *models.Example) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[e.Name]; taken {
		return sentinel.ErrDuplicate
	}
	e.StampInsert(uuid.New(), requestcontext.Now(ctx), requestcontext.Actor(ctx))
	s.byID[e.ID] = clone(e)
	s.byName[e.Name] = e.ID
	return nil
}

// Update persists e if the stored version still matches e.Version, then
// advances e's audit state. A concurrent writer having advanced the version
// yields ErrVersionConflict.
func (s *InMemory) Update(ctx context.Context, e *models.Example) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[e.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if cur.Version != e.Version {
		return sentinel.ErrVersionConflict
	}
	if otherID, taken := s.byName[e.Name]; taken && otherID != e.ID {
		return sentinel.ErrDuplicate
	}
	e.StampUpdate(requestcontext.Now(ctx), requestcontext.Actor(ctx))
	delete(s.byName, cur.Name)
	s.byID[e.ID] = clone(e)
	s.byName[e.Name] = e.ID
	return nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byName, e.Name)
	delete(s.byID, id)
	return nil
}

// Query applies the conjunctive filters, orders by the requested column, and
// returns one page plus the total match count.
func (s *InMemory) Query(_ context.Context, q query.ExampleQuery) ([]*models.Example, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*models.Example
	for _, e := range s.byID {
		if !matchesExample(e, q) {
			continue
		}
		matches = append(matches, clone(e))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if q.Sort.Direction == query.Descending {
			a, b = b, a
		}
		return exampleLess(a, b, q.Sort.Column)
	})

	return paginate(matches, q.Page), len(matches), nil
}

func matchesExample(e *models.Example, q query.ExampleQuery) bool {
	if q.IssuedFrom != nil && e.IssuedAt.Before(*q.IssuedFrom) {
		return false
	}
	if q.IssuedTo != nil && e.IssuedAt.After(*q.IssuedTo) {
		return false
	}
	if q.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(q.Name)) {
		return false
	}
	if q.Status != nil && e.Status != *q.Status {
		return false
	}
	return true
}

func exampleLess(a, b *models.Example, column string) bool {
	switch column {
	case "name":
		return a.Name < b.Name
	case "sequence":
		return a.Sequence < b.Sequence
	case "value":
		switch {
		case a.Value == nil:
			return b.Value != nil
		case b.Value == nil:
			return false
		default:
			return a.Value.LessThan(*b.Value)
		}
	case "weight":
		switch {
		case a.Weight == nil:
			return b.Weight != nil
		case b.Weight == nil:
			return false
		default:
			return *a.Weight < *b.Weight
		}
	case "issued_at":
		return a.IssuedAt.Before(b.IssuedAt)
	case "status":
		return a.Status < b.Status
	case "created_at":
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return false
}

func paginate(matches []*models.Example, p query.PageRequest) []*models.Example {
	offset := p.Offset()
	if offset >= len(matches) {
		return []*models.Example{}
	}
	end := offset + p.Size
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end]
}

func clone(e *models.Example) *models.Example {
	out := *e
	if e.Description != nil {
		d := *e.Description
		out.Description = &d
	}
	if e.Value != nil {
		v := *e.Value
		out.Value = &v
	}
	if e.Weight != nil {
		w := *e.Weight
		out.Weight = &w
	}
	return &out
}
