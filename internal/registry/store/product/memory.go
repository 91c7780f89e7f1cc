package product

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

// InMemory keeps products in a mutex-guarded map with independent code and
// name uniqueness indexes, mirroring the two unique indexes of the Postgres
// store. Records go in and out as copies.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*models.Product
	byCode map[string]uuid.UUID
	byName map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[uuid.UUID]*models.Product),
		byCode: make(map[string]uuid.UUID),
		byName: make(map[string]uuid.UUID),
	}
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(p), nil
}

func (s *InMemory) FindByCode(_ context.Context, code string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.byID[id]), nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.byID[id]), nil
}

// Insert assigns identity and audit state and persists the record. Code and
// name uniqueness are enforced as two independent constraints under the
// store lock.
func (s *InMemory) Insert(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byCode[p.Code]; taken {
		return sentinel.ErrDuplicate
	}
	if _, taken := s.byName[p.Name]; taken {
		return sentinel.ErrDuplicate
	}
	p.StampInsert(uuid.New(), requestcontext.Now(ctx), requestcontext.Actor(ctx))
	s.byID[p.ID] = clone(p)
	s.byCode[p.Code] = p.ID
	s.byName[p.Name] = p.ID
	return nil
}

// Update persists p if the stored version still matches p.Version, then
// advances p's audit state. Uniqueness of code and name against other rows
// is still enforced here even though the service update path does not
// pre-check it.
func (s *InMemory) Update(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if cur.Version != p.Version {
		return sentinel.ErrVersionConflict
	}
	if otherID, taken := s.byCode[p.Code]; taken && otherID != p.ID {
		return sentinel.ErrDuplicate
	}
	if otherID, taken := s.byName[p.Name]; taken && otherID != p.ID {
		return sentinel.ErrDuplicate
	}
	p.StampUpdate(requestcontext.Now(ctx), requestcontext.Actor(ctx))
	delete(s.byCode, cur.Code)
	delete(s.byName, cur.Name)
	s.byID[p.ID] = clone(p)
	s.byCode[p.Code] = p.ID
	s.byName[p.Name] = p.ID
	return nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byCode, p.Code)
	delete(s.byName, p.Name)
	delete(s.byID, id)
	return nil
}

// Query applies the conjunctive filters, orders by the requested column, and
// returns one page plus the total match count.
func (s *InMemory) Query(_ context.Context, q query.ProductQuery) ([]*models.Product, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*models.Product
	for _, p := range s.byID {
		if !matchesProduct(p, q) {
			continue
		}
		matches = append(matches, clone(p))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if q.Sort.Direction == query.Descending {
			a, b = b, a
		}
		return productLess(a, b, q.Sort.Column)
	})

	offset := q.Page.Offset()
	if offset >= len(matches) {
		return []*models.Product{}, len(matches), nil
	}
	end := offset + q.Page.Size
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], len(matches), nil
}

func matchesProduct(p *models.Product, q query.ProductQuery) bool {
	if q.CreatedFrom != nil && p.CreatedAt.Before(*q.CreatedFrom) {
		return false
	}
	if q.CreatedTo != nil && p.CreatedAt.After(*q.CreatedTo) {
		return false
	}
	if q.Code != "" && !strings.Contains(strings.ToLower(p.Code), strings.ToLower(q.Code)) {
		return false
	}
	if q.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Name)) {
		return false
	}
	if q.Active != nil && p.Active != *q.Active {
		return false
	}
	return true
}

func productLess(a, b *models.Product, column string) bool {
	switch column {
	case "code":
		return a.Code < b.Code
	case "name":
		return a.Name < b.Name
	case "value":
		return a.Value.LessThan(b.Value)
	case "brand":
		switch {
		case a.Brand == nil:
			return b.Brand != nil
		case b.Brand == nil:
			return false
		default:
			return *a.Brand < *b.Brand
		}
	case "expiry":
		switch {
		case a.Expiry == nil:
			return b.Expiry != nil
		case b.Expiry == nil:
			return false
		default:
			return a.Expiry.Before(*b.Expiry)
		}
	case "active":
		return !a.Active && b.Active
	case "created_at":
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return false
}

func clone(p *models.Product) *models.Product {
	out := *p
	if p.Brand != nil {
		b := *p.Brand
		out.Brand = &b
	}
	if p.Expiry != nil {
		e := *p.Expiry
		out.Expiry = &e
	}
	return &out
}
