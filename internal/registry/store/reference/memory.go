package reference

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"crudlandia/internal/registry/models"
	"crudlandia/pkg/platform/sentinel"
	"crudlandia/pkg/requestcontext"
)

// InMemory keeps references in a mutex-guarded map. References are immutable
// once created, so the store only inserts and reads.
type InMemory struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*models.Reference
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[uuid.UUID]*models.Reference)}
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Reference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *ref
	return &out, nil
}

func (s *InMemory) Insert(ctx context.Context, ref *models.Reference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref.StampInsert(uuid.New(), requestcontext.Now(ctx), requestcontext.Actor(ctx))
	stored := *ref
	s.byID[ref.ID] = &stored
	return nil
}
