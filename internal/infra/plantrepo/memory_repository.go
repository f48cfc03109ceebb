package plantrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/greenguardian/internal/domain/plant"
)

// MemoryRepository keeps the catalog in process memory, in insertion order.
type MemoryRepository struct {
	mu     sync.RWMutex
	plants []plant.Plant
	index  map[string]int
	now    func() time.Time
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		index: make(map[string]int),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Find returns matching plants in insertion order, at most limit of them.
func (r *MemoryRepository) Find(_ context.Context, filter plant.Filter, limit int) ([]plant.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]plant.Plant, 0)
	for _, p := range r.plants {
		if limit > 0 && len(out) >= limit {
			break
		}
		if filter.Matches(p) {
			out = append(out, clonePlant(p))
		}
	}
	return out, nil
}

func (r *MemoryRepository) FindOne(_ context.Context, id string) (plant.Plant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.index[id]
	if !ok {
		return plant.Plant{}, false, nil
	}
	return clonePlant(r.plants[idx]), true, nil
}

// Insert stores p, assigning an id when it has none.
func (r *MemoryRepository) Insert(_ context.Context, p plant.Plant) (plant.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := r.index[p.ID]; exists {
		return plant.Plant{}, errDuplicateID
	}
	now := r.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := clonePlant(p)
	r.index[p.ID] = len(r.plants)
	r.plants = append(r.plants, stored)
	return clonePlant(stored), nil
}

// Update replaces the plant stored under id, keeping its id and creation time.
func (r *MemoryRepository) Update(_ context.Context, id string, p plant.Plant) (plant.Plant, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.index[id]
	if !ok {
		return plant.Plant{}, false, nil
	}
	p.ID = id
	p.CreatedAt = r.plants[idx].CreatedAt
	p.UpdatedAt = r.now()
	r.plants[idx] = clonePlant(p)
	return clonePlant(p), true, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.plants)), nil
}

func clonePlant(p plant.Plant) plant.Plant {
	if p.Spaces != nil {
		p.Spaces = append([]plant.Space(nil), p.Spaces...)
	}
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	return p
}

var _ plant.Repository = (*MemoryRepository)(nil)
