// audit/memory.go
package audit

import (
	"context"
	"sync"
)

// MemoryRepository keeps the trail in a bounded in-process ring. It
// backs tests and dev deployments without Elasticsearch.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
	max     int
}

func NewMemoryRepository(max int) *MemoryRepository {
	if max <= 0 {
		max = 10000
	}
	return &MemoryRepository{max: max}
}

func (r *MemoryRepository) Write(ctx context.Context, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	if len(r.entries) > r.max {
		r.entries = r.entries[len(r.entries)-r.max:]
	}
	return nil
}

func (r *MemoryRepository) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, e := range r.entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}
