package history

import (
	"context"
	"sync"

	"github.com/wonny/finbrief/internal/contracts"
)

// Memory keeps the last runs in process when no database is configured
type Memory struct {
	mu   sync.RWMutex
	size int
	runs []*contracts.Briefing // oldest first
}

// NewMemory creates a store holding at most size runs
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 100
	}
	return &Memory{size: size}
}

// Record keeps b, evicting the oldest run when full
func (m *Memory) Record(ctx context.Context, b *contracts.Briefing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *b
	m.runs = append(m.runs, &copied)
	if len(m.runs) > m.size {
		m.runs = m.runs[len(m.runs)-m.size:]
	}
	return nil
}

// Recent returns the latest runs, newest first
func (m *Memory) Recent(ctx context.Context, limit int) ([]*contracts.Briefing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.runs) {
		limit = len(m.runs)
	}

	runs := make([]*contracts.Briefing, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(runs) < limit; i-- {
		runs = append(runs, m.runs[i])
	}
	return runs, nil
}

// Get returns one run by ID
func (m *Memory) Get(ctx context.Context, id string) (*contracts.Briefing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.runs {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrNotFound
}
