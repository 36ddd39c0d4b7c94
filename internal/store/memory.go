// In-memory store implementations, used when no database is configured
// (local dev, tests). They honor the same conditional-write contract as
// the pgx stores: a write is applied only when the stored updated_at still
// equals the expected instant.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/queueboard/queueboard/internal/domain"
)

// nextInstant returns a write instant strictly after prev, so successive
// writes to the same record always advance its token.
func nextInstant(prev time.Time) time.Time {
	next := time.Now().UTC()
	if !next.After(prev) {
		next = prev.Add(time.Microsecond)
	}
	return next
}

func pageSlice[T any](items []T, opts domain.ListOpts) []T {
	off := opts.Offset()
	if off > len(items) {
		off = len(items)
	}
	end := off + opts.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[off:end]
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

type MemoryAgentStore struct {
	mu     sync.RWMutex
	agents map[uuid.UUID]domain.Agent
}

func NewMemoryAgentStore() *MemoryAgentStore {
	return &MemoryAgentStore{agents: make(map[uuid.UUID]domain.Agent)}
}

func (s *MemoryAgentStore) Create(ctx context.Context, a *domain.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.New()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.agents[a.ID] = *a
	return nil
}

func (s *MemoryAgentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemoryAgentStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.Agent, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []domain.Agent
	for _, a := range s.agents {
		if matches(opts.Search, a.FirstName, a.LastName, a.Email) {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].LastName != all[j].LastName {
			return all[i].LastName < all[j].LastName
		}
		return all[i].FirstName < all[j].FirstName
	})
	return pageSlice(all, opts), len(all), nil
}

func (s *MemoryAgentStore) Update(ctx context.Context, a *domain.Agent, expected time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.agents[a.ID]
	if !ok {
		return ErrNotFound
	}
	if !stored.UpdatedAt.Equal(expected) {
		return ErrVersionMismatch
	}
	stored.FirstName = a.FirstName
	stored.LastName = a.LastName
	stored.Email = a.Email
	stored.IsActive = a.IsActive
	stored.UpdatedAt = nextInstant(expected)
	s.agents[a.ID] = stored
	a.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryAgentStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.agents, id)
	return nil
}

func (s *MemoryAgentStore) DeleteIfCurrent(ctx context.Context, id uuid.UUID, expected time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.agents[id]
	if !ok {
		return nil
	}
	if !stored.UpdatedAt.Equal(expected) {
		return ErrVersionMismatch
	}
	delete(s.agents, id)
	return nil
}

type MemoryQueueStore struct {
	mu     sync.RWMutex
	queues map[uuid.UUID]domain.Queue
}

func NewMemoryQueueStore() *MemoryQueueStore {
	return &MemoryQueueStore{queues: make(map[uuid.UUID]domain.Queue)}
}

func (s *MemoryQueueStore) Create(ctx context.Context, q *domain.Queue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = uuid.New()
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	s.queues[q.ID] = *q
	return nil
}

func (s *MemoryQueueStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Queue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.queues[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}

func (s *MemoryQueueStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.Queue, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []domain.Queue
	for _, q := range s.queues {
		if matches(opts.Search, q.Name, q.Description) {
			all = append(all, q)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return pageSlice(all, opts), len(all), nil
}

func (s *MemoryQueueStore) Update(ctx context.Context, q *domain.Queue, expected time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.queues[q.ID]
	if !ok {
		return ErrNotFound
	}
	if !stored.UpdatedAt.Equal(expected) {
		return ErrVersionMismatch
	}
	stored.Name = q.Name
	stored.Description = q.Description
	stored.IsActive = q.IsActive
	stored.UpdatedAt = nextInstant(expected)
	s.queues[q.ID] = stored
	q.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryQueueStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queues, id)
	return nil
}

func (s *MemoryQueueStore) DeleteIfCurrent(ctx context.Context, id uuid.UUID, expected time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.queues[id]
	if !ok {
		return nil
	}
	if !stored.UpdatedAt.Equal(expected) {
		return ErrVersionMismatch
	}
	delete(s.queues, id)
	return nil
}

// MemoryAssignmentStore holds agent-queue assignments alongside a
// MemoryAgentStore to resolve the agents.
type MemoryAssignmentStore struct {
	mu          sync.RWMutex
	agents      *MemoryAgentStore
	assignments []domain.Assignment
}

func NewMemoryAssignmentStore(agents *MemoryAgentStore) *MemoryAssignmentStore {
	return &MemoryAssignmentStore{agents: agents}
}

// Assign links an agent to a queue.
func (s *MemoryAssignmentStore) Assign(a domain.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now().UTC()
	}
	s.assignments = append(s.assignments, a)
}

func (s *MemoryAssignmentStore) ListAgentsByQueue(ctx context.Context, queueID uuid.UUID) ([]domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Agent
	for _, asg := range s.assignments {
		if asg.QueueID != queueID {
			continue
		}
		if a, err := s.agents.GetByID(ctx, asg.AgentID); err == nil {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}
