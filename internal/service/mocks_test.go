package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/queueboard/queueboard/internal/domain"
	"github.com/queueboard/queueboard/internal/store"
)

// advance returns a write instant strictly after prev, mirroring the
// store's monotonic updated_at guarantee.
func advance(prev time.Time) time.Time {
	next := time.Now().UTC()
	if !next.After(prev) {
		next = prev.Add(time.Microsecond)
	}
	return next
}

// mockAgentStore implements domain.AgentStore with the same conditional
// write semantics as the pgx store.
type mockAgentStore struct {
	mu     sync.Mutex
	agents map[uuid.UUID]*domain.Agent
	err    error // when set, every call fails with it
}

func newMockAgentStore() *mockAgentStore {
	return &mockAgentStore{agents: make(map[uuid.UUID]*domain.Agent)}
}

func (m *mockAgentStore) Create(ctx context.Context, a *domain.Agent) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	m.agents[a.ID] = &cp
	return nil
}

func (m *mockAgentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAgentStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.Agent, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.Agent
	for _, a := range m.agents {
		if opts.Search != "" &&
			!strings.Contains(a.FirstName, opts.Search) &&
			!strings.Contains(a.LastName, opts.Search) &&
			!strings.Contains(a.Email, opts.Search) {
			continue
		}
		all = append(all, *a)
	}
	total := len(all)
	off := opts.Offset()
	if off > len(all) {
		off = len(all)
	}
	end := off + opts.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[off:end], total, nil
}

func (m *mockAgentStore) Update(ctx context.Context, a *domain.Agent, expected time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.agents[a.ID]
	if !ok {
		return store.ErrNotFound
	}
	if !stored.UpdatedAt.Equal(expected) {
		return store.ErrVersionMismatch
	}
	stored.FirstName = a.FirstName
	stored.LastName = a.LastName
	stored.Email = a.Email
	stored.IsActive = a.IsActive
	stored.UpdatedAt = advance(expected)
	a.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *mockAgentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.agents, id)
	return nil
}

func (m *mockAgentStore) DeleteIfCurrent(ctx context.Context, id uuid.UUID, expected time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.agents[id]
	if !ok {
		return nil
	}
	if !stored.UpdatedAt.Equal(expected) {
		return store.ErrVersionMismatch
	}
	delete(m.agents, id)
	return nil
}

// mockQueueStore implements domain.QueueStore.
type mockQueueStore struct {
	mu     sync.Mutex
	queues map[uuid.UUID]*domain.Queue
	err    error
}

func newMockQueueStore() *mockQueueStore {
	return &mockQueueStore{queues: make(map[uuid.UUID]*domain.Queue)}
}

func (m *mockQueueStore) Create(ctx context.Context, q *domain.Queue) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = uuid.New()
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	cp := *q
	m.queues[q.ID] = &cp
	return nil
}

func (m *mockQueueStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Queue, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *mockQueueStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.Queue, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.Queue
	for _, q := range m.queues {
		if opts.Search != "" &&
			!strings.Contains(q.Name, opts.Search) &&
			!strings.Contains(q.Description, opts.Search) {
			continue
		}
		all = append(all, *q)
	}
	total := len(all)
	off := opts.Offset()
	if off > len(all) {
		off = len(all)
	}
	end := off + opts.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[off:end], total, nil
}

func (m *mockQueueStore) Update(ctx context.Context, q *domain.Queue, expected time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.queues[q.ID]
	if !ok {
		return store.ErrNotFound
	}
	if !stored.UpdatedAt.Equal(expected) {
		return store.ErrVersionMismatch
	}
	stored.Name = q.Name
	stored.Description = q.Description
	stored.IsActive = q.IsActive
	stored.UpdatedAt = advance(expected)
	q.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *mockQueueStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.queues, id)
	return nil
}

func (m *mockQueueStore) DeleteIfCurrent(ctx context.Context, id uuid.UUID, expected time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.queues[id]
	if !ok {
		return nil
	}
	if !stored.UpdatedAt.Equal(expected) {
		return store.ErrVersionMismatch
	}
	delete(m.queues, id)
	return nil
}

// mockAssignmentStore implements domain.AssignmentStore.
type mockAssignmentStore struct {
	byQueue map[uuid.UUID][]domain.Agent
}

func newMockAssignmentStore() *mockAssignmentStore {
	return &mockAssignmentStore{byQueue: make(map[uuid.UUID][]domain.Agent)}
}

func (m *mockAssignmentStore) ListAgentsByQueue(ctx context.Context, queueID uuid.UUID) ([]domain.Agent, error) {
	return m.byQueue[queueID], nil
}
