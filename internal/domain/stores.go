package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListOpts carries search and paging parameters for list queries.
type ListOpts struct {
	Search   string
	Page     int
	PageSize int
}

// Offset returns the row offset implied by the page number.
func (o ListOpts) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// AgentStore is the persistence collaborator for agents. Update and
// DeleteIfCurrent are conditional on the expected updatedAt instant: when
// the stored instant differs they touch nothing and report a version
// mismatch, which makes the compare-then-write atomic for concurrent
// callers.
type AgentStore interface {
	Create(ctx context.Context, a *Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	List(ctx context.Context, opts ListOpts) ([]Agent, int, error)
	Update(ctx context.Context, a *Agent, expected time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteIfCurrent(ctx context.Context, id uuid.UUID, expected time.Time) error
}

// QueueStore is the persistence collaborator for queues.
type QueueStore interface {
	Create(ctx context.Context, q *Queue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Queue, error)
	List(ctx context.Context, opts ListOpts) ([]Queue, int, error)
	Update(ctx context.Context, q *Queue, expected time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteIfCurrent(ctx context.Context, id uuid.UUID, expected time.Time) error
}

// AssignmentStore exposes the agent-queue join for read-only projections.
type AssignmentStore interface {
	ListAgentsByQueue(ctx context.Context, queueID uuid.UUID) ([]Agent, error)
}
