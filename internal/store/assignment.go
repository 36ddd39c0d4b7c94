package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queueboard/queueboard/internal/domain"
)

type AssignmentStore struct {
	db *pgxpool.Pool
}

func NewAssignmentStore(db *pgxpool.Pool) *AssignmentStore {
	return &AssignmentStore{db: db}
}

// ListAgentsByQueue returns the agents assigned to a queue, primary
// assignments first.
func (s *AssignmentStore) ListAgentsByQueue(ctx context.Context, queueID uuid.UUID) ([]domain.Agent, error) {
	rows, err := s.db.Query(ctx,
		`SELECT a.id, a.first_name, a.last_name, a.email, a.is_active, a.created_at, a.updated_at
		 FROM agents a
		 JOIN agent_queues aq ON aq.agent_id = a.id
		 WHERE aq.queue_id = $1
		 ORDER BY aq.is_primary DESC, a.last_name, a.first_name`,
		queueID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		var a domain.Agent
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}
