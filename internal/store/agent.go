package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queueboard/queueboard/internal/domain"
)

type AgentStore struct {
	db *pgxpool.Pool
}

func NewAgentStore(db *pgxpool.Pool) *AgentStore {
	return &AgentStore{db: db}
}

func (s *AgentStore) Create(ctx context.Context, a *domain.Agent) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO agents (first_name, last_name, email, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		a.FirstName, a.LastName, a.Email, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (s *AgentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	a := &domain.Agent{}
	err := s.db.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, is_active, created_at, updated_at
		 FROM agents WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AgentStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.Agent, int, error) {
	pattern := "%" + opts.Search + "%"

	var total int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM agents
		 WHERE $1 = '' OR first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2`,
		opts.Search, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, first_name, last_name, email, is_active, created_at, updated_at
		 FROM agents
		 WHERE $1 = '' OR first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2
		 ORDER BY last_name, first_name
		 OFFSET $3 LIMIT $4`,
		opts.Search, pattern, opts.Offset(), opts.PageSize,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		var a domain.Agent
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		agents = append(agents, a)
	}
	return agents, total, rows.Err()
}

// Update writes the new attributes only when the stored updated_at still
// equals expected, so two callers racing from the same token cannot both
// succeed. The new updated_at is forced strictly past the old one.
func (s *AgentStore) Update(ctx context.Context, a *domain.Agent, expected time.Time) error {
	err := s.db.QueryRow(ctx,
		`UPDATE agents
		 SET first_name = $1, last_name = $2, email = $3, is_active = $4,
		     updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')
		 WHERE id = $5 AND updated_at = $6
		 RETURNING updated_at`,
		a.FirstName, a.LastName, a.Email, a.IsActive, a.ID, expected,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.missReason(ctx, a.ID)
		}
		return err
	}
	return nil
}

func (s *AgentStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	return err
}

// DeleteIfCurrent removes the record only when its stored updated_at still
// equals expected. A missing record is not an error.
func (s *AgentStore) DeleteIfCurrent(ctx context.Context, id uuid.UUID, expected time.Time) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM agents WHERE id = $1 AND updated_at = $2`,
		id, expected,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if err := s.missReason(ctx, id); errors.Is(err, ErrVersionMismatch) {
			return err
		}
	}
	return nil
}

// missReason distinguishes a conditional-write miss: not found vs stale.
func (s *AgentStore) missReason(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM agents WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrVersionMismatch
	}
	return ErrNotFound
}
