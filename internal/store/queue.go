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

type QueueStore struct {
	db *pgxpool.Pool
}

func NewQueueStore(db *pgxpool.Pool) *QueueStore {
	return &QueueStore{db: db}
}

func (s *QueueStore) Create(ctx context.Context, q *domain.Queue) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO queues (name, description, is_active)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		q.Name, q.Description, q.IsActive,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (s *QueueStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Queue, error) {
	q := &domain.Queue{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, description, is_active, created_at, updated_at
		 FROM queues WHERE id = $1`,
		id,
	).Scan(&q.ID, &q.Name, &q.Description, &q.IsActive, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QueueStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.Queue, int, error) {
	pattern := "%" + opts.Search + "%"

	var total int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM queues
		 WHERE $1 = '' OR name ILIKE $2 OR description ILIKE $2`,
		opts.Search, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, is_active, created_at, updated_at
		 FROM queues
		 WHERE $1 = '' OR name ILIKE $2 OR description ILIKE $2
		 ORDER BY name
		 OFFSET $3 LIMIT $4`,
		opts.Search, pattern, opts.Offset(), opts.PageSize,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var queues []domain.Queue
	for rows.Next() {
		var q domain.Queue
		if err := rows.Scan(&q.ID, &q.Name, &q.Description, &q.IsActive, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, err
		}
		queues = append(queues, q)
	}
	return queues, total, rows.Err()
}

// Update is conditional on the expected updated_at; see AgentStore.Update.
func (s *QueueStore) Update(ctx context.Context, q *domain.Queue, expected time.Time) error {
	err := s.db.QueryRow(ctx,
		`UPDATE queues
		 SET name = $1, description = $2, is_active = $3,
		     updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')
		 WHERE id = $4 AND updated_at = $5
		 RETURNING updated_at`,
		q.Name, q.Description, q.IsActive, q.ID, expected,
	).Scan(&q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.missReason(ctx, q.ID)
		}
		return err
	}
	return nil
}

func (s *QueueStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM queues WHERE id = $1`, id)
	return err
}

func (s *QueueStore) DeleteIfCurrent(ctx context.Context, id uuid.UUID, expected time.Time) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM queues WHERE id = $1 AND updated_at = $2`,
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

func (s *QueueStore) missReason(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM queues WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrVersionMismatch
	}
	return ErrNotFound
}
