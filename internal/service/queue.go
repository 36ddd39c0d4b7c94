package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/queueboard/queueboard/internal/domain"
	"github.com/queueboard/queueboard/internal/store"
	"github.com/queueboard/queueboard/internal/validate"
	"github.com/queueboard/queueboard/internal/version"
)

// QueueInput is the mutable attribute set of a queue.
type QueueInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	IsActive    bool   `json:"isActive"`
	RowVersion  string `json:"rowVersion,omitempty"`
}

// crossRules returns the cross-field rules for a queue payload.
func (in QueueInput) crossRules() []func(validate.Outcome) {
	return []func(validate.Outcome){
		validate.NotIdentical(in.Name, in.Description,
			"name and description must not be identical."),
	}
}

type QueueService struct {
	store       domain.QueueStore
	assignments domain.AssignmentStore
	logger      *zap.Logger
}

func NewQueueService(st domain.QueueStore, assignments domain.AssignmentStore, logger *zap.Logger) *QueueService {
	return &QueueService{store: st, assignments: assignments, logger: logger}
}

func (s *QueueService) Create(ctx context.Context, in QueueInput) (*domain.Queue, string, error) {
	if out := validate.Struct(in, in.crossRules()...); !out.Valid() {
		return nil, "", &ValidationError{Outcome: out}
	}

	queue := &domain.Queue{
		Name:        in.Name,
		Description: in.Description,
		IsActive:    in.IsActive,
	}
	if err := s.store.Create(ctx, queue); err != nil {
		return nil, "", err
	}

	s.logger.Info("queue created", zap.String("queue_id", queue.ID.String()))
	return queue, version.Encode(queue.UpdatedAt), nil
}

func (s *QueueService) Get(ctx context.Context, id uuid.UUID) (*domain.Queue, string, error) {
	queue, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrQueueNotFound
		}
		return nil, "", err
	}
	return queue, version.Encode(queue.UpdatedAt), nil
}

func (s *QueueService) List(ctx context.Context, opts domain.ListOpts) ([]domain.Queue, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 25
	}
	return s.store.List(ctx, opts)
}

// ListAgents returns the agents assigned to the queue.
func (s *QueueService) ListAgents(ctx context.Context, id uuid.UUID) ([]domain.Agent, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrQueueNotFound
		}
		return nil, err
	}
	return s.assignments.ListAgentsByQueue(ctx, id)
}

func (s *QueueService) Update(ctx context.Context, id uuid.UUID, in QueueInput, pre Precondition) (*domain.Queue, string, error) {
	if out := validate.Struct(in, in.crossRules()...); !out.Valid() {
		return nil, "", &ValidationError{Outcome: out}
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrQueueNotFound
		}
		return nil, "", err
	}

	if err := guardUpdate(pre, current.UpdatedAt); err != nil {
		return nil, "", err
	}

	current.Name = in.Name
	current.Description = in.Description
	current.IsActive = in.IsActive

	expected := current.UpdatedAt
	if err := s.store.Update(ctx, current, expected); err != nil {
		switch {
		case errors.Is(err, store.ErrVersionMismatch):
			return nil, "", ErrStaleToken
		case errors.Is(err, store.ErrNotFound):
			return nil, "", ErrQueueNotFound
		}
		return nil, "", err
	}

	s.logger.Info("queue updated", zap.String("queue_id", id.String()))
	return current, version.Encode(current.UpdatedAt), nil
}

func (s *QueueService) Delete(ctx context.Context, id uuid.UUID, pre Precondition) error {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := guardDelete(pre, current.UpdatedAt); err != nil {
		return err
	}

	if pre.Origin == TokenNone {
		if err := s.store.Delete(ctx, id); err != nil {
			return err
		}
	} else {
		err := s.store.DeleteIfCurrent(ctx, id, current.UpdatedAt)
		if errors.Is(err, store.ErrVersionMismatch) {
			return ErrPreconditionFailed
		}
		if err != nil {
			return err
		}
	}

	s.logger.Info("queue deleted", zap.String("queue_id", id.String()))
	return nil
}
