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

// AgentInput is the mutable attribute set of an agent. RowVersion is the
// optional body-side version token for updates.
type AgentInput struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,max=256,email"`
	IsActive   bool   `json:"isActive"`
	RowVersion string `json:"rowVersion,omitempty"`
}

// AgentService orchestrates validation, the concurrency guard and the
// store for agent mutations. Every successful mutation returns the fresh
// token derived from the persisted updatedAt.
type AgentService struct {
	store  domain.AgentStore
	logger *zap.Logger
}

func NewAgentService(st domain.AgentStore, logger *zap.Logger) *AgentService {
	return &AgentService{store: st, logger: logger}
}

func (s *AgentService) Create(ctx context.Context, in AgentInput) (*domain.Agent, string, error) {
	if out := validate.Struct(in); !out.Valid() {
		return nil, "", &ValidationError{Outcome: out}
	}

	agent := &domain.Agent{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		IsActive:  in.IsActive,
	}
	if err := s.store.Create(ctx, agent); err != nil {
		return nil, "", err
	}

	s.logger.Info("agent created", zap.String("agent_id", agent.ID.String()))
	return agent, version.Encode(agent.UpdatedAt), nil
}

func (s *AgentService) Get(ctx context.Context, id uuid.UUID) (*domain.Agent, string, error) {
	agent, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrAgentNotFound
		}
		return nil, "", err
	}
	return agent, version.Encode(agent.UpdatedAt), nil
}

func (s *AgentService) List(ctx context.Context, opts domain.ListOpts) ([]domain.Agent, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 25
	}
	return s.store.List(ctx, opts)
}

// Update validates the payload, checks the caller's version token against
// the stored record and persists the new attributes. The store write is
// itself conditional on the same instant, so a race between the check and
// the write surfaces as a stale token rather than a lost update.
func (s *AgentService) Update(ctx context.Context, id uuid.UUID, in AgentInput, pre Precondition) (*domain.Agent, string, error) {
	if out := validate.Struct(in); !out.Valid() {
		return nil, "", &ValidationError{Outcome: out}
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrAgentNotFound
		}
		return nil, "", err
	}

	if err := guardUpdate(pre, current.UpdatedAt); err != nil {
		return nil, "", err
	}

	current.FirstName = in.FirstName
	current.LastName = in.LastName
	current.Email = in.Email
	current.IsActive = in.IsActive

	expected := current.UpdatedAt
	if err := s.store.Update(ctx, current, expected); err != nil {
		switch {
		case errors.Is(err, store.ErrVersionMismatch):
			return nil, "", ErrStaleToken
		case errors.Is(err, store.ErrNotFound):
			return nil, "", ErrAgentNotFound
		}
		return nil, "", err
	}

	s.logger.Info("agent updated", zap.String("agent_id", id.String()))
	return current, version.Encode(current.UpdatedAt), nil
}

// Delete removes the agent. Deleting an absent agent succeeds (idempotent
// no-op). When the caller supplied a precondition token it must match the
// current record state.
func (s *AgentService) Delete(ctx context.Context, id uuid.UUID, pre Precondition) error {
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

	s.logger.Info("agent deleted", zap.String("agent_id", id.String()))
	return nil
}
