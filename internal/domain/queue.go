package domain

import (
	"time"

	"github.com/google/uuid"
)

type Queue struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Assignment links an agent to a queue it serves.
type Assignment struct {
	AgentID    uuid.UUID `json:"agentId"`
	QueueID    uuid.UUID `json:"queueId"`
	IsPrimary  bool      `json:"isPrimary"`
	SkillLevel int       `json:"skillLevel"`
	AssignedAt time.Time `json:"assignedAt"`
}
