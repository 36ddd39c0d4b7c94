package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/queueboard/queueboard/internal/domain"
	"github.com/queueboard/queueboard/internal/service"
	"github.com/queueboard/queueboard/internal/version"
)

type QueueHandler struct {
	svc    *service.QueueService
	logger *zap.Logger
}

func NewQueueHandler(svc *service.QueueService, logger *zap.Logger) *QueueHandler {
	return &QueueHandler{svc: svc, logger: logger}
}

type queueResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	RowVersion  string    `json:"rowVersion"`
}

func toQueueResponse(q *domain.Queue, token string) queueResponse {
	return queueResponse{
		ID:          q.ID,
		Name:        q.Name,
		Description: q.Description,
		IsActive:    q.IsActive,
		CreatedAt:   q.CreatedAt,
		RowVersion:  token,
	}
}

func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := listOpts(r)

	queues, total, err := h.svc.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, h.logger, err, service.Precondition{}, service.ErrQueueNotFound, "queue not found")
		return
	}

	items := make([]queueResponse, 0, len(queues))
	for i := range queues {
		items = append(items, toQueueResponse(&queues[i], version.Encode(queues[i].UpdatedAt)))
	}
	writeJSON(w, http.StatusOK, listResponse{
		TotalCount: total,
		Page:       maxInt(opts.Page, 1),
		PageSize:   defaultInt(opts.PageSize, 25),
		Items:      items,
	})
}

func (h *QueueHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	queue, token, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err, service.Precondition{}, service.ErrQueueNotFound, "queue not found")
		return
	}

	setETag(w, token)
	writeJSON(w, http.StatusOK, toQueueResponse(queue, token))
}

// ListAgents returns the agents assigned to the queue.
func (h *QueueHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	agents, err := h.svc.ListAgents(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err, service.Precondition{}, service.ErrQueueNotFound, "queue not found")
		return
	}

	items := make([]agentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, toAgentResponse(&agents[i], version.Encode(agents[i].UpdatedAt)))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *QueueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.QueueInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badBody(w, r)
		return
	}

	queue, token, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err, service.Precondition{}, service.ErrQueueNotFound, "queue not found")
		return
	}

	setETag(w, token)
	w.Header().Set("Location", "/queues/"+queue.ID.String())
	writeJSON(w, http.StatusCreated, toQueueResponse(queue, token))
}

func (h *QueueHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in service.QueueInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badBody(w, r)
		return
	}

	pre := service.ResolvePrecondition(ifMatchToken(r), in.RowVersion)

	_, token, err := h.svc.Update(r.Context(), id, in, pre)
	if err != nil {
		writeError(w, r, h.logger, err, pre, service.ErrQueueNotFound, "queue not found")
		return
	}

	setETag(w, token)
	w.WriteHeader(http.StatusNoContent)
}

func (h *QueueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	pre := service.ResolvePrecondition(ifMatchToken(r), "")

	if err := h.svc.Delete(r.Context(), id, pre); err != nil {
		writeError(w, r, h.logger, err, pre, service.ErrQueueNotFound, "queue not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
