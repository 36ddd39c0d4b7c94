package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/queueboard/queueboard/internal/api/problem"
	"github.com/queueboard/queueboard/internal/domain"
	"github.com/queueboard/queueboard/internal/service"
	"github.com/queueboard/queueboard/internal/version"
)

type AgentHandler struct {
	svc    *service.AgentService
	logger *zap.Logger
}

func NewAgentHandler(svc *service.AgentService, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{svc: svc, logger: logger}
}

// agentResponse is the wire shape of an agent, carrying the version token
// in place of the raw updatedAt instant.
type agentResponse struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	RowVersion string    `json:"rowVersion"`
}

func toAgentResponse(a *domain.Agent, token string) agentResponse {
	return agentResponse{
		ID:         a.ID,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Email:      a.Email,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt,
		RowVersion: token,
	}
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := listOpts(r)

	agents, total, err := h.svc.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, h.logger, err, service.Precondition{}, service.ErrAgentNotFound, "agent not found")
		return
	}

	items := make([]agentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, toAgentResponse(&agents[i], version.Encode(agents[i].UpdatedAt)))
	}
	writeJSON(w, http.StatusOK, listResponse{
		TotalCount: total,
		Page:       maxInt(opts.Page, 1),
		PageSize:   defaultInt(opts.PageSize, 25),
		Items:      items,
	})
}

func (h *AgentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	agent, token, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err, service.Precondition{}, service.ErrAgentNotFound, "agent not found")
		return
	}

	setETag(w, token)
	writeJSON(w, http.StatusOK, toAgentResponse(agent, token))
}

func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.AgentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badBody(w, r)
		return
	}

	agent, token, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err, service.Precondition{}, service.ErrAgentNotFound, "agent not found")
		return
	}

	setETag(w, token)
	w.Header().Set("Location", "/agents/"+agent.ID.String())
	writeJSON(w, http.StatusCreated, toAgentResponse(agent, token))
}

func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in service.AgentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badBody(w, r)
		return
	}

	pre := service.ResolvePrecondition(ifMatchToken(r), in.RowVersion)

	_, token, err := h.svc.Update(r.Context(), id, in, pre)
	if err != nil {
		writeError(w, r, h.logger, err, pre, service.ErrAgentNotFound, "agent not found")
		return
	}

	setETag(w, token)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	pre := service.ResolvePrecondition(ifMatchToken(r), "")

	if err := h.svc.Delete(r.Context(), id, pre); err != nil {
		writeError(w, r, h.logger, err, pre, service.ErrAgentNotFound, "agent not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} route parameter, answering 404 for a value that
// cannot name any record.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		problem.NotFound(w, r, "no record with the given id")
		return uuid.Nil, false
	}
	return id, true
}

// listOpts reads search/page/pageSize query parameters.
func listOpts(r *http.Request) domain.ListOpts {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	return domain.ListOpts{
		Search:   q.Get("search"),
		Page:     page,
		PageSize: pageSize,
	}
}

func maxInt(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

func defaultInt(v, def int) int {
	if v < 1 {
		return def
	}
	return v
}
