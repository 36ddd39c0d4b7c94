package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/queueboard/queueboard/internal/domain"
	"github.com/queueboard/queueboard/internal/version"
)

func validAgentInput() AgentInput {
	return AgentInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		IsActive:  true,
	}
}

func newAgentService(st domain.AgentStore) *AgentService {
	return NewAgentService(st, zap.NewNop())
}

func TestAgentCreateIssuesToken(t *testing.T) {
	svc := newAgentService(newMockAgentStore())

	agent, token, err := svc.Create(context.Background(), validAgentInput())
	require.NoError(t, err)
	require.NotNil(t, agent)
	assert.NotEqual(t, uuid.Nil, agent.ID)
	assert.Equal(t, version.Encode(agent.UpdatedAt), token)
	assert.Equal(t, agent.CreatedAt, agent.UpdatedAt)
}

func TestAgentCreateAccumulatesAllViolations(t *testing.T) {
	svc := newAgentService(newMockAgentStore())

	in := AgentInput{FirstName: "", LastName: "", Email: "not-an-email"}
	_, _, err := svc.Create(context.Background(), in)

	out, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, out["firstName"], "firstName is required.")
	assert.Contains(t, out["lastName"], "lastName is required.")
	assert.Contains(t, out["email"], "email must be a valid email address.")
}

func TestAgentGetNotFound(t *testing.T) {
	svc := newAgentService(newMockAgentStore())

	_, _, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestAgentUpdateAdvancesToken(t *testing.T) {
	st := newMockAgentStore()
	svc := newAgentService(st)
	ctx := context.Background()

	agent, t0, err := svc.Create(ctx, validAgentInput())
	require.NoError(t, err)

	in := validAgentInput()
	in.FirstName = "Janet"
	updated, t1, err := svc.Update(ctx, agent.ID, in, Precondition{Origin: TokenHeader, Token: t0})
	require.NoError(t, err)

	assert.Equal(t, "Janet", updated.FirstName)
	assert.NotEqual(t, t0, t1, "successful update must advance the token")
	assert.True(t, updated.UpdatedAt.After(agent.UpdatedAt))
}

func TestAgentUpdateRequiresToken(t *testing.T) {
	svc := newAgentService(newMockAgentStore())
	ctx := context.Background()

	agent, _, err := svc.Create(ctx, validAgentInput())
	require.NoError(t, err)

	_, _, err = svc.Update(ctx, agent.ID, validAgentInput(), Precondition{Origin: TokenNone})
	assert.ErrorIs(t, err, ErrTokenRequired)
}

func TestAgentUpdateRejectsMalformedToken(t *testing.T) {
	svc := newAgentService(newMockAgentStore())
	ctx := context.Background()

	agent, _, err := svc.Create(ctx, validAgentInput())
	require.NoError(t, err)

	_, _, err = svc.Update(ctx, agent.ID, validAgentInput(), Precondition{Origin: TokenBody, Token: "!!!"})
	assert.ErrorIs(t, err, version.ErrInvalidToken)
}

func TestAgentUpdateNotFound(t *testing.T) {
	svc := newAgentService(newMockAgentStore())

	_, _, err := svc.Update(context.Background(), uuid.New(), validAgentInput(), Precondition{Origin: TokenBody, Token: "irrelevant"})
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestAgentUpdateConflictIsDeterministic(t *testing.T) {
	svc := newAgentService(newMockAgentStore())
	ctx := context.Background()

	agent, t0, err := svc.Create(ctx, validAgentInput())
	require.NoError(t, err)

	// First caller wins from token t0.
	in := validAgentInput()
	in.LastName = "First"
	_, _, err = svc.Update(ctx, agent.ID, in, Precondition{Origin: TokenBody, Token: t0})
	require.NoError(t, err)

	// Second caller racing from the same starting token must observe a
	// conflict, never a silent overwrite.
	in.LastName = "Second"
	_, _, err = svc.Update(ctx, agent.ID, in, Precondition{Origin: TokenBody, Token: t0})
	assert.ErrorIs(t, err, ErrStaleToken)

	current, _, err := svc.Get(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", current.LastName)
}

func TestAgentUpdateStaleUnderlyingStore(t *testing.T) {
	// The guard passes but the conditional write loses the race: the
	// store's mismatch still surfaces as a conflict.
	st := newMockAgentStore()
	svc := newAgentService(st)
	ctx := context.Background()

	agent, t0, err := svc.Create(ctx, validAgentInput())
	require.NoError(t, err)

	// Another writer slips in behind the service's back.
	st.mu.Lock()
	stored := st.agents[agent.ID]
	stored.UpdatedAt = advance(stored.UpdatedAt)
	st.mu.Unlock()

	_, _, err = svc.Update(ctx, agent.ID, validAgentInput(), Precondition{Origin: TokenBody, Token: t0})
	assert.ErrorIs(t, err, ErrStaleToken)
}

func TestAgentDeleteIdempotent(t *testing.T) {
	svc := newAgentService(newMockAgentStore())
	ctx := context.Background()

	// Unknown id is a no-op success.
	assert.NoError(t, svc.Delete(ctx, uuid.New(), Precondition{Origin: TokenNone}))

	agent, _, err := svc.Create(ctx, validAgentInput())
	require.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, agent.ID, Precondition{Origin: TokenNone}))
	assert.NoError(t, svc.Delete(ctx, agent.ID, Precondition{Origin: TokenNone}))

	_, _, err = svc.Get(ctx, agent.ID)
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestAgentDeleteWithMatchingToken(t *testing.T) {
	svc := newAgentService(newMockAgentStore())
	ctx := context.Background()

	agent, t0, err := svc.Create(ctx, validAgentInput())
	require.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, agent.ID, Precondition{Origin: TokenHeader, Token: t0}))

	_, _, err = svc.Get(ctx, agent.ID)
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestAgentDeleteStaleTokenFailsPrecondition(t *testing.T) {
	svc := newAgentService(newMockAgentStore())
	ctx := context.Background()

	agent, t0, err := svc.Create(ctx, validAgentInput())
	require.NoError(t, err)

	in := validAgentInput()
	in.FirstName = "Janet"
	_, _, err = svc.Update(ctx, agent.ID, in, Precondition{Origin: TokenBody, Token: t0})
	require.NoError(t, err)

	err = svc.Delete(ctx, agent.ID, Precondition{Origin: TokenHeader, Token: t0})
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// The record survives a failed precondition.
	_, _, err = svc.Get(ctx, agent.ID)
	assert.NoError(t, err)
}

func TestAgentDeleteMalformedToken(t *testing.T) {
	svc := newAgentService(newMockAgentStore())
	ctx := context.Background()

	agent, _, err := svc.Create(ctx, validAgentInput())
	require.NoError(t, err)

	err = svc.Delete(ctx, agent.ID, Precondition{Origin: TokenHeader, Token: "not a token"})
	assert.ErrorIs(t, err, version.ErrInvalidToken)
}

func TestAgentListClampsPaging(t *testing.T) {
	st := newMockAgentStore()
	svc := newAgentService(st)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		in := validAgentInput()
		in.Email = "agent@x.com"
		_, _, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	agents, total, err := svc.List(ctx, domain.ListOpts{Page: 0, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, agents, 3)
}
