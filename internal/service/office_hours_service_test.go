package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/livechat-service/internal/domain"
	"github.com/spec-kit/livechat-service/internal/events"
)

func newOfficeHoursService(repo *fakeAgentRepo) *OfficeHoursService {
	return NewOfficeHoursService(OfficeHoursDependencies{
		AgentRepo:  repo,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
}

func TestCloseOfficeSetsAllNotAvailable(t *testing.T) {
	repo := newFakeAgentRepo(
		eligibleAgent("a1", "alice", 0),
		eligibleAgent("a2", "bob", 0),
	)
	svc := newOfficeHoursService(repo)

	result, err := svc.CloseOffice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Empty(t, result.Failed)

	for _, id := range []string{"a1", "a2"} {
		agent, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.NotAvailable, agent.Availability)
	}
}

func TestCloseOfficeIdempotent(t *testing.T) {
	repo := newFakeAgentRepo(eligibleAgent("a1", "alice", 0))
	svc := newOfficeHoursService(repo)

	_, err := svc.CloseOffice(context.Background())
	require.NoError(t, err)
	result, err := svc.CloseOffice(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	agent, err := repo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.NotAvailable, agent.Availability)
	assert.Equal(t, int64(0), agent.LivechatCount)
}

func TestOpenOfficeSetsAllAvailable(t *testing.T) {
	offDuty := eligibleAgent("a1", "alice", 0)
	offDuty.Availability = domain.NotAvailable
	repo := newFakeAgentRepo(offDuty)
	svc := newOfficeHoursService(repo)

	result, err := svc.OpenOffice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	agent, err := repo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.Available, agent.Availability)
}

func TestCloseOfficePartialFailureContinues(t *testing.T) {
	repo := newFakeAgentRepo(
		eligibleAgent("a1", "alice", 0),
		eligibleAgent("a2", "bob", 0),
		eligibleAgent("a3", "carol", 0),
	)
	repo.availability["a2"] = errors.New("write failed")
	svc := newOfficeHoursService(repo)

	result, err := svc.CloseOffice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, []string{"a2"}, result.Failed)

	// Applied updates stay applied despite the failure in the middle.
	for _, id := range []string{"a1", "a3"} {
		agent, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.NotAvailable, agent.Availability)
	}
	failed, err := repo.GetByID(context.Background(), "a2")
	require.NoError(t, err)
	assert.Equal(t, domain.Available, failed.Availability)
}
