package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/livechat-service/internal/domain"
	"github.com/spec-kit/livechat-service/internal/events"
	"github.com/spec-kit/livechat-service/internal/repository"
	apperrors "github.com/spec-kit/livechat-service/pkg/util"
)

// BulkToggleResult reports the outcome of an office-hours toggle.
// Failed holds the ids of agents whose update did not apply; updates
// that already succeeded stay applied.
type BulkToggleResult struct {
	Updated int
	Failed  []string
}

// OfficeHoursService opens and closes the support desk by bulk-toggling
// every agent's availability.
type OfficeHoursService struct {
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// OfficeHoursDependencies bundles collaborators for the office-hours service.
type OfficeHoursDependencies struct {
	AgentRepo  repository.AgentRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewOfficeHoursService creates the service.
func NewOfficeHoursService(deps OfficeHoursDependencies) *OfficeHoursService {
	return &OfficeHoursService{
		agents:     deps.AgentRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// OpenOffice marks every agent in the pool available.
func (s *OfficeHoursService) OpenOffice(ctx context.Context) (*BulkToggleResult, error) {
	return s.toggleAll(ctx, domain.Available)
}

// CloseOffice marks every agent in the pool not-available.
func (s *OfficeHoursService) CloseOffice(ctx context.Context) (*BulkToggleResult, error) {
	return s.toggleAll(ctx, domain.NotAvailable)
}

// toggleAll applies the availability to each agent independently. One
// agent's failure does not abort the remaining writes; there is no
// multi-agent transaction and no rollback.
func (s *OfficeHoursService) toggleAll(ctx context.Context, value domain.Availability) (*BulkToggleResult, error) {
	agents, err := s.agents.ListAgents(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := &BulkToggleResult{}
	for _, agent := range agents {
		if err := s.agents.SetAvailability(ctx, agent.ID, value); err != nil {
			s.logger.Warn("office hours toggle failed for agent",
				zap.String("agent_id", agent.ID),
				zap.Error(err))
			result.Failed = append(result.Failed, agent.ID)
			continue
		}
		result.Updated++
	}

	s.logger.Info("office hours changed",
		zap.String("availability", string(value)),
		zap.Int("updated", result.Updated),
		zap.Int("failed", len(result.Failed)))
	s.publish(ctx, events.OfficeHoursChangedPayload{
		Availability: value,
		Updated:      result.Updated,
		Failed:       result.Failed,
	})
	return result, nil
}

func (s *OfficeHoursService) publish(ctx context.Context, payload events.OfficeHoursChangedPayload) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOfficeHoursChanged,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
