package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/livechat-service/internal/domain"
	"github.com/spec-kit/livechat-service/internal/events"
	"github.com/spec-kit/livechat-service/internal/observability"
	"github.com/spec-kit/livechat-service/internal/repository"
	apperrors "github.com/spec-kit/livechat-service/pkg/util"
)

// DispatchService selects the agent for an incoming visitor conversation.
type DispatchService struct {
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// DispatchDependencies bundles collaborators for the dispatch service.
type DispatchDependencies struct {
	AgentRepo  repository.AgentRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewDispatchService creates the service.
func NewDispatchService(deps DispatchDependencies) *DispatchService {
	return &DispatchService{
		agents:     deps.AgentRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// SelectAgent picks the least-loaded eligible agent and increments its
// conversation counter in one atomic registry operation. It returns
// (nil, nil) when no agent is eligible; an empty pool is a legitimate
// state for the caller to handle, not an error.
func (s *DispatchService) SelectAgent(ctx context.Context) (*domain.Assignment, error) {
	return s.selectNext(ctx, nil)
}

// SelectAgentFrom behaves like SelectAgent restricted to the given
// username whitelist, used when a conversation is pinned to a department
// or a prior-agent preference.
func (s *DispatchService) SelectAgentFrom(ctx context.Context, usernames []string) (*domain.Assignment, error) {
	if usernames == nil {
		usernames = []string{}
	}
	return s.selectNext(ctx, usernames)
}

func (s *DispatchService) selectNext(ctx context.Context, usernames []string) (*domain.Assignment, error) {
	assignment, err := s.agents.NextAgent(ctx, usernames)
	if err != nil {
		s.metrics.RecordDispatch(observability.DispatchFailed)
		return nil, apperrors.MapError(err)
	}
	if assignment == nil {
		s.metrics.RecordDispatch(observability.DispatchEmptyPool)
		s.logger.Debug("dispatch found no eligible agent")
		return nil, nil
	}

	s.metrics.RecordDispatch(observability.DispatchAssigned)
	s.logger.Info("conversation dispatched",
		zap.String("agent_id", assignment.AgentID),
		zap.String("username", assignment.Username))
	s.publish(ctx, events.EventConversationDispatched, events.ConversationDispatchedPayload{
		AgentID:  assignment.AgentID,
		Username: assignment.Username,
	})
	return assignment, nil
}

func (s *DispatchService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
