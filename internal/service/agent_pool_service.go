package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/livechat-service/internal/domain"
	"github.com/spec-kit/livechat-service/internal/events"
	"github.com/spec-kit/livechat-service/internal/persistence"
	"github.com/spec-kit/livechat-service/internal/repository"
	apperrors "github.com/spec-kit/livechat-service/pkg/util"
)

const presenceCacheKey = "livechat:presence:"

// AgentPoolService exposes registry reads and availability/presence writes.
type AgentPoolService struct {
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
	cache      *persistence.Redis
	logger     *zap.Logger
}

// AgentPoolDependencies bundles collaborators for the pool service.
type AgentPoolDependencies struct {
	AgentRepo  repository.AgentRepository
	Dispatcher events.Dispatcher
	Cache      *persistence.Redis
	Logger     *zap.Logger
}

// NewAgentPoolService creates the service.
func NewAgentPoolService(deps AgentPoolDependencies) *AgentPoolService {
	return &AgentPoolService{
		agents:     deps.AgentRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		logger:     deps.Logger,
	}
}

// ListEligibleAgents returns every agent currently eligible for dispatch,
// in no guaranteed order.
func (s *AgentPoolService) ListEligibleAgents(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.agents.ListEligible(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// ListAllAgents returns every user holding the agent role regardless of
// eligibility.
func (s *AgentPoolService) ListAllAgents(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.agents.ListAgents(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// RestrictToOnlineSubset intersects the given usernames with the
// currently eligible agents.
func (s *AgentPoolService) RestrictToOnlineSubset(ctx context.Context, usernames []string) ([]domain.Agent, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	agents, err := s.agents.ListEligibleFrom(ctx, usernames)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// GetAgentInfo loads a single agent by id.
func (s *AgentPoolService) GetAgentInfo(ctx context.Context, agentID string) (*domain.Agent, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// SetAvailability toggles an agent's livechat duty status. Idempotent:
// writing the current value succeeds with no further effect.
func (s *AgentPoolService) SetAvailability(ctx context.Context, agentID string, value domain.Availability) error {
	if err := s.agents.SetAvailability(ctx, agentID, value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventAgentAvailabilityChanged, events.AgentAvailabilityChangedPayload{
		AgentID:      agentID,
		Availability: value,
	})
	return nil
}

// SetPresence records an externally driven presence change and writes it
// through to the cache for cheap polling by the conversation layer.
func (s *AgentPoolService) SetPresence(ctx context.Context, agentID string, value domain.PresenceStatus) error {
	if err := s.agents.SetPresence(ctx, agentID, value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return apperrors.MapError(err)
	}

	if s.cache != nil && s.cache.Client != nil {
		if err := s.cache.Client.Set(ctx, presenceCacheKey+agentID, string(value), 24*time.Hour).Err(); err != nil {
			s.logger.Warn("presence cache write failed", zap.String("agent_id", agentID), zap.Error(err))
		}
	}

	s.publish(ctx, events.EventAgentPresenceChanged, events.AgentPresenceChangedPayload{
		AgentID:  agentID,
		Presence: value,
	})
	return nil
}

// CachedPresence reads the cached presence value for an agent, falling
// back to the registry when the cache misses or is unavailable.
func (s *AgentPoolService) CachedPresence(ctx context.Context, agentID string) (domain.PresenceStatus, error) {
	if s.cache != nil && s.cache.Client != nil {
		val, err := s.cache.Client.Get(ctx, presenceCacheKey+agentID).Result()
		if err == nil {
			return domain.PresenceStatus(val), nil
		}
	}
	agent, err := s.GetAgentInfo(ctx, agentID)
	if err != nil {
		return "", err
	}
	return agent.Presence, nil
}

// SetOperator grants or revokes the livechat agent role.
func (s *AgentPoolService) SetOperator(ctx context.Context, agentID string, operator bool) error {
	if err := s.agents.SetOperator(ctx, agentID, operator); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AgentPoolService) publish(ctx context.Context, eventType events.EventType, payload any) {
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
