package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/livechat-service/internal/config"
	"github.com/spec-kit/livechat-service/internal/domain"
	"github.com/spec-kit/livechat-service/internal/events"
	"github.com/spec-kit/livechat-service/internal/repository"
	apperrors "github.com/spec-kit/livechat-service/pkg/util"
)

// Postgres class 23 integrity constraint violation for duplicate keys.
const uniqueViolationCode = "23505"

// ProfilePatch is the intake form of a visitor profile update. A nil
// field is left untouched; a field that trims to empty unsets the stored
// value; anything else sets it.
type ProfilePatch struct {
	Name  *string
	Email *string
	Phone *string
}

// VisitorService resolves and maintains visitor identities.
type VisitorService struct {
	visitors   repository.VisitorRepository
	counters   repository.CounterRepository
	dispatcher events.Dispatcher
	cfg        config.LivechatConfig
	logger     *zap.Logger
}

// VisitorDependencies bundles collaborators for the visitor service.
type VisitorDependencies struct {
	VisitorRepo repository.VisitorRepository
	CounterRepo repository.CounterRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewVisitorService creates the service.
func NewVisitorService(cfg config.LivechatConfig, deps VisitorDependencies) *VisitorService {
	return &VisitorService{
		visitors:   deps.VisitorRepo,
		counters:   deps.CounterRepo,
		dispatcher: deps.Dispatcher,
		cfg:        cfg,
		logger:     deps.Logger,
	}
}

// ResolveByToken looks a visitor up by its immutable session token.
// A missing visitor is (nil, nil), not an error.
func (s *VisitorService) ResolveByToken(ctx context.Context, token string) (*domain.Visitor, error) {
	visitor, err := s.visitors.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return visitor, nil
}

// RegisterGuest creates a visitor for a new session token, generating a
// guest display name when none is supplied. When the token is already
// known the existing visitor is returned unchanged.
func (s *VisitorService) RegisterGuest(ctx context.Context, token, displayName string) (*domain.Visitor, error) {
	if strings.TrimSpace(token) == "" {
		token = uuid.NewString()
	}

	existing, err := s.ResolveByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	username := strings.TrimSpace(displayName)
	if username == "" {
		username, err = s.GenerateGuestName(ctx)
		if err != nil {
			return nil, err
		}
	}

	visitor := &domain.Visitor{Token: token, Username: username}
	if err := s.visitors.Create(ctx, visitor); err != nil {
		// A concurrent registration for the same token can commit
		// between the lookup and the insert. The unique violation
		// means the visitor exists now, so return that one.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return s.ResolveByToken(ctx, token)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.VisitorRegisteredPayload{
		VisitorID: visitor.ID,
		Username:  visitor.Username,
	})
	return visitor, nil
}

// GenerateGuestName draws the next value from the shared guest sequence
// and formats the display name. Concurrent calls never produce the same
// name; the sequence survives restarts.
func (s *VisitorService) GenerateGuestName(ctx context.Context) (string, error) {
	value, err := s.counters.Increment(ctx, s.cfg.GuestCounterKey)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	return fmt.Sprintf("%s-%d", s.cfg.GuestNamePrefix, value), nil
}

// UpsertProfile applies a profile patch. Each submitted field either sets
// the stored value (non-empty after trimming) or removes it (empty after
// trimming); omitted fields stay untouched. An empty net change succeeds
// without touching the store.
func (s *VisitorService) UpsertProfile(ctx context.Context, visitorID string, patch ProfilePatch) error {
	update := repository.GuestProfileUpdate{}
	update.NameAction, update.Name = resolveField(patch.Name)
	update.EmailAction, update.Email = resolveField(patch.Email)
	update.PhoneAction, update.Phone = resolveField(patch.Phone)

	if update.Empty() {
		return nil
	}

	if err := s.visitors.UpdateProfile(ctx, visitorID, update); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("visitor", map[string]any{"visitor_id": visitorID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// FindByEmail matches a stored visitor email case-insensitively.
// A missing visitor is (nil, nil), not an error.
func (s *VisitorService) FindByEmail(ctx context.Context, address string) (*domain.Visitor, error) {
	visitor, err := s.visitors.GetByEmail(ctx, strings.TrimSpace(address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return visitor, nil
}

// FindByPhone matches a stored visitor phone number exactly.
// A missing visitor is (nil, nil), not an error.
func (s *VisitorService) FindByPhone(ctx context.Context, number string) (*domain.Visitor, error) {
	visitor, err := s.visitors.GetByPhone(ctx, strings.TrimSpace(number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return visitor, nil
}

// UpdateCustomData stores one key/value pair of livechat custom data on
// the visitor identified by token.
func (s *VisitorService) UpdateCustomData(ctx context.Context, token, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return apperrors.NewValidationError("custom data key required", nil)
	}
	if err := s.visitors.SetCustomData(ctx, token, key, value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("visitor", map[string]any{"token": token})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func resolveField(input *string) (repository.FieldAction, string) {
	if input == nil {
		return repository.FieldUntouched, ""
	}
	trimmed := strings.TrimSpace(*input)
	if trimmed == "" {
		return repository.FieldUnset, ""
	}
	return repository.FieldSet, trimmed
}

func (s *VisitorService) publish(ctx context.Context, payload events.VisitorRegisteredPayload) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventVisitorRegistered,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
