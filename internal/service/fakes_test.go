package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/livechat-service/internal/domain"
	"github.com/spec-kit/livechat-service/internal/repository"
)

// fakeAgentRepo is an in-memory registry honoring the same atomicity
// contract as the Postgres implementation: NextAgent holds the lock for
// the whole select-and-increment.
type fakeAgentRepo struct {
	mu           sync.Mutex
	agents       map[string]*domain.Agent
	availability map[string]error // injected per-agent SetAvailability failures
}

func newFakeAgentRepo(agents ...*domain.Agent) *fakeAgentRepo {
	repo := &fakeAgentRepo{
		agents:       make(map[string]*domain.Agent),
		availability: make(map[string]error),
	}
	for _, agent := range agents {
		repo.agents[agent.ID] = agent
	}
	return repo
}

func (f *fakeAgentRepo) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	agent, ok := f.agents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *agent
	return &copied, nil
}

func (f *fakeAgentRepo) GetByEmail(_ context.Context, email string) (*domain.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, agent := range f.agents {
		if agent.Email == email {
			copied := *agent
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAgentRepo) ListAgents(_ context.Context) ([]domain.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Agent
	for _, agent := range f.agents {
		if agent.HasRole(domain.RoleAgent) {
			result = append(result, *agent)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (f *fakeAgentRepo) ListEligible(_ context.Context) ([]domain.Agent, error) {
	return f.eligible(nil), nil
}

func (f *fakeAgentRepo) ListEligibleFrom(_ context.Context, usernames []string) ([]domain.Agent, error) {
	return f.eligible(usernames), nil
}

func (f *fakeAgentRepo) SetAvailability(_ context.Context, id string, value domain.Availability) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.availability[id]; ok {
		return err
	}
	agent, ok := f.agents[id]
	if !ok {
		return pgx.ErrNoRows
	}
	agent.Availability = value
	return nil
}

func (f *fakeAgentRepo) SetPresence(_ context.Context, id string, value domain.PresenceStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	agent, ok := f.agents[id]
	if !ok {
		return pgx.ErrNoRows
	}
	agent.Presence = value
	return nil
}

func (f *fakeAgentRepo) SetOperator(_ context.Context, id string, operator bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	agent, ok := f.agents[id]
	if !ok {
		return pgx.ErrNoRows
	}
	roles := make([]domain.Role, 0, len(agent.Roles))
	for _, role := range agent.Roles {
		if role != domain.RoleAgent {
			roles = append(roles, role)
		}
	}
	if operator {
		roles = append(roles, domain.RoleAgent)
	}
	agent.Roles = roles
	return nil
}

func (f *fakeAgentRepo) NextAgent(_ context.Context, usernames []string) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var candidates []*domain.Agent
	for _, agent := range f.agents {
		if !agent.Eligible() {
			continue
		}
		if usernames != nil && !containsString(usernames, agent.Username) {
			continue
		}
		candidates = append(candidates, agent)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].LivechatCount != candidates[j].LivechatCount {
			return candidates[i].LivechatCount < candidates[j].LivechatCount
		}
		return candidates[i].Username < candidates[j].Username
	})

	chosen := candidates[0]
	chosen.LivechatCount++
	return &domain.Assignment{AgentID: chosen.ID, Username: chosen.Username}, nil
}

func (f *fakeAgentRepo) count(id string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.agents[id].LivechatCount
}

func (f *fakeAgentRepo) eligible(usernames []string) []domain.Agent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Agent
	for _, agent := range f.agents {
		if !agent.Eligible() {
			continue
		}
		if usernames != nil && !containsString(usernames, agent.Username) {
			continue
		}
		result = append(result, *agent)
	}
	return result
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// fakeVisitorRepo is an in-memory visitor store enforcing the same
// token uniqueness as the visitors table.
type fakeVisitorRepo struct {
	mu       sync.Mutex
	visitors map[string]*domain.Visitor // keyed by id
	onCreate func(ctx context.Context)  // runs before the insert; lets tests interleave writes
}

func newFakeVisitorRepo() *fakeVisitorRepo {
	return &fakeVisitorRepo{visitors: make(map[string]*domain.Visitor)}
}

func (f *fakeVisitorRepo) Create(ctx context.Context, visitor *domain.Visitor) error {
	if f.onCreate != nil {
		f.onCreate(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.visitors {
		if existing.Token == visitor.Token {
			return &pgconn.PgError{Code: "23505", ConstraintName: "visitors_token_key"}
		}
	}
	visitor.ID = uuid.NewString()
	copied := *visitor
	f.visitors[visitor.ID] = &copied
	return nil
}

func (f *fakeVisitorRepo) GetByID(_ context.Context, id string) (*domain.Visitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	visitor, ok := f.visitors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *visitor
	return &copied, nil
}

func (f *fakeVisitorRepo) GetByToken(_ context.Context, token string) (*domain.Visitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, visitor := range f.visitors {
		if visitor.Token == token {
			copied := *visitor
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeVisitorRepo) GetByEmail(_ context.Context, address string) (*domain.Visitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, visitor := range f.visitors {
		for _, email := range visitor.Emails {
			if strings.EqualFold(email.Address, address) {
				copied := *visitor
				return &copied, nil
			}
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeVisitorRepo) GetByPhone(_ context.Context, number string) (*domain.Visitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, visitor := range f.visitors {
		for _, phone := range visitor.Phones {
			if phone.PhoneNumber == number {
				copied := *visitor
				return &copied, nil
			}
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeVisitorRepo) UpdateProfile(_ context.Context, id string, update repository.GuestProfileUpdate) error {
	if update.Empty() {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	visitor, ok := f.visitors[id]
	if !ok {
		return pgx.ErrNoRows
	}

	switch update.NameAction {
	case repository.FieldSet:
		visitor.Name = update.Name
	case repository.FieldUnset:
		visitor.Name = ""
	}
	switch update.EmailAction {
	case repository.FieldSet:
		visitor.Emails = []domain.VisitorEmail{{Address: update.Email}}
	case repository.FieldUnset:
		visitor.Emails = nil
	}
	switch update.PhoneAction {
	case repository.FieldSet:
		visitor.Phones = []domain.VisitorPhone{{PhoneNumber: update.Phone}}
	case repository.FieldUnset:
		visitor.Phones = nil
	}
	return nil
}

func (f *fakeVisitorRepo) SetCustomData(_ context.Context, token, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, visitor := range f.visitors {
		if visitor.Token == token {
			if visitor.CustomData == nil {
				visitor.CustomData = make(map[string]string)
			}
			visitor.CustomData[key] = value
			return nil
		}
	}
	return pgx.ErrNoRows
}

// fakeCounterRepo is an in-memory atomic sequence.
type fakeCounterRepo struct {
	mu     sync.Mutex
	values map[string]int64
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{values: make(map[string]int64)}
}

func (f *fakeCounterRepo) Increment(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key]++
	return f.values[key], nil
}

func (f *fakeCounterRepo) value(key string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key]
}
