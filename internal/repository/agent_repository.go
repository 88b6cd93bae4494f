package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/livechat-service/internal/domain"
)

// AgentRepository is the agent pool registry: it owns all reads and writes
// of agent availability, presence and the open-conversation counter.
type AgentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	GetByEmail(ctx context.Context, email string) (*domain.Agent, error)
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	ListEligible(ctx context.Context) ([]domain.Agent, error)
	ListEligibleFrom(ctx context.Context, usernames []string) ([]domain.Agent, error)
	SetAvailability(ctx context.Context, id string, value domain.Availability) error
	SetPresence(ctx context.Context, id string, value domain.PresenceStatus) error
	SetOperator(ctx context.Context, id string, operator bool) error
	// NextAgent atomically picks the least-loaded eligible agent, increments
	// its conversation counter and returns the identity of the chosen row.
	// A non-nil usernames slice restricts candidates to that set. Returns
	// (nil, nil) when no agent is eligible; nothing is incremented then.
	NextAgent(ctx context.Context, usernames []string) (*domain.Assignment, error)
}

// Advisory lock key serializing concurrent dispatch selections against the
// same database. Any constant works as long as every writer uses it.
const dispatchLockID = 4217_0001

const eligiblePredicate = `
        presence_status <> 'offline'
        AND livechat_status = 'available'
        AND 'livechat-agent' = ANY(roles)`

const agentColumns = `
        id, username, name, email, password_hash, roles,
        presence_status, livechat_status, livechat_count, created_at, updated_at`

type agentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository returns a Postgres-backed implementation.
func NewAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &agentRepository{pool: pool}
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	const query = `SELECT ` + agentColumns + ` FROM agents WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *agentRepository) GetByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	const query = `SELECT ` + agentColumns + ` FROM agents WHERE email=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *agentRepository) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	const query = `
        SELECT ` + agentColumns + `
        FROM agents WHERE 'livechat-agent' = ANY(roles)
        ORDER BY username`
	return r.list(ctx, query)
}

func (r *agentRepository) ListEligible(ctx context.Context) ([]domain.Agent, error) {
	const query = `SELECT ` + agentColumns + ` FROM agents WHERE ` + eligiblePredicate
	return r.list(ctx, query)
}

func (r *agentRepository) ListEligibleFrom(ctx context.Context, usernames []string) ([]domain.Agent, error) {
	const query = `
        SELECT ` + agentColumns + `
        FROM agents WHERE ` + eligiblePredicate + ` AND username = ANY($1)`
	return r.list(ctx, query, usernames)
}

func (r *agentRepository) SetAvailability(ctx context.Context, id string, value domain.Availability) error {
	const query = `UPDATE agents SET livechat_status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, value, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) SetPresence(ctx context.Context, id string, value domain.PresenceStatus) error {
	const query = `UPDATE agents SET presence_status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, value, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) SetOperator(ctx context.Context, id string, operator bool) error {
	query := `
        UPDATE agents
        SET roles = array_remove(roles, 'livechat-agent'), updated_at=NOW()
        WHERE id=$1`
	if operator {
		query = `
        UPDATE agents
        SET roles = array_append(array_remove(roles, 'livechat-agent'), 'livechat-agent'),
            updated_at=NOW()
        WHERE id=$1`
	}
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) NextAgent(ctx context.Context, usernames []string) (*domain.Assignment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The advisory lock serializes selection-and-increment across all
	// callers, so each call observes the counters left by the previous one.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, dispatchLockID); err != nil {
		return nil, err
	}

	query := `
        UPDATE agents SET livechat_count = livechat_count + 1, updated_at = NOW()
        WHERE id = (
            SELECT id FROM agents
            WHERE ` + eligiblePredicate + `
            ORDER BY livechat_count ASC, username ASC
            LIMIT 1
        )
        RETURNING id, username`
	args := []any{}
	if usernames != nil {
		query = `
        UPDATE agents SET livechat_count = livechat_count + 1, updated_at = NOW()
        WHERE id = (
            SELECT id FROM agents
            WHERE ` + eligiblePredicate + ` AND username = ANY($1)
            ORDER BY livechat_count ASC, username ASC
            LIMIT 1
        )
        RETURNING id, username`
		args = append(args, usernames)
	}

	var assignment domain.Assignment
	if err := tx.QueryRow(ctx, query, args...).Scan(&assignment.AgentID, &assignment.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tx.Commit(ctx)
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *agentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Agent, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *agent)
	}
	return result, rows.Err()
}

func (r *agentRepository) scanOne(row pgx.Row) (*domain.Agent, error) {
	return scanAgent(row)
}

func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var agent domain.Agent
	var roles []string
	if err := row.Scan(
		&agent.ID,
		&agent.Username,
		&agent.Name,
		&agent.Email,
		&agent.PasswordHash,
		&roles,
		&agent.Presence,
		&agent.Availability,
		&agent.LivechatCount,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	agent.Roles = make([]domain.Role, 0, len(roles))
	for _, role := range roles {
		agent.Roles = append(agent.Roles, domain.Role(role))
	}
	return &agent, nil
}
