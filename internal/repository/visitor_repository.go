package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/livechat-service/internal/domain"
)

// FieldAction says what happens to one profile field during an update.
// A field resolves to exactly one action before reaching the store, so a
// single call can never carry both a set and an unset for the same field.
type FieldAction int

const (
	FieldUntouched FieldAction = iota
	FieldSet
	FieldUnset
)

// GuestProfileUpdate is a discriminated patch for a visitor profile.
type GuestProfileUpdate struct {
	NameAction  FieldAction
	Name        string
	EmailAction FieldAction
	Email       string
	PhoneAction FieldAction
	Phone       string
}

// Empty reports whether the update touches no field.
func (u GuestProfileUpdate) Empty() bool {
	return u.NameAction == FieldUntouched &&
		u.EmailAction == FieldUntouched &&
		u.PhoneAction == FieldUntouched
}

// VisitorRepository handles persistence for livechat visitors.
type VisitorRepository interface {
	Create(ctx context.Context, visitor *domain.Visitor) error
	GetByID(ctx context.Context, id string) (*domain.Visitor, error)
	GetByToken(ctx context.Context, token string) (*domain.Visitor, error)
	GetByEmail(ctx context.Context, address string) (*domain.Visitor, error)
	GetByPhone(ctx context.Context, number string) (*domain.Visitor, error)
	UpdateProfile(ctx context.Context, id string, update GuestProfileUpdate) error
	SetCustomData(ctx context.Context, token, key, value string) error
}

const visitorColumns = `id, token, username, COALESCE(name, ''), custom_data, created_at, updated_at`

type visitorRepository struct {
	pool *pgxpool.Pool
}

// NewVisitorRepository returns a Postgres-backed implementation.
func NewVisitorRepository(pool *pgxpool.Pool) VisitorRepository {
	return &visitorRepository{pool: pool}
}

func (r *visitorRepository) Create(ctx context.Context, visitor *domain.Visitor) error {
	const query = `
        INSERT INTO visitors (token, username)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		visitor.Token,
		visitor.Username,
	).Scan(&visitor.ID, &visitor.CreatedAt, &visitor.UpdatedAt)
}

func (r *visitorRepository) GetByID(ctx context.Context, id string) (*domain.Visitor, error) {
	const query = `SELECT ` + visitorColumns + ` FROM visitors WHERE id=$1`
	return r.fetch(ctx, query, id)
}

func (r *visitorRepository) GetByToken(ctx context.Context, token string) (*domain.Visitor, error) {
	const query = `SELECT ` + visitorColumns + ` FROM visitors WHERE token=$1`
	return r.fetch(ctx, query, token)
}

func (r *visitorRepository) GetByEmail(ctx context.Context, address string) (*domain.Visitor, error) {
	// The address arrives as a bind parameter, never interpolated into a
	// pattern, so no escaping is needed for the case-insensitive match.
	const query = `
        SELECT ` + visitorColumns + `
        FROM visitors v
        WHERE v.id = (
            SELECT visitor_id FROM visitor_emails WHERE LOWER(address) = LOWER($1) LIMIT 1
        )`
	return r.fetch(ctx, query, address)
}

func (r *visitorRepository) GetByPhone(ctx context.Context, number string) (*domain.Visitor, error) {
	const query = `
        SELECT ` + visitorColumns + `
        FROM visitors v
        WHERE v.id = (
            SELECT visitor_id FROM visitor_phones WHERE phone_number = $1 LIMIT 1
        )`
	return r.fetch(ctx, query, number)
}

func (r *visitorRepository) UpdateProfile(ctx context.Context, id string, update GuestProfileUpdate) error {
	if update.Empty() {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	switch update.NameAction {
	case FieldSet:
		err = touchVisitor(ctx, tx, `UPDATE visitors SET name=$1, updated_at=NOW() WHERE id=$2`, update.Name, id)
	case FieldUnset:
		err = touchVisitor(ctx, tx, `UPDATE visitors SET name=NULL, updated_at=NOW() WHERE id=$1`, id)
	default:
		err = touchVisitor(ctx, tx, `UPDATE visitors SET updated_at=NOW() WHERE id=$1`, id)
	}
	if err != nil {
		return err
	}

	if update.EmailAction != FieldUntouched {
		if _, err := tx.Exec(ctx, `DELETE FROM visitor_emails WHERE visitor_id=$1`, id); err != nil {
			return err
		}
		if update.EmailAction == FieldSet {
			if _, err := tx.Exec(ctx,
				`INSERT INTO visitor_emails (visitor_id, address) VALUES ($1, $2)`,
				id, update.Email); err != nil {
				return err
			}
		}
	}

	if update.PhoneAction != FieldUntouched {
		if _, err := tx.Exec(ctx, `DELETE FROM visitor_phones WHERE visitor_id=$1`, id); err != nil {
			return err
		}
		if update.PhoneAction == FieldSet {
			if _, err := tx.Exec(ctx,
				`INSERT INTO visitor_phones (visitor_id, phone_number) VALUES ($1, $2)`,
				id, update.Phone); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *visitorRepository) SetCustomData(ctx context.Context, token, key, value string) error {
	const query = `
        UPDATE visitors
        SET custom_data = jsonb_set(custom_data, ARRAY[$1], to_jsonb($2::text)), updated_at=NOW()
        WHERE token=$3`
	cmd, err := r.pool.Exec(ctx, query, key, value, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func touchVisitor(ctx context.Context, tx pgx.Tx, query string, args ...any) error {
	cmd, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *visitorRepository) fetch(ctx context.Context, query string, arg any) (*domain.Visitor, error) {
	var visitor domain.Visitor
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&visitor.ID,
		&visitor.Token,
		&visitor.Username,
		&visitor.Name,
		&visitor.CustomData,
		&visitor.CreatedAt,
		&visitor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := r.loadContacts(ctx, &visitor); err != nil {
		return nil, err
	}
	return &visitor, nil
}

func (r *visitorRepository) loadContacts(ctx context.Context, visitor *domain.Visitor) error {
	rows, err := r.pool.Query(ctx, `SELECT address FROM visitor_emails WHERE visitor_id=$1`, visitor.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var email domain.VisitorEmail
		if err := rows.Scan(&email.Address); err != nil {
			return err
		}
		visitor.Emails = append(visitor.Emails, email)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	phoneRows, err := r.pool.Query(ctx, `SELECT phone_number FROM visitor_phones WHERE visitor_id=$1`, visitor.ID)
	if err != nil {
		return err
	}
	defer phoneRows.Close()
	for phoneRows.Next() {
		var phone domain.VisitorPhone
		if err := phoneRows.Scan(&phone.PhoneNumber); err != nil {
			return err
		}
		visitor.Phones = append(visitor.Phones, phone)
	}
	return phoneRows.Err()
}
