package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
)

const uniqueViolation = "23505"

const createSignupsTable = `
	CREATE TABLE IF NOT EXISTS signups (
		seq          BIGSERIAL PRIMARY KEY,
		id           UUID        NOT NULL UNIQUE,
		timestamp    TEXT        NOT NULL DEFAULT '',
		email        TEXT        NOT NULL,
		email_key    TEXT        NOT NULL UNIQUE,
		projects     TEXT        NOT NULL DEFAULT '',
		page         TEXT        NOT NULL DEFAULT '',
		date_added   TIMESTAMPTZ NOT NULL,
		welcome_sent BOOLEAN     NOT NULL DEFAULT FALSE,
		beta_sent    BOOLEAN     NOT NULL DEFAULT FALSE,
		welcome_note TEXT        NOT NULL DEFAULT '',
		beta_note    TEXT        NOT NULL DEFAULT ''
	)
`

const selectSignups = `
	SELECT id, timestamp, email, projects, page, date_added,
	       welcome_sent, beta_sent, welcome_note, beta_note
	FROM signups
`

type SignupRepository struct {
	DB *sql.DB
}

func NewSignupRepository(db *sql.DB) *SignupRepository {
	return &SignupRepository{DB: db}
}

// EnsureHeader é o equivalente ao header da planilha: cria a tabela se não existir.
func (r *SignupRepository) EnsureHeader(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, createSignupsTable); err != nil {
		return fmt.Errorf("erro ao criar tabela signups: %w", err)
	}
	return nil
}

func (r *SignupRepository) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT email FROM signups ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *SignupRepository) Append(ctx context.Context, s *entity.Signup) error {
	query := `
		INSERT INTO signups (id, timestamp, email, email_key, projects, page, date_added, welcome_sent, beta_sent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.DB.ExecContext(ctx, query,
		s.ID,
		s.Timestamp,
		s.Email,
		entity.NormalizeEmail(s.Email),
		s.Projects,
		s.Page,
		s.DateAdded,
		s.WelcomeSent,
		s.BetaSent,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entity.ErrEmailAlreadyExists
		}
		return err
	}

	return nil
}

func (r *SignupRepository) ListAll(ctx context.Context) ([]*entity.Signup, error) {
	rows, err := r.DB.QueryContext(ctx, selectSignups+` ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signups []*entity.Signup
	for rows.Next() {
		s, err := scanSignup(rows)
		if err != nil {
			return nil, err
		}
		signups = append(signups, s)
	}
	return signups, rows.Err()
}

func (r *SignupRepository) FindByEmail(ctx context.Context, email string) (*entity.Signup, error) {
	row := r.DB.QueryRowContext(ctx, selectSignups+` WHERE email_key = $1`, entity.NormalizeEmail(email))
	s, err := scanSignup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSignupNotFound
	}
	return s, err
}

func (r *SignupRepository) MarkSent(ctx context.Context, id string, kind entity.NotificationKind, note string) error {
	query := `UPDATE signups SET welcome_sent = TRUE, welcome_note = $1 WHERE id = $2`
	if kind == entity.NotificationBeta {
		query = `UPDATE signups SET beta_sent = TRUE, beta_note = $1 WHERE id = $2`
	}

	res, err := r.DB.ExecContext(ctx, query, note, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrSignupNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSignup(sc scanner) (*entity.Signup, error) {
	var s entity.Signup
	err := sc.Scan(
		&s.ID,
		&s.Timestamp,
		&s.Email,
		&s.Projects,
		&s.Page,
		&s.DateAdded,
		&s.WelcomeSent,
		&s.BetaSent,
		&s.WelcomeNote,
		&s.BetaNote,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
