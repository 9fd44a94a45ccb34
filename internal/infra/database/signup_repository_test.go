package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
)

func newMockRepo(t *testing.T) (*SignupRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSignupRepository(db), mock
}

func testSignup(t *testing.T) *entity.Signup {
	t.Helper()
	s, err := entity.NewSignup("ts", " A@X.com ", "proj", "landing", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return s
}

func TestAppendInsertsNormalizedKey(t *testing.T) {
	repo, mock := newMockRepo(t)
	s := testSignup(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO signups")).
		WithArgs(s.ID, "ts", "A@X.com", "a@x.com", "proj", "landing", s.DateAdded, false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Append(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendUniqueViolationIsDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO signups")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "signups_email_key_key"})

	err := repo.Append(context.Background(), testSignup(t))

	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
}

func TestAppendOtherErrorsPassThrough(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO signups")).
		WillReturnError(&pgconn.PgError{Code: "23502"})

	err := repo.Append(context.Background(), testSignup(t))

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23502", pgErr.Code)
	assert.NotErrorIs(t, err, entity.ErrEmailAlreadyExists)
}

func TestMarkSentUpdatesKindColumn(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE signups SET beta_sent = TRUE, beta_note = $1 WHERE id = $2")).
		WithArgs("Sent: now", "id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkSent(context.Background(), "id-1", entity.NotificationBeta, "Sent: now"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSentUnknownIDIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE signups SET welcome_sent = TRUE")).
		WithArgs("note", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkSent(context.Background(), "missing", entity.NotificationWelcome, "note")

	assert.ErrorIs(t, err, entity.ErrSignupNotFound)
}

func TestListEmailsInInsertOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT email FROM signups ORDER BY seq")).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("b@x.com").AddRow("a@x.com"))

	emails, err := repo.ListEmails(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"b@x.com", "a@x.com"}, emails)
}

func TestFindByEmailNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("WHERE email_key = \\$1").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail(context.Background(), " A@x.com")

	assert.ErrorIs(t, err, entity.ErrSignupNotFound)
}
