package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserServiceWithMock(t *testing.T) (UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock pool")
	t.Cleanup(mock.Close)
	return NewUserService(zerolog.Nop(), mock), mock
}

var (
	selectByUsernameRe = regexp.QuoteMeta(`WHERE username = $1`)
	selectByEmailRe    = regexp.QuoteMeta(`WHERE email = $1`)
	countUsernameRe    = regexp.QuoteMeta(`SELECT count(*) FROM users WHERE username = $1`)
	countEmailRe       = regexp.QuoteMeta(`SELECT count(*) FROM users WHERE email = $1`)
	insertUserRe       = regexp.QuoteMeta(`INSERT INTO users`)
)

func userRow(id int64) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "username", "email", "name", "password_hash", "created_at"}).
		AddRow(id, "alice", "alice@example.com", "Alice", "$argon2id$...", time.Now())
}

func TestUserService_FindByUsername(t *testing.T) {
	users, mock := newUserServiceWithMock(t)

	mock.ExpectQuery(selectByUsernameRe).
		WithArgs("alice").
		WillReturnRows(userRow(1))

	user, err := users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_FindByUsernameNotFound(t *testing.T) {
	users, mock := newUserServiceWithMock(t)

	mock.ExpectQuery(selectByUsernameRe).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := users.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_FindByEmailNotFound(t *testing.T) {
	users, mock := newUserServiceWithMock(t)

	mock.ExpectQuery(selectByEmailRe).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := users.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Create(t *testing.T) {
	users, mock := newUserServiceWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(countUsernameRe).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(countEmailRe).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(insertUserRe).
		WithArgs("alice", "alice@example.com", "Alice", "$argon2id$...", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectCommit()

	user, err := users.Create(context.Background(), CreateUserParams{
		Username:     "alice",
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "$argon2id$...",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.CreatedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_CreateDuplicateUsername(t *testing.T) {
	users, mock := newUserServiceWithMock(t)

	// The username check runs first, so a username collision is the one
	// reported even when the email would collide too.
	mock.ExpectBegin()
	mock.ExpectQuery(countUsernameRe).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectRollback()

	_, err := users.Create(context.Background(), CreateUserParams{
		Username: "alice",
		Email:    "alice@example.com",
	})

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_CreateDuplicateEmail(t *testing.T) {
	users, mock := newUserServiceWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(countUsernameRe).
		WithArgs("bob").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(countEmailRe).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectRollback()

	_, err := users.Create(context.Background(), CreateUserParams{
		Username: "bob",
		Email:    "alice@example.com",
	})

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_CreateUniqueViolationRace(t *testing.T) {
	users, mock := newUserServiceWithMock(t)

	// Both pre-checks pass, then a concurrent insert wins the race and
	// the constraint fires. It must still surface as a duplicate, not a
	// raw database fault.
	mock.ExpectBegin()
	mock.ExpectQuery(countUsernameRe).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(countEmailRe).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(insertUserRe).
		WithArgs("alice", "alice@example.com", "Alice", "hash", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "users_email_key",
		})
	mock.ExpectRollback()

	_, err := users.Create(context.Background(), CreateUserParams{
		Username:     "alice",
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "hash",
	})

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_UpdateName(t *testing.T) {
	users, mock := newUserServiceWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users`)).
		WithArgs("Alice B.", int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := users.UpdateName(context.Background(), 1, "Alice B.")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_UpdatePasswordMissingUser(t *testing.T) {
	users, mock := newUserServiceWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users`)).
		WithArgs("newhash", int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := users.UpdatePassword(context.Background(), 42, "newhash")
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
