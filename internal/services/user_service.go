package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/avelinsk/daydo/internal/models"
)

type userServiceImpl struct {
	logger zerolog.Logger
	db     DB
}

func NewUserService(logger zerolog.Logger, db DB) UserService {
	return &userServiceImpl{
		logger: logger,
		db:     db,
	}
}

const selectUserColumns = `
SELECT id,
       username,
       email,
       name,
       password_hash,
       created_at
FROM users
`

func (s *userServiceImpl) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const selectUserByUsernameQuery = selectUserColumns + `WHERE username = $1`

	user := models.User{Username: username}
	err := s.db.QueryRow(
		ctx,
		selectUserByUsernameQuery,
		username,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("username", username).
			Msg("failed to select user by username")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("selected user by username")

	return &user, nil
}

func (s *userServiceImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = selectUserColumns + `WHERE email = $1`

	user := models.User{Email: email}
	err := s.db.QueryRow(
		ctx,
		selectUserByEmailQuery,
		email,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to select user by email")
		return nil, err
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("selected user by email")

	return &user, nil
}

func (s *userServiceImpl) Create(ctx context.Context, params CreateUserParams) (*models.User, error) {
	user := models.User{
		Username:     params.Username,
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now(),
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The username is checked before the email so that when both
	// collide the username is the one reported.
	const countByUsernameQuery = `
SELECT count(*) FROM users WHERE username = $1
`
	var taken int64
	err = tx.QueryRow(ctx, countByUsernameQuery, user.Username).Scan(&taken)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to check username uniqueness")
		return nil, err
	}
	if taken > 0 {
		s.logger.Warn().
			Str("username", user.Username).
			Msg("username already taken")
		return nil, &DuplicateError{Field: "username"}
	}

	const countByEmailQuery = `
SELECT count(*) FROM users WHERE email = $1
`
	err = tx.QueryRow(ctx, countByEmailQuery, user.Email).Scan(&taken)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to check email uniqueness")
		return nil, err
	}
	if taken > 0 {
		s.logger.Warn().
			Str("email", user.Email).
			Msg("email already taken")
		return nil, &DuplicateError{Field: "email"}
	}

	const insertUserQuery = `
INSERT INTO users (username,
                   email,
                   name,
                   password_hash,
                   created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	err = tx.QueryRow(
		ctx,
		insertUserQuery,
		user.Username,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		// A concurrent registration can slip past the pre-checks and
		// trip the unique constraint instead.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			field := "username"
			if strings.Contains(pgErr.ConstraintName, "email") {
				field = "email"
			}
			s.logger.Warn().
				Str("field", field).
				Msg("unique constraint violated on insert")
			return nil, &DuplicateError{Field: field}
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("created user")
	return &user, nil
}

func (s *userServiceImpl) UpdateName(ctx context.Context, userID int64, name string) error {
	const updateNameQuery = `
UPDATE users
SET name = $1
WHERE id = $2
`
	tag, err := s.db.Exec(ctx, updateNameQuery, name, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to update user name")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	s.logger.Info().
		Int64("user_id", userID).
		Msg("updated user name")
	return nil
}

func (s *userServiceImpl) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	const updatePasswordQuery = `
UPDATE users
SET password_hash = $1
WHERE id = $2
`
	tag, err := s.db.Exec(ctx, updatePasswordQuery, passwordHash, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to update user password")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	s.logger.Info().
		Int64("user_id", userID).
		Msg("updated user password")
	return nil
}
