package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/avelinsk/daydo/internal/models"
)

type authServiceImpl struct {
	logger   zerolog.Logger
	users    UserService
	hasher   PasswordHasher
	tokens   TokenService
	tokenTTL time.Duration
}

func NewAuthService(
	logger zerolog.Logger,
	users UserService,
	hasher PasswordHasher,
	tokens TokenService,
	tokenTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		logger:   logger,
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	user, err := s.users.Create(ctx, CreateUserParams{
		Username:     params.Username,
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user.Username, s.tokenTTL)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue token")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("registered user")
	return &AuthResult{
		User:                 user,
		AccessToken:          token,
		AccessTokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Same error as a password mismatch, so login cannot be
			// used to probe which emails are registered.
			s.logger.Warn().
				Str("email", email).
				Msg("login with unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Warn().
			Int64("user_id", user.ID).
			Msg("login with wrong password")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.Username, s.tokenTTL)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue token")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("logged in")
	return &AuthResult{
		User:                 user,
		AccessToken:          token,
		AccessTokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("token verification failed")
		return nil, ErrUnauthenticated
	}

	user, err := s.users.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// A valid token for a deleted account must look exactly
			// like an invalid token.
			s.logger.Warn().
				Str("subject", subject).
				Msg("token subject no longer exists")
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return user, nil
}

func (s *authServiceImpl) UpdateProfile(ctx context.Context, user *models.User, name *string) (*models.User, error) {
	if name == nil || *name == "" {
		return user, nil
	}

	err := s.users.UpdateName(ctx, user.ID, *name)
	if err != nil {
		return nil, err
	}
	user.Name = *name

	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("updated profile")
	return user, nil
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error {
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		s.logger.Warn().
			Int64("user_id", user.ID).
			Msg("change password with wrong old password")
		return ErrInvalidCredentials
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return err
	}

	err = s.users.UpdatePassword(ctx, user.ID, passwordHash)
	if err != nil {
		return err
	}
	user.PasswordHash = passwordHash

	// Tokens issued before the change stay valid until their own
	// expiry; there is no server-side revocation list.
	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("changed password")
	return nil
}
