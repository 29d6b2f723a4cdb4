package services

import (
	"context"
	"errors"
	"time"

	"github.com/avelinsk/daydo/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials deliberately covers both an unknown email
	// and a wrong password, so a caller cannot probe which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated covers a missing, invalid or expired token as
	// well as a token whose subject no longer exists.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrTodoNotFound    = errors.New("todo not found")
	ErrNoteNotFound    = errors.New("note not found")
	ErrInvalidPriority = errors.New("invalid priority")
)

// DuplicateError reports which unique user field collided on registration.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " is already taken"
}

type PasswordHasher interface {
	// Hash produces a salted argon2id digest. Two calls with the
	// same plaintext yield different digests.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches the digest using a
	// constant-time comparison. A malformed digest is a mismatch,
	// never an error.
	Verify(plaintext, digest string) bool
}

type TokenService interface {
	// Issue signs a token carrying the subject and an absolute expiry
	// of now+ttl. No state is kept; the token is self-describing.
	Issue(subject string, ttl time.Duration) (token string, expiresAt time.Time, err error)

	// Verify checks the signature and expiry and returns the subject.
	//
	// It returns ErrTokenExpired for a well-formed but stale token and
	// ErrInvalidToken for anything else. It never touches the database.
	Verify(token string) (subject string, err error)
}

type UserService interface {
	// FindByUsername returns ErrUserNotFound if no such user exists.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail returns ErrUserNotFound if no such user exists.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Create inserts a user inside a single transaction, checking the
	// username first and the email second. Either a pre-check hit or a
	// late unique violation yields a *DuplicateError naming the field.
	Create(ctx context.Context, params CreateUserParams) (*models.User, error)

	UpdateName(ctx context.Context, userID int64, name string) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type AuthService interface {
	// Register creates the account and immediately issues a token, so
	// registration implies login. A colliding username or email
	// surfaces as *DuplicateError.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login authenticates by email and password and issues a fresh
	// token. It returns ErrInvalidCredentials on any failure.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Authenticate resolves an access token to a live user. Every
	// failure collapses to ErrUnauthenticated, including a still-valid
	// token whose account has been deleted.
	Authenticate(ctx context.Context, token string) (*models.User, error)

	// UpdateProfile changes the display name. A nil name is a no-op.
	UpdateProfile(ctx context.Context, user *models.User, name *string) (*models.User, error)

	// ChangePassword verifies the old password before storing the hash
	// of the new one. Outstanding tokens stay valid until they expire.
	ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error
}

type TodoService interface {
	// ListTodos returns every todo owned by ownerID, oldest first.
	ListTodos(ctx context.Context, ownerID int64) ([]*models.Todo, error)

	// GetTodo returns ErrTodoNotFound when the todo is missing or
	// belongs to somebody else; the two cases are indistinguishable.
	GetTodo(ctx context.Context, ownerID, todoID int64) (*models.Todo, error)

	CreateTodo(ctx context.Context, ownerID int64, params CreateTodoParams) (*models.Todo, error)
	UpdateTodo(ctx context.Context, ownerID, todoID int64, params UpdateTodoParams) (*models.Todo, error)
	DeleteTodo(ctx context.Context, ownerID, todoID int64) error

	// DeleteCompletedTodos removes the owner's completed todos and
	// returns how many were deleted. Zero matches is a success.
	DeleteCompletedTodos(ctx context.Context, ownerID int64) (int64, error)
}

type NoteService interface {
	// ListNotes returns every note owned by ownerID, most recently
	// updated first.
	ListNotes(ctx context.Context, ownerID int64) ([]*models.Note, error)

	// GetNote collapses missing and foreign notes into ErrNoteNotFound.
	GetNote(ctx context.Context, ownerID, noteID int64) (*models.Note, error)

	CreateNote(ctx context.Context, ownerID int64, params CreateNoteParams) (*models.Note, error)

	// UpdateNote changes only the provided fields and refreshes the
	// note's updated_at timestamp.
	UpdateNote(ctx context.Context, ownerID, noteID int64, params UpdateNoteParams) (*models.Note, error)

	DeleteNote(ctx context.Context, ownerID, noteID int64) error
}

type CreateUserParams struct {
	Username     string
	Email        string
	Name         string
	PasswordHash string
}

type RegisterParams struct {
	Username string
	Email    string
	Name     string
	Password string
}

type AuthResult struct {
	User                 *models.User
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

type CreateTodoParams struct {
	Text        string
	Completed   bool
	DueDate     *time.Time
	Category    *string
	Priority    string
	Description *string
}

type UpdateTodoParams struct {
	Text        *string
	Completed   *bool
	DueDate     *time.Time
	Category    *string
	Priority    *string
	Description *string
}

type CreateNoteParams struct {
	Title    string
	Content  *string
	Category *string
	Color    string
}

type UpdateNoteParams struct {
	Title    *string
	Content  *string
	Category *string
	Color    *string
}
