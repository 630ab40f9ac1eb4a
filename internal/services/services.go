package services

import (
	"context"
	"errors"
	"time"

	"taskdeck/internal/models"
)

var (
	ErrMissingInput         = errors.New("email and password are required")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrTitleRequired        = errors.New("title is required")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPriority      = errors.New("invalid priority")
	ErrTaskForbidden        = errors.New("task does not belong to the user")
	ErrTaskNotFound         = errors.New("task not found")
	ErrInvalidToken         = errors.New("invalid token")
)

// Identity is the minimal public identity of an authenticated user.
type Identity struct {
	UserID string
	Email  string
}

// TokenPair carries a freshly signed access/refresh token pair.
type TokenPair struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type AuthService interface {
	// Register validates that both fields are present, hashes the password
	// and creates the user. It returns the new user's id, or
	// ErrUserAlreadyExists when the email is taken. Unlike login, a duplicate
	// email is reported to the caller verbatim.
	Register(ctx context.Context, email, password string) (string, error)

	// Authenticate checks the credentials against the stored hash.
	//
	// It returns ErrMissingInput when either field is empty,
	// ErrUserNotFound when no user has the email or the account carries no
	// password hash, and ErrUserPasswordMismatch on a wrong password. The
	// delivery layer collapses the latter two into one generic response.
	Authenticate(ctx context.Context, email, password string) (*Identity, error)

	// CurrentUser rehydrates the public identity for a verified user id.
	CurrentUser(ctx context.Context, userID string) (*Identity, error)

	// IssueTokens signs a stateless access/refresh token pair whose subject
	// is the user id. Nothing is persisted.
	IssueTokens(userID string) (*TokenPair, error)

	// VerifyAccessToken verifies the signature and claims of an access token
	// and returns the subject user id. Pure; it never touches storage.
	VerifyAccessToken(token string) (string, error)

	// VerifyRefreshToken behaves like VerifyAccessToken for refresh tokens.
	// Access tokens are rejected here and vice versa.
	VerifyRefreshToken(token string) (string, error)
}

type CreateChecklistItem struct {
	Title  string
	IsDone bool
}

type CreateTaskParams struct {
	Title       string
	Description string
	DueDate     *time.Time
	Category    string
	Priority    string
	Checklist   []CreateChecklistItem
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *string
	// Checklist, when non-nil, fully replaces the stored set.
	Checklist []CreateChecklistItem
}

type TaskFilter struct {
	Status string
	// View is accepted for forward compatibility and never narrows the
	// result set.
	View string
}

type TaskService interface {
	// CreateTask creates an owner-scoped task. Priority defaults to medium,
	// status to todo, and supplied checklist items are stored not done
	// regardless of input.
	CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*models.Task, error)

	// ListTasks returns the user's tasks ordered by due date ascending,
	// tasks without a due date last.
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]models.Task, error)

	// UpdateTask returns ErrTaskForbidden both when the task is absent and
	// when it belongs to another user, so the two cases are
	// indistinguishable to the caller.
	UpdateTask(ctx context.Context, userID, taskID string, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask deletes scoped by (id, userID) and returns ErrTaskNotFound
	// when nothing was deleted.
	DeleteTask(ctx context.Context, userID, taskID string) error
}

type MemoService interface {
	// CreateMemo persists a memo owned by the user. Empty content is
	// accepted; only the client form enforces non-empty.
	CreateMemo(ctx context.Context, userID, content string) (*models.Memo, error)

	// ListMemos returns the user's memos newest first.
	ListMemos(ctx context.Context, userID string) ([]models.Memo, error)
}

// DailyStats summarizes the user's day for the dashboard.
type DailyStats struct {
	TotalTasks     int
	CompletedTasks int
	ProgressRate   int
	UpcomingTasks  []models.Task
	RecentMemos    []models.Memo
}

type StatsService interface {
	DailyStats(ctx context.Context, userID string) (*DailyStats, error)
}
