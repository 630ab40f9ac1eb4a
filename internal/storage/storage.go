package storage

import (
	"context"
	"errors"
	"time"

	"taskdeck/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// UserStore persists account records.
type UserStore interface {
	// CreateUser inserts a new user. It returns ErrDuplicate
	// when the email is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// FindUserByEmail returns ErrNotFound when no user has the given email.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// FindUserByID returns ErrNotFound when no user has the given id.
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// TaskStore persists tasks together with their checklist items.
type TaskStore interface {
	// CreateTask inserts the task and its checklist in a single transaction.
	CreateTask(ctx context.Context, task *models.Task) error

	// ListTasks returns the user's tasks ordered by due date ascending with
	// tasks lacking a due date last. An empty status means no status filter.
	ListTasks(ctx context.Context, userID, status string) ([]models.Task, error)

	// FindTaskByID fetches a task with its checklist regardless of owner.
	// Ownership is the caller's concern. Returns ErrNotFound when absent.
	FindTaskByID(ctx context.Context, id string) (*models.Task, error)

	// UpdateTask writes the task's mutable columns. When replaceChecklist is
	// true the stored checklist is deleted and task.Checklist inserted in its
	// place, all within one transaction.
	UpdateTask(ctx context.Context, task *models.Task, replaceChecklist bool) error

	// DeleteTask removes the task scoped by (id, userID) and reports the
	// number of rows affected. A non-owned or absent id deletes nothing.
	DeleteTask(ctx context.Context, id, userID string) (int64, error)

	// CountTasksCreatedSince counts the user's tasks created at or after the
	// given instant.
	CountTasksCreatedSince(ctx context.Context, userID string, since time.Time) (int, error)

	// CountTasksCompletedSince counts the user's completed tasks last touched
	// at or after the given instant.
	CountTasksCompletedSince(ctx context.Context, userID string, since time.Time) (int, error)

	// ListUpcomingTasks returns up to limit non-completed tasks ordered by
	// due date ascending.
	ListUpcomingTasks(ctx context.Context, userID string, limit int) ([]models.Task, error)
}

// MemoStore persists memos.
type MemoStore interface {
	CreateMemo(ctx context.Context, memo *models.Memo) error

	// ListMemos returns the user's memos newest first. A non-positive limit
	// returns all of them.
	ListMemos(ctx context.Context, userID string, limit int) ([]models.Memo, error)
}
