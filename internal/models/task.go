package models

import "time"

const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidStatuses enumerates the statuses a task may hold.
var ValidStatuses = map[string]struct{}{
	StatusTodo:       {},
	StatusInProgress: {},
	StatusCompleted:  {},
}

// ValidPriorities enumerates the priorities a task may hold.
var ValidPriorities = map[string]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
}

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	DueDate     *time.Time
	Category    string
	Priority    string
	Status      string
	Checklist   []ChecklistItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChecklistItem is a sub-entry within a task. Its lifecycle is bound to the
// parent task: items are created with the task or replaced wholesale when an
// update carries a checklist payload.
type ChecklistItem struct {
	ID       string
	TaskID   string
	Title    string
	IsDone   bool
	Position int
}
