package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskdeck/internal/models"
	"taskdeck/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskStore
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*models.Task, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if _, ok := models.ValidPriorities[priority]; !ok {
		s.logger.Error().
			Str("priority", priority).
			Msg("invalid priority")
		return nil, ErrInvalidPriority
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	now := time.Now()
	task := models.Task{
		ID:          taskUUID.String(),
		UserID:      userID,
		Title:       params.Title,
		Description: params.Description,
		DueDate:     params.DueDate,
		Category:    params.Category,
		Priority:    priority,
		Status:      models.StatusTodo,
		Checklist:   []models.ChecklistItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Checklist items start not done regardless of the submitted flag.
	for i, item := range params.Checklist {
		itemUUID, err := uuid.NewV7()
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to generate checklist item uuid")
			return nil, err
		}
		task.Checklist = append(task.Checklist, models.ChecklistItem{
			ID:       itemUUID.String(),
			TaskID:   task.ID,
			Title:    item.Title,
			IsDone:   false,
			Position: i,
		})
	}

	err = s.tasks.CreateTask(ctx, &task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", userID).
		Msg("created task")
	return &task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]models.Task, error) {
	if filter.Status != "" {
		if _, ok := models.ValidStatuses[filter.Status]; !ok {
			return nil, ErrInvalidStatus
		}
	}

	// filter.View is deliberately unused: daily/weekly/monthly views are
	// accepted on the wire but never narrow the result set.
	tasks, err := s.tasks.ListTasks(ctx, userID, filter.Status)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")

	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, userID, taskID string, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.tasks.FindTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// An absent task and a foreign task surface identically so the
			// response does not leak existence.
			s.logger.Error().
				Str("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskForbidden
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select task")
		return nil, err
	}

	if task.UserID != userID {
		s.logger.Error().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task belongs to another user")
		return nil, ErrTaskForbidden
	}

	if params.Title != nil {
		if strings.TrimSpace(*params.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		if _, ok := models.ValidStatuses[*params.Status]; !ok {
			return nil, ErrInvalidStatus
		}
		task.Status = *params.Status
	}

	replaceChecklist := params.Checklist != nil
	if replaceChecklist {
		task.Checklist = []models.ChecklistItem{}
		for i, item := range params.Checklist {
			itemUUID, err := uuid.NewV7()
			if err != nil {
				s.logger.Error().
					Err(err).
					Msg("failed to generate checklist item uuid")
				return nil, err
			}
			task.Checklist = append(task.Checklist, models.ChecklistItem{
				ID:       itemUUID.String(),
				TaskID:   task.ID,
				Title:    item.Title,
				IsDone:   item.IsDone,
				Position: i,
			})
		}
	}

	task.UpdatedAt = time.Now()
	err = s.tasks.UpdateTask(ctx, task, replaceChecklist)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID string) error {
	affected, err := s.tasks.DeleteTask(ctx, taskID, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to delete task")
		return err
	}

	if affected == 0 {
		// Either the task never existed or it belongs to someone else;
		// the composite-key delete makes the two indistinguishable.
		s.logger.Warn().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("delete affected no rows")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}
