package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"taskdeck/internal/models"
	"taskdeck/internal/storage"
)

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title,
                   description,
                   due_date,
                   category,
                   priority,
                   status,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err = tx.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Category,
		task.Priority,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}

	err = insertChecklist(ctx, tx, task.ID, task.Checklist)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert checklist")
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Int("checklist", len(task.Checklist)).
		Msg("inserted task")

	return nil
}

func (s *Store) ListTasks(ctx context.Context, userID, status string) ([]models.Task, error) {
	// Tasks without a due date always sort to the end.
	query := `
SELECT id, user_id, title, description, due_date, category, priority, status, created_at, updated_at
FROM tasks
WHERE user_id = $1
`
	args := []any{userID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY due_date ASC NULLS LAST, created_at ASC"

	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to scan tasks")
		return nil, err
	}

	err = s.attachChecklists(ctx, tasks)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (s *Store) FindTaskByID(ctx context.Context, id string) (*models.Task, error) {
	task := models.Task{ID: id}

	const selectTaskQuery = `
SELECT user_id, title, description, due_date, category, priority, status, created_at, updated_at
FROM tasks
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskQuery,
		task.ID,
	).Scan(
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Category,
		&task.Priority,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to select task")
		return nil, err
	}

	tasks := []models.Task{task}
	err = s.attachChecklists(ctx, tasks)
	if err != nil {
		return nil, err
	}

	return &tasks[0], nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task, replaceChecklist bool) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const updateTaskQuery = `
UPDATE tasks
SET title       = $1,
    description = $2,
    due_date    = $3,
    category    = $4,
    priority    = $5,
    status      = $6,
    updated_at  = $7
WHERE id = $8
`
	_, err = tx.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.Category,
		task.Priority,
		task.Status,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}

	if replaceChecklist {
		// Full replacement, never a merge. Item ids are not preserved.
		const deleteChecklistQuery = `
DELETE FROM checklist_items
       WHERE task_id = $1
`
		_, err = tx.Exec(ctx, deleteChecklistQuery, task.ID)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("task_id", task.ID).
				Msg("failed to delete checklist")
			return err
		}

		err = insertChecklist(ctx, tx, task.ID, task.Checklist)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("task_id", task.ID).
				Msg("failed to insert checklist")
			return err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Bool("replaced_checklist", replaceChecklist).
		Msg("updated task")

	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id, userID string) (int64, error) {
	const deleteTaskQuery = `
DELETE FROM tasks
       WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		id,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return 0, err
	}
	s.logger.Debug().
		Str("task_id", id).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted task")

	return tag.RowsAffected(), nil
}

func (s *Store) CountTasksCreatedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	const countQuery = `
SELECT COUNT(*)
FROM tasks
WHERE user_id = $1 AND created_at >= $2
`
	var count int
	err := s.pgPool.QueryRow(ctx, countQuery, userID, since).Scan(&count)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count created tasks")
		return 0, err
	}

	return count, nil
}

func (s *Store) CountTasksCompletedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	const countQuery = `
SELECT COUNT(*)
FROM tasks
WHERE user_id = $1 AND status = $2 AND updated_at >= $3
`
	var count int
	err := s.pgPool.QueryRow(ctx, countQuery, userID, models.StatusCompleted, since).Scan(&count)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count completed tasks")
		return 0, err
	}

	return count, nil
}

func (s *Store) ListUpcomingTasks(ctx context.Context, userID string, limit int) ([]models.Task, error) {
	const selectUpcomingQuery = `
SELECT id, user_id, title, description, due_date, category, priority, status, created_at, updated_at
FROM tasks
WHERE user_id = $1 AND status <> $2
ORDER BY due_date ASC NULLS LAST, created_at ASC
LIMIT $3
`
	rows, err := s.pgPool.Query(ctx, selectUpcomingQuery, userID, models.StatusCompleted, limit)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select upcoming tasks")
		return nil, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to scan upcoming tasks")
		return nil, err
	}

	return tasks, nil
}

func scanTasks(rows pgx.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.Category,
			&task.Priority,
			&task.Status,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func (s *Store) attachChecklists(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, len(tasks))
	index := make(map[string]*models.Task, len(tasks))
	for i := range tasks {
		tasks[i].Checklist = []models.ChecklistItem{}
		ids[i] = tasks[i].ID
		index[tasks[i].ID] = &tasks[i]
	}

	const selectChecklistQuery = `
SELECT id, task_id, title, is_done, position
FROM checklist_items
WHERE task_id = ANY($1)
ORDER BY task_id, position ASC
`
	rows, err := s.pgPool.Query(ctx, selectChecklistQuery, ids)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select checklist items")
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.ChecklistItem
		err = rows.Scan(
			&item.ID,
			&item.TaskID,
			&item.Title,
			&item.IsDone,
			&item.Position,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan checklist item")
			return err
		}

		task := index[item.TaskID]
		task.Checklist = append(task.Checklist, item)
	}

	return rows.Err()
}

func insertChecklist(ctx context.Context, tx pgx.Tx, taskID string, items []models.ChecklistItem) error {
	const insertItemQuery = `
INSERT INTO checklist_items (id,
                             task_id,
                             title,
                             is_done,
                             position)
VALUES ($1, $2, $3, $4, $5)
`
	for _, item := range items {
		_, err := tx.Exec(
			ctx,
			insertItemQuery,
			item.ID,
			taskID,
			item.Title,
			item.IsDone,
			item.Position,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
