package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/models"
	"taskdeck/internal/services"
)

type checklistItemRequest struct {
	Title  string `json:"title"`
	IsDone bool   `json:"isDone"`
}

type checklistItemResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	IsDone bool   `json:"isDone"`
}

type taskResponse struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	DueDate     *time.Time              `json:"dueDate,omitempty"`
	Category    string                  `json:"category,omitempty"`
	Priority    string                  `json:"priority"`
	Status      string                  `json:"status"`
	Checklist   []checklistItemResponse `json:"checklist"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	checklist := make([]checklistItemResponse, 0, len(task.Checklist))
	for _, item := range task.Checklist {
		checklist = append(checklist, checklistItemResponse{
			ID:     item.ID,
			Title:  item.Title,
			IsDone: item.IsDone,
		})
	}

	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Category:    task.Category,
		Priority:    task.Priority,
		Status:      task.Status,
		Checklist:   checklist,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

type createTaskRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	DueDate     string                 `json:"dueDate"`
	Category    string                 `json:"category"`
	Priority    string                 `json:"priority"`
	Checklist   []checklistItemRequest `json:"checklist"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("due_date", req.DueDate).
			Msg("failed to parse due date")
		abort(c, newBadRequestError("invalid due date"))
		return
	}

	params := services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Category:    req.Category,
		Priority:    req.Priority,
	}
	for _, item := range req.Checklist {
		params.Checklist = append(params.Checklist, services.CreateChecklistItem{
			Title:  item.Title,
			IsDone: item.IsDone,
		})
	}

	task, err := h.tasks.CreateTask(c, userID, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		switch {
		case errors.Is(err, services.ErrTitleRequired):
			abort(c, newBadRequestError(services.ErrTitleRequired.Error()))
		case errors.Is(err, services.ErrInvalidPriority):
			abort(c, newBadRequestError(services.ErrInvalidPriority.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filter := services.TaskFilter{
		Status: c.Query("status"),
		View:   c.Query("view"),
	}

	tasks, err := h.tasks.ListTasks(c, userID, filter)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		if errors.Is(err, services.ErrInvalidStatus) {
			abort(c, newBadRequestError(services.ErrInvalidStatus.Error()))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, newTaskResponse(&tasks[i]))
	}

	c.JSON(http.StatusOK, response)
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	// A nil checklist leaves the stored set untouched; a present one
	// replaces it entirely.
	Checklist []checklistItemRequest `json:"checklist,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError("task id is required"))
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.Checklist != nil {
		params.Checklist = make([]services.CreateChecklistItem, 0, len(req.Checklist))
		for _, item := range req.Checklist {
			params.Checklist = append(params.Checklist, services.CreateChecklistItem{
				Title:  item.Title,
				IsDone: item.IsDone,
			})
		}
	}

	task, err := h.tasks.UpdateTask(c, userID, taskID, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task")
		switch {
		case errors.Is(err, services.ErrTaskForbidden):
			abort(c, newForbiddenError("permission denied"))
		case errors.Is(err, services.ErrTitleRequired):
			abort(c, newBadRequestError(services.ErrTitleRequired.Error()))
		case errors.Is(err, services.ErrInvalidStatus):
			abort(c, newBadRequestError(services.ErrInvalidStatus.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError("task id is required"))
		return
	}

	err := h.tasks.DeleteTask(c, userID, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			// A no-op delete still answers 200 so the response does not
			// reveal whether the id exists under another owner.
			h.logger.Warn().
				Str("task_id", taskID).
				Msg("delete was a no-op")
			c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
			return
		}

		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// parseDueDate accepts RFC 3339 timestamps and bare dates, the two formats
// browser clients send.
func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
