package v1_test

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	v1 "taskdeck/internal/delivery/http/v1"
	"taskdeck/internal/models"
	"taskdeck/internal/services"
)

// fakeAuthService answers through optional function fields; unset fields
// reject, so tests only wire what they exercise.
type fakeAuthService struct {
	registerFn      func(email, password string) (string, error)
	authenticateFn  func(email, password string) (*services.Identity, error)
	currentUserFn   func(userID string) (*services.Identity, error)
	issueTokensFn   func(userID string) (*services.TokenPair, error)
	verifyAccessFn  func(token string) (string, error)
	verifyRefreshFn func(token string) (string, error)

	verifyAccessCalls int
}

func (f *fakeAuthService) Register(_ context.Context, email, password string) (string, error) {
	if f.registerFn == nil {
		return "", services.ErrMissingInput
	}
	return f.registerFn(email, password)
}

func (f *fakeAuthService) Authenticate(_ context.Context, email, password string) (*services.Identity, error) {
	if f.authenticateFn == nil {
		return nil, services.ErrUserNotFound
	}
	return f.authenticateFn(email, password)
}

func (f *fakeAuthService) CurrentUser(_ context.Context, userID string) (*services.Identity, error) {
	if f.currentUserFn == nil {
		return nil, services.ErrUserNotFound
	}
	return f.currentUserFn(userID)
}

func (f *fakeAuthService) IssueTokens(userID string) (*services.TokenPair, error) {
	if f.issueTokensFn == nil {
		return defaultTokenPair(), nil
	}
	return f.issueTokensFn(userID)
}

func (f *fakeAuthService) VerifyAccessToken(token string) (string, error) {
	f.verifyAccessCalls++
	if f.verifyAccessFn == nil {
		return "", services.ErrInvalidToken
	}
	return f.verifyAccessFn(token)
}

func (f *fakeAuthService) VerifyRefreshToken(token string) (string, error) {
	if f.verifyRefreshFn == nil {
		return "", services.ErrInvalidToken
	}
	return f.verifyRefreshFn(token)
}

// fakeTaskService counts every business call so middleware tests can assert
// that rejected requests never reach it.
type fakeTaskService struct {
	createFn func(userID string, params services.CreateTaskParams) (*models.Task, error)
	listFn   func(userID string, filter services.TaskFilter) ([]models.Task, error)
	updateFn func(userID, taskID string, params services.UpdateTaskParams) (*models.Task, error)
	deleteFn func(userID, taskID string) error

	calls int
}

func (f *fakeTaskService) CreateTask(_ context.Context, userID string, params services.CreateTaskParams) (*models.Task, error) {
	f.calls++
	if f.createFn == nil {
		return nil, services.ErrTitleRequired
	}
	return f.createFn(userID, params)
}

func (f *fakeTaskService) ListTasks(_ context.Context, userID string, filter services.TaskFilter) ([]models.Task, error) {
	f.calls++
	if f.listFn == nil {
		return []models.Task{}, nil
	}
	return f.listFn(userID, filter)
}

func (f *fakeTaskService) UpdateTask(_ context.Context, userID, taskID string, params services.UpdateTaskParams) (*models.Task, error) {
	f.calls++
	if f.updateFn == nil {
		return nil, services.ErrTaskForbidden
	}
	return f.updateFn(userID, taskID, params)
}

func (f *fakeTaskService) DeleteTask(_ context.Context, userID, taskID string) error {
	f.calls++
	if f.deleteFn == nil {
		return services.ErrTaskNotFound
	}
	return f.deleteFn(userID, taskID)
}

type fakeMemoService struct {
	createFn func(userID, content string) (*models.Memo, error)
	listFn   func(userID string) ([]models.Memo, error)

	calls int
}

func (f *fakeMemoService) CreateMemo(_ context.Context, userID, content string) (*models.Memo, error) {
	f.calls++
	if f.createFn == nil {
		return &models.Memo{ID: "memo-1", UserID: userID, Content: content, CreatedAt: time.Now()}, nil
	}
	return f.createFn(userID, content)
}

func (f *fakeMemoService) ListMemos(_ context.Context, userID string) ([]models.Memo, error) {
	f.calls++
	if f.listFn == nil {
		return []models.Memo{}, nil
	}
	return f.listFn(userID)
}

type fakeStatsService struct {
	dailyStatsFn func(userID string) (*services.DailyStats, error)

	calls int
}

func (f *fakeStatsService) DailyStats(_ context.Context, userID string) (*services.DailyStats, error) {
	f.calls++
	if f.dailyStatsFn == nil {
		return &services.DailyStats{
			UpcomingTasks: []models.Task{},
			RecentMemos:   []models.Memo{},
		}, nil
	}
	return f.dailyStatsFn(userID)
}

func defaultTokenPair() *services.TokenPair {
	now := time.Now()
	return &services.TokenPair{
		AccessToken:           "access-token",
		AccessTokenExpiresAt:  now.Add(15 * time.Minute),
		RefreshToken:          "refresh-token",
		RefreshTokenExpiresAt: now.Add(30 * 24 * time.Hour),
	}
}

// listTasksRecorder returns an empty listing that records the user id it
// was asked for.
func listTasksRecorder(userID *string) func(string, services.TaskFilter) ([]models.Task, error) {
	return func(id string, _ services.TaskFilter) ([]models.Task, error) {
		*userID = id
		return []models.Task{}, nil
	}
}

// verifyUser returns a verifier that admits exactly one token.
func verifyUser(token, userID string) func(string) (string, error) {
	return func(got string) (string, error) {
		if got != token {
			return "", services.ErrInvalidToken
		}
		return userID, nil
	}
}

type testEnv struct {
	router *gin.Engine
	auth   *fakeAuthService
	tasks  *fakeTaskService
	memos  *fakeMemoService
	stats  *fakeStatsService
}

// newTestEnv mirrors the application's route table with fake services and
// a trivial page handler in place of the static frontend.
func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		auth:  &fakeAuthService{},
		tasks: &fakeTaskService{},
		memos: &fakeMemoService{},
		stats: &fakeStatsService{},
	}

	handler := v1.New(zerolog.Nop(), env.auth, env.tasks, env.memos, env.stats)

	router := gin.New()

	api := router.Group("/api")
	api.POST("/register", handler.HandleRegister)

	authRouter := api.Group("/auth")
	authRouter.POST("/login", handler.HandleLogin)
	authRouter.POST("/refresh", handler.HandleRefresh)
	authRouter.POST("/logout", handler.HandleLogout)
	authRouter.GET("/session", handler.HandleAuthMiddleware, handler.HandleSession)

	taskRouter := api.Group("/tasks", handler.HandleAuthMiddleware)
	taskRouter.POST("", handler.HandleCreateTask)
	taskRouter.GET("", handler.HandleListTasks)
	taskRouter.PATCH("/:id", handler.HandleUpdateTask)
	taskRouter.DELETE("/:id", handler.HandleDeleteTask)

	memoRouter := api.Group("/memos", handler.HandleAuthMiddleware)
	memoRouter.POST("", handler.HandleCreateMemo)
	memoRouter.GET("", handler.HandleListMemos)

	api.GET("/dashboard", handler.HandleAuthMiddleware, handler.HandleDashboard)

	router.NoRoute(handler.HandlePageAuthMiddleware, func(c *gin.Context) {
		c.String(http.StatusOK, "page")
	})

	env.router = router
	return env
}

func (e *testEnv) businessCalls() int {
	return e.tasks.calls + e.memos.calls + e.stats.calls
}
