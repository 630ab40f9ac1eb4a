package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskdeck/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleSession(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandlePageAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleCreateMemo(c *gin.Context)
	HandleListMemos(c *gin.Context)

	HandleDashboard(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	auth   services.AuthService
	tasks  services.TaskService
	memos  services.MemoService
	stats  services.StatsService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	taskService services.TaskService,
	memoService services.MemoService,
	statsService services.StatsService,
) Handler {
	return &handlerImpl{
		logger: logger,
		auth:   authService,
		tasks:  taskService,
		memos:  memoService,
		stats:  statsService,
	}
}
