package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type dashboardResponse struct {
	TotalTasks     int            `json:"totalTasks"`
	CompletedTasks int            `json:"completedTasks"`
	ProgressRate   int            `json:"progressRate"`
	UpcomingTasks  []taskResponse `json:"upcomingTasks"`
	RecentMemos    []memoResponse `json:"recentMemos"`
}

func (h *handlerImpl) HandleDashboard(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.stats.DailyStats(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to aggregate daily stats")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := dashboardResponse{
		TotalTasks:     stats.TotalTasks,
		CompletedTasks: stats.CompletedTasks,
		ProgressRate:   stats.ProgressRate,
		UpcomingTasks:  make([]taskResponse, 0, len(stats.UpcomingTasks)),
		RecentMemos:    make([]memoResponse, 0, len(stats.RecentMemos)),
	}
	for i := range stats.UpcomingTasks {
		response.UpcomingTasks = append(response.UpcomingTasks, newTaskResponse(&stats.UpcomingTasks[i]))
	}
	for i := range stats.RecentMemos {
		response.RecentMemos = append(response.RecentMemos, newMemoResponse(&stats.RecentMemos[i]))
	}

	c.JSON(http.StatusOK, response)
}
