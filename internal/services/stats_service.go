package services

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"taskdeck/internal/storage"
)

const (
	upcomingTaskLimit = 5
	recentMemoLimit   = 3
)

type statsServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskStore
	memos  storage.MemoStore
}

func NewStatsService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
	memos storage.MemoStore,
) StatsService {
	return &statsServiceImpl{
		logger: logger,
		tasks:  tasks,
		memos:  memos,
	}
}

// DailyStats aggregates the dashboard numbers: tasks created today, tasks
// completed today, the resulting progress rate, the next due tasks and the
// newest memos.
func (s *statsServiceImpl) DailyStats(ctx context.Context, userID string) (*DailyStats, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	total, err := s.tasks.CountTasksCreatedSince(ctx, userID, midnight)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count created tasks")
		return nil, err
	}

	completed, err := s.tasks.CountTasksCompletedSince(ctx, userID, midnight)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count completed tasks")
		return nil, err
	}

	upcoming, err := s.tasks.ListUpcomingTasks(ctx, userID, upcomingTaskLimit)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list upcoming tasks")
		return nil, err
	}

	memos, err := s.memos.ListMemos(ctx, userID, recentMemoLimit)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list recent memos")
		return nil, err
	}

	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(completed) / float64(total) * 100))
	}

	s.logger.Debug().
		Int("total", total).
		Int("completed", completed).
		Int("rate", rate).
		Msg("aggregated daily stats")

	return &DailyStats{
		TotalTasks:     total,
		CompletedTasks: completed,
		ProgressRate:   rate,
		UpcomingTasks:  upcoming,
		RecentMemos:    memos,
	}, nil
}
