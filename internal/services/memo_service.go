package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskdeck/internal/models"
	"taskdeck/internal/storage"
)

type memoServiceImpl struct {
	logger zerolog.Logger
	memos  storage.MemoStore
}

func NewMemoService(
	logger zerolog.Logger,
	memos storage.MemoStore,
) MemoService {
	return &memoServiceImpl{
		logger: logger,
		memos:  memos,
	}
}

func (s *memoServiceImpl) CreateMemo(ctx context.Context, userID, content string) (*models.Memo, error) {
	memoUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate memo uuid")
		return nil, err
	}

	memo := models.Memo{
		ID:        memoUUID.String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	err = s.memos.CreateMemo(ctx, &memo)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create memo")
		return nil, err
	}

	s.logger.Info().
		Str("memo_id", memo.ID).
		Str("user_id", userID).
		Msg("created memo")
	return &memo, nil
}

func (s *memoServiceImpl) ListMemos(ctx context.Context, userID string) ([]models.Memo, error) {
	memos, err := s.memos.ListMemos(ctx, userID, 0)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list memos")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(memos)).
		Msg("selected memos")

	return memos, nil
}
