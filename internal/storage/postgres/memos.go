package postgres

import (
	"context"

	"taskdeck/internal/models"
)

func (s *Store) CreateMemo(ctx context.Context, memo *models.Memo) error {
	const insertMemoQuery = `
INSERT INTO memos (id,
                   user_id,
                   content,
                   created_at)
VALUES ($1, $2, $3, $4)
`
	_, err := s.pgPool.Exec(
		ctx,
		insertMemoQuery,
		memo.ID,
		memo.UserID,
		memo.Content,
		memo.CreatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert memo")
		return err
	}
	s.logger.Debug().
		Str("memo_id", memo.ID).
		Msg("inserted memo")

	return nil
}

func (s *Store) ListMemos(ctx context.Context, userID string, limit int) ([]models.Memo, error) {
	query := `
SELECT id, user_id, content, created_at
FROM memos
WHERE user_id = $1
ORDER BY created_at DESC
`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select memos")
		return nil, err
	}
	defer rows.Close()

	var memos []models.Memo
	for rows.Next() {
		var memo models.Memo
		err = rows.Scan(
			&memo.ID,
			&memo.UserID,
			&memo.Content,
			&memo.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan memo")
			return nil, err
		}
		memos = append(memos, memo)
	}

	return memos, rows.Err()
}
