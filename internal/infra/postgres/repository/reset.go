package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/logic-rules-bot/internal/infra/postgres"
)

type ResetRepository struct {
	db postgres.DBTX
}

func NewResetRepository(db postgres.DBTX) *ResetRepository {
	return &ResetRepository{db: db}
}

// ResetUser deletes the user's whole quiz history.
func (s *ResetRepository) ResetUser(ctx context.Context, userID int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM quiz_answers WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete quiz_answers: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM quiz_results WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete quiz_results: %w", err)
	}

	return nil
}
