package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
	"github.com/aliskhannn/logic-rules-bot/internal/infra/postgres"
)

// QuizRepository provides access to quiz answers and results in the database.
type QuizRepository struct {
	db postgres.DBTX
}

// NewQuizRepository creates a new QuizRepository with the provided database handle.
func NewQuizRepository(db postgres.DBTX) *QuizRepository {
	return &QuizRepository{db: db}
}

// SaveAnswer stores one evaluated answer.
func (r *QuizRepository) SaveAnswer(ctx context.Context, answer *entities.QuizAnswer) error {
	query := `
		INSERT INTO quiz_answers (
			user_id, chat_id, attempt_id, mode, item_name,
			user_answer, expected_answer, is_correct, answered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		answer.UserID,
		answer.ChatID,
		answer.AttemptID,
		answer.Mode.String(),
		answer.ItemName,
		answer.UserAnswer,
		answer.ExpectedAnswer,
		answer.IsCorrect,
		answer.AnsweredAt,
	).Scan(&answer.ID)
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}

	return nil
}

// SaveResult stores a completed quiz run. Saving the same attempt twice keeps
// the first result.
func (r *QuizRepository) SaveResult(ctx context.Context, result *entities.QuizResult) error {
	query := `
		INSERT INTO quiz_results (user_id, chat_id, attempt_id, mode, score, total, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (attempt_id) DO NOTHING
	`

	_, err := r.db.Exec(
		ctx,
		query,
		result.UserID,
		result.ChatID,
		result.AttemptID,
		result.Mode.String(),
		result.Score,
		result.Total,
		result.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	return nil
}

// GetStats aggregates the user's history per mode. Modes without any
// history are omitted.
func (r *QuizRepository) GetStats(ctx context.Context, userID int64) ([]entities.ModeStats, error) {
	query := `
		WITH results AS (
			SELECT mode,
			       COUNT(*)                 AS runs,
			       MAX(score)               AS best_score,
			       AVG(score)::float8       AS avg_score
			FROM quiz_results
			WHERE user_id = $1
			GROUP BY mode
		), answers AS (
			SELECT mode,
			       COUNT(*)                              AS answers,
			       COUNT(*) FILTER (WHERE is_correct)    AS correct
			FROM quiz_answers
			WHERE user_id = $1
			GROUP BY mode
		)
		SELECT COALESCE(r.mode, a.mode),
		       COALESCE(r.runs, 0),
		       COALESCE(r.best_score, 0),
		       COALESCE(r.avg_score, 0),
		       COALESCE(a.answers, 0),
		       COALESCE(a.correct, 0)
		FROM results r
		FULL OUTER JOIN answers a ON a.mode = r.mode
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []entities.ModeStats
	for rows.Next() {
		var (
			modeName string
			st       entities.ModeStats
		)
		if err := rows.Scan(
			&modeName,
			&st.Runs,
			&st.BestScore,
			&st.AverageScore,
			&st.Answers,
			&st.CorrectAnswers,
		); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}

		mode, err := entities.ParseMode(modeName)
		if err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		st.Mode = mode
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}

	return stats, nil
}
