package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
}

type CatalogRepository interface {
	Catalog() entities.Catalog
}

// QuizRepository persists evaluated answers and finished runs.
type QuizRepository interface {
	SaveAnswer(ctx context.Context, a *entities.QuizAnswer) error
	SaveResult(ctx context.Context, r *entities.QuizResult) error
}

type StatsRepository interface {
	GetStats(ctx context.Context, userID int64) ([]entities.ModeStats, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// QuizNotifier pushes screens produced by the delayed auto-advance.
type QuizNotifier interface {
	QuestionReady(chatID int64, view entities.QuizView) error
	QuizCompleted(chatID int64, view entities.QuizView) error
}

// QuizMetrics observes evaluated answers and finished runs.
type QuizMetrics interface {
	ObserveAnswer(mode entities.Mode, correct bool)
	ObserveCompleted(mode entities.Mode, score, total int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveAnswer(entities.Mode, bool) {}

func (nopMetrics) ObserveCompleted(entities.Mode, int, int) {}
