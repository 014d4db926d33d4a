package telegram

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

// QuestionReady pushes the next question after the auto-advance delay.
func (h *Handler) QuestionReady(chatID int64, view entities.QuizView) error {
	return h.sendScreen(chatID, view)
}

// QuizCompleted pushes the final results of a run.
func (h *Handler) QuizCompleted(chatID int64, view entities.QuizView) error {
	h.logger.Info("quiz completed",
		zap.Int64("chat_id", chatID),
		zap.String("mode", view.State.Mode.String()),
		zap.Int("score", view.State.Score),
		zap.Int("total", view.Length),
	)
	return h.sendScreen(chatID, view)
}
