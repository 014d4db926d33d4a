package entities

import (
	"time"

	"github.com/google/uuid"
)

// QuizAnswer is one evaluated answer as stored in the history.
type QuizAnswer struct {
	ID             int64     // unique answer ID
	UserID         int64     // user who answered
	ChatID         int64     // chat the quiz runs in
	AttemptID      uuid.UUID // run the answer belongs to
	Mode           Mode      // quiz mode at the time of answering
	ItemName       string    // rule or mistake name
	UserAnswer     string    // answer as typed
	ExpectedAnswer string    // answer key
	IsCorrect      bool      // evaluation outcome
	AnsweredAt     time.Time // submission time
}

// NewQuizAnswer builds a history record from an evaluation.
func NewQuizAnswer(userID, chatID int64, attemptID uuid.UUID, e Evaluation) *QuizAnswer {
	return &QuizAnswer{
		UserID:         userID,
		ChatID:         chatID,
		AttemptID:      attemptID,
		Mode:           e.Mode,
		ItemName:       e.ItemName,
		UserAnswer:     e.UserAnswer,
		ExpectedAnswer: e.Expected,
		IsCorrect:      e.Correct,
		AnsweredAt:     time.Now(),
	}
}

// QuizResult is a finished quiz run.
type QuizResult struct {
	ID          int64
	UserID      int64
	ChatID      int64
	AttemptID   uuid.UUID
	Mode        Mode
	Score       int
	Total       int
	CompletedAt time.Time
}

// NewQuizResult builds a result record for a completed run.
func NewQuizResult(userID, chatID int64, attemptID uuid.UUID, mode Mode, score, total int) *QuizResult {
	return &QuizResult{
		UserID:      userID,
		ChatID:      chatID,
		AttemptID:   attemptID,
		Mode:        mode,
		Score:       score,
		Total:       total,
		CompletedAt: time.Now(),
	}
}

// ModeStats aggregates a user's history in one mode.
type ModeStats struct {
	Mode           Mode
	Runs           int     // completed runs
	BestScore      int     // best completed score
	AverageScore   float64 // mean completed score
	Answers        int     // evaluated answers, finished runs or not
	CorrectAnswers int
}

// Accuracy is the share of correct answers in percent.
func (ms ModeStats) Accuracy() float64 {
	if ms.Answers == 0 {
		return 0
	}
	return float64(ms.CorrectAnswers) / float64(ms.Answers) * 100
}
