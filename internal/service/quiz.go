package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
	"github.com/aliskhannn/logic-rules-bot/internal/storage"
)

var (
	ErrEmptyAnswer    = errors.New("answer is empty")
	ErrAnswerRevealed = errors.New("answer already revealed, next question is on its way")
	ErrQuizComplete   = errors.New("quiz is complete")
	ErrNoQuestion     = errors.New("no question available")
)

const defaultAdvanceDelay = 2 * time.Second

// QuizOptions tunes quiz sessions.
type QuizOptions struct {
	SessionLength int
	AdvanceDelay  time.Duration
	NewRand       func() *rand.Rand // source for question picks, one per session
	Metrics       QuizMetrics
}

// QuizService runs one quiz session per chat and schedules auto-advance.
type QuizService struct {
	catalog  entities.Catalog
	sessions *storage.SessionStorage
	quizRepo QuizRepository
	notifier QuizNotifier
	logger   *zap.Logger
	opts     QuizOptions
}

func NewQuizService(
	catalogRepo CatalogRepository,
	sessions *storage.SessionStorage,
	quizRepo QuizRepository,
	opts QuizOptions,
	logger *zap.Logger,
) *QuizService {
	if opts.SessionLength <= 0 {
		opts.SessionLength = entities.DefaultSessionLength
	}
	if opts.AdvanceDelay < 0 {
		opts.AdvanceDelay = defaultAdvanceDelay
	}
	if opts.Metrics == nil {
		opts.Metrics = nopMetrics{}
	}
	if opts.NewRand == nil {
		opts.NewRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}

	return &QuizService{
		catalog:  catalogRepo.Catalog(),
		sessions: sessions,
		quizRepo: quizRepo,
		logger:   logger,
		opts:     opts,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *QuizService) SetNotifier(notifier QuizNotifier) {
	s.notifier = notifier
}

// View returns the chat's current screen, starting a session if needed.
func (s *QuizService) View(chatID, userID int64) entities.QuizView {
	e := s.entry(chatID, userID)
	e.Lock()
	defer e.Unlock()

	e.Touch(time.Now())
	return e.Session.View()
}

// SelectMode switches the chat to mode. Any pending auto-advance is dropped.
func (s *QuizService) SelectMode(chatID, userID int64, mode entities.Mode) entities.QuizView {
	e := s.entry(chatID, userID)
	e.Lock()
	defer e.Unlock()

	e.CancelPending()
	e.Session.SelectMode(mode)
	e.NewAttempt()
	e.Composing = false
	e.Touch(time.Now())

	s.logger.Debug("quiz mode selected",
		zap.Int64("chat_id", chatID),
		zap.String("mode", mode.String()),
		zap.String("attempt_id", e.AttemptID.String()),
	)

	return e.Session.View()
}

// SubmitAnswer sets the typed answer and evaluates it.
func (s *QuizService) SubmitAnswer(
	ctx context.Context, chatID, userID int64, text string,
) (entities.Evaluation, entities.QuizView, error) {
	return s.submit(ctx, chatID, userID, func(e *storage.SessionEntry) {
		e.Session.SetAnswer(text)
	})
}

// SubmitDraft evaluates the answer built in the composer.
func (s *QuizService) SubmitDraft(ctx context.Context, chatID, userID int64) (entities.Evaluation, entities.QuizView, error) {
	return s.submit(ctx, chatID, userID, nil)
}

// StartCompose opens the symbol composer with an empty draft.
func (s *QuizService) StartCompose(chatID, userID int64) (entities.QuizView, error) {
	e := s.entry(chatID, userID)
	e.Lock()
	defer e.Unlock()

	if err := answerable(e.Session.State()); err != nil {
		return e.Session.View(), err
	}

	e.Session.SetAnswer("")
	e.Composing = true
	e.Touch(time.Now())
	return e.Session.View(), nil
}

// IsComposing reports whether typed text should extend the draft.
func (s *QuizService) IsComposing(chatID int64) bool {
	e, ok := s.sessions.Get(chatID)
	if !ok {
		return false
	}
	e.Lock()
	defer e.Unlock()
	return e.Composing
}

// InsertSymbol adds a logic glyph at the end of the draft.
func (s *QuizService) InsertSymbol(chatID, userID int64, symbol string) (entities.QuizView, error) {
	e := s.entry(chatID, userID)
	e.Lock()
	defer e.Unlock()

	if err := answerable(e.Session.State()); err != nil {
		return e.Session.View(), err
	}

	end := len([]rune(e.Session.State().UserAnswer))
	if _, err := e.Session.InsertSymbol(symbol, end, end); err != nil {
		return e.Session.View(), err
	}

	e.Composing = true
	e.Touch(time.Now())
	return e.Session.View(), nil
}

// AppendDraft adds typed text at the end of the draft.
func (s *QuizService) AppendDraft(chatID, userID int64, text string) (entities.QuizView, error) {
	e := s.entry(chatID, userID)
	e.Lock()
	defer e.Unlock()

	if err := answerable(e.Session.State()); err != nil {
		return e.Session.View(), err
	}

	e.Session.SetAnswer(e.Session.State().UserAnswer + text)
	e.Composing = true
	e.Touch(time.Now())
	return e.Session.View(), nil
}

// ClearDraft empties the draft and leaves the composer.
func (s *QuizService) ClearDraft(chatID, userID int64) entities.QuizView {
	e := s.entry(chatID, userID)
	e.Lock()
	defer e.Unlock()

	if !e.Session.State().Revealed {
		e.Session.SetAnswer("")
	}
	e.Composing = false
	e.Touch(time.Now())
	return e.Session.View()
}

// Reference lists the full pool of the mode.
func (s *QuizService) Reference(mode entities.Mode) []entities.ReferenceEntry {
	return entities.Reference(s.catalog, mode)
}

// Forget drops the chat's in-memory session.
func (s *QuizService) Forget(chatID int64) {
	s.sessions.Delete(chatID)
}

func (s *QuizService) submit(
	ctx context.Context, chatID, userID int64, setAnswer func(e *storage.SessionEntry),
) (entities.Evaluation, entities.QuizView, error) {
	e := s.entry(chatID, userID)
	e.Lock()

	if err := answerable(e.Session.State()); err != nil {
		view := e.Session.View()
		e.Unlock()
		return entities.Evaluation{}, view, err
	}

	if setAnswer != nil {
		setAnswer(e)
	}

	if strings.TrimSpace(e.Session.State().UserAnswer) == "" {
		view := e.Session.View()
		e.Unlock()
		return entities.Evaluation{}, view, ErrEmptyAnswer
	}

	eval, ok := e.Session.Submit()
	if !ok {
		view := e.Session.View()
		e.Unlock()
		return entities.Evaluation{}, view, ErrNoQuestion
	}

	e.Composing = false
	e.Touch(time.Now())
	generation := eval.Generation
	e.Schedule(s.opts.AdvanceDelay, func() {
		s.autoAdvance(chatID, e, generation)
	})

	view := e.Session.View()
	attemptID := e.AttemptID
	e.Unlock()

	s.logger.Debug("answer evaluated",
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", userID),
		zap.String("mode", eval.Mode.String()),
		zap.Bool("correct", eval.Correct),
		zap.Int("answered", eval.QuestionsAnswered),
	)
	s.opts.Metrics.ObserveAnswer(eval.Mode, eval.Correct)

	if err := s.quizRepo.SaveAnswer(ctx, entities.NewQuizAnswer(userID, chatID, attemptID, eval)); err != nil {
		s.logger.Error("failed to save quiz answer",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}

	if eval.Last {
		s.opts.Metrics.ObserveCompleted(eval.Mode, eval.Score, view.Length)
		result := entities.NewQuizResult(userID, chatID, attemptID, eval.Mode, eval.Score, view.Length)
		if err := s.quizRepo.SaveResult(ctx, result); err != nil {
			s.logger.Error("failed to save quiz result",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}

	return eval, view, nil
}

// autoAdvance is the delayed step scheduled after every evaluated answer.
// It does nothing once the entry has been replaced or removed.
func (s *QuizService) autoAdvance(chatID int64, e *storage.SessionEntry, generation uint64) {
	if cur, ok := s.sessions.Get(chatID); !ok || cur != e {
		return
	}

	e.Lock()
	outcome := e.Session.AutoAdvance(generation)
	view := e.Session.View()
	e.Unlock()

	if outcome == entities.AdvanceSkipped {
		s.logger.Debug("stale auto-advance dropped", zap.Int64("chat_id", chatID))
		return
	}
	if s.notifier == nil {
		return
	}

	var err error
	switch outcome {
	case entities.AdvanceNext:
		err = s.notifier.QuestionReady(chatID, view)
	case entities.AdvanceComplete:
		err = s.notifier.QuizCompleted(chatID, view)
	}

	if err != nil {
		s.logger.Error("failed to notify chat",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

func (s *QuizService) entry(chatID, userID int64) *storage.SessionEntry {
	e, created := s.sessions.GetOrCreate(chatID, userID, func() *entities.QuizSession {
		return entities.NewQuizSession(s.catalog, s.opts.SessionLength, s.opts.NewRand())
	})
	if created {
		s.logger.Debug("quiz session started", zap.Int64("chat_id", chatID))
	}
	return e
}

func answerable(st entities.QuizState) error {
	switch {
	case st.Complete:
		return ErrQuizComplete
	case st.Revealed:
		return ErrAnswerRevealed
	default:
		return nil
	}
}
