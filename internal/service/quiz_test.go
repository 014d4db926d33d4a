package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
	"github.com/aliskhannn/logic-rules-bot/internal/repository"
	"github.com/aliskhannn/logic-rules-bot/internal/storage"
)

type fakeQuizRepo struct {
	mu      sync.Mutex
	answers []*entities.QuizAnswer
	results []*entities.QuizResult
	err     error
}

func (f *fakeQuizRepo) SaveAnswer(_ context.Context, a *entities.QuizAnswer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, a)
	return f.err
}

func (f *fakeQuizRepo) SaveResult(_ context.Context, r *entities.QuizResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return f.err
}

func (f *fakeQuizRepo) counts() (answers, results int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.answers), len(f.results)
}

type fakeNotifier struct {
	questions chan entities.QuizView
	completed chan entities.QuizView
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		questions: make(chan entities.QuizView, 32),
		completed: make(chan entities.QuizView, 32),
	}
}

func (f *fakeNotifier) QuestionReady(_ int64, view entities.QuizView) error {
	f.questions <- view
	return nil
}

func (f *fakeNotifier) QuizCompleted(_ int64, view entities.QuizView) error {
	f.completed <- view
	return nil
}

const (
	testChatID int64 = 100
	testUserID int64 = 7
)

func newTestQuizService(t *testing.T, delay time.Duration) (*QuizService, *fakeQuizRepo, *fakeNotifier) {
	t.Helper()

	catalogRepo, err := repository.NewCatalogRepository("")
	require.NoError(t, err)

	repo := &fakeQuizRepo{}
	notifier := newFakeNotifier()

	svc := NewQuizService(catalogRepo, storage.NewSessionStorage(), repo, QuizOptions{
		SessionLength: entities.DefaultSessionLength,
		AdvanceDelay:  delay,
		NewRand:       func() *rand.Rand { return rand.New(rand.NewSource(3)) },
	}, zaptest.NewLogger(t))
	svc.SetNotifier(notifier)

	return svc, repo, notifier
}

func waitView(t *testing.T, ch <-chan entities.QuizView) entities.QuizView {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return entities.QuizView{}
	}
}

func expectedAnswer(t *testing.T, v entities.QuizView, catalog entities.Catalog) string {
	t.Helper()
	st := v.State
	switch st.Mode {
	case entities.ModeIdentifyRule:
		return catalog.Rules[st.CurrentIndex].Name
	case entities.ModeCompleteRule:
		return catalog.Rules[st.CurrentIndex].Conclusion
	default:
		return catalog.Mistakes[st.CurrentIndex].Correction
	}
}

func TestQuizServiceStartsAtFirstQuestion(t *testing.T) {
	svc, _, _ := newTestQuizService(t, time.Hour)

	v := svc.View(testChatID, testUserID)
	require.True(t, v.HasQuestion)
	assert.Equal(t, entities.ModeIdentifyRule, v.State.Mode)
	assert.Zero(t, v.State.CurrentIndex)
	assert.Equal(t, "Identify this rule:", v.Question.Heading)
}

func TestQuizServiceSubmitCorrect(t *testing.T) {
	svc, repo, _ := newTestQuizService(t, time.Hour)

	eval, v, err := svc.SubmitAnswer(context.Background(), testChatID, testUserID, "modus ponens")
	require.NoError(t, err)

	assert.True(t, eval.Correct)
	assert.Equal(t, "Correct! Well done.", eval.Feedback)
	assert.Equal(t, 1, v.State.Score)
	assert.Equal(t, 1, v.State.QuestionsAnswered)
	assert.True(t, v.State.Revealed)
	assert.Equal(t, 10, v.Progress)

	require.Len(t, repo.answers, 1)
	a := repo.answers[0]
	assert.Equal(t, testUserID, a.UserID)
	assert.Equal(t, testChatID, a.ChatID)
	assert.Equal(t, "Modus Ponens", a.ItemName)
	assert.Equal(t, "modus ponens", a.UserAnswer)
	assert.True(t, a.IsCorrect)
}

func TestQuizServiceBoundaryErrors(t *testing.T) {
	svc, repo, _ := newTestQuizService(t, time.Hour)
	ctx := context.Background()

	_, _, err := svc.SubmitAnswer(ctx, testChatID, testUserID, "   ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	_, _, err = svc.SubmitAnswer(ctx, testChatID, testUserID, "Modus Ponens")
	require.NoError(t, err)

	_, v, err := svc.SubmitAnswer(ctx, testChatID, testUserID, "Modus Ponens")
	assert.ErrorIs(t, err, ErrAnswerRevealed)
	assert.Equal(t, 1, v.State.QuestionsAnswered)

	_, err = svc.InsertSymbol(testChatID, testUserID, "∧")
	assert.ErrorIs(t, err, ErrAnswerRevealed)

	answers, _ := repo.counts()
	assert.Equal(t, 1, answers)
}

func TestQuizServiceAutoAdvance(t *testing.T) {
	svc, _, notifier := newTestQuizService(t, 5*time.Millisecond)

	_, _, err := svc.SubmitAnswer(context.Background(), testChatID, testUserID, "wrong")
	require.NoError(t, err)

	v := waitView(t, notifier.questions)
	assert.False(t, v.State.Revealed)
	assert.Empty(t, v.State.UserAnswer)
	assert.Empty(t, v.State.Feedback)
	assert.Equal(t, 1, v.State.QuestionsAnswered)
	assert.Zero(t, v.State.Score)

	assert.Equal(t, v.State, svc.View(testChatID, testUserID).State)
}

func TestQuizServiceModeChangeDropsPendingAdvance(t *testing.T) {
	svc, _, notifier := newTestQuizService(t, 30*time.Millisecond)

	_, _, err := svc.SubmitAnswer(context.Background(), testChatID, testUserID, "Modus Ponens")
	require.NoError(t, err)

	v := svc.SelectMode(testChatID, testUserID, entities.ModeIdentifyMistakeCorrection)
	assert.Equal(t, entities.ModeIdentifyMistakeCorrection, v.State.Mode)
	assert.Zero(t, v.State.Score)
	assert.Zero(t, v.State.QuestionsAnswered)

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, notifier.questions)

	v = svc.View(testChatID, testUserID)
	assert.Zero(t, v.State.CurrentIndex)
	assert.False(t, v.State.Revealed)
}

func TestQuizServiceCompletesAfterTenAnswers(t *testing.T) {
	svc, repo, notifier := newTestQuizService(t, time.Millisecond)
	ctx := context.Background()
	catalog := repository.DefaultCatalog()

	svc.SelectMode(testChatID, testUserID, entities.ModeCompleteRule)
	v := svc.View(testChatID, testUserID)

	for i := 0; i < entities.DefaultSessionLength; i++ {
		answer := "wrong"
		if i < 7 {
			answer = expectedAnswer(t, v, catalog)
		}

		eval, _, err := svc.SubmitAnswer(ctx, testChatID, testUserID, answer)
		require.NoError(t, err)
		assert.Equal(t, i == entities.DefaultSessionLength-1, eval.Last)

		if i < entities.DefaultSessionLength-1 {
			v = waitView(t, notifier.questions)
		}
	}

	done := waitView(t, notifier.completed)
	assert.True(t, done.State.Complete)
	assert.Equal(t, "Quiz complete! Your score: 7/10", done.State.Feedback)
	assert.Equal(t, 100, done.Progress)

	_, _, err := svc.SubmitAnswer(ctx, testChatID, testUserID, "anything")
	assert.ErrorIs(t, err, ErrQuizComplete)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, notifier.questions)

	answers, results := repo.counts()
	assert.Equal(t, entities.DefaultSessionLength, answers)
	require.Equal(t, 1, results)
	assert.Equal(t, 7, repo.results[0].Score)
	assert.Equal(t, 10, repo.results[0].Total)
	assert.Equal(t, entities.ModeCompleteRule, repo.results[0].Mode)

	v = svc.SelectMode(testChatID, testUserID, entities.ModeCompleteRule)
	assert.False(t, v.State.Complete)
	assert.False(t, v.State.Revealed)
}

func TestQuizServiceComposeDraft(t *testing.T) {
	svc, _, _ := newTestQuizService(t, time.Hour)
	ctx := context.Background()

	svc.SelectMode(testChatID, testUserID, entities.ModeCompleteRule)
	assert.False(t, svc.IsComposing(testChatID))

	_, err := svc.StartCompose(testChatID, testUserID)
	require.NoError(t, err)
	assert.True(t, svc.IsComposing(testChatID))

	_, err = svc.AppendDraft(testChatID, testUserID, "")
	require.NoError(t, err)
	v, err := svc.InsertSymbol(testChatID, testUserID, "¬")
	require.NoError(t, err)
	assert.Equal(t, "¬", v.State.UserAnswer)

	_, err = svc.InsertSymbol(testChatID, testUserID, "!")
	assert.ErrorIs(t, err, entities.ErrUnknownSymbol)

	v, err = svc.AppendDraft(testChatID, testUserID, "p")
	require.NoError(t, err)
	assert.Equal(t, "¬p", v.State.UserAnswer)

	// Index 0 in complete-rule mode is Modus Ponens, conclusion Q.
	eval, _, err := svc.SubmitDraft(ctx, testChatID, testUserID)
	require.NoError(t, err)
	assert.False(t, eval.Correct)
	assert.Equal(t, "Q", eval.Expected)
	assert.False(t, svc.IsComposing(testChatID))
}

func TestQuizServiceClearDraft(t *testing.T) {
	svc, _, _ := newTestQuizService(t, time.Hour)

	_, err := svc.InsertSymbol(testChatID, testUserID, "→")
	require.NoError(t, err)

	v := svc.ClearDraft(testChatID, testUserID)
	assert.Empty(t, v.State.UserAnswer)
	assert.False(t, svc.IsComposing(testChatID))

	_, _, err = svc.SubmitDraft(context.Background(), testChatID, testUserID)
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestQuizServiceRepositoryErrorsDoNotAffectScoring(t *testing.T) {
	svc, repo, _ := newTestQuizService(t, time.Hour)
	repo.err = errors.New("db down")

	eval, v, err := svc.SubmitAnswer(context.Background(), testChatID, testUserID, "Modus Ponens")
	require.NoError(t, err)
	assert.True(t, eval.Correct)
	assert.Equal(t, 1, v.State.Score)
}

func TestQuizServiceReferenceKeepsCatalogOrder(t *testing.T) {
	svc, _, _ := newTestQuizService(t, time.Hour)

	rules := svc.Reference(entities.ModeIdentifyRule)
	require.Len(t, rules, 8)
	assert.Equal(t, "Modus Ponens", rules[0].Name)
	assert.Equal(t, "P → Q, P ⊢ Q", rules[0].Example)

	mistakes := svc.Reference(entities.ModeIdentifyMistakeCorrection)
	require.Len(t, mistakes, 5)
	assert.Equal(t, "Improper Negation", mistakes[4].Name)
}

func TestQuizServiceForget(t *testing.T) {
	svc, _, notifier := newTestQuizService(t, 20*time.Millisecond)

	_, _, err := svc.SubmitAnswer(context.Background(), testChatID, testUserID, "x")
	require.NoError(t, err)

	svc.Forget(testChatID)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, notifier.questions)

	v := svc.View(testChatID, testUserID)
	assert.Zero(t, v.State.QuestionsAnswered)
}

type fakeMetrics struct {
	mu        sync.Mutex
	answers   map[bool]int
	completed []int
}

func (f *fakeMetrics) ObserveAnswer(_ entities.Mode, correct bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers[correct]++
}

func (f *fakeMetrics) ObserveCompleted(_ entities.Mode, score, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, score)
}

func TestQuizServiceReportsMetrics(t *testing.T) {
	catalogRepo, err := repository.NewCatalogRepository("")
	require.NoError(t, err)

	m := &fakeMetrics{answers: map[bool]int{}}
	svc := NewQuizService(catalogRepo, storage.NewSessionStorage(), &fakeQuizRepo{}, QuizOptions{
		SessionLength: 1,
		AdvanceDelay:  time.Hour,
		Metrics:       m,
	}, zaptest.NewLogger(t))
	t.Cleanup(func() { svc.Forget(testChatID) })

	eval, _, err := svc.SubmitAnswer(context.Background(), testChatID, testUserID, "Modus Ponens")
	require.NoError(t, err)
	require.True(t, eval.Last)

	assert.Equal(t, 1, m.answers[true])
	assert.Equal(t, []int{1}, m.completed)
}
