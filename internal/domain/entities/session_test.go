package entities

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return Catalog{
		Rules: []Rule{
			{
				Name:        "Modus Ponens",
				Premises:    []string{"P → Q", "P"},
				Conclusion:  "Q",
				Description: "If P implies Q, and P is true, then Q must be true.",
			},
			{
				Name:        "Modus Tollens",
				Premises:    []string{"P → Q", "¬Q"},
				Conclusion:  "¬P",
				Description: "If P implies Q, and Q is false, then P must be false.",
			},
		},
		Mistakes: []Mistake{
			{
				Name:        "Affirming the Consequent",
				Example:     "If P → Q, Q; therefore P",
				Correction:  "Invalid: Q could be true for other reasons",
				Explanation: "Just because Q is true doesn't mean P caused it.",
			},
		},
	}
}

func newTestSession(t *testing.T) *QuizSession {
	t.Helper()
	return NewQuizSession(testCatalog(), DefaultSessionLength, rand.New(rand.NewSource(1)))
}

func TestAnswerMatches(t *testing.T) {
	assert.True(t, AnswerMatches("Modus Ponens", "modus ponens"))
	assert.True(t, AnswerMatches("¬p", "¬P"))
	assert.False(t, AnswerMatches("Modus Ponens ", "Modus Ponens"))
	assert.False(t, AnswerMatches("ModusPonens", "Modus Ponens"))
}

func TestNewQuizSessionDefaults(t *testing.T) {
	s := newTestSession(t)

	st := s.State()
	assert.Equal(t, DefaultMode, st.Mode)
	assert.Zero(t, st.CurrentIndex)
	assert.False(t, st.Revealed)
	assert.Equal(t, DefaultSessionLength, s.Length())

	s = NewQuizSession(testCatalog(), 0, rand.New(rand.NewSource(1)))
	assert.Equal(t, DefaultSessionLength, s.Length())
}

func TestSubmitIdentifyRuleCorrect(t *testing.T) {
	s := newTestSession(t)
	s.SetAnswer("Modus Ponens")

	eval, ok := s.Submit()
	require.True(t, ok)

	assert.True(t, eval.Correct)
	assert.Equal(t, "Correct! Well done.", eval.Feedback)
	assert.Equal(t, 1, eval.Score)
	assert.Equal(t, 1, eval.QuestionsAnswered)
	assert.False(t, eval.Last)

	st := s.State()
	assert.True(t, st.Revealed)
	assert.Equal(t, StatusCorrect, st.Status)
	assert.Equal(t, 10, s.Progress())
}

func TestSubmitCompleteRuleIncorrect(t *testing.T) {
	s := newTestSession(t)
	s.SelectMode(ModeCompleteRule)
	s.SetAnswer("R")

	eval, ok := s.Submit()
	require.True(t, ok)

	assert.False(t, eval.Correct)
	assert.Equal(t, "Q", eval.Expected)
	assert.Contains(t, eval.Feedback, "Q")
	assert.Equal(t, "Incorrect. The correct answer is Q.", eval.Feedback)
	assert.Zero(t, eval.Score)
	assert.Equal(t, 1, eval.QuestionsAnswered)
	assert.Equal(t, StatusIncorrect, s.State().Status)
}

func TestSubmitMistakeCorrectionCaseInsensitive(t *testing.T) {
	s := newTestSession(t)
	s.SelectMode(ModeIdentifyMistakeCorrection)
	s.SetAnswer("invalid: q could be true for other reasons")

	eval, ok := s.Submit()
	require.True(t, ok)
	assert.True(t, eval.Correct)
	assert.Equal(t, "Affirming the Consequent", eval.ItemName)
}

func TestSubmitMistakeIncorrectIncludesExplanation(t *testing.T) {
	s := newTestSession(t)
	s.SelectMode(ModeIdentifyMistakeCorrection)
	s.SetAnswer("valid")

	eval, ok := s.Submit()
	require.True(t, ok)
	assert.Equal(t,
		"Incorrect. The correction is: Invalid: Q could be true for other reasons. Just because Q is true doesn't mean P caused it.",
		eval.Feedback,
	)
}

func TestSubmitWhileRevealedIsNoop(t *testing.T) {
	s := newTestSession(t)
	s.SetAnswer("Modus Ponens")
	_, ok := s.Submit()
	require.True(t, ok)

	_, ok = s.Submit()
	assert.False(t, ok)
	assert.Equal(t, 1, s.State().QuestionsAnswered)
	assert.Equal(t, 1, s.State().Score)
}

func TestSubmitEmptyPoolResetsIndex(t *testing.T) {
	s := NewQuizSession(Catalog{}, DefaultSessionLength, rand.New(rand.NewSource(1)))
	s.state.CurrentIndex = 3
	s.SetAnswer("anything")

	_, ok := s.Submit()
	assert.False(t, ok)

	st := s.State()
	assert.Zero(t, st.CurrentIndex)
	assert.Zero(t, st.QuestionsAnswered)
	assert.False(t, st.Revealed)
}

func TestSelectModeResetsState(t *testing.T) {
	s := newTestSession(t)
	s.SetAnswer("Modus Ponens")
	_, _ = s.Submit()
	before := s.State()

	for _, m := range Modes() {
		s.SelectMode(m)
		st := s.State()
		assert.Equal(t, m, st.Mode)
		assert.Zero(t, st.CurrentIndex)
		assert.Zero(t, st.Score)
		assert.Zero(t, st.QuestionsAnswered)
		assert.Empty(t, st.UserAnswer)
		assert.Empty(t, st.Feedback)
		assert.False(t, st.Revealed)
		assert.False(t, st.Complete)
		assert.Greater(t, st.Generation, before.Generation)
	}
}

func TestAutoAdvanceMovesToNextQuestion(t *testing.T) {
	s := newTestSession(t)
	s.SetAnswer("wrong")
	eval, ok := s.Submit()
	require.True(t, ok)

	assert.Equal(t, AdvanceNext, s.AutoAdvance(eval.Generation))

	st := s.State()
	assert.False(t, st.Revealed)
	assert.Empty(t, st.UserAnswer)
	assert.Empty(t, st.Feedback)
	assert.Equal(t, 1, st.QuestionsAnswered)
}

func TestAutoAdvanceStaleGenerationSkipped(t *testing.T) {
	s := newTestSession(t)
	s.SetAnswer("Modus Ponens")
	eval, ok := s.Submit()
	require.True(t, ok)

	s.SelectMode(ModeCompleteRule)
	assert.Equal(t, AdvanceSkipped, s.AutoAdvance(eval.Generation))

	st := s.State()
	assert.Equal(t, ModeCompleteRule, st.Mode)
	assert.Zero(t, st.QuestionsAnswered)
	assert.Zero(t, st.CurrentIndex)
}

func TestAutoAdvanceTwiceSkipsSecond(t *testing.T) {
	s := newTestSession(t)
	s.SetAnswer("x")
	eval, _ := s.Submit()

	assert.Equal(t, AdvanceNext, s.AutoAdvance(eval.Generation))
	assert.Equal(t, AdvanceSkipped, s.AutoAdvance(eval.Generation))
}

func TestSessionCompletesAfterLength(t *testing.T) {
	s := newTestSession(t)

	var last Evaluation
	for i := 0; i < DefaultSessionLength; i++ {
		r, ok := s.CurrentRule()
		require.True(t, ok)
		if i%2 == 0 {
			s.SetAnswer(r.Name)
		} else {
			s.SetAnswer("nope")
		}

		eval, ok := s.Submit()
		require.True(t, ok)
		last = eval

		outcome := s.AutoAdvance(eval.Generation)
		if i < DefaultSessionLength-1 {
			require.Equal(t, AdvanceNext, outcome)
		} else {
			require.Equal(t, AdvanceComplete, outcome)
		}
	}

	assert.True(t, last.Last)
	st := s.State()
	assert.True(t, st.Complete)
	assert.True(t, st.Revealed)
	assert.Equal(t, 5, st.Score)
	assert.Equal(t, DefaultSessionLength, st.QuestionsAnswered)
	assert.Equal(t, "Quiz complete! Your score: 5/10", st.Feedback)
	assert.Equal(t, 100, s.Progress())

	// No further advance or scoring once complete.
	assert.Equal(t, AdvanceSkipped, s.AutoAdvance(st.Generation))
	_, ok := s.Submit()
	assert.False(t, ok)
	assert.Equal(t, DefaultSessionLength, s.State().QuestionsAnswered)
}

func TestScoreNeverExceedsAnswered(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < DefaultSessionLength; i++ {
		r, _ := s.CurrentRule()
		s.SetAnswer(r.Name)
		eval, ok := s.Submit()
		require.True(t, ok)

		st := s.State()
		assert.LessOrEqual(t, st.Score, st.QuestionsAnswered)
		assert.LessOrEqual(t, st.QuestionsAnswered, DefaultSessionLength)
		s.AutoAdvance(eval.Generation)
	}
}

func TestAdvanceIsUniform(t *testing.T) {
	catalog := Catalog{Rules: make([]Rule, 8)}
	s := NewQuizSession(catalog, DefaultSessionLength, rand.New(rand.NewSource(42)))

	const runs = 1000
	counts := make([]int, len(catalog.Rules))
	for i := 0; i < runs; i++ {
		s.Advance()
		idx := s.State().CurrentIndex
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, len(catalog.Rules))
		counts[idx]++
	}

	expected := runs / len(catalog.Rules)
	for i, c := range counts {
		assert.InDeltaf(t, expected, c, float64(expected)/2, "index %d drawn %d times", i, c)
	}
}

func TestAdvanceKeepsScore(t *testing.T) {
	s := newTestSession(t)
	s.SetAnswer("Modus Ponens")
	_, _ = s.Submit()

	s.Advance()
	st := s.State()
	assert.Equal(t, 1, st.Score)
	assert.Equal(t, 1, st.QuestionsAnswered)
	assert.Equal(t, StatusNone, st.Status)
}

func TestAdvanceEmptyPool(t *testing.T) {
	s := NewQuizSession(Catalog{}, DefaultSessionLength, rand.New(rand.NewSource(1)))
	s.Advance()
	assert.Zero(t, s.State().CurrentIndex)
}

func TestProgressClamped(t *testing.T) {
	s := NewQuizSession(testCatalog(), 3, rand.New(rand.NewSource(1)))
	s.state.QuestionsAnswered = 5
	assert.Equal(t, 100, s.Progress())

	s.state.QuestionsAnswered = 1
	assert.Equal(t, 33, s.Progress())
}

func TestInsertSymbolIntoAnswer(t *testing.T) {
	s := newTestSession(t)
	s.SetAnswer("P  Q")

	caret, err := s.InsertSymbol("∧", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "P ∧ Q", s.State().UserAnswer)
	assert.Equal(t, 3, caret)

	_, err = s.InsertSymbol("&", 0, 0)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
	assert.Equal(t, "P ∧ Q", s.State().UserAnswer)
}
