package entities

import (
	"fmt"
	"math/rand"
	"strings"
)

// DefaultSessionLength is the number of counted answers in one quiz run.
const DefaultSessionLength = 10

const feedbackCorrect = "Correct! Well done."

// AnswerStatus is the outcome of the last evaluated answer.
type AnswerStatus string

const (
	StatusNone      AnswerStatus = ""
	StatusCorrect   AnswerStatus = "correct"
	StatusIncorrect AnswerStatus = "incorrect"
)

// QuizState is the mutable part of a quiz session.
type QuizState struct {
	Mode              Mode
	CurrentIndex      int
	UserAnswer        string
	Score             int
	QuestionsAnswered int
	Revealed          bool
	Feedback          string
	Status            AnswerStatus
	Complete          bool
	// Generation changes on every mode switch and advance, so a delayed
	// auto-advance scheduled for an older question can be recognised as stale.
	Generation uint64
}

// Evaluation is the result of a submitted answer.
type Evaluation struct {
	Mode              Mode
	ItemName          string
	UserAnswer        string
	Expected          string
	Correct           bool
	Feedback          string
	Score             int
	QuestionsAnswered int
	Generation        uint64
	// Last is set when this answer used up the session length.
	Last bool
}

// AdvanceOutcome tells what a delayed auto-advance did.
type AdvanceOutcome int

const (
	AdvanceSkipped AdvanceOutcome = iota
	AdvanceNext
	AdvanceComplete
)

// QuizSession drives one player through the fixed question pools.
// It is not safe for concurrent use.
type QuizSession struct {
	catalog Catalog
	length  int
	rng     *rand.Rand
	state   QuizState
}

// NewQuizSession creates a session in the default mode at index 0.
func NewQuizSession(catalog Catalog, length int, rng *rand.Rand) *QuizSession {
	if length <= 0 {
		length = DefaultSessionLength
	}
	return &QuizSession{
		catalog: catalog,
		length:  length,
		rng:     rng,
		state:   QuizState{Mode: DefaultMode},
	}
}

// State returns a copy of the current state.
func (s *QuizSession) State() QuizState {
	return s.state
}

// Length returns the number of counted answers in a run.
func (s *QuizSession) Length() int {
	return s.length
}

// Catalog returns the pools the session draws from.
func (s *QuizSession) Catalog() Catalog {
	return s.catalog
}

// SelectMode switches the mode and starts over at the first question.
func (s *QuizSession) SelectMode(m Mode) {
	s.state = QuizState{
		Mode:       m,
		Generation: s.state.Generation + 1,
	}
}

// SetAnswer stores the raw answer text as typed.
func (s *QuizSession) SetAnswer(text string) {
	s.state.UserAnswer = text
}

// InsertSymbol splices a logic glyph into the answer over the rune range
// [start, end) and returns the caret position after the glyph.
func (s *QuizSession) InsertSymbol(symbol string, start, end int) (int, error) {
	if !IsSymbol(symbol) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}
	answer, caret := SpliceSymbol(s.state.UserAnswer, symbol, start, end)
	s.state.UserAnswer = answer
	return caret, nil
}

// Progress is the share of the run already answered, in percent.
func (s *QuizSession) Progress() int {
	p := s.state.QuestionsAnswered * 100 / s.length
	if p > 100 {
		return 100
	}
	return p
}

// Submit evaluates the current answer. It reports false when nothing was
// evaluated: the answer is already revealed or the index points outside
// the active pool.
func (s *QuizSession) Submit() (Evaluation, bool) {
	if s.state.Revealed {
		return Evaluation{}, false
	}

	name, expected, explanation, ok := s.currentItem()
	if !ok {
		s.state.CurrentIndex = 0
		return Evaluation{}, false
	}

	correct := AnswerMatches(s.state.UserAnswer, expected)

	s.state.QuestionsAnswered++
	if correct {
		s.state.Score++
		s.state.Status = StatusCorrect
		s.state.Feedback = feedbackCorrect
	} else {
		s.state.Status = StatusIncorrect
		if s.state.Mode.UsesMistakes() {
			s.state.Feedback = fmt.Sprintf("Incorrect. The correction is: %s. %s", expected, explanation)
		} else {
			s.state.Feedback = fmt.Sprintf("Incorrect. The correct answer is %s.", expected)
		}
	}
	s.state.Revealed = true

	return Evaluation{
		Mode:              s.state.Mode,
		ItemName:          name,
		UserAnswer:        s.state.UserAnswer,
		Expected:          expected,
		Correct:           correct,
		Feedback:          s.state.Feedback,
		Score:             s.state.Score,
		QuestionsAnswered: s.state.QuestionsAnswered,
		Generation:        s.state.Generation,
		Last:              s.state.QuestionsAnswered >= s.length,
	}, true
}

// AutoAdvance runs the delayed step scheduled by Submit. Callbacks carrying
// an old generation are ignored.
func (s *QuizSession) AutoAdvance(generation uint64) AdvanceOutcome {
	if generation != s.state.Generation || !s.state.Revealed || s.state.Complete {
		return AdvanceSkipped
	}

	if s.state.QuestionsAnswered < s.length {
		s.Advance()
		return AdvanceNext
	}

	s.state.Complete = true
	s.state.Feedback = fmt.Sprintf("Quiz complete! Your score: %d/%d", s.state.Score, s.length)
	return AdvanceComplete
}

// Advance picks the next question uniformly at random; repeats are allowed.
func (s *QuizSession) Advance() {
	if size := s.catalog.PoolSize(s.state.Mode); size > 0 {
		s.state.CurrentIndex = s.rng.Intn(size)
	} else {
		s.state.CurrentIndex = 0
	}
	s.state.UserAnswer = ""
	s.state.Feedback = ""
	s.state.Status = StatusNone
	s.state.Revealed = false
	s.state.Generation++
}

// CurrentRule returns the rule being asked in the rule modes.
func (s *QuizSession) CurrentRule() (Rule, bool) {
	if s.state.Mode.UsesMistakes() {
		return Rule{}, false
	}
	i := s.state.CurrentIndex
	if i < 0 || i >= len(s.catalog.Rules) {
		return Rule{}, false
	}
	return s.catalog.Rules[i], true
}

// CurrentMistake returns the mistake being asked in the mistakes mode.
func (s *QuizSession) CurrentMistake() (Mistake, bool) {
	if !s.state.Mode.UsesMistakes() {
		return Mistake{}, false
	}
	i := s.state.CurrentIndex
	if i < 0 || i >= len(s.catalog.Mistakes) {
		return Mistake{}, false
	}
	return s.catalog.Mistakes[i], true
}

func (s *QuizSession) currentItem() (name, expected, explanation string, ok bool) {
	if s.state.Mode.UsesMistakes() {
		m, ok := s.CurrentMistake()
		if !ok {
			return "", "", "", false
		}
		return m.Name, m.Correction, m.Explanation, true
	}

	r, ok := s.CurrentRule()
	if !ok {
		return "", "", "", false
	}
	if s.state.Mode == ModeCompleteRule {
		return r.Name, r.Conclusion, "", true
	}
	return r.Name, r.Name, "", true
}

// AnswerMatches compares an answer with the key after lowercasing both.
// Whitespace and symbols must match exactly.
func AnswerMatches(answer, expected string) bool {
	return strings.ToLower(answer) == strings.ToLower(expected)
}
