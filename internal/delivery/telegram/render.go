package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

// renderHeader renders the mode title, progress bar and score line.
func renderHeader(view entities.QuizView) string {
	st := view.State
	return fmt.Sprintf(
		"%s\n%s\n%s",
		bold("🧠 "+st.Mode.Title()),
		md(buildProgressBar(view.Progress, progressBarLength)),
		md(fmt.Sprintf("Score: %d/%d", st.Score, st.QuestionsAnswered)),
	)
}

// renderQuestion renders the current question screen.
func renderQuestion(view entities.QuizView) string {
	if !view.HasQuestion {
		return renderHeader(view) + "\n\n" + md(msgNoQuestion)
	}

	var sb strings.Builder
	sb.WriteString(renderHeader(view))
	sb.WriteString("\n\n")
	sb.WriteString(renderQuestionBody(view.Question))
	sb.WriteString("\n\n")
	sb.WriteString(italic(view.Question.Placeholder))

	return sb.String()
}

func renderQuestionBody(q entities.Question) string {
	var sb strings.Builder
	sb.WriteString(bold(q.Heading))
	sb.WriteString("\n")

	if q.Mode.UsesMistakes() {
		sb.WriteString(md(q.MistakeName))
		sb.WriteString("\n")
		sb.WriteString(md("Example: " + q.Example))
		return sb.String()
	}

	for _, p := range q.Premises {
		sb.WriteString(md(p))
		sb.WriteString("\n")
	}
	sb.WriteString(md("────────"))
	sb.WriteString("\n")
	if q.Conclusion != "" {
		sb.WriteString(md(q.Conclusion))
	} else {
		sb.WriteString(md("?"))
	}

	return sb.String()
}

// renderCompose renders the question with the current draft.
func renderCompose(view entities.QuizView) string {
	draft := view.State.UserAnswer
	if draft == "" {
		draft = view.Question.Placeholder
	}

	var sb strings.Builder
	sb.WriteString(renderHeader(view))
	sb.WriteString("\n\n")
	sb.WriteString(renderQuestionBody(view.Question))
	sb.WriteString("\n\n")
	sb.WriteString(bold("Your answer:"))
	sb.WriteString(" ")
	if view.State.UserAnswer == "" {
		sb.WriteString(italic(draft))
	} else {
		sb.WriteString(md(draft))
	}
	sb.WriteString("\n\n")
	sb.WriteString(md("Tap symbols or type text to extend the answer, then press Submit."))

	return sb.String()
}

// renderFeedback renders the evaluation of an answer.
func renderFeedback(eval entities.Evaluation, view entities.QuizView) string {
	mark := "❌ "
	if eval.Correct {
		mark = "✅ "
	}

	var sb strings.Builder
	sb.WriteString(md(mark + eval.Feedback))
	sb.WriteString("\n\n")
	sb.WriteString(md(buildProgressBar(view.Progress, progressBarLength)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Score: %d/%d", eval.Score, eval.QuestionsAnswered)))
	if !eval.Last {
		sb.WriteString("\n\n")
		sb.WriteString(italic(msgNextQuestionSoon))
	}

	return sb.String()
}

// renderComplete renders the final results of a quiz run.
func renderComplete(view entities.QuizView) string {
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s",
		bold("🏁 "+view.State.Mode.Title()),
		md(view.State.Feedback),
		md(buildProgressBar(view.Progress, progressBarLength)),
	)
}

// renderScreen picks the screen matching the session state.
func renderScreen(view entities.QuizView) string {
	if view.State.Complete {
		return renderComplete(view)
	}
	return renderQuestion(view)
}

// renderReference renders the reference guide for a mode's pool.
func renderReference(mode entities.Mode, entries []entities.ReferenceEntry) string {
	title := "📐 Rules of inference"
	if mode.UsesMistakes() {
		title = "⚠️ Common mistakes"
	}

	var sb strings.Builder
	sb.WriteString(bold(title))
	for _, e := range entries {
		sb.WriteString("\n\n")
		sb.WriteString(bold(e.Name))
		sb.WriteString("\n")
		sb.WriteString(md(e.Example))
		sb.WriteString("\n")
		sb.WriteString(italic(e.Summary))
	}

	return sb.String()
}

// renderStats renders the user's history per mode.
func renderStats(stats []entities.ModeStats) string {
	var sb strings.Builder
	sb.WriteString(bold("📊 Your stats"))

	for _, st := range stats {
		sb.WriteString("\n\n")
		sb.WriteString(bold(st.Mode.Title()))
		sb.WriteString("\n")
		if st.Runs == 0 && st.Answers == 0 {
			sb.WriteString(italic("No answers yet"))
			continue
		}
		sb.WriteString(md(fmt.Sprintf("🏁 Quizzes completed: %d", st.Runs)))
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("🏆 Best score: %d", st.BestScore)))
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("📈 Average score: %.1f", st.AverageScore)))
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("🎯 Accuracy: %d/%d (%.1f%%)", st.CorrectAnswers, st.Answers, st.Accuracy())))
	}

	return sb.String()
}
