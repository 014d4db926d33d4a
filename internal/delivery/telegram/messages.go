// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Error and status messages, plain text before escaping.
const (
	msgInternalError    = "Something went wrong. Please try again later."
	msgUnknownCommand   = "Unknown command. Send /help to see what I can do."
	msgUnknownMode      = "Unknown mode. Use one of: identify_rule, complete_rule, mistakes."
	msgEmptyAnswer      = "Type an answer first."
	msgAnswerRevealed   = "The answer is already revealed, the next question is on its way."
	msgQuizComplete     = "This quiz is finished. Pick a mode to play again."
	msgNoQuestion       = "There are no questions for this mode."
	msgUnknownSymbol    = "Unknown symbol."
	msgStatsUnavailable = "Could not load your stats. Please try again later."
	msgResetPrompt      = "Reset all your quiz history? This cannot be undone."
	msgResetDone        = "Your quiz history has been reset."
	msgResetCancelled   = "Reset cancelled."
	msgResetFailed      = "Could not reset your history. Please try again later."
	msgChooseMode       = "Choose a quiz mode:"
	msgNextQuestionSoon = "Next question coming up…"
	msgDraftCleared     = "Draft cleared."
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// welcomeMarkdownV2 builds the /start greeting.
func welcomeMarkdownV2() string {
	var sb strings.Builder

	sb.WriteString(bold("Logic Rules Bot"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Practice the rules of inference of propositional logic and learn to spot common reasoning mistakes."))
	sb.WriteString("\n\n")
	sb.WriteString(md("Each quiz has ten questions. Type your answer as a message, or use /compose to build it with logic symbols."))
	sb.WriteString("\n\n")
	sb.WriteString(md("Send /help for the full list of commands."))

	return sb.String()
}

// helpMarkdownV2 lists the commands.
func helpMarkdownV2() string {
	var sb strings.Builder

	sb.WriteString(bold("Commands"))
	sb.WriteString("\n\n")
	for _, c := range BotCommands() {
		sb.WriteString(md("/" + c.Command + " - " + c.Description))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(bold("Modes"))
	sb.WriteString("\n")
	sb.WriteString(md("• Identify Rules: name the rule from its premises and conclusion."))
	sb.WriteString("\n")
	sb.WriteString(md("• Complete Rules: type the conclusion of the named rule."))
	sb.WriteString("\n")
	sb.WriteString(md("• Common Mistakes: type the correction of a fallacy."))
	sb.WriteString("\n\n")
	sb.WriteString(md("Answers are compared ignoring letter case only, so spacing and symbols must match."))

	return sb.String()
}
