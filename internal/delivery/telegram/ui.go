package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

const symbolsPerRow = 4

// buildModeKeyboard builds the mode selector, marking the active mode.
func buildModeKeyboard(current entities.Mode) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range entities.Modes() {
		label := m.Title()
		if m == current {
			label = "• " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildModeCallback(m)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuestionKeyboard builds the keyboard shown under an open question.
func buildQuestionKeyboard(mode entities.Mode) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Compose", buildAnswerCallback(answerCompose)),
			tgbotapi.NewInlineKeyboardButtonData("📖 Reference", buildReferenceCallback(mode)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎲 Change mode", buildMenuCallback()),
		),
	)
}

// buildComposeKeyboard builds the symbol palette with submit and clear buttons.
func buildComposeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var (
		rows [][]tgbotapi.InlineKeyboardButton
		row  []tgbotapi.InlineKeyboardButton
	)

	for i, s := range entities.Symbols() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(s, buildSymbolCallback(i)))
		if len(row) == symbolsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🧹 Clear", buildAnswerCallback(answerClear)),
		tgbotapi.NewInlineKeyboardButtonData("✅ Submit", buildAnswerCallback(answerSubmit)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildCompleteKeyboard builds keyboard for the quiz results screen.
func buildCompleteKeyboard(mode entities.Mode) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Play again", buildModeCallback(mode)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎲 Change mode", buildMenuCallback()),
			tgbotapi.NewInlineKeyboardButtonData("📊 My stats", buildStatsCallback()),
		),
	)
}

// buildReferenceKeyboard switches the reference guide between pools.
func buildReferenceKeyboard(current entities.Mode) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range []entities.Mode{entities.ModeIdentifyRule, entities.ModeIdentifyMistakeCorrection} {
		label := "📐 Rules"
		if m.UsesMistakes() {
			label = "⚠️ Mistakes"
		}
		if m.UsesMistakes() == current.UsesMistakes() {
			label = "• " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildReferenceCallback(m)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// buildResetKeyboard asks to confirm wiping the history.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, reset", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}
