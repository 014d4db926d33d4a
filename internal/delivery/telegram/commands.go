package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
	"github.com/aliskhannn/logic-rules-bot/internal/service"
)

// BotCommands is the command menu registered with Telegram.
func BotCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "question", Description: "Show the current question"},
		{Command: "mode", Description: "Choose a quiz mode"},
		{Command: "compose", Description: "Build an answer with logic symbols"},
		{Command: "reference", Description: "Rules and mistakes reference"},
		{Command: "score", Description: "Show the current score"},
		{Command: "stats", Description: "Show your history"},
		{Command: "reset", Description: "Reset your history"},
		{Command: "help", Description: "Help"},
	}
}

func (h *Handler) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	userID := m.From.ID
	args := strings.TrimSpace(m.CommandArguments())

	var fn HandlerFunc
	switch m.Command() {
	case "start":
		fn = h.startHandler(userID)
	case "help":
		fn = h.helpHandler()
	case "question":
		fn = h.questionHandler(userID)
	case "mode":
		fn = h.modeHandler(userID, args)
	case "compose":
		fn = h.composeHandler(userID)
	case "reference":
		fn = h.referenceHandler(userID, args)
	case "score":
		fn = h.scoreHandler(userID)
	case "stats":
		fn = h.statsHandler(userID)
	case "reset":
		fn = h.resetHandler()
	default:
		h.sendError(chatID, msgUnknownCommand)
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) startHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.send(newMessage(chatID, welcomeMarkdownV2()))
		return h.sendScreen(chatID, h.quizService.View(chatID, userID))
	}
}

func (h *Handler) helpHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.send(newMessage(chatID, helpMarkdownV2()))
		return nil
	}
}

func (h *Handler) questionHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.sendScreen(chatID, h.quizService.View(chatID, userID))
	}
}

// modeHandler switches mode directly when a wire name is given, otherwise
// shows the mode selector.
func (h *Handler) modeHandler(userID int64, arg string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if arg == "" {
			view := h.quizService.View(chatID, userID)
			msg := newMessage(chatID, md(msgChooseMode))
			msg.ReplyMarkup = buildModeKeyboard(view.State.Mode)
			return h.sendTracked(msg)
		}

		mode, err := entities.ParseMode(arg)
		if err != nil {
			h.sendError(chatID, msgUnknownMode)
			return nil
		}

		return h.sendScreen(chatID, h.quizService.SelectMode(chatID, userID, mode))
	}
}

func (h *Handler) composeHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		view, err := h.quizService.StartCompose(chatID, userID)
		if err != nil {
			return h.replyQuizError(chatID, view, err)
		}

		msg := newMessage(chatID, renderCompose(view))
		msg.ReplyMarkup = buildComposeKeyboard()
		return h.sendTracked(msg)
	}
}

func (h *Handler) referenceHandler(userID int64, arg string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		mode := h.quizService.View(chatID, userID).State.Mode
		if arg != "" {
			parsed, err := entities.ParseMode(arg)
			if err != nil {
				h.sendError(chatID, msgUnknownMode)
				return nil
			}
			mode = parsed
		}

		msg := newMessage(chatID, renderReference(mode, h.quizService.Reference(mode)))
		msg.ReplyMarkup = buildReferenceKeyboard(mode)
		h.send(msg)
		return nil
	}
}

func (h *Handler) scoreHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.send(newMessage(chatID, renderHeader(h.quizService.View(chatID, userID))))
		return nil
	}
}

func (h *Handler) statsHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		stats, err := h.statsService.GetStats(ctx, userID)
		if err != nil {
			h.logger.Error("failed to get stats",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			h.sendError(chatID, msgStatsUnavailable)
			return nil
		}

		h.send(newMessage(chatID, renderStats(stats)))
		return nil
	}
}

func (h *Handler) resetHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, md(msgResetPrompt))
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)
		return nil
	}
}

// textHandler extends the draft while composing and submits the text otherwise.
func (h *Handler) textHandler(text string, userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if h.quizService.IsComposing(chatID) {
			view, err := h.quizService.AppendDraft(chatID, userID, text)
			if err != nil {
				return h.replyQuizError(chatID, view, err)
			}

			msg := newMessage(chatID, renderCompose(view))
			msg.ReplyMarkup = buildComposeKeyboard()
			return h.sendTracked(msg)
		}

		eval, view, err := h.quizService.SubmitAnswer(ctx, chatID, userID, text)
		if err != nil {
			return h.replyQuizError(chatID, view, err)
		}

		return h.sendTracked(newMessage(chatID, renderFeedback(eval, view)))
	}
}

// sendScreen sends the question or results screen for view.
func (h *Handler) sendScreen(chatID int64, view entities.QuizView) error {
	msg := newMessage(chatID, renderScreen(view))
	if view.State.Complete {
		msg.ReplyMarkup = buildCompleteKeyboard(view.State.Mode)
	} else if view.HasQuestion {
		msg.ReplyMarkup = buildQuestionKeyboard(view.State.Mode)
	}
	return h.sendTracked(msg)
}

// replyQuizError answers a rejected quiz action. Unknown errors are returned
// to the error middleware.
func (h *Handler) replyQuizError(chatID int64, view entities.QuizView, err error) error {
	if errors.Is(err, service.ErrQuizComplete) {
		msg := newMessage(chatID, md(msgQuizComplete))
		msg.ReplyMarkup = buildCompleteKeyboard(view.State.Mode)
		return h.sendTracked(msg)
	}

	text, ok := quizErrorText(err)
	if !ok {
		return err
	}

	h.sendError(chatID, text)
	return nil
}

// quizErrorText maps expected quiz errors to user-facing text.
func quizErrorText(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrEmptyAnswer):
		return msgEmptyAnswer, true
	case errors.Is(err, service.ErrAnswerRevealed):
		return msgAnswerRevealed, true
	case errors.Is(err, service.ErrQuizComplete):
		return msgQuizComplete, true
	case errors.Is(err, service.ErrNoQuestion):
		return msgNoQuestion, true
	case errors.Is(err, entities.ErrUnknownSymbol):
		return msgUnknownSymbol, true
	default:
		return "", false
	}
}
