package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

// callbackResult is what a callback handler wants done with the tapped message.
type callbackResult struct {
	text    string                         // new MarkdownV2 text; empty keeps the message as is
	kb      *tgbotapi.InlineKeyboardMarkup // keyboard for the edited message
	tracked bool                           // message becomes the chat's active quiz screen
	toast   string                         // short notice shown by Telegram
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	userID := cb.From.ID
	cd := decodeCallback(cb.Data)

	var (
		res callbackResult
		err error
	)

	switch cd.Action {
	case actionMode:
		res, err = h.handleModeCallback(chatID, userID, cd)
	case actionMenu:
		view := h.quizService.View(chatID, userID)
		kb := buildModeKeyboard(view.State.Mode)
		res = callbackResult{text: md(msgChooseMode), kb: &kb, tracked: true}
	case actionSymbol:
		res, err = h.handleSymbolCallback(chatID, userID, cd)
	case actionAnswer:
		res, err = h.handleAnswerCallback(ctx, chatID, userID, cd)
	case actionReference:
		res, err = h.handleReferenceCallback(cd)
	case actionStats:
		_ = h.withErrorHandling(h.statsHandler(userID))(ctx, chatID)
	case actionReset:
		res = h.handleResetCallback(ctx, chatID, userID, cd)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
	}

	if err != nil {
		if text, ok := quizErrorText(err); ok {
			res.toast = text
		} else {
			h.logger.Error("callback failed",
				zap.Int64("chat_id", chatID),
				zap.String("data", cb.Data),
				zap.Error(err),
			)
			res.toast = msgInternalError
		}
	}

	if res.text != "" {
		h.editMessage(chatID, cb.Message.MessageID, res)
	}

	// Remove the user's "clock".
	h.answerCallback(cb.ID, res.toast)
}

func (h *Handler) handleModeCallback(chatID, userID int64, cd callbackData) (callbackResult, error) {
	mode, err := entities.ParseMode(cd.param(0))
	if err != nil {
		return callbackResult{toast: msgUnknownMode}, nil
	}

	view := h.quizService.SelectMode(chatID, userID, mode)
	return screenResult(view), nil
}

func (h *Handler) handleSymbolCallback(chatID, userID int64, cd callbackData) (callbackResult, error) {
	symbol, ok := parseSymbolCallback(cd)
	if !ok {
		return callbackResult{toast: msgUnknownSymbol}, nil
	}

	view, err := h.quizService.InsertSymbol(chatID, userID, symbol)
	if err != nil {
		return callbackResult{}, err
	}

	return composeResult(view), nil
}

func (h *Handler) handleAnswerCallback(ctx context.Context, chatID, userID int64, cd callbackData) (callbackResult, error) {
	switch cd.param(0) {
	case answerCompose:
		view, err := h.quizService.StartCompose(chatID, userID)
		if err != nil {
			return callbackResult{}, err
		}
		return composeResult(view), nil

	case answerClear:
		view := h.quizService.ClearDraft(chatID, userID)
		res := screenResult(view)
		res.toast = msgDraftCleared
		return res, nil

	case answerSubmit:
		eval, view, err := h.quizService.SubmitDraft(ctx, chatID, userID)
		if err != nil {
			return callbackResult{}, err
		}
		return callbackResult{text: renderFeedback(eval, view), tracked: true}, nil

	default:
		return callbackResult{}, nil
	}
}

func (h *Handler) handleReferenceCallback(cd callbackData) (callbackResult, error) {
	mode, err := entities.ParseMode(cd.param(0))
	if err != nil {
		return callbackResult{toast: msgUnknownMode}, nil
	}

	kb := buildReferenceKeyboard(mode)
	return callbackResult{
		text: renderReference(mode, h.quizService.Reference(mode)),
		kb:   &kb,
	}, nil
}

func (h *Handler) handleResetCallback(ctx context.Context, chatID, userID int64, cd callbackData) callbackResult {
	if cd.param(0) != resetConfirm {
		return callbackResult{text: md(msgResetCancelled)}
	}

	if err := h.resetService.ResetUser(ctx, userID); err != nil {
		h.logger.Error("failed to reset user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return callbackResult{text: md(msgResetFailed)}
	}

	h.quizService.Forget(chatID)
	h.messages.Delete(chatID)

	h.logger.Info("user history reset", zap.Int64("user_id", userID))
	return callbackResult{text: md(msgResetDone)}
}

// screenResult shows the question or results screen in place.
func screenResult(view entities.QuizView) callbackResult {
	res := callbackResult{text: renderScreen(view), tracked: true}

	var kb tgbotapi.InlineKeyboardMarkup
	switch {
	case view.State.Complete:
		kb = buildCompleteKeyboard(view.State.Mode)
	case view.HasQuestion:
		kb = buildQuestionKeyboard(view.State.Mode)
	default:
		return res
	}
	res.kb = &kb

	return res
}

func composeResult(view entities.QuizView) callbackResult {
	kb := buildComposeKeyboard()
	return callbackResult{text: renderCompose(view), kb: &kb, tracked: true}
}

func (h *Handler) editMessage(chatID int64, messageID int, res callbackResult) {
	edit := newEdit(chatID, messageID, res.text)
	if res.kb != nil {
		edit.ReplyMarkup = res.kb
	}

	if _, err := h.bot.Send(edit); err != nil {
		h.logger.Debug("failed to edit message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
		return
	}

	if !res.tracked {
		return
	}

	prev, ok := h.messages.UpsertAndGetPrev(chatID, messageID)
	if ok && prev.MessageID != messageID {
		h.removeKeyboard(prev.ChatID, prev.MessageID)
	}
}

func (h *Handler) answerCallback(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
