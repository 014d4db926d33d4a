package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
	"github.com/aliskhannn/logic-rules-bot/internal/storage"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, username string) (bool, error)
}

type QuizService interface {
	View(chatID, userID int64) entities.QuizView
	SelectMode(chatID, userID int64, mode entities.Mode) entities.QuizView
	SubmitAnswer(ctx context.Context, chatID, userID int64, text string) (entities.Evaluation, entities.QuizView, error)
	SubmitDraft(ctx context.Context, chatID, userID int64) (entities.Evaluation, entities.QuizView, error)
	StartCompose(chatID, userID int64) (entities.QuizView, error)
	IsComposing(chatID int64) bool
	InsertSymbol(chatID, userID int64, symbol string) (entities.QuizView, error)
	AppendDraft(chatID, userID int64, text string) (entities.QuizView, error)
	ClearDraft(chatID, userID int64) entities.QuizView
	Reference(mode entities.Mode) []entities.ReferenceEntry
	Forget(chatID int64)
}

type StatsService interface {
	GetStats(ctx context.Context, userID int64) ([]entities.ModeStats, error)
}

type ResetService interface {
	ResetUser(ctx context.Context, userID int64) error
}

type Handler struct {
	bot           BotAPI
	logger        *zap.Logger
	updateTimeout int
	quizService   QuizService
	statsService  StatsService
	userService   UserService
	resetService  ResetService
	messages      *storage.MessageStorage
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	updateTimeout int,
	quizService QuizService,
	statsService StatsService,
	userService UserService,
	resetService ResetService,
	messages *storage.MessageStorage,
) *Handler {
	return &Handler{
		bot:           bot,
		logger:        logger,
		updateTimeout: updateTimeout,
		quizService:   quizService,
		statsService:  statsService,
		userService:   userService,
		resetService:  resetService,
		messages:      messages,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = h.updateTimeout

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	created, err := h.userService.EnsureUser(ctx, from.ID, chatID, from.UserName)
	if err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	} else if created {
		h.logger.Info("new user registered", zap.Int64("user_id", from.ID))
	}

	if update.Message.IsCommand() {
		h.handleCommand(ctx, update.Message)
		return
	}

	if update.Message.Text == "" {
		return
	}

	_ = h.withErrorHandling(h.textHandler(update.Message.Text, from.ID))(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, err string) {
	h.send(newMessage(chatID, md(err)))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// sendTracked sends an interactive message and strips the keyboard of the
// chat's previous one, so only the latest screen can be tapped.
func (h *Handler) sendTracked(msg tgbotapi.MessageConfig) error {
	sent, err := h.bot.Send(msg)
	if err != nil {
		return err
	}

	prev, ok := h.messages.UpsertAndGetPrev(msg.ChatID, sent.MessageID)
	if ok && prev.MessageID != sent.MessageID {
		h.removeKeyboard(prev.ChatID, prev.MessageID)
	}

	return nil
}

func (h *Handler) removeKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("failed to remove keyboard",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}
