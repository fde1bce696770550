package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabquiz/internal/logger"
	"github.com/example/vocabquiz/internal/practice"
	"github.com/example/vocabquiz/internal/quiz"
	"github.com/example/vocabquiz/pkg/models"
)

// Sender is the part of the Telegram API the bot talks to
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Store represents the data the bot reads and writes
type Store interface {
	ListTopics(ctx context.Context) ([]models.Topic, error)
	Snapshot(ctx context.Context) ([]models.Topic, []models.PracticeAttempt, error)
	AppendPracticeAttempt(ctx context.Context, attempt models.PracticeAttempt) error
}

// QuizGenerator builds the questions for a quiz run
type QuizGenerator interface {
	Generate(ctx context.Context, topic models.Topic) ([]quiz.Question, error)
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// chatState is what a chat is currently doing
type chatState struct {
	session *practice.Session
	deck    *practice.Deck
}

// Bot represents the Telegram bot application
type Bot struct {
	api          Sender
	store        Store
	generator    QuizGenerator
	reminderChat int64
	config       *BotConfig
	log          *logger.Logger
	now          func() time.Time

	mu    sync.Mutex
	chats map[int64]*chatState
}

// New creates a new bot instance. Review reminders go to reminderChat when it is set.
func New(api Sender, store Store, generator QuizGenerator, reminderChat int64, log *logger.Logger) *Bot {
	if log == nil {
		log = logger.Nop()
	}
	return &Bot{
		api:          api,
		store:        store,
		generator:    generator,
		reminderChat: reminderChat,
		config:       DefaultConfig(),
		log:          log.With("component", "bot"),
		now:          time.Now,
		chats:        make(map[int64]*chatState),
	}
}

// SetConfig replaces the default bot configuration
func (b *Bot) SetConfig(cfg *BotConfig) {
	b.config = cfg
}

// NewAPI connects to Telegram with the given token
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	return api, nil
}

// Run handles updates until ctx is cancelled or the channel closes
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// Listen starts long polling on api and runs the bot until ctx is done
func (b *Bot) Listen(ctx context.Context, api *tgbotapi.BotAPI) {
	b.log.Info("authorized on account", "username", api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout
	updates := api.GetUpdatesChan(updateConfig)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	b.Run(ctx, updates)
	b.log.Info("bot stopped")
}

// SendReviewReminder implements the scheduler.Notifier interface
func (b *Bot) SendReviewReminder(ctx context.Context, words []models.WordStats) error {
	if b.reminderChat == 0 {
		b.log.Warn("TELEGRAM_CHAT_ID is not set, dropping review reminder", "words", len(words))
		return nil
	}

	names := make([]string, 0, len(words))
	for _, w := range words {
		names = append(names, w.Word)
	}
	text := fmt.Sprintf("You have %d %s to review: %s", len(words), plural(len(words), "word", "words"), strings.Join(names, ", "))

	msg := tgbotapi.NewMessage(b.reminderChat, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "📋 Review list", CallbackData: "review"}}})
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.IsCommand():
		err = b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		err = b.handleText(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		b.log.Error("failed to handle update", "update_id", update.UpdateID, "error", err)
	}
}

func (b *Bot) send(chatID int64, text string, buttons [][]MenuButton) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = createKeyboard(buttons)
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (b *Bot) state(chatID int64) *chatState {
	st, ok := b.chats[chatID]
	if !ok {
		st = &chatState{}
		b.chats[chatID] = st
	}
	return st
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
