package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/dailyquest/internal/gateway"
	"github.com/example/dailyquest/internal/planner"
	"github.com/example/dailyquest/internal/scheduler"
)

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

// telegramAPI is the part of tgbotapi.BotAPI the handlers use.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Config wires the bot to the application services.
type Config struct {
	Game    *gateway.Service
	Planner *planner.Planner
	// ChatID restricts the bot to one chat and receives reminders. Zero accepts
	// every chat and reminders go to the last chat that talked to the bot.
	ChatID int64
	Logger *log.Logger
}

// Bot is the Telegram front end of the planner
type Bot struct {
	api     telegramAPI
	client  *tgbotapi.BotAPI
	game    *gateway.Service
	planner *planner.Planner
	chatID  int64
	logger  *log.Logger

	mu         sync.Mutex
	userStates map[int64]string
	lastChat   int64
}

var _ scheduler.Notifier = (*Bot)(nil)

// New connects to Telegram with token.
func New(token string, cfg Config) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is not set")
	}
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	b := newBot(client, cfg)
	b.client = client
	b.logger.Printf("authorized on account %s", client.Self.UserName)
	return b, nil
}

func newBot(api telegramAPI, cfg Config) *Bot {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "bot: ", log.LstdFlags)
	}
	return &Bot{
		api:        api,
		game:       cfg.Game,
		planner:    cfg.Planner,
		chatID:     cfg.ChatID,
		logger:     logger,
		userStates: make(map[int64]string),
	}
}

// Start polls Telegram for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return errors.New("bot is not connected")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.client.GetUpdatesChan(updateConfig)

	b.logger.Println("bot started")
	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// SendReminder implements scheduler.Notifier.
func (b *Bot) SendReminder(_ context.Context, r scheduler.Reminder) error {
	chatID := b.reminderChat()
	if chatID == 0 {
		b.logger.Printf("no chat to send the reminder to, skipping")
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, formatReminder(r))
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}

func (b *Bot) reminderChat() int64 {
	if b.chatID != 0 {
		return b.chatID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastChat
}

// allowed reports whether chatID may use the bot and remembers it.
func (b *Bot) allowed(chatID int64) bool {
	if b.chatID != 0 && chatID != b.chatID {
		return false
	}
	b.mu.Lock()
	b.lastChat = chatID
	b.mu.Unlock()
	return true
}

func (b *Bot) setState(userID int64, state string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if state == "" {
		delete(b.userStates, userID)
		return
	}
	b.userStates[userID] = state
}

func (b *Bot) state(userID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.userStates[userID]
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil:
		if !b.allowed(update.Message.Chat.ID) {
			return
		}
		if update.Message.IsCommand() {
			err = b.HandleCommand(ctx, update.Message)
		} else {
			err = b.handleText(ctx, update.Message)
		}
	case update.CallbackQuery != nil:
		if update.CallbackQuery.Message == nil || !b.allowed(update.CallbackQuery.Message.Chat.ID) {
			return
		}
		err = b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
	if err != nil {
		b.logger.Printf("error handling update %d: %v", update.UpdateID, err)
	}
}

func (b *Bot) reply(chatID int64, text string, menu bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if menu {
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	}
	_, err := b.api.Send(msg)
	return err
}

// MainMenuButtons returns the buttons for the main menu
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "📅 Today", CallbackData: callbackShowToday},
			{Text: "➕ Add task", CallbackData: callbackAddTask},
		},
		{
			{Text: "⭐ Level", CallbackData: callbackShowLevel},
			{Text: "🏆 Badges", CallbackData: callbackShowBadges},
		},
		{
			{Text: "📊 Statistics", CallbackData: callbackShowStats},
			{Text: "🌤 Mood", CallbackData: callbackPickMood},
		},
	}
}
