package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/dailyquest/internal/gateway"
	"github.com/example/dailyquest/internal/planner"
	"github.com/example/dailyquest/internal/stats"
	"github.com/example/dailyquest/pkg/models"
)

// Constants for callback data
const (
	callbackShowToday  = "show_today"
	callbackAddTask    = "add_task"
	callbackShowLevel  = "show_level"
	callbackShowBadges = "show_badges"
	callbackShowStats  = "show_stats"
	callbackPickMood   = "pick_mood"
	callbackDonePrefix = "done:"
	callbackMoodPrefix = "mood:"
)

const stateAwaitingTask = "awaiting_task"

// maxTaskButtons caps the inline buttons under the task list.
const maxTaskButtons = 10

var moodChoices = []string{stats.MoodSunny, stats.MoodPartly, stats.MoodCloudy, stats.MoodRainy, stats.MoodStormy}

const helpText = `Daily planner with XP, levels and achievements.

/today - today's tasks
/add <title> - plan a task for today
/tomorrow <title> - plan a task for tomorrow
/done <n> - complete task number n from /today
/undo <n> - reopen task number n
/mood <emoji> [note] - record today's mood
/level - level and XP
/badges - achievements
/stats - last 30 days
/menu - main menu`

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start", "help":
		return b.reply(chatID, helpText, true)
	case "menu":
		return b.reply(chatID, "Main menu - choose an option:", true)
	case "today":
		return b.handleToday(ctx, chatID)
	case "add":
		return b.handleAdd(ctx, message, args, false)
	case "tomorrow":
		return b.handleAdd(ctx, message, args, true)
	case "done":
		return b.handleSetCompleted(ctx, chatID, args, true)
	case "undo":
		return b.handleSetCompleted(ctx, chatID, args, false)
	case "mood":
		return b.handleMood(ctx, chatID, args)
	case "level":
		return b.handleLevel(ctx, chatID)
	case "badges":
		return b.handleBadges(ctx, chatID)
	case "stats":
		return b.handleStats(ctx, chatID)
	default:
		return b.reply(chatID, "Unknown command. Use /help to see what I can do.", true)
	}
}

func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	if message.From != nil && b.state(message.From.ID) == stateAwaitingTask {
		b.setState(message.From.ID, "")
		return b.addTask(ctx, message.Chat.ID, message.Text, false)
	}
	return b.reply(message.Chat.ID, "I don't understand. Use /menu to show the main menu.", true)
}

func (b *Bot) handleToday(ctx context.Context, chatID int64) error {
	tasks, err := b.planner.TasksOn(ctx, "")
	if err != nil {
		return b.replyError(chatID, err)
	}
	msg := tgbotapi.NewMessage(chatID, formatTasks(b.game.Today().String(), tasks))
	if rows := taskButtons(tasks); len(rows) > 0 {
		msg.ReplyMarkup = createKeyboard(rows)
	}
	_, err = b.api.Send(msg)
	return err
}

// taskButtons offers one completion button per open task.
func taskButtons(tasks []models.Task) [][]MenuButton {
	var rows [][]MenuButton
	for _, t := range tasks {
		if t.IsCompleted {
			continue
		}
		if len(rows) == maxTaskButtons {
			break
		}
		rows = append(rows, []MenuButton{{Text: "✅ " + t.Title, CallbackData: callbackDonePrefix + t.ID}})
	}
	return rows
}

func (b *Bot) handleAdd(ctx context.Context, message *tgbotapi.Message, title string, tomorrow bool) error {
	if title == "" {
		if tomorrow {
			return b.reply(message.Chat.ID, "Usage: /tomorrow <title>", false)
		}
		if message.From != nil {
			b.setState(message.From.ID, stateAwaitingTask)
		}
		return b.reply(message.Chat.ID, "What do you want to do today? Send the task title.", false)
	}
	return b.addTask(ctx, message.Chat.ID, title, tomorrow)
}

func (b *Bot) addTask(ctx context.Context, chatID int64, title string, tomorrow bool) error {
	var (
		task *models.Task
		err  error
	)
	if tomorrow {
		task, err = b.planner.AddTomorrow(ctx, title)
	} else {
		task, err = b.planner.AddTask(ctx, title, "")
	}
	if err != nil {
		return b.replyError(chatID, err)
	}
	return b.reply(chatID, fmt.Sprintf("📝 Added for %s: %s", task.TaskDate, task.Title), false)
}

// handleSetCompleted toggles the n-th task of today's list.
func (b *Bot) handleSetCompleted(ctx context.Context, chatID int64, arg string, completed bool) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return b.reply(chatID, "Send the task number from /today, for example /done 2", false)
	}
	tasks, err := b.planner.TasksOn(ctx, "")
	if err != nil {
		return b.replyError(chatID, err)
	}
	if n > len(tasks) {
		return b.reply(chatID, fmt.Sprintf("There is no task %d today. You have %d.", n, len(tasks)), false)
	}
	return b.toggle(ctx, chatID, tasks[n-1].ID, completed)
}

func (b *Bot) toggle(ctx context.Context, chatID int64, taskID string, completed bool) error {
	task, res, err := b.game.ToggleTask(ctx, taskID, completed)
	if err != nil {
		return b.replyError(chatID, err)
	}
	if !completed {
		return b.reply(chatID, fmt.Sprintf("↩️ Reopened: %s", task.Title), false)
	}
	return b.reply(chatID, formatCompletion(task.Title, res), false)
}

func (b *Bot) handleMood(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		return b.showMoodPicker(chatID)
	}
	mood, note, _ := strings.Cut(args, " ")
	m, err := b.planner.RecordMood(ctx, "", mood, note)
	if err != nil {
		return b.replyError(chatID, err)
	}
	return b.reply(chatID, fmt.Sprintf("Mood for %s saved: %s", m.MoodDate, m.Mood), false)
}

func (b *Bot) showMoodPicker(chatID int64) error {
	row := make([]MenuButton, 0, len(moodChoices))
	for _, m := range moodChoices {
		row = append(row, MenuButton{Text: m, CallbackData: callbackMoodPrefix + m})
	}
	msg := tgbotapi.NewMessage(chatID, "How was your day?")
	msg.ReplyMarkup = createKeyboard([][]MenuButton{row})
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleLevel(ctx context.Context, chatID int64) error {
	ov, err := b.game.Overview(ctx)
	if err != nil {
		return b.replyError(chatID, err)
	}
	return b.reply(chatID, formatLevel(ov), false)
}

func (b *Bot) handleBadges(ctx context.Context, chatID int64) error {
	ov, err := b.game.Overview(ctx)
	if err != nil {
		return b.replyError(chatID, err)
	}
	return b.reply(chatID, formatBadges(ov), false)
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) error {
	totals, err := b.planner.DailyTotals(ctx, stats.SummaryDays)
	if err != nil {
		return b.replyError(chatID, err)
	}
	return b.reply(chatID, formatStats(stats.Summarize(totals, b.game.Today())), false)
}

// handleCallbackQuery handles callback queries from buttons
func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Printf("error answering callback: %v", err)
	}
	// Callbacks from inline-mode messages carry no chat.
	if callback.Message == nil || callback.Message.Chat == nil {
		return nil
	}
	chatID := callback.Message.Chat.ID

	switch data := callback.Data; {
	case data == callbackShowToday:
		return b.handleToday(ctx, chatID)
	case data == callbackAddTask:
		if callback.From != nil {
			b.setState(callback.From.ID, stateAwaitingTask)
		}
		return b.reply(chatID, "What do you want to do today? Send the task title.", false)
	case data == callbackShowLevel:
		return b.handleLevel(ctx, chatID)
	case data == callbackShowBadges:
		return b.handleBadges(ctx, chatID)
	case data == callbackShowStats:
		return b.handleStats(ctx, chatID)
	case data == callbackPickMood:
		return b.showMoodPicker(chatID)
	case strings.HasPrefix(data, callbackDonePrefix):
		return b.toggle(ctx, chatID, strings.TrimPrefix(data, callbackDonePrefix), true)
	case strings.HasPrefix(data, callbackMoodPrefix):
		return b.handleMood(ctx, chatID, strings.TrimPrefix(data, callbackMoodPrefix))
	default:
		return fmt.Errorf("unknown callback data %q", data)
	}
}

// replyError tells the user what went wrong. Only unexpected errors are returned
// to the caller for logging.
func (b *Bot) replyError(chatID int64, err error) error {
	var text string
	switch {
	case errors.Is(err, planner.ErrInvalidInput):
		text = "⚠️ " + err.Error()
	case errors.Is(err, planner.ErrTaskNotFound), errors.Is(err, gateway.ErrTaskNotFound):
		text = "⚠️ That task no longer exists."
	case errors.Is(err, gateway.ErrConcurrentUpdate):
		text = "⚠️ Progress changed at the same time, please try again."
	default:
		if sendErr := b.reply(chatID, "Something went wrong, please try again later.", false); sendErr != nil {
			b.logger.Printf("error sending reply: %v", sendErr)
		}
		return err
	}
	return b.reply(chatID, text, false)
}
