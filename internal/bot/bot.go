package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"demand-planner/internal/config"
	"demand-planner/internal/model"
	"demand-planner/internal/repository"
	"demand-planner/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageType
	stageDuration
	stagePerson
	stageDeadline
)

type conversationState struct {
	stage conversationStage
	draft model.DraftTask
}

type confirmationAction int

const (
	actionComplete confirmationAction = iota
	actionDelete
)

type confirmationRequest struct {
	taskID string
	action confirmationAction
}

// liveView is an active-task message that the refresh job keeps editing.
type liveView struct {
	messageID int
	taskID    string
	lastText  string
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api           *tgbotapi.BotAPI
	store         *service.TaskStore
	auth          *service.AuthService
	userRepo      *repository.UserRepository
	metricsSvc    *service.MetricsService
	reminderSvc   *service.ReminderService
	config        *config.Config
	now           func() time.Time
	conversations map[int64]*conversationState
	confirmations map[int64]confirmationRequest
	live          map[int64]liveView
	mu            sync.Mutex
}

func New(token string, store *service.TaskStore, auth *service.AuthService, userRepo *repository.UserRepository, metricsSvc *service.MetricsService, reminderSvc *service.ReminderService, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		store:         store,
		auth:          auth,
		userRepo:      userRepo,
		metricsSvc:    metricsSvc,
		reminderSvc:   reminderSvc,
		config:        cfg,
		now:           time.Now,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]confirmationRequest),
		live:          make(map[int64]liveView),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("[error] handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("[error] handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s", msg.From.ID, msg.Command())
		return b.handleCommand(ctx, msg)
	}

	if !b.authorized(ctx, msg.From) {
		return b.sendLoginPrompt(msg.Chat.ID)
	}

	if isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Operação cancelada.")
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	if pending, ok := b.getConfirmation(msg.From.ID); ok {
		return b.handleConfirmationResponse(ctx, msg, pending)
	}

	if b.hasConversation(msg.From.ID) {
		log.Printf("[info] conversation step %d from %d", b.getConversation(msg.From.ID).stage, msg.From.ID)
		return b.handleConversation(ctx, msg)
	}

	return b.captureText(msg.Chat.ID, msg.Text)
}

// publicCommands work without an access key.
var publicCommands = map[string]bool{
	"start": true,
	"help":  true,
	"login": true,
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	cmd := msg.Command()
	if !publicCommands[cmd] && !b.authorized(ctx, msg.From) {
		return b.sendLoginPrompt(msg.Chat.ID)
	}

	switch cmd {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "login":
		return b.handleLogin(ctx, msg)
	case "logout":
		return b.handleLogout(ctx, msg)
	case "new", "newtask":
		return b.startNewTaskConversation(msg)
	case "capture":
		return b.captureText(msg.Chat.ID, msg.CommandArguments())
	case "tasks", "backlog":
		return b.handleListTasks(msg)
	case "suggest":
		return b.handleSuggest(msg)
	case "timer":
		return b.handleTimer(msg)
	case "complete":
		return b.handleComplete(msg)
	case "delete":
		return b.handleDelete(msg)
	case "edit":
		return b.handleEdit(msg)
	case "metrics":
		return b.handleMetrics(msg.Chat.ID)
	case "report":
		return b.handleReport(msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Operação cancelada.")
	default:
		return b.sendText(msg.Chat.ID, "Comando não suportado. Veja /help.")
	}
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) authorized(ctx context.Context, from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	return b.auth.Authorized(ctx, b.userRepo.Session(from.ID))
}

// SendReports sends the backlog summary to every authorized user.
func (b *Bot) SendReports(ctx context.Context) error {
	users, err := b.userRepo.ListAuthorized(ctx)
	if err != nil {
		return err
	}
	text := b.reminderSvc.Summary(b.now())
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			log.Printf("[error] send summary to %d: %v", user.TelegramID, err)
		}
	}
	log.Printf("[info] report sent to %d users", len(users))
	return nil
}

// RefreshTimers re-renders every live active-task message from the current
// projection. It never mutates tasks.
func (b *Bot) RefreshTimers() {
	b.mu.Lock()
	views := make(map[int64]liveView, len(b.live))
	for chatID, view := range b.live {
		views[chatID] = view
	}
	b.mu.Unlock()

	now := b.now()
	for chatID, view := range views {
		task, ok := b.store.Get(view.taskID)
		if !ok || !task.IsOpen() {
			b.dropLive(chatID, view.messageID)
			continue
		}
		if !task.IsRunning {
			continue
		}
		text := service.FormatRunning(task, now)
		if text == view.lastText {
			continue
		}
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, view.messageID, text, timerKeyboard(task))
		edit.ParseMode = tgbotapi.ModeHTML
		if _, err := b.api.Send(edit); err != nil {
			log.Printf("[error] refresh timer chat=%d: %v", chatID, err)
			continue
		}
		b.setLive(chatID, liveView{messageID: view.messageID, taskID: view.taskID, lastText: text})
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendMenuPlaceholder(chatID)
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMenuPlaceholder(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🔹 Menu principal")
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendLoginPrompt(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🔒 Acesso restrito. Envie <code>/login sua-chave</code> para entrar.")
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) ack(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		log.Printf("[error] callback ack: %v", err)
	}
}

func (b *Bot) getConfirmation(userID int64) (confirmationRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.confirmations[userID]
	return req, ok
}

func (b *Bot) setConfirmation(userID int64, req confirmationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = req
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func (b *Bot) setLive(chatID int64, view liveView) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.live[chatID] = view
}

// dropLive forgets the chat's live view if it is still messageID.
func (b *Bot) dropLive(chatID int64, messageID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if view, ok := b.live[chatID]; ok && view.messageID == messageID {
		delete(b.live, chatID)
	}
}

// resolveTask accepts the short codes shown in lists.
func (b *Bot) resolveTask(ref string) (model.Task, bool) {
	return b.store.Resolve(ref)
}
