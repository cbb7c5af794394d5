package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"demand-planner/internal/capture"
	"demand-planner/internal/model"
	"demand-planner/internal/planner"
	"demand-planner/internal/service"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "por aí"
	}

	text := fmt.Sprintf(
		"👋 Olá, %s!\n<b>Eu organizo suas demandas por modo: pensar, responder e executar.</b>\n\n"+
			"Escreva uma linha como <code>Responder email do cliente, Carlos, 20min</code> e eu crio a demanda.\n\n"+
			"Comandos:\n"+
			"• /login &lt;chave&gt; — entrar\n"+
			"• /tasks [tipo] — demandas abertas\n"+
			"• /suggest [min] — o que cabe no seu tempo\n"+
			"• /help — todos os comandos",
		escape(name),
	)

	if !b.authorized(ctx, msg.From) {
		return b.sendWithReplyMarkup(msg.Chat.ID, text, tgbotapi.NewRemoveKeyboard(true))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Comandos</b>\n" +
		"• /login &lt;chave&gt; — entrar com a chave de acesso\n" +
		"• /logout — sair\n" +
		"• /new — criar demanda passo a passo\n" +
		"• /capture &lt;texto&gt; — captura rápida (ou só envie o texto)\n" +
		"• /tasks [tipo] — demandas abertas por prioridade\n" +
		"• /suggest [min] — demandas que cabem no tempo disponível\n" +
		"• /timer &lt;id&gt; — cronômetro da demanda\n" +
		"• /complete &lt;id&gt; — concluir demanda\n" +
		"• /edit &lt;id&gt; campo=valor — editar (titulo, tipo, duracao, pessoa, prazo, descricao, status)\n" +
		"• /delete &lt;id&gt; — excluir demanda\n" +
		"• /metrics — visão analítica\n" +
		"• /report — resumo agora\n" +
		"• /cancel — cancelar a operação atual\n\n" +
		"Tipos: 💡 pensar · 💬 responder · ⚡ executar"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleLogin(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	key := strings.TrimSpace(msg.CommandArguments())
	if key == "" {
		return b.sendLoginPrompt(msg.Chat.ID)
	}

	// The key should not linger in the chat history.
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, msg.MessageID)); err != nil {
		log.Printf("[error] delete login message: %v", err)
	}

	ok, err := b.auth.Login(ctx, b.userRepo.Session(msg.From.ID), key)
	if err != nil {
		return b.sendWithReplyMarkup(msg.Chat.ID, "Não foi possível validar a chave agora. Tente novamente.", tgbotapi.NewRemoveKeyboard(true))
	}
	if !ok {
		return b.sendWithReplyMarkup(msg.Chat.ID, "🔒 Chave inválida. Tente novamente.", tgbotapi.NewRemoveKeyboard(true))
	}
	log.Printf("[info] user %d logged in", msg.From.ID)
	return b.sendText(msg.Chat.ID, "🔓 Acesso liberado. Envie uma demanda ou use /tasks.")
}

func (b *Bot) handleLogout(ctx context.Context, msg *tgbotapi.Message) error {
	if err := b.auth.Logout(ctx, b.userRepo.Session(msg.From.ID)); err != nil {
		return err
	}
	b.clearConversation(msg.From.ID)
	b.clearConfirmation(msg.From.ID)
	return b.sendWithReplyMarkup(msg.Chat.ID, "👋 Sessão encerrada.", tgbotapi.NewRemoveKeyboard(true))
}

func (b *Bot) captureText(chatID int64, text string) error {
	res := b.store.Capture(text)
	if !res.Success {
		if res.Rejection != nil {
			return b.sendWithReplyMarkup(chatID, "⛔ "+escape(res.Message), backlogActionKeyboard(res.Rejection.Type))
		}
		return b.sendText(chatID, escape(res.Message)+"\nExemplo: <code>Escrever proposta, Ana, 45min</code>")
	}
	log.Printf("[info] task captured id=%s type=%s", res.Task.ID, res.Task.Type)
	return b.sendWithReplyMarkup(chatID, formatCreated(*res.Task, res.Message, b.now()), taskActionsKeyboard(*res.Task))
}

func (b *Bot) startNewTaskConversation(msg *tgbotapi.Message) error {
	log.Printf("[info] start new task conversation user=%d", msg.From.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 Nova demanda.\n<b>Passo 1:</b> qual o título?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "O título não pode ficar vazio.", cancelKeyboard())
		}
		state.draft.Title = text
		state.stage = stageType
		return b.sendWithReplyMarkup(msg.Chat.ID, "<b>Passo 2:</b> que tipo de demanda?", typeKeyboard())
	case stageType:
		t, ok := parseTypeInput(text)
		if !ok {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Escolha um dos tipos no teclado.", typeKeyboard())
		}
		state.draft.Type = t
		state.stage = stageDuration
		return b.sendWithReplyMarkup(msg.Chat.ID, "<b>Passo 3:</b> quantos minutos estima?", durationKeyboard())
	case stageDuration:
		minutes, ok := capture.ParseMinutes(text)
		if !ok {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Informe um número de minutos, por exemplo 30.", durationKeyboard())
		}
		state.draft.Duration = minutes
		state.stage = stagePerson
		return b.sendWithReplyMarkup(msg.Chat.ID, "<b>Passo 4:</b> envolve alguém? (ou «Pular»)", skipKeyboard())
	case stagePerson:
		if !isSkipInput(text) {
			state.draft.Person = text
		}
		state.stage = stageDeadline
		return b.sendWithReplyMarkup(msg.Chat.ID, "<b>Passo 5:</b> prazo no formato <code>2025-11-30 18:00</code> ou <code>+2h</code> (ou «Pular»)", skipKeyboard())
	case stageDeadline:
		if !isSkipInput(text) {
			deadline, err := capture.ParseDeadline(text, b.now())
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Não entendi o prazo. Use <code>2025-11-30 18:00</code>, <code>30/11/2025</code> ou <code>+2h</code>.", skipKeyboard())
			}
			state.draft.Deadline = model.Int64Ptr(deadline)
		}
		b.clearConversation(msg.From.ID)
		return b.finishTaskCreation(msg.Chat.ID, state.draft)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Conversa reiniciada. Tente de novo com /new.")
	}
}

func (b *Bot) finishTaskCreation(chatID int64, draft model.DraftTask) error {
	res := b.store.Create(draft, service.CreateOptions{Notify: true})
	if !res.Success {
		if n, ok := b.store.TakeNotification(); ok && n.Action != nil {
			return b.sendWithReplyMarkup(chatID, "⛔ "+escape(n.Message), backlogActionKeyboard(n.Action.FilterType))
		}
		return b.sendTextWithRemove(chatID, escape(res.Message))
	}

	log.Printf("[info] task created id=%s type=%s", res.Task.ID, res.Task.Type)
	if err := b.sendTextWithRemove(chatID, formatCreated(*res.Task, res.Message, b.now())); err != nil {
		return err
	}
	return b.sendWithReplyMarkup(chatID, "O que fazer agora?", taskActionsKeyboard(*res.Task))
}

func (b *Bot) handleListTasks(msg *tgbotapi.Message) error {
	filter := planner.Filter{}
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		if t, err := model.ParseTaskType(args); err == nil {
			filter.Type = t
		} else {
			filter.Query = args
		}
	}
	return b.sendTaskList(msg.Chat.ID, filter)
}

func (b *Bot) sendTaskList(chatID int64, filter planner.Filter) error {
	tasks := b.store.List()
	text, buttons := renderBacklog(tasks, filter, b.store.Policy(), b.now())
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleSuggest(msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏱ Quanto tempo você tem agora?", presetsKeyboard())
	}
	minutes, ok := capture.ParseMinutes(args)
	if !ok {
		return b.sendText(msg.Chat.ID, "Informe os minutos disponíveis, por exemplo /suggest 30")
	}
	return b.sendSuggestions(msg.Chat.ID, minutes)
}

func (b *Bot) sendSuggestions(chatID int64, minutes int) error {
	suggested := planner.Suggest(b.store.List(), minutes)
	text, buttons := renderSuggestions(suggested, minutes, b.now())
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if len(buttons) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleTimer(msg *tgbotapi.Message) error {
	task, ok := b.resolveTask(msg.CommandArguments())
	if !ok {
		return b.sendText(msg.Chat.ID, "Demanda não encontrada. Use o código mostrado em /tasks, por exemplo /timer 1a2b3c4d")
	}
	return b.showTimer(msg.Chat.ID, 0, task.ID)
}

// showTimer sends the active-task view, or edits messageID when it is set,
// and registers it for live refresh.
func (b *Bot) showTimer(chatID int64, messageID int, taskID string) error {
	task, ok := b.store.Get(taskID)
	if !ok {
		return b.sendText(chatID, "Demanda não encontrada.")
	}
	text := service.FormatRunning(task, b.now())
	markup := timerKeyboard(task)

	if messageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
		edit.ParseMode = tgbotapi.ModeHTML
		if _, err := b.api.Send(edit); err != nil {
			return err
		}
	} else {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.ReplyMarkup = markup
		sent, err := b.api.Send(msg)
		if err != nil {
			return err
		}
		messageID = sent.MessageID
	}

	if task.IsOpen() {
		b.setLive(chatID, liveView{messageID: messageID, taskID: task.ID, lastText: text})
	} else {
		b.dropLive(chatID, messageID)
	}
	return nil
}

func (b *Bot) handleComplete(msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, "Informe o código da demanda: /complete 1a2b3c4d")
	}
	task, ok := b.resolveTask(args)
	if !ok {
		return b.sendText(msg.Chat.ID, "Demanda não encontrada.")
	}
	return b.completeAndReport(msg.Chat.ID, task.ID)
}

// completeAndReport finishes the task, shows the notification and then the
// analytics summary.
func (b *Bot) completeAndReport(chatID int64, taskID string) error {
	task, ok := b.store.Get(taskID)
	if !ok {
		return b.sendTextWithRemove(chatID, "Demanda não encontrada ou já excluída.")
	}
	if !task.IsOpen() {
		return b.sendTextWithRemove(chatID, "Essa demanda já foi concluída.")
	}
	if !b.store.Complete(taskID) {
		return b.sendTextWithRemove(chatID, "Demanda não encontrada ou já excluída.")
	}
	log.Printf("[info] task completed id=%s", taskID)

	text := "✅ Demanda concluída."
	if n, ok := b.store.TakeNotification(); ok {
		text = "✅ " + escape(n.Message)
	}
	if err := b.sendTextWithRemove(chatID, text); err != nil {
		return err
	}
	return b.handleMetrics(chatID)
}

func (b *Bot) handleDelete(msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, "Informe o código da demanda: /delete 1a2b3c4d")
	}
	task, ok := b.resolveTask(args)
	if !ok {
		return b.sendText(msg.Chat.ID, "Demanda não encontrada.")
	}
	return b.askConfirmation(msg.Chat.ID, msg.From.ID, task, actionDelete)
}

func (b *Bot) askConfirmation(chatID, userID int64, task model.Task, action confirmationAction) error {
	var text string
	if action == actionDelete {
		text = fmt.Sprintf("Excluir a demanda «%s» (#%s)? Não dá para desfazer.", escape(task.Title), shortID(task.ID))
	} else {
		if !task.IsOpen() {
			return b.sendText(chatID, "Essa demanda já foi concluída.")
		}
		text = fmt.Sprintf("Concluir a demanda «%s» (#%s)?", escape(task.Title), shortID(task.ID))
	}
	b.setConfirmation(userID, confirmationRequest{taskID: task.ID, action: action})
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		if req.action == actionDelete {
			return b.deleteTaskAndRefresh(msg.Chat.ID, req.taskID)
		}
		return b.completeAndReport(msg.Chat.ID, req.taskID)
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.sendMenuPlaceholder(msg.Chat.ID)
	default:
		prompt := "Confirme ou cancele a conclusão."
		if req.action == actionDelete {
			prompt = "Confirme ou cancele a exclusão."
		}
		return b.sendWithReplyMarkup(msg.Chat.ID, prompt, confirmKeyboard())
	}
}

func (b *Bot) deleteTaskAndRefresh(chatID int64, taskID string) error {
	task, ok := b.store.Get(taskID)
	if !ok || !b.store.Delete(taskID) {
		return b.sendTextWithRemove(chatID, "Demanda não encontrada ou já excluída.")
	}
	log.Printf("[info] task deleted id=%s", taskID)
	if err := b.sendTextWithRemove(chatID, fmt.Sprintf("🗑 Demanda «%s» excluída.", escape(task.Title))); err != nil {
		return err
	}
	return b.sendTaskList(chatID, planner.Filter{})
}

func (b *Bot) handleEdit(msg *tgbotapi.Message) error {
	ref, rest, _ := strings.Cut(strings.TrimSpace(msg.CommandArguments()), " ")
	if ref == "" {
		return b.sendText(msg.Chat.ID, "Uso: /edit &lt;id&gt; campo=valor, por exemplo <code>/edit 1a2b3c4d duracao=45 pessoa=Ana</code>")
	}
	task, ok := b.resolveTask(ref)
	if !ok {
		return b.sendText(msg.Chat.ID, "Demanda não encontrada.")
	}
	patch, err := parseEdit(rest, b.now())
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error()))
	}
	if patch.Empty() {
		return b.sendText(msg.Chat.ID, "Nada para alterar.")
	}
	if !b.store.Update(task.ID, patch) {
		return b.sendText(msg.Chat.ID, "Demanda não encontrada.")
	}
	log.Printf("[info] task edited id=%s", task.ID)
	updated, _ := b.store.Get(task.ID)
	return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ Demanda atualizada\n"+formatCard(updated, b.now()), taskActionsKeyboard(updated))
}

func (b *Bot) handleMetrics(chatID int64) error {
	return b.sendText(chatID, formatMetrics(b.metricsSvc.Summary()))
}

func (b *Bot) handleReport(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, b.reminderSvc.Summary(b.now()))
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelNewTask):
		return true, b.startNewTaskConversation(msg)
	case strings.ToLower(menuLabelTasks):
		return true, b.sendTaskList(msg.Chat.ID, planner.Filter{})
	case strings.ToLower(menuLabelSuggest):
		return true, b.sendWithReplyMarkup(msg.Chat.ID, "⏱ Quanto tempo você tem agora?", presetsKeyboard())
	case strings.ToLower(menuLabelMetrics):
		return true, b.handleMetrics(msg.Chat.ID)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if !b.authorized(ctx, cb.From) {
		b.ack(cb, "Faça /login primeiro")
		return nil
	}

	chatID := cb.Message.Chat.ID
	prefix, arg, _ := strings.Cut(cb.Data, ":")
	log.Printf("[info] callback %s user=%d arg=%s", prefix, cb.From.ID, arg)

	switch prefix + ":" {
	case cbTimerPrefix:
		b.ack(cb, "")
		return b.showTimer(chatID, 0, arg)
	case cbTogglePrefix:
		if !b.store.ToggleTimer(arg) {
			b.ack(cb, "Demanda não encontrada")
			return nil
		}
		b.ack(cb, "")
		return b.showTimer(chatID, cb.Message.MessageID, arg)
	case cbDonePrefix:
		b.ack(cb, "")
		b.dropLive(chatID, cb.Message.MessageID)
		if err := b.completeAndReport(chatID, arg); err != nil {
			return err
		}
		return b.showTimer(chatID, cb.Message.MessageID, arg)
	case cbBackPrefix:
		b.ack(cb, "")
		b.dropLive(chatID, cb.Message.MessageID)
		return b.sendTaskList(chatID, planner.Filter{})
	case cbCompletePrefix, cbDeletePrefix:
		b.ack(cb, "")
		task, ok := b.store.Get(arg)
		if !ok {
			return b.sendText(chatID, "Demanda não encontrada.")
		}
		action := actionComplete
		if prefix+":" == cbDeletePrefix {
			action = actionDelete
		}
		return b.askConfirmation(chatID, cb.From.ID, task, action)
	case cbSuggestPrefix:
		b.ack(cb, "")
		minutes, err := strconv.Atoi(arg)
		if err != nil {
			return nil
		}
		return b.sendSuggestions(chatID, minutes)
	case cbBacklogPrefix:
		b.ack(cb, "")
		filter := planner.Filter{}
		if t, err := model.ParseTaskType(arg); err == nil {
			filter.Type = t
		}
		return b.sendTaskList(chatID, filter)
	default:
		b.ack(cb, "")
		return nil
	}
}
