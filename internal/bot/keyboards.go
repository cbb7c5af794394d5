package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"demand-planner/internal/model"
	"demand-planner/internal/planner"
)

const (
	cbTimerPrefix    = "timer:"
	cbTogglePrefix   = "toggle:"
	cbDonePrefix     = "done:"
	cbBackPrefix     = "back:"
	cbCompletePrefix = "complete:"
	cbDeletePrefix   = "delete:"
	cbSuggestPrefix  = "suggest:"
	cbBacklogPrefix  = "backlog:"
)

const (
	btnSkip          = "⏭️ Pular"
	btnConfirm       = "✅ Confirmar"
	btnCancel        = "↩️ Cancelar"
	btnCancelDialog  = "⏪ Cancelar operação"
	menuLabelNewTask = "➕ Nova demanda"
	menuLabelTasks   = "📋 Demandas"
	menuLabelSuggest = "⏱ Tenho tempo"
	menuLabelMetrics = "📊 Métricas"
	menuLabelHelp    = "ℹ️ Ajuda"
)

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelSuggest),
			tgbotapi.NewKeyboardButton(menuLabelMetrics),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// typeKeyboard offers one button per type, labelled from the type table.
func typeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var row []tgbotapi.KeyboardButton
	for _, t := range model.Types {
		row = append(row, tgbotapi.NewKeyboardButton(typeButton(t)))
	}
	kb := tgbotapi.NewReplyKeyboard(
		row,
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func durationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var row []tgbotapi.KeyboardButton
	for _, p := range planner.Presets {
		row = append(row, tgbotapi.NewKeyboardButton(strconv.Itoa(p)))
	}
	kb := tgbotapi.NewReplyKeyboard(
		row,
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func presetsKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, p := range planner.Presets {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d min", p), fmt.Sprintf("%s%d", cbSuggestPrefix, p)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// timerKeyboard holds the active-task controls. Done tasks only get a way
// back to the list.
func timerKeyboard(task model.Task) tgbotapi.InlineKeyboardMarkup {
	back := tgbotapi.NewInlineKeyboardButtonData("⬅️ Voltar", cbBackPrefix+task.ID)
	if !task.IsOpen() {
		return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(back))
	}
	toggle := "▶️ Retomar"
	if task.IsRunning {
		toggle = "⏸ Pausar"
	} else if task.ElapsedTime == 0 {
		toggle = "▶️ Iniciar"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggle, cbTogglePrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("✅ Concluir", cbDonePrefix+task.ID),
		),
		tgbotapi.NewInlineKeyboardRow(back),
	)
}

func taskActionsKeyboard(task model.Task) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏱ Cronômetro", cbTimerPrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("✅ Concluir", cbCompletePrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+task.ID),
		),
	)
}

// backlogActionKeyboard carries the follow-up offered after a rejection.
func backlogActionKeyboard(t model.TaskType) tgbotapi.InlineKeyboardMarkup {
	label := "Ver demandas de " + t.Info().Tag
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbBacklogPrefix+string(t)),
		),
	)
}

func filterRow(active model.TaskType) []tgbotapi.InlineKeyboardButton {
	label := func(text string, selected bool) string {
		if selected {
			return "• " + text
		}
		return text
	}
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(label("Todas", active == ""), cbBacklogPrefix),
	}
	for _, t := range model.Types {
		info := t.Info()
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label(info.Icon+" "+info.Label, active == t), cbBacklogPrefix+string(t)))
	}
	return row
}

func typeButton(t model.TaskType) string {
	info := t.Info()
	return info.Icon + " " + info.Label
}

func parseTypeInput(text string) (model.TaskType, bool) {
	value := strings.TrimSpace(text)
	for _, t := range model.Types {
		if strings.EqualFold(value, typeButton(t)) {
			return t, true
		}
	}
	t, err := model.ParseTaskType(value)
	return t, err == nil
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "pular" || value == "skip"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "confirmar" || value == "sim"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancelar" || value == "não" || value == "nao"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "cancelar operação"
}
