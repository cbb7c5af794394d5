package bot

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"demand-planner/internal/admission"
	"demand-planner/internal/capture"
	"demand-planner/internal/model"
	"demand-planner/internal/planner"
	"demand-planner/internal/service"
	"demand-planner/internal/timer"
)

var editKeyRe = regexp.MustCompile(`([\p{L}]+)\s*=`)

var errNoFields = errors.New("Informe ao menos um campo, por exemplo titulo=Novo título duracao=45")

func escape(s string) string {
	return html.EscapeString(s)
}

// shortID is the prefix shown in lists and accepted by commands.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func formatCreated(task model.Task, message string, now time.Time) string {
	return "✅ <b>" + escape(message) + "</b>\n" + formatCard(task, now)
}

// formatCard renders every field of one task.
func formatCard(task model.Task, now time.Time) string {
	info := task.Type.Info()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("• <b>Código:</b> <code>%s</code>\n", shortID(task.ID)))
	sb.WriteString(fmt.Sprintf("• <b>Título:</b> %s\n", escape(task.Title)))
	sb.WriteString(fmt.Sprintf("• <b>Tipo:</b> %s %s\n", info.Icon, info.Label))
	sb.WriteString(fmt.Sprintf("• <b>Estimativa:</b> %d min\n", task.Duration))
	if task.Person != "" {
		sb.WriteString(fmt.Sprintf("• <b>Pessoa:</b> %s\n", escape(task.Person)))
	}
	if d, ok := task.DeadlineTime(now.Location()); ok {
		sb.WriteString(fmt.Sprintf("• <b>Prazo:</b> %s\n", d.Format("02/01/2006 15:04")))
	}
	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("• <b>Descrição:</b> %s\n", escape(task.Description)))
	}
	if elapsed := timer.Effective(task, now); elapsed > 0 {
		sb.WriteString(fmt.Sprintf("• <b>Tempo gasto:</b> %s\n", timer.Format(elapsed)))
	}
	if !task.IsOpen() {
		sb.WriteString("• <b>Status:</b> concluída\n")
	}
	return strings.TrimSpace(sb.String())
}

// renderBacklog lists open tasks matching filter with one button row each.
func renderBacklog(tasks []model.Task, filter planner.Filter, policy *admission.Policy, now time.Time) (string, [][]tgbotapi.InlineKeyboardButton) {
	backlog := planner.Backlog(tasks, filter)
	counts := planner.Count(tasks)

	var sb strings.Builder
	title := "Todas as demandas"
	if filter.Type != "" {
		info := filter.Type.Info()
		title = fmt.Sprintf("%s %s (%d/%d)", info.Icon, info.Label, counts.ByType[filter.Type], policy.Limit(filter.Type))
	}
	sb.WriteString(fmt.Sprintf("📋 <b>%s</b>\n", escape(title)))
	if filter.Query != "" {
		sb.WriteString(fmt.Sprintf("🔎 «%s»\n", escape(filter.Query)))
	}
	sb.WriteByte('\n')

	buttons := [][]tgbotapi.InlineKeyboardButton{filterRow(filter.Type)}
	if len(backlog) == 0 {
		sb.WriteString("Nenhuma demanda aberta aqui. Envie uma linha de texto para criar uma.")
		return sb.String(), buttons
	}

	for _, task := range backlog {
		sb.WriteString(fmt.Sprintf("<code>%s</code> %s", shortID(task.ID), service.FormatTask(task, now)))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏱ "+shortTitle(task.Title, 22), cbTimerPrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("✅", cbCompletePrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+task.ID),
		))
	}
	return strings.TrimSpace(sb.String()), buttons
}

func renderSuggestions(tasks []model.Task, minutes int, now time.Time) (string, [][]tgbotapi.InlineKeyboardButton) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⏱ <b>Cabe em %d min</b>\n\n", minutes))
	if len(tasks) == 0 {
		sb.WriteString("Nada cabe nesse tempo. Que tal uma pausa?")
		return sb.String(), nil
	}
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, task := range tasks {
		sb.WriteString(fmt.Sprintf("<code>%s</code> %s", shortID(task.ID), service.FormatTask(task, now)))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ "+shortTitle(task.Title, 30), cbTimerPrefix+task.ID),
		))
	}
	return strings.TrimSpace(sb.String()), buttons
}

func formatMetrics(m service.Metrics) string {
	var sb strings.Builder
	sb.WriteString("📊 <b>Visão analítica</b>\n\n")
	sb.WriteString(fmt.Sprintf("🕒 Abertas: <b>%d</b>\n", m.TotalOpen))
	sb.WriteString(fmt.Sprintf("✅ Concluídas: <b>%d</b>\n", m.TotalDone))
	sb.WriteString(fmt.Sprintf("📈 Tempo investido: <b>%d min</b> (média %d min)\n\n", m.SpentMinutes, m.AvgMinutes))
	for _, t := range model.Types {
		info := t.Info()
		tm := m.ByType[t]
		sb.WriteString(fmt.Sprintf("%s <b>%s</b>: %d abertas · %d concluídas · %d min\n", info.Icon, info.Label, tm.Open, tm.Done, tm.SpentMinutes))
	}
	return strings.TrimSpace(sb.String())
}

// parseEdit reads "campo=valor" pairs. Values run until the next key, so
// titles may contain spaces. "-" clears person, deadline and description.
func parseEdit(args string, now time.Time) (model.Patch, error) {
	var patch model.Patch
	locs := editKeyRe.FindAllStringSubmatchIndex(args, -1)
	if len(locs) == 0 {
		return patch, errNoFields
	}
	for i, loc := range locs {
		key := strings.ToLower(args[loc[2]:loc[3]])
		end := len(args)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		value := strings.TrimSpace(args[loc[1]:end])
		unset := value == "-"

		switch key {
		case "titulo", "título", "title":
			if value == "" {
				return patch, fmt.Errorf("O título não pode ficar vazio")
			}
			patch.Title = &value
		case "tipo", "type":
			t, err := model.ParseTaskType(value)
			if err != nil {
				return patch, fmt.Errorf("Tipo desconhecido: %s", value)
			}
			patch.Type = &t
		case "duracao", "duração", "duration", "min":
			n, ok := capture.ParseMinutes(value)
			if !ok {
				return patch, fmt.Errorf("Duração inválida: %s", value)
			}
			patch.Duration = &n
		case "pessoa", "person":
			if unset {
				value = ""
			}
			patch.Person = &value
		case "prazo", "deadline":
			if unset || value == "" {
				patch.ClearDeadline = true
				continue
			}
			d, err := capture.ParseDeadline(value, now)
			if err != nil {
				return patch, err
			}
			patch.Deadline = &d
		case "descricao", "descrição", "description":
			if unset {
				value = ""
			}
			patch.Description = &value
		case "status":
			switch strings.ToLower(value) {
			case "done", "concluida", "concluída", "feito":
				done := model.StatusDone
				patch.Status = &done
			default:
				return patch, fmt.Errorf("Status só pode ser alterado para concluída")
			}
		default:
			return patch, fmt.Errorf("Campo desconhecido: %s", key)
		}
	}
	return patch, nil
}
