package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"demand-planner/internal/model"
	"demand-planner/internal/planner"
	"demand-planner/internal/timer"
)

// ReminderService builds human-readable summaries for periodic reports.
type ReminderService struct {
	store *TaskStore
}

func NewReminderService(store *TaskStore) *ReminderService {
	return &ReminderService{store: store}
}

// Summary renders the open backlog in priority order plus the running task,
// as Telegram HTML.
func (s *ReminderService) Summary(now time.Time) string {
	tasks := s.store.List()
	pending := planner.Backlog(tasks, planner.Filter{})
	counts := planner.Count(tasks)

	var builder strings.Builder
	builder.WriteString("📋 <b>Resumo de demandas</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("02/01/2006 15:04")))
	builder.WriteString(fmt.Sprintf("%d abertas", counts.All))
	for _, t := range model.Types {
		info := t.Info()
		builder.WriteString(fmt.Sprintf(" · %s %d", info.Icon, counts.ByType[t]))
	}
	builder.WriteString("\n\n")

	for _, task := range pending {
		if task.IsRunning {
			builder.WriteString("⏱ <b>Em andamento</b>\n")
			builder.WriteString(FormatRunning(task, now))
			builder.WriteString("\n\n")
			break
		}
	}

	builder.WriteString("🔥 <b>Fila por prioridade</b>\n")
	if len(pending) == 0 {
		builder.WriteString("— nenhuma demanda aberta\n")
	} else {
		for _, task := range pending {
			builder.WriteString(FormatTask(task, now))
		}
	}

	return strings.TrimSpace(builder.String())
}

// FormatTask renders one backlog line with deadline and person hints.
func FormatTask(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	if d, ok := task.DeadlineTime(now.Location()); ok {
		switch {
		case now.After(d):
			icon = "⚠️"
		case d.Sub(now) <= 24*time.Hour:
			icon = "⏳"
		}
	}

	info := task.Type.Info()
	title := html.EscapeString(strings.TrimSpace(task.Title))
	sb.WriteString(fmt.Sprintf("%s %s %s · %d min", icon, info.Icon, title, task.Duration))

	if task.Person != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(task.Person)))
	}

	if d, ok := task.DeadlineTime(now.Location()); ok {
		if now.After(d) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ %s — <b>atrasada</b>", d.Format("02/01 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("\n   ⏰ até %s", d.Format("02/01 15:04")))
		}
	}

	if elapsed := timer.Effective(task, now); elapsed > 0 {
		sb.WriteString(fmt.Sprintf("\n   ⌛ %s", timer.Format(elapsed)))
	}

	sb.WriteByte('\n')
	return sb.String()
}

// FormatRunning renders the active-task view: elapsed clock and progress
// against the estimate.
func FormatRunning(task model.Task, now time.Time) string {
	info := task.Type.Info()
	elapsed := timer.Effective(task, now)
	progress := timer.Progress(task, now)

	state := "⏸ Pausada"
	if task.IsRunning {
		state = "▶️ Em andamento"
	}
	if task.Status == model.StatusDone {
		state = "✅ Concluída"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s <b>%s</b>\n", info.Icon, html.EscapeString(task.Title)))
	sb.WriteString(fmt.Sprintf("%s · %s\n", info.Label, state))
	sb.WriteString(fmt.Sprintf("<code>%s</code> / %d min\n", timer.Format(elapsed), task.Duration))
	sb.WriteString(progressBar(progress, 10))
	sb.WriteString(fmt.Sprintf(" %.0f%%", progress))
	return sb.String()
}

func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}
