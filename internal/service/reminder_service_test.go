package service

import (
	"strings"
	"testing"
	"time"

	"demand-planner/internal/model"
)

func TestReminderSummary(t *testing.T) {
	store, clock, _ := newTestStore(t, &fakeRemote{})
	now := clock.now()

	store.Create(model.DraftTask{Title: "Sem prazo", Type: model.TypeThink, Duration: 20}, CreateOptions{})
	urgent := store.Create(model.DraftTask{
		Title: "Enviar <proposta>", Type: model.TypeRespond, Duration: 10, Person: "Ana",
		Deadline: model.Int64Ptr(now.Add(time.Hour).UnixMilli()),
	}, CreateOptions{}).Task
	done := store.Create(model.DraftTask{Title: "Feita", Type: model.TypeExecute, Duration: 5}, CreateOptions{}).Task
	store.Complete(done.ID)
	store.ToggleTimer(urgent.ID)
	clock.advance(65 * time.Second)

	text := NewReminderService(store).Summary(clock.now())

	if !strings.Contains(text, "2 abertas") {
		t.Errorf("Expected open count, got:\n%s", text)
	}
	if strings.Contains(text, "Feita") {
		t.Error("Expected done tasks to be left out")
	}
	if !strings.Contains(text, "Enviar &lt;proposta&gt;") {
		t.Error("Expected titles to be HTML-escaped")
	}
	if !strings.Contains(text, "Em andamento") || !strings.Contains(text, "01:05") {
		t.Errorf("Expected running section with 01:05, got:\n%s", text)
	}
	queue := text[strings.Index(text, "Fila por prioridade"):]
	if strings.Index(queue, "Enviar") > strings.Index(queue, "Sem prazo") {
		t.Errorf("Expected deadline task first, got:\n%s", queue)
	}
}

func TestFormatRunningProgress(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	task := model.Task{
		Title: "x", Type: model.TypeExecute, Duration: 10, ElapsedTime: 240,
		IsRunning: true, LastStartedAt: model.Int64Ptr(start.UnixMilli()),
	}
	out := FormatRunning(task, start.Add(time.Minute))
	if !strings.Contains(out, "05:00") || !strings.Contains(out, "50%") {
		t.Errorf("Expected 05:00 and 50%%, got %q", out)
	}
	if !strings.Contains(out, "▓▓▓▓▓░░░░░") {
		t.Errorf("Expected half-filled bar, got %q", out)
	}
}
