package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"demand-planner/internal/model"
	"demand-planner/internal/timer"
)

type fakeStore struct {
	task    model.Task
	now     time.Time
	toggles int
	note    *model.Notification
}

func (f *fakeStore) Get(id string) (model.Task, bool) {
	if id != f.task.ID {
		return model.Task{}, false
	}
	return f.task.Clone(), true
}

func (f *fakeStore) ToggleTimer(id string) bool {
	f.toggles++
	f.task = timer.Toggle(f.task, f.now)
	return true
}

func (f *fakeStore) Complete(id string) bool {
	f.task = timer.Complete(f.task, f.now)
	f.note = &model.Notification{Kind: model.NotifySuccess, Message: "Demanda concluída: " + f.task.Title + " 🎉"}
	return true
}

func (f *fakeStore) TakeNotification() (model.Notification, bool) {
	if f.note == nil {
		return model.Notification{}, false
	}
	n := *f.note
	f.note = nil
	return n, true
}

func newTestModel() (*Model, *fakeStore) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{
		now:  start,
		task: model.Task{ID: "t1", Title: "Escrever proposta", Type: model.TypeExecute, Duration: 10, Status: model.StatusTodo},
	}
	m := New(store, "t1")
	m.now = func() time.Time { return store.now }
	return m, store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestToggleKeys(t *testing.T) {
	m, store := newTestModel()

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !m.task.IsRunning {
		t.Fatal("Expected space to start the timer")
	}

	store.now = store.now.Add(2*time.Minute + 5*time.Second)
	m.Update(tickMsg(store.now))
	if view := m.View(); !strings.Contains(view, "02:05") {
		t.Errorf("Expected 02:05 in view, got:\n%s", view)
	}

	m.Update(runes("p"))
	if m.task.IsRunning || m.task.ElapsedTime != 125 {
		t.Errorf("Expected paused task with 125s, got %+v", m.task)
	}
	if store.toggles != 2 {
		t.Errorf("Expected 2 toggles, got %d", store.toggles)
	}
}

func TestCompleteQuitsWithToast(t *testing.T) {
	m, store := newTestModel()
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	store.now = store.now.Add(5 * time.Minute)

	_, cmd := m.Update(runes("c"))
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected complete to quit")
	}
	n, ok := m.Notification()
	if !ok || n.Message != "Demanda concluída: Escrever proposta 🎉" {
		t.Errorf("Unexpected notification %+v", n)
	}
	if m.task.Status != model.StatusDone || m.task.ElapsedTime != 300 {
		t.Errorf("Expected DONE with 300s, got %+v", m.task)
	}
	if view := m.View(); !strings.Contains(view, "05:00") || !strings.Contains(view, "50%") {
		t.Errorf("Expected 05:00 at 50%%, got:\n%s", view)
	}
}

func TestQuitAndMissingTask(t *testing.T) {
	m, _ := newTestModel()
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected q to quit")
	}

	missing := New(&fakeStore{}, "nope")
	if !strings.Contains(missing.View(), "não encontrada") {
		t.Error("Expected not-found view")
	}
	missing.Update(tea.KeyMsg{Type: tea.KeySpace})
	if _, cmd := missing.Update(runes("c")); cmd != nil {
		t.Error("Expected complete on a missing task to do nothing")
	}
}
