package admission

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"demand-planner/internal/model"
)

func openTasks(t model.TaskType, n int) []model.Task {
	tasks := make([]model.Task, n)
	for i := range tasks {
		tasks[i] = model.Task{ID: fmt.Sprintf("%s-%d", t, i), Title: "x", Type: t, Duration: 10, Status: model.StatusTodo}
	}
	return tasks
}

func TestDefaultLimits(t *testing.T) {
	limits := DefaultLimits()
	want := map[model.TaskType]int{model.TypeExecute: 7, model.TypeThink: 10, model.TypeRespond: 15}
	for typ, limit := range want {
		if limits[typ] != limit {
			t.Errorf("Expected limit %d for %s, got %d", limit, typ, limits[typ])
		}
	}
}

func TestCheckRejectsAtLimit(t *testing.T) {
	p := NewPolicy(nil)

	if err := p.Check(openTasks(model.TypeExecute, 6), model.TypeExecute); err != nil {
		t.Fatalf("Expected 7th EXECUTE task to be admitted, got %v", err)
	}

	err := p.Check(openTasks(model.TypeExecute, 7), model.TypeExecute)
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Expected RejectedError, got %v", err)
	}
	if rejected.Count != 7 || rejected.Type != model.TypeExecute || rejected.Limit != 7 {
		t.Errorf("Unexpected rejection: %+v", rejected)
	}
	if !strings.Contains(rejected.Error(), "EXECUTAR") || !strings.Contains(rejected.Error(), "(7)") {
		t.Errorf("Unexpected message: %s", rejected.Error())
	}
}

func TestCheckIgnoresDoneAndOtherTypes(t *testing.T) {
	p := NewPolicy(nil)
	tasks := openTasks(model.TypeExecute, 7)
	tasks[0].Status = model.StatusDone
	tasks = append(tasks, openTasks(model.TypeThink, 10)...)

	if err := p.Check(tasks, model.TypeExecute); err != nil {
		t.Errorf("Expected admission after one completion, got %v", err)
	}
	if err := p.Check(tasks, model.TypeThink); err == nil {
		t.Error("Expected THINK to be full")
	}
	if err := p.Check(tasks, model.TypeRespond); err != nil {
		t.Errorf("Expected RESPOND to be admitted, got %v", err)
	}
}

func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(Limits{model.TypeRespond: 2, model.TypeThink: 0, "BOGUS": 3})

	if p.Limit(model.TypeRespond) != 2 {
		t.Errorf("Expected override 2, got %d", p.Limit(model.TypeRespond))
	}
	if p.Limit(model.TypeThink) != 10 {
		t.Errorf("Expected non-positive override to be ignored, got %d", p.Limit(model.TypeThink))
	}
	if _, ok := p.Limits()["BOGUS"]; ok {
		t.Error("Expected unknown type to be ignored")
	}
}
