package planner

import (
	"reflect"
	"testing"

	"demand-planner/internal/model"
)

func task(id string, duration int, createdAt int64, deadline *int64) model.Task {
	return model.Task{
		ID:        id,
		Title:     "Task " + id,
		Type:      model.TypeExecute,
		Duration:  duration,
		Status:    model.StatusTodo,
		CreatedAt: createdAt,
		Deadline:  deadline,
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSortDeadlinesFirst(t *testing.T) {
	tasks := []model.Task{
		task("newest-no-deadline", 10, 900, nil),
		task("late", 10, 100, model.Int64Ptr(2000)),
		task("older-no-deadline", 10, 500, nil),
		task("early", 10, 50, model.Int64Ptr(1000)),
	}
	Sort(tasks)

	want := []string{"early", "late", "newest-no-deadline", "older-no-deadline"}
	if got := ids(tasks); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSortIsStableForTies(t *testing.T) {
	tasks := []model.Task{
		task("a", 10, 100, model.Int64Ptr(5)),
		task("b", 10, 200, model.Int64Ptr(5)),
		task("c", 10, 300, nil),
		task("d", 10, 300, nil),
	}
	Sort(tasks)

	want := []string{"a", "b", "c", "d"}
	if got := ids(tasks); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSuggestFiltersByBudget(t *testing.T) {
	tasks := []model.Task{
		task("ten", 10, 100, nil),
		task("forty-five", 45, 300, nil),
		task("twenty", 20, 200, nil),
	}

	got := Suggest(tasks, 30)
	want := []string{"twenty", "ten"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Expected %v, got %v", want, ids(got))
	}
	for _, s := range got {
		if s.Duration > 30 {
			t.Errorf("Task %s with duration %d should not fit 30", s.ID, s.Duration)
		}
	}
}

func TestSuggestExcludesDoneAndIsIdempotent(t *testing.T) {
	done := task("done", 5, 100, nil)
	done.Status = model.StatusDone
	tasks := []model.Task{done, task("open", 5, 50, model.Int64Ptr(10))}

	first := Suggest(tasks, 15)
	second := Suggest(tasks, 15)
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results for identical input")
	}
	if !reflect.DeepEqual(ids(first), []string{"open"}) {
		t.Errorf("Expected only the open task, got %v", ids(first))
	}
	if tasks[0].ID != "done" {
		t.Error("Suggest reordered its input")
	}
}

func TestSuggestEmpty(t *testing.T) {
	got := Suggest([]model.Task{task("big", 120, 1, nil)}, 15)
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
	if len(Suggest(nil, 0)) != 0 {
		t.Error("Expected empty result for zero budget")
	}
}

func TestBacklogFilters(t *testing.T) {
	think := task("think", 30, 300, nil)
	think.Type = model.TypeThink
	think.Title = "Analisar proposta"
	respond := task("respond", 15, 200, nil)
	respond.Type = model.TypeRespond
	respond.Title = "Responder email"
	done := task("done", 15, 400, nil)
	done.Status = model.StatusDone
	tasks := []model.Task{think, respond, done}

	if got := ids(Backlog(tasks, Filter{})); !reflect.DeepEqual(got, []string{"think", "respond"}) {
		t.Errorf("Unexpected backlog: %v", got)
	}
	if got := ids(Backlog(tasks, Filter{Type: model.TypeRespond})); !reflect.DeepEqual(got, []string{"respond"}) {
		t.Errorf("Unexpected type filter: %v", got)
	}
	if got := ids(Backlog(tasks, Filter{Query: "PROPOSTA"})); !reflect.DeepEqual(got, []string{"think"}) {
		t.Errorf("Unexpected query filter: %v", got)
	}
}

func TestCount(t *testing.T) {
	a := task("a", 10, 1, nil)
	b := task("b", 10, 2, nil)
	b.Type = model.TypeThink
	c := task("c", 10, 3, nil)
	c.Status = model.StatusDone

	counts := Count([]model.Task{a, b, c})
	if counts.All != 2 {
		t.Errorf("Expected 2 open, got %d", counts.All)
	}
	if counts.ByType[model.TypeExecute] != 1 || counts.ByType[model.TypeThink] != 1 || counts.ByType[model.TypeRespond] != 0 {
		t.Errorf("Unexpected per-type counts: %v", counts.ByType)
	}
}
