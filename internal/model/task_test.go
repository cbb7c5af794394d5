package model

import "testing"

func strPtr(s string) *string { return &s }

func TestPatchApplyAndColumns(t *testing.T) {
	task := Task{ID: "1", Title: "Old", Type: TypeExecute, Duration: 30, Deadline: Int64Ptr(100), Status: StatusTodo}
	typ := TypeThink
	dur := 45
	p := Patch{Title: strPtr("  New  "), Type: &typ, Duration: &dur, Person: strPtr("Ana"), ClearDeadline: true}

	p.Apply(&task)
	if task.Title != "New" || task.Type != TypeThink || task.Duration != 45 || task.Person != "Ana" {
		t.Errorf("Unexpected task after patch: %+v", task)
	}
	if task.Deadline != nil {
		t.Error("Expected deadline cleared")
	}

	cols := p.Columns()
	if v, ok := cols["deadline"]; !ok || v != nil {
		t.Errorf("Expected explicit nil deadline column, got %v (present=%t)", v, ok)
	}
	if cols["title"] != "New" || cols["type"] != "THINK" || cols["duration"] != 45 {
		t.Errorf("Unexpected columns: %v", cols)
	}
}

func TestPatchDropsInvalidValues(t *testing.T) {
	task := Task{Title: "Keep", Type: TypeRespond, Duration: 15}
	bad := TaskType("OTHER")
	zero := 0
	todo := StatusTodo
	p := Patch{Title: strPtr("   "), Type: &bad, Duration: &zero, Status: &todo}

	if !p.Empty() {
		t.Error("Expected patch of invalid values to be empty")
	}
	p.Apply(&task)
	if task.Title != "Keep" || task.Type != TypeRespond || task.Duration != 15 {
		t.Errorf("Invalid patch changed task: %+v", task)
	}
	if len(p.Columns()) != 0 {
		t.Errorf("Expected no columns, got %v", p.Columns())
	}
}

func TestPatchCompletes(t *testing.T) {
	done := StatusDone
	if !(Patch{Status: &done}).Completes() {
		t.Error("Expected DONE status patch to complete")
	}
	if (Patch{}).Completes() {
		t.Error("Expected empty patch not to complete")
	}
}

func TestTimerColumnsWriteNull(t *testing.T) {
	cols := TimerColumns(Task{ElapsedTime: 30})
	v, ok := cols["last_started_at"]
	if !ok || v != nil {
		t.Errorf("Expected explicit nil last_started_at, got %v (present=%t)", v, ok)
	}

	cols = TimerColumns(Task{IsRunning: true, LastStartedAt: Int64Ptr(99)})
	if cols["last_started_at"] != int64(99) || cols["is_running"] != true {
		t.Errorf("Unexpected running columns: %v", cols)
	}

	cols = CompletionColumns(Task{Status: StatusDone})
	if cols["status"] != "DONE" {
		t.Errorf("Expected status column, got %v", cols)
	}
}

func TestCloneDoesNotSharePointers(t *testing.T) {
	orig := Task{LastStartedAt: Int64Ptr(1), Deadline: Int64Ptr(2)}
	c := orig.Clone()
	*c.LastStartedAt = 10
	*c.Deadline = 20
	if *orig.LastStartedAt != 1 || *orig.Deadline != 2 {
		t.Error("Clone shares pointers with the original")
	}
}

func TestDraftNormalize(t *testing.T) {
	d := DraftTask{Title: " Fazer algo ", Type: "", Duration: -5}.Normalize()
	if d.Title != "Fazer algo" || d.Type != TypeExecute || d.Duration != DefaultDuration {
		t.Errorf("Unexpected normalized draft: %+v", d)
	}
}

func TestParseTaskType(t *testing.T) {
	cases := map[string]TaskType{
		"think":     TypeThink,
		"PENSAR":    TypeThink,
		"responder": TypeRespond,
		"Executar":  TypeExecute,
		" execute ": TypeExecute,
	}
	for in, want := range cases {
		got, err := ParseTaskType(in)
		if err != nil || got != want {
			t.Errorf("ParseTaskType(%q): expected %s, got %s (%v)", in, want, got, err)
		}
	}
	if _, err := ParseTaskType("sleep"); err == nil {
		t.Error("Expected error for unknown type")
	}
}

func TestTypeInfoTable(t *testing.T) {
	if TypeExecute.Info().Limit != 7 || TypeThink.Info().Limit != 10 || TypeRespond.Info().Limit != 15 {
		t.Error("Unexpected default limits in type table")
	}
	if TaskType("nope").Info().Type != TypeExecute {
		t.Error("Expected unknown type to fall back to EXECUTE")
	}
}
