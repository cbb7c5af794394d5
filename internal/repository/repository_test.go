package repository

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"demand-planner/internal/model"
)

func setupDB(t *testing.T) (*TaskRepository, *UserRepository, *AccessKeyRepository) {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), io.Discard)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return NewTaskRepository(db), NewUserRepository(db), NewAccessKeyRepository(db)
}

func TestTaskRepositoryListOrder(t *testing.T) {
	repo, _, _ := setupDB(t)
	ctx := context.Background()

	err := repo.Insert(ctx,
		model.Task{ID: "a", Title: "old", Type: model.TypeThink, Duration: 10, Status: model.StatusTodo, CreatedAt: 1000},
		model.Task{ID: "b", Title: "new", Type: model.TypeRespond, Duration: 20, Status: model.StatusTodo, CreatedAt: 3000},
		model.Task{ID: "c", Title: "mid", Type: model.TypeExecute, Duration: 30, Status: model.StatusDone, CreatedAt: 2000},
	)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	tasks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("Expected task %d to be %s, got %s", i, id, tasks[i].ID)
		}
	}
	if tasks[1].Status != model.StatusDone {
		t.Errorf("Expected status DONE, got %s", tasks[1].Status)
	}
}

func TestTaskRepositoryUpdateWritesNull(t *testing.T) {
	repo, _, _ := setupDB(t)
	ctx := context.Background()

	running := model.Task{
		ID: "t1", Title: "Relatório", Type: model.TypeExecute, Duration: 45,
		IsRunning: true, LastStartedAt: model.Int64Ptr(5000), Deadline: model.Int64Ptr(9000),
		Status: model.StatusTodo, CreatedAt: 1,
	}
	if err := repo.Insert(ctx, running); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	stopped := running
	stopped.IsRunning = false
	stopped.LastStartedAt = nil
	stopped.ElapsedTime = 42
	if err := repo.Update(ctx, "t1", model.TimerColumns(stopped)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := repo.Update(ctx, "t1", model.Patch{ClearDeadline: true}.Columns()); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.FindByID(ctx, "t1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.IsRunning {
		t.Error("Expected task to be stopped")
	}
	if got.LastStartedAt != nil {
		t.Errorf("Expected last_started_at NULL, got %d", *got.LastStartedAt)
	}
	if got.Deadline != nil {
		t.Errorf("Expected deadline NULL, got %d", *got.Deadline)
	}
	if got.ElapsedTime != 42 {
		t.Errorf("Expected elapsed 42, got %d", got.ElapsedTime)
	}
}

func TestTaskRepositoryDelete(t *testing.T) {
	repo, _, _ := setupDB(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, model.Task{ID: "x", Title: "x", Type: model.TypeThink, Duration: 5, Status: model.StatusTodo}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := repo.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of unknown id should not fail: %v", err)
	}
	tasks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected 0 tasks, got %d", len(tasks))
	}
}

func TestAccessKeyRepository(t *testing.T) {
	_, _, keys := setupDB(t)
	ctx := context.Background()

	ok, err := keys.Exists(ctx, "segredo")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("Expected key to be unknown before Ensure")
	}

	if err := keys.Ensure(ctx, "segredo"); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := keys.Ensure(ctx, "segredo"); err != nil {
		t.Fatalf("Second Ensure failed: %v", err)
	}

	ok, err = keys.Exists(ctx, "segredo")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("Expected key to exist")
	}
	if ok, _ := keys.Exists(ctx, ""); ok {
		t.Error("Expected empty key to be rejected")
	}
}

func TestUserSession(t *testing.T) {
	_, users, _ := setupDB(t)
	ctx := context.Background()

	session := users.Session(77)
	ok, err := session.IsAuthorized(ctx)
	if err != nil {
		t.Fatalf("IsAuthorized failed: %v", err)
	}
	if ok {
		t.Error("Expected unknown user to be unauthorized")
	}

	if err := session.SetAuthorized(ctx, true); err != nil {
		t.Fatalf("SetAuthorized failed: %v", err)
	}
	if _, err := users.UpsertFromTelegram(ctx, 77, "Ana", "", "ana"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if ok, _ := session.IsAuthorized(ctx); !ok {
		t.Error("Expected user to stay authorized after profile update")
	}

	list, err := users.ListAuthorized(ctx)
	if err != nil {
		t.Fatalf("ListAuthorized failed: %v", err)
	}
	if len(list) != 1 || list[0].TelegramID != 77 {
		t.Errorf("Expected one authorized user 77, got %+v", list)
	}

	if err := session.SetAuthorized(ctx, false); err != nil {
		t.Fatalf("SetAuthorized failed: %v", err)
	}
	if ok, _ := session.IsAuthorized(ctx); ok {
		t.Error("Expected user to be logged out")
	}
}
