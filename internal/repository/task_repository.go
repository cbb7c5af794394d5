package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"demand-planner/internal/model"
)

// TaskRepository is the persistence collaborator for tasks. Column names are
// the snake_case forms produced by model.Patch and model.TimerColumns.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns every task, newest first.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Insert stores one or more new tasks in a single statement.
func (r *TaskRepository) Insert(ctx context.Context, tasks ...model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&tasks).Error; err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Update writes the given columns. A nil value writes NULL.
func (r *TaskRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	return nil
}

// Delete removes a task permanently.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// FindByID returns gorm.ErrRecordNotFound (wrapped) when id is unknown.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return &task, nil
}
