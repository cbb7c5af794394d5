package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"demand-planner/internal/admission"
	"demand-planner/internal/capture"
	"demand-planner/internal/model"
	"demand-planner/internal/timer"
)

// TaskRemote is the persistence collaborator behind the store.
type TaskRemote interface {
	List(ctx context.Context) ([]model.Task, error)
	Insert(ctx context.Context, tasks ...model.Task) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// Notifier receives every notification the store emits.
type Notifier func(model.Notification)

const (
	msgCreated    = "Demanda criada com sucesso"
	msgEmptyTitle = "Informe um título para a demanda"
)

// CreateOptions controls side effects of Create.
type CreateOptions struct {
	// Notify emits an error notification when admission rejects the task.
	Notify bool
}

// CreateResult is returned synchronously by Create.
type CreateResult struct {
	Success   bool
	Message   string
	Task      *model.Task
	Rejection *admission.RejectedError
}

// TaskStore owns the in-memory task collection. Mutations apply locally under
// the lock and are then handed to the outbox for persistence.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  []model.Task
	remote TaskRemote
	outbox *Outbox
	policy *admission.Policy
	parser *capture.Parser
	now    func() time.Time
	newID  func() string
	logger *log.Logger

	notifyMu     sync.Mutex
	notification *model.Notification
	notifier     Notifier
}

type StoreOption func(*TaskStore)

func WithClock(now func() time.Time) StoreOption {
	return func(s *TaskStore) { s.now = now }
}

func WithLogger(logger *log.Logger) StoreOption {
	return func(s *TaskStore) { s.logger = logger }
}

func WithPolicy(policy *admission.Policy) StoreOption {
	return func(s *TaskStore) { s.policy = policy }
}

func WithParser(parser *capture.Parser) StoreOption {
	return func(s *TaskStore) { s.parser = parser }
}

func WithNotifier(fn Notifier) StoreOption {
	return func(s *TaskStore) { s.notifier = fn }
}

func withIDs(newID func() string) StoreOption {
	return func(s *TaskStore) { s.newID = newID }
}

func NewTaskStore(remote TaskRemote, opts ...StoreOption) *TaskStore {
	s := &TaskStore{
		remote: remote,
		policy: admission.NewPolicy(nil),
		parser: capture.NewParser(capture.DefaultKeywords()),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.outbox = NewOutbox(s.logger)
	return s
}

// Load fetches the collection from the remote. A failed read leaves the store
// empty; an empty remote is seeded with the demonstration tasks.
func (s *TaskStore) Load(ctx context.Context) error {
	tasks, err := s.remote.List(ctx)
	if err != nil {
		s.logger.Printf("[error] load tasks: %v", err)
		s.replace(nil)
		return err
	}
	if len(tasks) > 0 {
		s.replace(tasks)
		s.logger.Printf("[info] loaded %d tasks", len(tasks))
		return nil
	}

	s.logger.Printf("[info] database empty, seeding initial tasks")
	seed := seedTasks(s.now(), s.newID)
	if err := s.remote.Insert(ctx, seed...); err != nil {
		s.logger.Printf("[error] seed tasks: %v", err)
		s.replace(nil)
		return err
	}
	s.replace(seed)
	return nil
}

func (s *TaskStore) replace(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		s.tasks = append(s.tasks, t.Clone())
	}
}

// List returns a snapshot in collection order (newest first).
func (s *TaskStore) List() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the task with id.
func (s *TaskStore) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// Resolve finds a task by full id or by a unique prefix of at least four
// characters. A leading '#' is ignored.
func (s *TaskStore) Resolve(ref string) (model.Task, bool) {
	ref = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ref), "#"))
	if ref == "" {
		return model.Task{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	match := -1
	for i := range s.tasks {
		id := strings.ToLower(s.tasks[i].ID)
		if id == ref {
			return s.tasks[i].Clone(), true
		}
		if len(ref) >= 4 && strings.HasPrefix(id, ref) {
			if match >= 0 {
				return model.Task{}, false
			}
			match = i
		}
	}
	if match < 0 {
		return model.Task{}, false
	}
	return s.tasks[match].Clone(), true
}

// Policy exposes the admission limits in force.
func (s *TaskStore) Policy() *admission.Policy {
	return s.policy
}

func (s *TaskStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Create admits a new task. The quota check and the insertion happen under
// the same lock.
func (s *TaskStore) Create(draft model.DraftTask, opts CreateOptions) CreateResult {
	draft = draft.Normalize()
	if draft.Title == "" {
		return CreateResult{Message: msgEmptyTitle}
	}

	s.mu.Lock()
	if err := s.policy.Check(s.tasks, draft.Type); err != nil {
		s.mu.Unlock()
		var rejected *admission.RejectedError
		errors.As(err, &rejected)
		if opts.Notify {
			s.notify(model.Notification{
				Kind:    model.NotifyError,
				Message: err.Error(),
				Action: &model.NotificationAction{
					Label:      "Ver demandas de " + draft.Type.Info().Tag,
					View:       model.ViewBacklog,
					FilterType: draft.Type,
				},
			})
		}
		return CreateResult{Message: err.Error(), Rejection: rejected}
	}

	task := model.Task{
		ID:          s.newID(),
		Title:       draft.Title,
		Type:        draft.Type,
		Duration:    draft.Duration,
		Person:      draft.Person,
		Description: draft.Description,
		Status:      model.StatusTodo,
		CreatedAt:   s.now().UnixMilli(),
	}
	if draft.Deadline != nil {
		task.Deadline = model.Int64Ptr(*draft.Deadline)
	}
	s.tasks = append([]model.Task{task}, s.tasks...)
	s.mu.Unlock()

	insert := task.Clone()
	s.submit("insert", task.ID, func(ctx context.Context) error {
		return s.remote.Insert(ctx, insert)
	})

	out := task.Clone()
	return CreateResult{Success: true, Message: msgCreated, Task: &out}
}

// Capture parses a quick-capture line and creates the task without emitting
// notifications. Blank input fails without touching the collection.
func (s *TaskStore) Capture(line string) CreateResult {
	if strings.TrimSpace(line) == "" {
		return CreateResult{Message: msgEmptyTitle}
	}
	return s.Create(s.parser.Parse(line), CreateOptions{})
}

// Update merges patch into the task. A patch that sets DONE completes the
// task through the timer so an open session is banked.
func (s *TaskStore) Update(id string, patch model.Patch) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	task := s.tasks[i]
	patch.Apply(&task)
	cols := patch.Columns()
	if patch.Completes() && task.IsOpen() {
		task = timer.Complete(task, s.now())
		for k, v := range model.CompletionColumns(task) {
			cols[k] = v
		}
	} else {
		delete(cols, "status")
	}
	s.tasks[i] = task
	s.mu.Unlock()

	if len(cols) > 0 {
		s.submit("update", id, func(ctx context.Context) error {
			return s.remote.Update(ctx, id, cols)
		})
	}
	return true
}

// Delete removes the task permanently.
func (s *TaskStore) Delete(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.mu.Unlock()

	s.submit("delete", id, func(ctx context.Context) error {
		return s.remote.Delete(ctx, id)
	})
	return true
}

// ToggleTimer pauses or resumes the task. Done tasks are left alone.
func (s *TaskStore) ToggleTimer(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	if !s.tasks[i].IsOpen() {
		s.mu.Unlock()
		return true
	}
	task := timer.Toggle(s.tasks[i], s.now())
	s.tasks[i] = task
	s.mu.Unlock()

	cols := model.TimerColumns(task)
	s.submit("toggle", id, func(ctx context.Context) error {
		return s.remote.Update(ctx, id, cols)
	})
	return true
}

// Complete banks any open session, marks the task done and emits a success
// notification.
func (s *TaskStore) Complete(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	task := timer.Complete(s.tasks[i], s.now())
	s.tasks[i] = task
	s.mu.Unlock()

	cols := model.CompletionColumns(task)
	s.submit("complete", id, func(ctx context.Context) error {
		return s.remote.Update(ctx, id, cols)
	})

	title := task.Title
	if title == "" {
		title = "Tarefa"
	}
	s.notify(model.Notification{
		Kind:    model.NotifySuccess,
		Message: "Demanda concluída: " + title + " 🎉",
	})
	return true
}

func (s *TaskStore) submit(op, id string, run func(ctx context.Context) error) {
	if err := s.outbox.Submit(op, id, run); err != nil {
		s.logger.Printf("[error] %s task %s: %v", op, id, err)
	}
}

func (s *TaskStore) notify(n model.Notification) {
	s.notifyMu.Lock()
	s.notification = &n
	hook := s.notifier
	s.notifyMu.Unlock()
	if hook != nil {
		hook(n)
	}
}

// Notification returns the latest notification without clearing it.
func (s *TaskStore) Notification() (model.Notification, bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if s.notification == nil {
		return model.Notification{}, false
	}
	return *s.notification, true
}

// TakeNotification returns and clears the latest notification.
func (s *TaskStore) TakeNotification() (model.Notification, bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if s.notification == nil {
		return model.Notification{}, false
	}
	n := *s.notification
	s.notification = nil
	return n, true
}

func (s *TaskStore) ClearNotification() {
	s.notifyMu.Lock()
	s.notification = nil
	s.notifyMu.Unlock()
}

// Writes exposes the outbox counters.
func (s *TaskStore) Writes() OutboxStats {
	return s.outbox.Stats()
}

// Flush waits for queued writes without closing the store.
func (s *TaskStore) Flush() {
	s.outbox.Wait()
}

// Close waits for queued writes and stops accepting new ones.
func (s *TaskStore) Close(ctx context.Context) error {
	return s.outbox.Close(ctx)
}
