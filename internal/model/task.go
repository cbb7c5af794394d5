package model

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a task. TODO -> DONE is one-way.
type Status string

const (
	StatusTodo Status = "TODO"
	StatusDone Status = "DONE"
)

// Task represents a single demand. Timestamps are epoch milliseconds so that
// they match the wire format of the remote store.
type Task struct {
	ID            string   `gorm:"primaryKey;size:36" json:"id"`
	Title         string   `gorm:"not null" json:"title"`
	Type          TaskType `gorm:"index;not null" json:"type"`
	Duration      int      `gorm:"not null" json:"duration"`
	ElapsedTime   int64    `gorm:"not null;default:0" json:"elapsedTime"`
	LastStartedAt *int64   `json:"lastStartedAt,omitempty"`
	IsRunning     bool     `gorm:"not null;default:false" json:"isRunning"`
	Person        string   `json:"person,omitempty"`
	Deadline      *int64   `json:"deadline,omitempty"`
	Description   string   `json:"description,omitempty"`
	Status        Status   `gorm:"index;not null;default:TODO" json:"status"`
	CreatedAt     int64    `gorm:"index;not null;autoCreateTime:false" json:"createdAt"`
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	out := t
	if t.LastStartedAt != nil {
		v := *t.LastStartedAt
		out.LastStartedAt = &v
	}
	if t.Deadline != nil {
		v := *t.Deadline
		out.Deadline = &v
	}
	return out
}

// IsOpen reports whether the task still counts against the backlog.
func (t Task) IsOpen() bool {
	return t.Status != StatusDone
}

// HasDeadline reports whether a deadline is set.
func (t Task) HasDeadline() bool {
	return t.Deadline != nil
}

// DeadlineTime converts the deadline to a time.Time in loc.
func (t Task) DeadlineTime(loc *time.Location) (time.Time, bool) {
	if t.Deadline == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*t.Deadline).In(loc), true
}

// Millis converts a time to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Int64Ptr is a small helper for optional timestamp fields.
func Int64Ptr(v int64) *int64 {
	return &v
}

// DraftTask is the caller-supplied part of a new task.
type DraftTask struct {
	Title       string
	Type        TaskType
	Duration    int
	Person      string
	Deadline    *int64
	Description string
}

// DefaultDuration is used when a draft carries no usable estimate.
const DefaultDuration = 30

// Normalize trims text fields and fills defaults for missing values.
func (d DraftTask) Normalize() DraftTask {
	d.Title = strings.TrimSpace(d.Title)
	d.Person = strings.TrimSpace(d.Person)
	d.Description = strings.TrimSpace(d.Description)
	if !d.Type.Valid() {
		d.Type = TypeExecute
	}
	if d.Duration <= 0 {
		d.Duration = DefaultDuration
	}
	return d
}

// Patch is a partial update of the user-editable fields. Nil fields are left
// untouched. ClearDeadline removes the deadline and wins over Deadline.
// Status is not merged by Apply: completion goes through the timer so the
// open session gets banked.
type Patch struct {
	Title         *string
	Type          *TaskType
	Duration      *int
	Person        *string
	Deadline      *int64
	ClearDeadline bool
	Description   *string
	Status        *Status
}

// clean drops values that would break task invariants.
func (p Patch) clean() Patch {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		p.Title = nil
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}
	if p.Type != nil && !p.Type.Valid() {
		p.Type = nil
	}
	if p.Duration != nil && *p.Duration <= 0 {
		p.Duration = nil
	}
	if p.ClearDeadline {
		p.Deadline = nil
	}
	if p.Status != nil && *p.Status != StatusDone {
		p.Status = nil
	}
	return p
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	p = p.clean()
	return p.Title == nil && p.Type == nil && p.Duration == nil && p.Person == nil &&
		p.Deadline == nil && !p.ClearDeadline && p.Description == nil && p.Status == nil
}

// Completes reports whether the patch asks for the task to be marked done.
func (p Patch) Completes() bool {
	p = p.clean()
	return p.Status != nil
}

// Apply merges the patch into t.
func (p Patch) Apply(t *Task) {
	p = p.clean()
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.Person != nil {
		t.Person = strings.TrimSpace(*p.Person)
	}
	if p.ClearDeadline {
		t.Deadline = nil
	} else if p.Deadline != nil {
		t.Deadline = Int64Ptr(*p.Deadline)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
}

// Columns maps the patch to storage column names. A cleared deadline is an
// explicit nil so the remote writes NULL.
func (p Patch) Columns() map[string]interface{} {
	p = p.clean()
	cols := make(map[string]interface{})
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Type != nil {
		cols["type"] = string(*p.Type)
	}
	if p.Duration != nil {
		cols["duration"] = *p.Duration
	}
	if p.Person != nil {
		cols["person"] = strings.TrimSpace(*p.Person)
	}
	if p.ClearDeadline {
		cols["deadline"] = nil
	} else if p.Deadline != nil {
		cols["deadline"] = *p.Deadline
	}
	if p.Description != nil {
		cols["description"] = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	return cols
}

// TimerColumns maps the timer fields of t. last_started_at is always present
// and is nil when no session is open.
func TimerColumns(t Task) map[string]interface{} {
	cols := map[string]interface{}{
		"is_running":      t.IsRunning,
		"elapsed_time":    t.ElapsedTime,
		"last_started_at": nil,
	}
	if t.LastStartedAt != nil {
		cols["last_started_at"] = *t.LastStartedAt
	}
	return cols
}

// CompletionColumns is TimerColumns plus the status column.
func CompletionColumns(t Task) map[string]interface{} {
	cols := TimerColumns(t)
	cols["status"] = string(t.Status)
	return cols
}
