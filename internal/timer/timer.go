// Package timer implements elapsed-time accounting for tasks: banked seconds
// from closed sessions plus the live delta of the open session.
package timer

import (
	"fmt"
	"time"

	"demand-planner/internal/model"
)

// Delta returns the whole seconds between startMs and now. Negative values
// caused by a backward clock jump are clamped to zero.
func Delta(startMs int64, now time.Time) int64 {
	delta := (now.UnixMilli() - startMs) / 1000
	if delta < 0 {
		return 0
	}
	return delta
}

// Effective is the single source of truth for "time spent so far". It is
// recomputed from the two stored fields on every call and never cached.
func Effective(t model.Task, now time.Time) int64 {
	if !t.IsRunning || t.LastStartedAt == nil {
		return t.ElapsedTime
	}
	return t.ElapsedTime + Delta(*t.LastStartedAt, now)
}

// Toggle pauses a running task (banking the session) or resumes a stopped one.
func Toggle(t model.Task, now time.Time) model.Task {
	t = t.Clone()
	if t.IsRunning {
		return pause(t, now)
	}
	t.IsRunning = true
	t.LastStartedAt = model.Int64Ptr(now.UnixMilli())
	return t
}

// Complete banks any open session and marks the task done. Completing a task
// that never ran leaves its elapsed time untouched.
func Complete(t model.Task, now time.Time) model.Task {
	t = pause(t.Clone(), now)
	t.Status = model.StatusDone
	return t
}

func pause(t model.Task, now time.Time) model.Task {
	if t.IsRunning && t.LastStartedAt != nil {
		t.ElapsedTime += Delta(*t.LastStartedAt, now)
	}
	t.IsRunning = false
	t.LastStartedAt = nil
	return t
}

// Format renders seconds as MM:SS. Minutes are not wrapped into hours.
func Format(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Progress is the share of the estimate already spent, in percent, capped
// at 100.
func Progress(t model.Task, now time.Time) float64 {
	if t.Duration <= 0 {
		return 0
	}
	pct := float64(Effective(t, now)) / float64(t.Duration*60) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
