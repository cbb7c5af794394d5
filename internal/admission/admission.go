// Package admission enforces per-type quotas of open tasks at creation time.
package admission

import (
	"fmt"

	"demand-planner/internal/model"
)

// Limits maps a task type to the maximum number of open tasks of that type.
type Limits map[model.TaskType]int

// DefaultLimits reads the quotas from the type table.
func DefaultLimits() Limits {
	limits := make(Limits, len(model.Types))
	for _, t := range model.Types {
		limits[t] = t.Info().Limit
	}
	return limits
}

// RejectedError reports that a type already has too many open tasks.
type RejectedError struct {
	Type  model.TaskType
	Count int
	Limit int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("Você já tem muitas demandas de %s abertas (%d). Finalize algumas para liberar espaço.", e.Type.Info().Tag, e.Count)
}

// Policy checks new tasks against the configured limits.
type Policy struct {
	limits Limits
}

// NewPolicy builds a policy. Types missing from limits use the defaults.
func NewPolicy(limits Limits) *Policy {
	merged := DefaultLimits()
	for t, limit := range limits {
		if t.Valid() && limit > 0 {
			merged[t] = limit
		}
	}
	return &Policy{limits: merged}
}

// Limit returns the quota for t.
func (p *Policy) Limit(t model.TaskType) int {
	return p.limits[t]
}

// Limits returns a copy of the effective quotas.
func (p *Policy) Limits() Limits {
	out := make(Limits, len(p.limits))
	for t, limit := range p.limits {
		out[t] = limit
	}
	return out
}

// CountOpen counts TODO tasks of type t.
func CountOpen(tasks []model.Task, t model.TaskType) int {
	count := 0
	for _, task := range tasks {
		if task.Type == t && task.Status == model.StatusTodo {
			count++
		}
	}
	return count
}

// Check returns a *RejectedError when adding one more task of type t would
// exceed its quota, nil otherwise.
func (p *Policy) Check(tasks []model.Task, t model.TaskType) error {
	count := CountOpen(tasks, t)
	limit := p.Limit(t)
	if count >= limit {
		return &RejectedError{Type: t, Count: count, Limit: limit}
	}
	return nil
}
