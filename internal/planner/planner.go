// Package planner orders tasks by priority and picks the ones that fit a
// time box.
package planner

import (
	"sort"
	"strings"

	"demand-planner/internal/model"
)

// Presets are the time boxes offered by the UIs, in minutes.
var Presets = []int{15, 30, 45, 60, 90}

// Less orders tasks with a deadline first (earliest first), then the rest by
// most recent creation.
func Less(a, b model.Task) bool {
	switch {
	case a.Deadline != nil && b.Deadline != nil:
		return *a.Deadline < *b.Deadline
	case a.Deadline != nil:
		return true
	case b.Deadline != nil:
		return false
	default:
		return a.CreatedAt > b.CreatedAt
	}
}

// Sort orders tasks in place. Ties keep their current order.
func Sort(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}

// Suggest returns the open tasks whose estimate fits in budget minutes,
// highest priority first. The input is not modified; an empty result is a
// normal outcome.
func Suggest(tasks []model.Task, budget int) []model.Task {
	out := make([]model.Task, 0)
	if budget <= 0 {
		return out
	}
	for _, task := range tasks {
		if task.Status == model.StatusTodo && task.Duration <= budget {
			out = append(out, task.Clone())
		}
	}
	Sort(out)
	return out
}

// Filter narrows the backlog view. A zero Filter matches every open task.
type Filter struct {
	Type  model.TaskType
	Query string
}

// Backlog returns the open tasks matching f, highest priority first.
func Backlog(tasks []model.Task, f Filter) []model.Task {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status != model.StatusTodo {
			continue
		}
		if f.Type != "" && task.Type != f.Type {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(task.Title), query) {
			continue
		}
		out = append(out, task.Clone())
	}
	Sort(out)
	return out
}

// Counts holds the number of open tasks per type.
type Counts struct {
	All    int
	ByType map[model.TaskType]int
}

// Count tallies open tasks.
func Count(tasks []model.Task) Counts {
	c := Counts{ByType: make(map[model.TaskType]int, len(model.Types))}
	for _, t := range model.Types {
		c.ByType[t] = 0
	}
	for _, task := range tasks {
		if task.Status != model.StatusTodo {
			continue
		}
		c.All++
		c.ByType[task.Type]++
	}
	return c
}
