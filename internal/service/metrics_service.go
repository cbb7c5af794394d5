package service

import (
	"math"

	"demand-planner/internal/model"
)

// TypeMetrics aggregates one task type. Minutes count DONE tasks only.
type TypeMetrics struct {
	Open         int
	Done         int
	SpentMinutes int
	AvgMinutes   int
}

// Metrics is the analytics summary of the collection.
type Metrics struct {
	TotalOpen    int
	TotalDone    int
	SpentMinutes int
	AvgMinutes   int
	ByType       map[model.TaskType]TypeMetrics
}

// MetricsService computes analytics over the store's current snapshot.
type MetricsService struct {
	store *TaskStore
}

func NewMetricsService(store *TaskStore) *MetricsService {
	return &MetricsService{store: store}
}

func (s *MetricsService) Summary() Metrics {
	return ComputeMetrics(s.store.List())
}

// ComputeMetrics summarizes tasks. Banked seconds are converted to minutes
// before rounding, per total.
func ComputeMetrics(tasks []model.Task) Metrics {
	m := Metrics{ByType: make(map[model.TaskType]TypeMetrics, len(model.Types))}
	var spent float64
	spentByType := make(map[model.TaskType]float64, len(model.Types))
	for _, t := range model.Types {
		m.ByType[t] = TypeMetrics{}
	}

	for _, task := range tasks {
		tm := m.ByType[task.Type]
		if task.Status == model.StatusDone {
			m.TotalDone++
			tm.Done++
			minutes := float64(task.ElapsedTime) / 60
			spent += minutes
			spentByType[task.Type] += minutes
		} else {
			m.TotalOpen++
			tm.Open++
		}
		m.ByType[task.Type] = tm
	}

	m.SpentMinutes = int(math.Round(spent))
	m.AvgMinutes = average(m.SpentMinutes, m.TotalDone)
	for t, tm := range m.ByType {
		tm.SpentMinutes = int(math.Round(spentByType[t]))
		tm.AvgMinutes = average(tm.SpentMinutes, tm.Done)
		m.ByType[t] = tm
	}
	return m
}

func average(total, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}
