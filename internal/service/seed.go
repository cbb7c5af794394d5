package service

import (
	"time"

	"demand-planner/internal/model"
)

// seedTasks is the demonstration dataset written to an empty database.
// createdAt steps back one second per entry to keep a stable order.
func seedTasks(now time.Time, newID func() string) []model.Task {
	ms := now.UnixMilli()
	in2h := model.Int64Ptr(ms + 2*time.Hour.Milliseconds())
	in3h := model.Int64Ptr(ms + 3*time.Hour.Milliseconds())

	tasks := []model.Task{
		{Title: "Analisar proposta de parceria", Type: model.TypeThink, Duration: 60, Deadline: in2h},
		{Title: "Responder email do João sobre projeto", Type: model.TypeRespond, Duration: 15, Person: "João", Deadline: in2h},
		{Title: "Criar apresentação para cliente", Type: model.TypeExecute, Duration: 90, ElapsedTime: 1200, Deadline: in2h},
		{Title: "Estruturar novo serviço", Type: model.TypeThink, Duration: 45, Deadline: in2h},
		{Title: "Estruturar Agente Comportamental", Type: model.TypeThink, Duration: 30, Person: "Michele", Deadline: in2h},
		{Title: "Backdrop Feijoada", Type: model.TypeExecute, Duration: 60, Person: "Liza", Deadline: in3h},
		{Title: "Estruturar Lançamento", Type: model.TypeExecute, Duration: 90, Person: "Roberta", Deadline: in3h},
		{Title: "Email de Follow-up", Type: model.TypeRespond, Duration: 5, ElapsedTime: 300, Status: model.StatusDone},
	}
	for i := range tasks {
		tasks[i].ID = newID()
		tasks[i].CreatedAt = ms - int64(i)*1000
		if tasks[i].Status == "" {
			tasks[i].Status = model.StatusTodo
		}
		if tasks[i].Deadline != nil {
			tasks[i].Deadline = model.Int64Ptr(*tasks[i].Deadline)
		}
	}
	return tasks
}
