package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"demand-planner/internal/admission"
	"demand-planner/internal/model"
	"demand-planner/internal/planner"
	"demand-planner/internal/service"
	"demand-planner/internal/timer"
)

func printCounts(out io.Writer, counts planner.Counts, policy *admission.Policy) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TODAS\t%d\n", counts.All)
	for _, t := range model.Types {
		info := t.Info()
		fmt.Fprintf(w, "%s %s\t%d/%d\n", info.Icon, info.Tag, counts.ByType[t], policy.Limit(t))
	}
	w.Flush()
}

func printTasks(out io.Writer, tasks []model.Task, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIPO\tTÍTULO\tESTIMATIVA\tGASTO\tPESSOA\tPRAZO")
	for _, t := range tasks {
		spent := timer.Format(timer.Effective(t, now))
		if t.IsRunning {
			spent += " ▶"
		}
		deadline := "-"
		if d, ok := t.DeadlineTime(now.Location()); ok {
			deadline = d.Format("02/01 15:04")
		}
		person := t.Person
		if person == "" {
			person = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(t.ID), t.Type.Info().Tag, truncate(t.Title, 40), minutesLabel(t.Duration), spent, person, deadline)
	}
	w.Flush()
}

func printMetrics(out io.Writer, m service.Metrics) {
	fmt.Fprintf(out, "Abertas: %d  Concluídas: %d  Tempo total: %s  Média: %s\n\n",
		m.TotalOpen, m.TotalDone, minutesLabel(m.SpentMinutes), minutesLabel(m.AvgMinutes))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIPO\tABERTAS\tCONCLUÍDAS\tTEMPO\tMÉDIA")
	for _, t := range model.Types {
		tm := m.ByType[t]
		fmt.Fprintf(w, "%s %s\t%d\t%d\t%s\t%s\n",
			t.Info().Icon, t.Info().Tag, tm.Open, tm.Done, minutesLabel(tm.SpentMinutes), minutesLabel(tm.AvgMinutes))
	}
	w.Flush()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
