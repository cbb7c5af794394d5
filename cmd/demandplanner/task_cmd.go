package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"demand-planner/internal/capture"
	"demand-planner/internal/model"
	"demand-planner/internal/planner"
	"demand-planner/internal/service"
	"demand-planner/internal/timer"
)

var captureCmd = &cobra.Command{
	Use:   "capture [text]",
	Short: "Quick-capture a demand, e.g. \"Responder cliente, Ana, 15min\"",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCapture,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a demand field by field",
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List open demands in priority order",
	RunE:  runList,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [minutes]",
	Short: "Show the open demands that fit in a time box",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle [task-id]",
	Short: "Start or pause the timer of a demand",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var completeCmd = &cobra.Command{
	Use:   "complete [task-id]",
	Short: "Mark a demand as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Change fields of a demand",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a demand",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show time spent per type",
	RunE:  runMetrics,
}

var (
	taskTitle    string
	taskType     string
	taskDuration int
	taskPerson   string
	taskDeadline string
	taskDesc     string
	taskDone     bool
	listQuery    string
	deleteYes    bool
)

func init() {
	addCmd.Flags().StringVar(&taskTitle, "title", "", "Title (required)")
	addCmd.Flags().StringVar(&taskType, "type", "", "think, respond or execute (pensar, responder, executar)")
	addCmd.Flags().IntVar(&taskDuration, "duration", model.DefaultDuration, "Estimate in minutes")
	addCmd.Flags().StringVar(&taskPerson, "person", "", "Person involved")
	addCmd.Flags().StringVar(&taskDeadline, "deadline", "", "Deadline: 2006-01-02 15:04, 02/01/2006 or +2h")
	addCmd.Flags().StringVar(&taskDesc, "desc", "", "Description")
	addCmd.MarkFlagRequired("title")

	listCmd.Flags().StringVar(&taskType, "type", "", "Only this type")
	listCmd.Flags().StringVar(&listQuery, "query", "", "Case-insensitive title search")

	editCmd.Flags().StringVar(&taskTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&taskType, "type", "", "New type")
	editCmd.Flags().IntVar(&taskDuration, "duration", 0, "New estimate in minutes")
	editCmd.Flags().StringVar(&taskPerson, "person", "", "New person (empty clears)")
	editCmd.Flags().StringVar(&taskDeadline, "deadline", "", "New deadline (\"-\" clears)")
	editCmd.Flags().StringVar(&taskDesc, "desc", "", "New description (empty clears)")
	editCmd.Flags().BoolVar(&taskDone, "done", false, "Mark as done")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")
}

func runCapture(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), true, func(a *app) error {
		return report(a.store.Capture(strings.Join(args, " ")))
	})
}

func runAdd(cmd *cobra.Command, args []string) error {
	draft := model.DraftTask{
		Title:       taskTitle,
		Duration:    taskDuration,
		Person:      taskPerson,
		Description: taskDesc,
	}
	if taskType != "" {
		t, err := model.ParseTaskType(taskType)
		if err != nil {
			return err
		}
		draft.Type = t
	}
	if taskDeadline != "" {
		deadline, err := capture.ParseDeadline(taskDeadline, time.Now())
		if err != nil {
			return err
		}
		draft.Deadline = &deadline
	}
	return withApp(cmd.Context(), true, func(a *app) error {
		return report(a.store.Create(draft, service.CreateOptions{}))
	})
}

// report prints the outcome of a create call.
func report(res service.CreateResult) error {
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Printf("%s: %s\n", res.Message, describe(*res.Task))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	filter := planner.Filter{Query: listQuery}
	if taskType != "" {
		t, err := model.ParseTaskType(taskType)
		if err != nil {
			return err
		}
		filter.Type = t
	}
	return withApp(cmd.Context(), true, func(a *app) error {
		tasks := a.store.List()
		printCounts(os.Stdout, planner.Count(tasks), a.store.Policy())
		backlog := planner.Backlog(tasks, filter)
		if len(backlog) == 0 {
			fmt.Println("Nenhuma demanda encontrada")
			return nil
		}
		fmt.Println()
		printTasks(os.Stdout, backlog, time.Now())
		return nil
	})
}

func runSuggest(cmd *cobra.Command, args []string) error {
	minutes, ok := capture.ParseMinutes(args[0])
	if !ok {
		return fmt.Errorf("invalid time box %q: use minutes, e.g. 30", args[0])
	}
	return withApp(cmd.Context(), true, func(a *app) error {
		picks := planner.Suggest(a.store.List(), minutes)
		if len(picks) == 0 {
			fmt.Printf("Nada cabe em %d min\n", minutes)
			return nil
		}
		printTasks(os.Stdout, picks, time.Now())
		return nil
	})
}

func runToggle(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), true, func(a *app) error {
		task, err := resolve(a, args[0])
		if err != nil {
			return err
		}
		a.store.ToggleTimer(task.ID)
		task, _ = a.store.Get(task.ID)
		state := "pausada"
		if task.IsRunning {
			state = "em andamento"
		}
		fmt.Printf("%s %s (%s)\n", describe(task), state, timer.Format(timer.Effective(task, time.Now())))
		return nil
	})
}

func runComplete(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), true, func(a *app) error {
		task, err := resolve(a, args[0])
		if err != nil {
			return err
		}
		if !task.IsOpen() {
			fmt.Printf("%s já está concluída\n", describe(task))
			return nil
		}
		a.store.Complete(task.ID)
		if n, ok := a.store.TakeNotification(); ok {
			fmt.Println(n.Message)
		}
		return nil
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	patch, err := patchFromFlags(cmd)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return errors.New("nothing to change: pass at least one flag")
	}
	return withApp(cmd.Context(), true, func(a *app) error {
		task, err := resolve(a, args[0])
		if err != nil {
			return err
		}
		a.store.Update(task.ID, patch)
		task, _ = a.store.Get(task.ID)
		fmt.Printf("Demanda atualizada: %s\n", describe(task))
		return nil
	})
}

// patchFromFlags turns the flags the user actually set into a patch.
func patchFromFlags(cmd *cobra.Command) (model.Patch, error) {
	var patch model.Patch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &taskTitle
	}
	if flags.Changed("type") {
		t, err := model.ParseTaskType(taskType)
		if err != nil {
			return patch, err
		}
		patch.Type = &t
	}
	if flags.Changed("duration") {
		if taskDuration <= 0 {
			return patch, fmt.Errorf("duration must be positive, got %d", taskDuration)
		}
		patch.Duration = &taskDuration
	}
	if flags.Changed("person") {
		patch.Person = &taskPerson
	}
	if flags.Changed("deadline") {
		if strings.TrimSpace(taskDeadline) == "-" {
			patch.ClearDeadline = true
		} else {
			deadline, err := capture.ParseDeadline(taskDeadline, time.Now())
			if err != nil {
				return patch, err
			}
			patch.Deadline = &deadline
		}
	}
	if flags.Changed("desc") {
		patch.Description = &taskDesc
	}
	if flags.Changed("done") && taskDone {
		done := model.StatusDone
		patch.Status = &done
	}
	return patch, nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), true, func(a *app) error {
		task, err := resolve(a, args[0])
		if err != nil {
			return err
		}
		if !deleteYes && !confirm(fmt.Sprintf("Excluir %s?", describe(task))) {
			fmt.Println("Cancelado")
			return nil
		}
		a.store.Delete(task.ID)
		fmt.Printf("Demanda excluída: %s\n", task.Title)
		return nil
	})
}

func runMetrics(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), true, func(a *app) error {
		printMetrics(os.Stdout, a.metrics.Summary())
		return nil
	})
}

func resolve(a *app, ref string) (model.Task, error) {
	task, ok := a.store.Resolve(ref)
	if !ok {
		return model.Task{}, fmt.Errorf("demand %q not found (use the id shown by list)", ref)
	}
	return task, nil
}

func confirm(question string) bool {
	fmt.Printf("%s [s/N] ", question)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "s" || answer == "sim" || answer == "y" || answer == "yes"
}

func describe(t model.Task) string {
	return fmt.Sprintf("%s %s [%s]", t.Type.Info().Icon, t.Title, shortID(t.ID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func minutesLabel(n int) string {
	return strconv.Itoa(n) + " min"
}
