package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"demand-planner/internal/tui"
)

var timerCmd = &cobra.Command{
	Use:   "timer [task-id]",
	Short: "Open the full-screen timer for a demand",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimer,
}

func runTimer(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), true, func(a *app) error {
		task, err := resolve(a, args[0])
		if err != nil {
			return err
		}
		m := tui.New(a.store, task.ID)
		if err := m.Run(); err != nil {
			return fmt.Errorf("run timer: %w", err)
		}
		if n, ok := m.Notification(); ok {
			fmt.Println(n.Message)
		}
		return nil
	})
}
