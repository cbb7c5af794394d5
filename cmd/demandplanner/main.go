package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "demandplanner",
	Short:         "Demand planner - capture, time and plan your demands",
	Long:          `demandplanner keeps a backlog of demands split by cognitive mode (think, respond, execute), times the work spent on each one and suggests what fits in the time you have. It runs as a Telegram bot or straight from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	dbPath     string
	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with limits and keywords (overrides CONFIG_FILE)")

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd)
	rootCmd.AddCommand(captureCmd, addCmd, listCmd, suggestCmd, toggleCmd, completeCmd, editCmd, deleteCmd, metricsCmd)
	rootCmd.AddCommand(timerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
