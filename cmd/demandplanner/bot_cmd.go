package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"demand-planner/internal/bot"
	"demand-planner/internal/service"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.cfg.RequireToken(); err != nil {
		return err
	}

	telegramBot, err := bot.New(a.cfg.TelegramToken, a.store, a.auth, a.users, a.metrics, a.reminder, &a.cfg)
	if err != nil {
		return err
	}

	report := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Printf("[error] report: %v", err)
		}
	}

	scheduler := service.NewSchedulerService(time.Local, a.logger)
	if a.cfg.ReportInterval > 0 {
		if _, err := scheduler.ScheduleInterval("report", a.cfg.ReportInterval, report); err != nil {
			return err
		}
	}
	if a.cfg.ReportAt != "" {
		if _, err := scheduler.ScheduleDaily("daily report", a.cfg.ReportAt, report); err != nil {
			return err
		}
	}
	if a.cfg.TimerRefresh > 0 {
		if _, err := scheduler.ScheduleInterval("timer refresh", a.cfg.TimerRefresh, telegramBot.RefreshTimers); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	a.logger.Println("[info] demand planner bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Println("[info] shutdown complete")
	return nil
}
