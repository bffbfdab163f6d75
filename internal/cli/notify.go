package cli

import (
	"time"

	"github.com/recallbox/recallbox/internal/model"
	"github.com/recallbox/recallbox/internal/scheduler"
	"github.com/recallbox/recallbox/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Schedule the daily review reminder",
		Long:  "Counts the cards due today and hands the count to the notification scheduler at the configured hour.",
		Run:   runNotify,
	}
	RootCmd.AddCommand(cmd)
}

func runNotify(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	all, err := s.ListCards(cmd.Context(), store.ListCardsParams{ActiveOnly: true})
	if err != nil {
		exitErr("load cards", err)
	}
	pending := len(scheduler.SelectTodayCards(all, time.Now(), scheduler.Policy{
		MaxDaily: cfg.Review.MaxDaily,
		MinDaily: cfg.Review.MinDaily,
	}))

	at := model.StartOfDay(time.Now()).Add(time.Duration(cfg.NotifyHour) * time.Hour)
	if !at.After(time.Now()) {
		at = at.AddDate(0, 0, 1)
	}
	notifier.ScheduleDaily(at, pending)
}
