package cli

import (
	"fmt"
	"time"

	"github.com/recallbox/recallbox/internal/model"
	"github.com/recallbox/recallbox/internal/stats"
	"github.com/recallbox/recallbox/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	promptCmd := &cobra.Command{
		Use:   "prompt",
		Short: "Engagement prompt decisions and history",
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Decide whether a subscription prompt should be shown",
		Run:   runPromptCheck,
	}

	logCmd := &cobra.Command{
		Use:   "log <action>",
		Short: "Record the user's response to a shown prompt",
		Long:  "Record a prompt interaction. Action is one of: tapped, dismissed, notInterested.",
		Args:  cobra.ExactArgs(1),
		Run:   runPromptLog,
	}
	logCmd.Flags().String("type", string(model.PromptSubscription), "Prompt type: subscription or notification")

	promptCmd.AddCommand(checkCmd, logCmd)
	RootCmd.AddCommand(promptCmd)
}

func runPromptCheck(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	ctx := cmd.Context()
	statuses, err := s.ListDailyStatuses(ctx)
	if err != nil {
		exitErr("load statuses", err)
	}
	totalCards, err := s.CountCards(ctx)
	if err != nil {
		exitErr("count cards", err)
	}
	reportViews, err := s.GetCounter(ctx, store.CounterReportViews)
	if err != nil {
		exitErr("report views", err)
	}
	lastPrompt, err := s.LastPromptTime(ctx, model.PromptSubscription)
	if err != nil {
		exitErr("last prompt", err)
	}

	trigger := stats.CheckSubscriptionTrigger(statuses, totalCards, reportViews, lastPrompt, time.Now())
	printJSON(trigger)
}

func runPromptLog(cmd *cobra.Command, args []string) {
	typ, _ := cmd.Flags().GetString("type")

	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	l, err := s.AppendPromptLog(cmd.Context(), model.PromptType(typ), model.PromptAction(args[0]), time.Now())
	if err != nil {
		exitErr("prompt log", err)
	}
	fmt.Printf(`{"ok":true,"id":%q}`+"\n", l.ID)
}
