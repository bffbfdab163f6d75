package cli

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/recallbox/recallbox/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Record or inspect daily energy/mood",
	}

	setCmd := &cobra.Command{
		Use:   "set <energy>",
		Short: "Record today's energy level (0-10)",
		Args:  cobra.ExactArgs(1),
		Run:   runStatusSet,
	}
	setCmd.Flags().StringP("keyword", "k", "", "One-word mood")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List daily status records",
		Run:   runStatusList,
	}

	statusCmd.AddCommand(setCmd, listCmd)
	RootCmd.AddCommand(statusCmd)
}

func runStatusSet(cmd *cobra.Command, args []string) {
	var energy float64
	if _, err := fmt.Sscanf(args[0], "%g", &energy); err != nil {
		exitErr("status set", fmt.Errorf("energy must be a number: %q", args[0]))
	}
	if err := validator.New().Var(energy, "gte=0,lte=10"); err != nil {
		exitErr("status set", fmt.Errorf("energy must be between 0 and 10"))
	}
	keyword, _ := cmd.Flags().GetString("keyword")

	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	// Keep any counters a finished session already wrote for today.
	existing, err := s.ListDailyStatuses(cmd.Context())
	if err != nil {
		exitErr("status set", err)
	}
	st := model.DailyStatus{Date: time.Now(), EnergyLevel: energy, Keyword: keyword}
	for _, prev := range existing {
		if model.SameDay(prev.Date, st.Date) {
			st.CardsReviewed = prev.CardsReviewed
			st.CardsRemembered = prev.CardsRemembered
			break
		}
	}

	saved, err := s.UpsertDailyStatus(cmd.Context(), st)
	if err != nil {
		exitErr("status set", err)
	}
	printJSON(saved)
}

func runStatusList(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	statuses, err := s.ListDailyStatuses(cmd.Context())
	if err != nil {
		exitErr("status list", err)
	}
	if formatFlag == "text" {
		for _, st := range statuses {
			fmt.Printf("%s  energy %.1f  %d/%d remembered  %s\n",
				st.Date.Format("2006-01-02"), st.EnergyLevel,
				st.CardsRemembered, st.CardsReviewed, st.Keyword)
		}
		return
	}
	printJSON(statuses)
}
