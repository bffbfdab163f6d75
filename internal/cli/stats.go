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
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Review statistics and insights",
	}

	weeklyCmd := &cobra.Command{
		Use:   "weekly",
		Short: "Weekly report over the trailing 7 days",
		Run:   runStatsWeekly,
	}

	streakCmd := &cobra.Command{
		Use:   "streak",
		Short: "Current consecutive-day streak",
		Run:   runStatsStreak,
	}

	topicsCmd := &cobra.Command{
		Use:   "topics",
		Short: "Topic tag distribution across sources",
		Run:   runStatsTopics,
	}

	correlationCmd := &cobra.Command{
		Use:   "correlation",
		Short: "Retention split by high/low energy days",
		Run:   runStatsCorrelation,
	}

	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Show database statistics",
		Run:   runStatsDB,
	}

	statsCmd.AddCommand(weeklyCmd, streakCmd, topicsCmd, correlationCmd, dbCmd)
	RootCmd.AddCommand(statsCmd)
}

// weeklyRange is the trailing 7 calendar days ending today.
func weeklyRange(now time.Time) (start, end time.Time) {
	end = model.StartOfDay(now)
	return end.AddDate(0, 0, -6), end
}

func buildWeekly(cmd *cobra.Command, s *store.SQLiteStore) stats.Weekly {
	start, end := weeklyRange(time.Now())

	logs, err := s.ListReviewLogs(cmd.Context(), store.ListReviewLogsParams{
		Since: start,
		Until: end.AddDate(0, 0, 1),
	})
	if err != nil {
		exitErr("load review logs", err)
	}
	statuses, err := s.ListDailyStatuses(cmd.Context())
	if err != nil {
		exitErr("load statuses", err)
	}
	return stats.GenerateWeekly(logs, statuses, start, end)
}

func runStatsWeekly(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	w := buildWeekly(cmd, s)

	// Viewing the report counts toward the engagement trigger.
	s.IncrCounter(cmd.Context(), store.CounterReportViews)

	printJSON(w)
}

func runStatsStreak(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	statuses, err := s.ListDailyStatuses(cmd.Context())
	if err != nil {
		exitErr("load statuses", err)
	}
	streak := stats.CurrentStreak(statuses, time.Now())
	fmt.Printf(`{"streak":%d}`+"\n", streak)
}

func runStatsTopics(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	sources, err := s.ListSources(cmd.Context())
	if err != nil {
		exitErr("load sources", err)
	}
	printJSON(stats.TopicDistribution(sources))
}

func runStatsCorrelation(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	logs, err := s.ListReviewLogs(cmd.Context(), store.ListReviewLogsParams{})
	if err != nil {
		exitErr("load review logs", err)
	}
	statuses, err := s.ListDailyStatuses(cmd.Context())
	if err != nil {
		exitErr("load statuses", err)
	}

	c := stats.EnergyRetentionCorrelation(logs, statuses)
	if !c.HasEnoughData && formatFlag == "text" {
		fmt.Println("not enough data yet: keep reviewing and recording your energy")
		return
	}
	printJSON(c)
}

func runStatsDB(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	st, err := s.Stats(cmd.Context(), cfg.DBPath)
	if err != nil {
		exitErr("stats", err)
	}
	printJSON(st)
}
