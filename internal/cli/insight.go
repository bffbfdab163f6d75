package cli

import (
	"github.com/recallbox/recallbox/internal/capability"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Generate AI insights from the weekly report",
		Run:   runInsight,
	}
	RootCmd.AddCommand(cmd)
}

func runInsight(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	w := buildWeekly(cmd, s)

	providerCfg := capability.ProviderConfig{
		Provider: cfg.AI.Provider,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
	}
	insights, err := insightGen.GenerateInsights(cmd.Context(), providerCfg, w)
	if err != nil {
		exitErr("insight", err)
	}
	printJSON(insights)
}
