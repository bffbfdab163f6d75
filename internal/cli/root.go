// Package cli implements the recallbox CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/recallbox/recallbox/internal/capability"
	"github.com/recallbox/recallbox/internal/config"
	"github.com/recallbox/recallbox/internal/store"
	"github.com/spf13/cobra"
)

var (
	dbFlag     string
	configFlag string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "recallbox",
	Short: "Spaced-repetition flashcards with energy-aware insights",
	Long:  "Feed in articles or notes, review AI-distilled flashcards daily, and see how your energy tracks your retention. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbFlag, "db", "d", "", "Database path (default: $RECALLBOX_DB_PATH or ~/.recallbox/recallbox.db)")
	RootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file (default: ~/.recallbox/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

// External capabilities. The real transports live outside this module;
// anything not wired in stays politely unconfigured.
var (
	cardGen    capability.CardGenerator    = unconfigured{}
	insightGen capability.InsightGenerator = unconfigured{}
	extractor  capability.Extractor        = unconfigured{}
	notifier   capability.Notifier         = stdoutNotifier{}
)

func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".recallbox", "config.yaml")
}

func loadConfig(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load(configPath(), cmd.Flags())
	if err != nil {
		exitErr("config", err)
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	return cfg
}

func openStore(cfg *config.Config) *store.SQLiteStore {
	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		exitErr("open store", err)
	}
	return s
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
