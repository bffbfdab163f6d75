package cli

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/recallbox/recallbox/internal/capability"
	"github.com/recallbox/recallbox/internal/store"
	"github.com/spf13/cobra"
)

// cardInput is a manually entered card awaiting validation.
type cardInput struct {
	Question string `validate:"required"`
	Answer   string `validate:"required"`
	Quote    string
	SourceID string
}

func init() {
	cardCmd := &cobra.Command{
		Use:   "card",
		Short: "Manage flashcards",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a card manually",
		Run:   runCardAdd,
	}
	addCmd.Flags().StringP("question", "q", "", "Question (front)")
	addCmd.Flags().StringP("answer", "a", "", "Answer (back)")
	addCmd.Flags().String("quote", "", "One-sentence source quote")
	addCmd.Flags().StringP("source", "s", "", "Owning source ID")

	generateCmd := &cobra.Command{
		Use:   "generate <source-id>",
		Short: "Generate cards from a source with the configured AI provider",
		Args:  cobra.ExactArgs(1),
		Run:   runCardGenerate,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		Run:   runCardList,
	}
	listCmd.Flags().StringP("source", "s", "", "Filter by source ID")
	listCmd.Flags().Bool("all", false, "Include archived cards")

	archiveCmd := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a card (removes it from review rotation)",
		Args:  cobra.ExactArgs(1),
		Run:   func(cmd *cobra.Command, args []string) { setActive(cmd, args[0], false) },
	}
	restoreCmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore an archived card",
		Args:  cobra.ExactArgs(1),
		Run:   func(cmd *cobra.Command, args []string) { setActive(cmd, args[0], true) },
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a card and its review history",
		Args:  cobra.ExactArgs(1),
		Run:   runCardRm,
	}

	cardCmd.AddCommand(addCmd, generateCmd, listCmd, archiveCmd, restoreCmd, rmCmd)
	RootCmd.AddCommand(cardCmd)
}

func runCardAdd(cmd *cobra.Command, args []string) {
	question, _ := cmd.Flags().GetString("question")
	answer, _ := cmd.Flags().GetString("answer")
	quote, _ := cmd.Flags().GetString("quote")
	sourceID, _ := cmd.Flags().GetString("source")

	in := cardInput{
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
		Quote:    strings.TrimSpace(quote),
		SourceID: sourceID,
	}
	if err := validator.New().Struct(in); err != nil {
		exitErr("card add", fmt.Errorf("question and answer are required"))
	}

	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	cards, err := s.CreateCards(cmd.Context(), []store.CreateCardParams{{
		SourceID:    in.SourceID,
		Question:    in.Question,
		Answer:      in.Answer,
		SourceQuote: in.Quote,
	}})
	if err != nil {
		exitErr("create card", err)
	}
	printJSON(cards[0])
}

func runCardGenerate(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	src, err := s.GetSource(cmd.Context(), args[0])
	if err != nil {
		exitErr("card generate", err)
	}
	content := src.ExtractedText
	if content == "" {
		content = src.RawContent
	}

	providerCfg := capability.ProviderConfig{
		Provider: cfg.AI.Provider,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
	}
	drafts, err := capability.GenerateCards(cmd.Context(), cardGen, providerCfg, content)
	if err != nil {
		if capability.IsMalformed(err) {
			exitErr("card generate", fmt.Errorf("provider output could not be parsed, try again or add cards manually: %w", err))
		}
		exitErr("card generate", fmt.Errorf("provider unavailable, add cards manually with 'card add': %w", err))
	}

	params := make([]store.CreateCardParams, 0, len(drafts))
	for _, d := range drafts {
		params = append(params, store.CreateCardParams{
			SourceID:    src.ID,
			Question:    d.Question,
			Answer:      d.Answer,
			SourceQuote: d.SourceQuote,
		})
	}
	cards, err := s.CreateCards(cmd.Context(), params)
	if err != nil {
		exitErr("create cards", err)
	}
	printJSON(cards)
}

func runCardList(cmd *cobra.Command, args []string) {
	sourceID, _ := cmd.Flags().GetString("source")
	all, _ := cmd.Flags().GetBool("all")

	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	cards, err := s.ListCards(cmd.Context(), store.ListCardsParams{
		SourceID:   sourceID,
		ActiveOnly: !all,
	})
	if err != nil {
		exitErr("list cards", err)
	}
	if formatFlag == "text" {
		for _, c := range cards {
			fmt.Printf("%s  due %s  ease %.2f  %s\n",
				c.ID, c.NextReview.Format("2006-01-02"), c.EaseFactor, truncate(c.Question, 50))
		}
		return
	}
	printJSON(cards)
}

func setActive(cmd *cobra.Command, id string, active bool) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	if err := s.SetCardActive(cmd.Context(), id, active); err != nil {
		exitErr("card", err)
	}
	fmt.Printf(`{"ok":true,"id":%q,"active":%v}`+"\n", id, active)
}

func runCardRm(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	if err := s.DeleteCard(cmd.Context(), args[0]); err != nil {
		exitErr("rm card", err)
	}
	fmt.Printf(`{"ok":true,"id":%q}`+"\n", args[0])
}
