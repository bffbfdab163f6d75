package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/recallbox/recallbox/internal/model"
	"github.com/recallbox/recallbox/internal/scheduler"
	"github.com/recallbox/recallbox/internal/session"
	"github.com/recallbox/recallbox/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run today's review session",
		Long:  "Interactive session over today's due cards. Enter reveals, r/f records remembered/forgot, u undoes the last card within 5 seconds, q quits.",
		Run:   runReview,
	}
	cmd.Flags().Int("max-daily", 8, "Maximum cards per session")
	cmd.Flags().Int("min-daily", 3, "Top up with new cards to at least this many")

	RootCmd.AddCommand(cmd)
}

func runReview(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	ctx := cmd.Context()
	all, err := s.ListCards(ctx, store.ListCardsParams{ActiveOnly: true})
	if err != nil {
		exitErr("load cards", err)
	}

	policy := scheduler.Policy{MaxDaily: cfg.Review.MaxDaily, MinDaily: cfg.Review.MinDaily}
	selected := scheduler.SelectTodayCards(all, time.Now(), policy)

	sess := session.New(s, selected, session.Options{})
	defer sess.Close()

	in := bufio.NewScanner(os.Stdin)
	for {
		v := sess.View()
		switch v.State {
		case session.StateEmpty:
			fmt.Println("No cards due today. Add some with 'source add' or 'card add'.")
			return

		case session.StatePresenting:
			card := sess.Current()
			if !v.Flipped {
				fmt.Printf("\n[%d/%d] %s\n", v.Index+1, v.Total, card.Question)
				fmt.Print("(enter = reveal, u = undo last, q = quit) > ")
				if !in.Scan() {
					return
				}
				switch strings.TrimSpace(in.Text()) {
				case "u":
					if !sess.UndoLastCard(ctx) {
						fmt.Println("nothing to undo")
					}
				case "q":
					return
				default:
					sess.Reveal()
				}
				continue
			}

			fmt.Printf("\n%s\n", card.Answer)
			if card.SourceQuote != "" {
				fmt.Printf("  from source: %q\n", card.SourceQuote)
			}
			fmt.Print("(r = remembered, f = forgot, u = undo last, q = quit) > ")
			if !in.Scan() {
				return
			}
			switch strings.TrimSpace(in.Text()) {
			case "r":
				sess.RecordOutcome(ctx, model.OutcomeRemembered)
			case "f":
				sess.RecordOutcome(ctx, model.OutcomeForgot)
			case "u":
				if !sess.UndoLastCard(ctx) {
					fmt.Println("nothing to undo")
				}
			case "q":
				return
			}

		case session.StateAwaitingStatus:
			reviewed, total := sess.Progress()
			fmt.Printf("\nSession done: %d/%d reviewed, %.0f%% retained.\n",
				reviewed, total, sess.RetentionRate()*100)
			energy, keyword, ok := promptStatus(in)
			if !ok {
				sess.SkipStatus()
				continue
			}
			sess.SaveStatus(ctx, energy, keyword)
			if sess.View().State == session.StateCompleted {
				fmt.Print("Status saved. (u + enter within 5s to undo) > ")
				if in.Scan() && strings.TrimSpace(in.Text()) == "u" {
					if sess.UndoStatus(ctx) {
						continue
					}
					fmt.Println("undo window expired")
				}
			}

		case session.StateCompleted:
			fmt.Println("See you tomorrow.")
			return

		default:
			return
		}
	}
}

// promptStatus asks for today's energy level and an optional keyword.
// ok is false when the user skips.
func promptStatus(in *bufio.Scanner) (energy float64, keyword string, ok bool) {
	validate := validator.New()
	for {
		fmt.Print("Energy today, 0-10 (enter to skip) > ")
		if !in.Scan() {
			return 0, "", false
		}
		text := strings.TrimSpace(in.Text())
		if text == "" {
			return 0, "", false
		}
		e, err := strconv.ParseFloat(text, 64)
		if err != nil || validate.Var(e, "gte=0,lte=10") != nil {
			fmt.Println("please enter a number between 0 and 10")
			continue
		}
		fmt.Print("One-word mood (optional) > ")
		if !in.Scan() {
			return e, "", true
		}
		return e, strings.TrimSpace(in.Text()), true
	}
}
