package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/recallbox/recallbox/internal/model"
	"github.com/recallbox/recallbox/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	sourceCmd := &cobra.Command{
		Use:   "source",
		Short: "Manage content sources",
	}

	addCmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Ingest a source",
		Long:  "Ingest raw text (positional arg or stdin) or, with --url, fetch and extract a page.",
		Run:   runSourceAdd,
	}
	addCmd.Flags().String("url", "", "URL to extract instead of raw text")
	addCmd.Flags().StringP("tags", "t", "", "Comma-separated topic tags")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sources",
		Run:   runSourceList,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a source and all its cards",
		Args:  cobra.ExactArgs(1),
		Run:   runSourceRm,
	}

	sourceCmd.AddCommand(addCmd, listCmd, rmCmd)
	RootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) {
	url, _ := cmd.Flags().GetString("url")
	tagsStr, _ := cmd.Flags().GetString("tags")
	tags := splitTags(tagsStr)

	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	p := store.CreateSourceParams{Tags: tags}
	if url != "" {
		extracted, err := extractor.Extract(cmd.Context(), url)
		if err != nil {
			exitErr("extract url", err)
		}
		p.Type = model.SourceURL
		p.RawContent = url
		p.ExtractedText = extracted.Body
		p.Title = extracted.Title
		p.Domain = extracted.Domain
	} else {
		content := readContent(args)
		if strings.TrimSpace(content) == "" {
			exitErr("source add", fmt.Errorf("content is required (positional arg, stdin, or --url)"))
		}
		p.Type = model.SourceText
		p.RawContent = content
		p.ExtractedText = content
	}

	src, err := s.CreateSource(cmd.Context(), p)
	if err != nil {
		exitErr("create source", err)
	}
	printJSON(src)
}

func runSourceList(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	sources, err := s.ListSources(cmd.Context())
	if err != nil {
		exitErr("list sources", err)
	}
	if formatFlag == "text" {
		for _, src := range sources {
			title := src.Title
			if title == "" {
				title = truncate(src.RawContent, 60)
			}
			fmt.Printf("%s  [%s]  %s\n", src.ID, src.Type, title)
		}
		return
	}
	printJSON(sources)
}

func runSourceRm(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	s := openStore(cfg)
	defer s.Close()

	if err := s.DeleteSource(cmd.Context(), args[0]); err != nil {
		exitErr("rm source", err)
	}
	fmt.Printf(`{"ok":true,"id":%q}`+"\n", args[0])
}

func splitTags(tagsStr string) []string {
	var tags []string
	for _, t := range strings.Split(tagsStr, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func readContent(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		return string(b)
	}
	return ""
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
