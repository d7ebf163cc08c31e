package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/journal"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit   int
		outcome string
		since   time.Duration
		format  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs from the journal",
		Long: `List recent check runs, newest first. Requires journal.enabled = true.

Examples:
  ccp history --limit 5
  ccp history --outcome syntax --since 24h
  ccp history show <run-id>
  ccp history stats
  ccp history prune --older-than 168h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := journal.Filter{Limit: limit}
			if outcome != "" {
				o, ok := frontend.ParseOutcome(outcome)
				if !ok {
					return mdwerror.New(fmt.Sprintf("unknown outcome: %s", outcome)).
						WithCode(mdwerror.CodeInvalidInput)
				}
				filter.Outcome = o.String()
			}
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}

			store, err := a.requireJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return writeEntries(cmd.OutOrStdout(), entries, format)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs (0 for all)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "only runs with this outcome: ok, lexical, syntax, name, rejected")
	cmd.Flags().DurationVar(&since, "since", 0, "only runs newer than this, e.g. 24h")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml")

	cmd.AddCommand(newHistoryShowCmd(a), newHistoryStatsCmd(a), newHistoryPruneCmd(a))
	return cmd
}

func newHistoryShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run including its source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.requireJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			e, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:      %s\n", e.ID)
			fmt.Fprintf(out, "Time:     %s\n", e.Timestamp.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Outcome:  %s\n", e.Outcome)
			fmt.Fprintf(out, "Result:   %s\n", e.Message)
			fmt.Fprintf(out, "Tokens:   %d\n", e.TokenCount)
			fmt.Fprintf(out, "Symbols:  %d\n", e.Symbols)
			fmt.Fprintf(out, "Duration: %s\n", e.Duration)
			fmt.Fprintf(out, "SHA-256:  %s\n", e.SourceHash)
			fmt.Fprintf(out, "\n%s\n", e.Source)
			return nil
		},
	}
}

func newHistoryStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count runs per outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.requireJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			outcomes := make([]string, 0, len(stats))
			var total int64
			for o, n := range stats {
				outcomes = append(outcomes, o)
				total += n
			}
			sort.Strings(outcomes)

			out := cmd.OutOrStdout()
			for _, o := range outcomes {
				fmt.Fprintf(out, "%-9s %d\n", o, stats[o])
			}
			fmt.Fprintf(out, "%-9s %d\n", "total", total)
			return nil
		},
	}
}

func newHistoryPruneCmd(a *app) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("older-than") {
				olderThan = a.cfg.Journal.Retention.Duration
			}
			store, err := a.requireJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Prune(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s) older than %s\n", n, olderThan)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "age limit (default: journal.retention)")
	return cmd
}

func writeEntries(w io.Writer, entries []*journal.Entry, format string) error {
	if entries == nil {
		entries = []*journal.Entry{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
	default:
		return mdwerror.New(fmt.Sprintf("unknown history format: %s", format)).
			WithCode(mdwerror.CodeInvalidInput)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "RUN", "OUTCOME", "TOKENS", "RESULT")
	for _, e := range entries {
		t.Row(
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.ID,
			e.Outcome,
			strconv.Itoa(e.TokenCount),
			e.Message,
		)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
