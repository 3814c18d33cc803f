package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/resumeflow/errors"
	"github.com/randalmurphal/resumeflow/transcript"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `Lists recorded runs with their thread, status, and token usage.

Every model exchange is recorded as a transcript turn; inspect a single run
with 'resumeflow runs show <run-id>'.`,
	RunE: runListRuns,
}

var (
	runsStatus string
	runsThread string
	runsLimit  int
)

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var (
	showFull     bool
	showMarkdown bool
	showJSON     bool
)

var runsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search recorded transcripts for text",
	Long: `Searches the prompts, inputs, and responses of every recorded run.

Each match prints the run, turn, node, and the matching line.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearchRuns,
}

var (
	searchCaseSensitive bool
	searchNode          string
	searchLimit         int
)

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recorded runs",
	RunE:  runRunStats,
}

func init() {
	// Shared with the stats subcommand.
	runsCmd.PersistentFlags().StringVar(&runsStatus, "status", "", "Filter by status: completed, paused, or failed")
	runsCmd.PersistentFlags().StringVar(&runsThread, "thread", "", "Filter by workflow thread")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 0, "Show at most this many runs (0 shows all)")

	runsShowCmd.Flags().BoolVar(&showFull, "full", false, "Print every model response in full")
	runsShowCmd.Flags().BoolVar(&showMarkdown, "markdown", false, "Export as markdown")
	runsShowCmd.Flags().BoolVar(&showJSON, "json", false, "Export as JSON")

	runsSearchCmd.Flags().BoolVar(&searchCaseSensitive, "case-sensitive", false, "Match case exactly")
	runsSearchCmd.Flags().StringVar(&searchNode, "node", "", "Only search turns from this node")
	runsSearchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Stop after this many matches (0 finds all)")

	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsSearchCmd)
	runsCmd.AddCommand(runsStatsCmd)
	rootCmd.AddCommand(runsCmd)
}

func runListRuns(cmd *cobra.Command, _ []string) error {
	store, err := openTranscripts()
	if err != nil {
		return err
	}

	metas, err := store.List(transcript.ListFilter{
		Status: transcript.RunStatus(runsStatus),
		Thread: runsThread,
		Limit:  runsLimit,
	})
	if err != nil {
		return err
	}

	return transcript.NewViewer().FormatMetaList(os.Stdout, metas)
}

func runShowRun(cmd *cobra.Command, args []string) error {
	store, err := openTranscripts()
	if err != nil {
		return err
	}

	t, err := store.Load(args[0])
	if err != nil {
		return errors.WrapRunError(err, args[0])
	}

	viewer := transcript.NewViewer()
	switch {
	case showJSON:
		return viewer.ExportJSON(os.Stdout, t)
	case showMarkdown:
		return viewer.ExportMarkdown(os.Stdout, t)
	case showFull:
		return viewer.ViewFull(os.Stdout, t)
	default:
		return viewer.ViewSummary(os.Stdout, t)
	}
}

func runSearchRuns(cmd *cobra.Command, args []string) error {
	store, err := openTranscripts()
	if err != nil {
		return err
	}

	results, err := transcript.NewSearcher(store).Search(args[0], transcript.SearchOptions{
		CaseSensitive: searchCaseSensitive,
		Node:          searchNode,
		MaxResults:    searchLimit,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No matches.")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%s turn %d  %s/%s\n    %s\n", r.RunID, r.TurnID, r.Node, r.Field, r.Snippet)
	}
	fmt.Fprintf(os.Stdout, "\n%d match(es)\n", len(results))
	return nil
}

func runRunStats(cmd *cobra.Command, _ []string) error {
	store, err := openTranscripts()
	if err != nil {
		return err
	}

	stats, err := transcript.NewSearcher(store).Stats(transcript.ListFilter{
		Status: transcript.RunStatus(runsStatus),
		Thread: runsThread,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Runs:    %d total (%d completed, %d paused, %d failed)\n",
		stats.TotalRuns, stats.CompletedRuns, stats.PausedRuns, stats.FailedRuns)
	fmt.Fprintf(os.Stdout, "Turns:   %d\n", stats.TotalTurns)
	fmt.Fprintf(os.Stdout, "Tokens:  %d in / %d out (avg %d / %d per run)\n",
		stats.TotalTokensIn, stats.TotalTokensOut, stats.AvgTokensIn, stats.AvgTokensOut)
	return nil
}
