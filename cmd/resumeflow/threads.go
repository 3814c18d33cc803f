package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List paused workflow threads",
	Long: `Lists every thread with a checkpoint waiting at the review gate.

Each line shows the thread ID and a summary of the checkpointed state.
Continue a thread with 'resumeflow resume <thread>'.`,
	RunE: runListThreads,
}

func init() {
	rootCmd.AddCommand(threadsCmd)
}

func runListThreads(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	saver, closeSaver, err := openSaver(ctx)
	if err != nil {
		return err
	}
	defer closeSaver()

	threads, err := saver.List(ctx)
	if err != nil {
		return err
	}
	if len(threads) == 0 {
		fmt.Fprintln(os.Stdout, "No paused threads.")
		return nil
	}

	for _, threadID := range threads {
		cp, err := saver.Get(ctx, threadID)
		if err != nil {
			fmt.Fprintf(os.Stdout, "%-26s (unreadable: %v)\n", threadID, err)
			continue
		}
		fmt.Fprintf(os.Stdout, "%-26s %s\n", threadID, cp.State.Summary())
	}

	fmt.Fprintf(os.Stdout, "\nTotal: %d paused thread(s)\n", len(threads))
	return nil
}
