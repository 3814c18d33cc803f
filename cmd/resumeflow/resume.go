package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/resumeflow/errors"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <thread>",
	Short: "Continue a run paused at the review gate",
	Long: `Continues a paused run by thread ID.

Without --feedback the extracted qualifications are approved and drafting
begins. With --feedback the posting is re-read under your guidance and the
run pauses again for another review.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

var resumeFeedback string

func init() {
	resumeCmd.Flags().StringVar(&resumeFeedback, "feedback", "", "Correction for the extracted qualifications (empty approves them)")

	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	threadID := args[0]

	svc, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer svc.close()

	res, err := svc.studio.Resume(ctx, threadID, resumeFeedback)
	if err != nil {
		err = errors.WrapThreadError(err, threadID)
		if errors.IsThreadNotFound(err) {
			return err
		}
		return errors.WrapProviderError(err, svc.settings.Provider)
	}

	return printResult(os.Stdout, res)
}
