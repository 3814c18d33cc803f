package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	resumeflow "github.com/randalmurphal/resumeflow"
	rfcontext "github.com/randalmurphal/resumeflow/context"
	"github.com/randalmurphal/resumeflow/errors"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a resume draft from a job posting and your work history",
	Long: `Reads the job posting and your work history, extracts the qualifications
the posting asks for, and pauses so you can review them before any drafting
happens.

The command prints the extracted qualifications and a thread ID. Continue
with 'resumeflow resume <thread>' once you have reviewed them.`,
	RunE: runDraft,
}

var (
	runJobPath    string
	runResumePath string
	runFeedback   string
	runThread     string
)

func init() {
	runCmd.Flags().StringVarP(&runJobPath, "job", "j", "", "Path to the job posting text file (required)")
	runCmd.Flags().StringVarP(&runResumePath, "resume", "r", "", "Path to your work history text file (required)")
	runCmd.Flags().StringVar(&runFeedback, "feedback", "", "Guidance for the first extraction pass")
	runCmd.Flags().StringVar(&runThread, "thread", "", "Pin the workflow thread ID (generated if empty)")

	runCmd.MarkFlagRequired("job")
	runCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(runCmd)
}

func runDraft(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	jobPost, err := rfcontext.ReadDocumentFile(runJobPath)
	if err != nil {
		return fmt.Errorf("read job posting: %w", err)
	}
	resumeInput, err := rfcontext.ReadDocumentFile(runResumePath)
	if err != nil {
		return fmt.Errorf("read work history: %w", err)
	}

	svc, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer svc.close()

	in := resumeflow.Input{
		JobPost:       jobPost,
		ResumeInput:   resumeInput,
		HumanFeedback: runFeedback,
	}

	var opts []resumeflow.InvokeOption
	if runThread != "" {
		opts = append(opts, resumeflow.WithThread(runThread))
	}

	res, err := svc.studio.Invoke(ctx, in, opts...)
	if err != nil {
		return errors.WrapProviderError(err, svc.settings.Provider)
	}

	return printResult(os.Stdout, res)
}
