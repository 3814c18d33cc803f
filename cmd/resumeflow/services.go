package main

import (
	"context"
	"fmt"
	"io"

	resumeflow "github.com/randalmurphal/resumeflow"
	"github.com/randalmurphal/resumeflow/checkpoint"
	"github.com/randalmurphal/resumeflow/config"
	"github.com/randalmurphal/resumeflow/errors"
	"github.com/randalmurphal/resumeflow/graph"
	"github.com/randalmurphal/resumeflow/llm"
	"github.com/randalmurphal/resumeflow/notify"
	"github.com/randalmurphal/resumeflow/transcript"
)

// services bundles the studio with the stores the commands read directly.
// close releases the checkpoint backend; commands defer it.
type services struct {
	studio      *resumeflow.Studio
	saver       graph.Saver[resumeflow.ResumeState]
	transcripts *transcript.FileStore
	settings    config.Settings
	close       func()
}

// flagOverrides maps the shared provider flags onto config keys. Empty
// values are skipped by the resolver.
func flagOverrides() map[string]string {
	return map[string]string{
		config.KeyProvider: flagProvider,
		config.KeyModel:    flagModel,
	}
}

// resolveSettings merges config files, environment, and flag overrides.
func resolveSettings() (config.Settings, error) {
	resolved := config.NewResolver().ResolveWithFlags(flagOverrides())
	settings, err := resolved.Settings()
	if err != nil {
		return config.Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return config.Settings{}, errors.WrapProviderError(err, settings.Provider)
	}
	return settings, nil
}

// buildServices assembles a studio backed by the real provider client and
// file-based checkpoint and transcript stores.
func buildServices(ctx context.Context) (*services, error) {
	settings, err := resolveSettings()
	if err != nil {
		return nil, err
	}

	// Fail before any network call when the key is missing.
	if settings.APIKey() == "" {
		return nil, errors.NewMissingAPIKeyError(settings.APIKeyVar())
	}

	client, err := llm.NewClient(ctx, settings.LLM())
	if err != nil {
		return nil, errors.WrapProviderError(err, settings.Provider)
	}

	saver, closeSaver, err := openCheckpoints(ctx, settings)
	if err != nil {
		return nil, err
	}

	store, err := transcript.NewFileStore(settings.TranscriptDir)
	if err != nil {
		closeSaver()
		return nil, fmt.Errorf("open transcript dir: %w", err)
	}

	var notifier notify.Notifier = notify.NewLogNotifier(nil)
	if settings.NotifyWebhook != "" {
		notifier = notify.NewMultiNotifier(notifier,
			notify.NewWebhookNotifier(settings.NotifyWebhook, nil))
	}

	studio, err := resumeflow.New(
		resumeflow.WithClient(client),
		resumeflow.WithSaver(saver),
		resumeflow.WithTranscripts(store),
		resumeflow.WithNotifier(notifier),
		resumeflow.WithRevisionLimit(settings.RevisionLimit),
	)
	if err != nil {
		closeSaver()
		return nil, err
	}

	return &services{
		studio:      studio,
		saver:       saver,
		transcripts: store,
		settings:    settings,
		close:       closeSaver,
	}, nil
}

// openCheckpoints picks the checkpoint backend: Postgres when a database
// URL is configured, JSON files under the checkpoint dir otherwise.
func openCheckpoints(ctx context.Context, settings config.Settings) (graph.Saver[resumeflow.ResumeState], func(), error) {
	if settings.CheckpointDB != "" {
		saver, err := checkpoint.NewPostgresSaver[resumeflow.ResumeState](ctx, settings.CheckpointDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect checkpoint database: %w", err)
		}
		if err := saver.Init(ctx); err != nil {
			saver.Close()
			return nil, nil, fmt.Errorf("init checkpoint database: %w", err)
		}
		return saver, saver.Close, nil
	}

	saver, err := checkpoint.NewFileSaver[resumeflow.ResumeState](settings.CheckpointDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open checkpoint dir: %w", err)
	}
	return saver, func() {}, nil
}

// openTranscripts opens the transcript store without touching the provider,
// so listing and showing runs never needs an API key.
func openTranscripts() (*transcript.FileStore, error) {
	resolved := config.NewResolver().ResolveWithFlags(flagOverrides())
	return transcript.NewFileStore(resolved.Get(config.KeyTranscriptDir))
}

// openSaver opens the checkpoint store the same way, honoring the database
// backend so thread listings match what runs use.
func openSaver(ctx context.Context) (graph.Saver[resumeflow.ResumeState], func(), error) {
	resolved := config.NewResolver().ResolveWithFlags(flagOverrides())
	return openCheckpoints(ctx, config.Settings{
		CheckpointDir: resolved.Get(config.KeyCheckpointDir),
		CheckpointDB:  resolved.Get(config.KeyCheckpointDB),
	})
}

// printResult renders either the paused review gate or the finished draft.
func printResult(w io.Writer, res *graph.Result[resumeflow.ResumeState]) error {
	if res.Interrupted {
		printQualifications(w, res.State.Qualifications)
		fmt.Fprintf(w, "\nPaused for review before %s.\n", res.Next)
		fmt.Fprintf(w, "Thread: %s\n\n", res.Thread)
		fmt.Fprintf(w, "Approve and draft:  resumeflow resume %s\n", res.Thread)
		fmt.Fprintf(w, "Request a re-read:  resumeflow resume %s --feedback \"...\"\n", res.Thread)
		return nil
	}

	fmt.Fprintf(w, "Final draft after %d editorial round(s):\n\n", res.State.Iteration)
	fmt.Fprintln(w, res.State.ResumeDraft)
	return nil
}

// printQualifications lists what the extraction pass found in the posting.
func printQualifications(w io.Writer, q resumeflow.Qualifications) {
	fmt.Fprintln(w, "Extracted qualifications:")
	if q.Empty() {
		fmt.Fprintln(w, "  (none found)")
		return
	}
	if len(q.Required) > 0 {
		fmt.Fprintln(w, "  Required:")
		for _, item := range q.Required {
			fmt.Fprintf(w, "    - %s\n", item)
		}
	}
	if len(q.Preferred) > 0 {
		fmt.Fprintln(w, "  Preferred:")
		for _, item := range q.Preferred {
			fmt.Fprintf(w, "    - %s\n", item)
		}
	}
}
