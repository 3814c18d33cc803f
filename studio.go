package resumeflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	nanoid "github.com/matoous/go-nanoid/v2"

	rfctx "github.com/randalmurphal/resumeflow/context"
	"github.com/randalmurphal/resumeflow/graph"
	"github.com/randalmurphal/resumeflow/llm"
	"github.com/randalmurphal/resumeflow/notify"
	"github.com/randalmurphal/resumeflow/prompt"
	"github.com/randalmurphal/resumeflow/transcript"
)

// =============================================================================
// Graph Definitions
// =============================================================================

// BuildExtraction wires the single-node qualification extraction graph.
// It is compiled standalone and embedded into the main pipeline.
func BuildExtraction() *graph.Graph[QualificationState] {
	return graph.New[QualificationState]().
		AddNode(NodeExtractQualifications, ExtractQualificationsNode).
		AddEdge(NodeExtractQualifications, graph.END).
		SetEntry(NodeExtractQualifications)
}

// BuildPipeline wires the main drafting pipeline around a compiled
// extraction sub-graph. The gate is an interruption point, so the caller
// must attach a checkpointer before compiling.
func BuildPipeline(extraction *graph.Runnable[QualificationState], revisionLimit int) *graph.Graph[ResumeState] {
	return graph.New[ResumeState]().
		AddNode(NodeExtractQualifications, graph.Embed(extraction, extractionInput, applyExtraction)).
		AddNode(NodeHumanFeedback, HumanFeedbackNode).
		AddNode(NodeDraftResume, DraftResumeNode).
		AddNode(NodeEditorAPI, EditorAPINode).
		AddNode(NodeEditorCritique, EditorCritiqueNode).
		AddNode(NodeReviseResume, ReviseResumeNode).
		AddNode(NodeWriteFinalDraft, WriteFinalDraftNode).
		SetEntry(NodeExtractQualifications).
		AddEdge(NodeExtractQualifications, NodeHumanFeedback).
		AddConditionalEdge(NodeHumanFeedback, RouteAfterFeedback,
			NodeExtractQualifications, NodeDraftResume).
		AddFanOut(NodeDraftResume, SendToEditors, NodeReviseResume,
			NodeEditorAPI, NodeEditorCritique).
		AddEdge(NodeEditorAPI, NodeReviseResume).
		AddEdge(NodeEditorCritique, NodeReviseResume).
		AddConditionalEdge(NodeReviseResume, ShouldContinue(revisionLimit),
			NodeDraftResume, NodeWriteFinalDraft).
		AddEdge(NodeWriteFinalDraft, graph.END).
		WithMerger(MergeBranch).
		InterruptBefore(NodeHumanFeedback)
}

// extractionInput projects the pipeline state into the sub-graph.
func extractionInput(s ResumeState) QualificationState {
	return QualificationState{
		RunID:         s.RunID,
		JobPost:       s.JobPost,
		HumanFeedback: s.HumanFeedback,
	}
}

// applyExtraction folds the sub-graph result back into the pipeline state.
func applyExtraction(s ResumeState, q QualificationState) ResumeState {
	s.Qualifications = q.Qualifications
	return s
}

// =============================================================================
// Studio Facade
// =============================================================================

// Input is the caller-supplied material for one invocation.
type Input struct {
	JobPost     string `validate:"required"`
	ResumeInput string `validate:"required"`

	// HumanFeedback seeds reviewer guidance for the first extraction
	// pass. The run still pauses at the gate for review.
	HumanFeedback string
}

// Studio compiles the drafting pipeline once and drives its runs.
// A single Studio may serve many threads concurrently.
type Studio struct {
	client        llm.Client
	saver         graph.Saver[ResumeState]
	notifier      notify.Notifier
	transcripts   transcript.Manager
	prompts       *prompt.Loader
	revisionLimit int

	validate *validator.Validate
	pipeline *graph.Runnable[ResumeState]
}

// Option configures a Studio.
type Option func(*Studio)

// WithClient sets the LLM client. Required.
func WithClient(c llm.Client) Option {
	return func(s *Studio) { s.client = c }
}

// WithSaver sets the checkpoint saver. Defaults to an in-memory saver,
// which does not survive the process; use the checkpoint package's savers
// for durable threads.
func WithSaver(sv graph.Saver[ResumeState]) Option {
	return func(s *Studio) { s.saver = sv }
}

// WithNotifier attaches a notifier for run and node lifecycle events.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Studio) { s.notifier = n }
}

// WithTranscripts attaches a transcript manager; every gateway call is
// recorded as a turn.
func WithTranscripts(m transcript.Manager) Option {
	return func(s *Studio) { s.transcripts = m }
}

// WithPrompts sets the prompt loader. Defaults to a loader rooted at the
// working directory.
func WithPrompts(l *prompt.Loader) Option {
	return func(s *Studio) { s.prompts = l }
}

// WithRevisionLimit sets how many draft/edit/revise rounds run before
// finalization. Defaults to DefaultRevisionLimit.
func WithRevisionLimit(n int) Option {
	return func(s *Studio) { s.revisionLimit = n }
}

// New builds and compiles the extraction and pipeline graphs.
func New(opts ...Option) (*Studio, error) {
	s := &Studio{revisionLimit: DefaultRevisionLimit}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		return nil, ErrClientRequired
	}
	if s.revisionLimit < 1 {
		return nil, fmt.Errorf("revision limit must be at least 1, got %d", s.revisionLimit)
	}
	if s.saver == nil {
		s.saver = graph.NewMemorySaver[ResumeState]()
	}
	if s.prompts == nil {
		s.prompts = prompt.NewLoader(".")
	}
	s.validate = validator.New()

	extraction, err := BuildExtraction().
		WithNotifier(s.notifier).
		Compile()
	if err != nil {
		return nil, fmt.Errorf("compile extraction graph: %w", err)
	}

	pipeline, err := BuildPipeline(extraction, s.revisionLimit).
		WithCheckpointer(s.saver).
		WithNotifier(s.notifier).
		Compile()
	if err != nil {
		return nil, fmt.Errorf("compile pipeline graph: %w", err)
	}
	s.pipeline = pipeline

	return s, nil
}

// =============================================================================
// Invocation
// =============================================================================

type invokeOptions struct {
	thread string
}

// InvokeOption configures a single invocation.
type InvokeOption func(*invokeOptions)

// WithThread pins the workflow thread ID for an invocation. Without it a
// fresh ID is generated and returned on the result.
func WithThread(id string) InvokeOption {
	return func(o *invokeOptions) { o.thread = id }
}

// Invoke validates the input and starts a new workflow thread. It returns
// a paused handle when execution reaches the feedback gate, or the final
// result once the pipeline completes.
func (s *Studio) Invoke(ctx context.Context, in Input, opts ...InvokeOption) (*graph.Result[ResumeState], error) {
	var cfg invokeOptions
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := s.validate.Struct(in); err != nil {
		return nil, inputError(err)
	}

	thread := cfg.thread
	if thread == "" {
		id, err := nanoid.New()
		if err != nil {
			return nil, fmt.Errorf("generate thread id: %w", err)
		}
		thread = "thr_" + id
	}

	state := NewResumeState(in.JobPost, in.ResumeInput).
		WithHumanFeedback(in.HumanFeedback).
		WithRunID(transcript.NewRunID())

	s.startRun(state.RunID, thread)
	res, err := s.pipeline.Invoke(s.inject(ctx), state, graph.WithThread(thread))
	s.endRun(state.RunID, res, err)
	return res, err
}

// Resume continues a paused thread, patching the supplied feedback into
// the checkpointed state first. Pass FeedbackApproved (or "") to accept
// the extracted qualifications and move on to drafting.
func (s *Studio) Resume(ctx context.Context, threadID, feedback string) (*graph.Result[ResumeState], error) {
	// The run ID rides in the checkpointed state; the transcript run must
	// reopen before any node records a turn.
	cp, err := s.saver.Get(ctx, threadID)
	if err != nil {
		return nil, &graph.CheckpointError{Op: "load", Thread: threadID, Err: err}
	}
	s.resumeRun(cp.State.RunID)

	res, err := s.pipeline.Resume(s.inject(ctx), threadID, func(state ResumeState) ResumeState {
		return state.WithHumanFeedback(feedback)
	})
	s.endRun(cp.State.RunID, res, err)
	return res, err
}

// inject seeds the context with the studio's services for the nodes.
func (s *Studio) inject(ctx context.Context) context.Context {
	services := &rfctx.Services{
		LLM:         s.client,
		Transcripts: s.transcripts,
		Prompts:     s.prompts,
		Notifier:    s.notifier,
	}
	return services.InjectAll(ctx)
}

// =============================================================================
// Transcript Lifecycle
// =============================================================================
// Transcript problems are logged and swallowed; recording never blocks the
// workflow itself.

func (s *Studio) startRun(runID, thread string) {
	if s.transcripts == nil {
		return
	}
	err := s.transcripts.StartRun(runID, transcript.RunMetadata{
		Thread:   thread,
		Workflow: WorkflowName,
	})
	if err != nil {
		slog.Warn("transcript start failed", "run", runID, "error", err)
	}
}

func (s *Studio) resumeRun(runID string) {
	if s.transcripts == nil || runID == "" {
		return
	}
	if err := s.transcripts.ResumeRun(runID); err != nil {
		slog.Warn("transcript resume failed", "run", runID, "error", err)
	}
}

func (s *Studio) endRun(runID string, res *graph.Result[ResumeState], runErr error) {
	if s.transcripts == nil || runID == "" {
		return
	}

	var err error
	switch {
	case runErr != nil:
		err = s.transcripts.EndRunWithError(runID, runErr)
	case res != nil && res.Interrupted:
		err = s.transcripts.EndRun(runID, transcript.RunStatusPaused)
	default:
		err = s.transcripts.EndRun(runID, transcript.RunStatusCompleted)
	}
	if err != nil {
		slog.Warn("transcript end failed", "run", runID, "error", err)
	}
}

// inputError converts a validator error into the package error type.
func inputError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &InputError{Field: verrs[0].Field(), Rule: verrs[0].Tag()}
	}
	return fmt.Errorf("invalid input: %w", err)
}
