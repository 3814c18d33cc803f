package integrationtest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/randalmurphal/resumeflow"
	"github.com/randalmurphal/resumeflow/graph"
	"github.com/randalmurphal/resumeflow/llm"
	"github.com/randalmurphal/resumeflow/notify"
	"github.com/randalmurphal/resumeflow/testutil"
	"github.com/randalmurphal/resumeflow/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPauseAndApprove drives the happy path: invoke, review, approve.
func TestPauseAndApprove(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	res, err := env.studio.Invoke(ctx, sampleInput())
	require.NoError(t, err)
	require.True(t, res.Interrupted, "run should pause at the feedback gate")
	assert.Equal(t, resumeflow.NodeHumanFeedback, res.Next)

	// Extraction ran before the pause and its result is visible for review.
	assert.Contains(t, res.State.Qualifications.Required, "Python")
	assert.Contains(t, res.State.Qualifications.Preferred, "Terraform")

	final, err := env.studio.Resume(ctx, res.Thread, resumeflow.FeedbackApproved)
	require.NoError(t, err)
	require.False(t, final.Interrupted, "approved run should finish")

	assert.Equal(t, testutil.FinalResumeText, final.State.ResumeDraft)
	assert.Equal(t, 2, final.State.Iteration, "default limit is two revision rounds")

	// Drafting clears the accumulator each round, so only the last
	// round's two critiques remain.
	assert.Len(t, final.State.EditorFeedback, 2)
	assert.Contains(t, final.State.EditorFeedback, testutil.CritiqueText)

	// The finished thread's checkpoint is gone.
	_, err = env.saver.Get(ctx, res.Thread)
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

// TestCorrectionLoop verifies that non-approving feedback re-runs
// extraction and pauses for another review on the same thread.
func TestCorrectionLoop(t *testing.T) {
	client := testutil.PipelineClient()
	env := newEnv(t, resumeflow.WithClient(client))
	ctx := context.Background()

	res, err := env.studio.Invoke(ctx, sampleInput())
	require.NoError(t, err)
	require.True(t, res.Interrupted)
	assert.Equal(t, 1, client.CallCount(), "one extraction call before the gate")

	again, err := env.studio.Resume(ctx, res.Thread, "Ignore the nice-to-haves.")
	require.NoError(t, err)
	require.True(t, again.Interrupted, "corrected run should pause for another review")
	assert.Equal(t, resumeflow.NodeHumanFeedback, again.Next)
	assert.Equal(t, res.Thread, again.Thread)
	assert.Equal(t, 2, client.CallCount(), "correction re-runs extraction")

	// The re-extraction saw the reviewer's note.
	assert.Equal(t, "Ignore the nice-to-haves.", again.State.HumanFeedback)

	final, err := env.studio.Resume(ctx, again.Thread, resumeflow.FeedbackApproved)
	require.NoError(t, err)
	require.False(t, final.Interrupted)
	assert.Equal(t, testutil.FinalResumeText, final.State.ResumeDraft)
}

// TestResumeAcrossStudios approves a paused thread through a second Studio
// built over the same directories, as a restarted process would.
func TestResumeAcrossStudios(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	res, err := env.studio.Invoke(ctx, sampleInput())
	require.NoError(t, err)
	require.True(t, res.Interrupted)

	other := openEnv(t, env.checkpointDir, env.transcriptDir)
	final, err := other.studio.Resume(ctx, res.Thread, resumeflow.FeedbackApproved)
	require.NoError(t, err)
	require.False(t, final.Interrupted)

	assert.Equal(t, testutil.FinalResumeText, final.State.ResumeDraft)
	assert.Equal(t, res.State.RunID, final.State.RunID, "run identity survives the restart")

	// The resumed execution appended to the original transcript on disk.
	tr, err := other.transcripts.Load(res.State.RunID)
	require.NoError(t, err)
	assert.Equal(t, transcript.RunStatusCompleted, tr.Metadata.Status)
}

// TestSingleRevisionRound lowers the revision limit to one round.
func TestSingleRevisionRound(t *testing.T) {
	env := newEnv(t, resumeflow.WithRevisionLimit(1))
	ctx := context.Background()

	res, err := env.studio.Invoke(ctx, sampleInput())
	require.NoError(t, err)
	require.True(t, res.Interrupted)

	final, err := env.studio.Resume(ctx, res.Thread, resumeflow.FeedbackApproved)
	require.NoError(t, err)
	require.False(t, final.Interrupted)

	assert.Equal(t, 1, final.State.Iteration)
	assert.Len(t, final.State.EditorFeedback, 2, "two editors, one round")
	assert.Equal(t, testutil.FinalResumeText, final.State.ResumeDraft)
}

// TestTranscriptLifecycle checks the recorded run across pause and resume:
// paused with the extraction turn first, completed with every turn after.
func TestTranscriptLifecycle(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	res, err := env.studio.Invoke(ctx, sampleInput())
	require.NoError(t, err)
	runID := res.State.RunID
	require.NotEmpty(t, runID)

	meta, err := env.transcripts.LoadMetadata(runID)
	require.NoError(t, err)
	assert.Equal(t, transcript.RunStatusPaused, meta.Status)
	assert.Equal(t, res.Thread, meta.Thread)
	assert.Equal(t, resumeflow.WorkflowName, meta.Workflow)
	assert.Equal(t, 1, meta.TurnCount, "extraction is the only turn before the gate")

	_, err = env.studio.Resume(ctx, res.Thread, resumeflow.FeedbackApproved)
	require.NoError(t, err)

	tr, err := env.transcripts.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, transcript.RunStatusCompleted, tr.Metadata.Status)
	require.Len(t, tr.Turns, 6, "extract, two draft/critique rounds, final")
	assert.Equal(t, resumeflow.NodeExtractQualifications, tr.Turns[0].Node)
	assert.Equal(t, resumeflow.NodeWriteFinalDraft, tr.Turns[5].Node)
	assert.Equal(t, 600, tr.Metadata.TotalTokensIn)
	assert.Equal(t, 300, tr.Metadata.TotalTokensOut)

	var buf bytes.Buffer
	require.NoError(t, transcript.NewViewer().ViewFull(&buf, tr))
	assert.Contains(t, buf.String(), runID)
}

// TestNotificationEvents captures the run lifecycle events emitted around
// the gate.
func TestNotificationEvents(t *testing.T) {
	var captured []notify.Event
	env := newEnv(t, resumeflow.WithNotifier(&notificationCapture{events: &captured}))
	ctx := context.Background()

	res, err := env.studio.Invoke(ctx, sampleInput())
	require.NoError(t, err)
	require.True(t, res.Interrupted)

	require.NotEmpty(t, captured)
	assert.Equal(t, notify.EventRunStarted, captured[0].Type)

	paused := captured[len(captured)-1]
	assert.Equal(t, notify.EventRunPaused, paused.Type)
	assert.Equal(t, res.Thread, paused.Thread)
	assert.Equal(t, resumeflow.NodeHumanFeedback, paused.Node)

	captured = captured[:0]
	_, err = env.studio.Resume(ctx, res.Thread, resumeflow.FeedbackApproved)
	require.NoError(t, err)

	require.NotEmpty(t, captured)
	assert.Equal(t, notify.EventRunResumed, captured[0].Type)
	assert.Equal(t, notify.EventRunCompleted, captured[len(captured)-1].Type)
}

// TestProviderFailure verifies that a failed run surfaces the node error,
// marks the transcript failed, and emits a failure event.
func TestProviderFailure(t *testing.T) {
	boom := errors.New("model unavailable")
	var captured []notify.Event
	env := newEnv(t,
		resumeflow.WithClient(llm.NewMockClient(llm.WithError(boom))),
		resumeflow.WithNotifier(&notificationCapture{events: &captured}),
	)
	ctx := context.Background()

	res, err := env.studio.Invoke(ctx, sampleInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, graph.IsNodeError(err))
	assert.Equal(t, resumeflow.NodeExtractQualifications, graph.FailedNode(err))

	require.NotNil(t, res)
	meta, merr := env.transcripts.LoadMetadata(res.State.RunID)
	require.NoError(t, merr)
	assert.Equal(t, transcript.RunStatusFailed, meta.Status)
	assert.NotEmpty(t, meta.Error)

	require.NotEmpty(t, captured)
	assert.Equal(t, notify.EventRunFailed, captured[len(captured)-1].Type)
}

// notificationCapture captures notifications for testing.
type notificationCapture struct {
	events *[]notify.Event
}

func (n *notificationCapture) Notify(ctx context.Context, event notify.Event) error {
	*n.events = append(*n.events, event)
	return nil
}
