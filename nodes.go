package resumeflow

import (
	"fmt"

	"github.com/randalmurphal/resumeflow/graph"
)

// =============================================================================
// Node Names
// =============================================================================

// Node names in the drafting pipeline.
const (
	NodeExtractQualifications = "extract_qualifications"
	NodeHumanFeedback         = "human_feedback"
	NodeDraftResume           = "draft_resume"
	NodeEditorAPI             = "editor_api"
	NodeEditorCritique        = "editor_critique"
	NodeReviseResume          = "revise_resume"
	NodeWriteFinalDraft       = "write_final_draft"
)

// FeedbackApproved is the sentinel feedback value that approves the
// extracted qualifications and moves the pipeline on to drafting.
const FeedbackApproved = "ok"

// WorkflowName identifies this pipeline in transcripts and notifications.
const WorkflowName = "resume-draft"

// DefaultRevisionLimit is the number of draft/edit/revise rounds completed
// before finalization.
const DefaultRevisionLimit = 2

// =============================================================================
// Node Wrappers
// =============================================================================

// WithRetry wraps a node with retry logic. The pipeline itself runs without
// retries; failures surface to the caller for resume.
func WithRetry[S any](node graph.NodeFunc[S], maxRetries int) graph.NodeFunc[S] {
	return func(ctx graph.Context, state S) (S, error) {
		var lastErr error
		for i := 0; i < maxRetries; i++ {
			result, err := node(ctx, state)
			if err == nil {
				return result, nil
			}
			lastErr = err
		}
		return state, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
	}
}
