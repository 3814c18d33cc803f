package resumeflow

import "github.com/randalmurphal/resumeflow/graph"

// HumanFeedbackNode marks the interruption point between extraction and
// drafting. It does no work; the engine pauses immediately before it and
// the caller resumes with feedback patched into state.
func HumanFeedbackNode(ctx graph.Context, state ResumeState) (ResumeState, error) {
	return state, nil
}

// RouteAfterFeedback routes past the gate. Absent or approving feedback
// moves on to drafting; anything else sends the pipeline back through
// extraction with the feedback visible to it.
func RouteAfterFeedback(ctx graph.Context, state ResumeState) string {
	if state.HumanFeedback == "" || state.HumanFeedback == FeedbackApproved {
		return NodeDraftResume
	}
	return NodeExtractQualifications
}
