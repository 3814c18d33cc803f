package resumeflow

import (
	"github.com/randalmurphal/resumeflow/graph"
	"github.com/randalmurphal/resumeflow/prompt"
)

// DraftResumeNode writes a resume draft tailored to the extracted
// qualifications. The prior draft and all accumulated editor feedback feed
// the revision, then the feedback accumulator is cleared so notes never
// leak across rounds.
//
// Prerequisites: state.JobPost, state.ResumeInput must be set
// Updates: state.ResumeDraft, state.EditorFeedback (cleared)
func DraftResumeNode(ctx graph.Context, state ResumeState) (ResumeState, error) {
	if err := state.Validate(RequireJobPost, RequireResumeInput); err != nil {
		return state, err
	}

	system, err := renderPrompt(ctx, prompt.DraftResume, map[string]any{
		"JobPost":        state.JobPost,
		"Required":       state.Qualifications.Required,
		"Preferred":      state.Qualifications.Preferred,
		"ResumeInput":    state.ResumeInput,
		"PreviousDraft":  state.ResumeDraft,
		"EditorFeedback": state.EditorFeedback,
	})
	if err != nil {
		return state, err
	}

	resp, err := completeTurn(ctx, state.RunID, turnRequest{
		Node:   NodeDraftResume,
		Prompt: system,
		Input:  "Write the resume draft.",
	})
	if err != nil {
		return state, err
	}

	state.ResumeDraft = resp.Content
	state.EditorFeedback = []string{}
	return state, nil
}
