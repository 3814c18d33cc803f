package resumeflow

import (
	"github.com/randalmurphal/resumeflow/graph"
	"github.com/randalmurphal/resumeflow/prompt"
)

// WriteFinalDraftNode produces the polished final resume from the last
// draft and all accumulated feedback. Finalization is terminal; the graph
// ends after this node.
//
// Prerequisites: state.ResumeDraft must be set
// Updates: state.ResumeDraft
func WriteFinalDraftNode(ctx graph.Context, state ResumeState) (ResumeState, error) {
	if err := state.Validate(RequireDraft); err != nil {
		return state, err
	}

	system, err := renderPrompt(ctx, prompt.FinalDraft, map[string]any{
		"Draft":          state.ResumeDraft,
		"EditorFeedback": state.EditorFeedback,
	})
	if err != nil {
		return state, err
	}

	resp, err := completeTurn(ctx, state.RunID, turnRequest{
		Node:   NodeWriteFinalDraft,
		Prompt: system,
		Input:  "Write the final resume.",
	})
	if err != nil {
		return state, err
	}

	state.ResumeDraft = resp.Content
	return state, nil
}
