package resumeflow

import (
	"github.com/randalmurphal/resumeflow/graph"
	"github.com/randalmurphal/resumeflow/prompt"
)

// apiEditorFeedback is the placeholder appended by the stubbed external
// scoring service.
const apiEditorFeedback = "[API editor returned no feedback]"

// SendToEditors fans the current draft out to both editors. Each branch
// receives an isolated payload holding only what an editor needs; the
// engine merges their appended feedback back into global state at the
// join.
func SendToEditors(ctx graph.Context, state ResumeState) []graph.Send[ResumeState] {
	payload := ResumeState{RunID: state.RunID, ResumeDraft: state.ResumeDraft}
	return []graph.Send[ResumeState]{
		{Node: NodeEditorAPI, State: payload},
		{Node: NodeEditorCritique, State: payload},
	}
}

// EditorAPINode stands in for an external non-LLM scoring service. It
// appends a fixed placeholder feedback entry.
func EditorAPINode(ctx graph.Context, state ResumeState) (ResumeState, error) {
	state.EditorFeedback = append(state.EditorFeedback, apiEditorFeedback)
	return state, nil
}

// EditorCritiqueNode asks the model for free-text critique of the draft:
// grammar issues, missing quantified metrics, weak achievement
// descriptions.
//
// Prerequisites: state.ResumeDraft must be set
// Updates: state.EditorFeedback (one appended entry)
func EditorCritiqueNode(ctx graph.Context, state ResumeState) (ResumeState, error) {
	if err := state.Validate(RequireDraft); err != nil {
		return state, err
	}

	system, err := renderPrompt(ctx, prompt.EditorCritique, nil)
	if err != nil {
		return state, err
	}

	resp, err := completeTurn(ctx, state.RunID, turnRequest{
		Node:   NodeEditorCritique,
		Prompt: system,
		Input:  state.ResumeDraft,
	})
	if err != nil {
		return state, err
	}

	state.EditorFeedback = append(state.EditorFeedback, resp.Content)
	return state, nil
}
