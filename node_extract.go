package resumeflow

import (
	"fmt"

	"github.com/randalmurphal/resumeflow/graph"
	"github.com/randalmurphal/resumeflow/llm"
	"github.com/randalmurphal/resumeflow/prompt"
)

// qualificationsSchema constrains extraction output to the two string
// arrays the drafting prompts consume.
const qualificationsSchema = `{
	"type": "object",
	"properties": {
		"required":  {"type": "array", "items": {"type": "string"}},
		"preferred": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["required", "preferred"],
	"additionalProperties": false
}`

// ExtractQualificationsNode derives required and preferred qualifications
// from the job post. Reviewer feedback, when present, is embedded in the
// prompt so previously flagged corrections are incorporated. The result
// replaces any prior extraction wholesale.
//
// Prerequisites: state.JobPost must be set
// Updates: state.Qualifications
func ExtractQualificationsNode(ctx graph.Context, state QualificationState) (QualificationState, error) {
	if state.JobPost == "" {
		return state, fmt.Errorf("job post required")
	}

	system, err := renderPrompt(ctx, prompt.ExtractQualifications, map[string]any{
		"JobPost":       state.JobPost,
		"HumanFeedback": state.HumanFeedback,
	})
	if err != nil {
		return state, err
	}

	resp, err := completeTurn(ctx, state.RunID, turnRequest{
		Node:   NodeExtractQualifications,
		Prompt: system,
		Input:  "Extract the qualifications.",
		Schema: &llm.ResponseSchema{Name: "qualifications", Schema: qualificationsSchema},
		Tier:   llm.TierFast,
	})
	if err != nil {
		return state, err
	}

	var quals Qualifications
	if err := llm.Decode(resp.Content, &quals); err != nil {
		return state, err
	}

	state.Qualifications = quals
	return state, nil
}
