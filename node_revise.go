package resumeflow

import "github.com/randalmurphal/resumeflow/graph"

// ReviseResumeNode is the fan-in barrier after the editors. Both branches
// have merged by the time it runs; it advances the revision counter and
// changes nothing else.
func ReviseResumeNode(ctx graph.Context, state ResumeState) (ResumeState, error) {
	state.Iteration++
	return state, nil
}

// ShouldContinue returns the revision router: once the counter reaches
// limit the pipeline finalizes, otherwise it loops back to drafting with
// the accumulated feedback visible.
func ShouldContinue(limit int) graph.RouterFunc[ResumeState] {
	return func(ctx graph.Context, state ResumeState) string {
		if state.Iteration >= limit {
			return NodeWriteFinalDraft
		}
		return NodeDraftResume
	}
}
