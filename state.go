package resumeflow

import "fmt"

// =============================================================================
// Qualifications
// =============================================================================

// Qualifications is the structured result of an extraction pass over a job
// post. It is immutable once returned; re-extraction replaces it wholesale.
type Qualifications struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
}

// Empty returns true when no qualifications have been extracted.
func (q Qualifications) Empty() bool {
	return len(q.Required) == 0 && len(q.Preferred) == 0
}

// =============================================================================
// Workflow State
// =============================================================================

// QualificationState is the extraction sub-workflow state.
type QualificationState struct {
	RunID          string         `json:"runId,omitempty"`
	JobPost        string         `json:"jobPost"`
	HumanFeedback  string         `json:"humanFeedback,omitempty"`
	Qualifications Qualifications `json:"qualifications"`
}

// NewQualificationState creates extraction input for a job post.
func NewQualificationState(jobPost string) QualificationState {
	return QualificationState{JobPost: jobPost}
}

// WithHumanFeedback sets reviewer feedback for the next extraction pass.
func (s QualificationState) WithHumanFeedback(feedback string) QualificationState {
	s.HumanFeedback = feedback
	return s
}

// ResumeState is the complete state for the drafting pipeline.
//
// Merge policy per field: EditorFeedback is the accumulator, entries append
// across fan-in branches in completion order; every other field overwrites,
// keeping the global value at a merge. Branches receive isolated payloads
// and must not write shared scalars.
type ResumeState struct {
	// Identification
	RunID string `json:"runId,omitempty"`

	// Input
	JobPost       string `json:"jobPost"`
	HumanFeedback string `json:"humanFeedback,omitempty"`
	ResumeInput   string `json:"resumeInput"`

	// Derived
	Qualifications Qualifications `json:"qualifications"`
	ResumeDraft    string         `json:"resumeDraft,omitempty"`
	EditorFeedback []string       `json:"editorFeedback,omitempty"`
	Iteration      int            `json:"iteration"`
}

// NewResumeState creates the initial pipeline state from caller input.
func NewResumeState(jobPost, resumeInput string) ResumeState {
	return ResumeState{
		JobPost:     jobPost,
		ResumeInput: resumeInput,
	}
}

// WithRunID sets the transcript run ID. The ID rides in state so it survives
// checkpoints and resumed executions record into the same run.
func (s ResumeState) WithRunID(runID string) ResumeState {
	s.RunID = runID
	return s
}

// WithHumanFeedback sets reviewer feedback on the extracted qualifications.
func (s ResumeState) WithHumanFeedback(feedback string) ResumeState {
	s.HumanFeedback = feedback
	return s
}

// MergeBranch folds one completed editor branch into the global state.
// Only the accumulator moves; the engine serializes calls, so concurrent
// branch appends are never lost.
func MergeBranch(global, branch ResumeState) ResumeState {
	global.EditorFeedback = append(global.EditorFeedback, branch.EditorFeedback...)
	return global
}

// =============================================================================
// State Validation
// =============================================================================

// StateRequirement defines a state prerequisite
type StateRequirement string

const (
	RequireJobPost     StateRequirement = "job_post"
	RequireResumeInput StateRequirement = "resume_input"
	RequireDraft       StateRequirement = "draft"
)

// Validate checks if state has required fields
func (s ResumeState) Validate(requirements ...StateRequirement) error {
	for _, req := range requirements {
		switch req {
		case RequireJobPost:
			if s.JobPost == "" {
				return fmt.Errorf("job post required")
			}
		case RequireResumeInput:
			if s.ResumeInput == "" {
				return fmt.Errorf("resume input required")
			}
		case RequireDraft:
			if s.ResumeDraft == "" {
				return fmt.Errorf("resume draft required")
			}
		default:
			return fmt.Errorf("unknown requirement: %s", req)
		}
	}
	return nil
}

// =============================================================================
// State Summary
// =============================================================================

// Summary returns a human-readable summary of the state
func (s ResumeState) Summary() string {
	var status string
	switch {
	case s.ResumeDraft != "" && s.Iteration > 0:
		status = "revised"
	case s.ResumeDraft != "":
		status = "drafted"
	case !s.Qualifications.Empty():
		status = "qualified"
	default:
		status = "pending"
	}

	return fmt.Sprintf("run %s [%s]: iteration %d, %d required / %d preferred, %d feedback notes",
		s.RunID, status, s.Iteration,
		len(s.Qualifications.Required), len(s.Qualifications.Preferred),
		len(s.EditorFeedback))
}
