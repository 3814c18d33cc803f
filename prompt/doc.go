// Package prompt provides prompt template loading and management.
//
// Four templates ship embedded in the binary, one per LLM-backed
// workflow node:
//   - extract-qualifications: pull required/preferred lists from a job post
//   - draft-resume: tailor the resume to the post and extracted lists
//   - editor-critique: strict review of the current draft
//   - final-draft: polish pass over the last draft plus editor notes
//
// Projects can override any template by dropping a .txt file with the
// same name into .resumeflow/prompts/ or prompts/ under the project
// directory; disk copies win over embedded ones.
//
// Example usage:
//
//	loader := prompt.NewLoader(".")
//	system, err := loader.LoadWithVars("extract-qualifications", map[string]any{
//	    "JobPost":       jobPost,
//	    "HumanFeedback": feedback,
//	})
package prompt
