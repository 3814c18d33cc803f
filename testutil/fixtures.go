// Package testutil provides utilities for testing.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/randalmurphal/resumeflow/llm"
)

// =============================================================================
// Sample Documents
// =============================================================================

// SampleJobPost is a short job posting used across workflow tests.
const SampleJobPost = `Senior Data Engineer (Remote)

We are hiring a Senior Data Engineer to own our analytics platform.

Requirements:
- 5+ years building data pipelines in Python
- Production experience with AWS (S3, Glue, Redshift)
- Strong SQL and data modeling skills

Nice to have:
- Power BI or similar dashboard tooling
- Terraform for infrastructure
`

// SampleResumeInput is a short candidate resume used across workflow tests.
const SampleResumeInput = `Jordan Reyes
Data Engineer, Meridian Analytics (2019-present)
- Built ETL pipelines in Python feeding a Redshift warehouse
- Migrated batch jobs from on-prem cron to AWS Glue
- Maintained dashboards for the revenue team

Data Analyst, Brightlake (2016-2019)
- Wrote SQL reports and ad hoc analyses
`

// QualificationsJSON is the canned extraction result used across tests.
// It conforms to the extraction response schema.
const QualificationsJSON = `{
	"required": ["Python", "AWS", "5+ years of data engineering", "SQL"],
	"preferred": ["Power BI", "Terraform"]
}`

// CritiqueText is the canned editor critique.
const CritiqueText = "Quantify the Glue migration win and tighten the first bullet."

// FinalResumeText is the canned finalization output.
const FinalResumeText = `Jordan Reyes
Senior Data Engineer

- Built Python ETL pipelines processing 2TB/day into Redshift
- Cut batch runtime 40% by migrating cron jobs to AWS Glue
`

// =============================================================================
// Scripted Clients
// =============================================================================

// ExtractionClient returns a mock that answers every request with the
// canned qualifications JSON.
func ExtractionClient() *llm.MockClient {
	return llm.NewMockClient(llm.WithResponses(QualificationsJSON))
}

// PipelineClient returns a mock that recognizes each pipeline request by
// shape: schema requests get qualifications JSON, critique and final
// prompts get fixed texts, drafting gets a numbered draft. Drafts count up
// so tests can tell revision rounds apart.
func PipelineClient() *llm.MockClient {
	var (
		mu     sync.Mutex
		drafts int
	)
	return llm.NewMockClient(llm.WithCompleteFunc(
		func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			resp := func(content string) *llm.CompletionResponse {
				return &llm.CompletionResponse{
					Content: content,
					Model:   "mock",
					Usage:   llm.Usage{InputTokens: 100, OutputTokens: 50},
				}
			}
			switch {
			case req.Schema != nil:
				return resp(QualificationsJSON), nil
			case strings.Contains(req.SystemPrompt, "strict resume reviewer"):
				return resp(CritiqueText), nil
			case strings.Contains(req.SystemPrompt, "final, polished resume"):
				return resp(FinalResumeText), nil
			default:
				mu.Lock()
				drafts++
				n := drafts
				mu.Unlock()
				return resp(fmt.Sprintf("Draft v%d for Jordan Reyes.", n)), nil
			}
		}))
}

// =============================================================================
// File Helpers
// =============================================================================

// TempFile creates a temporary file with the given content.
// Returns the file path. File is automatically cleaned up when the test ends.
func TempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to create temp file %s: %v", name, err)
	}

	return path
}

// TempFileString creates a temporary file with string content.
func TempFileString(t *testing.T, name, content string) string {
	return TempFile(t, name, []byte(content))
}
