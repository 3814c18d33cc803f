package testutil

import (
	"context"
	"testing"
	"time"

	rfctx "github.com/randalmurphal/resumeflow/context"
	"github.com/randalmurphal/resumeflow/llm"
	"github.com/randalmurphal/resumeflow/prompt"
	"github.com/randalmurphal/resumeflow/transcript"
)

// TestContext returns a context that is canceled when the test ends.
// This ensures any goroutines started during the test are properly cleaned up.
func TestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return ctx
}

// TestContextWithTimeout returns a context with a timeout.
// The context is also canceled when the test ends.
func TestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// TranscriptStore returns a transcript FileStore rooted in a test temp dir.
func TranscriptStore(t *testing.T) *transcript.FileStore {
	t.Helper()

	store, err := transcript.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create transcript store: %v", err)
	}
	return store
}

// ServicesContext returns a test context seeded with the given client, a
// transcript store under a temp dir, and the embedded prompt loader. Node
// functions can run directly against it.
func ServicesContext(t *testing.T, client llm.Client) context.Context {
	t.Helper()

	services := &rfctx.Services{
		LLM:         client,
		Transcripts: TranscriptStore(t),
		Prompts:     prompt.NewLoader(t.TempDir()),
	}
	return services.InjectAll(TestContext(t))
}
