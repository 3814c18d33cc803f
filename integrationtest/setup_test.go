package integrationtest

import (
	"path/filepath"
	"testing"

	"github.com/randalmurphal/resumeflow"
	"github.com/randalmurphal/resumeflow/checkpoint"
	"github.com/randalmurphal/resumeflow/testutil"
	"github.com/randalmurphal/resumeflow/transcript"
)

// studioEnv bundles a Studio with the file stores behind it, so tests can
// inspect checkpoints and transcripts directly.
type studioEnv struct {
	studio        *resumeflow.Studio
	saver         *checkpoint.FileSaver[resumeflow.ResumeState]
	transcripts   *transcript.FileStore
	checkpointDir string
	transcriptDir string
}

// newEnv builds a Studio backed by file stores under a fresh temp
// directory, driven by the scripted pipeline client. Extra options are
// applied last and may override the defaults.
func newEnv(t *testing.T, opts ...resumeflow.Option) *studioEnv {
	t.Helper()

	dir := t.TempDir()
	return openEnv(t,
		filepath.Join(dir, "checkpoints"),
		filepath.Join(dir, "transcripts"),
		opts...)
}

// openEnv builds a Studio against existing store directories. Calling it a
// second time with the same directories stands in for a fresh process
// picking up persisted threads.
func openEnv(t *testing.T, checkpointDir, transcriptDir string, opts ...resumeflow.Option) *studioEnv {
	t.Helper()

	saver, err := checkpoint.NewFileSaver[resumeflow.ResumeState](checkpointDir)
	if err != nil {
		t.Fatalf("NewFileSaver: %v", err)
	}

	store, err := transcript.NewFileStore(transcriptDir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	base := []resumeflow.Option{
		resumeflow.WithClient(testutil.PipelineClient()),
		resumeflow.WithSaver(saver),
		resumeflow.WithTranscripts(store),
	}

	studio, err := resumeflow.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return &studioEnv{
		studio:        studio,
		saver:         saver,
		transcripts:   store,
		checkpointDir: checkpointDir,
		transcriptDir: transcriptDir,
	}
}

// sampleInput returns the standard drafting input used across the tests.
func sampleInput() resumeflow.Input {
	return resumeflow.Input{
		JobPost:     testutil.SampleJobPost,
		ResumeInput: testutil.SampleResumeInput,
	}
}
