package context

import (
	"context"
	"path/filepath"

	"github.com/randalmurphal/resumeflow/llm"
	"github.com/randalmurphal/resumeflow/notify"
	"github.com/randalmurphal/resumeflow/prompt"
	"github.com/randalmurphal/resumeflow/transcript"
)

// Services wraps all resumeflow services for convenient initialization
type Services struct {
	LLM         llm.Client
	Transcripts transcript.Manager
	Prompts     *prompt.Loader
	Notifier    notify.Notifier // Optional notification service
}

// InjectAll adds all configured services to the context
func (s *Services) InjectAll(ctx context.Context) context.Context {
	if s.LLM != nil {
		ctx = WithLLM(ctx, s.LLM)
	}
	if s.Transcripts != nil {
		ctx = WithTranscript(ctx, s.Transcripts)
	}
	if s.Prompts != nil {
		ctx = WithPrompt(ctx, s.Prompts)
	}
	if s.Notifier != nil {
		ctx = notify.WithNotifier(ctx, s.Notifier)
	}
	return ctx
}

// Config configures NewServices
type Config struct {
	LLM llm.Config // Provider settings (key, model, sampling)

	BaseDir    string // Base directory for storage (default: ".resumeflow")
	ProjectDir string // Directory searched for prompt overrides (default: ".")
}

// NewServices creates Services with common defaults. The context is used
// for provider client setup and is not retained.
func NewServices(ctx context.Context, cfg Config) (*Services, error) {
	s := &Services{}

	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	s.LLM = client

	baseDir := cfg.BaseDir
	if baseDir == "" {
		baseDir = ".resumeflow"
	}

	transcripts, err := transcript.NewFileStore(filepath.Join(baseDir, "transcripts"))
	if err != nil {
		return nil, err
	}
	s.Transcripts = transcripts

	projectDir := cfg.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	s.Prompts = prompt.NewLoader(projectDir)

	return s, nil
}
