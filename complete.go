package resumeflow

import (
	"log/slog"
	"time"

	rfctx "github.com/randalmurphal/resumeflow/context"
	"github.com/randalmurphal/resumeflow/graph"
	"github.com/randalmurphal/resumeflow/llm"
	"github.com/randalmurphal/resumeflow/transcript"
)

// turnRequest is one gateway call made on behalf of a node.
type turnRequest struct {
	Node   string
	Prompt string // system prompt, usually a rendered template
	Input  string // human message
	Schema *llm.ResponseSchema
	Tier   llm.Tier
}

// completeTurn runs one LLM exchange: it pulls the client from the context,
// performs the completion, and records a transcript turn when a manager is
// present. Transcript failures are logged, never propagated; the exchange
// itself already succeeded.
func completeTurn(ctx graph.Context, runID string, req turnRequest) (*llm.CompletionResponse, error) {
	client := rfctx.LLM(ctx)
	if client == nil {
		return nil, ErrNoLLMClient
	}

	start := time.Now()
	resp, err := client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: req.Prompt,
		Messages:     []llm.Message{{Role: llm.RoleHuman, Content: req.Input}},
		Schema:       req.Schema,
		Tier:         req.Tier,
	})
	if err != nil {
		return nil, err
	}

	if mgr := rfctx.Transcript(ctx); mgr != nil && runID != "" {
		turn := transcript.Turn{
			Node:       req.Node,
			Model:      resp.Model,
			Prompt:     req.Prompt,
			Input:      req.Input,
			Response:   resp.Content,
			TokensIn:   resp.Usage.InputTokens,
			TokensOut:  resp.Usage.OutputTokens,
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err := mgr.RecordTurn(runID, turn); err != nil {
			slog.Warn("transcript record failed",
				"run", runID, "node", req.Node, "error", err)
		}
	}

	return resp, nil
}

// renderPrompt renders a named template through the injected loader.
func renderPrompt(ctx graph.Context, name string, vars map[string]any) (string, error) {
	loader := rfctx.Prompt(ctx)
	if loader == nil {
		return "", ErrNoPromptLoader
	}
	return loader.LoadWithVars(name, vars)
}
