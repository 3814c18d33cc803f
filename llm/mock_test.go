package llm

import (
	"context"
	"errors"
	"testing"
)

func TestMockClient_CyclesResponses(t *testing.T) {
	m := NewMockClient(WithResponses("first", "second"))
	ctx := context.Background()
	req := CompletionRequest{Messages: []Message{{Role: RoleHuman, Content: "hi"}}}

	want := []string{"first", "second", "first"}
	for i, w := range want {
		resp, err := m.Complete(ctx, req)
		if err != nil {
			t.Fatalf("Complete() #%d error = %v", i, err)
		}
		if resp.Content != w {
			t.Errorf("Complete() #%d = %q, want %q", i, resp.Content, w)
		}
	}

	if m.CallCount() != 3 {
		t.Errorf("CallCount() = %d, want 3", m.CallCount())
	}
}

func TestMockClient_DefaultResponse(t *testing.T) {
	m := NewMockClient()
	resp, err := m.Complete(context.Background(), CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content == "" {
		t.Error("Complete() returned empty content")
	}
	if resp.Model != "mock" {
		t.Errorf("Model = %q, want mock", resp.Model)
	}
}

func TestMockClient_Error(t *testing.T) {
	boom := errors.New("provider down")
	m := NewMockClient(WithError(boom))

	_, err := m.Complete(context.Background(), CompletionRequest{})
	if !errors.Is(err, boom) {
		t.Errorf("Complete() error = %v, want provider down", err)
	}
	if m.CallCount() != 1 {
		t.Errorf("CallCount() = %d, want 1 (failed calls still count)", m.CallCount())
	}
}

func TestMockClient_RecordsRequests(t *testing.T) {
	m := NewMockClient(WithResponses("ok"))
	ctx := context.Background()

	m.Complete(ctx, CompletionRequest{SystemPrompt: "sys-1", Tier: TierFast})
	m.Complete(ctx, CompletionRequest{SystemPrompt: "sys-2"})

	reqs := m.Requests()
	if len(reqs) != 2 {
		t.Fatalf("Requests() = %d entries, want 2", len(reqs))
	}
	if reqs[0].SystemPrompt != "sys-1" || reqs[0].Tier != TierFast {
		t.Errorf("Requests()[0] = %+v", reqs[0])
	}
	if m.LastRequest().SystemPrompt != "sys-2" {
		t.Errorf("LastRequest() = %+v, want sys-2", m.LastRequest())
	}
}

func TestMockClient_SchemaValidation(t *testing.T) {
	schema := &ResponseSchema{Name: "qualifications", Schema: qualificationsSchema}

	// Scripted fenced content is cleaned and validated like a real response.
	valid := NewMockClient(WithResponses(
		"```json\n{\"required_qualifications\": [\"Go\"], \"preferred_qualifications\": []}\n```",
	))
	resp, err := valid.Complete(context.Background(), CompletionRequest{Schema: schema})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content[0] != '{' {
		t.Errorf("Content = %q, want fences stripped", resp.Content)
	}

	invalid := NewMockClient(WithResponses(`{"required_qualifications": ["Go"]}`))
	_, err = invalid.Complete(context.Background(), CompletionRequest{Schema: schema})
	if !IsSchemaValidation(err) {
		t.Errorf("Complete() error = %v, want SchemaValidationError", err)
	}
}

func TestMockClient_CompleteFunc(t *testing.T) {
	m := NewMockClient(WithCompleteFunc(func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{Content: "custom:" + req.SystemPrompt}, nil
	}))

	resp, err := m.Complete(context.Background(), CompletionRequest{SystemPrompt: "sys"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "custom:sys" {
		t.Errorf("Content = %q, want custom:sys", resp.Content)
	}
	if m.CallCount() != 1 {
		t.Errorf("CallCount() = %d, want 1", m.CallCount())
	}
}
