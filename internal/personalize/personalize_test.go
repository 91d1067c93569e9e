package personalize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/domain"
)

func TestOpenAIGenerateHook(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/v1/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{
					"role":    "assistant",
					"content": `"Noticed Acme just opened its Berlin office."`,
				}},
			},
		})
	}))
	defer server.Close()

	g := NewOpenAIGenerator(config.PersonalizeConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o",
	})

	hook, err := g.GenerateHook(context.Background(), &domain.Contact{
		Company: "Acme", FirstName: "Ada", Title: "CTO", Industry: "software",
	})
	if err != nil {
		t.Fatalf("GenerateHook: %v", err)
	}

	// Quotes from the model are stripped.
	if hook != "Noticed Acme just opened its Berlin office." {
		t.Errorf("hook = %q", hook)
	}

	if captured.Model != "gpt-4o" {
		t.Errorf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[1].Content, "Company: Acme") {
		t.Errorf("prompt missing company: %q", captured.Messages[1].Content)
	}
	if !strings.Contains(captured.Messages[1].Content, "Title: CTO") {
		t.Errorf("prompt missing title: %q", captured.Messages[1].Content)
	}
}

func TestOpenAINotConfigured(t *testing.T) {
	g := NewOpenAIGenerator(config.PersonalizeConfig{})
	if g.Available() {
		t.Error("generator without key should not be available")
	}
	_, err := g.GenerateHook(context.Background(), &domain.Contact{Company: "Acme"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	g := NewOpenAIGenerator(config.PersonalizeConfig{APIKey: "k", BaseURL: server.URL})
	_, err := g.GenerateHook(context.Background(), &domain.Contact{Company: "Acme"})
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

// fakeInvoker returns a canned Bedrock response.
type fakeInvoker struct {
	body []byte
	err  error
}

func (f *fakeInvoker) InvokeModel(_ context.Context, _ *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func TestBedrockGenerateHook(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{
		"content": []map[string]string{
			{"type": "text", "text": " Saw that Acme is hiring its first platform team. "},
		},
		"stop_reason": "end_turn",
	})
	g := &BedrockGenerator{client: &fakeInvoker{body: body}, modelID: "test-model"}

	hook, err := g.GenerateHook(context.Background(), &domain.Contact{Company: "Acme"})
	if err != nil {
		t.Fatalf("GenerateHook: %v", err)
	}
	if hook != "Saw that Acme is hiring its first platform team." {
		t.Errorf("hook = %q", hook)
	}
}

func TestBuildPromptSkipsEmptyFields(t *testing.T) {
	prompt := buildPrompt(&domain.Contact{Company: "Acme"})
	if strings.Contains(prompt, "Title:") || strings.Contains(prompt, "Industry:") {
		t.Errorf("empty fields leaked into prompt: %q", prompt)
	}
}
