package personalize

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/domain"
)

// invoker is satisfied by *bedrockruntime.Client.
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockGenerator runs Anthropic models on AWS Bedrock. Everything stays
// inside the AWS account, which some clients require for prospect data.
type BedrockGenerator struct {
	client  invoker
	modelID string
}

type bedrockMessage struct {
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"content"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature,omitempty"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// NewBedrockGenerator creates the Bedrock provider using the default AWS
// credential chain.
func NewBedrockGenerator(ctx context.Context, cfg appconfig.PersonalizeConfig) (*BedrockGenerator, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	modelID := cfg.Model
	if modelID == "" || modelID == "gpt-4o" {
		modelID = "anthropic.claude-3-haiku-20240307-v1:0"
	}
	return &BedrockGenerator{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: modelID,
	}, nil
}

// Available reports whether the client was constructed.
func (g *BedrockGenerator) Available() bool { return g.client != nil }

// GenerateHook asks the model for a one-line opener.
func (g *BedrockGenerator) GenerateHook(ctx context.Context, c *domain.Contact) (string, error) {
	if !g.Available() {
		return "", ErrNotConfigured
	}

	msg := bedrockMessage{Role: "user"}
	msg.Content = append(msg.Content, struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	}{Type: "text", Text: buildPrompt(c)})

	request := bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        100,
		System:           systemPrompt,
		Messages:         []bedrockMessage{msg},
		Temperature:      0.7,
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	output, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock invoke: %w", err)
	}

	var parsed bedrockResponse
	if err := json.Unmarshal(output.Body, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	hook := cleanHook(text)
	if hook == "" {
		return "", ErrEmptyResult
	}
	return hook, nil
}
