package personalize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/domain"
)

// Sentinel errors for the personalization layer.
var (
	ErrNotConfigured = errors.New("personalization provider not configured")
	ErrEmptyResult   = errors.New("provider returned an empty hook")
)

// Generator produces a personalization hook for one contact.
type Generator interface {
	// GenerateHook returns a single-sentence opener hook for the contact.
	GenerateHook(ctx context.Context, c *domain.Contact) (string, error)

	// Available reports whether the provider is configured and usable.
	Available() bool
}

// New builds the generator named by the config. Unknown providers fall back
// to the OpenAI-compatible client.
func New(ctx context.Context, cfg config.PersonalizeConfig) (Generator, error) {
	switch cfg.Provider {
	case "bedrock":
		return NewBedrockGenerator(ctx, cfg)
	default:
		return NewOpenAIGenerator(cfg), nil
	}
}

const systemPrompt = `You write the opening line of cold outreach emails for a B2B sales team.
Given facts about a prospect, return ONE sentence that shows genuine, specific
knowledge of their company or role. No greeting, no flattery filler, no
exclamation marks, under 25 words. Return only the sentence.`

// buildPrompt assembles the user prompt from whatever contact facts exist.
func buildPrompt(c *domain.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", c.Company)
	if c.FullName() != c.Company {
		fmt.Fprintf(&b, "Name: %s\n", c.FullName())
	}
	if c.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", c.Title)
	}
	if c.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", c.Industry)
	}
	if c.CompanySize != "" {
		fmt.Fprintf(&b, "Company size: %s\n", c.CompanySize)
	}
	if c.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", c.Location)
	}
	if c.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", c.Website)
	}
	if c.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", c.Notes)
	}
	return b.String()
}

// cleanHook strips quotes and whitespace the models like to wrap output in.
func cleanHook(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
