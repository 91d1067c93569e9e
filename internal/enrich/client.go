package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/lifecycle"
	"github.com/ignite/outreach/internal/pkg/httpretry"
)

// Sentinel errors for enrichment lookups.
var (
	ErrNotFound      = errors.New("not_found")
	ErrNoCredits     = errors.New("enrichment credits exhausted")
	ErrNotConfigured = errors.New("enrichment provider not configured")
)

// Client calls the enrichment provider's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewClient creates an enrichment client with retrying HTTP.
func NewClient(cfg config.EnrichmentConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// Configured reports whether the client has credentials to work with.
func (c *Client) Configured() bool { return c.apiKey != "" && c.baseURL != "" }

// person is the provider's person record.
type person struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Title       string `json:"title"`
	Phone       string `json:"phone"`
	LinkedInURL string `json:"linkedin_url"`
	Company     struct {
		Website  string `json:"website"`
		Size     string `json:"size"`
		Industry string `json:"industry"`
		Location string `json:"location"`
	} `json:"company"`
}

func (p *person) toData() lifecycle.EnrichmentData {
	return lifecycle.EnrichmentData{
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Title:       p.Title,
		Phone:       p.Phone,
		LinkedInURL: p.LinkedInURL,
		Website:     p.Company.Website,
		CompanySize: p.Company.Size,
		Industry:    p.Company.Industry,
		Location:    p.Company.Location,
	}
}

// EnrichByLinkedIn looks a person up by LinkedIn profile URL.
func (c *Client) EnrichByLinkedIn(ctx context.Context, linkedinURL string) (lifecycle.EnrichmentData, error) {
	var p person
	err := c.post(ctx, "/v1/people/match", map[string]string{
		"linkedin_url": linkedinURL,
	}, &p)
	if err != nil {
		return lifecycle.EnrichmentData{}, err
	}
	return p.toData(), nil
}

// EnrichByNameAndCompany looks a person up by full name and company name.
func (c *Client) EnrichByNameAndCompany(ctx context.Context, firstName, lastName, company string) (lifecycle.EnrichmentData, error) {
	var p person
	err := c.post(ctx, "/v1/people/match", map[string]string{
		"first_name":   firstName,
		"last_name":    lastName,
		"company_name": company,
	}, &p)
	if err != nil {
		return lifecycle.EnrichmentData{}, err
	}
	return p.toData(), nil
}

// SearchPeopleAtCompany returns up to limit people at a company, most
// senior first per the provider's ranking.
func (c *Client) SearchPeopleAtCompany(ctx context.Context, company string, limit int) ([]lifecycle.EnrichmentData, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{}
	params.Set("company_name", company)
	params.Set("per_page", fmt.Sprintf("%d", limit))

	var result struct {
		People []person `json:"people"`
	}
	if err := c.get(ctx, "/v1/people/search", params, &result); err != nil {
		return nil, err
	}
	if len(result.People) == 0 {
		return nil, ErrNotFound
	}
	out := make([]lifecycle.EnrichmentData, 0, len(result.People))
	for i := range result.People {
		out = append(out, result.People[i].toData())
	}
	return out, nil
}

// Credits returns the remaining lookup credits on the account.
func (c *Client) Credits(ctx context.Context) (int, error) {
	var result struct {
		CreditsRemaining int `json:"credits_remaining"`
	}
	if err := c.get(ctx, "/v1/account/credits", nil, &result); err != nil {
		return 0, err
	}
	return result.CreditsRemaining, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusPaymentRequired:
		return ErrNoCredits
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
