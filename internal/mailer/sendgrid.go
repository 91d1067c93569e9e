package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/pkg/httpretry"
)

// SendGridMailer sends through the SendGrid v3 mail API.
type SendGridMailer struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewSendGridMailer creates a SendGrid transport with retrying HTTP.
func NewSendGridMailer(cfg config.SendGridConfig) *SendGridMailer {
	return &SendGridMailer{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// Name identifies the transport in logs and email log rows.
func (m *SendGridMailer) Name() string { return "sendgrid" }

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgPersonalization struct {
	To         []sgAddress       `json:"to"`
	CustomArgs map[string]string `json:"custom_args,omitempty"`
}

type sgTracking struct {
	ClickTracking struct {
		Enable bool `json:"enable"`
	} `json:"click_tracking"`
	OpenTracking struct {
		Enable bool `json:"enable"`
	} `json:"open_tracking"`
}

type sgSendRequest struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	ReplyTo          *sgAddress          `json:"reply_to,omitempty"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
	Categories       []string            `json:"categories,omitempty"`
	TrackingSettings *sgTracking         `json:"tracking_settings,omitempty"`
}

// Send delivers one message. SendGrid returns the provider message id in
// the X-Message-Id response header.
func (m *SendGridMailer) Send(ctx context.Context, msg *Message) (string, error) {
	if msg.To == "" {
		return "", ErrNoRecipient
	}

	req := sgSendRequest{
		Personalizations: []sgPersonalization{{
			To:         []sgAddress{{Email: msg.To, Name: msg.ToName}},
			CustomArgs: msg.CustomArgs,
		}},
		From:       sgAddress{Email: msg.From, Name: msg.FromName},
		Subject:    msg.Subject,
		Content:    []sgContent{{Type: "text/plain", Value: msg.TextBody}},
		Categories: msg.Categories,
	}
	if msg.HTMLBody != "" {
		req.Content = append(req.Content, sgContent{Type: "text/html", Value: msg.HTMLBody})
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = &sgAddress{Email: msg.ReplyTo}
	}
	if msg.TrackOpens || msg.TrackClicks {
		tracking := &sgTracking{}
		tracking.OpenTracking.Enable = msg.TrackOpens
		tracking.ClickTracking.Enable = msg.TrackClicks
		req.TrackingSettings = tracking
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling send request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: sendgrid status %d: %s", ErrSendFailed, resp.StatusCode, string(body))
	}

	messageID := resp.Header.Get("X-Message-Id")
	if messageID == "" {
		messageID = resp.Header.Get("X-Message-ID")
	}
	return messageID, nil
}
