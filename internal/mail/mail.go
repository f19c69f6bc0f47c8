// Package mail sends transactional mail through the Mailtrap HTTP API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config is populated from the MAIL_* settings.
type Config struct {
	APIURL    string
	APIKey    string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://send.api.mailtrap.io/api/send"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type sendRequest struct {
	From    party   `json:"from"`
	To      []party `json:"to"`
	Subject string  `json:"subject"`
	Text    string  `json:"text"`
}

type party struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendPasswordResetMail mails the reset link. The link embeds a token
// with a short TTL; the body says so.
func (c *Client) SendPasswordResetMail(ctx context.Context, to, name, resetURI string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account. "+
			"Open the link below to choose a new password. "+
			"The link expires shortly; if you did not ask for this, ignore this mail.\n\n%s\n",
		name, resetURI,
	)
	return c.send(ctx, sendRequest{
		From:    party{Email: c.config.FromEmail, Name: c.config.FromName},
		To:      []party{{Email: to, Name: name}},
		Subject: "Reset your password",
		Text:    body,
	})
}

func (c *Client) send(ctx context.Context, req sendRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("mail: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mail: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("mail: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("mail: api returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
