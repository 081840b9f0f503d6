// Package africastalking sends SMS through the Africa's Talking messaging API.
package africastalking

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	BaseURL  string
	Username string
	APIKey   string
	SenderID string
}

// Client implements ports.SMSSender.
type Client struct {
	endpoint   string
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates an SMS client with a 10s timeout.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse sms url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("sms url must be absolute")
	}
	return &Client{
		endpoint: parsed.String(),
		cfg:      cfg,
		log:      log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Send posts one message as a form to the messaging endpoint.
func (c *Client) Send(ctx context.Context, to, message string) error {
	form := url.Values{
		"username": {c.cfg.Username},
		"to":       {to},
		"message":  {message},
		"from":     {c.cfg.SenderID},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("sms request failed")
		return fmt.Errorf("sms error: %s", resp.Status)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
