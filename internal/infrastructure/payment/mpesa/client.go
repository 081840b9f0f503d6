// Package mpesa is an HTTP client for the M-PESA Express (STK push) API.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/adaste/loan-system/internal/core/domain"
)

const (
	timestampLayout = "20060102150405"
	transactionType = "CustomerPayBillOnline"
	transactionDesc = "Loan repayment"
)

type Config struct {
	BaseURL     string
	Shortcode   string
	Passkey     string
	Token       string
	CallbackURL string
}

// Client implements ports.PaymentGateway.
type Client struct {
	baseURL    *url.URL
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger
	now        func() time.Time
}

// stkPushRequest mirrors the provider's processrequest payload.
type stkPushRequest struct {
	BusinessShortCode string  `json:"BusinessShortCode"`
	Password          string  `json:"Password"`
	Timestamp         string  `json:"Timestamp"`
	TransactionType   string  `json:"TransactionType"`
	Amount            float64 `json:"Amount"`
	PartyA            string  `json:"PartyA"`
	PartyB            string  `json:"PartyB"`
	PhoneNumber       string  `json:"PhoneNumber"`
	CallBackURL       string  `json:"CallBackURL"`
	AccountReference  string  `json:"AccountReference"`
	TransactionDesc   string  `json:"TransactionDesc"`
}

// NewClient creates an M-PESA client with a 10s timeout.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse mpesa url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("mpesa url must be absolute")
	}
	return &Client{
		baseURL: parsed,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// STKPush asks the provider to prompt req.Phone for payment.
func (c *Client) STKPush(ctx context.Context, req domain.STKPushRequest) (*domain.STKPushResponse, error) {
	timestamp := c.now().UTC().Format(timestampLayout)

	payload, err := json.Marshal(stkPushRequest{
		BusinessShortCode: c.cfg.Shortcode,
		Password:          Password(c.cfg.Shortcode, c.cfg.Passkey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            req.Amount,
		PartyA:            req.Phone,
		PartyB:            c.cfg.Shortcode,
		PhoneNumber:       req.Phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  req.Reference,
		TransactionDesc:   transactionDesc,
	})
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/stkpush/v1/processrequest")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("mpesa request failed")
		return nil, fmt.Errorf("mpesa error: %s", resp.Status)
	}

	var out domain.STKPushResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode mpesa response: %w", err)
	}
	return &out, nil
}

// Password is base64(shortcode + passkey + timestamp).
func Password(shortcode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
}
