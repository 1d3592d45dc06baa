package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// WhatsAppSender posts template messages to the WhatsApp gateway. The
// gateway enforces throughput limits, so sends go through a local rate
// limiter instead of bouncing off 429s.
type WhatsAppSender struct {
	apiURL      string
	apiToken    string
	fromNumber  string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

type whatsAppRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

type whatsAppResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewWhatsAppSender(apiURL, apiToken, fromNumber string) (*WhatsAppSender, error) {
	if apiURL == "" || apiToken == "" {
		return nil, fmt.Errorf("whatsapp gateway URL and token are required")
	}

	return &WhatsAppSender{
		apiURL:     apiURL,
		apiToken:   apiToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}, nil
}

// SendMessage delivers a single message to the given number.
func (s *WhatsAppSender) SendMessage(ctx context.Context, to, body string) error {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	payload, err := json.Marshal(whatsAppRequest{
		From: s.fromNumber,
		To:   to,
		Body: body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal whatsapp request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read whatsapp response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("whatsapp gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed whatsAppResponse
	if err := json.Unmarshal(respBody, &parsed); err == nil && !parsed.Success && parsed.Message != "" {
		return fmt.Errorf("whatsapp gateway rejected message: %s", parsed.Message)
	}

	return nil
}
