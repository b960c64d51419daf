package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
)

// Provider is the external generative-AI boundary. The core only ever
// sends a prompt and receives text back.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient talks to the provider over REST, retrying transient failures
// with exponential backoff behind a circuit breaker so a dead provider
// fails fast instead of holding requests open.
type HTTPClient struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	cfg     ClientConfig
}

func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	return &HTTPClient{
		http: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "assistant-provider",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		cfg: cfg,
	}
}

type completionRequest struct {
	Prompt string `json:"prompt"`
}

type completionResponse struct {
	Text string `json:"text"`
}

func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := c.breaker.Execute(func() (any, error) {
		var text string
		op := func() error {
			t, err := c.doRequest(ctx, prompt)
			if err != nil {
				return err
			}
			text = t
			return nil
		}
		b := backoff.NewExponentialBackOff()
		b.MaxElapsedTime = c.cfg.Timeout
		if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
			return "", err
		}
		return text, nil
	})
	if err != nil {
		return "", fmt.Errorf("assistant provider: %w", err)
	}
	return out.(string), nil
}

func (c *HTTPClient) doRequest(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{Prompt: prompt})
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/complete", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("provider returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", backoff.Permanent(fmt.Errorf("provider returned %d", resp.StatusCode))
	}
	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", backoff.Permanent(err)
	}
	return cr.Text, nil
}
