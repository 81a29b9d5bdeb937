package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bfluegel-contact/internal/model"
)

// Transport performs one submission attempt against the intake endpoint.
type Transport interface {
	Post(ctx context.Context, sub *model.Submission) (*model.Outcome, error)
}

// OutcomeError wraps a non-success outcome the server returned. The retry
// policy inspects its code to decide whether another attempt can change
// anything.
type OutcomeError struct {
	Outcome *model.Outcome
}

func (e *OutcomeError) Error() string {
	if e.Outcome.Error != "" {
		return e.Outcome.Error
	}
	return fmt.Sprintf("server returned code %d", e.Outcome.Code)
}

// HTTPTransport posts JSON submissions to the configured endpoint.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

func NewHTTPTransport(endpoint string) *HTTPTransport {
	return &HTTPTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *HTTPTransport) Post(ctx context.Context, sub *model.Submission) (*model.Outcome, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post submission: %w", err)
	}
	defer resp.Body.Close()

	var outcome model.Outcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if !outcome.Success {
		if outcome.Code == 0 {
			outcome.Code = resp.StatusCode
		}
		return &outcome, &OutcomeError{Outcome: &outcome}
	}
	return &outcome, nil
}
