package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTemperature keeps replies steady while leaving room for phrasing.
const DefaultTemperature = 0.5

// Params configures a provider instance.
type Params struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type baseProvider struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

func newBaseProvider(p Params) baseProvider {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return baseProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:     p.BaseURL,
		apiKey:      p.APIKey,
		model:       p.Model,
		temperature: p.Temperature,
	}
}

func (b *baseProvider) doRequest(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return resp, nil
}
