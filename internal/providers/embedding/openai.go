package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/pkg/retry"
)

// OpenAICompatible calls POST /v1/embeddings. DashScope, OpenAI and most
// local servers accept the same request shape.
type OpenAICompatible struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	retrier    *retry.Retrier
}

func NewOpenAICompatible(cfg *config.EmbeddingConfig) *OpenAICompatible {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAICompatible{
		client:     &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		retrier:    retry.NewRetrier(retry.NewQuickConfig()),
	}
}

func (e *OpenAICompatible) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("cannot embed empty text")
	}

	payload := map[string]any{
		"model":           e.model,
		"input":           text,
		"encoding_format": "float",
	}
	if e.dimensions > 0 {
		payload["dimensions"] = e.dimensions
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	var vec []float32
	err = e.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/embeddings", bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		if e.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+e.apiKey)
		}

		resp, err := e.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return err
			}
			return retry.Permanent(err)
		}

		var result struct {
			Data []struct {
				Embedding []float32 `json:"embedding"`
			} `json:"data"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return retry.Permanent(fmt.Errorf("decode: %w", err))
		}
		if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
			return retry.Permanent(fmt.Errorf("empty embedding: %s", string(data)))
		}

		vec = result.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	return vec, nil
}
