package services

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

	"golang.org/x/time/rate"
)

const (
	defaultPerplexityBaseURL = "https://api.perplexity.ai"
	defaultPerplexityModel   = "sonar-pro"
)

type PerplexityOptions struct {
	APIKey            string
	BaseURL           string
	Model             string
	RequestsPerMinute int
	Retry             RetryPolicy
	Timeout           time.Duration
	HTTPClient        *http.Client
}

// PerplexityClient talks to the OpenAI-compatible chat completions API.
type PerplexityClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	limiter *rate.Limiter
	retry   RetryPolicy
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewPerplexityClient(opts PerplexityOptions) (*PerplexityClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("perplexity API key not configured")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultPerplexityBaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultPerplexityModel
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &PerplexityClient{
		apiKey:  opts.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  client,
		limiter: limiter,
		retry:   opts.Retry,
	}, nil
}

func (p *PerplexityClient) Name() string {
	return "Perplexity"
}

// Complete implements LLMClient.
func (p *PerplexityClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	return retryDo(ctx, p.retry, func() (string, error) {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", err
		}
		return p.send(ctx, body)
	})
}

func (p *PerplexityClient) send(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &ProviderError{Provider: p.Name(), Message: err.Error(), Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: "reading response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var eb chatErrorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error.Message != "" {
			msg = eb.Error.Message
		}
		return "", &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: msg}
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: "invalid response envelope", Cause: err}
	}
	if len(cr.Choices) == 0 {
		return "", &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: "empty choices", Cause: errors.New("no completion returned")}
	}

	return cr.Choices[0].Message.Content, nil
}
