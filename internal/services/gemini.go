package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel      = "gemini-2.5-flash"
	defaultGeminiEmbedModel = "text-embedding-004"

	// GeminiEmbeddingSize is the vector size of text-embedding-004.
	GeminiEmbeddingSize = 768
)

// Embedder turns text into a dense vector for the job index.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeminiOptions struct {
	APIKey     string
	Model      string
	EmbedModel string
	Retry      RetryPolicy
}

// GeminiClient implements both LLMClient and Embedder on the Gemini API.
type GeminiClient struct {
	client     *genai.Client
	modelName  string
	embedModel string
	retry      RetryPolicy
}

func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	g := &GeminiClient{
		client:     client,
		modelName:  opts.Model,
		embedModel: opts.EmbedModel,
		retry:      opts.Retry,
	}
	if g.modelName == "" {
		g.modelName = defaultGeminiModel
	}
	if g.embedModel == "" {
		g.embedModel = defaultGeminiEmbedModel
	}
	return g, nil
}

func (g *GeminiClient) Name() string {
	return "Gemini"
}

// Complete implements LLMClient. Google Search grounding is enabled so the
// job matching prompt can look up live postings.
func (g *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		MaxOutputTokens:   8192,
	}

	return retryDo(ctx, g.retry, func() (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(req.Prompt), config)
		if err != nil {
			log.Printf("❌ Gemini API error: %v", err)
			return "", g.providerError(ctx, err)
		}
		if resp == nil {
			return "", &ProviderError{Provider: g.Name(), Message: "no response generated (nil response)"}
		}

		text := resp.Text()
		if text == "" {
			return "", &ProviderError{Provider: g.Name(), Message: "no text content in response"}
		}
		return text, nil
	})
}

// GenerateEmbedding implements Embedder.
func (g *GeminiClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", g.providerError(ctx, err))
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

func (g *GeminiClient) providerError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: g.Name(), StatusCode: apiErr.Code, Message: apiErr.Message, Cause: err}
	}
	return &ProviderError{Provider: g.Name(), Message: err.Error(), Cause: err}
}
