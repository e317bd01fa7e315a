package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-embedding-001"
)

// Client wraps the Google GenAI client for embedding calls.
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient creates a new Client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{client: client, modelName: model}, nil
}

// EmbedTokens requests one vector per token and returns them in input
// order. A token the API produced no embedding for yields a nil entry.
func (c *Client) EmbedTokens(ctx context.Context, tokens []string) ([][]float32, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("gemini client is not initialized")
	}

	if len(tokens) == 0 {
		return nil, errors.New("tokens must not be empty")
	}

	contents := make([]*genai.Content, 0, len(tokens))
	for _, token := range tokens {
		contents = append(contents, genai.Text(token)...)
	}

	resp, err := c.client.Models.EmbedContent(ctx, c.modelName, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	vectors := make([][]float32, len(tokens))
	for i, emb := range resp.Embeddings {
		if i >= len(vectors) || emb == nil {
			continue
		}
		vectors[i] = emb.Values
	}

	return vectors, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}
