package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-flash-latest"

type Config struct {
	APIKey string
	Model  string
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Client asks the model for a JSON document.
type Client struct {
	api   *genai.Client
	model string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("gemini api key is not set")
	}
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: api, model: model}, nil
}

// GenerateJSON sends prompt with a JSON response MIME type and returns the raw text.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
