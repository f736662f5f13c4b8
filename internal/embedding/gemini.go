package embedding

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// geminiEmbedder delegates to the Gemini embedding API. Dimension is fixed
// by config so the vector index schema can be sized up front.
type geminiConfig struct {
	APIKey    string `json:"api_key"`
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
}

type geminiEmbedder struct {
	apiKey    string
	model     string
	dimension int
}

func init() {
	Register("gemini", createGeminiEmbedder)
}

func createGeminiEmbedder(args interface{}) (Embedder, error) {
	cfg := &geminiConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini embedder requires api_key")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-embedding-001"
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = 768
	}
	return &geminiEmbedder{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}, nil
}

func (e *geminiEmbedder) Name() string { return "gemini" }

func (e *geminiEmbedder) Dimension() int { return e.dimension }

func (e *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  e.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	dim := int32(e.dimension)
	resp, err := client.Models.EmbedContent(
		ctx,
		e.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		&genai.EmbedContentConfig{OutputDimensionality: &dim},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding values returned")
	}
	return resp.Embeddings[0].Values, nil
}
