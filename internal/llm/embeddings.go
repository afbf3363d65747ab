package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
)

// EmbeddingsClient is a client for an OpenAI-compatible embeddings API.
type EmbeddingsClient struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int // Expected vector dimension for validation
	client       *http.Client
}

// NewEmbeddingsClient creates a new embeddings client. expectedSize is the
// vector dimension of the model (from VECTOR_SIZE config); every returned
// vector is validated against it so a misconfigured model fails loudly
// instead of poisoning the store with mixed dimensions.
func NewEmbeddingsClient(baseURL, apiKey, model string, expectedSize int) *EmbeddingsClient {
	return &EmbeddingsClient{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// embeddingsRequest represents the request payload for the embeddings API.
type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingsResponse represents the response from the embeddings API.
type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed generates an embedding for a single text. Errors wrap
// service.ErrEmbedding.
func (c *EmbeddingsClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", service.ErrEmbedding)
	}

	url := fmt.Sprintf("%s/v1/embeddings", c.BaseURL)

	payload := embeddingsRequest{
		Model: c.Model,
		Input: []string{text},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrEmbedding, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: bad status %d: %s", service.ErrEmbedding, resp.StatusCode, string(raw))
	}

	var embeddingsResp embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddingsResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", service.ErrEmbedding, err)
	}

	if len(embeddingsResp.Data) != 1 {
		return nil, fmt.Errorf("%w: expected 1 embedding, got %d", service.ErrEmbedding, len(embeddingsResp.Data))
	}

	raw := embeddingsResp.Data[0].Embedding
	if len(raw) != c.ExpectedSize {
		return nil, fmt.Errorf("%w: embedding has size %d, expected %d", service.ErrEmbedding, len(raw), c.ExpectedSize)
	}

	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}
