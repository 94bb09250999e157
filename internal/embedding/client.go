package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// maxBatchSize is the provider's hard per-call limit.
	maxBatchSize = 96

	defaultModel       = "embed-v4.0"
	defaultDimension   = 1536
	defaultConcurrency = 4
)

// Client calls a Cohere-compatible embed endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	dimension   int
	batchSize   int
	concurrency int
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithModel overrides the embedding model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithDimension overrides the requested output dimension.
func WithDimension(dim int) Option {
	return func(c *Client) { c.dimension = dim }
}

// WithBatchSize lowers the per-call batch size. Values above the
// provider limit are clamped to it.
func WithBatchSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.batchSize = min(size, maxBatchSize)
		}
	}
}

// WithConcurrency sets how many batches may be in flight at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       defaultModel,
		dimension:   defaultDimension,
		batchSize:   maxBatchSize,
		concurrency: defaultConcurrency,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Dimension() int { return c.dimension }

// Embed splits texts into batches of at most the configured size and
// dispatches them concurrently. Results are reassembled in input order.
// Any batch failure fails the whole call with a BatchError.
func (c *Client) Embed(ctx context.Context, texts []string, role Role) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batches := splitBatches(texts, c.batchSize)
	results := make([][][]float64, len(batches))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, batch := range batches {
		g.Go(func() error {
			vectors, err := c.embedBatch(ctx, batch, role)
			if err != nil {
				return &BatchError{Batch: i, Role: role, Err: err}
			}

			results[i] = vectors

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([][]float64, 0, len(texts))
	for _, vectors := range results {
		out = append(out, vectors...)
	}

	return out, nil
}

func splitBatches(texts []string, size int) [][]string {
	var batches [][]string

	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batches = append(batches, texts[start:end])
	}

	return batches
}

type embedRequest struct {
	Model           string   `json:"model"`
	Texts           []string `json:"texts"`
	InputType       string   `json:"input_type"`
	OutputDimension int      `json:"output_dimension"`
	EmbeddingTypes  []string `json:"embedding_types"`
}

type embedResponse struct {
	Embeddings struct {
		Float [][]float64 `json:"float"`
	} `json:"embeddings"`
}

func (c *Client) embedBatch(ctx context.Context, texts []string, role Role) ([][]float64, error) {
	body, err := json.Marshal(embedRequest{
		Model:           c.model,
		Texts:           texts,
		InputType:       string(role),
		OutputDimension: c.dimension,
		EmbeddingTypes:  []string{"float"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embed: status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	if len(result.Embeddings.Float) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts", len(result.Embeddings.Float), len(texts))
	}

	return result.Embeddings.Float, nil
}
