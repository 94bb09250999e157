package embedding_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quinworks/pricematch/internal/embedding"
)

type recordedRequest struct {
	Model           string   `json:"model"`
	Texts           []string `json:"texts"`
	InputType       string   `json:"input_type"`
	OutputDimension int      `json:"output_dimension"`
	EmbeddingTypes  []string `json:"embedding_types"`

	auth string
}

// embedServer answers each text with a one-element vector holding the
// numeric suffix of the text, so reassembly order is observable.
func embedServer(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		requests []recordedRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/embed", r.URL.Path)

		var req recordedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		req.auth = r.Header.Get("Authorization")

		mu.Lock()
		requests = append(requests, req)
		mu.Unlock()

		vectors := make([][]float64, len(req.Texts))
		for i, text := range req.Texts {
			if text == "boom" {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message":"bad batch"}`)
				return
			}

			var n float64
			fmt.Sscanf(text, "t%f", &n)
			vectors[i] = []float64{n}
		}

		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": map[string]any{"float": vectors},
		})
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()

		return append([]recordedRequest(nil), requests...)
	}
}

func TestClient_Embed_BatchesAndReassembles(t *testing.T) {
	srv, recorded := embedServer(t)

	client := embedding.NewClient(srv.URL, "test-key",
		embedding.WithModel("embed-v4.0"),
		embedding.WithDimension(256),
		embedding.WithBatchSize(2),
	)

	texts := []string{"t0", "t1", "t2", "t3", "t4"}

	vectors, err := client.Embed(context.Background(), texts, embedding.RoleDocument)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))

	for i, v := range vectors {
		assert.Equal(t, []float64{float64(i)}, v)
	}

	requests := recorded()
	require.Len(t, requests, 3)

	seen := 0
	for _, req := range requests {
		seen += len(req.Texts)
		assert.LessOrEqual(t, len(req.Texts), 2)
		assert.Equal(t, "embed-v4.0", req.Model)
		assert.Equal(t, "search_document", req.InputType)
		assert.Equal(t, 256, req.OutputDimension)
		assert.Equal(t, []string{"float"}, req.EmbeddingTypes)
		assert.Equal(t, "Bearer test-key", req.auth)
	}
	assert.Equal(t, len(texts), seen)
}

func TestClient_Embed_QueryRole(t *testing.T) {
	srv, recorded := embedServer(t)

	client := embedding.NewClient(srv.URL, "test-key")

	_, err := client.Embed(context.Background(), []string{"t0"}, embedding.RoleQuery)
	require.NoError(t, err)

	requests := recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, "search_query", requests[0].InputType)
}

func TestClient_Embed_BatchFailure(t *testing.T) {
	srv, _ := embedServer(t)

	client := embedding.NewClient(srv.URL, "test-key",
		embedding.WithBatchSize(1),
		embedding.WithConcurrency(1),
	)

	_, err := client.Embed(context.Background(), []string{"t0", "boom", "t2"}, embedding.RoleDocument)
	require.Error(t, err)

	var batchErr *embedding.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Batch)
	assert.Equal(t, embedding.RoleDocument, batchErr.Role)
	assert.Contains(t, batchErr.Error(), "batch 1")
}

func TestClient_Embed_EmptyInput(t *testing.T) {
	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := embedding.NewClient(srv.URL, "test-key")

	vectors, err := client.Embed(context.Background(), nil, embedding.RoleDocument)
	require.NoError(t, err)
	assert.Nil(t, vectors)
	assert.Zero(t, calls.Load())
}

func TestClient_Embed_BatchSizeClamped(t *testing.T) {
	srv, recorded := embedServer(t)

	client := embedding.NewClient(srv.URL, "test-key", embedding.WithBatchSize(10_000))

	texts := make([]string, 100)
	for i := range texts {
		texts[i] = fmt.Sprintf("t%d", i)
	}

	vectors, err := client.Embed(context.Background(), texts, embedding.RoleDocument)
	require.NoError(t, err)
	require.Len(t, vectors, 100)

	requests := recorded()
	require.Len(t, requests, 2)

	for _, req := range requests {
		assert.LessOrEqual(t, len(req.Texts), 96)
	}
}

func TestClient_Embed_VectorCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": map[string]any{"float": [][]float64{{1}}},
		})
	}))
	defer srv.Close()

	client := embedding.NewClient(srv.URL, "test-key")

	_, err := client.Embed(context.Background(), []string{"t0", "t1"}, embedding.RoleDocument)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "got 1 vectors for 2 texts"))
}

func TestClient_Dimension(t *testing.T) {
	assert.Equal(t, 1536, embedding.NewClient("http://localhost", "k").Dimension())
	assert.Equal(t, 64, embedding.NewClient("http://localhost", "k", embedding.WithDimension(64)).Dimension())
}
