// Package ai provides the Gemini-backed embedding provider used for food
// name similarity search. The model is consumed as a fixed pretrained black
// box mapping a string to a fixed-length vector.
package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	lru "github.com/hashicorp/golang-lru/v2"
	"google.golang.org/api/option"
)

const (
	defaultEmbedModel = "gemini-embedding-001"

	// The API caps batch requests; corpus embedding chunks at this size.
	maxBatchSize = 100

	queryCacheSize = 1024
)

// EmbeddingService generates embeddings via the Gemini API. Per-query
// embeddings are cached in an LRU since interactive sessions tend to retry
// the same misspelled names.
type EmbeddingService struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	cache  *lru.Cache[string, []float32]
}

// NewEmbeddingService creates a new service instance. An empty apiKey falls
// back to the GEMINI_API_KEY env var; if neither is set the provider is
// unavailable and the caller should run without embeddings.
func NewEmbeddingService(ctx context.Context, apiKey string) (*EmbeddingService, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := os.Getenv("GEMINI_EMBED_MODEL")
	if modelName == "" {
		modelName = defaultEmbedModel
	}

	cache, _ := lru.New[string, []float32](queryCacheSize)
	return &EmbeddingService{
		client: client,
		model:  client.EmbeddingModel(modelName),
		cache:  cache,
	}, nil
}

// Close cleans up resources.
func (s *EmbeddingService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Embed generates a vector for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for embedding")
	}

	if vec, ok := s.cache.Get(text); ok {
		// Copy: callers normalize in place.
		out := make([]float32, len(vec))
		copy(out, vec)
		return out, nil
	}

	res, err := s.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding values returned")
	}

	vec := res.Embedding.Values
	cached := make([]float32, len(vec))
	copy(cached, vec)
	s.cache.Add(text, cached)

	return vec, nil
}

// EmbedBatch generates vectors for all texts, chunked to respect the API's
// batch limit. Used once at matcher construction to embed the whole corpus.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch := s.model.NewBatch()
		for _, t := range texts[start:end] {
			batch = batch.AddContent(genai.Text(t))
		}

		res, err := s.model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch embedding failed at offset %d: %w", start, err)
		}
		if len(res.Embeddings) != end-start {
			return nil, fmt.Errorf("batch embedding returned %d vectors for %d texts", len(res.Embeddings), end-start)
		}

		for _, e := range res.Embeddings {
			if e == nil || len(e.Values) == 0 {
				return nil, fmt.Errorf("empty embedding in batch response")
			}
			out = append(out, e.Values)
		}
	}

	return out, nil
}
