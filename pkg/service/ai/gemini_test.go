package ai

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingServiceWithoutKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := NewEmbeddingService(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key-not-used")

	svc, err := NewEmbeddingService(context.Background(), "")
	require.NoError(t, err)
	defer svc.Close()

	// Fails before any network call.
	_, err = svc.Embed(context.Background(), "")
	assert.Error(t, err)
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key-not-used")

	svc, err := NewEmbeddingService(context.Background(), "")
	require.NoError(t, err)
	defer svc.Close()

	got, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmbedLive(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set, skipping live embedding test")
	}

	svc, err := NewEmbeddingService(context.Background(), "")
	require.NoError(t, err)
	defer svc.Close()

	vec, err := svc.Embed(context.Background(), "green apple")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)

	// Second call hits the cache and must return an equal vector.
	again, err := svc.Embed(context.Background(), "green apple")
	require.NoError(t, err)
	assert.Equal(t, vec, again)
}
