package match

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder maps text to token-count vectors over a small fixed
// vocabulary. Deterministic and cheap, with the property that names sharing
// words with the query score higher.
type stubEmbedder struct {
	calls int
	fail  bool
}

var stubVocab = []string{"apple", "rice", "bread", "cabbage", "white", "brown", "green", "boiled", "raw"}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("embedder down")
	}
	vec := make([]float32, len(stubVocab))
	for i, tok := range stubVocab {
		vec[i] = float32(strings.Count(text, tok))
	}
	return vec, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if s.fail {
		return nil, errors.New("embedder down")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

var testCorpus = []string{
	"apple raw",
	"apple green raw",
	"brown rice boiled",
	"white rice boiled",
	"white bread",
	"cabbage boiled",
	"cabbage raw",
	"rice white sticky",
	"rice brown long grain",
	"bread white toasted",
	"bread brown",
	"green cabbage steamed",
}

func newEmbeddingMatcher(t *testing.T) *Matcher {
	t.Helper()
	m := NewWithEmbedder(context.Background(), testCorpus, &stubEmbedder{})
	require.True(t, m.UsingEmbeddings())
	return m
}

func TestResolveExact(t *testing.T) {
	m := New(testCorpus)

	name, ok := m.ResolveExact("  White   RICE boiled ")
	require.True(t, ok)
	assert.Equal(t, "white rice boiled", name)

	_, ok = m.ResolveExact("white rice")
	assert.False(t, ok)
}

func TestResolveExactBypassesEmbedding(t *testing.T) {
	emb := &stubEmbedder{}
	m := NewWithEmbedder(context.Background(), testCorpus, emb)
	corpusCalls := emb.calls

	_, ok := m.ResolveExact("CABBAGE BOILED")
	require.True(t, ok)
	assert.Equal(t, corpusCalls, emb.calls, "exact match must not invoke the embedder")
}

func TestFindCandidatesEmbeddingMode(t *testing.T) {
	m := newEmbeddingMatcher(t)

	got, err := m.FindCandidates(context.Background(), "rice", 5, 0)
	require.NoError(t, err)
	require.Len(t, got, 5)

	// Scores descending within [0, 1] for unit vectors of non-negative counts.
	for i, c := range got {
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 1.0+1e-6)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Score, c.Score)
		}
	}

	// Every top hit should actually mention rice.
	assert.Contains(t, got[0].Name, "rice")
}

func TestFindCandidatesPagination(t *testing.T) {
	m := newEmbeddingMatcher(t)
	ctx := context.Background()

	page1, err := m.FindCandidates(ctx, "rice", 5, 0)
	require.NoError(t, err)
	page2, err := m.FindCandidates(ctx, "rice", 5, 5)
	require.NoError(t, err)
	top10, err := m.FindCandidates(ctx, "rice", 10, 0)
	require.NoError(t, err)

	require.Len(t, page1, 5)
	require.Len(t, page2, 5)
	require.Len(t, top10, 10)

	seen := make(map[string]bool)
	for _, c := range append(append([]Candidate{}, page1...), page2...) {
		assert.False(t, seen[c.Name], "pages must be disjoint, got %q twice", c.Name)
		seen[c.Name] = true
	}

	// The two pages together are exactly the top 10, in order.
	combined := append(append([]Candidate{}, page1...), page2...)
	for i := range top10 {
		assert.Equal(t, top10[i].Name, combined[i].Name)
	}
}

func TestFindCandidatesOffsetPastEnd(t *testing.T) {
	m := newEmbeddingMatcher(t)

	got, err := m.FindCandidates(context.Background(), "rice", 5, len(testCorpus)+10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindCandidatesFallbackMode(t *testing.T) {
	m := New(testCorpus)
	require.False(t, m.UsingEmbeddings())

	got, err := m.FindCandidates(context.Background(), "Cabbage", 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for i, c := range got {
		assert.Contains(t, c.Name, "cabbage", "non-matches must be excluded")
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Score, c.Score)
		}
	}

	// score = len(query)/len(name): shortest containing name ranks first.
	assert.Equal(t, "cabbage raw", got[0].Name)
	assert.InDelta(t, float64(len("cabbage"))/float64(len("cabbage raw")), got[0].Score, 1e-6)
}

func TestFindCandidatesFallbackNoMatch(t *testing.T) {
	m := New(testCorpus)

	got, err := m.FindCandidates(context.Background(), "zzz unknown", 5, 0)
	require.NoError(t, err)
	assert.Empty(t, got, "nothing similar found is an empty result, not an error")
}

func TestFindCandidatesFallbackPagination(t *testing.T) {
	m := New(testCorpus)
	ctx := context.Background()

	page1, err := m.FindCandidates(ctx, "rice", 2, 0)
	require.NoError(t, err)
	page2, err := m.FindCandidates(ctx, "rice", 2, 2)
	require.NoError(t, err)

	require.Len(t, page1, 2)
	require.NotEmpty(t, page2)
	for _, c1 := range page1 {
		for _, c2 := range page2 {
			assert.NotEqual(t, c1.Name, c2.Name)
		}
	}
}

func TestNewWithEmbedderDegradesOnFailure(t *testing.T) {
	m := NewWithEmbedder(context.Background(), testCorpus, &stubEmbedder{fail: true})
	assert.False(t, m.UsingEmbeddings())

	// Queries still work through the fallback.
	got, err := m.FindCandidates(context.Background(), "bread", 3, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestFindCandidatesZeroTopK(t *testing.T) {
	m := newEmbeddingMatcher(t)

	got, err := m.FindCandidates(context.Background(), "rice", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
