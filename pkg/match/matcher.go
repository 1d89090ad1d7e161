// Package match resolves free-text food names against the knowledge store's
// corpus of canonical names. With an embedding provider it runs cosine
// nearest-neighbor search over precomputed vectors; without one it degrades
// to substring matching.
package match

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dellavent/glycemicguard/pkg/knowledge"
)

// Embedder maps text to a fixed-length vector. Implementations are
// stateless per call and safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Candidate is one ranked search result.
type Candidate struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Matcher holds the corpus and, in embedding mode, one L2-normalized vector
// per corpus name in a flat buffer. Immutable after construction; reads
// need no synchronization.
type Matcher struct {
	names    []string
	keys     map[string]struct{}
	embedder Embedder

	// embedding mode state, nil/zero in fallback mode
	vectors       []float32
	dim           int
	useEmbeddings bool
}

// New builds a matcher in substring-fallback mode.
func New(names []string) *Matcher {
	keys := make(map[string]struct{}, len(names))
	for _, n := range names {
		keys[n] = struct{}{}
	}
	return &Matcher{names: names, keys: keys}
}

// NewWithEmbedder builds a matcher that precomputes an embedding for every
// corpus name, batched, as a one-time blocking cost. A nil embedder or a
// failed corpus embedding degrades to fallback mode rather than failing:
// missing embedding capability reduces resolution quality but must never
// abort queries.
func NewWithEmbedder(ctx context.Context, names []string, embedder Embedder) *Matcher {
	m := New(names)
	if embedder == nil || len(names) == 0 {
		return m
	}

	vecs, err := embedder.EmbedBatch(ctx, names)
	if err != nil {
		log.Printf("Warning: corpus embedding failed, falling back to substring matching: %v", err)
		return m
	}
	if len(vecs) != len(names) || len(vecs[0]) == 0 {
		log.Printf("Warning: embedder returned %d vectors for %d names, falling back to substring matching", len(vecs), len(names))
		return m
	}

	dim := len(vecs[0])
	flat := make([]float32, 0, len(names)*dim)
	for i, v := range vecs {
		if len(v) != dim {
			log.Printf("Warning: inconsistent embedding dimension for %q, falling back to substring matching", names[i])
			return m
		}
		flat = append(flat, l2Normalize(v)...)
	}

	m.embedder = embedder
	m.vectors = flat
	m.dim = dim
	m.useEmbeddings = true
	return m
}

// UsingEmbeddings reports whether similarity search runs in embedding mode.
func (m *Matcher) UsingEmbeddings() bool {
	return m.useEmbeddings
}

// ResolveExact returns the corpus key equal to the normalized query, if
// any. This shortcut takes precedence over similarity search.
func (m *Matcher) ResolveExact(query string) (string, bool) {
	key := knowledge.Normalize(query)
	if _, ok := m.keys[key]; ok {
		return key, true
	}
	return "", false
}

// FindCandidates returns up to topK candidates ranked by descending score,
// skipping the first offset. Calling again with offset += topK pages
// through the ranking without recomputing corpus embeddings. An empty
// result is not an error.
func (m *Matcher) FindCandidates(ctx context.Context, query string, topK, offset int) ([]Candidate, error) {
	if topK <= 0 || offset < 0 {
		return nil, nil
	}

	if m.useEmbeddings {
		return m.findByEmbedding(ctx, query, topK, offset)
	}
	return m.findBySubstring(query, topK, offset), nil
}

// findByEmbedding embeds the query, selects the topK+offset best corpus
// vectors by cosine similarity with a bounded partial selection, sorts only
// that reduced set and returns the requested page.
func (m *Matcher) findByEmbedding(ctx context.Context, query string, topK, offset int) ([]Candidate, error) {
	vec, err := m.embedder.Embed(ctx, knowledge.Normalize(query))
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}
	if len(vec) != m.dim {
		return nil, fmt.Errorf("query embedding dimension %d does not match corpus dimension %d", len(vec), m.dim)
	}
	l2Normalize(vec)

	top := scanTopN(m.vectors, m.dim, len(m.names), vec, topK+offset)
	if offset >= len(top) {
		return nil, nil
	}
	top = top[offset:]

	results := make([]Candidate, 0, topK)
	for _, s := range top {
		results = append(results, Candidate{Name: m.names[s.idx], Score: float64(s.score)})
	}
	return results, nil
}

// findBySubstring scores every corpus name containing the lowercased query
// as a contiguous substring with len(query)/len(name). Non-matches are
// excluded entirely, not scored zero.
func (m *Matcher) findBySubstring(query string, topK, offset int) []Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []scored
	for i, name := range m.names {
		if strings.Contains(name, q) {
			matches = append(matches, scored{idx: i, score: float32(len(q)) / float32(len(name))})
		}
	}

	// Same ordering as embedding mode: score descending, index tie-break.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].better(matches[j-1]); j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}

	if offset >= len(matches) {
		return nil
	}
	matches = matches[offset:]
	if len(matches) > topK {
		matches = matches[:topK]
	}

	results := make([]Candidate, 0, len(matches))
	for _, s := range matches {
		results = append(results, Candidate{Name: m.names[s.idx], Score: float64(s.score)})
	}
	return results
}
