package repl

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dellavent/glycemicguard/pkg/knowledge"
	"github.com/dellavent/glycemicguard/pkg/match"
	"github.com/dellavent/glycemicguard/pkg/safety"
)

const replCSV = `name,glycemic_index,carbohydrates,fiber,protein,fat,processing_level,serving_size_grams
cabbage,20,6.0,2.5,1.3,0.1,whole,98
white bread,75,49.0,2.7,9.0,3.2,processed,28
brown rice boiled,55,23.0,1.8,2.6,0.9,minimally_processed,158
`

func runScripted(t *testing.T, input string) string {
	t.Helper()
	store, err := knowledge.Read(strings.NewReader(replCSV))
	require.NoError(t, err)

	var out strings.Builder
	cfg := DefaultConfig()
	cfg.In = strings.NewReader(input)
	cfg.Out = &out

	Run(context.Background(), cfg, store, match.New(store.ListNames()), safety.NewEngine(store))
	return out.String()
}

func TestRunExactMatchFlow(t *testing.T) {
	// Exact name, default serving, quit.
	out := runScripted(t, "CABBAGE\n\nquit\n")

	assert.Contains(t, out, "FOOD SAFETY ANALYSIS: cabbage")
	assert.Contains(t, out, "SAFE")
	assert.Contains(t, out, "Glycemic Load:   1.2")
	assert.Contains(t, out, "Goodbye.")
}

func TestRunCandidateSelectionFlow(t *testing.T) {
	// Ambiguous query, pick the first candidate, explicit serving.
	out := runScripted(t, "rice\n1\n2 servings\nquit\n")

	assert.Contains(t, out, "similar foods")
	assert.Contains(t, out, "brown rice boiled")
	assert.Contains(t, out, "per 316 g")
}

func TestRunInvalidServingReprompts(t *testing.T) {
	out := runScripted(t, "cabbage\n-100g\n50g\nquit\n")

	assert.Contains(t, out, "invalid serving size")
	assert.Contains(t, out, "FOOD SAFETY ANALYSIS: cabbage")
}

func TestRunCancelSearch(t *testing.T) {
	out := runScripted(t, "rice\ncancel\nquit\n")

	assert.Contains(t, out, "similar foods")
	assert.NotContains(t, out, "FOOD SAFETY ANALYSIS")
}

func TestRunNoMatchesSuggests(t *testing.T) {
	out := runScripted(t, "cabage\nquit\n")

	assert.Contains(t, out, "No similar foods found")
	assert.Contains(t, out, "Did you mean")
	assert.Contains(t, out, "cabbage")
}

func TestRunEOFExits(t *testing.T) {
	out := runScripted(t, "")
	assert.Contains(t, out, "Goodbye.")
}
