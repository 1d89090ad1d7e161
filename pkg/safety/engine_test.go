package safety

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dellavent/glycemicguard/pkg/common/errors"
	"github.com/dellavent/glycemicguard/pkg/knowledge"
)

const engineCSV = `name,glycemic_index,carbohydrates,fiber,protein,fat,processing_level,serving_size_grams
cabbage,20,6.0,2.5,1.3,0.1,whole,98
white bread,75,49.0,2.7,9.0,3.2,processed,28
watermelon,76,8.0,0.4,0.6,0.2,whole,152
incomplete food,50,,1.0,1.0,1.0,processed,100
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := knowledge.Read(strings.NewReader(engineCSV))
	require.NoError(t, err)
	return NewEngine(store)
}

func TestEvaluateFoodSafe(t *testing.T) {
	e := newTestEngine(t)

	features, verdict, err := e.EvaluateFood("CABBAGE", "100g")
	require.NoError(t, err)

	assert.InDelta(t, 1.2, features.GlycemicLoad, 1e-9)
	assert.Equal(t, 100.0, features.ServingGrams)
	assert.Equal(t, LabelSafe, verdict.Label)
}

func TestEvaluateFoodUnsafe(t *testing.T) {
	e := newTestEngine(t)

	// white bread: GI 75 (unsafe axis) regardless of GL.
	_, verdict, err := e.EvaluateFood("white bread", "1 serving")
	require.NoError(t, err)
	assert.Equal(t, LabelUnsafe, verdict.Label)
}

func TestEvaluateFoodUnsafeGIWithSafeGL(t *testing.T) {
	e := newTestEngine(t)

	// watermelon at a small serving: GL tiny, GI 76 still forces unsafe.
	features, verdict, err := e.EvaluateFood("watermelon", "50g")
	require.NoError(t, err)
	assert.Less(t, features.GlycemicLoad, 10.0)
	assert.Equal(t, LabelUnsafe, verdict.Label)
}

func TestEvaluateFoodPropagatesStoreErrors(t *testing.T) {
	e := newTestEngine(t)

	_, _, err := e.EvaluateFood("nonexistent food xyz", "100g")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, _, err = e.EvaluateFood("incomplete food", "100g")
	assert.ErrorIs(t, err, apperrors.ErrMissingData)

	_, _, err = e.EvaluateFood("cabbage", "-100g")
	assert.ErrorIs(t, err, apperrors.ErrInvalidServing)
}

func TestLoadThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("safe_gl: 5\ncaution_gi: 65\n"), 0644))

	got, err := LoadThresholds(path)
	require.NoError(t, err)

	assert.Equal(t, 5.0, got.SafeGL)
	assert.Equal(t, 20.0, got.CautionGL) // default kept
	assert.Equal(t, 55.0, got.SafeGI)    // default kept
	assert.Equal(t, 65.0, got.CautionGI)
}

func TestLoadThresholdsRejectsInvertedBands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("safe_gl: 30\n"), 0644))

	_, err := LoadThresholds(path)
	assert.Error(t, err)
}

func TestLoadThresholdsMissingFile(t *testing.T) {
	_, err := LoadThresholds(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
