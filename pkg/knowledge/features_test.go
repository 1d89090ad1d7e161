package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dellavent/glycemicguard/pkg/common/errors"
)

func TestGetFeaturesBasic(t *testing.T) {
	s := loadTestStore(t)

	// cabbage: GI=20, carbs=6.0/100g, serving base 98g.
	f, err := s.GetFeatures("CABBAGE", "100g")
	require.NoError(t, err)

	assert.Equal(t, 20.0, f.GlycemicIndex)
	assert.InDelta(t, 1.2, f.GlycemicLoad, 1e-9) // (20 * 6.0) / 100
	assert.Equal(t, 100.0, f.ServingGrams)
	assert.Equal(t, "whole", f.ProcessingLevel)
}

func TestGetFeaturesScalingLinearity(t *testing.T) {
	s := loadTestStore(t)

	f100, err := s.GetFeatures("cabbage", "100g")
	require.NoError(t, err)
	f50, err := s.GetFeatures("cabbage", "50g")
	require.NoError(t, err)
	f150, err := s.GetFeatures("cabbage", "150g")
	require.NoError(t, err)

	assert.InDelta(t, f100.Carbohydrates/2, f50.Carbohydrates, 1e-9)
	assert.InDelta(t, f100.Fiber/2, f50.Fiber, 1e-9)
	assert.InDelta(t, f100.Carbohydrates*1.5, f150.Carbohydrates, 1e-9)
	assert.InDelta(t, f100.GlycemicLoad*1.5, f150.GlycemicLoad, 1e-9)

	// GI does not scale with serving mass.
	assert.Equal(t, f100.GlycemicIndex, f50.GlycemicIndex)
	assert.Equal(t, f100.GlycemicIndex, f150.GlycemicIndex)
}

func TestGetFeaturesZeroGramServing(t *testing.T) {
	s := loadTestStore(t)

	f, err := s.GetFeatures("cabbage", "0g")
	require.NoError(t, err)

	assert.Zero(t, f.Carbohydrates)
	assert.Zero(t, f.Fiber)
	assert.Zero(t, f.Protein)
	assert.Zero(t, f.Fat)
	assert.Zero(t, f.GlycemicLoad)
	assert.Zero(t, f.ServingGrams)
}

func TestGetFeaturesServings(t *testing.T) {
	s := loadTestStore(t)

	f1, err := s.GetFeatures("cabbage", "1 serving")
	require.NoError(t, err)
	assert.Equal(t, 98.0, f1.ServingGrams)

	f2, err := s.GetFeatures("cabbage", "2 servings")
	require.NoError(t, err)
	assert.Equal(t, 196.0, f2.ServingGrams)
	assert.InDelta(t, f1.Carbohydrates*2, f2.Carbohydrates, 1e-9)

	fHalf, err := s.GetFeatures("cabbage", "0.5 serving")
	require.NoError(t, err)
	assert.Equal(t, 49.0, fHalf.ServingGrams)
}

func TestGetFeaturesNotFound(t *testing.T) {
	s := loadTestStore(t)

	_, err := s.GetFeatures("nonexistent food xyz", "100g")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nonexistent food xyz", nf.Food)
}

func TestGetFeaturesMissingData(t *testing.T) {
	s := loadTestStore(t)

	_, err := s.GetFeatures("mystery snack", "100g")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingData)

	var md *apperrors.MissingDataError
	require.ErrorAs(t, err, &md)
	assert.Equal(t, "mystery snack", md.Food)
	assert.Contains(t, md.Fields, "glycemic_index")
}

func TestGetFeaturesInvalidServing(t *testing.T) {
	s := loadTestStore(t)

	for _, serving := range []string{"", "-100g", "-1 serving", "abc", "100", "g", "serving", "100kg"} {
		_, err := s.GetFeatures("cabbage", serving)
		assert.ErrorIs(t, err, apperrors.ErrInvalidServing, "serving %q", serving)
	}
}

func TestParseServing(t *testing.T) {
	tests := []struct {
		in    string
		base  float64
		want  float64
		valid bool
	}{
		{"100g", 98, 100, true},
		{"100 g", 98, 100, true},
		{" 250G ", 98, 250, true},
		{"0g", 98, 0, true},
		{"1 serving", 98, 98, true},
		{"2 servings", 98, 196, true},
		{"2.5 servings", 100, 250, true},
		{"1serving", 98, 98, true},
		{"0 servings", 98, 0, true},
		{"-100g", 98, 0, false},
		{"-2 servings", 98, 0, false},
		{"", 98, 0, false},
		{"servings", 98, 0, false},
		{"hundred g", 98, 0, false},
	}
	for _, tt := range tests {
		got, err := ParseServing(tt.in, tt.base)
		if !tt.valid {
			assert.Error(t, err, "ParseServing(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseServing(%q)", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "ParseServing(%q)", tt.in)
	}
}
