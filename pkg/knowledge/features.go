package knowledge

import (
	"strconv"
	"strings"

	"github.com/dellavent/glycemicguard/pkg/common/errors"
)

// Features is the per-serving view of one record, created fresh per query.
// GlycemicIndex is serving-invariant; the macros and GlycemicLoad scale
// linearly with the resolved serving mass.
type Features struct {
	GlycemicIndex   float64 `json:"glycemic_index"`
	GlycemicLoad    float64 `json:"glycemic_load"`
	Carbohydrates   float64 `json:"carbohydrates"`
	Fiber           float64 `json:"fiber"`
	Protein         float64 `json:"protein"`
	Fat             float64 `json:"fat"`
	ProcessingLevel string  `json:"processing_level"`
	ServingGrams    float64 `json:"serving_size_grams"`
}

// GetFeatures resolves name, verifies record completeness, resolves the
// serving expression to grams and returns the scaled features.
func (s *Store) GetFeatures(name, serving string) (Features, error) {
	rec, ok := s.records[Normalize(name)]
	if !ok {
		return Features{}, &errors.NotFoundError{Food: name}
	}

	if missing := rec.missingFields(); len(missing) > 0 {
		return Features{}, &errors.MissingDataError{Food: rec.Name, Fields: missing}
	}

	grams, err := ParseServing(serving, *rec.ServingGrams)
	if err != nil {
		return Features{}, err
	}

	scale := grams / 100.0
	carbs := *rec.Carbohydrates * scale

	return Features{
		GlycemicIndex:   *rec.GlycemicIndex,
		GlycemicLoad:    (*rec.GlycemicIndex * carbs) / 100.0,
		Carbohydrates:   carbs,
		Fiber:           *rec.Fiber * scale,
		Protein:         *rec.Protein * scale,
		Fat:             *rec.Fat * scale,
		ProcessingLevel: rec.ProcessingLevel,
		ServingGrams:    grams,
	}, nil
}

// missingFields lists the source columns a feature derivation needs but the
// record does not have. Completeness is checked at query time, not load
// time: partially populated records are fine to store, just not to query.
func (r FoodRecord) missingFields() []string {
	var missing []string
	if r.GlycemicIndex == nil {
		missing = append(missing, colGlycemicIndex)
	}
	if r.Carbohydrates == nil {
		missing = append(missing, colCarbohydrates)
	}
	if r.Fiber == nil {
		missing = append(missing, colFiber)
	}
	if r.Protein == nil {
		missing = append(missing, colProtein)
	}
	if r.Fat == nil {
		missing = append(missing, colFat)
	}
	if r.ProcessingLevel == "" {
		missing = append(missing, colProcessingLevel)
	}
	if r.ServingGrams == nil {
		missing = append(missing, colServingGrams)
	}
	return missing
}

// ParseServing converts a serving expression to grams. Accepted forms:
// "100g", "100 g", "1 serving", "2.5 servings" (case-insensitive,
// surrounding whitespace tolerated). baseGrams is the record's mass of one
// serving. The "serving" form is matched before the gram suffix so that
// "serving" is never mistaken for a number ending in g.
func ParseServing(serving string, baseGrams float64) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(serving))

	switch {
	case s == "":
		return 0, &errors.ServingFormatError{Input: serving}

	case strings.Contains(s, "serving"):
		n, err := strconv.ParseFloat(strings.TrimSpace(s[:strings.Index(s, "serving")]), 64)
		if err != nil || n < 0 {
			return 0, &errors.ServingFormatError{Input: serving}
		}
		return n * baseGrams, nil

	case strings.HasSuffix(s, "g"):
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "g")), 64)
		if err != nil || n < 0 {
			return 0, &errors.ServingFormatError{Input: serving}
		}
		return n, nil

	default:
		return 0, &errors.ServingFormatError{Input: serving}
	}
}
