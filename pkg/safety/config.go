package safety

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// thresholdFile is the on-disk shape of a threshold override file. Omitted
// fields keep their defaults, so a file can override a single band.
type thresholdFile struct {
	SafeGL    *float64 `yaml:"safe_gl"`
	CautionGL *float64 `yaml:"caution_gl"`
	SafeGI    *float64 `yaml:"safe_gi"`
	CautionGI *float64 `yaml:"caution_gi"`
}

// LoadThresholds reads a YAML threshold override file and merges it over
// the defaults.
func LoadThresholds(path string) (Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thresholds{}, fmt.Errorf("failed to read thresholds file: %w", err)
	}

	var file thresholdFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Thresholds{}, fmt.Errorf("failed to parse thresholds file: %w", err)
	}

	t := DefaultThresholds()
	if file.SafeGL != nil {
		t.SafeGL = *file.SafeGL
	}
	if file.CautionGL != nil {
		t.CautionGL = *file.CautionGL
	}
	if file.SafeGI != nil {
		t.SafeGI = *file.SafeGI
	}
	if file.CautionGI != nil {
		t.CautionGI = *file.CautionGI
	}

	if err := t.validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

func (t Thresholds) validate() error {
	if t.SafeGL > t.CautionGL {
		return fmt.Errorf("safe_gl (%.1f) must not exceed caution_gl (%.1f)", t.SafeGL, t.CautionGL)
	}
	if t.SafeGI > t.CautionGI {
		return fmt.Errorf("safe_gi (%.1f) must not exceed caution_gi (%.1f)", t.SafeGI, t.CautionGI)
	}
	return nil
}
