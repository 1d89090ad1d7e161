// Package safety classifies foods as safe, caution or unsafe for blood
// glucose using threshold rules over glycemic load and glycemic index.
package safety

import (
	"fmt"

	"github.com/dellavent/glycemicguard/pkg/knowledge"
)

// Label is the tri-state safety classification.
type Label string

const (
	LabelSafe    Label = "safe"
	LabelCaution Label = "caution"
	LabelUnsafe  Label = "unsafe"
)

// severity orders labels for priority combination: unsafe > caution > safe.
func (l Label) severity() int {
	switch l {
	case LabelUnsafe:
		return 2
	case LabelCaution:
		return 1
	default:
		return 0
	}
}

// Thresholds holds the band boundaries for both axes. A value exactly at a
// threshold belongs to the lower-severity band.
type Thresholds struct {
	SafeGL    float64 `yaml:"safe_gl" json:"safe_gl"`
	CautionGL float64 `yaml:"caution_gl" json:"caution_gl"`
	SafeGI    float64 `yaml:"safe_gi" json:"safe_gi"`
	CautionGI float64 `yaml:"caution_gi" json:"caution_gi"`
}

// DefaultThresholds returns the standard clinical bands: GL 10/20, GI 55/70.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SafeGL:    10.0,
		CautionGL: 20.0,
		SafeGI:    55.0,
		CautionGI: 70.0,
	}
}

// Verdict is the classification result with an auditable explanation
// citing both axis values and the relevant thresholds.
type Verdict struct {
	Label       Label  `json:"safety_label"`
	Explanation string `json:"explanation"`
}

// Categorize places a value into a band: value <= safe is safe, value <=
// caution is caution, anything above is unsafe.
func Categorize(value, safe, caution float64) Label {
	switch {
	case value <= safe:
		return LabelSafe
	case value <= caution:
		return LabelCaution
	default:
		return LabelUnsafe
	}
}

// Evaluate classifies the GL and GI axes independently and combines them by
// severity priority. The explanation always covers both axes so the
// rationale is auditable even when one axis does not decide the label.
func Evaluate(f knowledge.Features, t Thresholds) Verdict {
	glCat := Categorize(f.GlycemicLoad, t.SafeGL, t.CautionGL)
	giCat := Categorize(f.GlycemicIndex, t.SafeGI, t.CautionGI)

	label := glCat
	if giCat.severity() > glCat.severity() {
		label = giCat
	}

	explanation := fmt.Sprintf("%s %s",
		axisSentence("Glycemic load", f.GlycemicLoad, glCat, t.SafeGL, t.CautionGL),
		axisSentence("Glycemic index", f.GlycemicIndex, giCat, t.SafeGI, t.CautionGI))

	return Verdict{Label: label, Explanation: explanation}
}

func axisSentence(axis string, value float64, cat Label, safe, caution float64) string {
	switch cat {
	case LabelSafe:
		return fmt.Sprintf("%s %.1f is within the safe range (<= %.1f).", axis, value, safe)
	case LabelCaution:
		return fmt.Sprintf("%s %.1f exceeds the safe threshold (%.1f) but is within the caution range (<= %.1f).", axis, value, safe, caution)
	default:
		return fmt.Sprintf("%s %.1f exceeds the caution threshold (%.1f).", axis, value, caution)
	}
}
