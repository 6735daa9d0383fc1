// Package fusion combines available per-modality metrics into a bounded
// fatigue score with a confidence measure.
package fusion

import (
	"strings"
	"time"

	"fatigue-go/internal/features"
	"fatigue-go/internal/metrics"
	"fatigue-go/internal/models"
)

// NeutralScore is reported when nothing actionable was observed.
const NeutralScore = 45.0

// Analysis is one fusion result, before a timestamp and owner are attached.
type Analysis struct {
	FatigueScore        float64             `json:"fatigue_score"`
	FatigueLevel        models.FatigueLevel `json:"fatigue_level"`
	Confidence          float64             `json:"confidence"`
	ContributingFactors models.FactorMap    `json:"contributing_factors"`
}

// Engine is the scoring contract both strategies satisfy. Predict always
// returns a complete, well-typed result; degraded inputs lower confidence,
// they never fail the call.
type Engine interface {
	Predict(v features.Vector, mask features.Mask, snap metrics.Snapshot, now time.Time) Analysis
	Name() string
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// contributingFactors derives the explanatory flags from raw metrics plus
// the two time-of-day flags, which apply regardless of modality availability.
func contributingFactors(snap metrics.Snapshot, now time.Time) models.FactorMap {
	factors := models.FactorMap{}

	if kb := snap.Keyboard; kb != nil {
		if kb.ErrorRate > 10 {
			factors["high_error_rate"] = models.Factor{
				Value:    kb.ErrorRate,
				Severity: severityAbove(kb.ErrorRate, 15),
			}
		}
		if kb.PauseFrequency > 5 {
			factors["frequent_pauses"] = models.Factor{
				Value:    kb.PauseFrequency,
				Severity: severityAbove(kb.PauseFrequency, 8),
			}
		}
		if kb.KeyPressDuration > 150 {
			factors["slow_key_presses"] = models.Factor{
				Value:    kb.KeyPressDuration,
				Severity: severityAbove(kb.KeyPressDuration, 200),
			}
		}
	}

	if ptr := snap.Pointer; ptr != nil {
		if ptr.MovementSpeed < 100 {
			factors["slow_mouse_movement"] = models.Factor{
				Value:    ptr.MovementSpeed,
				Severity: severityBelow(ptr.MovementSpeed, 50),
			}
		}
	}

	if facial := snap.Facial; facial != nil {
		if facial.EyeBlinkRate < 10 {
			factors["low_blink_rate"] = models.Factor{
				Value:    facial.EyeBlinkRate,
				Severity: severityBelow(facial.EyeBlinkRate, 5),
			}
		}
		if facial.EyeClosureDuration > 300 {
			factors["long_eye_closures"] = models.Factor{
				Value:    facial.EyeClosureDuration,
				Severity: severityAbove(facial.EyeClosureDuration, 500),
			}
		}
	}

	hour := now.Hour()
	if hour >= 14 && hour <= 16 {
		factors["afternoon_slump"] = models.Factor{Severity: models.SeverityModerate}
	} else if hour >= 22 || hour <= 5 {
		factors["late_hours"] = models.Factor{Severity: models.SeverityHigh}
	}

	return factors
}

func severityAbove(value, highThreshold float64) string {
	if value > highThreshold {
		return models.SeverityHigh
	}
	return models.SeverityModerate
}

func severityBelow(value, highThreshold float64) string {
	if value < highThreshold {
		return models.SeverityHigh
	}
	return models.SeverityModerate
}

// expressionFatigue maps the dominant expression label onto a fatigue
// contribution. A simplified placeholder carried over from the source
// system; labels are matched case-insensitively.
func expressionFatigue(expression string) float64 {
	switch strings.ToLower(expression) {
	case "tired":
		return 40
	case "distracted":
		return 25
	case "focused":
		return 10
	default:
		return 15
	}
}
