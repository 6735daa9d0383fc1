package fusion

import (
	"testing"
	"time"

	"fatigue-go/internal/features"
	"fatigue-go/internal/metrics"
	"fatigue-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noon = time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

func assemble(t *testing.T, snap metrics.Snapshot, now time.Time) (features.Vector, features.Mask) {
	t.Helper()
	return features.NewAssembler().Assemble(snap, now)
}

func TestRuleBased_AllAbsentIsNeutral(t *testing.T) {
	snap := metrics.Snapshot{}
	v, mask := assemble(t, snap, noon)

	a := RuleBased{}.Predict(v, mask, snap, noon)

	assert.Equal(t, NeutralScore, a.FatigueScore)
	assert.Equal(t, models.LevelModerate, a.FatigueLevel)
	assert.LessOrEqual(t, a.Confidence, 0.5)
	assert.Empty(t, a.ContributingFactors)
}

func TestRuleBased_ErrorFatigueStrictlyMonotoneUpToCap(t *testing.T) {
	sub := func(errorRate float64) float64 {
		return typingFatigue(&models.KeyboardMetrics{
			TypingSpeed:    45,
			ErrorRate:      errorRate,
			PauseFrequency: 3,
		})
	}

	prev := sub(0)
	for rate := 1.0; rate <= 50; rate++ {
		cur := sub(rate)
		assert.Greaterf(t, cur, prev, "sub-score must strictly increase at error_rate=%v", rate)
		prev = cur
	}

	// The extractor caps error_rate at 50; at the cap further increases in
	// the underlying correction fraction change nothing.
	assert.Equal(t, sub(50), sub(50))
}

func TestRuleBased_ConfidenceGrowsWithAvailability(t *testing.T) {
	kb := &models.KeyboardMetrics{TypingSpeed: 45, ErrorRate: 5, PauseFrequency: 3, KeyPressDuration: 100}
	one := metrics.Snapshot{Keyboard: kb}
	three := metrics.Snapshot{
		Keyboard: kb,
		Pointer:  &models.PointerMetrics{MovementSpeed: 120, ClickFrequency: 8},
		Facial:   &models.FacialMetrics{EyeBlinkRate: 20, EyeClosureDuration: 200, DominantExpression: "neutral"},
	}

	v1, m1 := assemble(t, one, noon)
	v3, m3 := assemble(t, three, noon)

	a1 := RuleBased{}.Predict(v1, m1, one, noon)
	a3 := RuleBased{}.Predict(v3, m3, three, noon)

	assert.LessOrEqual(t, a1.Confidence, a3.Confidence)
}

func TestRuleBased_ConfidenceBelowTrainedFloor(t *testing.T) {
	// Rule-based confidence never reaches the trained path's 0.5 floor,
	// even with every modality present and zero variance.
	for available := 0; available <= 4; available++ {
		assert.Less(t, ruleConfidence(available, 0), 0.5)
	}
}

func TestRuleBased_VarianceBlendsTowardNeutral(t *testing.T) {
	// A very fatigued keyboard signal against a fresh pointer signal.
	snap := metrics.Snapshot{
		Keyboard: &models.KeyboardMetrics{TypingSpeed: 10, ErrorRate: 50, PauseFrequency: 10},
		Pointer:  &models.PointerMetrics{MovementSpeed: 300, ClickFrequency: 20},
	}
	v, mask := assemble(t, snap, noon)

	kbScore := typingFatigue(snap.Keyboard)
	ptrScore := pointerFatigue(snap.Pointer)
	variance := populationVariance([]float64{kbScore, ptrScore})
	require.Greater(t, variance, varianceThreshold)

	raw := (kbScore*weightTyping + ptrScore*weightPointer) / (weightTyping + weightPointer)
	want := clamp(raw*0.9+NeutralScore*0.1, 0, 100)

	a := RuleBased{}.Predict(v, mask, snap, noon)
	assert.InDelta(t, want, a.FatigueScore, 1e-9)
}

func TestRuleBased_WeightsRenormalized(t *testing.T) {
	// With a single modality the combined score equals its sub-score.
	snap := metrics.Snapshot{
		Facial: &models.FacialMetrics{EyeBlinkRate: 20, EyeClosureDuration: 200, DominantExpression: "tired"},
	}
	v, mask := assemble(t, snap, noon)

	a := RuleBased{}.Predict(v, mask, snap, noon)
	assert.InDelta(t, facialFatigue(snap.Facial), a.FatigueScore, 1e-9)
}

func TestRuleBased_ScoreStaysBounded(t *testing.T) {
	snap := metrics.Snapshot{
		Keyboard: &models.KeyboardMetrics{TypingSpeed: 0, ErrorRate: 50, PauseFrequency: 50, KeyPressDuration: 500},
		Facial:   &models.FacialMetrics{EyeBlinkRate: 0, EyeClosureDuration: 2000, DominantExpression: "tired"},
	}
	v, mask := assemble(t, snap, noon)

	a := RuleBased{}.Predict(v, mask, snap, noon)
	assert.GreaterOrEqual(t, a.FatigueScore, 0.0)
	assert.LessOrEqual(t, a.FatigueScore, 100.0)
}
