package fusion

import (
	"math"
	"time"

	"fatigue-go/internal/features"
	"fatigue-go/internal/metrics"
	"fatigue-go/internal/models"
)

// Baseline normalization parameters for the heuristic sub-scores, learned
// offline from the reference datasets.
const (
	baseTypingSpeed    = 45.0
	stdTypingSpeed     = 15.0
	basePauseFrequency = 3.0
	stdPauseFrequency  = 2.0
	baseMovementSpeed  = 120.0
	stdMovementSpeed   = 60.0
	baseClickFrequency = 8.0
	stdClickFrequency  = 4.0
	baseBlinkRate      = 20.0
	stdBlinkRate       = 8.0
	baseEyeClosure     = 200.0
	stdEyeClosure      = 100.0
)

// Fixed combination weights, renormalized over the modalities actually
// available. Voice has no heuristic sub-score; it still counts toward
// availability in the confidence term.
const (
	weightTyping  = 0.35
	weightPointer = 0.35
	weightFacial  = 0.30
)

// varianceThreshold on the 0-100 sub-score scale; above it the combined
// score is blended 90/10 toward the neutral midpoint to penalize
// inconsistent signals.
const varianceThreshold = 400.0

// RuleBased is the deterministic, explainable scoring path used when no
// trained model is loaded.
type RuleBased struct{}

func (RuleBased) Name() string { return "rule_based" }

func (RuleBased) Predict(v features.Vector, mask features.Mask, snap metrics.Snapshot, now time.Time) Analysis {
	var scores, weights []float64

	if mask.Has(features.MaskKeyboard) && snap.Keyboard != nil {
		scores = append(scores, typingFatigue(snap.Keyboard))
		weights = append(weights, weightTyping)
	}
	if mask.Has(features.MaskPointer) && snap.Pointer != nil {
		scores = append(scores, pointerFatigue(snap.Pointer))
		weights = append(weights, weightPointer)
	}
	if mask.Has(features.MaskFacial) && snap.Facial != nil {
		scores = append(scores, facialFatigue(snap.Facial))
		weights = append(weights, weightFacial)
	}

	variance := populationVariance(scores)

	score := NeutralScore
	if len(scores) > 0 {
		var totalWeight, weighted float64
		for i, s := range scores {
			weighted += s * weights[i]
			totalWeight += weights[i]
		}
		score = weighted / totalWeight
		if variance > varianceThreshold {
			score = score*0.9 + NeutralScore*0.1
		}
	}
	score = clamp(score, 0, 100)

	return Analysis{
		FatigueScore:        score,
		FatigueLevel:        models.LevelForScore(score),
		Confidence:          ruleConfidence(mask.Count(), variance),
		ContributingFactors: contributingFactors(snap, now),
	}
}

// ruleConfidence grows with the number of observed modalities and with
// inter-modality consistency. Its ceiling of 0.45 keeps it strictly below
// the trained path's 0.5 floor whenever availability is partial.
func ruleConfidence(available int, variance float64) float64 {
	consistency := math.Max(0, 1-variance/1000)
	return 0.30*float64(available)/4 + 0.15*consistency
}

func populationVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return variance / float64(len(values))
}

// typingFatigue: slower typing, more errors and more pauses all push the
// sub-score up. The error term is linear over the capped 0-50 range so the
// score responds over the whole range rather than saturating early.
func typingFatigue(kb *models.KeyboardMetrics) float64 {
	normSpeed := (kb.TypingSpeed - baseTypingSpeed) / stdTypingSpeed
	normPause := (kb.PauseFrequency - basePauseFrequency) / stdPauseFrequency

	speedFatigue := math.Max(0, -normSpeed*20+30)
	errorFatigue := math.Min(100, kb.ErrorRate*2)
	pauseFatigue := math.Max(0, normPause*20+15)

	return clamp(speedFatigue*0.3+errorFatigue*0.4+pauseFatigue*0.3, 0, 100)
}

// pointerFatigue: sluggish movement and sparse clicking push the sub-score
// up. A zero-crossing-era heuristic kept for explainability.
func pointerFatigue(ptr *models.PointerMetrics) float64 {
	normMove := (ptr.MovementSpeed - baseMovementSpeed) / stdMovementSpeed
	normClick := (ptr.ClickFrequency - baseClickFrequency) / stdClickFrequency

	movementFatigue := math.Max(0, -normMove*25+25)
	clickFatigue := math.Max(0, -normClick*15+20)

	return clamp(movementFatigue*0.6+clickFatigue*0.4, 0, 100)
}

// facialFatigue: blink rates far from baseline in either direction, long
// eye closures and a tired expression push the sub-score up.
func facialFatigue(facial *models.FacialMetrics) float64 {
	normBlink := (facial.EyeBlinkRate - baseBlinkRate) / stdBlinkRate
	normClosure := (facial.EyeClosureDuration - baseEyeClosure) / stdEyeClosure

	blinkFatigue := math.Max(0, math.Abs(normBlink)*15+10)
	closureFatigue := math.Max(0, normClosure*20+15)
	exprFatigue := expressionFatigue(facial.DominantExpression)

	return clamp(blinkFatigue*0.3+closureFatigue*0.4+exprFatigue*0.3, 0, 100)
}
