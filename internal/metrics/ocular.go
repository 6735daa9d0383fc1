package metrics

import (
	"sort"

	"fatigue-go/internal/models"
)

const (
	// Eye aspect ratio below this counts the frame as closed.
	earThreshold = 0.2
	// Consecutive closed frames required before a reopening counts as a blink.
	blinkConsecFrames = 3
	// The capture collaborator delivers frames at a nominal 30fps.
	assumedFrameRate = 30.0
)

type blink struct {
	timestamp float64
	duration  float64
}

// ExtractOcular converts drained per-frame samples into ocular/facial
// metrics. ok is false when no samples were recorded.
func ExtractOcular(samples []FrameSample) (models.FacialMetrics, bool) {
	if len(samples) == 0 {
		return models.FacialMetrics{}, false
	}

	sorted := make([]FrameSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	// Blink detection: accumulate closed frames while EAR is under the
	// threshold; a reopening after >=3 closed frames emits one blink, a
	// shorter run is rejected as transient noise.
	var blinks []blink
	closedFrames := 0
	for _, sample := range sorted {
		if sample.EyeAspectRatio < earThreshold {
			closedFrames++
			continue
		}
		if closedFrames >= blinkConsecFrames {
			blinks = append(blinks, blink{
				timestamp: sample.Timestamp,
				duration:  float64(closedFrames) / assumedFrameRate,
			})
		}
		closedFrames = 0
	}

	blinkRate := 0.0
	if len(blinks) >= 2 {
		elapsed := (blinks[len(blinks)-1].timestamp - blinks[0].timestamp) / 60
		if elapsed < 1.0/60 {
			elapsed = 1.0 / 60
		}
		blinkRate = float64(len(blinks)) / elapsed
	}

	closureDuration := 0.0
	if len(blinks) > 0 {
		var sum float64
		for _, b := range blinks {
			sum += b.duration
		}
		closureDuration = sum / float64(len(blinks)) * 1000
	}

	// Dominant expression is the mode; ties break toward the label seen
	// first in the stream.
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, sample := range sorted {
		if _, seen := counts[sample.Expression]; !seen {
			order = append(order, sample.Expression)
		}
		counts[sample.Expression]++
	}
	dominant := ""
	best := 0
	for _, label := range order {
		if counts[label] > best {
			dominant = label
			best = counts[label]
		}
	}

	return models.FacialMetrics{
		EyeBlinkRate:       blinkRate,
		EyeClosureDuration: closureDuration,
		DominantExpression: dominant,
		HeadPosition:       headPositionStats(sorted),
	}, true
}

func headPositionStats(samples []FrameSample) models.HeadPositionStats {
	n := float64(len(samples))
	var sumX, sumY float64
	for _, sample := range samples {
		sumX += sample.Landmarks.NoseX
		sumY += sample.Landmarks.NoseY
	}
	meanX := sumX / n
	meanY := sumY / n

	var varX, varY float64
	for _, sample := range samples {
		dx := sample.Landmarks.NoseX - meanX
		dy := sample.Landmarks.NoseY - meanY
		varX += dx * dx
		varY += dy * dy
	}

	return models.HeadPositionStats{
		MeanX:     meanX,
		MeanY:     meanY,
		VarianceX: varX / n,
		VarianceY: varY / n,
	}
}
