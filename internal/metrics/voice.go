package metrics

import "fatigue-go/internal/models"

// ExtractVoice converts drained acoustic feature samples into prosodic voice
// metrics. ok is false when no samples were recorded.
func ExtractVoice(samples []VoiceSample) (models.VoiceMetrics, bool) {
	if len(samples) == 0 {
		return models.VoiceMetrics{}, false
	}

	var onsetSum, pitchStdSum, rmsSum float64
	maxCentroid, maxBandwidth := 0.0, 0.0
	for _, sample := range samples {
		onsetSum += sample.OnsetRate
		pitchStdSum += sample.PitchStd
		rmsSum += sample.RMS
		if sample.SpectralCentroid > maxCentroid {
			maxCentroid = sample.SpectralCentroid
		}
		if sample.SpectralBandwidth > maxBandwidth {
			maxBandwidth = sample.SpectralBandwidth
		}
	}
	n := float64(len(samples))

	// Clarity normalizes against the window maxima; the divisor is floored
	// at 1 to guard empty or silent windows.
	if maxCentroid < 1 {
		maxCentroid = 1
	}
	if maxBandwidth < 1 {
		maxBandwidth = 1
	}
	var claritySum float64
	for _, sample := range samples {
		claritySum += 0.7*(sample.SpectralCentroid/maxCentroid) + 0.3*(1-sample.SpectralBandwidth/maxBandwidth)
	}
	clarity := claritySum / n
	if clarity < 0 {
		clarity = 0
	}
	if clarity > 1 {
		clarity = 1
	}

	return models.VoiceMetrics{
		SpeechRate:     onsetSum / n,
		PitchVariation: pitchStdSum / n,
		Volume:         rmsSum / n,
		Clarity:        clarity,
	}, true
}
