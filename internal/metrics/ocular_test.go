package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(ts, ear float64, expression string) FrameSample {
	return FrameSample{Timestamp: ts, EyeAspectRatio: ear, Expression: expression}
}

func TestExtractOcular_NoSamples(t *testing.T) {
	_, ok := ExtractOcular(nil)
	assert.False(t, ok)
}

func TestExtractOcular_SingleBlink(t *testing.T) {
	samples := []FrameSample{
		frame(0.00, 0.3, "neutral"),
		frame(0.03, 0.1, "neutral"),
		frame(0.06, 0.1, "neutral"),
		frame(0.09, 0.1, "neutral"),
		frame(0.12, 0.3, "neutral"),
	}

	m, ok := ExtractOcular(samples)
	require.True(t, ok)

	// 3 closed frames at an assumed 30fps is a 100ms closure. A single
	// blink gives no rate.
	assert.InDelta(t, 100.0, m.EyeClosureDuration, 1e-9)
	assert.Zero(t, m.EyeBlinkRate)
}

func TestExtractOcular_TransientClosureRejected(t *testing.T) {
	samples := []FrameSample{
		frame(0.00, 0.3, "neutral"),
		frame(0.03, 0.1, "neutral"),
		frame(0.06, 0.1, "neutral"),
		frame(0.09, 0.3, "neutral"),
	}

	m, ok := ExtractOcular(samples)
	require.True(t, ok)

	// Two closed frames never reach the 3-frame minimum.
	assert.Zero(t, m.EyeClosureDuration)
	assert.Zero(t, m.EyeBlinkRate)
}

func TestExtractOcular_BlinkRate(t *testing.T) {
	var samples []FrameSample
	// Two blinks whose reopenings land 30 seconds apart.
	samples = append(samples,
		frame(0.0, 0.1, "tired"),
		frame(0.1, 0.1, "tired"),
		frame(0.2, 0.1, "tired"),
		frame(0.3, 0.3, "tired"),
	)
	samples = append(samples,
		frame(30.0, 0.1, "tired"),
		frame(30.1, 0.1, "tired"),
		frame(30.2, 0.1, "tired"),
		frame(30.3, 0.3, "tired"),
	)

	m, ok := ExtractOcular(samples)
	require.True(t, ok)

	// 2 blinks over 30s.
	assert.InDelta(t, 4.0, m.EyeBlinkRate, 1e-9)
}

func TestExtractOcular_DominantExpressionTieBreak(t *testing.T) {
	samples := []FrameSample{
		frame(0.0, 0.3, "focused"),
		frame(0.1, 0.3, "tired"),
		frame(0.2, 0.3, "tired"),
		frame(0.3, 0.3, "focused"),
	}

	m, ok := ExtractOcular(samples)
	require.True(t, ok)

	// Ties break toward the label seen first in the stream.
	assert.Equal(t, "focused", m.DominantExpression)
}

func TestExtractOcular_HeadPositionStats(t *testing.T) {
	samples := []FrameSample{
		{Timestamp: 0, EyeAspectRatio: 0.3, Expression: "neutral", Landmarks: LandmarkSummary{NoseX: 100, NoseY: 50}},
		{Timestamp: 1, EyeAspectRatio: 0.3, Expression: "neutral", Landmarks: LandmarkSummary{NoseX: 110, NoseY: 60}},
		{Timestamp: 2, EyeAspectRatio: 0.3, Expression: "neutral", Landmarks: LandmarkSummary{NoseX: 120, NoseY: 70}},
	}

	m, ok := ExtractOcular(samples)
	require.True(t, ok)

	assert.InDelta(t, 110.0, m.HeadPosition.MeanX, 1e-9)
	assert.InDelta(t, 60.0, m.HeadPosition.MeanY, 1e-9)
	assert.InDelta(t, 200.0/3, m.HeadPosition.VarianceX, 1e-9)
	assert.InDelta(t, 200.0/3, m.HeadPosition.VarianceY, 1e-9)
}
