package features

import (
	"math"
	"testing"
	"time"

	"fatigue-go/internal/metrics"
	"fatigue-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSnapshot() metrics.Snapshot {
	return metrics.Snapshot{
		Keyboard: &models.KeyboardMetrics{TypingSpeed: 200, ErrorRate: 5, PauseFrequency: 2, KeyPressDuration: 120},
		Pointer:  &models.PointerMetrics{MovementSpeed: 150, ClickFrequency: 10},
		Facial:   &models.FacialMetrics{EyeBlinkRate: 15, EyeClosureDuration: 180},
		Voice:    &models.VoiceMetrics{SpeechRate: 3, PitchVariation: 12, Volume: 0.4, Clarity: 0.8},
	}
}

func TestAssemble_WidthAndFiniteness(t *testing.T) {
	a := NewAssembler()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		snap metrics.Snapshot
	}{
		{"all present", fullSnapshot()},
		{"all absent", metrics.Snapshot{}},
		{"keyboard only", metrics.Snapshot{Keyboard: fullSnapshot().Keyboard}},
		{"pathological values", metrics.Snapshot{
			Keyboard: &models.KeyboardMetrics{TypingSpeed: math.Inf(1), ErrorRate: math.NaN()},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := a.Assemble(tt.snap, now)
			require.Len(t, v, Width)
			for i, value := range v {
				assert.Falsef(t, math.IsNaN(value) || math.IsInf(value, 0),
					"element %d must be finite, got %v", i, value)
			}
		})
	}
}

func TestAssemble_MaskTracksObservedModalities(t *testing.T) {
	a := NewAssembler()
	now := time.Now()

	_, mask := a.Assemble(metrics.Snapshot{}, now)
	assert.Equal(t, 0, mask.Count())

	snap := fullSnapshot()
	_, mask = a.Assemble(snap, now)
	assert.Equal(t, 4, mask.Count())
	assert.True(t, mask.Has(MaskKeyboard))
	assert.True(t, mask.Has(MaskVoice))

	snap.Voice = nil
	snap.Facial = nil
	_, mask = a.Assemble(snap, now)
	assert.Equal(t, 2, mask.Count())
	assert.True(t, mask.Has(MaskPointer))
	assert.False(t, mask.Has(MaskFacial))
}

func TestAssemble_TimeFeatures(t *testing.T) {
	a := NewAssembler()

	// A Wednesday at 18:00.
	now := time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC)
	v, _ := a.Assemble(metrics.Snapshot{}, now)
	assert.InDelta(t, 18.0/24, v[12], 1e-9)
	assert.InDelta(t, 2.0/6, v[13], 1e-9)

	// Monday maps to 0 and Sunday to 1.
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	v, _ = a.Assemble(metrics.Snapshot{}, monday)
	assert.Zero(t, v[13])

	sunday := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	v, _ = a.Assemble(metrics.Snapshot{}, sunday)
	assert.InDelta(t, 1.0, v[13], 1e-9)
}

func TestAssemble_AppliesScaler(t *testing.T) {
	a := NewAssembler()
	scaler := IdentityScaler()
	scaler.Means[0] = 100
	scaler.Stds[0] = 50
	a.SetScaler(scaler)

	v, _ := a.Assemble(metrics.Snapshot{
		Keyboard: &models.KeyboardMetrics{TypingSpeed: 200},
	}, time.Now())
	assert.InDelta(t, 2.0, v[0], 1e-9)
}

func TestFit(t *testing.T) {
	var columns [ScaledWidth][]float64
	columns[0] = []float64{10, 20, 30}
	columns[1] = []float64{5} // too few samples, stays identity

	s := Fit(columns)
	assert.InDelta(t, 20.0, s.Means[0], 1e-9)
	assert.InDelta(t, 10.0, s.Stds[0], 1e-9) // sample std
	assert.Zero(t, s.Means[1])
	assert.Equal(t, 1.0, s.Stds[1])
}

func TestHistoryColumns(t *testing.T) {
	columns := HistoryColumns(
		[]models.KeyboardMetrics{{TypingSpeed: 100, ErrorRate: 2, PauseFrequency: 1, KeyPressDuration: 90}},
		[]models.PointerMetrics{{MovementSpeed: 120, ClickFrequency: 8}, {MovementSpeed: 140, ClickFrequency: 9}},
		nil,
		[]models.VoiceMetrics{{SpeechRate: 2, PitchVariation: 11, Volume: 0.3, Clarity: 0.9}},
	)

	assert.Equal(t, []float64{100}, columns[0])
	assert.Equal(t, []float64{120, 140}, columns[4])
	assert.Empty(t, columns[6])
	assert.Equal(t, []float64{0.9}, columns[11])
}

func TestSetScalerIgnoresNil(t *testing.T) {
	a := NewAssembler()
	before := a.Scaler()
	a.SetScaler(nil)
	assert.Same(t, before, a.Scaler())
}
