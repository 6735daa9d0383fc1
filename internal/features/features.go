// Package features turns per-modality metric vectors into the fixed-width
// feature vector every scoring strategy consumes.
package features

import (
	"math"
	"sync/atomic"
	"time"

	"fatigue-go/internal/metrics"
	"fatigue-go/internal/models"
)

// Width is the feature vector contract: 4 keyboard + 2 pointer + 2 facial +
// 4 voice + hour-of-day + day-of-week.
const Width = 14

// ScaledWidth covers the modality positions; the two time features are
// already normalized and pass through unscaled.
const ScaledWidth = 12

// Vector is one assembled feature vector. Constructed fresh per analysis
// request and never persisted.
type Vector [Width]float64

// Mask records which modalities were genuinely observed, not defaulted.
type Mask uint8

const (
	MaskKeyboard Mask = 1 << iota
	MaskPointer
	MaskFacial
	MaskVoice
)

// Has reports whether the modality bit is set.
func (m Mask) Has(bit Mask) bool { return m&bit != 0 }

// Count returns how many modalities were observed.
func (m Mask) Count() int {
	count := 0
	for bit := MaskKeyboard; bit <= MaskVoice; bit <<= 1 {
		if m.Has(bit) {
			count++
		}
	}
	return count
}

// Scaler holds a per-feature standardization fit over the modality columns.
type Scaler struct {
	Means [ScaledWidth]float64 `yaml:"means"`
	Stds  [ScaledWidth]float64 `yaml:"stds"`
}

// IdentityScaler passes features through unchanged.
func IdentityScaler() *Scaler {
	s := &Scaler{}
	for i := range s.Stds {
		s.Stds[i] = 1
	}
	return s
}

func (s *Scaler) standardize(i int, value float64) float64 {
	std := s.Stds[i]
	if std <= 0 {
		std = 1
	}
	return (value - s.Means[i]) / std
}

// Fit computes per-column mean and standard deviation from historical metric
// rows. A column with fewer than 2 samples keeps the identity transform.
func Fit(columns [ScaledWidth][]float64) *Scaler {
	s := IdentityScaler()
	for i, column := range columns {
		if len(column) < 2 {
			continue
		}
		var sum float64
		for _, v := range column {
			sum += v
		}
		mean := sum / float64(len(column))

		var variance float64
		for _, v := range column {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(column) - 1)

		s.Means[i] = mean
		if std := math.Sqrt(variance); std > 0 {
			s.Stds[i] = std
		}
	}
	return s
}

// HistoryColumns arranges historical metric rows into fitting columns in
// feature-vector order.
func HistoryColumns(
	keyboard []models.KeyboardMetrics,
	pointer []models.PointerMetrics,
	facial []models.FacialMetrics,
	voice []models.VoiceMetrics,
) [ScaledWidth][]float64 {
	var columns [ScaledWidth][]float64
	for _, row := range keyboard {
		columns[0] = append(columns[0], row.TypingSpeed)
		columns[1] = append(columns[1], row.ErrorRate)
		columns[2] = append(columns[2], row.PauseFrequency)
		columns[3] = append(columns[3], row.KeyPressDuration)
	}
	for _, row := range pointer {
		columns[4] = append(columns[4], row.MovementSpeed)
		columns[5] = append(columns[5], row.ClickFrequency)
	}
	for _, row := range facial {
		columns[6] = append(columns[6], row.EyeBlinkRate)
		columns[7] = append(columns[7], row.EyeClosureDuration)
	}
	for _, row := range voice {
		columns[8] = append(columns[8], row.SpeechRate)
		columns[9] = append(columns[9], row.PitchVariation)
		columns[10] = append(columns[10], row.Volume)
		columns[11] = append(columns[11], row.Clarity)
	}
	return columns
}

// Assembler merges optional modality metrics into feature vectors. The
// scaler is swapped as a snapshot so refits never race in-flight assembly.
type Assembler struct {
	scaler atomic.Pointer[Scaler]
}

// NewAssembler starts with the identity scaler.
func NewAssembler() *Assembler {
	a := &Assembler{}
	a.scaler.Store(IdentityScaler())
	return a
}

// SetScaler installs a new fit. Readers see either the old or the new fit,
// never a partial update.
func (a *Assembler) SetScaler(s *Scaler) {
	if s != nil {
		a.scaler.Store(s)
	}
}

// Scaler returns the current fit.
func (a *Assembler) Scaler() *Scaler {
	return a.scaler.Load()
}

// Assemble builds the feature vector and availability mask for one snapshot.
// Absent modalities fill their slots with the zero placeholder and leave
// their mask bit unset. Time features are always available.
func (a *Assembler) Assemble(snap metrics.Snapshot, now time.Time) (Vector, Mask) {
	scaler := a.scaler.Load()
	var v Vector
	var mask Mask

	if snap.Keyboard != nil {
		mask |= MaskKeyboard
		v[0] = scaler.standardize(0, snap.Keyboard.TypingSpeed)
		v[1] = scaler.standardize(1, snap.Keyboard.ErrorRate)
		v[2] = scaler.standardize(2, snap.Keyboard.PauseFrequency)
		v[3] = scaler.standardize(3, snap.Keyboard.KeyPressDuration)
	}
	if snap.Pointer != nil {
		mask |= MaskPointer
		v[4] = scaler.standardize(4, snap.Pointer.MovementSpeed)
		v[5] = scaler.standardize(5, snap.Pointer.ClickFrequency)
	}
	if snap.Facial != nil {
		mask |= MaskFacial
		v[6] = scaler.standardize(6, snap.Facial.EyeBlinkRate)
		v[7] = scaler.standardize(7, snap.Facial.EyeClosureDuration)
	}
	if snap.Voice != nil {
		mask |= MaskVoice
		v[8] = scaler.standardize(8, snap.Voice.SpeechRate)
		v[9] = scaler.standardize(9, snap.Voice.PitchVariation)
		v[10] = scaler.standardize(10, snap.Voice.Volume)
		v[11] = scaler.standardize(11, snap.Voice.Clarity)
	}

	v[12] = float64(now.Hour()) / 24.0
	// Monday-based weekday, normalized over its 0..6 range.
	v[13] = float64((int(now.Weekday())+6)%7) / 6.0

	for i, value := range v {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			v[i] = 0
		}
	}
	return v, mask
}
