package metrics

import "fatigue-go/internal/models"

// Raw event payloads as delivered by the capture collaborators. Timestamps
// are monotonic seconds and non-decreasing within one modality's stream.

type KeyEventKind string

const (
	KeyPress   KeyEventKind = "press"
	KeyRelease KeyEventKind = "release"
)

type KeyEvent struct {
	Timestamp    float64      `json:"timestamp"`
	KeyID        string       `json:"key_id"`
	Kind         KeyEventKind `json:"event_kind"`
	IsCorrection bool         `json:"is_correction"`
}

type PointerEventKind string

const (
	PointerMove   PointerEventKind = "move"
	PointerClick  PointerEventKind = "click"
	PointerScroll PointerEventKind = "scroll"
)

type PointerEvent struct {
	Timestamp float64          `json:"timestamp"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
	Kind      PointerEventKind `json:"event_kind"`
	Button    string           `json:"button,omitempty"`
}

// LandmarkSummary is the reduced facial landmark set kept per frame.
type LandmarkSummary struct {
	NoseX float64 `json:"nose_x"`
	NoseY float64 `json:"nose_y"`
	ChinX float64 `json:"chin_x"`
	ChinY float64 `json:"chin_y"`
}

// FrameSample is one processed video frame.
type FrameSample struct {
	Timestamp      float64         `json:"timestamp"`
	EyeAspectRatio float64         `json:"eye_aspect_ratio"`
	Expression     string          `json:"expression_label"`
	Landmarks      LandmarkSummary `json:"landmark_summary"`
}

// VoiceSample is one recorded audio chunk, already reduced to acoustic
// features by the signal-processing collaborator.
type VoiceSample struct {
	Timestamp         float64     `json:"timestamp"`
	MFCC              [13]float64 `json:"mfcc_vector"`
	RMS               float64     `json:"rms"`
	ZeroCrossingRate  float64     `json:"zero_crossing_rate"`
	SpectralCentroid  float64     `json:"spectral_centroid"`
	SpectralBandwidth float64     `json:"spectral_bandwidth"`
	PitchMean         float64     `json:"pitch_mean"`
	PitchStd          float64     `json:"pitch_std"`
	OnsetRate         float64     `json:"onset_rate"`
}

// Snapshot bundles the per-modality metric vectors of one collection window.
// A nil field means the modality produced no actionable events; absence
// propagates to the feature assembler rather than being zero-filled here.
type Snapshot struct {
	Keyboard *models.KeyboardMetrics `json:"keyboard"`
	Pointer  *models.PointerMetrics  `json:"pointer"`
	Facial   *models.FacialMetrics   `json:"facial"`
	Voice    *models.VoiceMetrics    `json:"voice"`
}
