package models

import (
	"database/sql/driver"
	"time"
)

// Modality names a behavioral signal source.
type Modality string

const (
	ModalityKeyboard Modality = "keyboard"
	ModalityPointer  Modality = "pointer"
	ModalityFacial   Modality = "facial"
	ModalityVoice    Modality = "voice"
)

// BehavioralEvent stores one drained batch of raw events for a modality.
type BehavioralEvent struct {
	ID        int      `gorm:"primaryKey"`
	UserID    string   `gorm:"index"`
	Modality  Modality `gorm:"type:varchar(20)"`
	RawData   JSONText `gorm:"type:jsonb"`
	Timestamp time.Time
}

// KeyboardMetrics summarizes one collection window of keystroke dynamics.
// TypingSpeed is key presses per minute, ErrorRate a percentage in [0,50],
// PauseFrequency pauses per minute and KeyPressDuration a mean in ms.
type KeyboardMetrics struct {
	ID               int       `gorm:"primaryKey" json:"-"`
	UserID           string    `gorm:"index" json:"-"`
	TypingSpeed      float64   `json:"typing_speed"`
	ErrorRate        float64   `json:"error_rate"`
	PauseFrequency   float64   `json:"pause_frequency"`
	KeyPressDuration float64   `json:"key_press_duration"`
	Timestamp        time.Time `json:"timestamp"`
}

// MovementPattern is the coarse pointer trajectory summary kept alongside
// the scalar pointer metrics.
type MovementPattern struct {
	TotalDistance    float64      `json:"total_distance"`
	DirectionChanges int          `json:"direction_changes"`
	ClickPositions   [][2]float64 `json:"click_positions"`
}

func (p MovementPattern) Value() (driver.Value, error)  { return jsonValue(p) }
func (p *MovementPattern) Scan(value interface{}) error { return jsonScan(value, p) }

// PointerMetrics summarizes one collection window of pointer dynamics.
type PointerMetrics struct {
	ID              int             `gorm:"primaryKey" json:"-"`
	UserID          string          `gorm:"index" json:"-"`
	MovementSpeed   float64         `json:"movement_speed"`
	ClickFrequency  float64         `json:"click_frequency"`
	MovementPattern MovementPattern `gorm:"type:jsonb" json:"movement_pattern"`
	Timestamp       time.Time       `json:"timestamp"`
}

// HeadPositionStats holds mean and variance of the tracked nose position.
type HeadPositionStats struct {
	MeanX     float64 `json:"mean_x"`
	MeanY     float64 `json:"mean_y"`
	VarianceX float64 `json:"variance_x"`
	VarianceY float64 `json:"variance_y"`
}

func (h HeadPositionStats) Value() (driver.Value, error)  { return jsonValue(h) }
func (h *HeadPositionStats) Scan(value interface{}) error { return jsonScan(value, h) }

// FacialMetrics summarizes one collection window of ocular/facial samples.
type FacialMetrics struct {
	ID                 int               `gorm:"primaryKey" json:"-"`
	UserID             string            `gorm:"index" json:"-"`
	EyeBlinkRate       float64           `json:"eye_blink_rate"`
	EyeClosureDuration float64           `json:"eye_closure_duration"`
	DominantExpression string            `gorm:"type:varchar(50)" json:"dominant_expression"`
	HeadPosition       HeadPositionStats `gorm:"type:jsonb" json:"head_position"`
	Timestamp          time.Time         `json:"timestamp"`
}

// VoiceMetrics summarizes one collection window of prosodic voice samples.
type VoiceMetrics struct {
	ID             int       `gorm:"primaryKey" json:"-"`
	UserID         string    `gorm:"index" json:"-"`
	SpeechRate     float64   `json:"speech_rate"`
	PitchVariation float64   `json:"pitch_variation"`
	Volume         float64   `json:"volume"`
	Clarity        float64   `json:"clarity"`
	Timestamp      time.Time `json:"timestamp"`
}
