package models

import (
	"database/sql/driver"
	"time"
)

// FatigueLevel is one of five ordered bins derived from the numeric score.
type FatigueLevel string

const (
	LevelVeryLow  FatigueLevel = "very_low"
	LevelLow      FatigueLevel = "low"
	LevelModerate FatigueLevel = "moderate"
	LevelHigh     FatigueLevel = "high"
	LevelSevere   FatigueLevel = "severe"
)

// LevelForScore bins a 0-100 fatigue score.
func LevelForScore(score float64) FatigueLevel {
	switch {
	case score < 20:
		return LevelVeryLow
	case score < 40:
		return LevelLow
	case score < 60:
		return LevelModerate
	case score < 80:
		return LevelHigh
	default:
		return LevelSevere
	}
}

// Factor is one named condition contributing to a fatigue score.
type Factor struct {
	Value    float64 `json:"value,omitempty"`
	Severity string  `json:"severity"`
}

const (
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
)

// FactorMap maps factor ids (high_error_rate, late_hours, ...) to details.
type FactorMap map[string]Factor

func (f FactorMap) Value() (driver.Value, error)  { return jsonValue(f) }
func (f *FactorMap) Scan(value interface{}) error { return jsonScan(value, f) }

// FatigueAnalysis is one immutable fusion result for a user.
type FatigueAnalysis struct {
	ID                  int          `gorm:"primaryKey" json:"id"`
	UserID              string       `gorm:"index" json:"user_id"`
	FatigueScore        float64      `json:"fatigue_score"`
	FatigueLevel        FatigueLevel `gorm:"type:varchar(20)" json:"fatigue_level"`
	Confidence          float64      `json:"confidence"`
	ContributingFactors FactorMap    `gorm:"type:jsonb" json:"contributing_factors"`
	Timestamp           time.Time    `gorm:"index" json:"timestamp"`
}
