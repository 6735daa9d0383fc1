package models

import "time"

// RecommendationType is one of the six intervention categories.
type RecommendationType string

const (
	RecBreak       RecommendationType = "break"
	RecExercise    RecommendationType = "exercise"
	RecMeditation  RecommendationType = "meditation"
	RecTaskSwitch  RecommendationType = "task_switch"
	RecEnvironment RecommendationType = "environment"
	RecNutrition   RecommendationType = "nutrition"
)

// RecommendationTypes lists all candidate types in selection order.
var RecommendationTypes = []RecommendationType{
	RecBreak,
	RecExercise,
	RecMeditation,
	RecTaskSwitch,
	RecEnvironment,
	RecNutrition,
}

// Recommendation is a selected intervention. Implemented and Effectiveness
// are set exactly once, when feedback arrives.
type Recommendation struct {
	ID              string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string             `gorm:"index" json:"user_id"`
	Type            RecommendationType `gorm:"type:varchar(20)" json:"type"`
	Description     string             `json:"description"`
	ExpectedImpact  float64            `json:"expected_impact"`
	DurationMinutes int                `json:"duration_minutes"`
	Implemented     bool               `json:"implemented"`
	Effectiveness   *float64           `json:"effectiveness,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
}

// RecommendationWeight is the learned per-user preference for one type.
type RecommendationWeight struct {
	ID        int                `gorm:"primaryKey"`
	UserID    string             `gorm:"uniqueIndex:idx_weight_user_type"`
	Type      RecommendationType `gorm:"type:varchar(20);uniqueIndex:idx_weight_user_type"`
	Weight    float64
	UpdatedAt time.Time
}
