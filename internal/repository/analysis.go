package repository

import (
	"errors"
	"time"

	"fatigue-go/internal/database"
	"fatigue-go/internal/models"

	"gorm.io/gorm"
)

func SaveAnalysis(a models.FatigueAnalysis) error {
	return database.DB.Create(&a).Error
}

// LatestAnalysis returns the newest analysis for the user, or nil when the
// user has never been analyzed.
func LatestAnalysis(userID string) (*models.FatigueAnalysis, error) {
	var a models.FatigueAnalysis
	err := database.DB.
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AnalysisAtOrBefore returns the newest analysis not newer than t, the state
// a recommendation was issued against.
func AnalysisAtOrBefore(userID string, t time.Time) (*models.FatigueAnalysis, error) {
	var a models.FatigueAnalysis
	err := database.DB.
		Where("user_id = ? AND timestamp <= ?", userID, t).
		Order("timestamp DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func ListAnalyses(userID string, limit int) ([]models.FatigueAnalysis, error) {
	var rows []models.FatigueAnalysis
	err := database.DB.
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
