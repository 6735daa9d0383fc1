package repository

import (
	"errors"
	"time"

	"fatigue-go/internal/database"
	"fatigue-go/internal/models"

	"gorm.io/gorm"
)

func SaveKeyboardMetrics(m models.KeyboardMetrics) error {
	return database.DB.Create(&m).Error
}

func SavePointerMetrics(m models.PointerMetrics) error {
	return database.DB.Create(&m).Error
}

func SaveFacialMetrics(m models.FacialMetrics) error {
	return database.DB.Create(&m).Error
}

func SaveVoiceMetrics(m models.VoiceMetrics) error {
	return database.DB.Create(&m).Error
}

// LatestKeyboardMetrics returns the most recent row for the user within the
// window, or nil when none exists. Absence is not an error.
func LatestKeyboardMetrics(userID string, since time.Time) (*models.KeyboardMetrics, error) {
	var m models.KeyboardMetrics
	err := database.DB.
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func LatestPointerMetrics(userID string, since time.Time) (*models.PointerMetrics, error) {
	var m models.PointerMetrics
	err := database.DB.
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func LatestFacialMetrics(userID string, since time.Time) (*models.FacialMetrics, error) {
	var m models.FacialMetrics
	err := database.DB.
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func LatestVoiceMetrics(userID string, since time.Time) (*models.VoiceMetrics, error) {
	var m models.VoiceMetrics
	err := database.DB.
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// KeyboardMetricsSince returns all keyboard rows newer than the cutoff, used
// when refitting the feature standardization.
func KeyboardMetricsSince(since time.Time) ([]models.KeyboardMetrics, error) {
	var rows []models.KeyboardMetrics
	err := database.DB.Where("timestamp >= ?", since).Find(&rows).Error
	return rows, err
}

func PointerMetricsSince(since time.Time) ([]models.PointerMetrics, error) {
	var rows []models.PointerMetrics
	err := database.DB.Where("timestamp >= ?", since).Find(&rows).Error
	return rows, err
}

func FacialMetricsSince(since time.Time) ([]models.FacialMetrics, error) {
	var rows []models.FacialMetrics
	err := database.DB.Where("timestamp >= ?", since).Find(&rows).Error
	return rows, err
}

func VoiceMetricsSince(since time.Time) ([]models.VoiceMetrics, error) {
	var rows []models.VoiceMetrics
	err := database.DB.Where("timestamp >= ?", since).Find(&rows).Error
	return rows, err
}
