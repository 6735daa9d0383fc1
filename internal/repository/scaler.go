package repository

import (
	"errors"

	"fatigue-go/internal/database"
	"fatigue-go/internal/models"

	"gorm.io/gorm"
)

func SaveScalerFit(fit models.ScalerFit) error {
	return database.DB.Create(&fit).Error
}

// LatestScalerFit returns the most recent persisted fit, or nil when a refit
// has never run.
func LatestScalerFit() (*models.ScalerFit, error) {
	var fit models.ScalerFit
	err := database.DB.Order("created_at DESC").First(&fit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fit, nil
}
