package repository

import (
	"fatigue-go/internal/database"
	"fatigue-go/internal/models"
)

func SaveEventBatch(batch models.BehavioralEvent) error {
	return database.DB.Create(&batch).Error
}
