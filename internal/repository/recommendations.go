package repository

import (
	"errors"

	"fatigue-go/internal/database"
	"fatigue-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func CreateRecommendation(r models.Recommendation) error {
	return database.DB.Create(&r).Error
}

// GetRecommendation returns nil when no recommendation has that id.
func GetRecommendation(id string) (*models.Recommendation, error) {
	var r models.Recommendation
	err := database.DB.Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func UpdateRecommendation(r models.Recommendation) error {
	return database.DB.Save(&r).Error
}

// RecommendationWeights returns the learned per-type weights for a user.
// An empty map means the user has no feedback history yet.
func RecommendationWeights(userID string) (map[models.RecommendationType]float64, error) {
	var rows []models.RecommendationWeight
	if err := database.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	weights := make(map[models.RecommendationType]float64, len(rows))
	for _, row := range rows {
		weights[row.Type] = row.Weight
	}
	return weights, nil
}

func UpsertRecommendationWeight(userID string, recType models.RecommendationType, weight float64) error {
	row := models.RecommendationWeight{UserID: userID, Type: recType, Weight: weight}
	return database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight", "updated_at"}),
	}).Create(&row).Error
}
