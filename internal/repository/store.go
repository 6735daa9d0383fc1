package repository

import (
	"time"

	"fatigue-go/internal/models"
)

// Store adapts the package-level repository functions to the narrow
// interfaces the session, services and recommend packages consume.
type Store struct{}

func (Store) SaveEventBatch(batch models.BehavioralEvent) error { return SaveEventBatch(batch) }

func (Store) SaveKeyboardMetrics(m models.KeyboardMetrics) error { return SaveKeyboardMetrics(m) }
func (Store) SavePointerMetrics(m models.PointerMetrics) error   { return SavePointerMetrics(m) }
func (Store) SaveFacialMetrics(m models.FacialMetrics) error     { return SaveFacialMetrics(m) }
func (Store) SaveVoiceMetrics(m models.VoiceMetrics) error       { return SaveVoiceMetrics(m) }

func (Store) KeyboardMetricsSince(since time.Time) ([]models.KeyboardMetrics, error) {
	return KeyboardMetricsSince(since)
}

func (Store) PointerMetricsSince(since time.Time) ([]models.PointerMetrics, error) {
	return PointerMetricsSince(since)
}

func (Store) FacialMetricsSince(since time.Time) ([]models.FacialMetrics, error) {
	return FacialMetricsSince(since)
}

func (Store) VoiceMetricsSince(since time.Time) ([]models.VoiceMetrics, error) {
	return VoiceMetricsSince(since)
}

func (Store) LatestKeyboardMetrics(userID string, since time.Time) (*models.KeyboardMetrics, error) {
	return LatestKeyboardMetrics(userID, since)
}

func (Store) LatestPointerMetrics(userID string, since time.Time) (*models.PointerMetrics, error) {
	return LatestPointerMetrics(userID, since)
}

func (Store) LatestFacialMetrics(userID string, since time.Time) (*models.FacialMetrics, error) {
	return LatestFacialMetrics(userID, since)
}

func (Store) LatestVoiceMetrics(userID string, since time.Time) (*models.VoiceMetrics, error) {
	return LatestVoiceMetrics(userID, since)
}

func (Store) SaveAnalysis(a models.FatigueAnalysis) error { return SaveAnalysis(a) }

func (Store) LatestAnalysis(userID string) (*models.FatigueAnalysis, error) {
	return LatestAnalysis(userID)
}

func (Store) AnalysisAtOrBefore(userID string, t time.Time) (*models.FatigueAnalysis, error) {
	return AnalysisAtOrBefore(userID, t)
}

func (Store) ListAnalyses(userID string, limit int) ([]models.FatigueAnalysis, error) {
	return ListAnalyses(userID, limit)
}

func (Store) CreateRecommendation(r models.Recommendation) error { return CreateRecommendation(r) }

func (Store) GetRecommendation(id string) (*models.Recommendation, error) {
	return GetRecommendation(id)
}

func (Store) UpdateRecommendation(r models.Recommendation) error { return UpdateRecommendation(r) }

func (Store) RecommendationWeights(userID string) (map[models.RecommendationType]float64, error) {
	return RecommendationWeights(userID)
}

func (Store) UpsertRecommendationWeight(userID string, recType models.RecommendationType, weight float64) error {
	return UpsertRecommendationWeight(userID, recType, weight)
}

func (Store) SaveScalerFit(fit models.ScalerFit) error { return SaveScalerFit(fit) }

func (Store) LatestScalerFit() (*models.ScalerFit, error) { return LatestScalerFit() }
