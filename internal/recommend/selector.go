package recommend

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"fatigue-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Feedback for an unknown recommendation id.
var ErrNotFound = errors.New("recommendation not found")

const (
	// epsilon is the exploration probability: 80% of selections take the
	// highest-weighted type, 20% sample proportionally to the weights.
	epsilon = 0.2

	// learningRate scales the single-step weight nudge applied per feedback.
	learningRate = 0.1
)

// Store is the persistence contract the selector needs. The repository
// package satisfies it via a thin adapter wired in main.
type Store interface {
	CreateRecommendation(r models.Recommendation) error
	GetRecommendation(id string) (*models.Recommendation, error)
	UpdateRecommendation(r models.Recommendation) error
	RecommendationWeights(userID string) (map[models.RecommendationType]float64, error)
	UpsertRecommendationWeight(userID string, recType models.RecommendationType, weight float64) error
	LatestAnalysis(userID string) (*models.FatigueAnalysis, error)
	AnalysisAtOrBefore(userID string, t time.Time) (*models.FatigueAnalysis, error)
}

// Selector picks interventions by fatigue level and adjusts per-user type
// weights from feedback.
type Selector struct {
	store Store
	log   *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSelector builds a selector. rng must be non-nil; tests pass a seeded
// source to make the 80/20 exploration split reproducible.
func NewSelector(store Store, rng *rand.Rand, log *zap.Logger) *Selector {
	return &Selector{
		store: store,
		log:   log,
		rng:   rng,
		now:   time.Now,
	}
}

// Select issues a recommendation for the user. When analysis is nil the
// latest persisted analysis is used; when none exists either, a moderate
// level is assumed and the type is chosen uniformly at random.
func (s *Selector) Select(userID string, analysis *models.FatigueAnalysis) (models.Recommendation, error) {
	if analysis == nil {
		latest, err := s.store.LatestAnalysis(userID)
		if err != nil {
			return models.Recommendation{}, fmt.Errorf("loading latest analysis: %w", err)
		}
		analysis = latest
	}

	level := models.LevelModerate
	if analysis != nil {
		level = analysis.FatigueLevel
	}

	weights, err := s.store.RecommendationWeights(userID)
	if err != nil {
		return models.Recommendation{}, fmt.Errorf("loading recommendation weights: %w", err)
	}

	recType := s.chooseType(weights)
	tmpl := templateFor(recType, level)

	rec := models.Recommendation{
		ID:              uuid.NewString(),
		UserID:          userID,
		Type:            recType,
		Description:     tmpl.Description,
		ExpectedImpact:  tmpl.ExpectedImpact,
		DurationMinutes: tmpl.DurationMinutes,
		Timestamp:       s.now(),
	}
	if err := s.store.CreateRecommendation(rec); err != nil {
		return models.Recommendation{}, fmt.Errorf("saving recommendation: %w", err)
	}

	s.log.Debug("Selected recommendation",
		zap.String("user_id", userID),
		zap.String("type", string(recType)),
		zap.String("level", string(level)))
	return rec, nil
}

// chooseType applies the epsilon-greedy policy over the learned weights.
// With no weights, every type is equally likely.
func (s *Selector) chooseType(weights map[models.RecommendationType]float64) models.RecommendationType {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(weights) == 0 {
		return models.RecommendationTypes[s.rng.Intn(len(models.RecommendationTypes))]
	}

	if s.rng.Float64() >= epsilon {
		return argmaxType(weights)
	}
	return s.sampleProportional(weights)
}

// argmaxType returns the highest-weighted type, ties broken by the fixed
// candidate order. Types without a learned weight count as zero.
func argmaxType(weights map[models.RecommendationType]float64) models.RecommendationType {
	best := models.RecommendationTypes[0]
	bestWeight := weights[best]
	for _, t := range models.RecommendationTypes[1:] {
		if w := weights[t]; w > bestWeight {
			best, bestWeight = t, w
		}
	}
	return best
}

// sampleProportional draws a type with probability proportional to its
// weight. Non-positive totals degrade to a uniform draw.
func (s *Selector) sampleProportional(weights map[models.RecommendationType]float64) models.RecommendationType {
	total := 0.0
	for _, t := range models.RecommendationTypes {
		if w := weights[t]; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return models.RecommendationTypes[s.rng.Intn(len(models.RecommendationTypes))]
	}

	target := s.rng.Float64() * total
	acc := 0.0
	for _, t := range models.RecommendationTypes {
		if w := weights[t]; w > 0 {
			acc += w
			if target < acc {
				return t
			}
		}
	}
	return models.RecommendationTypes[len(models.RecommendationTypes)-1]
}

// Feedback marks a recommendation implemented with the reported
// effectiveness and nudges the learned weight for its type. When no analysis
// exists at or before the recommendation's timestamp the weight update is
// skipped but the feedback is still recorded.
func (s *Selector) Feedback(recommendationID string, implemented bool, effectiveness float64) error {
	rec, err := s.store.GetRecommendation(recommendationID)
	if err != nil {
		return fmt.Errorf("loading recommendation: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, recommendationID)
	}

	rec.Implemented = implemented
	rec.Effectiveness = &effectiveness
	if err := s.store.UpdateRecommendation(*rec); err != nil {
		return fmt.Errorf("recording feedback: %w", err)
	}

	analysis, err := s.store.AnalysisAtOrBefore(rec.UserID, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("loading analysis for feedback: %w", err)
	}
	if analysis == nil {
		s.log.Info("No analysis preceding recommendation, skipping weight update",
			zap.String("recommendation_id", recommendationID))
		return nil
	}

	weights, err := s.store.RecommendationWeights(rec.UserID)
	if err != nil {
		return fmt.Errorf("loading recommendation weights: %w", err)
	}
	updated := weights[rec.Type] + learningRate*effectiveness
	if err := s.store.UpsertRecommendationWeight(rec.UserID, rec.Type, updated); err != nil {
		return fmt.Errorf("updating recommendation weight: %w", err)
	}

	s.log.Debug("Updated recommendation weight",
		zap.String("user_id", rec.UserID),
		zap.String("type", string(rec.Type)),
		zap.Float64("weight", updated))
	return nil
}
