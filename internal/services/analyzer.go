// Package services holds the request-path analysis flow and the background
// standardization refit job.
package services

import (
	"time"

	"fatigue-go/internal/features"
	"fatigue-go/internal/fusion"
	"fatigue-go/internal/metrics"
	"fatigue-go/internal/models"

	"go.uber.org/zap"
)

// MetricSource provides live per-modality metrics for a user. The session
// orchestrator satisfies it.
type MetricSource interface {
	CurrentMetrics(userID string) (metrics.Snapshot, bool)
}

// AnalysisStore persists and reads fusion results, and serves the most
// recent per-modality rows for users with no active session.
type AnalysisStore interface {
	SaveAnalysis(a models.FatigueAnalysis) error
	ListAnalyses(userID string, limit int) ([]models.FatigueAnalysis, error)
	LatestKeyboardMetrics(userID string, since time.Time) (*models.KeyboardMetrics, error)
	LatestPointerMetrics(userID string, since time.Time) (*models.PointerMetrics, error)
	LatestFacialMetrics(userID string, since time.Time) (*models.FacialMetrics, error)
	LatestVoiceMetrics(userID string, since time.Time) (*models.VoiceMetrics, error)
}

// Analyzer runs the assemble-predict-persist flow synchronously on the
// request path.
type Analyzer struct {
	source    MetricSource
	assembler *features.Assembler
	engine    fusion.Engine
	store     AnalysisStore
	window    time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewAnalyzer(source MetricSource, assembler *features.Assembler, engine fusion.Engine, store AnalysisStore, window time.Duration, log *zap.Logger) *Analyzer {
	return &Analyzer{
		source:    source,
		assembler: assembler,
		engine:    engine,
		store:     store,
		window:    window,
		log:       log,
		now:       time.Now,
	}
}

// Analyze scores a user from live buffered metrics, or from an explicit
// override payload when one is supplied. Without a running session it falls
// back to the most recent persisted metrics inside the window. All paths
// produce the same shape, and an analysis request never fails: missing
// modalities and persistence errors degrade to a complete result with the
// failures logged.
func (a *Analyzer) Analyze(userID string, override *metrics.Snapshot) models.FatigueAnalysis {
	now := a.now()

	var snap metrics.Snapshot
	if override != nil {
		snap = *override
	} else if live, ok := a.source.CurrentMetrics(userID); ok {
		snap = live
	} else {
		snap = a.persistedSnapshot(userID, now.Add(-a.window))
	}
	vector, mask := a.assembler.Assemble(snap, now)
	result := a.engine.Predict(vector, mask, snap, now)

	analysis := models.FatigueAnalysis{
		UserID:              userID,
		FatigueScore:        result.FatigueScore,
		FatigueLevel:        result.FatigueLevel,
		Confidence:          result.Confidence,
		ContributingFactors: result.ContributingFactors,
		Timestamp:           now,
	}
	if err := a.store.SaveAnalysis(analysis); err != nil {
		a.log.Error("Persisting analysis failed", zap.String("user_id", userID), zap.Error(err))
	}

	a.log.Debug("Analysis complete",
		zap.String("user_id", userID),
		zap.String("engine", a.engine.Name()),
		zap.Float64("score", result.FatigueScore),
		zap.Int("modalities", mask.Count()))
	return analysis
}

func (a *Analyzer) persistedSnapshot(userID string, since time.Time) metrics.Snapshot {
	var (
		snap metrics.Snapshot
		err  error
	)
	if snap.Keyboard, err = a.store.LatestKeyboardMetrics(userID, since); err != nil {
		a.log.Error("Reading persisted keyboard metrics failed", zap.String("user_id", userID), zap.Error(err))
	}
	if snap.Pointer, err = a.store.LatestPointerMetrics(userID, since); err != nil {
		a.log.Error("Reading persisted pointer metrics failed", zap.String("user_id", userID), zap.Error(err))
	}
	if snap.Facial, err = a.store.LatestFacialMetrics(userID, since); err != nil {
		a.log.Error("Reading persisted facial metrics failed", zap.String("user_id", userID), zap.Error(err))
	}
	if snap.Voice, err = a.store.LatestVoiceMetrics(userID, since); err != nil {
		a.log.Error("Reading persisted voice metrics failed", zap.String("user_id", userID), zap.Error(err))
	}
	return snap
}

// History returns the most recent persisted analyses for trend consumers.
func (a *Analyzer) History(userID string, limit int) ([]models.FatigueAnalysis, error) {
	return a.store.ListAnalyses(userID, limit)
}
