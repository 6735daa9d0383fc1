package services

import (
	"testing"
	"time"

	"fatigue-go/internal/features"
	"fatigue-go/internal/fusion"
	"fatigue-go/internal/metrics"
	"fatigue-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	snap metrics.Snapshot
	ok   bool
}

func (f *fakeSource) CurrentMetrics(string) (metrics.Snapshot, bool) {
	return f.snap, f.ok
}

type fakeAnalysisStore struct {
	saved    []models.FatigueAnalysis
	keyboard *models.KeyboardMetrics
}

func (f *fakeAnalysisStore) SaveAnalysis(a models.FatigueAnalysis) error {
	f.saved = append(f.saved, a)
	return nil
}

func (f *fakeAnalysisStore) ListAnalyses(string, int) ([]models.FatigueAnalysis, error) {
	return f.saved, nil
}

func (f *fakeAnalysisStore) LatestKeyboardMetrics(string, time.Time) (*models.KeyboardMetrics, error) {
	return f.keyboard, nil
}

func (f *fakeAnalysisStore) LatestPointerMetrics(string, time.Time) (*models.PointerMetrics, error) {
	return nil, nil
}

func (f *fakeAnalysisStore) LatestFacialMetrics(string, time.Time) (*models.FacialMetrics, error) {
	return nil, nil
}

func (f *fakeAnalysisStore) LatestVoiceMetrics(string, time.Time) (*models.VoiceMetrics, error) {
	return nil, nil
}

func TestAnalyze_LiveAndOverrideShareShape(t *testing.T) {
	live := metrics.Snapshot{
		Keyboard: &models.KeyboardMetrics{TypingSpeed: 45, ErrorRate: 5, PauseFrequency: 3, KeyPressDuration: 100},
	}
	source := &fakeSource{snap: live, ok: true}
	store := &fakeAnalysisStore{}
	a := NewAnalyzer(source, features.NewAssembler(), fusion.RuleBased{}, store, time.Hour, zap.NewNop())
	a.now = func() time.Time { return time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC) }

	fromLive := a.Analyze("u1", nil)
	fromOverride := a.Analyze("u1", &live)

	assert.Equal(t, fromLive.FatigueScore, fromOverride.FatigueScore)
	assert.Equal(t, fromLive.FatigueLevel, fromOverride.FatigueLevel)
	assert.Equal(t, fromLive.Confidence, fromOverride.Confidence)
	assert.Len(t, store.saved, 2)
}

func TestAnalyze_NoSessionFallsBackToPersistedMetrics(t *testing.T) {
	source := &fakeSource{ok: false}
	store := &fakeAnalysisStore{
		keyboard: &models.KeyboardMetrics{TypingSpeed: 45, ErrorRate: 30, PauseFrequency: 3, KeyPressDuration: 100},
	}
	a := NewAnalyzer(source, features.NewAssembler(), fusion.RuleBased{}, store, time.Hour, zap.NewNop())
	a.now = func() time.Time { return time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC) }

	analysis := a.Analyze("u1", nil)

	assert.Contains(t, analysis.ContributingFactors, "high_error_rate")
	require.Len(t, store.saved, 1)
}

func TestAnalyze_NoSessionDegradesToNeutral(t *testing.T) {
	source := &fakeSource{ok: false}
	store := &fakeAnalysisStore{}
	a := NewAnalyzer(source, features.NewAssembler(), fusion.RuleBased{}, store, time.Hour, zap.NewNop())
	a.now = func() time.Time { return time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC) }

	analysis := a.Analyze("u1", nil)

	assert.Equal(t, fusion.NeutralScore, analysis.FatigueScore)
	assert.Equal(t, models.LevelModerate, analysis.FatigueLevel)
	assert.LessOrEqual(t, analysis.Confidence, 0.5)
	assert.Empty(t, analysis.ContributingFactors)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "u1", store.saved[0].UserID)
}
