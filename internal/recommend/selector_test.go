package recommend

import (
	"math/rand"
	"testing"
	"time"

	"fatigue-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	recs       map[string]models.Recommendation
	weights    map[models.RecommendationType]float64
	latest     *models.FatigueAnalysis
	atOrBefore *models.FatigueAnalysis
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		recs:    make(map[string]models.Recommendation),
		weights: make(map[models.RecommendationType]float64),
	}
}

func (f *fakeStore) CreateRecommendation(r models.Recommendation) error {
	f.recs[r.ID] = r
	return nil
}

func (f *fakeStore) GetRecommendation(id string) (*models.Recommendation, error) {
	r, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeStore) UpdateRecommendation(r models.Recommendation) error {
	f.recs[r.ID] = r
	return nil
}

func (f *fakeStore) RecommendationWeights(string) (map[models.RecommendationType]float64, error) {
	out := make(map[models.RecommendationType]float64, len(f.weights))
	for k, v := range f.weights {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) UpsertRecommendationWeight(_ string, recType models.RecommendationType, weight float64) error {
	f.weights[recType] = weight
	return nil
}

func (f *fakeStore) LatestAnalysis(string) (*models.FatigueAnalysis, error) {
	return f.latest, nil
}

func (f *fakeStore) AnalysisAtOrBefore(string, time.Time) (*models.FatigueAnalysis, error) {
	return f.atOrBefore, nil
}

func newTestSelector(store Store, seed int64) *Selector {
	return NewSelector(store, rand.New(rand.NewSource(seed)), zap.NewNop())
}

func TestSelect_UsesLevelTemplate(t *testing.T) {
	store := newFakeStore()
	store.weights[models.RecBreak] = 1.0
	s := newTestSelector(store, 1)

	analysis := &models.FatigueAnalysis{FatigueScore: 85, FatigueLevel: models.LevelSevere}
	rec, err := s.Select("u1", analysis)
	require.NoError(t, err)

	// break is the only positively weighted type, so both the arg-max and
	// the proportional branch land on it.
	assert.Equal(t, models.RecBreak, rec.Type)
	assert.Equal(t, 30, rec.DurationMinutes)
	assert.InDelta(t, 0.4, rec.ExpectedImpact, 1e-9)
	assert.NotEmpty(t, rec.ID)
	assert.Contains(t, store.recs, rec.ID)
}

func TestSelect_UnmappedLevelFallsBackToDefault(t *testing.T) {
	store := newFakeStore()
	store.weights[models.RecNutrition] = 1.0
	s := newTestSelector(store, 1)

	analysis := &models.FatigueAnalysis{FatigueScore: 10, FatigueLevel: models.LevelVeryLow}
	rec, err := s.Select("u1", analysis)
	require.NoError(t, err)

	assert.Equal(t, defaultTemplate.Description, rec.Description)
	assert.Equal(t, defaultTemplate.DurationMinutes, rec.DurationMinutes)
}

func TestSelect_NoAnalysisAssumesModerate(t *testing.T) {
	store := newFakeStore()
	store.weights[models.RecExercise] = 1.0
	s := newTestSelector(store, 1)

	rec, err := s.Select("u1", nil)
	require.NoError(t, err)

	assert.Equal(t, models.RecExercise, rec.Type)
	assert.Equal(t, 10, rec.DurationMinutes)
}

func TestSelect_NoWeightsIsUniform(t *testing.T) {
	store := newFakeStore()
	s := newTestSelector(store, 42)

	counts := make(map[models.RecommendationType]int)
	for i := 0; i < 600; i++ {
		rec, err := s.Select("u1", &models.FatigueAnalysis{FatigueLevel: models.LevelModerate})
		require.NoError(t, err)
		counts[rec.Type]++
	}

	for _, recType := range models.RecommendationTypes {
		assert.Greaterf(t, counts[recType], 0, "type %s never selected", recType)
	}
}

func TestSelect_EpsilonGreedySplit(t *testing.T) {
	store := newFakeStore()
	// task_switch dominates; everything else shares a small weight so the
	// exploration branch can still pick other types.
	store.weights[models.RecTaskSwitch] = 10.0
	for _, recType := range models.RecommendationTypes {
		if recType != models.RecTaskSwitch {
			store.weights[recType] = 0.4
		}
	}
	s := newTestSelector(store, 7)

	const runs = 2000
	dominant := 0
	for i := 0; i < runs; i++ {
		rec, err := s.Select("u1", &models.FatigueAnalysis{FatigueLevel: models.LevelModerate})
		require.NoError(t, err)
		if rec.Type == models.RecTaskSwitch {
			dominant++
		}
	}

	// 80% exploitation plus the dominant share of the 20% exploration mass:
	// 0.8 + 0.2*(10/12) = 0.967 expected. Leave slack for sampling noise.
	share := float64(dominant) / runs
	assert.Greater(t, share, 0.90)
	assert.Less(t, share, 1.0)
}

func TestFeedback_UpdatesWeightAndShiftsSelection(t *testing.T) {
	const seed = 99

	baselineStore := newFakeStore()
	baseline := newTestSelector(baselineStore, seed)
	baselineCounts := make(map[models.RecommendationType]int)
	for i := 0; i < 500; i++ {
		rec, err := baseline.Select("u1", &models.FatigueAnalysis{FatigueLevel: models.LevelModerate})
		require.NoError(t, err)
		baselineCounts[rec.Type]++
	}

	store := newFakeStore()
	store.atOrBefore = &models.FatigueAnalysis{FatigueScore: 70, FatigueLevel: models.LevelHigh}
	s := newTestSelector(store, seed)

	rec := models.Recommendation{ID: "r1", UserID: "u1", Type: models.RecMeditation, Timestamp: time.Now()}
	store.recs[rec.ID] = rec
	require.NoError(t, s.Feedback("r1", true, 0.9))

	updated := store.recs["r1"]
	assert.True(t, updated.Implemented)
	require.NotNil(t, updated.Effectiveness)
	assert.InDelta(t, 0.9, *updated.Effectiveness, 1e-9)
	assert.InDelta(t, learningRate*0.9, store.weights[models.RecMeditation], 1e-9)

	counts := make(map[models.RecommendationType]int)
	for i := 0; i < 500; i++ {
		got, err := s.Select("u1", &models.FatigueAnalysis{FatigueLevel: models.LevelModerate})
		require.NoError(t, err)
		counts[got.Type]++
	}

	// With the same seed, the learned weight pulls selection toward the
	// rewarded type versus the no-feedback baseline.
	assert.Greater(t, counts[models.RecMeditation], baselineCounts[models.RecMeditation])
}

func TestFeedback_UnknownRecommendation(t *testing.T) {
	s := newTestSelector(newFakeStore(), 1)
	err := s.Feedback("missing", true, 0.5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedback_NoPriorAnalysisSkipsWeightUpdate(t *testing.T) {
	store := newFakeStore()
	store.recs["r1"] = models.Recommendation{ID: "r1", UserID: "u1", Type: models.RecBreak, Timestamp: time.Now()}
	s := newTestSelector(store, 1)

	require.NoError(t, s.Feedback("r1", true, 0.8))

	// Feedback is recorded even though the weight stays untouched.
	assert.True(t, store.recs["r1"].Implemented)
	assert.Empty(t, store.weights)
}
