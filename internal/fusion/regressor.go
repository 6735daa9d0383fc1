package fusion

import (
	"fmt"
	"math"
	"os"
	"time"

	"fatigue-go/internal/features"
	"fatigue-go/internal/metrics"
	"fatigue-go/internal/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Regressor is the trained scoring path: a fitted linear model over the
// standardized feature vector, producing a score in [0,1].
type Regressor struct {
	Weights [features.Width]float64 `yaml:"weights"`
	Bias    float64                 `yaml:"bias"`
}

func (r *Regressor) Name() string { return "regressor" }

func (r *Regressor) Predict(v features.Vector, mask features.Mask, snap metrics.Snapshot, now time.Time) Analysis {
	// With no modality observed the model would just report its bias at
	// floored confidence. Degrade to the rule-based neutral path instead.
	if mask.Count() == 0 {
		return RuleBased{}.Predict(v, mask, snap, now)
	}

	raw := r.Bias
	for i, w := range r.Weights {
		raw += w * v[i]
	}
	raw = clamp(raw, 0, 1)
	score := raw * 100

	// Distance from the decision boundary; floored at 0.5 because a trained
	// prediction is never reported as purely random.
	confidence := clamp(math.Abs(raw-0.5)*2, 0.5, 0.95)

	return Analysis{
		FatigueScore:        score,
		FatigueLevel:        models.LevelForScore(score),
		Confidence:          confidence,
		ContributingFactors: contributingFactors(snap, now),
	}
}

// LoadRegressor reads a serialized regressor artifact.
func LoadRegressor(path string) (*Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading regressor artifact: %w", err)
	}
	var r Regressor
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding regressor artifact: %w", err)
	}
	return &r, nil
}

// LoadScaler reads serialized standardization parameters.
func LoadScaler(path string) (*features.Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scaler artifact: %w", err)
	}
	var s features.Scaler
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding scaler artifact: %w", err)
	}
	for i, std := range s.Stds {
		if std <= 0 {
			s.Stds[i] = 1
		}
	}
	return &s, nil
}

// LoadEngine loads the trained path when both artifacts are present and
// readable, and falls back to the rule-based strategy otherwise. Artifact
// absence is logged, never fatal.
func LoadEngine(regressorPath, scalerPath string, log *zap.Logger) (Engine, *features.Scaler) {
	regressor, err := LoadRegressor(regressorPath)
	if err != nil {
		log.Warn("Trained regressor unavailable, using rule-based scoring", zap.Error(err))
		return RuleBased{}, nil
	}

	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		log.Warn("Scaler artifact unavailable, using rule-based scoring", zap.Error(err))
		return RuleBased{}, nil
	}

	log.Info("Loaded trained regressor", zap.String("path", regressorPath))
	return regressor, scaler
}
