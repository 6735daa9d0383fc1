package services

import (
	"fmt"
	"time"

	"fatigue-go/internal/features"
	"fatigue-go/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// HistoryStore reads historical metric rows and persists standardization
// fits.
type HistoryStore interface {
	KeyboardMetricsSince(since time.Time) ([]models.KeyboardMetrics, error)
	PointerMetricsSince(since time.Time) ([]models.PointerMetrics, error)
	FacialMetricsSince(since time.Time) ([]models.FacialMetrics, error)
	VoiceMetricsSince(since time.Time) ([]models.VoiceMetrics, error)
	SaveScalerFit(fit models.ScalerFit) error
	LatestScalerFit() (*models.ScalerFit, error)
}

// Refitter periodically refits the feature standardization from historical
// metrics and swaps the result into the assembler.
type Refitter struct {
	store     HistoryStore
	assembler *features.Assembler
	window    time.Duration
	log       *zap.Logger
	cron      *cron.Cron
}

func NewRefitter(store HistoryStore, assembler *features.Assembler, window time.Duration, log *zap.Logger) *Refitter {
	return &Refitter{
		store:     store,
		assembler: assembler,
		window:    window,
		log:       log,
	}
}

// Restore installs the last persisted fit, if any, so restarts do not fall
// back to the identity scaler until the first scheduled refit.
func (r *Refitter) Restore() error {
	fit, err := r.store.LatestScalerFit()
	if err != nil {
		return fmt.Errorf("loading persisted scaler fit: %w", err)
	}
	if fit == nil {
		return nil
	}
	if len(fit.Means) != features.ScaledWidth || len(fit.Stds) != features.ScaledWidth {
		return fmt.Errorf("persisted scaler fit has width %d, want %d", len(fit.Means), features.ScaledWidth)
	}
	scaler := &features.Scaler{}
	copy(scaler.Means[:], fit.Means)
	copy(scaler.Stds[:], fit.Stds)
	r.assembler.SetScaler(scaler)
	r.log.Info("Restored scaler fit", zap.Time("fitted_at", fit.CreatedAt))
	return nil
}

// Refit reads the metric history window, fits fresh standardization
// parameters, swaps them into the assembler and persists the fit.
func (r *Refitter) Refit() error {
	since := time.Now().Add(-r.window)

	keyboard, err := r.store.KeyboardMetricsSince(since)
	if err != nil {
		return fmt.Errorf("loading keyboard history: %w", err)
	}
	pointer, err := r.store.PointerMetricsSince(since)
	if err != nil {
		return fmt.Errorf("loading pointer history: %w", err)
	}
	facial, err := r.store.FacialMetricsSince(since)
	if err != nil {
		return fmt.Errorf("loading facial history: %w", err)
	}
	voice, err := r.store.VoiceMetricsSince(since)
	if err != nil {
		return fmt.Errorf("loading voice history: %w", err)
	}

	scaler := features.Fit(features.HistoryColumns(keyboard, pointer, facial, voice))
	r.assembler.SetScaler(scaler)

	fit := models.ScalerFit{
		Means: append([]float64(nil), scaler.Means[:]...),
		Stds:  append([]float64(nil), scaler.Stds[:]...),
	}
	if err := r.store.SaveScalerFit(fit); err != nil {
		return fmt.Errorf("persisting scaler fit: %w", err)
	}

	r.log.Info("Refit standardization parameters",
		zap.Int("keyboard_rows", len(keyboard)),
		zap.Int("pointer_rows", len(pointer)),
		zap.Int("facial_rows", len(facial)),
		zap.Int("voice_rows", len(voice)))
	return nil
}

// Start schedules periodic refits. The schedule uses cron syntax, including
// @every descriptors.
func (r *Refitter) Start(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := r.Refit(); err != nil {
			r.log.Error("Scheduled refit failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling refit: %w", err)
	}
	c.Start()
	r.cron = c
	r.log.Info("Refit scheduler started", zap.String("schedule", schedule))
	return nil
}

// Stop halts the schedule, waiting for a running refit to finish.
func (r *Refitter) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}
