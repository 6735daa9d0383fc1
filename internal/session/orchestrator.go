package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"fatigue-go/internal/config"
	"fatigue-go/internal/metrics"
	"fatigue-go/internal/models"

	"go.uber.org/zap"
)

// Orchestrator is the explicit registry of active sessions, one per user.
type Orchestrator struct {
	cfg    config.CollectorConfig
	params metrics.KeyboardParams
	store  MetricStore
	log    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewOrchestrator(cfg config.CollectorConfig, params metrics.KeyboardParams, store MetricStore, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		params:   params,
		store:    store,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Start begins collection for a user. A second start while a session is
// active is benign and reported via started=false, not an error.
func (o *Orchestrator) Start(userID string) (started bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.sessions[userID]; ok {
		return false
	}
	o.sessions[userID] = newSession(userID, o.cfg, o.params, o.store, o.log)
	o.log.Info("Session started", zap.String("user_id", userID))
	return true
}

// Stop ends a user's session with a final flush. Stopping a user without an
// active session is a no-op reported via stopped=false.
func (o *Orchestrator) Stop(userID string) (stopped bool) {
	o.mu.Lock()
	s, ok := o.sessions[userID]
	if ok {
		delete(o.sessions, userID)
	}
	o.mu.Unlock()
	if !ok {
		return false
	}
	s.Stop()
	o.log.Info("Session stopped", zap.String("user_id", userID))
	return true
}

// StopAll stops every active session, used on shutdown.
func (o *Orchestrator) StopAll() {
	o.mu.Lock()
	sessions := make([]*Session, 0, len(o.sessions))
	for id, s := range o.sessions {
		sessions = append(sessions, s)
		delete(o.sessions, id)
	}
	o.mu.Unlock()
	for _, s := range sessions {
		s.Stop()
	}
}

func (o *Orchestrator) session(userID string) (*Session, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[userID]
	return s, ok
}

// SubmitEvent routes a raw event to the user's session.
func (o *Orchestrator) SubmitEvent(userID string, modality models.Modality, payload json.RawMessage) error {
	s, ok := o.session(userID)
	if !ok {
		return fmt.Errorf("no active session for user %s", userID)
	}
	return s.SubmitEvent(modality, payload)
}

// CurrentMetrics returns the live per-modality metrics for a user. ok is
// false when the user has no active session.
func (o *Orchestrator) CurrentMetrics(userID string) (metrics.Snapshot, bool) {
	s, ok := o.session(userID)
	if !ok {
		return metrics.Snapshot{}, false
	}
	return s.CurrentMetrics(), true
}
