// Package session owns the per-user collection lifecycle: the four modality
// buffers, the periodic drain-and-save loop and the live metric snapshot.
package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fatigue-go/internal/buffer"
	"fatigue-go/internal/config"
	"fatigue-go/internal/metrics"
	"fatigue-go/internal/models"

	"go.uber.org/zap"
)

// MetricStore is the persistence contract for drained batches and derived
// metrics. The repository package satisfies it via an adapter wired in main.
type MetricStore interface {
	SaveEventBatch(batch models.BehavioralEvent) error
	SaveKeyboardMetrics(m models.KeyboardMetrics) error
	SavePointerMetrics(m models.PointerMetrics) error
	SaveFacialMetrics(m models.FacialMetrics) error
	SaveVoiceMetrics(m models.VoiceMetrics) error
}

// Session collects raw events for one user. Producers submit events
// concurrently; a single background loop drains and persists on a fixed
// interval and refreshes the cached metric snapshot on a faster tick.
type Session struct {
	userID string
	cfg    config.CollectorConfig
	params metrics.KeyboardParams
	store  MetricStore
	log    *zap.Logger

	keyboard *buffer.Buffer[metrics.KeyEvent]
	pointer  *buffer.Buffer[metrics.PointerEvent]
	facial   *buffer.Buffer[metrics.FrameSample]
	voice    *buffer.Buffer[metrics.VoiceSample]

	// raw payloads kept per modality between flushes, persisted as one
	// jsonb batch row per modality alongside the derived metrics
	rawKeyboard *buffer.Buffer[json.RawMessage]
	rawPointer  *buffer.Buffer[json.RawMessage]
	rawFacial   *buffer.Buffer[json.RawMessage]
	rawVoice    *buffer.Buffer[json.RawMessage]

	current atomic.Pointer[metrics.Snapshot]

	stopped  atomic.Bool
	quit     chan struct{}
	loopDone chan struct{}
	stopOnce sync.Once
}

func newSession(userID string, cfg config.CollectorConfig, params metrics.KeyboardParams, store MetricStore, log *zap.Logger) *Session {
	s := &Session{
		userID:      userID,
		cfg:         cfg,
		params:      params,
		store:       store,
		log:         log,
		keyboard:    buffer.New[metrics.KeyEvent](),
		pointer:     buffer.New[metrics.PointerEvent](),
		facial:      buffer.New[metrics.FrameSample](),
		voice:       buffer.New[metrics.VoiceSample](),
		rawKeyboard: buffer.New[json.RawMessage](),
		rawPointer:  buffer.New[json.RawMessage](),
		rawFacial:   buffer.New[json.RawMessage](),
		rawVoice:    buffer.New[json.RawMessage](),
		quit:        make(chan struct{}),
		loopDone:    make(chan struct{}),
	}
	s.current.Store(&metrics.Snapshot{})
	go s.loop()
	return s
}

func (s *Session) loop() {
	defer close(s.loopDone)

	collect := time.NewTicker(s.cfg.CollectInterval)
	defer collect.Stop()
	save := time.NewTicker(s.cfg.SaveInterval)
	defer save.Stop()

	for {
		select {
		case <-collect.C:
			s.refresh()
		case <-save.C:
			s.flush(false)
		case <-s.quit:
			// Closing the buffers inside the final drain shuts out any
			// producer that passed the stopped check while Stop ran.
			s.flush(true)
			return
		}
	}
}

func drain[T any](b *buffer.Buffer[T], final bool) []T {
	if final {
		return b.Close()
	}
	return b.Drain()
}

// SubmitEvent parses and records one raw event. Malformed payloads and
// unknown modalities are boundary violations and error out; events arriving
// after Stop are silently dropped.
func (s *Session) SubmitEvent(modality models.Modality, payload json.RawMessage) error {
	if s.stopped.Load() {
		return nil
	}

	switch modality {
	case models.ModalityKeyboard:
		var e metrics.KeyEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return fmt.Errorf("decoding keyboard event: %w", err)
		}
		if s.keyboard.Record(e) {
			s.rawKeyboard.Record(payload)
		}
	case models.ModalityPointer:
		var e metrics.PointerEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return fmt.Errorf("decoding pointer event: %w", err)
		}
		if s.pointer.Record(e) {
			s.rawPointer.Record(payload)
		}
	case models.ModalityFacial:
		var e metrics.FrameSample
		if err := json.Unmarshal(payload, &e); err != nil {
			return fmt.Errorf("decoding facial sample: %w", err)
		}
		if s.facial.Record(e) {
			s.rawFacial.Record(payload)
		}
	case models.ModalityVoice:
		var e metrics.VoiceSample
		if err := json.Unmarshal(payload, &e); err != nil {
			return fmt.Errorf("decoding voice sample: %w", err)
		}
		if s.voice.Record(e) {
			s.rawVoice.Record(payload)
		}
	default:
		return fmt.Errorf("unknown modality %q", modality)
	}
	return nil
}

// CurrentMetrics recomputes the per-modality metrics from the live buffer
// contents without resetting them.
func (s *Session) CurrentMetrics() metrics.Snapshot {
	return s.refresh()
}

// Snapshot returns the cached metric snapshot, refreshed at every collect
// tick and on every CurrentMetrics call.
func (s *Session) Snapshot() metrics.Snapshot {
	return *s.current.Load()
}

func (s *Session) refresh() metrics.Snapshot {
	var snap metrics.Snapshot
	if kb, ok := metrics.ExtractKeyboard(s.keyboard.Snapshot(), s.params); ok {
		snap.Keyboard = &kb
	}
	if ptr, ok := metrics.ExtractPointer(s.pointer.Snapshot()); ok {
		snap.Pointer = &ptr
	}
	if facial, ok := metrics.ExtractOcular(s.facial.Snapshot()); ok {
		snap.Facial = &facial
	}
	if voice, ok := metrics.ExtractVoice(s.voice.Snapshot()); ok {
		snap.Voice = &voice
	}
	s.current.Store(&snap)
	return snap
}

// flush drains every buffer, persists the raw batches and the derived
// metrics, and updates the cached snapshot. Storage errors are logged; the
// loop keeps running. The final flush also closes the buffers.
func (s *Session) flush(final bool) {
	now := time.Now()
	var snap metrics.Snapshot

	keyEvents := drain(s.keyboard, final)
	s.saveRawBatch(models.ModalityKeyboard, drain(s.rawKeyboard, final), now)
	if kb, ok := metrics.ExtractKeyboard(keyEvents, s.params); ok {
		kb.UserID = s.userID
		kb.Timestamp = now
		snap.Keyboard = &kb
		if err := s.store.SaveKeyboardMetrics(kb); err != nil {
			s.log.Error("Saving keyboard metrics failed", zap.String("user_id", s.userID), zap.Error(err))
		}
	}

	pointerEvents := drain(s.pointer, final)
	s.saveRawBatch(models.ModalityPointer, drain(s.rawPointer, final), now)
	if ptr, ok := metrics.ExtractPointer(pointerEvents); ok {
		ptr.UserID = s.userID
		ptr.Timestamp = now
		snap.Pointer = &ptr
		if err := s.store.SavePointerMetrics(ptr); err != nil {
			s.log.Error("Saving pointer metrics failed", zap.String("user_id", s.userID), zap.Error(err))
		}
	}

	frames := drain(s.facial, final)
	s.saveRawBatch(models.ModalityFacial, drain(s.rawFacial, final), now)
	if facial, ok := metrics.ExtractOcular(frames); ok {
		facial.UserID = s.userID
		facial.Timestamp = now
		snap.Facial = &facial
		if err := s.store.SaveFacialMetrics(facial); err != nil {
			s.log.Error("Saving facial metrics failed", zap.String("user_id", s.userID), zap.Error(err))
		}
	}

	voiceSamples := drain(s.voice, final)
	s.saveRawBatch(models.ModalityVoice, drain(s.rawVoice, final), now)
	if voice, ok := metrics.ExtractVoice(voiceSamples); ok {
		voice.UserID = s.userID
		voice.Timestamp = now
		snap.Voice = &voice
		if err := s.store.SaveVoiceMetrics(voice); err != nil {
			s.log.Error("Saving voice metrics failed", zap.String("user_id", s.userID), zap.Error(err))
		}
	}

	s.current.Store(&snap)
}

func (s *Session) saveRawBatch(modality models.Modality, payloads []json.RawMessage, now time.Time) {
	if len(payloads) == 0 {
		return
	}
	raw, err := json.Marshal(payloads)
	if err != nil {
		s.log.Error("Encoding raw batch failed", zap.String("modality", string(modality)), zap.Error(err))
		return
	}
	batch := models.BehavioralEvent{
		UserID:    s.userID,
		Modality:  modality,
		RawData:   models.JSONText(raw),
		Timestamp: now,
	}
	if err := s.store.SaveEventBatch(batch); err != nil {
		s.log.Error("Saving raw batch failed", zap.String("modality", string(modality)), zap.Error(err))
	}
}

// Stop ends collection, waits up to the configured stop timeout for the loop
// to run its final flush, and guarantees no event submitted afterwards is
// recorded. Stopping twice is a no-op.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.quit)
		select {
		case <-s.loopDone:
		case <-time.After(s.cfg.StopTimeout):
			s.log.Warn("Collector loop did not stop within timeout", zap.String("user_id", s.userID))
		}
	})
}
