package metrics

import (
	"sort"

	"fatigue-go/internal/models"
)

// KeyboardParams holds the keystroke thresholds that are still being tuned;
// the canonical defaults live in the config package.
type KeyboardParams struct {
	ErrorRateCap      float64 // percentage ceiling on error_rate
	ShortTextChars    int     // below this many chars the leniency applies
	ShortTextLeniency float64 // multiplier applied to short-text error rates
	PauseThreshold    float64 // seconds between presses that counts as a pause
}

// DefaultKeyboardParams are the canonical thresholds.
var DefaultKeyboardParams = KeyboardParams{
	ErrorRateCap:      50.0,
	ShortTextChars:    10,
	ShortTextLeniency: 0.5,
	PauseThreshold:    1.0,
}

// ExtractKeyboard converts drained press/release events into keystroke
// dynamics. ok is false when fewer than 2 press events were recorded.
func ExtractKeyboard(events []KeyEvent, p KeyboardParams) (models.KeyboardMetrics, bool) {
	if len(events) == 0 {
		return models.KeyboardMetrics{}, false
	}

	sorted := make([]KeyEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	presses := make([]KeyEvent, 0, len(sorted))
	for _, event := range sorted {
		if event.Kind == KeyPress {
			presses = append(presses, event)
		}
	}
	if len(presses) < 2 {
		return models.KeyboardMetrics{}, false
	}

	// Elapsed minutes between first and last press, floored at one second to
	// keep burst samples from dividing by zero.
	elapsed := (presses[len(presses)-1].Timestamp - presses[0].Timestamp) / 60
	if elapsed < 1.0/60 {
		elapsed = 1.0 / 60
	}

	typingSpeed := float64(len(presses)) / elapsed

	pauses := 0
	for i := 1; i < len(presses); i++ {
		if presses[i].Timestamp-presses[i-1].Timestamp > p.PauseThreshold {
			pauses++
		}
	}
	pauseFrequency := float64(pauses) / elapsed

	// Corrections are counted on release (a backspace keyup), typed
	// characters on press.
	totalChars := 0
	for _, press := range presses {
		if !press.IsCorrection {
			totalChars++
		}
	}
	corrections := 0
	for _, event := range sorted {
		if event.Kind == KeyRelease && event.IsCorrection {
			corrections++
		}
	}

	errorRate := 0.0
	if totalChars > 0 {
		errorRate = float64(corrections) / float64(totalChars) * 100
		if totalChars < p.ShortTextChars {
			errorRate *= p.ShortTextLeniency
		}
		if errorRate > p.ErrorRateCap {
			errorRate = p.ErrorRateCap
		}
	}

	// Hold durations over matched press/release pairs. Unmatched releases are
	// dropped; a press with no release still counts toward typing speed but
	// not toward the duration mean.
	pressTimes := make(map[string]float64)
	var durationSum float64
	matched := 0
	for _, event := range sorted {
		switch event.Kind {
		case KeyPress:
			pressTimes[event.KeyID] = event.Timestamp
		case KeyRelease:
			if downTime, exists := pressTimes[event.KeyID]; exists {
				durationSum += event.Timestamp - downTime
				matched++
				delete(pressTimes, event.KeyID)
			}
		}
	}
	keyPressDuration := 0.0
	if matched > 0 {
		keyPressDuration = durationSum / float64(matched) * 1000
	}

	return models.KeyboardMetrics{
		TypingSpeed:      typingSpeed,
		ErrorRate:        errorRate,
		PauseFrequency:   pauseFrequency,
		KeyPressDuration: keyPressDuration,
	}, true
}
