package metrics

import (
	"math"
	"sort"

	"fatigue-go/internal/models"
)

// ExtractPointer converts drained move/click/scroll events into pointer
// dynamics. ok is false unless both movement and click events were recorded.
func ExtractPointer(events []PointerEvent) (models.PointerMetrics, bool) {
	if len(events) == 0 {
		return models.PointerMetrics{}, false
	}

	sorted := make([]PointerEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	// Moves and scrolls both carry a position; clicks are kept separate.
	positions := make([]PointerEvent, 0, len(sorted))
	clicks := make([]PointerEvent, 0)
	for _, event := range sorted {
		switch event.Kind {
		case PointerMove, PointerScroll:
			positions = append(positions, event)
		case PointerClick:
			clicks = append(clicks, event)
		}
	}
	if len(positions) == 0 || len(clicks) == 0 {
		return models.PointerMetrics{}, false
	}

	// Mean per-step velocity, skipping the first point (no prior position)
	// and steps with zero time delta.
	var speedSum float64
	speedSamples := 0
	var totalDistance float64
	for i := 1; i < len(positions); i++ {
		dx := positions[i].X - positions[i-1].X
		dy := positions[i].Y - positions[i-1].Y
		distance := math.Sqrt(dx*dx + dy*dy)
		totalDistance += distance

		dt := positions[i].Timestamp - positions[i-1].Timestamp
		if dt > 0 {
			speedSum += distance / dt
			speedSamples++
		}
	}
	movementSpeed := 0.0
	if speedSamples > 0 {
		movementSpeed = speedSum / float64(speedSamples)
	}

	// Click frequency over the full activity span, floored at one second.
	first := math.Min(positions[0].Timestamp, clicks[0].Timestamp)
	last := math.Max(positions[len(positions)-1].Timestamp, clicks[len(clicks)-1].Timestamp)
	elapsed := (last - first) / 60
	if elapsed < 1.0/60 {
		elapsed = 1.0 / 60
	}
	clickFrequency := float64(len(clicks)) / elapsed

	// Direction changes via a sign reversal of the x or y delta versus the
	// previous step. A zero-crossing heuristic, not curvature.
	directionChanges := 0
	for i := 2; i < len(positions); i++ {
		dx1 := positions[i-1].X - positions[i-2].X
		dy1 := positions[i-1].Y - positions[i-2].Y
		dx2 := positions[i].X - positions[i-1].X
		dy2 := positions[i].Y - positions[i-1].Y
		if dx2*dx1 < 0 || dy2*dy1 < 0 {
			directionChanges++
		}
	}

	clickPositions := make([][2]float64, 0, len(clicks))
	for _, click := range clicks {
		clickPositions = append(clickPositions, [2]float64{click.X, click.Y})
	}

	return models.PointerMetrics{
		MovementSpeed:  movementSpeed,
		ClickFrequency: clickFrequency,
		MovementPattern: models.MovementPattern{
			TotalDistance:    totalDistance,
			DirectionChanges: directionChanges,
			ClickPositions:   clickPositions,
		},
	}, true
}
