// Package pacing implements the pure scheduling algorithms of the study
// engine: the intervention signal, daily allocation, and review segments.
// All functions are deterministic, side-effect free, and total for in-domain
// inputs. No DB, no context, no logger.
package pacing

import (
	"github.com/wordpace/wordpace-backend/internal/domain"
)

const (
	// interventionWindow is how many recent review scores feed the signal.
	interventionWindow = 3

	// proficientAverage and above means no intervention at all.
	proficientAverage = 0.75

	// strugglingAverage and below means full intervention.
	strugglingAverage = 0.30
)

// Intervention derives a 0..1 struggling signal from recent session history.
//
// The last interventionWindow sessions with a non-nil review score are
// averaged. Fewer than that many scores means insufficient history, which is
// treated as proficiency (0.0). Between the proficient and struggling
// thresholds the signal is linearly interpolated. The computation is
// stateless: it is recomputed from scratch every session, with no smoothing
// beyond the window itself.
func Intervention(history []domain.SessionSummary) float64 {
	var scores []float64
	for i := len(history) - 1; i >= 0 && len(scores) < interventionWindow; i-- {
		if history[i].ReviewScore != nil {
			scores = append(scores, *history[i].ReviewScore)
		}
	}

	if len(scores) < interventionWindow {
		return 0.0
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))

	switch {
	case avg >= proficientAverage:
		return 0.0
	case avg <= strugglingAverage:
		return 1.0
	default:
		return (proficientAverage - avg) / (proficientAverage - strugglingAverage)
	}
}
