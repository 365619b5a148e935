package pacing

import "math"

// Allocation is today's word budget: how many new words to introduce and the
// cap on the review queue.
type Allocation struct {
	NewWords  int
	ReviewCap int
}

// PlanAllocation turns a pace target and an intervention level into today's
// allocation. A struggling student gets fewer new words and a larger review
// allowance; the review allowance grows twice as fast as the new-word
// allowance shrinks.
func PlanAllocation(dailyPace int, intervention float64) Allocation {
	i := clamp01(intervention)
	pace := float64(dailyPace)

	return Allocation{
		NewWords:  int(math.Round(pace * (1 - i))),
		ReviewCap: int(math.Round(pace * (1 + 2*i))),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
