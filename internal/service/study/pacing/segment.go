package pacing

import (
	"math"

	"github.com/wordpace/wordpace-backend/internal/domain"
)

// SegmentInput holds everything needed to compute today's review segment.
type SegmentInput struct {
	Day             int // 1-indexed study day
	DaysPerWeek     int
	TotalIntroduced int
	DailyPace       int
	Intervention    float64
}

// ComputeSegment determines which contiguous slice of previously introduced
// words is due for review today, rotating across the week. Returns nil when
// there is nothing to review.
//
// The week's expected corpus is projected forward to the last day of the
// current week using an intervention-adjusted pace, then divided into equal
// segments, one per remaining review day. Week 1 has one segment fewer
// because its first day has nothing to review. The forward-looking projection
// means every introduced word lands in exactly one segment per week no matter
// when in the week it was introduced.
func ComputeSegment(in SegmentInput) *domain.Segment {
	if in.Day < 1 || in.DaysPerWeek < 1 {
		return nil
	}

	week := (in.Day + in.DaysPerWeek - 1) / in.DaysPerWeek
	dayOfWeek := ((in.Day - 1) % in.DaysPerWeek) + 1

	// Week 1 day 1: nothing has been introduced yet.
	if week == 1 && dayOfWeek == 1 {
		return nil
	}

	adjustedPace := float64(in.DailyPace) * (1 - clamp01(in.Intervention))
	daysRemaining := in.DaysPerWeek - dayOfWeek
	projected := float64(in.TotalIntroduced) + float64(daysRemaining)*adjustedPace
	if projected <= 0 {
		return nil
	}

	divisor := in.DaysPerWeek
	segmentIndex := dayOfWeek - 1
	if week == 1 {
		divisor = in.DaysPerWeek - 1
		segmentIndex = dayOfWeek - 2
	}
	if divisor < 1 {
		return nil
	}

	segmentSize := int(math.Ceil(projected / float64(divisor)))
	if segmentSize < 1 {
		return nil
	}

	start := segmentIndex * segmentSize
	if start >= in.TotalIntroduced {
		return nil
	}

	end := (segmentIndex + 1) * segmentSize
	if end > in.TotalIntroduced {
		end = in.TotalIntroduced
	}

	return &domain.Segment{Start: start, End: end - 1}
}
