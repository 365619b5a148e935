package study

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/wordpace/wordpace-backend/internal/domain"
)

// BuildReviewQueue prioritizes and bounds the words a student reviews today.
// The result is an ordered list of word IDs, length <= limit, no duplicates.
//
// Strict priority tiers, each filled completely before the next is consulted:
//
//  1. Today's new-word-test failures, in the order supplied.
//  2. Segment words with status FAILED, least recently queued first
//     (never queued counts as earliest), ties broken by fewest queue
//     appearances. Failed words that keep being skipped surface first.
//  3. Segment words with no test signal (NEVER_TESTED / NEEDS_CHECK),
//     in random order.
//  4. Segment words with status PASSED, in random order. Filler only.
func BuildReviewQueue(segmentStates []*domain.WordStudyState, todayFailures []uuid.UUID, limit int, rng *rand.Rand) []uuid.UUID {
	if limit <= 0 {
		return nil
	}

	queue := make([]uuid.UUID, 0, limit)
	seen := make(map[uuid.UUID]bool, limit)

	push := func(id uuid.UUID) bool {
		if seen[id] {
			return len(queue) < limit
		}
		seen[id] = true
		queue = append(queue, id)
		return len(queue) < limit
	}

	// Tier 1: today's failures, most urgent by definition.
	for _, id := range todayFailures {
		if !push(id) {
			return queue
		}
	}

	var failed, untested, passed []*domain.WordStudyState
	for _, st := range segmentStates {
		switch {
		case st.Status == domain.WordStatusFailed:
			failed = append(failed, st)
		case st.Status.IsUntested():
			untested = append(untested, st)
		case st.Status == domain.WordStatusPassed:
			passed = append(passed, st)
		}
	}

	// Tier 2: failed words, least recently/often queued first.
	sort.SliceStable(failed, func(i, j int) bool {
		a, b := failed[i], failed[j]
		switch {
		case a.LastQueuedAt == nil && b.LastQueuedAt != nil:
			return true
		case a.LastQueuedAt != nil && b.LastQueuedAt == nil:
			return false
		case a.LastQueuedAt != nil && b.LastQueuedAt != nil && !a.LastQueuedAt.Equal(*b.LastQueuedAt):
			return a.LastQueuedAt.Before(*b.LastQueuedAt)
		}
		return a.QueueAppearances < b.QueueAppearances
	})
	for _, st := range failed {
		if !push(st.WordID) {
			return queue
		}
	}

	// Tiers 3 and 4 carry no temporal signal; shuffle them.
	for _, tier := range [][]*domain.WordStudyState{untested, passed} {
		rng.Shuffle(len(tier), func(i, j int) {
			tier[i], tier[j] = tier[j], tier[i]
		})
		for _, st := range tier {
			if !push(st.WordID) {
				return queue
			}
		}
	}

	return queue
}
