package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecentSessionsCap bounds the ClassProgress session history ring buffer.
const RecentSessionsCap = 10

// SessionSummary is the immutable record appended to ClassProgress when a
// daily session completes. Score pointers are nil when the corresponding
// test did not happen (e.g. no review on day one).
type SessionSummary struct {
	Day             int       `json:"day"`
	Date            time.Time `json:"date"`
	NewWordScore    *float64  `json:"new_word_score"`
	ReviewScore     *float64  `json:"review_score"`
	SegmentStart    *int      `json:"segment_start"`
	SegmentEnd      *int      `json:"segment_end"`
	WordsIntroduced int       `json:"words_introduced"`
	WordsReviewed   int       `json:"words_reviewed"`
	WordsTested     int       `json:"words_tested"`
}

// ProgressStats holds rolling averages derived from the recent session window.
type ProgressStats struct {
	AvgNewWordScore  *float64
	AvgReviewScore   *float64
	AvgWordsPerDay   float64
	SessionsRecorded int
}

// ClassProgress tracks one student's advancement through a list assignment.
// CurrentStudyDay and TotalWordsIntroduced are monotonic; the day counter
// advances exactly once per completed session.
type ClassProgress struct {
	ID                   uuid.UUID
	StudentID            uuid.UUID
	ClassID              uuid.UUID
	ListID               uuid.UUID
	CurrentStudyDay      int
	TotalWordsIntroduced int
	InterventionLevel    float64
	RecentSessions       []SessionSummary
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewClassProgress creates a zeroed progress record for a first session.
func NewClassProgress(studentID, classID, listID uuid.UUID, now time.Time) *ClassProgress {
	return &ClassProgress{
		ID:        uuid.New(),
		StudentID: studentID,
		ClassID:   classID,
		ListID:    listID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanComplete reports whether a completion for the given day number is the
// expected next one. Anything else is a duplicate or out-of-order call and
// must be treated as a no-op by the caller.
func (p *ClassProgress) CanComplete(day int) bool {
	return day == p.CurrentStudyDay+1
}

// ApplySession records a completed session: appends the summary to the ring
// buffer (oldest evicted beyond RecentSessionsCap), advances the day counter
// and the monotonic introduced-words total, and stores the recomputed
// intervention level.
func (p *ClassProgress) ApplySession(summary SessionSummary, intervention float64, now time.Time) {
	p.CurrentStudyDay = summary.Day
	p.TotalWordsIntroduced += summary.WordsIntroduced
	p.InterventionLevel = intervention
	p.RecentSessions = append(p.RecentSessions, summary)
	if len(p.RecentSessions) > RecentSessionsCap {
		p.RecentSessions = p.RecentSessions[len(p.RecentSessions)-RecentSessionsCap:]
	}
	p.UpdatedAt = now
}

// Stats derives rolling averages over the recent session window.
func (p *ClassProgress) Stats() ProgressStats {
	stats := ProgressStats{SessionsRecorded: len(p.RecentSessions)}
	if len(p.RecentSessions) == 0 {
		return stats
	}

	var newSum, reviewSum float64
	var newN, reviewN, words int
	for _, s := range p.RecentSessions {
		if s.NewWordScore != nil {
			newSum += *s.NewWordScore
			newN++
		}
		if s.ReviewScore != nil {
			reviewSum += *s.ReviewScore
			reviewN++
		}
		words += s.WordsIntroduced
	}

	if newN > 0 {
		avg := newSum / float64(newN)
		stats.AvgNewWordScore = &avg
	}
	if reviewN > 0 {
		avg := reviewSum / float64(reviewN)
		stats.AvgReviewScore = &avg
	}
	stats.AvgWordsPerDay = float64(words) / float64(len(p.RecentSessions))

	return stats
}
