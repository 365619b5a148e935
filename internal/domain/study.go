package domain

import (
	"time"

	"github.com/google/uuid"
)

// WordStudyState is the per-(student, word) study record. It is created when
// the word is first introduced and never deleted.
//
// Status is mutated only through ApplyVerdict (tests), Graduate (graduation)
// and ExpireMastery (return sweep). MarkQueued touches only queue tracking.
type WordStudyState struct {
	ID               uuid.UUID
	StudentID        uuid.UUID
	WordID           uuid.UUID
	ListID           uuid.UUID
	Status           WordStatus
	TimesTested      int
	TimesCorrect     int
	LastTestedAt     *time.Time
	LastTestResult   *bool
	LastQueuedAt     *time.Time
	QueueAppearances int
	WordIndex        int // ordinal position of the word in its list
	IntroducedOnDay  int
	MasteredAt       *time.Time
	ReturnAt         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewWordStudyState creates the initial state for a freshly introduced word.
func NewWordStudyState(studentID uuid.UUID, word Word, day int, now time.Time) *WordStudyState {
	return &WordStudyState{
		ID:              uuid.New(),
		StudentID:       studentID,
		WordID:          word.ID,
		ListID:          word.ListID,
		Status:          WordStatusNeverTested,
		WordIndex:       word.Position,
		IntroducedOnDay: day,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ApplyVerdict advances the state machine with a test outcome. A test resolves
// all prior queue exposure, so queue tracking is reset unconditionally.
func (s *WordStudyState) ApplyVerdict(correct bool, now time.Time) {
	if correct {
		s.Status = WordStatusPassed
		s.TimesCorrect++
	} else {
		s.Status = WordStatusFailed
	}
	s.TimesTested++
	s.LastTestedAt = &now
	s.LastTestResult = &correct
	s.LastQueuedAt = nil
	s.QueueAppearances = 0
	s.UpdatedAt = now
}

// MarkQueued records a review-queue appearance without touching status.
func (s *WordStudyState) MarkQueued(now time.Time) {
	s.LastQueuedAt = &now
	s.QueueAppearances++
	s.UpdatedAt = now
}

// Graduate promotes the word to MASTERED until returnAt.
func (s *WordStudyState) Graduate(now, returnAt time.Time) {
	s.Status = WordStatusMastered
	s.MasteredAt = &now
	s.ReturnAt = &returnAt
	s.UpdatedAt = now
}

// MasteryExpired reports whether a MASTERED word's return date has elapsed.
func (s *WordStudyState) MasteryExpired(now time.Time) bool {
	return s.Status == WordStatusMastered && s.ReturnAt != nil && !s.ReturnAt.After(now)
}

// ExpireMastery returns the word to the active pool as NEEDS_CHECK.
func (s *WordStudyState) ExpireMastery(now time.Time) {
	s.Status = WordStatusNeedsCheck
	s.MasteredAt = nil
	s.ReturnAt = nil
	s.UpdatedAt = now
}

// IsBlindSpot reports whether the word has never been tested, or was last
// tested longer than staleAfter ago.
func (s *WordStudyState) IsBlindSpot(now time.Time, staleAfter time.Duration) bool {
	if s.Status == WordStatusMastered {
		return false
	}
	if s.LastTestedAt == nil {
		return true
	}
	return now.Sub(*s.LastTestedAt) > staleAfter
}

// Segment is a contiguous, inclusive slice of word ordinal positions due for
// review on a given day. A nil *Segment means no review today.
type Segment struct {
	Start int
	End   int
}

// Size returns the number of positions covered by the segment.
func (s Segment) Size() int { return s.End - s.Start + 1 }

// Contains reports whether the given ordinal position falls inside the segment.
func (s Segment) Contains(position int) bool {
	return position >= s.Start && position <= s.End
}

// TestVerdict is one graded answer inside a test submission.
type TestVerdict struct {
	WordID  uuid.UUID
	Correct bool
}

// TestResultSummary is the aggregate outcome of one processed test.
type TestResultSummary struct {
	Score         float64
	Correct       int
	Total         int
	FailedWordIDs []uuid.UUID
}

// GraduationResult reports the outcome of a segment graduation.
type GraduationResult struct {
	Graduated        int
	GraduatedWordIDs []uuid.UUID
	EligibleCount    int
}
