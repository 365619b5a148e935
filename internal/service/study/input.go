package study

import (
	"github.com/google/uuid"
	"github.com/wordpace/wordpace-backend/internal/domain"
)

// StartSessionInput begins a new daily session for (student, class, list).
// DailyPace of 0 falls back to the configured default.
type StartSessionInput struct {
	ClassID   uuid.UUID
	ListID    uuid.UUID
	DailyPace int
}

func (in StartSessionInput) Validate() error {
	var errs []domain.FieldError
	if in.ClassID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "class_id", Message: "must not be empty"})
	}
	if in.ListID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "list_id", Message: "must not be empty"})
	}
	if in.DailyPace < 0 {
		errs = append(errs, domain.FieldError{Field: "daily_pace", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ApplyTestResultsInput is one test submission: a verdict per tested word.
type ApplyTestResultsInput struct {
	Verdicts []domain.TestVerdict
}

func (in ApplyTestResultsInput) Validate() error {
	if len(in.Verdicts) == 0 {
		return domain.NewValidationError("verdicts", "must not be empty")
	}
	seen := make(map[uuid.UUID]bool, len(in.Verdicts))
	for _, v := range in.Verdicts {
		if v.WordID == uuid.Nil {
			return domain.NewValidationError("verdicts", "word_id must not be empty")
		}
		if seen[v.WordID] {
			return domain.NewValidationError("verdicts", "duplicate word_id "+v.WordID.String())
		}
		seen[v.WordID] = true
	}
	return nil
}

// GraduateSegmentInput promotes part of a reviewed segment after its test.
type GraduateSegmentInput struct {
	ListID        uuid.UUID
	Segment       domain.Segment
	Score         float64
	FailedWordIDs []uuid.UUID
}

func (in GraduateSegmentInput) Validate() error {
	var errs []domain.FieldError
	if in.ListID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "list_id", Message: "must not be empty"})
	}
	if in.Segment.Start < 0 || in.Segment.End < in.Segment.Start {
		errs = append(errs, domain.FieldError{Field: "segment", Message: "malformed range"})
	}
	if in.Score < 0 || in.Score > 1 {
		errs = append(errs, domain.FieldError{Field: "score", Message: "must be in [0,1]"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
