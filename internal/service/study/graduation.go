package study

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/wordpace/wordpace-backend/internal/domain"
	"github.com/wordpace/wordpace-backend/pkg/ctxutil"
)

// GraduateSegment promotes a score-proportional random subset of a reviewed
// segment to MASTERED. Eligibility is about this test only: any segment word
// that did not fail it can graduate, whatever its stored status says about
// earlier days.
func (s *Service) GraduateSegment(ctx context.Context, in GraduateSegmentInput) (domain.GraduationResult, error) {
	studentID, ok := ctxutil.StudentIDFromCtx(ctx)
	if !ok {
		return domain.GraduationResult{}, domain.ErrUnauthorized
	}

	if err := in.Validate(); err != nil {
		return domain.GraduationResult{}, err
	}

	var result domain.GraduationResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		result, txErr = s.graduateSegment(txCtx, studentID, in, time.Now())
		return txErr
	})
	if err != nil {
		return domain.GraduationResult{}, err
	}

	return result, nil
}

// graduateSegment does the actual promotion. Must run inside a transaction.
func (s *Service) graduateSegment(ctx context.Context, studentID uuid.UUID, in GraduateSegmentInput, now time.Time) (domain.GraduationResult, error) {
	states, err := s.states.GetByPositionRange(ctx, studentID, in.ListID, in.Segment.Start, in.Segment.End)
	if err != nil {
		return domain.GraduationResult{}, fmt.Errorf("load segment states: %w", err)
	}

	failed := make(map[uuid.UUID]bool, len(in.FailedWordIDs))
	for _, id := range in.FailedWordIDs {
		failed[id] = true
	}

	eligible := make([]*domain.WordStudyState, 0, len(states))
	for _, st := range states {
		if !failed[st.WordID] {
			eligible = append(eligible, st)
		}
	}

	count := int(math.Floor(float64(len(states)) * in.Score))
	if count > len(eligible) {
		count = len(eligible)
	}

	result := domain.GraduationResult{EligibleCount: len(eligible)}
	if count <= 0 {
		return result, nil
	}

	selected := sampleSubset(eligible, count, s.newRand())
	returnAt := now.Add(s.cfg.MasteryReturnWindow())
	for _, st := range selected {
		st.Graduate(now, returnAt)
		result.GraduatedWordIDs = append(result.GraduatedWordIDs, st.WordID)
	}
	result.Graduated = len(selected)

	if err := s.states.UpdateBatch(ctx, selected); err != nil {
		return domain.GraduationResult{}, fmt.Errorf("write graduated states: %w", err)
	}

	s.log.Info("segment graduated",
		slog.String("student_id", studentID.String()),
		slog.Int("segment_size", len(states)),
		slog.Int("graduated", result.Graduated),
	)

	return result, nil
}

// ExpireMastery returns every MASTERED word whose return date has elapsed to
// the active pool as NEEDS_CHECK. The sweep is idempotent: words already
// swept no longer match the query.
func (s *Service) ExpireMastery(ctx context.Context, listID uuid.UUID) (int, error) {
	studentID, ok := ctxutil.StudentIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	var expired int
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		expired, txErr = s.expireMastery(txCtx, studentID, listID, time.Now())
		return txErr
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		s.log.Info("mastery expired",
			slog.String("student_id", studentID.String()),
			slog.Int("words", expired),
		)
	}

	return expired, nil
}

func (s *Service) expireMastery(ctx context.Context, studentID, listID uuid.UUID, now time.Time) (int, error) {
	states, err := s.states.GetExpiredMastered(ctx, studentID, listID, now)
	if err != nil {
		return 0, fmt.Errorf("load expired mastered: %w", err)
	}
	if len(states) == 0 {
		return 0, nil
	}

	for _, st := range states {
		st.ExpireMastery(now)
	}

	if err := s.states.UpdateBatch(ctx, states); err != nil {
		return 0, fmt.Errorf("write expired states: %w", err)
	}

	return len(states), nil
}
