package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wordpace/wordpace-backend/internal/domain"
	"github.com/wordpace/wordpace-backend/internal/service/study/pacing"
	"github.com/wordpace/wordpace-backend/pkg/ctxutil"
)

// SessionContext is the explicit in-flight state of one daily session. It is
// returned by StartSession and threaded by the caller through every
// subsequent call; the engine keeps no hidden session state of its own.
type SessionContext struct {
	ClassID uuid.UUID
	ListID  uuid.UUID
	Day     int
	Phase   domain.SessionPhase

	DailyPace    int
	Intervention float64
	Allocation   pacing.Allocation
	Segment      *domain.Segment

	NewWordIDs       []uuid.UUID
	NewWordScore     *float64
	NewWordFailedIDs []uuid.UUID

	ReviewQueueIDs []uuid.UUID
	ReviewScore    *float64

	WordsTested int
	StartedAt   time.Time
}

// ReviewPlanned reports whether today's plan includes a review segment.
func (sc *SessionContext) ReviewPlanned() bool { return sc.Segment != nil }

// StartSession initializes a daily session: runs the mastery-expiry sweep,
// derives today's plan (intervention, allocation, review segment), and
// introduces the day's new words. The returned words are the ones introduced
// today, in list order.
//
// Starting over after an abandoned session is safe: the day counter only
// advances at completion, so a restart recomputes the same plan and reuses
// the word states the abandoned attempt already created.
//
// The session phase starts at NEW_WORDS; when the allocation yields no new
// words (full intervention) it moves straight to REVIEW_STUDY.
func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*SessionContext, []domain.Word, error) {
	studentID, ok := ctxutil.StudentIDFromCtx(ctx)
	if !ok {
		return nil, nil, domain.ErrUnauthorized
	}

	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	now := time.Now()

	progress, err := s.getOrCreateProgress(ctx, studentID, in.ClassID, in.ListID, now)
	if err != nil {
		return nil, nil, err
	}

	pace := in.DailyPace
	if pace == 0 {
		pace = s.cfg.DefaultDailyPace
	}

	intervention := pacing.Intervention(progress.RecentSessions)
	alloc := pacing.PlanAllocation(pace, intervention)
	day := progress.CurrentStudyDay + 1

	segment := pacing.ComputeSegment(pacing.SegmentInput{
		Day:             day,
		DaysPerWeek:     s.cfg.StudyDaysPerWeek,
		TotalIntroduced: progress.TotalWordsIntroduced,
		DailyPace:       pace,
		Intervention:    intervention,
	})

	// The list is finite; never introduce past its end.
	listTotal, err := s.words.CountByListID(ctx, in.ListID)
	if err != nil {
		return nil, nil, fmt.Errorf("count list words: %w", err)
	}
	introduceCount := alloc.NewWords
	if remaining := listTotal - progress.TotalWordsIntroduced; introduceCount > remaining {
		introduceCount = remaining
	}

	var newWords []domain.Word
	if introduceCount > 0 {
		first := progress.TotalWordsIntroduced
		newWords, err = s.words.GetByPositionRange(ctx, in.ListID, first, first+introduceCount-1)
		if err != nil {
			return nil, nil, fmt.Errorf("load new words: %w", err)
		}
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, txErr := s.expireMastery(txCtx, studentID, in.ListID, now); txErr != nil {
			return txErr
		}

		if len(newWords) == 0 {
			return nil
		}

		// A restarted day finds states from the abandoned attempt already in
		// place; only the genuinely missing ones are created.
		wordIDs := make([]uuid.UUID, len(newWords))
		for i, w := range newWords {
			wordIDs[i] = w.ID
		}
		existing, txErr := s.states.GetByWordIDs(txCtx, studentID, wordIDs)
		if txErr != nil {
			return fmt.Errorf("load word states: %w", txErr)
		}
		have := make(map[uuid.UUID]bool, len(existing))
		for _, st := range existing {
			have[st.WordID] = true
		}

		var states []*domain.WordStudyState
		for _, w := range newWords {
			if have[w.ID] {
				continue
			}
			states = append(states, domain.NewWordStudyState(studentID, w, day, now))
		}
		if len(states) == 0 {
			return nil
		}
		if txErr := s.states.CreateBatch(txCtx, states); txErr != nil {
			return fmt.Errorf("create word states: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sc := &SessionContext{
		ClassID:      in.ClassID,
		ListID:       in.ListID,
		Day:          day,
		Phase:        domain.PhaseNewWords,
		DailyPace:    pace,
		Intervention: intervention,
		Allocation:   alloc,
		Segment:      segment,
		StartedAt:    now,
	}
	for _, w := range newWords {
		sc.NewWordIDs = append(sc.NewWordIDs, w.ID)
	}
	if len(newWords) == 0 && sc.ReviewPlanned() {
		sc.Phase = domain.PhaseReviewStudy
	}

	s.log.Info("session started",
		slog.String("student_id", studentID.String()),
		slog.Int("day", day),
		slog.Float64("intervention", intervention),
		slog.Int("new_words", len(newWords)),
		slog.Bool("review_planned", sc.ReviewPlanned()),
	)

	return sc, newWords, nil
}

// NewWordTestPool samples this session's new words for a test instance.
func (s *Service) NewWordTestPool(ctx context.Context, sc *SessionContext) ([]domain.Word, error) {
	if sc.Phase != domain.PhaseNewWords && sc.Phase != domain.PhaseNewWordTest {
		return nil, fmt.Errorf("%w: cannot test new words in phase %s", domain.ErrConflict, sc.Phase)
	}

	words, err := s.words.GetByIDs(ctx, sc.NewWordIDs)
	if err != nil {
		return nil, fmt.Errorf("load new words: %w", err)
	}

	sc.Phase = domain.PhaseNewWordTest
	return SampleWords(words, s.cfg.MaxTestSize, s.newRand()), nil
}

// SubmitNewWordTest applies the new-word test's verdicts and advances the
// session. A score below the configured pass threshold keeps the session in
// NEW_WORD_TEST for a retake (re-test, not re-study). When no review is
// planned — the student's very first day — the session completes directly;
// results and progress are committed in one transaction.
func (s *Service) SubmitNewWordTest(ctx context.Context, sc *SessionContext, in ApplyTestResultsInput) (domain.TestResultSummary, *domain.ClassProgress, error) {
	studentID, ok := ctxutil.StudentIDFromCtx(ctx)
	if !ok {
		return domain.TestResultSummary{}, nil, domain.ErrUnauthorized
	}

	if sc.Phase != domain.PhaseNewWords && sc.Phase != domain.PhaseNewWordTest {
		return domain.TestResultSummary{}, nil, fmt.Errorf("%w: cannot submit new-word test in phase %s", domain.ErrConflict, sc.Phase)
	}
	if err := in.Validate(); err != nil {
		return domain.TestResultSummary{}, nil, err
	}

	now := time.Now()
	completing := !sc.ReviewPlanned()

	var summary domain.TestResultSummary
	var progress *domain.ClassProgress

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		summary, txErr = s.applyVerdicts(txCtx, studentID, in.Verdicts, now)
		if txErr != nil {
			return txErr
		}

		// Below the pass threshold the day cannot complete yet, so the
		// progress write is skipped regardless of the review plan.
		if completing && summary.Score >= s.cfg.NewWordPassScore {
			scored := *sc
			scored.NewWordScore = &summary.Score
			scored.WordsTested = sc.WordsTested + summary.Total
			progress, _, txErr = s.completeProgress(txCtx, studentID, &scored, now)
			return txErr
		}
		return nil
	})
	if err != nil {
		return domain.TestResultSummary{}, nil, err
	}

	sc.NewWordScore = &summary.Score
	sc.NewWordFailedIDs = summary.FailedWordIDs
	sc.WordsTested += summary.Total

	switch {
	case summary.Score < s.cfg.NewWordPassScore:
		sc.Phase = domain.PhaseNewWordTest // retake
	case completing:
		sc.Phase = domain.PhaseComplete
	default:
		sc.Phase = domain.PhaseReviewStudy
	}

	return summary, progress, nil
}

// BuildSessionReviewQueue materializes today's review queue: this session's
// new-word failures first, then the segment by tier priority, bounded by the
// allocation's review cap. Queue appearances are recorded on every included
// word. Returns the queue's words in priority order.
func (s *Service) BuildSessionReviewQueue(ctx context.Context, sc *SessionContext) ([]domain.Word, error) {
	studentID, ok := ctxutil.StudentIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if sc.Phase != domain.PhaseReviewStudy {
		return nil, fmt.Errorf("%w: cannot build review queue in phase %s", domain.ErrConflict, sc.Phase)
	}

	now := time.Now()

	var segmentStates []*domain.WordStudyState
	if sc.Segment != nil {
		var err error
		segmentStates, err = s.states.GetByPositionRange(ctx, studentID, sc.ListID, sc.Segment.Start, sc.Segment.End)
		if err != nil {
			return nil, fmt.Errorf("load segment states: %w", err)
		}
	}

	queueIDs := BuildReviewQueue(segmentStates, sc.NewWordFailedIDs, sc.Allocation.ReviewCap, s.newRand())
	sc.ReviewQueueIDs = queueIDs
	if len(queueIDs) == 0 {
		return []domain.Word{}, nil
	}

	// Record the queue exposure. Status never changes here.
	queued := make(map[uuid.UUID]bool, len(queueIDs))
	for _, id := range queueIDs {
		queued[id] = true
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		states, txErr := s.states.GetByWordIDs(txCtx, studentID, queueIDs)
		if txErr != nil {
			return fmt.Errorf("load queued states: %w", txErr)
		}
		for _, st := range states {
			if queued[st.WordID] {
				st.MarkQueued(now)
			}
		}
		if txErr := s.states.UpdateBatch(txCtx, states); txErr != nil {
			return fmt.Errorf("write queue tracking: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	words, err := s.words.GetByIDs(ctx, queueIDs)
	if err != nil {
		return nil, fmt.Errorf("load queue words: %w", err)
	}
	byID := make(map[uuid.UUID]domain.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	ordered := make([]domain.Word, 0, len(queueIDs))
	for _, id := range queueIDs {
		if w, ok := byID[id]; ok {
			ordered = append(ordered, w)
		}
	}

	return ordered, nil
}

// ReviewTestPool samples the review queue for a test instance and moves the
// session to REVIEW_TEST.
func (s *Service) ReviewTestPool(ctx context.Context, sc *SessionContext) ([]domain.Word, error) {
	if sc.Phase != domain.PhaseReviewStudy && sc.Phase != domain.PhaseReviewTest {
		return nil, fmt.Errorf("%w: cannot start review test in phase %s", domain.ErrConflict, sc.Phase)
	}

	words, err := s.words.GetByIDs(ctx, sc.ReviewQueueIDs)
	if err != nil {
		return nil, fmt.Errorf("load queue words: %w", err)
	}

	sc.Phase = domain.PhaseReviewTest
	return SampleWords(words, s.cfg.MaxTestSize, s.newRand()), nil
}

// SubmitReviewTest finishes the session: the review test's verdicts, segment
// graduation, and the progress advance are committed as one transaction. If
// the transaction fails the session stays on REVIEW_TEST and none of those
// side effects are visible.
func (s *Service) SubmitReviewTest(ctx context.Context, sc *SessionContext, in ApplyTestResultsInput) (domain.TestResultSummary, *domain.ClassProgress, error) {
	studentID, ok := ctxutil.StudentIDFromCtx(ctx)
	if !ok {
		return domain.TestResultSummary{}, nil, domain.ErrUnauthorized
	}

	if sc.Phase != domain.PhaseReviewStudy && sc.Phase != domain.PhaseReviewTest {
		return domain.TestResultSummary{}, nil, fmt.Errorf("%w: cannot submit review test in phase %s", domain.ErrConflict, sc.Phase)
	}
	if err := in.Validate(); err != nil {
		return domain.TestResultSummary{}, nil, err
	}

	now := time.Now()
	sc.Phase = domain.PhaseReviewTest

	var summary domain.TestResultSummary
	var progress *domain.ClassProgress

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		summary, txErr = s.applyVerdicts(txCtx, studentID, in.Verdicts, now)
		if txErr != nil {
			return txErr
		}

		if sc.Segment != nil {
			_, txErr = s.graduateSegment(txCtx, studentID, GraduateSegmentInput{
				ListID:        sc.ListID,
				Segment:       *sc.Segment,
				Score:         summary.Score,
				FailedWordIDs: summary.FailedWordIDs,
			}, now)
			if txErr != nil {
				return txErr
			}
		}

		scored := *sc
		scored.ReviewScore = &summary.Score
		scored.WordsTested = sc.WordsTested + summary.Total
		progress, _, txErr = s.completeProgress(txCtx, studentID, &scored, now)
		return txErr
	})
	if err != nil {
		return domain.TestResultSummary{}, nil, err
	}

	sc.ReviewScore = &summary.Score
	sc.WordsTested += summary.Total
	sc.Phase = domain.PhaseComplete

	return summary, progress, nil
}

// CompleteSession persists the session outcome for days that never reach a
// review test: REVIEW_STUDY when the queue came up empty, or COMPLETE for a
// retried call. Duplicate completions are a defined no-op: the stored
// progress is returned unchanged. Any phase with a test still pending is
// rejected.
func (s *Service) CompleteSession(ctx context.Context, sc *SessionContext) (*domain.ClassProgress, error) {
	studentID, ok := ctxutil.StudentIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if sc.Phase != domain.PhaseReviewStudy && sc.Phase != domain.PhaseComplete {
		return nil, fmt.Errorf("%w: cannot complete session in phase %s", domain.ErrConflict, sc.Phase)
	}

	var progress *domain.ClassProgress
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		var applied bool
		progress, applied, txErr = s.completeProgress(txCtx, studentID, sc, time.Now())
		if txErr == nil && applied {
			sc.Phase = domain.PhaseComplete
		}
		return txErr
	})
	if err != nil {
		return nil, err
	}

	return progress, nil
}

// completeProgress advances the day counter and appends the session summary.
// Must run inside a transaction.
//
// The duplicate-completion guard: the incoming day must be exactly one past
// the stored day. Anything else (a retried network call, a second device)
// leaves progress untouched and reports applied=false without an error.
func (s *Service) completeProgress(ctx context.Context, studentID uuid.UUID, sc *SessionContext, now time.Time) (*domain.ClassProgress, bool, error) {
	progress, err := s.progress.Get(ctx, studentID, sc.ClassID, sc.ListID)
	if err != nil {
		return nil, false, fmt.Errorf("load progress: %w", err)
	}

	if !progress.CanComplete(sc.Day) {
		s.log.Warn("stale session completion ignored",
			slog.String("student_id", studentID.String()),
			slog.Int("session_day", sc.Day),
			slog.Int("stored_day", progress.CurrentStudyDay),
		)
		return progress, false, nil
	}

	summary := domain.SessionSummary{
		Day:             sc.Day,
		Date:            now,
		NewWordScore:    sc.NewWordScore,
		ReviewScore:     sc.ReviewScore,
		WordsIntroduced: len(sc.NewWordIDs),
		WordsReviewed:   len(sc.ReviewQueueIDs),
		WordsTested:     sc.WordsTested,
	}
	if sc.Segment != nil {
		start, end := sc.Segment.Start, sc.Segment.End
		summary.SegmentStart = &start
		summary.SegmentEnd = &end
	}

	progress.ApplySession(summary, sc.Intervention, now)

	if err := s.progress.Update(ctx, progress); err != nil {
		return nil, false, fmt.Errorf("write progress: %w", err)
	}

	s.log.Info("session completed",
		slog.String("student_id", studentID.String()),
		slog.Int("day", sc.Day),
		slog.Int("words_introduced", summary.WordsIntroduced),
		slog.Int("words_tested", summary.WordsTested),
	)

	return progress, true, nil
}

// getOrCreateProgress loads the progress record, creating a zeroed one on a
// student's first session with the list.
func (s *Service) getOrCreateProgress(ctx context.Context, studentID, classID, listID uuid.UUID, now time.Time) (*domain.ClassProgress, error) {
	progress, err := s.progress.Get(ctx, studentID, classID, listID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	progress = domain.NewClassProgress(studentID, classID, listID, now)
	if err := s.progress.Create(ctx, progress); err != nil {
		// Lost a race with another device; re-read the winner's record.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.progress.Get(ctx, studentID, classID, listID)
		}
		return nil, fmt.Errorf("create progress: %w", err)
	}

	return progress, nil
}
