package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wordpace/wordpace-backend/internal/domain"
	"github.com/wordpace/wordpace-backend/pkg/ctxutil"
)

// ApplyTestResults consumes one test's verdicts as an atomic batch and
// advances every word's state machine: status, counters, and queue-tracking
// reset. Either all per-word updates are persisted or none are.
func (s *Service) ApplyTestResults(ctx context.Context, in ApplyTestResultsInput) (domain.TestResultSummary, error) {
	studentID, ok := ctxutil.StudentIDFromCtx(ctx)
	if !ok {
		return domain.TestResultSummary{}, domain.ErrUnauthorized
	}

	if err := in.Validate(); err != nil {
		return domain.TestResultSummary{}, err
	}

	var summary domain.TestResultSummary
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		summary, txErr = s.applyVerdicts(txCtx, studentID, in.Verdicts, time.Now())
		return txErr
	})
	if err != nil {
		return domain.TestResultSummary{}, err
	}

	s.log.Info("test results applied",
		slog.String("student_id", studentID.String()),
		slog.Int("total", summary.Total),
		slog.Int("correct", summary.Correct),
	)

	return summary, nil
}

// applyVerdicts loads the affected states, applies the verdicts, and writes
// the batch. Must run inside a transaction.
func (s *Service) applyVerdicts(ctx context.Context, studentID uuid.UUID, verdicts []domain.TestVerdict, now time.Time) (domain.TestResultSummary, error) {
	ids := make([]uuid.UUID, len(verdicts))
	byWord := make(map[uuid.UUID]bool, len(verdicts))
	for i, v := range verdicts {
		ids[i] = v.WordID
		byWord[v.WordID] = v.Correct
	}

	states, err := s.states.GetByWordIDs(ctx, studentID, ids)
	if err != nil {
		return domain.TestResultSummary{}, fmt.Errorf("load word states: %w", err)
	}
	if len(states) != len(verdicts) {
		return domain.TestResultSummary{}, fmt.Errorf("%w: %d of %d tested words have no study state",
			domain.ErrNotFound, len(verdicts)-len(states), len(verdicts))
	}

	summary := domain.TestResultSummary{Total: len(verdicts)}
	for _, st := range states {
		correct := byWord[st.WordID]
		st.ApplyVerdict(correct, now)
		if correct {
			summary.Correct++
		} else {
			summary.FailedWordIDs = append(summary.FailedWordIDs, st.WordID)
		}
	}
	summary.Score = float64(summary.Correct) / float64(summary.Total)

	if err := s.states.UpdateBatch(ctx, states); err != nil {
		return domain.TestResultSummary{}, fmt.Errorf("write word states: %w", err)
	}

	return summary, nil
}

// ---------------------------------------------------------------------------
// Verdict production
// ---------------------------------------------------------------------------

// GradingItem is one free-text answer sent to the external scoring oracle.
type GradingItem struct {
	WordID     uuid.UUID
	Text       string
	Definition string
	Response   string
}

// FreeTextAnswer pairs a word with the student's typed response.
type FreeTextAnswer struct {
	WordID   uuid.UUID
	Response string
}

// GradeFreeText turns free-text answers into verdicts via the grading oracle.
// The engine performs no state mutation here; if the oracle is unavailable
// the submission simply has not happened.
func (s *Service) GradeFreeText(ctx context.Context, answers []FreeTextAnswer) ([]domain.TestVerdict, error) {
	if len(answers) == 0 {
		return nil, domain.NewValidationError("answers", "must not be empty")
	}

	ids := make([]uuid.UUID, len(answers))
	for i, a := range answers {
		ids[i] = a.WordID
	}

	words, err := s.words.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	defs := make(map[uuid.UUID]domain.Word, len(words))
	for _, w := range words {
		defs[w.ID] = w
	}

	items := make([]GradingItem, len(answers))
	for i, a := range answers {
		w, ok := defs[a.WordID]
		if !ok {
			return nil, fmt.Errorf("word %s: %w", a.WordID, domain.ErrNotFound)
		}
		items[i] = GradingItem{
			WordID:     a.WordID,
			Text:       w.Text,
			Definition: w.Definition,
			Response:   a.Response,
		}
	}

	correct, err := s.oracle.GradeBatch(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("grade answers: %w", err)
	}
	if len(correct) != len(items) {
		return nil, fmt.Errorf("oracle returned %d verdicts for %d answers", len(correct), len(items))
	}

	verdicts := make([]domain.TestVerdict, len(answers))
	for i, a := range answers {
		verdicts[i] = domain.TestVerdict{WordID: a.WordID, Correct: correct[i]}
	}

	return verdicts, nil
}

// MultipleChoiceSelection is one answered multiple-choice question: the word
// being tested and the option the student picked.
type MultipleChoiceSelection struct {
	WordID         uuid.UUID
	SelectedWordID uuid.UUID
}

// GradeMultipleChoice computes verdicts locally by option identity; the
// oracle is never consulted for multiple-choice tests.
func GradeMultipleChoice(selections []MultipleChoiceSelection) []domain.TestVerdict {
	verdicts := make([]domain.TestVerdict, len(selections))
	for i, sel := range selections {
		verdicts[i] = domain.TestVerdict{
			WordID:  sel.WordID,
			Correct: sel.SelectedWordID == sel.WordID,
		}
	}
	return verdicts
}
