package study

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wordpace/wordpace-backend/internal/domain"
	"github.com/wordpace/wordpace-backend/pkg/ctxutil"
)

// BlindSpot is a word that has silently aged out of the normal rotation:
// never tested at all, or last tested beyond the staleness threshold.
type BlindSpot struct {
	Word  domain.Word
	State domain.WordStudyState
}

// BlindSpots returns the student's blind spots for a list, never-tested words
// first, then stale words oldest test first. Read-only; lets a student
// proactively re-verify words the scheduler has not surfaced in a while.
func (s *Service) BlindSpots(ctx context.Context, listID uuid.UUID) ([]BlindSpot, error) {
	studentID, ok := ctxutil.StudentIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	staleBefore := time.Now().Add(-s.cfg.BlindSpotStaleness())

	states, err := s.states.GetBlindSpots(ctx, studentID, listID, staleBefore)
	if err != nil {
		return nil, fmt.Errorf("load blind spots: %w", err)
	}
	if len(states) == 0 {
		return []BlindSpot{}, nil
	}

	ids := make([]uuid.UUID, len(states))
	for i, st := range states {
		ids[i] = st.WordID
	}

	words, err := s.words.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	byID := make(map[uuid.UUID]domain.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}

	// Repo returns states in presentation order (never-tested first, then
	// stalest); preserve it.
	spots := make([]BlindSpot, 0, len(states))
	for _, st := range states {
		w, ok := byID[st.WordID]
		if !ok {
			return nil, fmt.Errorf("word %s: %w", st.WordID, domain.ErrNotFound)
		}
		spots = append(spots, BlindSpot{Word: w, State: *st})
	}

	return spots, nil
}
