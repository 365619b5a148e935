package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wordpace/wordpace-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedWordList creates a word list with n sequentially positioned words.
// Returns the filled domain.WordList and its words in position order.
func SeedWordList(t *testing.T, pool *pgxpool.Pool, n int) (domain.WordList, []domain.Word) {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	list := domain.WordList{
		ID:        uuid.New(),
		Name:      "Test List " + suffix,
		WordCount: n,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO word_lists (id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		list.ID, list.Name, list.CreatedAt, list.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWordList insert list: %v", err)
	}

	words := make([]domain.Word, n)
	for i := range words {
		words[i] = domain.Word{
			ID:         uuid.New(),
			ListID:     list.ID,
			Position:   i,
			Text:       "word-" + suffix + "-" + uuid.New().String()[:4],
			Definition: "definition " + suffix,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		_, err := pool.Exec(ctx,
			`INSERT INTO words (id, list_id, position, text, definition, example, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			words[i].ID, words[i].ListID, words[i].Position, words[i].Text,
			words[i].Definition, words[i].Example, words[i].CreatedAt, words[i].UpdatedAt,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedWordList insert word[%d]: %v", i, err)
		}
	}

	return list, words
}

// SeedStudyStates creates one study state per word for the student, all with
// the given status, introduced on day 1.
func SeedStudyStates(t *testing.T, pool *pgxpool.Pool, studentID uuid.UUID, words []domain.Word, status domain.WordStatus) []*domain.WordStudyState {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	states := make([]*domain.WordStudyState, len(words))
	for i, w := range words {
		st := domain.NewWordStudyState(studentID, w, 1, now)
		st.Status = status
		states[i] = st

		_, err := pool.Exec(ctx,
			`INSERT INTO word_study_states (
				id, student_id, word_id, list_id, status,
				times_tested, times_correct, last_tested_at, last_test_result,
				last_queued_at, queue_appearances, word_index, introduced_on_day,
				mastered_at, return_at, created_at, updated_at
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			st.ID, st.StudentID, st.WordID, st.ListID, string(st.Status),
			st.TimesTested, st.TimesCorrect, st.LastTestedAt, st.LastTestResult,
			st.LastQueuedAt, st.QueueAppearances, st.WordIndex, st.IntroducedOnDay,
			st.MasteredAt, st.ReturnAt, st.CreatedAt, st.UpdatedAt,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedStudyStates insert state[%d]: %v", i, err)
		}
	}

	return states
}
