// Package studystate implements the per-(student, word) study state repository
// using PostgreSQL. Fixed-shape queries use raw SQL; the conditional sweep and
// blind-spot queries are built with squirrel.
package studystate

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wordpace/wordpace-backend/internal/adapter/postgres"
	"github.com/wordpace/wordpace-backend/internal/domain"
)

// Repo provides study state persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new study state repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const stateColumns = `id, student_id, word_id, list_id, status,
       times_tested, times_correct, last_tested_at, last_test_result,
       last_queued_at, queue_appearances, word_index, introduced_on_day,
       mastered_at, return_at, created_at, updated_at`

var stateColumnList = []string{
	"id", "student_id", "word_id", "list_id", "status",
	"times_tested", "times_correct", "last_tested_at", "last_test_result",
	"last_queued_at", "queue_appearances", "word_index", "introduced_on_day",
	"mastered_at", "return_at", "created_at", "updated_at",
}

const getByWordIDsSQL = `
SELECT ` + stateColumns + `
FROM word_study_states
WHERE student_id = $1 AND word_id = ANY($2::uuid[])`

const getByPositionRangeSQL = `
SELECT ` + stateColumns + `
FROM word_study_states
WHERE student_id = $1 AND list_id = $2 AND word_index BETWEEN $3 AND $4
ORDER BY word_index ASC`

const insertStateSQL = `
INSERT INTO word_study_states (` + stateColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

const updateStateSQL = `
UPDATE word_study_states
SET status = $2, times_tested = $3, times_correct = $4,
    last_tested_at = $5, last_test_result = $6,
    last_queued_at = $7, queue_appearances = $8,
    mastered_at = $9, return_at = $10, updated_at = $11
WHERE id = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByWordIDs returns the student's states for the given words, in no
// particular order. Words without a state are silently absent.
func (r *Repo) GetByWordIDs(ctx context.Context, studentID uuid.UUID, wordIDs []uuid.UUID) ([]*domain.WordStudyState, error) {
	if len(wordIDs) == 0 {
		return []*domain.WordStudyState{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByWordIDsSQL, studentID, wordIDs)
	if err != nil {
		return nil, fmt.Errorf("get states by word ids: %w", err)
	}
	defer rows.Close()

	states, err := scanStates(rows)
	if err != nil {
		return nil, fmt.Errorf("get states by word ids: %w", err)
	}

	return states, nil
}

// GetByPositionRange returns the student's states for a list's words with
// ordinal positions in [start, end], ordered by position.
func (r *Repo) GetByPositionRange(ctx context.Context, studentID, listID uuid.UUID, start, end int) ([]*domain.WordStudyState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByPositionRangeSQL, studentID, listID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get states by position range: %w", err)
	}
	defer rows.Close()

	states, err := scanStates(rows)
	if err != nil {
		return nil, fmt.Errorf("get states by position range: %w", err)
	}

	return states, nil
}

// GetExpiredMastered returns MASTERED states whose return date has elapsed.
func (r *Repo) GetExpiredMastered(ctx context.Context, studentID, listID uuid.UUID, now time.Time) ([]*domain.WordStudyState, error) {
	query := qb.Select(stateColumnList...).
		From("word_study_states").
		Where(squirrel.Eq{
			"student_id": studentID,
			"list_id":    listID,
			"status":     domain.WordStatusMastered.String(),
		}).
		Where(squirrel.LtOrEq{"return_at": now}).
		OrderBy("return_at ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build expired-mastered query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("get expired mastered states: %w", err)
	}
	defer rows.Close()

	states, err := scanStates(rows)
	if err != nil {
		return nil, fmt.Errorf("get expired mastered states: %w", err)
	}

	return states, nil
}

// GetBlindSpots returns non-mastered states that carry no recent test signal:
// never-tested words first, then tested-before-staleBefore words, stalest
// first.
func (r *Repo) GetBlindSpots(ctx context.Context, studentID, listID uuid.UUID, staleBefore time.Time) ([]*domain.WordStudyState, error) {
	query := qb.Select(stateColumnList...).
		From("word_study_states").
		Where(squirrel.Eq{
			"student_id": studentID,
			"list_id":    listID,
		}).
		Where(squirrel.NotEq{"status": domain.WordStatusMastered.String()}).
		Where(squirrel.Or{
			squirrel.Eq{"last_tested_at": nil},
			squirrel.Lt{"last_tested_at": staleBefore},
		}).
		OrderBy("last_tested_at ASC NULLS FIRST", "word_index ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build blind-spot query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("get blind spots: %w", err)
	}
	defer rows.Close()

	states, err := scanStates(rows)
	if err != nil {
		return nil, fmt.Errorf("get blind spots: %w", err)
	}

	return states, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// CreateBatch inserts all states in one round trip. A duplicate
// (student_id, word_id) pair results in domain.ErrAlreadyExists.
func (r *Repo) CreateBatch(ctx context.Context, states []*domain.WordStudyState) error {
	if len(states) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	batch := &pgx.Batch{}
	for _, st := range states {
		batch.Queue(insertStateSQL,
			st.ID, st.StudentID, st.WordID, st.ListID, string(st.Status),
			st.TimesTested, st.TimesCorrect, st.LastTestedAt, st.LastTestResult,
			st.LastQueuedAt, st.QueueAppearances, st.WordIndex, st.IntroducedOnDay,
			st.MasteredAt, st.ReturnAt, st.CreatedAt, st.UpdatedAt,
		)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for _, st := range states {
		if _, err := results.Exec(); err != nil {
			return mapError(err, "word study state", st.ID)
		}
	}

	return nil
}

// UpdateBatch writes the mutable fields of all states in one round trip.
// A state that no longer exists results in domain.ErrNotFound.
func (r *Repo) UpdateBatch(ctx context.Context, states []*domain.WordStudyState) error {
	if len(states) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	batch := &pgx.Batch{}
	for _, st := range states {
		batch.Queue(updateStateSQL,
			st.ID, string(st.Status), st.TimesTested, st.TimesCorrect,
			st.LastTestedAt, st.LastTestResult,
			st.LastQueuedAt, st.QueueAppearances,
			st.MasteredAt, st.ReturnAt, st.UpdatedAt,
		)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for _, st := range states {
		tag, err := results.Exec()
		if err != nil {
			return mapError(err, "word study state", st.ID)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("word study state %s: %w", st.ID, domain.ErrNotFound)
		}
	}

	return nil
}

const expireMasteredSQL = `
UPDATE word_study_states
SET status = 'NEEDS_CHECK', mastered_at = NULL, return_at = NULL, updated_at = $2
WHERE status = 'MASTERED' AND return_at <= $1`

// ExpireMasteredBefore returns every mastered word whose return date elapsed
// to the active pool, across all students and lists. Used by the cron sweep;
// idempotent.
func (r *Repo) ExpireMasteredBefore(ctx context.Context, now time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, expireMasteredSQL, now, now)
	if err != nil {
		return 0, fmt.Errorf("expire mastered states: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanStates(rows pgx.Rows) ([]*domain.WordStudyState, error) {
	var states []*domain.WordStudyState
	for rows.Next() {
		var st domain.WordStudyState
		var status string
		err := rows.Scan(
			&st.ID, &st.StudentID, &st.WordID, &st.ListID, &status,
			&st.TimesTested, &st.TimesCorrect, &st.LastTestedAt, &st.LastTestResult,
			&st.LastQueuedAt, &st.QueueAppearances, &st.WordIndex, &st.IntroducedOnDay,
			&st.MasteredAt, &st.ReturnAt, &st.CreatedAt, &st.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		st.Status = domain.WordStatus(status)
		states = append(states, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if states == nil {
		states = []*domain.WordStudyState{}
	}

	return states, nil
}
