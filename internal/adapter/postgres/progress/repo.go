// Package progress implements the class progress repository using PostgreSQL.
// The recent-session window is stored as a JSONB column; the domain owns the
// ring-buffer semantics, the repository just round-trips the slice.
package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wordpace/wordpace-backend/internal/adapter/postgres"
	"github.com/wordpace/wordpace-backend/internal/domain"
)

// Repo provides class progress persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new progress repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getSQL = `
SELECT id, student_id, class_id, list_id,
       current_study_day, total_words_introduced, intervention_level,
       recent_sessions, created_at, updated_at
FROM class_progress
WHERE student_id = $1 AND class_id = $2 AND list_id = $3`

const insertSQL = `
INSERT INTO class_progress (
	id, student_id, class_id, list_id,
	current_study_day, total_words_introduced, intervention_level,
	recent_sessions, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const updateSQL = `
UPDATE class_progress
SET current_study_day = $2, total_words_introduced = $3, intervention_level = $4,
    recent_sessions = $5, updated_at = $6
WHERE id = $1`

// Get returns the progress record for (student, class, list).
// Returns domain.ErrNotFound if the student has never studied the list.
func (r *Repo) Get(ctx context.Context, studentID, classID, listID uuid.UUID) (*domain.ClassProgress, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var p domain.ClassProgress
	var sessions []byte
	err := querier.QueryRow(ctx, getSQL, studentID, classID, listID).Scan(
		&p.ID, &p.StudentID, &p.ClassID, &p.ListID,
		&p.CurrentStudyDay, &p.TotalWordsIntroduced, &p.InterventionLevel,
		&sessions, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "class progress", uuid.Nil)
	}

	if err := json.Unmarshal(sessions, &p.RecentSessions); err != nil {
		return nil, fmt.Errorf("decode recent sessions: %w", err)
	}

	return &p, nil
}

// Create inserts a new progress record. A concurrent first session for the
// same (student, class, list) results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, progress *domain.ClassProgress) error {
	sessions, err := encodeSessions(progress.RecentSessions)
	if err != nil {
		return err
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err = querier.Exec(ctx, insertSQL,
		progress.ID, progress.StudentID, progress.ClassID, progress.ListID,
		progress.CurrentStudyDay, progress.TotalWordsIntroduced, progress.InterventionLevel,
		sessions, progress.CreatedAt, progress.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "class progress", progress.ID)
	}

	return nil
}

// Update writes the mutable fields of a progress record.
// Returns domain.ErrNotFound if the record does not exist.
func (r *Repo) Update(ctx context.Context, progress *domain.ClassProgress) error {
	sessions, err := encodeSessions(progress.RecentSessions)
	if err != nil {
		return err
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateSQL,
		progress.ID,
		progress.CurrentStudyDay, progress.TotalWordsIntroduced, progress.InterventionLevel,
		sessions, progress.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "class progress", progress.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("class progress %s: %w", progress.ID, domain.ErrNotFound)
	}

	return nil
}

// encodeSessions marshals the session window, normalizing nil to an empty
// JSON array so the column never holds SQL NULL.
func encodeSessions(sessions []domain.SessionSummary) ([]byte, error) {
	if sessions == nil {
		sessions = []domain.SessionSummary{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return nil, fmt.Errorf("encode recent sessions: %w", err)
	}
	return data, nil
}
