// Package word implements the word and word-list repositories using PostgreSQL.
package word

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wordpace/wordpace-backend/internal/adapter/postgres"
	"github.com/wordpace/wordpace-backend/internal/domain"
)

// Repo provides word persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const wordColumns = `id, list_id, position, text, definition, example, created_at, updated_at`

const getByIDsSQL = `
SELECT ` + wordColumns + `
FROM words
WHERE id = ANY($1::uuid[])`

const getByPositionRangeSQL = `
SELECT ` + wordColumns + `
FROM words
WHERE list_id = $1 AND position BETWEEN $2 AND $3
ORDER BY position ASC`

const countByListIDSQL = `SELECT count(*) FROM words WHERE list_id = $1`

// GetByIDs returns the words with the given IDs, in no particular order.
// Missing IDs are silently absent from the result.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Word, error) {
	if len(ids) == 0 {
		return []domain.Word{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get words by ids: %w", err)
	}
	defer rows.Close()

	words, err := scanWords(rows)
	if err != nil {
		return nil, fmt.Errorf("get words by ids: %w", err)
	}

	return words, nil
}

// GetByPositionRange returns a list's words with positions in [start, end],
// ordered by position.
func (r *Repo) GetByPositionRange(ctx context.Context, listID uuid.UUID, start, end int) ([]domain.Word, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByPositionRangeSQL, listID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get words by position range: %w", err)
	}
	defer rows.Close()

	words, err := scanWords(rows)
	if err != nil {
		return nil, fmt.Errorf("get words by position range: %w", err)
	}

	return words, nil
}

// CountByListID returns the number of words in a list.
func (r *Repo) CountByListID(ctx context.Context, listID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countByListIDSQL, listID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count list words: %w", err)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanWords(rows pgx.Rows) ([]domain.Word, error) {
	var words []domain.Word
	for rows.Next() {
		var w domain.Word
		err := rows.Scan(
			&w.ID, &w.ListID, &w.Position, &w.Text, &w.Definition, &w.Example,
			&w.CreatedAt, &w.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if words == nil {
		words = []domain.Word{}
	}

	return words, nil
}
