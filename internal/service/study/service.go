// Package study implements the adaptive study-scheduling engine: the daily
// session state machine and the operations that introduce, test, review,
// graduate, and resurface words for a student.
package study

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/wordpace/wordpace-backend/internal/config"
	"github.com/wordpace/wordpace-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Word, error)
	GetByPositionRange(ctx context.Context, listID uuid.UUID, start, end int) ([]domain.Word, error)
	CountByListID(ctx context.Context, listID uuid.UUID) (int, error)
}

type stateRepo interface {
	GetByWordIDs(ctx context.Context, studentID uuid.UUID, wordIDs []uuid.UUID) ([]*domain.WordStudyState, error)
	GetByPositionRange(ctx context.Context, studentID, listID uuid.UUID, start, end int) ([]*domain.WordStudyState, error)
	CreateBatch(ctx context.Context, states []*domain.WordStudyState) error
	UpdateBatch(ctx context.Context, states []*domain.WordStudyState) error
	GetExpiredMastered(ctx context.Context, studentID, listID uuid.UUID, now time.Time) ([]*domain.WordStudyState, error)
	GetBlindSpots(ctx context.Context, studentID, listID uuid.UUID, staleBefore time.Time) ([]*domain.WordStudyState, error)
}

type progressRepo interface {
	Get(ctx context.Context, studentID, classID, listID uuid.UUID) (*domain.ClassProgress, error)
	Create(ctx context.Context, progress *domain.ClassProgress) error
	Update(ctx context.Context, progress *domain.ClassProgress) error
}

// gradingOracle is the external scoring service for free-text answers.
// Multiple-choice verdicts never reach it.
type gradingOracle interface {
	GradeBatch(ctx context.Context, items []GradingItem) ([]bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the study-scheduling business logic.
type Service struct {
	words    wordRepo
	states   stateRepo
	progress progressRepo
	oracle   gradingOracle
	tx       txManager
	log      *slog.Logger
	cfg      config.StudyConfig

	// newRand builds the random source for shuffles. Overridable in tests
	// to pin a seed.
	newRand func() *rand.Rand
}

// NewService creates a new study service.
func NewService(
	log *slog.Logger,
	words wordRepo,
	states stateRepo,
	progress progressRepo,
	oracle gradingOracle,
	tx txManager,
	cfg config.StudyConfig,
) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid study config: %w", err)
	}

	return &Service{
		words:    words,
		states:   states,
		progress: progress,
		oracle:   oracle,
		tx:       tx,
		log:      log.With("service", "study"),
		cfg:      cfg,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}, nil
}
