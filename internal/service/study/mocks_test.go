package study

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wordpace/wordpace-backend/internal/config"
	"github.com/wordpace/wordpace-backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// testConfig returns the production defaults; tests that need other knobs
// override fields on the copy.
func testConfig() config.StudyConfig {
	return config.StudyConfig{
		DefaultDailyPace:   20,
		StudyDaysPerWeek:   5,
		NewWordPassScore:   0.95,
		MasteryReturnDays:  21,
		BlindSpotStaleDays: 21,
		MaxTestSize:        20,
	}
}

// testService wires a Service directly from mocks with a pinned random seed.
func testService(words wordRepo, states stateRepo, progress progressRepo) *Service {
	return &Service{
		words:    words,
		states:   states,
		progress: progress,
		tx:       &txManagerMock{},
		log:      slog.Default(),
		cfg:      testConfig(),
		newRand:  func() *rand.Rand { return rand.New(rand.NewSource(1)) },
	}
}

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

var _ wordRepo = &wordRepoMock{}

type wordRepoMock struct {
	GetByIDsFunc           func(ctx context.Context, ids []uuid.UUID) ([]domain.Word, error)
	GetByPositionRangeFunc func(ctx context.Context, listID uuid.UUID, start, end int) ([]domain.Word, error)
	CountByListIDFunc      func(ctx context.Context, listID uuid.UUID) (int, error)
}

func (mock *wordRepoMock) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Word, error) {
	if mock.GetByIDsFunc == nil {
		panic("wordRepoMock.GetByIDsFunc: method is nil but wordRepo.GetByIDs was just called")
	}
	return mock.GetByIDsFunc(ctx, ids)
}

func (mock *wordRepoMock) GetByPositionRange(ctx context.Context, listID uuid.UUID, start, end int) ([]domain.Word, error) {
	if mock.GetByPositionRangeFunc == nil {
		panic("wordRepoMock.GetByPositionRangeFunc: method is nil but wordRepo.GetByPositionRange was just called")
	}
	return mock.GetByPositionRangeFunc(ctx, listID, start, end)
}

func (mock *wordRepoMock) CountByListID(ctx context.Context, listID uuid.UUID) (int, error) {
	if mock.CountByListIDFunc == nil {
		panic("wordRepoMock.CountByListIDFunc: method is nil but wordRepo.CountByListID was just called")
	}
	return mock.CountByListIDFunc(ctx, listID)
}

var _ stateRepo = &stateRepoMock{}

type stateRepoMock struct {
	GetByWordIDsFunc       func(ctx context.Context, studentID uuid.UUID, wordIDs []uuid.UUID) ([]*domain.WordStudyState, error)
	GetByPositionRangeFunc func(ctx context.Context, studentID, listID uuid.UUID, start, end int) ([]*domain.WordStudyState, error)
	CreateBatchFunc        func(ctx context.Context, states []*domain.WordStudyState) error
	UpdateBatchFunc        func(ctx context.Context, states []*domain.WordStudyState) error
	GetExpiredMasteredFunc func(ctx context.Context, studentID, listID uuid.UUID, now time.Time) ([]*domain.WordStudyState, error)
	GetBlindSpotsFunc      func(ctx context.Context, studentID, listID uuid.UUID, staleBefore time.Time) ([]*domain.WordStudyState, error)

	mu               sync.Mutex
	createBatchCalls [][]*domain.WordStudyState
	updateBatchCalls [][]*domain.WordStudyState
}

func (mock *stateRepoMock) GetByWordIDs(ctx context.Context, studentID uuid.UUID, wordIDs []uuid.UUID) ([]*domain.WordStudyState, error) {
	if mock.GetByWordIDsFunc == nil {
		panic("stateRepoMock.GetByWordIDsFunc: method is nil but stateRepo.GetByWordIDs was just called")
	}
	return mock.GetByWordIDsFunc(ctx, studentID, wordIDs)
}

func (mock *stateRepoMock) GetByPositionRange(ctx context.Context, studentID, listID uuid.UUID, start, end int) ([]*domain.WordStudyState, error) {
	if mock.GetByPositionRangeFunc == nil {
		panic("stateRepoMock.GetByPositionRangeFunc: method is nil but stateRepo.GetByPositionRange was just called")
	}
	return mock.GetByPositionRangeFunc(ctx, studentID, listID, start, end)
}

func (mock *stateRepoMock) CreateBatch(ctx context.Context, states []*domain.WordStudyState) error {
	mock.mu.Lock()
	mock.createBatchCalls = append(mock.createBatchCalls, states)
	mock.mu.Unlock()
	if mock.CreateBatchFunc == nil {
		return nil
	}
	return mock.CreateBatchFunc(ctx, states)
}

func (mock *stateRepoMock) CreateBatchCalls() [][]*domain.WordStudyState {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.createBatchCalls
}

func (mock *stateRepoMock) UpdateBatch(ctx context.Context, states []*domain.WordStudyState) error {
	mock.mu.Lock()
	mock.updateBatchCalls = append(mock.updateBatchCalls, states)
	mock.mu.Unlock()
	if mock.UpdateBatchFunc == nil {
		return nil
	}
	return mock.UpdateBatchFunc(ctx, states)
}

func (mock *stateRepoMock) UpdateBatchCalls() [][]*domain.WordStudyState {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.updateBatchCalls
}

func (mock *stateRepoMock) GetExpiredMastered(ctx context.Context, studentID, listID uuid.UUID, now time.Time) ([]*domain.WordStudyState, error) {
	if mock.GetExpiredMasteredFunc == nil {
		return nil, nil
	}
	return mock.GetExpiredMasteredFunc(ctx, studentID, listID, now)
}

func (mock *stateRepoMock) GetBlindSpots(ctx context.Context, studentID, listID uuid.UUID, staleBefore time.Time) ([]*domain.WordStudyState, error) {
	if mock.GetBlindSpotsFunc == nil {
		panic("stateRepoMock.GetBlindSpotsFunc: method is nil but stateRepo.GetBlindSpots was just called")
	}
	return mock.GetBlindSpotsFunc(ctx, studentID, listID, staleBefore)
}

var _ progressRepo = &progressRepoMock{}

type progressRepoMock struct {
	GetFunc    func(ctx context.Context, studentID, classID, listID uuid.UUID) (*domain.ClassProgress, error)
	CreateFunc func(ctx context.Context, progress *domain.ClassProgress) error
	UpdateFunc func(ctx context.Context, progress *domain.ClassProgress) error

	mu          sync.Mutex
	createCalls []*domain.ClassProgress
	updateCalls []*domain.ClassProgress
}

func (mock *progressRepoMock) Get(ctx context.Context, studentID, classID, listID uuid.UUID) (*domain.ClassProgress, error) {
	if mock.GetFunc == nil {
		panic("progressRepoMock.GetFunc: method is nil but progressRepo.Get was just called")
	}
	return mock.GetFunc(ctx, studentID, classID, listID)
}

func (mock *progressRepoMock) Create(ctx context.Context, progress *domain.ClassProgress) error {
	mock.mu.Lock()
	mock.createCalls = append(mock.createCalls, progress)
	mock.mu.Unlock()
	if mock.CreateFunc == nil {
		return nil
	}
	return mock.CreateFunc(ctx, progress)
}

func (mock *progressRepoMock) CreateCalls() []*domain.ClassProgress {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.createCalls
}

func (mock *progressRepoMock) Update(ctx context.Context, progress *domain.ClassProgress) error {
	mock.mu.Lock()
	mock.updateCalls = append(mock.updateCalls, progress)
	mock.mu.Unlock()
	if mock.UpdateFunc == nil {
		return nil
	}
	return mock.UpdateFunc(ctx, progress)
}

func (mock *progressRepoMock) UpdateCalls() []*domain.ClassProgress {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.updateCalls
}

var _ gradingOracle = &gradingOracleMock{}

type gradingOracleMock struct {
	GradeBatchFunc func(ctx context.Context, items []GradingItem) ([]bool, error)
}

func (mock *gradingOracleMock) GradeBatch(ctx context.Context, items []GradingItem) ([]bool, error) {
	if mock.GradeBatchFunc == nil {
		panic("gradingOracleMock.GradeBatchFunc: method is nil but gradingOracle.GradeBatch was just called")
	}
	return mock.GradeBatchFunc(ctx, items)
}

// txManagerMock runs the callback inline; no transactional behavior.
var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc != nil {
		return mock.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// makeWords builds n words for a list with sequential positions.
func makeWords(listID uuid.UUID, n int) []domain.Word {
	words := make([]domain.Word, n)
	for i := range words {
		words[i] = domain.Word{
			ID:         uuid.New(),
			ListID:     listID,
			Position:   i,
			Text:       "word",
			Definition: "definition",
		}
	}
	return words
}

// makeStates builds a study state per word with the given status.
func makeStates(studentID uuid.UUID, words []domain.Word, status domain.WordStatus) []*domain.WordStudyState {
	states := make([]*domain.WordStudyState, len(words))
	for i, w := range words {
		st := domain.NewWordStudyState(studentID, w, 1, time.Now())
		st.Status = status
		states[i] = st
	}
	return states
}
