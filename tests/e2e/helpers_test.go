//go:build e2e

package e2e_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/wordpace/wordpace-backend/internal/adapter/postgres"
	progressrepo "github.com/wordpace/wordpace-backend/internal/adapter/postgres/progress"
	"github.com/wordpace/wordpace-backend/internal/adapter/postgres/studystate"
	"github.com/wordpace/wordpace-backend/internal/adapter/postgres/testhelper"
	wordrepo "github.com/wordpace/wordpace-backend/internal/adapter/postgres/word"
	"github.com/wordpace/wordpace-backend/internal/config"
	"github.com/wordpace/wordpace-backend/internal/service/study"
)

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// echoOracle grades free-text answers by case-insensitive equality with the
// word text. Deterministic stand-in for the external scoring service.
type echoOracle struct{}

func (echoOracle) GradeBatch(_ context.Context, items []study.GradingItem) ([]bool, error) {
	verdicts := make([]bool, len(items))
	for i, item := range items {
		verdicts[i] = strings.EqualFold(item.Response, item.Text)
	}
	return verdicts, nil
}

func studyConfig() config.StudyConfig {
	return config.StudyConfig{
		DefaultDailyPace:   10,
		StudyDaysPerWeek:   5,
		NewWordPassScore:   0.95,
		MasteryReturnDays:  21,
		BlindSpotStaleDays: 21,
		MaxTestSize:        20,
	}
}

// setupStudyService wires the study service against a real database.
func setupStudyService(t *testing.T) (*study.Service, *pgxpool.Pool) {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	log := slog.New(slog.NewTextHandler(testLogWriter{t}, &slog.HandlerOptions{Level: slog.LevelWarn}))

	svc, err := study.NewService(
		log,
		wordrepo.New(pool),
		studystate.New(pool),
		progressrepo.New(pool),
		echoOracle{},
		postgres.NewTxManager(pool),
		studyConfig(),
	)
	require.NoError(t, err)

	return svc, pool
}
