package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"surveydesk/internal/cache"
	"surveydesk/internal/db/dbtest"
	apperrors "surveydesk/internal/errors"
	"surveydesk/internal/metrics"
	"surveydesk/internal/model"
	"surveydesk/internal/repository"
)

func uniformScores(v int) [model.ItemCount]int {
	var scores [model.ItemCount]int
	for i := range scores {
		scores[i] = v
	}
	return scores
}

func newSurveyFixture(t *testing.T) (SurveyService, repository.SurveyRepository) {
	t.Helper()
	repo := repository.NewSurveyRepository(dbtest.New(t))
	return NewSurveyService(repo, cache.NewMemory(0), 0, nil, nil), repo
}

func TestSurveyService_SubmitScored(t *testing.T) {
	svc, _ := newSurveyFixture(t)
	ctx := context.Background()

	sessionID, err := svc.SubmitScored(ctx, uniformScores(5), "ok")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	rows, err := svc.LoadScored(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, sessionID, rows[0].SessionID)
	assert.Equal(t, "ok", rows[0].Comentario)
	for _, s := range rows[0].Scores() {
		require.NotNil(t, s)
		assert.Equal(t, 5, *s)
	}

	second, err := svc.SubmitScored(ctx, uniformScores(3), "")
	require.NoError(t, err)
	assert.NotEqual(t, sessionID, second)
}

func TestSurveyService_SubmitScoredRejectsOutOfRange(t *testing.T) {
	svc, repo := newSurveyFixture(t)
	ctx := context.Background()

	for _, bad := range []int{0, 6, -1} {
		scores := uniformScores(4)
		scores[7] = bad
		_, err := svc.SubmitScored(ctx, scores, "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}

	rows, err := repo.ListScored(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSurveyService_SubmitLeadership(t *testing.T) {
	svc, _ := newSurveyFixture(t)
	ctx := context.Background()

	sessionID, err := svc.SubmitLeadership(ctx, []model.LeadershipAnswer{
		{QuestionID: "q1", Response: "SIM", ElapsedSeconds: 2.5},
		{QuestionID: "q2", Response: "não", ElapsedSeconds: 4},
		{QuestionID: "q3", Response: " sim ", ElapsedSeconds: 7.25},
	})
	require.NoError(t, err)

	rows, err := svc.LoadLeadership(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byQuestion := make(map[string]model.LeadershipResponse, len(rows))
	for _, r := range rows {
		assert.Equal(t, sessionID, r.SessionID)
		assert.True(t, r.Timestamp.Equal(rows[0].Timestamp), "one timestamp per submission")
		byQuestion[r.QuestionID] = r
	}
	assert.Equal(t, model.ResponseYes, byQuestion["q1"].Response)
	assert.Equal(t, model.ResponseNo, byQuestion["q2"].Response)
	assert.Equal(t, model.ResponseYes, byQuestion["q3"].Response)
	assert.InDelta(t, 7.25, byQuestion["q3"].ResponseTime, 1e-9)
}

func TestSurveyService_SubmitLeadershipIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		answers []model.LeadershipAnswer
	}{
		{name: "empty submission"},
		{
			name: "invalid response",
			answers: []model.LeadershipAnswer{
				{QuestionID: "q1", Response: "SIM"},
				{QuestionID: "q2", Response: "TALVEZ"},
			},
		},
		{
			name: "duplicate question",
			answers: []model.LeadershipAnswer{
				{QuestionID: "q1", Response: "SIM"},
				{QuestionID: "q1", Response: "NÃO"},
			},
		},
		{
			name: "negative elapsed time",
			answers: []model.LeadershipAnswer{
				{QuestionID: "q1", Response: "SIM", ElapsedSeconds: -1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newSurveyFixture(t)
			ctx := context.Background()

			_, err := svc.SubmitLeadership(ctx, tt.answers)
			assert.ErrorIs(t, err, apperrors.ErrValidation)

			rows, err := repo.ListLeadership(ctx)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}

func TestSurveyService_CacheServedUntilWrite(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.MustNewMetrics(reg)
	repo := repository.NewSurveyRepository(dbtest.New(t))
	svc := NewSurveyService(repo, cache.NewMemory(0), 0, m, nil)
	ctx := context.Background()

	_, err := svc.SubmitScored(ctx, uniformScores(2), "")
	require.NoError(t, err)

	rows, err := svc.LoadScored(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// a write that bypasses the service is invisible until invalidation
	require.NoError(t, repo.CreateScored(ctx, &model.ScoredResponse{SessionID: "external"}))
	rows, err = svc.LoadScored(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = svc.SubmitScored(ctx, uniformScores(4), "")
	require.NoError(t, err)
	rows, err = svc.LoadScored(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// hit and miss series for one key; one success series for submissions
	n, err := testutil.GatherAndCount(reg, "surveydesk_survey_cache_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = testutil.GatherAndCount(reg, "surveydesk_survey_submissions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSurveyService_ClearAll(t *testing.T) {
	svc, _ := newSurveyFixture(t)
	ctx := context.Background()

	_, err := svc.SubmitScored(ctx, uniformScores(1), "")
	require.NoError(t, err)
	_, err = svc.SubmitLeadership(ctx, []model.LeadershipAnswer{{QuestionID: "q1", Response: "SIM"}})
	require.NoError(t, err)

	// warm both caches so ClearAll has something to invalidate
	_, err = svc.LoadScored(ctx)
	require.NoError(t, err)
	_, err = svc.LoadLeadership(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.ClearAll(ctx))

	scored, err := svc.LoadScored(ctx)
	require.NoError(t, err)
	assert.Empty(t, scored)
	leadership, err := svc.LoadLeadership(ctx)
	require.NoError(t, err)
	assert.Empty(t, leadership)
}

// brokenStore misses on every read and fails every write.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}
func (brokenStore) Delete(context.Context, ...string) error { return errors.New("cache down") }

func TestSurveyService_CacheFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := repository.NewSurveyRepository(dbtest.New(t))
	svc := NewSurveyService(repo, brokenStore{}, 0, nil, zap.New(core))
	ctx := context.Background()

	_, err := svc.SubmitScored(ctx, uniformScores(4), "")
	require.NoError(t, err)
	rows, err := svc.LoadScored(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	require.NoError(t, svc.ClearAll(ctx))

	assert.Equal(t, 2, logs.FilterMessage("cache invalidation failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("cache fill failed").Len())
}

func TestSurveyService_ImportScored(t *testing.T) {
	svc, _ := newSurveyFixture(t)
	ctx := context.Background()

	_, err := svc.SubmitScored(ctx, uniformScores(3), "first")
	require.NoError(t, err)
	original, err := svc.LoadScored(ctx)
	require.NoError(t, err)

	n, err := svc.ImportScored(ctx, original)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := svc.LoadScored(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.NotEqual(t, rows[0].ID, rows[1].ID)
	assert.Equal(t, rows[0].SessionID, rows[1].SessionID)
	assert.True(t, rows[0].Timestamp.Equal(rows[1].Timestamp))
}

func TestSurveyService_StoreFaultsBecomePersistenceErrors(t *testing.T) {
	boom := errors.New("connection refused")
	ctx := context.Background()

	t.Run("submit", func(t *testing.T) {
		repo := new(MockSurveyRepository)
		repo.On("WithTransaction", mock.Anything).Return(nil)
		repo.On("CreateScored", mock.Anything, mock.AnythingOfType("*model.ScoredResponse")).Return(boom)

		svc := NewSurveyService(repo, cache.NewMemory(0), 0, nil, nil)
		_, err := svc.SubmitScored(ctx, uniformScores(5), "")
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.NotErrorIs(t, err, boom)
		repo.AssertExpectations(t)
	})

	t.Run("load", func(t *testing.T) {
		repo := new(MockSurveyRepository)
		repo.On("ListLeadership", mock.Anything).Return(nil, boom)

		svc := NewSurveyService(repo, cache.NewMemory(0), 0, nil, nil)
		_, err := svc.LoadLeadership(ctx)
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
	})

	t.Run("clear", func(t *testing.T) {
		repo := new(MockSurveyRepository)
		repo.On("WithTransaction", mock.Anything).Return(boom)

		svc := NewSurveyService(repo, cache.NewMemory(0), 0, nil, nil)
		assert.ErrorIs(t, svc.ClearAll(ctx), apperrors.ErrPersistence)
	})
}
