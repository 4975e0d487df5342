package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"surveydesk/internal/analytics"
	"surveydesk/internal/cache"
	apperrors "surveydesk/internal/errors"
	"surveydesk/internal/metrics"
	"surveydesk/internal/model"
	"surveydesk/internal/repository"
)

// DefaultCacheTTL bounds how long full-table reads are served from cache.
const DefaultCacheTTL = 5 * time.Minute

// Cache keys identify the cached query, one per response table.
const (
	scoredCacheKey     = "survey:responses:all"
	leadershipCacheKey = "survey:lideranca_responses:all"
)

// Questionnaire labels used in metrics and logs.
const (
	QuestionnaireHPO        = "hpo"
	QuestionnaireLeadership = "lideranca"
)

// SurveyService owns the lifecycle of both response streams and their read cache.
type SurveyService interface {
	// SubmitScored stores one HPO submission and returns its new session id.
	SubmitScored(ctx context.Context, scores [model.ItemCount]int, comment string) (sessionID string, err error)
	// SubmitLeadership stores every answer under one new session id, all or nothing.
	SubmitLeadership(ctx context.Context, answers []model.LeadershipAnswer) (sessionID string, err error)
	LoadScored(ctx context.Context) ([]model.ScoredResponse, error)
	LoadLeadership(ctx context.Context) ([]model.LeadershipResponse, error)
	// ClearAll irreversibly deletes every response of both questionnaires.
	ClearAll(ctx context.Context) error
	// ImportScored reinserts exported rows, keeping their timestamps and session ids.
	ImportScored(ctx context.Context, rows []model.ScoredResponse) (int, error)
}

type surveyService struct {
	repo    repository.SurveyRepository
	cache   cache.Store
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewSurveyService builds a SurveyService. A non-positive ttl falls back to DefaultCacheTTL.
func NewSurveyService(
	repo repository.SurveyRepository,
	store cache.Store,
	ttl time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) SurveyService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &surveyService{
		repo:    repo,
		cache:   store,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *surveyService) SubmitScored(ctx context.Context, scores [model.ItemCount]int, comment string) (sessionID string, err error) {
	defer func() { s.metrics.ObserveSubmission(QuestionnaireHPO, err) }()

	var cells [model.ItemCount]*int
	for i, v := range scores {
		if v < model.ScoreMin || v > model.ScoreMax {
			return "", fmt.Errorf("%w: %s must be between %d and %d, got %d",
				apperrors.ErrValidation, model.ScoreColumns()[i], model.ScoreMin, model.ScoreMax, v)
		}
		cells[i] = &scores[i]
	}

	row := &model.ScoredResponse{
		Comentario: comment,
		SessionID:  uuid.NewString(),
	}
	row.SetScores(cells)

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.SurveyRepository) error {
		return tx.CreateScored(ctx, row)
	})
	if err != nil {
		s.logger.Error("save hpo response failed", zap.String("session_id", row.SessionID), zap.Error(err))
		return "", fmt.Errorf("submit hpo response: %w", apperrors.ErrPersistence)
	}

	s.invalidate(ctx, scoredCacheKey)
	s.logger.Info("hpo response saved", zap.String("session_id", row.SessionID))
	return row.SessionID, nil
}

func (s *surveyService) SubmitLeadership(ctx context.Context, answers []model.LeadershipAnswer) (sessionID string, err error) {
	defer func() { s.metrics.ObserveSubmission(QuestionnaireLeadership, err) }()

	if len(answers) == 0 {
		return "", fmt.Errorf("%w: at least one answer is required", apperrors.ErrValidation)
	}

	sessionID = uuid.NewString()
	submittedAt := s.now()
	rows := make([]model.LeadershipResponse, 0, len(answers))
	seen := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		if a.QuestionID == "" {
			return "", fmt.Errorf("%w: question_id is required", apperrors.ErrValidation)
		}
		if _, dup := seen[a.QuestionID]; dup {
			return "", fmt.Errorf("%w: question %s answered twice", apperrors.ErrValidation, a.QuestionID)
		}
		seen[a.QuestionID] = struct{}{}

		response := analytics.NormalizeResponse(a.Response)
		if response != model.ResponseYes && response != model.ResponseNo {
			return "", fmt.Errorf("%w: response to %s must be %s or %s, got %q",
				apperrors.ErrValidation, a.QuestionID, model.ResponseYes, model.ResponseNo, a.Response)
		}
		if a.ElapsedSeconds < 0 {
			return "", fmt.Errorf("%w: response_time for %s must not be negative", apperrors.ErrValidation, a.QuestionID)
		}

		rows = append(rows, model.LeadershipResponse{
			SessionID:    sessionID,
			Timestamp:    submittedAt,
			QuestionID:   a.QuestionID,
			Response:     response,
			ResponseTime: a.ElapsedSeconds,
		})
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.SurveyRepository) error {
		return tx.CreateLeadership(ctx, rows)
	})
	if err != nil {
		s.logger.Error("save leadership responses failed",
			zap.String("session_id", sessionID), zap.Int("answers", len(rows)), zap.Error(err))
		return "", fmt.Errorf("submit leadership responses: %w", apperrors.ErrPersistence)
	}

	s.invalidate(ctx, leadershipCacheKey)
	s.logger.Info("leadership responses saved", zap.String("session_id", sessionID), zap.Int("answers", len(rows)))
	return sessionID, nil
}

func (s *surveyService) LoadScored(ctx context.Context) ([]model.ScoredResponse, error) {
	return loadCached(ctx, s, scoredCacheKey, s.repo.ListScored)
}

func (s *surveyService) LoadLeadership(ctx context.Context) ([]model.LeadershipResponse, error) {
	return loadCached(ctx, s, leadershipCacheKey, s.repo.ListLeadership)
}

// loadCached serves key from cache or runs query and caches its result for s.ttl.
func loadCached[T any](ctx context.Context, s *surveyService, key string, query func(context.Context) ([]T, error)) ([]T, error) {
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []T
		if err := json.Unmarshal(data, &cached); err == nil {
			s.metrics.ObserveCache(key, true)
			return cached, nil
		}
	}
	s.metrics.ObserveCache(key, false)

	rows, err := query(ctx)
	if err != nil {
		s.logger.Error("load responses failed", zap.String("query", key), zap.Error(err))
		return nil, fmt.Errorf("load %s: %w", key, apperrors.ErrPersistence)
	}
	if rows == nil {
		rows = []T{}
	}

	if payload, err := json.Marshal(rows); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
			s.logger.Warn("cache fill failed", zap.String("key", key), zap.Error(err))
		}
	}
	return rows, nil
}

func (s *surveyService) ClearAll(ctx context.Context) error {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.SurveyRepository) error {
		return tx.DeleteAll(ctx)
	})
	if err != nil {
		s.logger.Error("clear responses failed", zap.Error(err))
		return fmt.Errorf("clear responses: %w", apperrors.ErrPersistence)
	}
	s.invalidate(ctx, scoredCacheKey, leadershipCacheKey)
	s.logger.Warn("all survey responses deleted")
	return nil
}

func (s *surveyService) ImportScored(ctx context.Context, rows []model.ScoredResponse) (int, error) {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.SurveyRepository) error {
		for i := range rows {
			row := rows[i]
			// ids are reassigned by the target table
			row.ID = 0
			if row.SessionID == "" {
				row.SessionID = uuid.NewString()
			}
			if err := tx.CreateScored(ctx, &row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("import hpo responses failed", zap.Int("rows", len(rows)), zap.Error(err))
		return 0, fmt.Errorf("import hpo responses: %w", apperrors.ErrPersistence)
	}
	s.invalidate(ctx, scoredCacheKey)
	return len(rows), nil
}

func (s *surveyService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Error("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
