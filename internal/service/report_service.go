package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"surveydesk/internal/analytics"
	"surveydesk/internal/export"
	"surveydesk/internal/model"
)

// Overview is the summary shown on the reports landing page.
type Overview struct {
	HPOResponses       int        `json:"hpo_responses"`
	LeadershipSessions int        `json:"lideranca_sessions"`
	LeadershipAnswers  int        `json:"lideranca_answers"`
	LastSubmission     *time.Time `json:"last_submission,omitempty"`
}

// ScoredReport aggregates the HPO questionnaire.
type ScoredReport struct {
	Responses int                              `json:"responses"`
	Domains   map[string]analytics.DomainStats `json:"domains"`
	Items     map[string][model.ScoreMax]int   `json:"items"`
}

// LeadershipReport aggregates the leadership questionnaire over every session.
type LeadershipReport struct {
	Sessions  int                                `json:"sessions"`
	Answers   int                                `json:"answers"`
	Questions map[string]analytics.QuestionStats `json:"questions"`
}

// ReportService turns cached response reads into reports and CSV exports.
type ReportService interface {
	Overview(ctx context.Context) (*Overview, error)
	Scored(ctx context.Context) (*ScoredReport, error)
	Leadership(ctx context.Context) (*LeadershipReport, error)
	ExportScoredCSV(ctx context.Context) ([]byte, error)
	ExportLeadershipCSV(ctx context.Context) ([]byte, error)
}

type reportService struct {
	surveys SurveyService
	logger  *zap.Logger
}

// NewReportService builds a ReportService over the survey read path.
func NewReportService(surveys SurveyService, logger *zap.Logger) ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reportService{surveys: surveys, logger: logger}
}

func (s *reportService) Overview(ctx context.Context) (*Overview, error) {
	scored, err := s.surveys.LoadScored(ctx)
	if err != nil {
		return nil, err
	}
	leadership, err := s.surveys.LoadLeadership(ctx)
	if err != nil {
		return nil, err
	}

	out := &Overview{
		HPOResponses:       len(scored),
		LeadershipSessions: analytics.SessionCount(leadership),
		LeadershipAnswers:  len(leadership),
	}
	// both reads are newest first
	var last time.Time
	if len(scored) > 0 {
		last = scored[0].Timestamp
	}
	if len(leadership) > 0 && leadership[0].Timestamp.After(last) {
		last = leadership[0].Timestamp
	}
	if !last.IsZero() {
		out.LastSubmission = &last
	}
	return out, nil
}

func (s *reportService) Scored(ctx context.Context) (*ScoredReport, error) {
	rows, err := s.surveys.LoadScored(ctx)
	if err != nil {
		return nil, err
	}
	return &ScoredReport{
		Responses: len(rows),
		Domains:   analytics.ScoredStats(rows),
		Items:     analytics.ItemDistribution(rows),
	}, nil
}

func (s *reportService) Leadership(ctx context.Context) (*LeadershipReport, error) {
	rows, err := s.surveys.LoadLeadership(ctx)
	if err != nil {
		return nil, err
	}
	return &LeadershipReport{
		Sessions:  analytics.SessionCount(rows),
		Answers:   len(rows),
		Questions: analytics.LeadershipStats(rows),
	}, nil
}

func (s *reportService) ExportScoredCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.surveys.LoadScored(ctx)
	if err != nil {
		return nil, err
	}
	data, err := export.ScoredCSV(rows)
	if err != nil {
		s.logger.Error("render hpo csv failed", zap.Error(err))
		return nil, fmt.Errorf("export hpo responses: %w", err)
	}
	return data, nil
}

func (s *reportService) ExportLeadershipCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.surveys.LoadLeadership(ctx)
	if err != nil {
		return nil, err
	}
	data, err := export.LeadershipCSV(rows)
	if err != nil {
		s.logger.Error("render leadership csv failed", zap.Error(err))
		return nil, fmt.Errorf("export leadership responses: %w", err)
	}
	return data, nil
}
