package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"surveydesk/internal/model"
)

// SurveyRepository defines persistence for both response streams.
// Writes are expected to run inside WithTransaction.
type SurveyRepository interface {
	CreateScored(ctx context.Context, response *model.ScoredResponse) error
	CreateLeadership(ctx context.Context, responses []model.LeadershipResponse) error
	ListScored(ctx context.Context) ([]model.ScoredResponse, error)
	ListLeadership(ctx context.Context) ([]model.LeadershipResponse, error)
	DeleteAll(ctx context.Context) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo SurveyRepository) error) error
}

type surveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository creates a new survey repository.
func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

// newestFirst orders by the quoted timestamp column; id breaks ties within one clock tick.
var newestFirst = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "timestamp"}, Desc: true},
	{Column: clause.Column{Name: "id"}, Desc: true},
}}

// CreateScored inserts one HPO response.
func (r *surveyRepository) CreateScored(ctx context.Context, response *model.ScoredResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

// CreateLeadership inserts one row per answer, in order.
func (r *surveyRepository) CreateLeadership(ctx context.Context, responses []model.LeadershipResponse) error {
	for i := range responses {
		if err := r.db.WithContext(ctx).Create(&responses[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListScored returns every HPO response, newest first.
func (r *surveyRepository) ListScored(ctx context.Context) ([]model.ScoredResponse, error) {
	var rows []model.ScoredResponse
	if err := r.db.WithContext(ctx).Clauses(newestFirst).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListLeadership returns every leadership answer, newest first.
func (r *surveyRepository) ListLeadership(ctx context.Context) ([]model.LeadershipResponse, error) {
	var rows []model.LeadershipResponse
	if err := r.db.WithContext(ctx).Clauses(newestFirst).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteAll removes every row from both response tables.
func (r *surveyRepository) DeleteAll(ctx context.Context) error {
	tx := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := tx.Delete(&model.ScoredResponse{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.LeadershipResponse{}).Error
}

// WithTransaction executes a function within a database transaction.
func (r *surveyRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo SurveyRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &surveyRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
