package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/types"
)

type MarketAnalysisRepo interface {
	// GetByProjectID returns nil (no error) when no analysis has been
	// generated yet.
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.MarketAnalysis, error)
	Upsert(ctx context.Context, tx *gorm.DB, analysis *types.MarketAnalysis) (*types.MarketAnalysis, error)
}

type marketAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMarketAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) MarketAnalysisRepo {
	return &marketAnalysisRepo{db: db, log: baseLog.With("repo", "MarketAnalysisRepo")}
}

func (r *marketAnalysisRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.MarketAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.MarketAnalysis
	err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *marketAnalysisRepo) Upsert(ctx context.Context, tx *gorm.DB, analysis *types.MarketAnalysis) (*types.MarketAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"market_size", "target_user_profile", "competition_landscape",
				"pricing_strategy", "differentiation_opportunities", "generated_at",
			}),
		}).
		Create(analysis).Error; err != nil {
		return nil, err
	}
	return analysis, nil
}
