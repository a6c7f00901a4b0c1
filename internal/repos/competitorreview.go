package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/types"
)

type CompetitorReviewRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, reviews []*types.CompetitorReview) ([]*types.CompetitorReview, error)
	GetByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID, limit int) ([]*types.CompetitorReview, error)
	GetByProductIDAndPolarity(ctx context.Context, tx *gorm.DB, productID uuid.UUID, positive bool, limit int) ([]*types.CompetitorReview, error)
}

type competitorReviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompetitorReviewRepo(db *gorm.DB, baseLog *logger.Logger) CompetitorReviewRepo {
	return &competitorReviewRepo{db: db, log: baseLog.With("repo", "CompetitorReviewRepo")}
}

func (r *competitorReviewRepo) CreateBatch(ctx context.Context, tx *gorm.DB, reviews []*types.CompetitorReview) ([]*types.CompetitorReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(reviews) == 0 {
		return []*types.CompetitorReview{}, nil
	}
	if err := transaction.WithContext(ctx).CreateInBatches(&reviews, 100).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *competitorReviewRepo) GetByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID, limit int) ([]*types.CompetitorReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var results []*types.CompetitorReview
	if err := transaction.WithContext(ctx).
		Where("competitor_product_id = ?", productID).
		Order("created_at ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *competitorReviewRepo) GetByProductIDAndPolarity(ctx context.Context, tx *gorm.DB, productID uuid.UUID, positive bool, limit int) ([]*types.CompetitorReview, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 3
	}
	var results []*types.CompetitorReview
	if err := transaction.WithContext(ctx).
		Where("competitor_product_id = ? AND is_positive = ?", productID, positive).
		Order("created_at ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
