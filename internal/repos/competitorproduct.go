package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/types"
)

type CompetitorProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, product *types.CompetitorProduct) (*types.CompetitorProduct, error)
	GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.CompetitorProduct, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.CompetitorProduct, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, productID uuid.UUID, status string) error
	Update(ctx context.Context, tx *gorm.DB, product *types.CompetitorProduct) error
}

type competitorProductRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompetitorProductRepo(db *gorm.DB, baseLog *logger.Logger) CompetitorProductRepo {
	return &competitorProductRepo{db: db, log: baseLog.With("repo", "CompetitorProductRepo")}
}

func (r *competitorProductRepo) Create(ctx context.Context, tx *gorm.DB, product *types.CompetitorProduct) (*types.CompetitorProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *competitorProductRepo) GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.CompetitorProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.CompetitorProduct
	if err := transaction.WithContext(ctx).
		Where("id = ?", productID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *competitorProductRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.CompetitorProduct, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CompetitorProduct
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *competitorProductRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, productID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CompetitorProduct{}).
		Where("id = ?", productID).
		Update("status", status).Error
}

func (r *competitorProductRepo) Update(ctx context.Context, tx *gorm.DB, product *types.CompetitorProduct) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(product).Error
}
