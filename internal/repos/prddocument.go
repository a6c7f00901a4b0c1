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

type PrdDocumentRepo interface {
	// GetByProjectID returns nil (no error) when the project has no
	// document yet.
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.PrdDocument, error)
	// Upsert writes the document keyed on project_id. This is plain
	// read-modify-write; there is no version check (accepted race, see
	// DESIGN.md).
	Upsert(ctx context.Context, tx *gorm.DB, doc *types.PrdDocument) (*types.PrdDocument, error)
}

type prdDocumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPrdDocumentRepo(db *gorm.DB, baseLog *logger.Logger) PrdDocumentRepo {
	return &prdDocumentRepo{db: db, log: baseLog.With("repo", "PrdDocumentRepo")}
}

func (r *prdDocumentRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.PrdDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.PrdDocument
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

func (r *prdDocumentRepo) Upsert(ctx context.Context, tx *gorm.DB, doc *types.PrdDocument) (*types.PrdDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "ready", "updated_at"}),
		}).
		Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}
