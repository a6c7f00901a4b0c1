package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/prd"
	"github.com/kaipinbao/kaipinbao-backend/internal/repos"
	"github.com/kaipinbao/kaipinbao-backend/internal/types"
)

type ProjectService interface {
	Create(ctx context.Context, name, description string) (*types.Project, error)
	GetByID(ctx context.Context, projectID uuid.UUID) (*types.Project, error)
	List(ctx context.Context, limit int) ([]*types.Project, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
	AdvanceStage(ctx context.Context, projectID uuid.UUID, stage int) error

	ListMessages(ctx context.Context, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error)

	GetDocument(ctx context.Context, projectID uuid.UUID) (*prd.Data, bool, error)
	// ApplyManualEdit merges a hand-edited partial document and
	// re-evaluates the completion predicate, exactly as an extracted
	// turn would.
	ApplyManualEdit(ctx context.Context, projectID uuid.UUID, patch *prd.Data) (*prd.Data, bool, error)

	AddCompetitor(ctx context.Context, projectID uuid.UUID, url string) (*types.CompetitorProduct, error)
	ListCompetitors(ctx context.Context, projectID uuid.UUID) ([]*types.CompetitorProduct, error)
	ListCompetitorReviews(ctx context.Context, productID uuid.UUID, limit int) ([]*types.CompetitorReview, error)
}

type projectService struct {
	db       *gorm.DB
	log      *logger.Logger
	projects repos.ProjectRepo
	messages repos.ChatMessageRepo
	docs     repos.PrdDocumentRepo
	products repos.CompetitorProductRepo
	reviews  repos.CompetitorReviewRepo
	notify   Notifier
}

func NewProjectService(
	db *gorm.DB,
	baseLog *logger.Logger,
	projectRepo repos.ProjectRepo,
	messageRepo repos.ChatMessageRepo,
	docRepo repos.PrdDocumentRepo,
	productRepo repos.CompetitorProductRepo,
	reviewRepo repos.CompetitorReviewRepo,
	notify Notifier,
) ProjectService {
	return &projectService{
		db:       db,
		log:      baseLog.With("service", "ProjectService"),
		projects: projectRepo,
		messages: messageRepo,
		docs:     docRepo,
		products: productRepo,
		reviews:  reviewRepo,
		notify:   notify,
	}
}

func (s *projectService) Create(ctx context.Context, name, description string) (*types.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	var created *types.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := s.projects.Create(ctx, tx, &types.Project{
			Name:         name,
			Description:  description,
			CurrentStage: types.StageMarketResearch,
		})
		if err != nil {
			return err
		}
		// The document starts empty at project creation and only ever
		// grows through merges.
		if _, err := s.docs.Upsert(ctx, tx, &types.PrdDocument{
			ProjectID: project.ID,
			Data:      datatypes.JSON([]byte(`{}`)),
		}); err != nil {
			return err
		}
		created = project
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

func (s *projectService) GetByID(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	return s.projects.GetByID(ctx, nil, projectID)
}

func (s *projectService) List(ctx context.Context, limit int) ([]*types.Project, error) {
	return s.projects.List(ctx, nil, limit)
}

func (s *projectService) Delete(ctx context.Context, projectID uuid.UUID) error {
	// Child rows go with the project via ON DELETE CASCADE.
	return s.projects.SoftDeleteByID(ctx, nil, projectID)
}

func (s *projectService) AdvanceStage(ctx context.Context, projectID uuid.UUID, stage int) error {
	if stage < types.StageMarketResearch || stage > types.StageAnalytics {
		return fmt.Errorf("invalid stage %d", stage)
	}
	if err := s.projects.UpdateStage(ctx, nil, projectID, stage); err != nil {
		return err
	}
	s.notify.StageAdvanced(projectID, stage)
	return nil
}

func (s *projectService) ListMessages(ctx context.Context, projectID uuid.UUID, limit int) ([]*types.ChatMessage, error) {
	return s.messages.GetByProjectID(ctx, nil, projectID, limit)
}

func (s *projectService) GetDocument(ctx context.Context, projectID uuid.UUID) (*prd.Data, bool, error) {
	row, err := s.docs.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, false, err
	}
	ready := row != nil && row.Ready
	return DecodeDocument(row), ready, nil
}

func (s *projectService) ApplyManualEdit(ctx context.Context, projectID uuid.UUID, patch *prd.Data) (*prd.Data, bool, error) {
	row, err := s.docs.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, false, err
	}

	merged := prd.Merge(DecodeDocument(row), patch)
	// Sticky, same as the chat turn path: an edit never un-readies an
	// already-ready document.
	ready := (row != nil && row.Ready) || prd.RequiredFieldsComplete(merged)

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, false, err
	}
	if row == nil {
		row = &types.PrdDocument{ProjectID: projectID}
	}
	row.Data = datatypes.JSON(raw)
	row.Ready = ready
	row.UpdatedAt = time.Now()
	if _, err := s.docs.Upsert(ctx, nil, row); err != nil {
		return nil, false, err
	}
	s.notify.PrdUpdated(projectID, ready)

	return merged, ready, nil
}

func (s *projectService) AddCompetitor(ctx context.Context, projectID uuid.UUID, url string) (*types.CompetitorProduct, error) {
	if url == "" {
		return nil, fmt.Errorf("competitor url is required")
	}
	return s.products.Create(ctx, nil, &types.CompetitorProduct{
		ProjectID: projectID,
		URL:       url,
		Status:    types.ScrapeStatusPending,
	})
}

func (s *projectService) ListCompetitors(ctx context.Context, projectID uuid.UUID) ([]*types.CompetitorProduct, error) {
	return s.products.GetByProjectID(ctx, nil, projectID)
}

func (s *projectService) ListCompetitorReviews(ctx context.Context, productID uuid.UUID, limit int) ([]*types.CompetitorReview, error) {
	return s.reviews.GetByProductID(ctx, nil, productID, limit)
}
