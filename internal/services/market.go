package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kaipinbao/kaipinbao-backend/internal/clients/gemini"
	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/repos"
	"github.com/kaipinbao/kaipinbao-backend/internal/types"
)

const marketAnalysisPrompt = `你是一名消费品市场分析师。根据给定的项目信息，输出一个 JSON 对象，字段为：
marketSize（市场规模概述）、targetUserProfile（目标用户画像）、competitionLandscape（竞争格局）、
pricingStrategy（定价策略建议）、differentiationOpportunities（差异化机会，字符串数组）。只输出 JSON。`

type MarketAnalysisService interface {
	// Generate runs the single-shot LLM call and upserts the project's
	// market analysis. Vendor rate-limit and quota errors pass through
	// typed so the handler can distinguish them.
	Generate(ctx context.Context, projectID uuid.UUID) (*types.MarketAnalysis, error)
	GetByProjectID(ctx context.Context, projectID uuid.UUID) (*types.MarketAnalysis, error)
}

type marketAnalysisService struct {
	db       *gorm.DB
	log      *logger.Logger
	ai       gemini.Client
	projects repos.ProjectRepo
	products repos.CompetitorProductRepo
	docs     repos.PrdDocumentRepo
	analyses repos.MarketAnalysisRepo
	notify   Notifier
}

func NewMarketAnalysisService(
	db *gorm.DB,
	baseLog *logger.Logger,
	ai gemini.Client,
	projectRepo repos.ProjectRepo,
	productRepo repos.CompetitorProductRepo,
	docRepo repos.PrdDocumentRepo,
	analysisRepo repos.MarketAnalysisRepo,
	notify Notifier,
) MarketAnalysisService {
	return &marketAnalysisService{
		db:       db,
		log:      baseLog.With("service", "MarketAnalysisService"),
		ai:       ai,
		projects: projectRepo,
		products: productRepo,
		docs:     docRepo,
		analyses: analysisRepo,
		notify:   notify,
	}
}

func (s *marketAnalysisService) Generate(ctx context.Context, projectID uuid.UUID) (*types.MarketAnalysis, error) {
	project, err := s.projects.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	user, err := s.buildUserPrompt(ctx, project)
	if err != nil {
		return nil, err
	}

	obj, err := s.ai.GenerateJSON(ctx, marketAnalysisPrompt, user)
	if err != nil {
		return nil, err
	}

	analysis := &types.MarketAnalysis{
		ProjectID:            projectID,
		MarketSize:           asString(obj["marketSize"]),
		TargetUserProfile:    asString(obj["targetUserProfile"]),
		CompetitionLandscape: asString(obj["competitionLandscape"]),
		PricingStrategy:      asString(obj["pricingStrategy"]),
		GeneratedAt:          time.Now(),
	}
	if opps := asStringSlice(obj["differentiationOpportunities"]); len(opps) > 0 {
		raw, mErr := json.Marshal(opps)
		if mErr == nil {
			analysis.DifferentiationOpportunities = datatypes.JSON(raw)
		}
	}

	if _, err := s.analyses.Upsert(ctx, nil, analysis); err != nil {
		return nil, fmt.Errorf("persist market analysis: %w", err)
	}
	s.notify.MarketAnalysisReady(projectID)

	return analysis, nil
}

func (s *marketAnalysisService) GetByProjectID(ctx context.Context, projectID uuid.UUID) (*types.MarketAnalysis, error) {
	return s.analyses.GetByProjectID(ctx, nil, projectID)
}

func (s *marketAnalysisService) buildUserPrompt(ctx context.Context, project *types.Project) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "项目名称：%s\n", project.Name)
	if project.Description != "" {
		fmt.Fprintf(&b, "项目描述：%s\n", project.Description)
	}

	products, err := s.products.GetByProjectID(ctx, nil, project.ID)
	if err != nil {
		return "", fmt.Errorf("load competitor products: %w", err)
	}
	for _, p := range products {
		if p.Status != types.ScrapeStatusCompleted {
			continue
		}
		fmt.Fprintf(&b, "竞品：%s 价格 %s 评分 %.1f（%d 条评论）\n", p.ProductTitle, p.Price, p.Rating, p.ReviewCount)
	}

	docRow, err := s.docs.GetByProjectID(ctx, nil, project.ID)
	if err != nil {
		return "", fmt.Errorf("load prd document: %w", err)
	}
	if data := DecodeDocument(docRow); data.ProductCategory != nil {
		fmt.Fprintf(&b, "产品品类：%s\n", *data.ProductCategory)
	}

	return b.String(), nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range arr {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
