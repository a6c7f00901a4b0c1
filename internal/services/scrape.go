package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kaipinbao/kaipinbao-backend/internal/clients/firecrawl"
	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
	"github.com/kaipinbao/kaipinbao-backend/internal/repos"
	"github.com/kaipinbao/kaipinbao-backend/internal/scraper"
	"github.com/kaipinbao/kaipinbao-backend/internal/types"
)

// ScrapeOutcome is the invocation summary returned to the caller; the
// durable result lives on the CompetitorProduct row and its reviews.
type ScrapeOutcome struct {
	ProductTitle     string `json:"product_title,omitempty"`
	ReviewCount      int    `json:"review_count"`
	HasScreenshot    bool   `json:"has_screenshot"`
	HasReviewSummary bool   `json:"has_review_summary"`
}

type ScrapeService interface {
	// Run executes one scrape job for the product. Only a failed
	// network fetch produces the terminal failed status; heuristic
	// misses just yield a sparser completed row.
	Run(ctx context.Context, productID uuid.UUID, url string) (*ScrapeOutcome, error)
}

type scrapeService struct {
	db       *gorm.DB
	log      *logger.Logger
	crawler  firecrawl.Client
	products repos.CompetitorProductRepo
	reviews  repos.CompetitorReviewRepo
	notify   Notifier
}

func NewScrapeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	crawler firecrawl.Client,
	productRepo repos.CompetitorProductRepo,
	reviewRepo repos.CompetitorReviewRepo,
	notify Notifier,
) ScrapeService {
	return &scrapeService{
		db:       db,
		log:      baseLog.With("service", "ScrapeService"),
		crawler:  crawler,
		products: productRepo,
		reviews:  reviewRepo,
		notify:   notify,
	}
}

var priceRe = regexp.MustCompile(`[$¥€£]\s?\d+(?:[.,]\d{1,2})?`)

func (s *scrapeService) Run(ctx context.Context, productID uuid.UUID, url string) (*ScrapeOutcome, error) {
	product, err := s.products.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, fmt.Errorf("load competitor product: %w", err)
	}

	s.setStatus(ctx, product, types.ScrapeStatusScraping)

	page, err := s.crawler.Scrape(ctx, url)
	if err != nil {
		s.setStatus(ctx, product, types.ScrapeStatusFailed)
		return nil, fmt.Errorf("scrape fetch: %w", err)
	}

	// Heuristic passes are independent; partial or empty results are
	// still a completed scrape.
	mainImage := scraper.ExtractMainImage(page.Markdown, page.HTML)
	if mainImage == "" {
		mainImage = page.OGImage
	}
	images := scraper.ExtractImageCandidates(page.Markdown, 8)
	summary := scraper.ExtractReviewSummary(page.Markdown)
	extracted := scraper.ExtractReviews(page.Markdown)

	rows := make([]*types.CompetitorReview, 0, len(extracted))
	for _, r := range extracted {
		rows = append(rows, &types.CompetitorReview{
			CompetitorProductID: product.ID,
			ReviewText:          r.Text,
			Rating:              r.Rating,
			IsPositive:          scraper.Polarity(r),
		})
	}

	product.ProductTitle = page.Title
	product.MainImage = mainImage
	product.Price = priceRe.FindString(page.Markdown)
	product.Rating = summary.OverallRating
	product.ReviewCount = summary.TotalReviews
	if product.ReviewCount == 0 {
		product.ReviewCount = len(rows)
	}
	product.Status = types.ScrapeStatusCompleted
	product.UpdatedAt = time.Now()
	if raw, mErr := json.Marshal(images); mErr == nil {
		product.ProductImages = datatypes.JSON(raw)
	}
	if raw, mErr := json.Marshal(map[string]any{
		"review_summary": summary,
		"screenshot":     page.Screenshot,
	}); mErr == nil {
		product.ScrapedData = datatypes.JSON(raw)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.reviews.CreateBatch(gctx, nil, rows)
		return err
	})
	g.Go(func() error {
		return s.products.Update(gctx, nil, product)
	})
	if err := g.Wait(); err != nil {
		s.setStatus(ctx, product, types.ScrapeStatusFailed)
		return nil, fmt.Errorf("persist scrape results: %w", err)
	}

	s.notify.ScrapeStatusChanged(product.ProjectID, product.ID, types.ScrapeStatusCompleted)

	return &ScrapeOutcome{
		ProductTitle:     product.ProductTitle,
		ReviewCount:      len(rows),
		HasScreenshot:    page.Screenshot != "",
		HasReviewSummary: summary.OverallRating > 0 || summary.TotalReviews > 0,
	}, nil
}

func (s *scrapeService) setStatus(ctx context.Context, product *types.CompetitorProduct, status string) {
	if err := s.products.UpdateStatus(ctx, nil, product.ID, status); err != nil {
		s.log.Error("Failed to update scrape status", "productID", product.ID, "status", status, "error", err)
		return
	}
	product.Status = status
	s.notify.ScrapeStatusChanged(product.ProjectID, product.ID, status)
}
