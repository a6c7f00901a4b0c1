package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Scrape job lifecycle. Terminal states are final; a retry is a fresh
// explicit invocation, never automatic.
const (
	ScrapeStatusPending   = "pending"
	ScrapeStatusScraping  = "scraping"
	ScrapeStatusCompleted = "completed"
	ScrapeStatusFailed    = "failed"
)

type CompetitorProduct struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project       *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	URL           string         `gorm:"column:url;not null" json:"url"`
	ProductTitle  string         `gorm:"column:product_title" json:"product_title"`
	ProductImages datatypes.JSON `gorm:"column:product_images;type:jsonb" json:"product_images"`
	MainImage     string         `gorm:"column:main_image" json:"main_image"`
	Price         string         `gorm:"column:price" json:"price"`
	Rating        float64        `gorm:"column:rating" json:"rating"`
	ReviewCount   int            `gorm:"column:review_count" json:"review_count"`
	Status        string         `gorm:"column:status;not null;default:'pending'" json:"status"`
	ScrapedData   datatypes.JSON `gorm:"column:scraped_data;type:jsonb" json:"scraped_data"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CompetitorProduct) TableName() string { return "competitor_product" }
