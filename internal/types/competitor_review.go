package types

import (
	"time"

	"github.com/google/uuid"
)

// CompetitorReview rows are bulk-inserted after a successful scrape and
// never individually edited. Rating and IsPositive are nullable: not
// every extraction strategy recovers a star rating.
type CompetitorReview struct {
	ID                  uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CompetitorProductID uuid.UUID          `gorm:"type:uuid;not null;index" json:"competitor_product_id"`
	CompetitorProduct   *CompetitorProduct `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompetitorProductID;references:ID" json:"competitor_product,omitempty"`
	ReviewText          string             `gorm:"column:review_text;type:text;not null" json:"review_text"`
	Rating              *int               `gorm:"column:rating" json:"rating"`
	IsPositive          *bool              `gorm:"column:is_positive" json:"is_positive"`
	CreatedAt           time.Time          `gorm:"not null;default:now()" json:"created_at"`
}

func (CompetitorReview) TableName() string { return "competitor_review" }
