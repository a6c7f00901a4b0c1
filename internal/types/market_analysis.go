package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MarketAnalysis struct {
	ID                           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID                    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`
	Project                      *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	MarketSize                   string         `gorm:"column:market_size;type:text" json:"marketSize"`
	TargetUserProfile            string         `gorm:"column:target_user_profile;type:text" json:"targetUserProfile"`
	CompetitionLandscape         string         `gorm:"column:competition_landscape;type:text" json:"competitionLandscape"`
	PricingStrategy              string         `gorm:"column:pricing_strategy;type:text" json:"pricingStrategy"`
	DifferentiationOpportunities datatypes.JSON `gorm:"column:differentiation_opportunities;type:jsonb" json:"differentiationOpportunities"`
	GeneratedAt                  time.Time      `gorm:"column:generated_at;not null;default:now()" json:"generatedAt"`
}

func (MarketAnalysis) TableName() string { return "market_analysis" }
