package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workflow stages a project moves through, in order.
const (
	StageMarketResearch = 1
	StagePrdDefinition  = 2
	StageVisualAssets   = 3
	StageLandingPage    = 4
	StageAnalytics      = 5
)

type Project struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Description  string         `gorm:"column:description" json:"description"`
	CurrentStage int            `gorm:"column:current_stage;not null;default:1" json:"current_stage"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Project) TableName() string { return "project" }
