package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PrdDocument holds the accumulating structured PRD for one project.
// The Data column is the jsonb serialization of prd.Data; it starts out
// as an empty object and grows one merge per assistant turn.
//
// There is no version column: a manual field edit racing a live AI
// turn is read-modify-write with last-write-wins (see DESIGN.md).
//
// Ready latches: the completion predicate is re-evaluated on every
// turn and edit, but once stored as true it stays true even when a
// later evaluation alone would not satisfy the predicate.
type PrdDocument struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`
	Project   *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Data      datatypes.JSON `gorm:"column:data;type:jsonb" json:"data"`
	Ready     bool           `gorm:"column:ready;not null;default:false" json:"ready"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (PrdDocument) TableName() string { return "prd_document" }
