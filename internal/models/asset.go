package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset statuses. REQUESTED and MAINTENANCE are reachable states but no
// in-scope flow produces them; only the lending service writes this column.
const (
	AssetAvailable   = "AVAILABLE"
	AssetRequested   = "REQUESTED"
	AssetOnLoan      = "ON_LOAN"
	AssetMaintenance = "MAINTENANCE"
)

// Asset is a lendable physical item. Name holds the generated code (e.g. PC-001).
type Asset struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;index" json:"name"`
	Category    string    `gorm:"column:category;not null;index" json:"category"`
	Description string    `gorm:"column:description" json:"description"`
	Status      string    `gorm:"column:status;not null;default:AVAILABLE" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Asset) TableName() string {
	return "assets"
}

// BeforeCreate sets the UUID if not set (for DBs without gen_random_uuid).
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
